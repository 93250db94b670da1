package strategy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/fastbreak/internal/models"
)

func TestSizer_FractionalKelly(t *testing.T) {
	s := NewSizer()
	s.MaxBetPct = 1.0 // isolate the Kelly math

	// p=0.55 at +100: full Kelly = (0.55*2-1)/1 = 0.10, quarter = 0.025
	d, err := s.Size(10000, 0.55, +100)
	require.NoError(t, err)

	assert.False(t, d.Rejected)
	assert.InDelta(t, 0.10, d.FullKelly, 1e-12)
	assert.InDelta(t, 250, d.Stake, 1e-9)
}

func TestSizer_PerBetCapBindsBeforeKelly(t *testing.T) {
	s := NewSizer()

	// huge edge: quarter Kelly would exceed 5% of bankroll
	d, err := s.Size(10000, 0.75, +100)
	require.NoError(t, err)

	assert.False(t, d.Rejected)
	assert.InDelta(t, 500, d.Stake, 1e-9)
}

func TestSizer_NegativeKellyRejected(t *testing.T) {
	s := NewSizer()

	d, err := s.Size(10000, 0.45, -110)
	require.NoError(t, err)

	assert.True(t, d.Rejected)
	assert.Equal(t, models.RejectionNegativeKelly, d.Reason)
	assert.Zero(t, d.Stake)
}

func TestSizer_MinStakeFloorRejects(t *testing.T) {
	s := NewSizer()
	s.MinStake = 10

	// tiny bankroll: computed stake lands under the floor
	d, err := s.Size(100, 0.55, +100)
	require.NoError(t, err)

	assert.True(t, d.Rejected)
	assert.Equal(t, models.RejectionBelowMinStake, d.Reason)
	assert.Zero(t, d.Stake, "floor rejects, never rounds up")
}

func TestSizer_DepletedBankrollIsError(t *testing.T) {
	s := NewSizer()

	_, err := s.Size(0, 0.55, +100)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrBankrollDepleted))

	_, err = s.Size(-50, 0.55, +100)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrBankrollDepleted))
}

func TestSizer_BankrollBelowStakeFloorRejected(t *testing.T) {
	s := NewSizer()
	s.MinStake = 1.0

	d, err := s.Size(0.50, 0.55, +100)
	require.NoError(t, err)

	assert.True(t, d.Rejected)
	assert.Equal(t, models.RejectionBankroll, d.Reason)
}

func TestSizer_StakeRoundedDownToCents(t *testing.T) {
	s := NewSizer()
	s.MaxBetPct = 1.0

	d, err := s.Size(1234.56, 0.55, +100)
	require.NoError(t, err)

	// 1234.56 * 0.025 = 30.864; truncated, not rounded
	assert.InDelta(t, 30.86, d.Stake, 1e-9)
}

func TestSizer_InvalidInputs(t *testing.T) {
	s := NewSizer()

	_, err := s.Size(10000, 1.0, +100)
	assert.Error(t, err)

	_, err = s.Size(10000, 0.55, 50)
	assert.Error(t, err)
}

func TestSizer_StakeNeverExceedsFivePercentAtTenThousand(t *testing.T) {
	s := NewSizer()

	for _, p := range []float64{0.52, 0.55, 0.60, 0.70, 0.90} {
		d, err := s.Size(10000, p, -110)
		require.NoError(t, err)
		if d.Rejected {
			continue
		}
		assert.LessOrEqual(t, d.Stake, 500.0, "p=%v", p)
	}
}
