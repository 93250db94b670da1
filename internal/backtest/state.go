package backtest

import (
	"time"

	"github.com/yourusername/fastbreak/internal/models"
)

// RunStatus is the lifecycle state of a backtest run
type RunStatus string

const (
	RunStatusInitialized RunStatus = "INITIALIZED"
	RunStatusRunning     RunStatus = "RUNNING"
	RunStatusCompleted   RunStatus = "COMPLETED"
	RunStatusAborted     RunStatus = "ABORTED"
)

// State tracks the bankroll ledger during a run. Placing a bet never
// touches the bankroll; the bankroll is mutated exactly once, at
// settlement. Exposure and daily counts are bookkeeping for the caps.
type State struct {
	Status          RunStatus
	InitialBankroll float64
	CurrentBankroll float64
	PeakBankroll    float64

	Pending []*models.Bet
	Settled []*models.Bet

	EquityCurve EquityCurve
	Rejections  map[models.RejectionReason]int

	gameExposure map[string]float64
	dailyCounts  map[time.Time]int
}

// NewState initializes the ledger for a run
func NewState(initialBankroll float64) *State {
	return &State{
		Status:          RunStatusInitialized,
		InitialBankroll: initialBankroll,
		CurrentBankroll: initialBankroll,
		PeakBankroll:    initialBankroll,
		Rejections:      make(map[models.RejectionReason]int),
		gameExposure:    make(map[string]float64),
		dailyCounts:     make(map[time.Time]int),
	}
}

// RecordBet registers a pending bet. The stake is committed to exposure
// tracking but the bankroll itself does not move until settlement.
func (s *State) RecordBet(bet *models.Bet) {
	s.Pending = append(s.Pending, bet)
	s.gameExposure[bet.GameID] += bet.Stake
	s.dailyCounts[dayOf(bet.PlacedAt)]++
}

// SettleBet moves a pending bet to the settled ledger and applies its
// profit to the bankroll. Pushes return the stake, so profit is zero.
func (s *State) SettleBet(bet *models.Bet, status models.BetStatus, profit float64, settledAt time.Time) {
	bet.Status = status
	bet.SettledAt = &settledAt
	bet.Profit = &profit
	payout := bet.Stake + profit
	if status == models.BetStatusLost {
		payout = 0
	}
	bet.Payout = &payout

	s.CurrentBankroll += profit
	after := s.CurrentBankroll
	bet.BankrollAfter = &after
	if s.CurrentBankroll > s.PeakBankroll {
		s.PeakBankroll = s.CurrentBankroll
	}

	for i, pending := range s.Pending {
		if pending.ID == bet.ID {
			s.Pending = append(s.Pending[:i], s.Pending[i+1:]...)
			break
		}
	}
	s.Settled = append(s.Settled, bet)
	s.recordEquityPoint(settledAt)
}

// RecordRejection counts a bet that was screened or sized away
func (s *State) RecordRejection(reason models.RejectionReason) {
	s.Rejections[reason]++
}

// GameExposure returns the total stake pending on a game
func (s *State) GameExposure(gameID string) float64 {
	return s.gameExposure[gameID]
}

// BetsOnDay returns how many bets were placed on a calendar day
func (s *State) BetsOnDay(day time.Time) int {
	return s.dailyCounts[dayOf(day)]
}

// Drawdown returns the current peak-to-trough drawdown
func (s *State) Drawdown() float64 {
	if s.PeakBankroll == 0 {
		return 0
	}
	dd := (s.PeakBankroll - s.CurrentBankroll) / s.PeakBankroll
	if dd < 0 {
		return 0
	}
	return dd
}

// AllBets returns settled then pending bets, in placement order within
// each group
func (s *State) AllBets() []*models.Bet {
	out := make([]*models.Bet, 0, len(s.Settled)+len(s.Pending))
	out = append(out, s.Settled...)
	out = append(out, s.Pending...)
	return out
}

func (s *State) recordEquityPoint(t time.Time) {
	s.EquityCurve = append(s.EquityCurve, EquityPoint{
		Time:     t,
		Value:    s.CurrentBankroll,
		Drawdown: s.Drawdown(),
	})
}

func dayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
