// Package tracking computes performance analytics over a settled-bet
// ledger. It is read-only with respect to the engine: bets are appended
// after settlement and never modified here.
package tracking

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/yourusername/fastbreak/internal/models"
)

// Tracker accumulates settled bets for analysis
type Tracker struct {
	initialBankroll float64
	bets            []*models.Bet
}

// NewTracker creates a tracker. The initial bankroll anchors drawdown
// and return calculations.
func NewTracker(initialBankroll float64) *Tracker {
	return &Tracker{initialBankroll: initialBankroll}
}

// Record appends a settled bet. Pending bets are rejected because every
// metric here is defined over realized outcomes only.
func (t *Tracker) Record(bet *models.Bet) error {
	if !bet.IsSettled() {
		return fmt.Errorf("bet %s is not settled", bet.ID)
	}
	t.bets = append(t.bets, bet)
	return nil
}

// RecordAll appends every settled bet in the slice, skipping pending ones
func (t *Tracker) RecordAll(bets []*models.Bet) {
	for _, bet := range bets {
		if bet.IsSettled() {
			t.bets = append(t.bets, bet)
		}
	}
}

// Bets returns the recorded ledger in insertion order
func (t *Tracker) Bets() []*models.Bet {
	return t.bets
}

// Report holds the full analytics summary. With no settled bets every
// ratio is NaN rather than zero, so "no data" cannot be mistaken for
// "break-even".
type Report struct {
	TotalBets   int     `json:"total_bets"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	Pushes      int     `json:"pushes"`
	WinRate     float64 `json:"win_rate"`
	TotalStaked float64 `json:"total_staked"`
	TotalProfit float64 `json:"total_profit"`
	ROI         float64 `json:"roi"`
	SharpeRatio float64 `json:"sharpe_ratio"`
	MaxDrawdown float64 `json:"max_drawdown"`

	// |mean model probability - realized win rate| over decided bets
	CalibrationError float64 `json:"calibration_error"`

	LongestWinStreak  int `json:"longest_win_streak"`
	LongestLoseStreak int `json:"longest_lose_streak"`

	ByEdgeBucket map[string]BucketStats            `json:"by_edge_bucket,omitempty"`
	ByMarketType map[models.MarketType]BucketStats `json:"by_market_type,omitempty"`
}

// MarshalJSON renders NaN metrics as null, since JSON has no NaN
func (r Report) MarshalJSON() ([]byte, error) {
	type shadow struct {
		TotalBets         int                               `json:"total_bets"`
		Wins              int                               `json:"wins"`
		Losses            int                               `json:"losses"`
		Pushes            int                               `json:"pushes"`
		WinRate           *float64                          `json:"win_rate"`
		TotalStaked       float64                           `json:"total_staked"`
		TotalProfit       float64                           `json:"total_profit"`
		ROI               *float64                          `json:"roi"`
		SharpeRatio       *float64                          `json:"sharpe_ratio"`
		MaxDrawdown       *float64                          `json:"max_drawdown"`
		CalibrationError  *float64                          `json:"calibration_error"`
		LongestWinStreak  int                               `json:"longest_win_streak"`
		LongestLoseStreak int                               `json:"longest_lose_streak"`
		ByEdgeBucket      map[string]BucketStats            `json:"by_edge_bucket,omitempty"`
		ByMarketType      map[models.MarketType]BucketStats `json:"by_market_type,omitempty"`
	}
	return json.Marshal(shadow{
		TotalBets:         r.TotalBets,
		Wins:              r.Wins,
		Losses:            r.Losses,
		Pushes:            r.Pushes,
		WinRate:           nanToNil(r.WinRate),
		TotalStaked:       r.TotalStaked,
		TotalProfit:       r.TotalProfit,
		ROI:               nanToNil(r.ROI),
		SharpeRatio:       nanToNil(r.SharpeRatio),
		MaxDrawdown:       nanToNil(r.MaxDrawdown),
		CalibrationError:  nanToNil(r.CalibrationError),
		LongestWinStreak:  r.LongestWinStreak,
		LongestLoseStreak: r.LongestLoseStreak,
		ByEdgeBucket:      r.ByEdgeBucket,
		ByMarketType:      r.ByMarketType,
	})
}

func nanToNil(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// BucketStats is the per-segment breakdown
type BucketStats struct {
	Bets    int     `json:"bets"`
	Wins    int     `json:"wins"`
	Staked  float64 `json:"staked"`
	Profit  float64 `json:"profit"`
	ROI     float64 `json:"roi"`
	WinRate float64 `json:"win_rate"`
}

// Report computes the analytics over all recorded bets
func (t *Tracker) Report() Report {
	nan := math.NaN()
	r := Report{
		WinRate:          nan,
		ROI:              nan,
		SharpeRatio:      nan,
		MaxDrawdown:      nan,
		CalibrationError: nan,
	}
	if len(t.bets) == 0 {
		return r
	}

	var probSum float64
	for _, bet := range t.bets {
		r.TotalBets++
		r.TotalStaked += bet.Stake
		r.TotalProfit += bet.RealizedProfit()
		switch bet.Status {
		case models.BetStatusWon:
			r.Wins++
			probSum += bet.ModelProb
		case models.BetStatusLost:
			r.Losses++
			probSum += bet.ModelProb
		case models.BetStatusPush:
			r.Pushes++
		}
	}

	decided := r.Wins + r.Losses
	if decided > 0 {
		r.WinRate = float64(r.Wins) / float64(decided)
		r.CalibrationError = math.Abs(probSum/float64(decided) - r.WinRate)
	}
	if r.TotalStaked > 0 {
		r.ROI = r.TotalProfit / r.TotalStaked
	}
	r.SharpeRatio = t.sharpe()
	r.MaxDrawdown = t.maxDrawdown()
	r.LongestWinStreak, r.LongestLoseStreak = t.streaks()
	r.ByEdgeBucket = t.edgeBuckets()
	r.ByMarketType = t.marketTypes()
	return r
}

// sharpe is the mean per-bet return over its sample standard deviation.
// The sample (n-1) form matches how small bet ledgers are usually
// reported. NaN with fewer than two decided bets.
func (t *Tracker) sharpe() float64 {
	var returns []float64
	for _, bet := range t.bets {
		if bet.Status == models.BetStatusPush {
			continue
		}
		returns = append(returns, bet.Return())
	}
	if len(returns) < 2 {
		return math.NaN()
	}
	mean := 0.0
	for _, ret := range returns {
		mean += ret
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, ret := range returns {
		diff := ret - mean
		variance += diff * diff
	}
	variance /= float64(len(returns) - 1)
	if variance == 0 {
		return math.NaN()
	}
	return mean / math.Sqrt(variance)
}

func (t *Tracker) maxDrawdown() float64 {
	bankroll := t.initialBankroll
	peak := bankroll
	maxDD := 0.0
	for _, bet := range t.bets {
		bankroll += bet.RealizedProfit()
		if bankroll > peak {
			peak = bankroll
		}
		if peak > 0 {
			dd := (peak - bankroll) / peak
			if dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

func (t *Tracker) streaks() (win, lose int) {
	curWin, curLose := 0, 0
	for _, bet := range t.bets {
		switch bet.Status {
		case models.BetStatusWon:
			curWin++
			curLose = 0
		case models.BetStatusLost:
			curLose++
			curWin = 0
		default:
			continue
		}
		if curWin > win {
			win = curWin
		}
		if curLose > lose {
			lose = curLose
		}
	}
	return win, lose
}

var edgeBucketBounds = []struct {
	label string
	lo    float64
	hi    float64
}{
	{"0-2pts", 0.00, 0.02},
	{"2-5pts", 0.02, 0.05},
	{"5-10pts", 0.05, 0.10},
	{"10pts+", 0.10, math.Inf(1)},
}

func (t *Tracker) edgeBuckets() map[string]BucketStats {
	out := make(map[string]BucketStats)
	for _, bet := range t.bets {
		edge := math.Abs(bet.Edge)
		for _, b := range edgeBucketBounds {
			if edge >= b.lo && edge < b.hi {
				stats := out[b.label]
				accumulate(&stats, bet)
				out[b.label] = stats
				break
			}
		}
	}
	finalize(out)
	return out
}

func (t *Tracker) marketTypes() map[models.MarketType]BucketStats {
	grouped := make(map[string]BucketStats)
	for _, bet := range t.bets {
		stats := grouped[string(bet.MarketType)]
		accumulate(&stats, bet)
		grouped[string(bet.MarketType)] = stats
	}
	finalize(grouped)

	out := make(map[models.MarketType]BucketStats, len(grouped))
	for k, v := range grouped {
		out[models.MarketType(k)] = v
	}
	return out
}

func accumulate(stats *BucketStats, bet *models.Bet) {
	stats.Bets++
	stats.Staked += bet.Stake
	stats.Profit += bet.RealizedProfit()
	if bet.Status == models.BetStatusWon {
		stats.Wins++
	}
}

func finalize(buckets map[string]BucketStats) {
	for k, stats := range buckets {
		if stats.Staked > 0 {
			stats.ROI = stats.Profit / stats.Staked
		} else {
			stats.ROI = math.NaN()
		}
		if stats.Bets > 0 {
			stats.WinRate = float64(stats.Wins) / float64(stats.Bets)
		} else {
			stats.WinRate = math.NaN()
		}
		buckets[k] = stats
	}
}

// EdgeBucketLabels returns the bucket labels in ascending edge order,
// for stable report output
func EdgeBucketLabels() []string {
	labels := make([]string, 0, len(edgeBucketBounds))
	for _, b := range edgeBucketBounds {
		labels = append(labels, b.label)
	}
	return labels
}
