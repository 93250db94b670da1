// Package backtest replays historical games in chronological order and
// simulates the full betting loop: settle, predict, screen, size, update.
package backtest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/fastbreak/internal/logger"
	"github.com/yourusername/fastbreak/internal/metrics"
	"github.com/yourusername/fastbreak/internal/models"
	"github.com/yourusername/fastbreak/internal/odds"
	"github.com/yourusername/fastbreak/internal/ratings"
	"github.com/yourusername/fastbreak/internal/strategy"
)

// Config holds the engine-level run parameters. Screening and sizing
// thresholds live on the Screener and Sizer themselves.
type Config struct {
	InitialBankroll     float64
	VigMethod           odds.VigMethod
	MaxEventExposurePct float64
	MaxBetsPerDay       int
}

// Engine orchestrates backtesting runs
type Engine struct {
	config   Config
	model    ratings.Model
	screener *strategy.Screener
	sizer    *strategy.Sizer
	logger   *logrus.Logger
}

// NewEngine creates a backtesting engine
func NewEngine(cfg Config, model ratings.Model, screener *strategy.Screener, sizer *strategy.Sizer, logger *logrus.Logger) (*Engine, error) {
	if model == nil {
		return nil, fmt.Errorf("rating model is required")
	}
	if cfg.InitialBankroll <= 0 {
		return nil, fmt.Errorf("initial bankroll must be positive, got %v", cfg.InitialBankroll)
	}
	if screener == nil {
		screener = strategy.NewScreener()
	}
	if sizer == nil {
		sizer = strategy.NewSizer()
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Engine{
		config:   cfg,
		model:    model,
		screener: screener,
		sizer:    sizer,
		logger:   logger,
	}, nil
}

// Config returns the engine configuration
func (e *Engine) Config() Config {
	return e.config
}

// Run replays the game stream. Games must arrive in non-decreasing
// tipoff order; a violation aborts the run with a SequenceError while
// preserving the partial ledger. Each game goes through the same fixed
// sequence so no outcome can leak into its own prediction:
// settle earlier bets, predict, screen the markets, place bets, then
// feed the outcome to the model.
func (e *Engine) Run(ctx context.Context, games []*models.Game) (*State, error) {
	state := NewState(e.config.InitialBankroll)
	state.Status = RunStatusRunning
	e.logger.WithFields(logrus.Fields{
		"games":    len(games),
		"bankroll": e.config.InitialBankroll,
		"model":    e.model.Name(),
	}).Info("Starting backtest run")

	outcomes := make(map[string]*models.Game)
	var lastTipoff time.Time

	for _, game := range games {
		if err := ctx.Err(); err != nil {
			state.Status = RunStatusAborted
			metrics.RecordBacktestRun(e.model.Name(), "aborted")
			return state, err
		}
		if !lastTipoff.IsZero() && game.Tipoff.Before(lastTipoff) {
			state.Status = RunStatusAborted
			metrics.RecordBacktestRun(e.model.Name(), "aborted")
			seqErr := &models.SequenceError{GameID: game.ID, Previous: lastTipoff, Current: game.Tipoff}
			e.logger.WithError(seqErr).Error("Game stream out of order, aborting run")
			return state, seqErr
		}
		lastTipoff = game.Tipoff

		e.settleDue(state, outcomes, game.Tipoff)
		e.processGame(state, game)

		if game.IsFinal() {
			outcomes[game.ID] = game
			e.model.Update(game.HomeTeam, game.AwayTeam, ratings.Outcome{
				HomeWon: game.HomeWon(),
				Margin:  game.Margin(),
				Season:  game.Season,
			})
		}
	}

	// flush: every processed game is final by now
	e.settleDue(state, outcomes, lastTipoff.Add(time.Hour))

	state.Status = RunStatusCompleted
	metrics.RecordBacktestRun(e.model.Name(), "completed")
	metrics.CurrentBankroll.Set(state.CurrentBankroll)
	e.logger.WithFields(logrus.Fields{
		"bets_settled": len(state.Settled),
		"bets_pending": len(state.Pending),
		"bankroll":     state.CurrentBankroll,
	}).Info("Backtest run completed")
	return state, nil
}

// processGame runs prediction, screening, and sizing for one game.
// The model prediction is read-only here; the outcome is applied by the
// caller after all bets are recorded.
func (e *Engine) processGame(state *State, game *models.Game) {
	if len(game.Markets) == 0 {
		return
	}

	homeProb := e.model.Predict(game.HomeTeam, game.AwayTeam, ratings.Modifiers{
		HomeRest:  restContext(game.HomeRest),
		AwayRest:  restContext(game.AwayRest),
		IsPlayoff: game.IsPlayoff,
	})

	var candidates []models.Opportunity
	for i := range game.Markets {
		market := &game.Markets[i]
		opps, err := e.screenMarket(game, market, homeProb)
		if err != nil {
			metrics.MarketsSkippedTotal.Inc()
			e.logger.WithFields(logrus.Fields{
				"game_id":     game.ID,
				"market_type": market.Type,
			}).WithError(err).Warn("Skipping malformed market quote")
			continue
		}
		candidates = append(candidates, opps...)
	}

	for _, opp := range strategy.RankByEV(candidates) {
		e.placeBet(state, game, opp)
	}
}

// screenMarket evaluates both sides of a two-way quote. Moneylines use
// the model's win probability directly; spreads use the normal
// cover-probability estimate derived from it. Markets the model cannot
// price (totals, props) are counted and skipped.
func (e *Engine) screenMarket(game *models.Game, market *models.Market, homeProb float64) ([]models.Opportunity, error) {
	var homeSideProb float64
	switch market.Type {
	case models.MarketTypeMoneyline:
		homeSideProb = homeProb
	case models.MarketTypeSpread:
		homeSideProb = ratings.CoverProbability(homeProb, market.Line)
	default:
		metrics.MarketsSkippedTotal.Inc()
		e.logger.WithFields(logrus.Fields{
			"game_id":     game.ID,
			"market_type": market.Type,
		}).Debug("No model for market type")
		return nil, nil
	}
	if !market.IsTwoWay() {
		return nil, fmt.Errorf("one-sided quote: %w", models.ErrInvalidMarket)
	}

	fairHome, fairAway, err := odds.FairProbabilities(market.HomeOdds, market.AwayOdds, e.config.VigMethod)
	if err != nil {
		return nil, err
	}

	sides := []struct {
		side     models.MarketSide
		team     string
		prob     float64
		fairProb float64
	}{
		{models.MarketSideHome, game.HomeTeam, homeSideProb, fairHome},
		{models.MarketSideAway, game.AwayTeam, 1 - homeSideProb, fairAway},
	}

	var out []models.Opportunity
	for _, s := range sides {
		opp, err := e.screener.Evaluate(s.prob, s.fairProb, market.QuoteFor(s.side))
		if err != nil {
			return nil, err
		}
		opp.GameID = game.ID
		opp.MarketType = market.Type
		opp.Side = s.side
		opp.Team = s.team
		opp.Line = market.Line
		out = append(out, opp)
	}
	return out, nil
}

// placeBet applies sizing and the ledger caps, then records the pending
// bet. The bankroll is not debited at placement.
func (e *Engine) placeBet(state *State, game *models.Game, opp models.Opportunity) {
	log := e.logger.WithFields(logrus.Fields{
		"game_id": game.ID,
		"side":    opp.Side,
		"team":    opp.Team,
		"odds":    opp.Odds,
		"edge":    opp.Edge,
	})

	if !opp.Accepted() {
		state.RecordRejection(models.RejectionFailedScreening)
		metrics.RecordBetRejected(string(models.RejectionFailedScreening))
		return
	}

	if e.config.MaxBetsPerDay > 0 && state.BetsOnDay(game.Tipoff) >= e.config.MaxBetsPerDay {
		state.RecordRejection(models.RejectionDailyBetCap)
		metrics.RecordBetRejected(string(models.RejectionDailyBetCap))
		log.Debug("Daily bet cap reached")
		return
	}

	decision, err := e.sizer.Size(state.CurrentBankroll, opp.ModelProb, opp.Odds)
	if err != nil {
		log.WithError(err).Warn("Sizing failed")
		return
	}
	if decision.Rejected {
		state.RecordRejection(decision.Reason)
		metrics.RecordBetRejected(string(decision.Reason))
		log.WithField("reason", decision.Reason).Debug("Bet rejected at sizing")
		return
	}

	if e.config.MaxEventExposurePct > 0 {
		limit := e.config.MaxEventExposurePct * state.CurrentBankroll
		if state.GameExposure(game.ID)+decision.Stake > limit {
			state.RecordRejection(models.RejectionEventExposure)
			metrics.RecordBetRejected(string(models.RejectionEventExposure))
			log.Debug("Per-event exposure cap reached")
			return
		}
	}

	bet := &models.Bet{
		ID:             uuid.New(),
		GameID:         game.ID,
		MarketType:     opp.MarketType,
		Side:           opp.Side,
		Team:           opp.Team,
		Line:           opp.Line,
		Stake:          decision.Stake,
		Odds:           opp.Odds,
		ModelProb:      opp.ModelProb,
		MarketFairProb: opp.MarketFairProb,
		Edge:           opp.Edge,
		ExpectedValue:  opp.AdjustedEV,
		Status:         models.BetStatusPending,
		PlacedAt:       game.Tipoff,
		BankrollBefore: state.CurrentBankroll,
	}
	state.RecordBet(bet)
	metrics.RecordBetPlaced(string(bet.MarketType), bet.Stake/state.CurrentBankroll)
	e.logger.WithFields(logger.BetFields(bet)).WithFields(logrus.Fields{
		"adjusted_ev":    opp.AdjustedEV,
		"recommendation": opp.Recommendation,
	}).Info("Bet placed")
}

// settleDue settles every pending bet whose game tipped off at or
// before the cutoff and whose outcome is known.
func (e *Engine) settleDue(state *State, outcomes map[string]*models.Game, cutoff time.Time) {
	due := make([]*models.Bet, 0)
	for _, bet := range state.Pending {
		game, ok := outcomes[bet.GameID]
		if !ok || game.Tipoff.After(cutoff) {
			continue
		}
		due = append(due, bet)
	}

	for _, bet := range due {
		game := outcomes[bet.GameID]
		status, profit := settleAgainst(bet, game)
		state.SettleBet(bet, status, profit, game.Tipoff)
		metrics.RecordBetSettled(string(status))
		e.logger.WithFields(logger.BetFields(bet)).
			WithField("bankroll", state.CurrentBankroll).
			Info("Bet settled")
	}
}

// settleAgainst grades a bet against a final game. Pushes return the
// stake untouched.
func settleAgainst(bet *models.Bet, game *models.Game) (models.BetStatus, float64) {
	won, push := gradeBet(bet, game)
	if push {
		return models.BetStatusPush, 0
	}
	if !won {
		return models.BetStatusLost, -bet.Stake
	}
	profit, err := odds.ProfitOnWin(bet.Stake, bet.Odds)
	if err != nil {
		// odds were validated at placement
		return models.BetStatusPush, 0
	}
	return models.BetStatusWon, profit
}

func gradeBet(bet *models.Bet, game *models.Game) (won, push bool) {
	margin := float64(game.Margin())

	switch bet.MarketType {
	case models.MarketTypeMoneyline:
		if margin == 0 {
			return false, true
		}
		homeWon := margin > 0
		return (bet.Side == models.MarketSideHome) == homeWon, false
	case models.MarketTypeSpread:
		// home covers when margin + line > 0; the away side mirrors it
		adj := margin + bet.Line
		if bet.Side == models.MarketSideAway {
			adj = -adj
		}
		if adj == 0 {
			return false, true
		}
		return adj > 0, false
	default:
		// only screened market types can reach the ledger
		return false, true
	}
}

func restContext(r models.Rest) ratings.RestContext {
	return ratings.RestContext{
		DaysRest:    r.DaysRest,
		BackToBack:  r.BackToBack,
		TravelMiles: r.TravelMiles,
	}
}
