package models

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors
var (
	ErrInvalidOdds      = errors.New("odds outside legal American range")
	ErrInvalidMarket    = errors.New("malformed market quote")
	ErrBankrollDepleted = errors.New("bankroll depleted")
	ErrNotFound         = errors.New("record not found")
)

// SequenceError is fatal: the input game stream violated chronological
// ordering, which would allow lookahead leakage into the model.
type SequenceError struct {
	GameID   string
	Previous time.Time
	Current  time.Time
}

func (e *SequenceError) Error() string {
	return fmt.Sprintf("game %s at %s precedes already-processed timestamp %s",
		e.GameID, e.Current.Format(time.RFC3339), e.Previous.Format(time.RFC3339))
}

// RejectionReason explains why a sized bet was not placed
type RejectionReason string

const (
	RejectionBelowMinStake   RejectionReason = "below_min_stake"
	RejectionNegativeKelly   RejectionReason = "negative_kelly"
	RejectionBankroll        RejectionReason = "insufficient_bankroll"
	RejectionEventExposure   RejectionReason = "event_exposure_cap"
	RejectionDailyBetCap     RejectionReason = "daily_bet_cap"
	RejectionFailedScreening RejectionReason = "failed_screening"
)
