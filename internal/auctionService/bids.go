package auction

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"chit-auction/internal/auctionerrors"
	"chit-auction/internal/ledger"
	"chit-auction/internal/metrics"
	"chit-auction/internal/models"
	"chit-auction/utils"

	"github.com/shopspring/decimal"
)

// MaxBidders is the length of the ranking table
const MaxBidders = 3

// BidIncrements is the menu of increments, as percentages of the chit value
var BidIncrements = []decimal.Decimal{
	decimal.RequireFromString("0.1"),
	decimal.RequireFromString("0.2"),
	decimal.RequireFromString("0.3"),
	decimal.RequireFromString("0.4"),
	decimal.RequireFromString("0.5"),
	decimal.RequireFromString("1.0"),
}

// IsValidIncrement reports whether pct is on the increment menu
func IsValidIncrement(pct decimal.Decimal) bool {
	for _, inc := range BidIncrements {
		if inc.Equal(pct) {
			return true
		}
	}
	return false
}

// Increment is the loss added by a bid of pct: floor(chitValue × pct / 100).
// It never depends on the previous loss.
func Increment(chitValue int64, pct decimal.Decimal) int64 {
	return ledger.PercentOf(chitValue, pct)
}

// JoinRoom admits userID to the room of the current round when code matches.
// Surrounding whitespace in code is ignored.
func (e *Engine) JoinRoom(userID, code string) error {
	code = strings.TrimSpace(code)

	e.mu.Lock()
	defer e.mu.Unlock()

	if code == "" || code != e.config.RoomCode {
		utils.Warn("Engine: room join rejected", map[string]any{"user_id": userID})
		return fmt.Errorf("service: join room: %w", auctionerrors.ErrInvalidRoomCode)
	}
	e.joined[userID] = struct{}{}
	return nil
}

// HasJoined reports whether userID joined the room through this engine
func (e *Engine) HasJoined(userID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.joined[userID]
	return ok
}

// CanBid reports whether userID may bid in batchID's auction
func (e *Engine) CanBid(ctx context.Context, userID, batchID string) (bool, error) {
	l, err := e.loadLedger(ctx)
	if err != nil && !errors.Is(err, auctionerrors.ErrMalformedStoredValue) {
		return false, err
	}
	return ledger.CanBid(l, userID, batchID), nil
}

// PlaceBid raises the current loss by the chosen increment on behalf of p.
// An empty batchID means the active batch of the configuration.
func (e *Engine) PlaceBid(ctx context.Context, p models.Participant, batchID string, pct decimal.Decimal) (models.AuctionState, error) {
	st, err := e.placeBid(ctx, p, batchID, pct)
	if err != nil {
		metrics.RecordBid(bidRejection(err))
		return st, err
	}
	metrics.RecordBid("accepted")
	return st, nil
}

func (e *Engine) placeBid(ctx context.Context, p models.Participant, batchID string, pct decimal.Decimal) (models.AuctionState, error) {
	if !IsValidIncrement(pct) {
		return models.AuctionState{}, fmt.Errorf("service: place bid %s%%: %w", pct.String(), auctionerrors.ErrInvalidIncrement)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.joined[p.UserID]; !ok {
		return cloneState(e.state), fmt.Errorf("service: place bid for %s: %w", p.UserID, auctionerrors.ErrNotJoined)
	}
	if !e.state.Running || e.state.Finished {
		return cloneState(e.state), fmt.Errorf("service: place bid for %s: %w", p.UserID, auctionerrors.ErrAuctionNotRunning)
	}

	if batchID == "" {
		batchID = e.config.ActiveBatchID
	}
	if !p.Admin {
		l, err := e.loadLedger(ctx)
		if err != nil && !errors.Is(err, auctionerrors.ErrMalformedStoredValue) {
			return cloneState(e.state), err
		}
		if !ledger.CanBid(l, p.UserID, batchID) {
			return cloneState(e.state), fmt.Errorf("service: place bid for %s in %s: %w", p.UserID, batchID, auctionerrors.ErrNotEligible)
		}
	}

	if len(e.state.Bidders) > 0 && e.state.Bidders[0].UserID == p.UserID {
		return cloneState(e.state), fmt.Errorf("service: place bid for %s: %w", p.UserID, auctionerrors.ErrAlreadyTopBidder)
	}

	inc := Increment(e.config.ChitValue, pct)
	if inc <= 0 {
		return cloneState(e.state), fmt.Errorf("service: place bid %s%% of %d: %w", pct.String(), e.config.ChitValue, auctionerrors.ErrInvalidIncrement)
	}

	next := cloneState(e.state)
	next.CurrentLoss = e.state.CurrentLoss + inc
	next.Bidders = RankBidders(e.state.Bidders, models.Bidder{UserID: p.UserID, Name: p.Name, Loss: next.CurrentLoss})

	if err := e.commit(ctx, "place bid", nil, &next, nil); err != nil {
		return cloneState(e.state), err
	}

	utils.Info("Engine: bid accepted", map[string]any{
		"user_id":      p.UserID,
		"batch_id":     batchID,
		"percentage":   pct.String(),
		"increment":    inc,
		"current_loss": next.CurrentLoss,
	})
	return cloneState(next), nil
}

// RankBidders replaces any earlier entry of bid.UserID with bid, orders by loss descending
// and keeps the top MaxBidders. Among equal losses the new entry ranks first and the rest
// keep their previous order.
func RankBidders(current []models.Bidder, bid models.Bidder) []models.Bidder {
	ranked := make([]models.Bidder, 0, len(current)+1)
	ranked = append(ranked, bid)
	for _, b := range current {
		if b.UserID != bid.UserID {
			ranked = append(ranked, b)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Loss > ranked[j].Loss })
	if len(ranked) > MaxBidders {
		ranked = ranked[:MaxBidders]
	}
	return ranked
}

func bidRejection(err error) string {
	switch {
	case errors.Is(err, auctionerrors.ErrInvalidIncrement):
		return "invalid_increment"
	case errors.Is(err, auctionerrors.ErrNotJoined):
		return "not_joined"
	case errors.Is(err, auctionerrors.ErrAuctionNotRunning):
		return "not_running"
	case errors.Is(err, auctionerrors.ErrNotEligible):
		return "not_eligible"
	case errors.Is(err, auctionerrors.ErrAlreadyTopBidder):
		return "already_top"
	case errors.Is(err, auctionerrors.ErrStoreUnavailable):
		return "store_unavailable"
	default:
		return "error"
	}
}
