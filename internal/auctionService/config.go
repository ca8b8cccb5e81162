package auction

import (
	"context"
	"fmt"
	"time"

	"chit-auction/internal/auctionerrors"
	"chit-auction/internal/ledger"
	"chit-auction/internal/models"
	"chit-auction/internal/repository"
	"chit-auction/utils"

	"github.com/shopspring/decimal"
)

// DefaultConfig is the configuration used when the store holds none
func DefaultConfig(now time.Time) models.AuctionConfig {
	return deriveConfig(models.AuctionConfig{
		DateMonth:       now.Format(ledger.DateLayout),
		StartMonth:      "Jan",
		EndMonth:        "Dec",
		RunningMonth:    "Nov",
		Term:            24,
		ChitValue:       600000,
		CommissionRate:  decimal.NewFromInt(5),
		Ticker:          "Welcome to GK Groups Chit Auction",
		RoomCode:        "GK-123456",
		ActiveBatchID:   "GK-A1",
		ActiveBatchName: "Alpha Batch",
	})
}

// MinLoss is the commission floor: floor(chitValue × commissionRate / 100)
func MinLoss(chitValue int64, commissionRate decimal.Decimal) int64 {
	return ledger.PercentOf(chitValue, commissionRate)
}

// deriveConfig recomputes every derived field of cfg
func deriveConfig(cfg models.AuctionConfig) models.AuctionConfig {
	cfg = cloneConfig(cfg)
	cfg.MinLoss = MinLoss(cfg.ChitValue, cfg.CommissionRate)
	cfg.JoinedUsers = len(cfg.JoinedUsersList)
	return cfg
}

func validateConfig(cfg models.AuctionConfig) error {
	switch {
	case cfg.ChitValue <= 0:
		return fmt.Errorf("%w: chit value must be positive", auctionerrors.ErrInvalidConfig)
	case cfg.CommissionRate.IsNegative() || cfg.CommissionRate.GreaterThanOrEqual(decimal.NewFromInt(100)):
		return fmt.Errorf("%w: commission rate must be in [0, 100)", auctionerrors.ErrInvalidConfig)
	case cfg.Term <= 0:
		return fmt.Errorf("%w: term must be positive", auctionerrors.ErrInvalidConfig)
	case cfg.RoomCode == "":
		return fmt.Errorf("%w: room code is required", auctionerrors.ErrInvalidConfig)
	}
	return nil
}

// UpdateConfig saves admin edits. The roster is owned by ApplyRoster and is kept.
// minLoss is re-derived and flows into currentLoss only while the round is idle:
// with no bids it becomes the new floor, with bids it can only raise currentLoss.
func (e *Engine) UpdateConfig(ctx context.Context, cfg models.AuctionConfig) (models.AuctionConfig, error) {
	if err := validateConfig(cfg); err != nil {
		return models.AuctionConfig{}, fmt.Errorf("service: update config: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	cfg.JoinedUsersList = e.config.JoinedUsersList
	next := deriveConfig(cfg)
	st := e.applyFloor(next.MinLoss)

	if err := e.commit(ctx, "update config", &next, &st, nil); err != nil {
		return models.AuctionConfig{}, err
	}

	utils.Info("Engine: auction config updated", map[string]any{
		"chit_value":      next.ChitValue,
		"commission_rate": next.CommissionRate.String(),
		"min_loss":        next.MinLoss,
		"active_batch":    next.ActiveBatchID,
	})
	return cloneConfig(next), nil
}

// applyFloor returns the state after a minLoss change. Callers hold e.mu.
func (e *Engine) applyFloor(minLoss int64) models.AuctionState {
	st := cloneState(e.state)
	if st.Running || st.Finished {
		return st
	}
	if len(st.Bidders) == 0 {
		st.CurrentLoss = minLoss
	} else {
		st.CurrentLoss = max(st.CurrentLoss, minLoss)
	}
	return st
}

// ApplyRoster stores the user list and refreshes the room roster derived from it, in one write
func (e *Engine) ApplyRoster(ctx context.Context, users []models.User) error {
	return e.ApplyRosterWith(ctx, users, nil)
}

// ApplyRosterWith behaves like ApplyRoster and also writes extra records in the same batch,
// for callers such as request approval that change the ledger alongside the roster.
func (e *Engine) ApplyRosterWith(ctx context.Context, users []models.User, extra repository.Batch) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	entries := make([]models.RosterEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, models.RosterEntry{ID: u.ID, Name: u.Name})
	}

	next := cloneConfig(e.config)
	next.JoinedUsersList = entries
	next = deriveConfig(next)

	b := repository.Batch{}
	for k, v := range extra {
		b[k] = v
	}
	if users == nil {
		users = []models.User{}
	}
	if err := b.Put(repository.KeyUsers, users); err != nil {
		return fmt.Errorf("service: apply roster: %w", err)
	}

	return e.commit(ctx, "apply roster", &next, nil, b)
}
