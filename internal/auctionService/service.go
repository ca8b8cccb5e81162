package auction

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"chit-auction/internal/auctionerrors"
	"chit-auction/internal/metrics"
	"chit-auction/internal/models"
	"chit-auction/internal/repository"
	"chit-auction/utils"
)

// RoundDuration is the fixed length of a round once started
const RoundDuration = 10 * time.Minute

// Engine owns the auction configuration and state of one execution context.
// All mutations go through its command methods; each persists to the shared
// store before the in-memory copy changes, so a failed write leaves the
// engine exactly as it was.
type Engine struct {
	store repository.KVStore
	now   func() time.Time

	mu     sync.Mutex
	config models.AuctionConfig
	state  models.AuctionState
	joined map[string]struct{}

	unsubscribe func()
}

// Option customizes an Engine
type Option func(*Engine)

// WithClock replaces the wall clock, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine restores config and state from the store, falling back to defaults
// for absent or malformed records, and starts following other contexts' writes.
func NewEngine(ctx context.Context, store repository.KVStore, defaults models.AuctionConfig, opts ...Option) (*Engine, error) {
	e := &Engine{
		store:  store,
		now:    time.Now,
		joined: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}

	defaults = deriveConfig(defaults)
	cfg, err := repository.Load(ctx, store, repository.KeyAuctionConfig, defaults)
	if err := tolerateMalformed(err, repository.KeyAuctionConfig); err != nil {
		return nil, storeUnavailable("restore auction config", err)
	}
	e.config = deriveConfig(cfg)

	st, err := repository.Load(ctx, store, repository.KeyAuctionState, initialState(e.config.MinLoss))
	if err := tolerateMalformed(err, repository.KeyAuctionState); err != nil {
		return nil, storeUnavailable("restore auction state", err)
	}
	e.state = cloneState(st)

	e.unsubscribe = store.Subscribe(e.adopt)
	return e, nil
}

// Close stops following store changes
func (e *Engine) Close() {
	if e.unsubscribe != nil {
		e.unsubscribe()
	}
}

// Config returns a copy of the current configuration
func (e *Engine) Config() models.AuctionConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneConfig(e.config)
}

// State returns a copy of the current auction state
func (e *Engine) State() models.AuctionState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneState(e.state)
}

// adoptTimeout bounds the store read made for each remote change
const adoptTimeout = 5 * time.Second

// adopt installs the config or state record another context wrote. The change payload
// can be older than a write this engine made while the change sat in its mailbox, so
// the current value is read back from the store instead.
func (e *Engine) adopt(c repository.Change) {
	if c.Key != repository.KeyAuctionConfig && c.Key != repository.KeyAuctionState {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), adoptTimeout)
	defer cancel()

	e.mu.Lock()
	defer e.mu.Unlock()

	raw, err := e.store.Get(ctx, c.Key)
	if err != nil {
		utils.Warn("Engine: could not read remote change", map[string]any{"key": c.Key, "writer": c.Writer, "error": err.Error()})
		return
	}
	if raw == nil {
		return
	}

	switch c.Key {
	case repository.KeyAuctionConfig:
		cfg, err := repository.Decode(c.Key, raw, models.AuctionConfig{})
		if err != nil {
			utils.Warn("Engine: ignoring malformed config change", map[string]any{"writer": c.Writer, "error": err.Error()})
			return
		}
		e.setConfig(cfg)
	case repository.KeyAuctionState:
		st, err := repository.Decode(c.Key, raw, models.AuctionState{})
		if err != nil {
			utils.Warn("Engine: ignoring malformed state change", map[string]any{"writer": c.Writer, "error": err.Error()})
			return
		}
		e.state = cloneState(st)
		utils.Debug("Engine: adopted remote state", map[string]any{"writer": c.Writer, "running": st.Running, "finished": st.Finished})
	}
}

// setConfig installs cfg. Admissions are tied to the room code and are dropped when it changes.
// Callers hold e.mu.
func (e *Engine) setConfig(cfg models.AuctionConfig) {
	if cfg.RoomCode != e.config.RoomCode && len(e.joined) > 0 {
		utils.Info("Engine: room code changed, clearing admissions", map[string]any{"joined": len(e.joined)})
		e.joined = make(map[string]struct{})
	}
	e.config = cfg
}

// commit persists the given records plus extra in one batch and, on success,
// installs them as the engine's current config/state. Callers hold e.mu.
func (e *Engine) commit(ctx context.Context, op string, cfg *models.AuctionConfig, st *models.AuctionState, extra repository.Batch) error {
	b := repository.Batch{}
	for k, v := range extra {
		b[k] = v
	}
	if cfg != nil {
		if err := b.Put(repository.KeyAuctionConfig, cfg); err != nil {
			return fmt.Errorf("service: %s: %w", op, err)
		}
	}
	if st != nil {
		if err := b.Put(repository.KeyAuctionState, st); err != nil {
			return fmt.Errorf("service: %s: %w", op, err)
		}
	}

	if err := b.Commit(ctx, e.store); err != nil {
		metrics.RecordStoreError(op)
		return storeUnavailable(op, err)
	}

	if cfg != nil {
		e.setConfig(*cfg)
	}
	if st != nil {
		e.state = *st
	}
	return nil
}

// UpdateLedger applies fn to the current ledger and writes the result together with extra.
// Every ledger writer goes through the engine lock so settlement and approvals never
// overwrite each other. A malformed ledger is refused.
func (e *Engine) UpdateLedger(ctx context.Context, op string, fn func(models.Ledger) (models.Ledger, error), extra repository.Batch) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	current, err := e.loadLedger(ctx)
	if err != nil {
		return fmt.Errorf("service: %s: %w", op, err)
	}
	next, err := fn(current)
	if err != nil {
		return fmt.Errorf("service: %s: %w", op, err)
	}

	b := repository.Batch{}
	for k, v := range extra {
		b[k] = v
	}
	if err := b.Put(repository.KeyFinances, next); err != nil {
		return fmt.Errorf("service: %s: %w", op, err)
	}
	return e.commit(ctx, op, nil, nil, b)
}

// loadLedger reads the ledger map. Callers decide how to treat a malformed record.
func (e *Engine) loadLedger(ctx context.Context) (models.Ledger, error) {
	l, err := repository.Load(ctx, e.store, repository.KeyFinances, models.Ledger{})
	if err != nil && !errors.Is(err, auctionerrors.ErrMalformedStoredValue) {
		metrics.RecordStoreError("load_ledger")
		return nil, storeUnavailable("load ledger", err)
	}
	return l, err
}

func storeUnavailable(op string, err error) error {
	if errors.Is(err, auctionerrors.ErrStoreUnavailable) {
		return fmt.Errorf("service: %s: %w", op, err)
	}
	return fmt.Errorf("service: %s: %w: %w", op, auctionerrors.ErrStoreUnavailable, err)
}

// tolerateMalformed logs a malformed record (the default is already in place) and passes other errors through
func tolerateMalformed(err error, key string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, auctionerrors.ErrMalformedStoredValue) {
		utils.Warn("Engine: malformed stored value, using default", map[string]any{"key": key, "error": err.Error()})
		return nil
	}
	return err
}

func initialState(minLoss int64) models.AuctionState {
	return models.AuctionState{
		SecondsLeft: int(RoundDuration / time.Second),
		CurrentLoss: minLoss,
		Bidders:     []models.Bidder{},
	}
}

func cloneState(s models.AuctionState) models.AuctionState {
	out := s
	out.Bidders = append([]models.Bidder{}, s.Bidders...)
	if s.EndTime != nil {
		end := *s.EndTime
		out.EndTime = &end
	}
	if s.Winner != nil {
		w := *s.Winner
		out.Winner = &w
	}
	return out
}

func cloneConfig(c models.AuctionConfig) models.AuctionConfig {
	out := c
	out.JoinedUsersList = append([]models.RosterEntry{}, c.JoinedUsersList...)
	return out
}
