package auction

import (
	"context"
	"fmt"
	"time"

	"chit-auction/internal/auctionerrors"
	"chit-auction/internal/metrics"
	"chit-auction/internal/models"
	"chit-auction/utils"
)

// Finalize triggers
const (
	TriggerTimer  = "timer"
	TriggerManual = "manual"
)

// RemainingSeconds is max(0, ceil((endTime − now) / 1s)), with endTime in unix milliseconds.
// It depends only on its arguments, so every observer of one endTime agrees.
func RemainingSeconds(endTimeMs int64, now time.Time) int {
	diff := endTimeMs - now.UnixMilli()
	if diff <= 0 {
		return 0
	}
	return int((diff + 999) / 1000)
}

// StartRound opens bidding. The first start of a round fixes endTime at now + RoundDuration;
// a restart after StopRound keeps the existing endTime.
func (e *Engine) StartRound(ctx context.Context) (models.AuctionState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Finished {
		return cloneState(e.state), fmt.Errorf("service: start round: %w", auctionerrors.ErrAuctionFinished)
	}
	if e.state.Running {
		return cloneState(e.state), nil
	}

	next := cloneState(e.state)
	next.Running = true
	e.ensureEndTime(&next)

	if err := e.commit(ctx, "start round", nil, &next, nil); err != nil {
		return cloneState(e.state), err
	}

	utils.Info("Engine: round started", map[string]any{"end_time": *next.EndTime, "batch_id": e.config.ActiveBatchID})
	return cloneState(next), nil
}

// ensureEndTime sets endTime once per round
func (e *Engine) ensureEndTime(st *models.AuctionState) {
	if st.EndTime != nil {
		st.SecondsLeft = RemainingSeconds(*st.EndTime, e.now())
		return
	}
	end := e.now().Add(RoundDuration).UnixMilli()
	st.EndTime = &end
	st.SecondsLeft = int(RoundDuration / time.Second)
}

// StopRound pauses bidding. A stopped round is never finalized by the timer.
func (e *Engine) StopRound(ctx context.Context) (models.AuctionState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.state.Running {
		return cloneState(e.state), nil
	}

	next := cloneState(e.state)
	next.Running = false
	if next.EndTime != nil {
		next.SecondsLeft = RemainingSeconds(*next.EndTime, e.now())
	}

	if err := e.commit(ctx, "stop round", nil, &next, nil); err != nil {
		return cloneState(e.state), err
	}

	utils.Info("Engine: round stopped", map[string]any{"seconds_left": next.SecondsLeft})
	return cloneState(next), nil
}

// Tick recomputes the countdown from endTime. When it reaches zero the round is
// finalized in the same write. Intermediate seconds only update the local view.
func (e *Engine) Tick(ctx context.Context) (models.AuctionState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.state.Running || e.state.Finished {
		return cloneState(e.state), nil
	}

	if e.state.EndTime == nil {
		// running without an endTime: adopted from a context that never set one
		next := cloneState(e.state)
		e.ensureEndTime(&next)
		if err := e.commit(ctx, "establish end time", nil, &next, nil); err != nil {
			return cloneState(e.state), err
		}
		return cloneState(next), nil
	}

	left := RemainingSeconds(*e.state.EndTime, e.now())
	metrics.SetRound(left, e.state.CurrentLoss)

	if left > 0 {
		e.state.SecondsLeft = left
		return cloneState(e.state), nil
	}

	next := finalizeState(e.config, e.state)
	next.SecondsLeft = 0
	if err := e.commit(ctx, "timer finalize", nil, &next, nil); err != nil {
		return cloneState(e.state), err
	}

	e.logFinalized(TriggerTimer, next.Winner)
	return cloneState(next), nil
}

// Finalize closes the round and records the winner. Calling it on a finished round returns
// the recorded winner without writing.
func (e *Engine) Finalize(ctx context.Context) (*models.Winner, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Finished {
		return cloneState(e.state).Winner, nil
	}

	next := finalizeState(e.config, e.state)
	if err := e.commit(ctx, "finalize", nil, &next, nil); err != nil {
		return nil, err
	}

	e.logFinalized(TriggerManual, next.Winner)
	return cloneState(next).Winner, nil
}

func (e *Engine) logFinalized(trigger string, w *models.Winner) {
	metrics.RecordFinalize(trigger, w != nil)
	fields := map[string]any{"trigger": trigger, "batch_id": e.config.ActiveBatchID}
	if w != nil {
		fields["winner_id"] = w.UserID
		fields["final_loss"] = w.FinalLoss
		fields["month_in_hand"] = w.MonthInHand
	}
	utils.Info("Engine: round finalized", fields)
}

// finalizeState computes the finished state. The winner's finalLoss adds the commission
// floor on top of the winning loss, which itself accumulated from that floor.
func finalizeState(cfg models.AuctionConfig, st models.AuctionState) models.AuctionState {
	next := cloneState(st)
	next.Running = false
	next.Finished = true
	next.Winner = nil

	if len(next.Bidders) > 0 {
		top := next.Bidders[0]
		finalLoss := cfg.MinLoss + top.Loss
		next.Winner = &models.Winner{
			UserID:      top.UserID,
			Name:        top.Name,
			WinnerLoss:  top.Loss,
			FinalLoss:   finalLoss,
			MonthInHand: max(cfg.ChitValue-finalLoss, 0),
		}
	}
	return next
}

// ResetRound returns the round to Idle. A non-nil cfg is saved first, in the same write,
// and the new floor comes from it.
func (e *Engine) ResetRound(ctx context.Context, cfg *models.AuctionConfig) (models.AuctionState, error) {
	var nextCfg *models.AuctionConfig
	if cfg != nil {
		if err := validateConfig(*cfg); err != nil {
			return models.AuctionState{}, fmt.Errorf("service: reset round: %w", err)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	minLoss := e.config.MinLoss
	if cfg != nil {
		c := *cfg
		c.JoinedUsersList = e.config.JoinedUsersList
		c = deriveConfig(c)
		nextCfg = &c
		minLoss = c.MinLoss
	}

	next := initialState(minLoss)
	if err := e.commit(ctx, "reset round", nextCfg, &next, nil); err != nil {
		return cloneState(e.state), err
	}

	utils.Info("Engine: round reset", map[string]any{"current_loss": next.CurrentLoss})
	return cloneState(next), nil
}
