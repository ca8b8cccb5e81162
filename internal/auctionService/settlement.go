package auction

import (
	"context"
	"fmt"

	"chit-auction/internal/auctionerrors"
	"chit-auction/internal/ledger"
	"chit-auction/internal/metrics"
	"chit-auction/internal/models"
	"chit-auction/internal/repository"
	"chit-auction/utils"
)

// SettlementReport describes a completed settlement
type SettlementReport struct {
	BatchID string                  `json:"batchId"`
	Result  models.SettlementResult `json:"result"`
	Touched []string                `json:"touched"`
	State   models.AuctionState     `json:"state"`
}

// SuggestSettlement returns the figures an admin would usually confirm for the current round:
// dividend = floor(finalLoss / term), monthly = chitValue / term − dividend.
// Without a winner the final loss is the commission floor.
func (e *Engine) SuggestSettlement() models.SettlementResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return suggest(e.config, e.state)
}

func suggest(cfg models.AuctionConfig, st models.AuctionState) models.SettlementResult {
	r := models.SettlementResult{
		FinalLoss:    cfg.MinLoss,
		RunningMonth: cfg.RunningMonth,
	}
	if st.Winner != nil {
		r.FinalLoss = st.Winner.FinalLoss
		r.WinnerID = st.Winner.UserID
	}
	if cfg.Term > 0 {
		r.Dividend = r.FinalLoss / int64(cfg.Term)
		r.MonthlyPayment = cfg.ChitValue/int64(cfg.Term) - r.Dividend
	}
	return r
}

// Settle applies a finished round to every Active chit of batchID and returns the round
// to Idle. The ledger and the reset state are written together; on failure neither changes.
// Empty batchID and RunningMonth fall back to the configuration.
func (e *Engine) Settle(ctx context.Context, batchID string, r models.SettlementResult) (SettlementReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.state.Finished {
		return SettlementReport{}, fmt.Errorf("service: settle: %w", auctionerrors.ErrAuctionNotFinished)
	}
	if batchID == "" {
		batchID = e.config.ActiveBatchID
	}
	if r.RunningMonth == "" {
		r.RunningMonth = e.config.RunningMonth
	}
	if r.WinnerID == "" && e.state.Winner != nil {
		r.WinnerID = e.state.Winner.UserID
	}
	if r.FinalLoss < 0 || r.Dividend < 0 || r.MonthlyPayment < 0 {
		return SettlementReport{}, fmt.Errorf("service: settle: %w: negative figure", auctionerrors.ErrInvalidSettlement)
	}

	// a malformed ledger is refused rather than overwritten with a partial one
	current, err := e.loadLedger(ctx)
	if err != nil {
		return SettlementReport{}, fmt.Errorf("service: settle: %w", err)
	}

	next, touched := ledger.ApplySettlement(current, batchID, r)
	st := initialState(e.config.MinLoss)

	b := repository.Batch{}
	if err := b.Put(repository.KeyFinances, next); err != nil {
		return SettlementReport{}, fmt.Errorf("service: settle: %w", err)
	}
	if err := e.commit(ctx, "settle", nil, &st, b); err != nil {
		return SettlementReport{}, err
	}

	metrics.RecordSettlement(len(touched))
	utils.Info("Engine: round settled", map[string]any{
		"batch_id":        batchID,
		"winner_id":       r.WinnerID,
		"final_loss":      r.FinalLoss,
		"dividend":        r.Dividend,
		"monthly_payment": r.MonthlyPayment,
		"touched":         len(touched),
	})

	if touched == nil {
		touched = []string{}
	}
	return SettlementReport{BatchID: batchID, Result: r, Touched: touched, State: cloneState(st)}, nil
}
