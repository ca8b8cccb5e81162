package auction

import (
	"context"
	"errors"
	"fmt"

	"chit-auction/internal/auctionerrors"
	"chit-auction/internal/models"
	"chit-auction/utils"
)

// Finance returns userID's ledger record. Users without one get an empty record.
func (e *Engine) Finance(ctx context.Context, userID string) (models.UserFinance, error) {
	l, err := e.loadLedger(ctx)
	if err != nil {
		if !errors.Is(err, auctionerrors.ErrMalformedStoredValue) {
			return models.UserFinance{}, fmt.Errorf("service: finance of %s: %w", userID, err)
		}
		utils.Warn("Engine: malformed ledger, showing empty record", map[string]any{"user_id": userID})
	}

	fin := l[userID]
	if fin.Chits == nil {
		fin.Chits = []models.UserChit{}
	}
	if fin.Loans == nil {
		fin.Loans = []models.UserLoan{}
	}
	if fin.Deposits == nil {
		fin.Deposits = []models.UserDeposit{}
	}
	return fin, nil
}
