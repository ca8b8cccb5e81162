// Package ledger holds the pure operations over per-user financial records:
// bid eligibility, settlement fan-out and the chit/loan/deposit assignments
// produced by request approval. Functions never mutate their input ledger.
package ledger

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"chit-auction/internal/auctionerrors"
	"chit-auction/internal/models"

	"github.com/shopspring/decimal"
)

// AdminPrefix marks administrator accounts, which bypass eligibility checks
var AdminPrefix = "ADMIN"

// DateLayout is the display format used for ledger dates
const DateLayout = "02 Jan 2006"

// Defaults applied when an approved request carries no amount
var (
	DefaultLoanAmount    int64 = 100000
	DefaultDepositAmount int64 = 50000
	LoanInterestRate           = decimal.NewFromInt(2)
	DepositInterestRate        = decimal.RequireFromString("1.5")
)

// JoinedChitTerm is the term, in months, given to chits assigned by approval
const JoinedChitTerm = 20

// IsAdminID reports whether userID belongs to an administrator
func IsAdminID(userID string) bool {
	return strings.HasPrefix(userID, AdminPrefix)
}

// ActiveChit returns the index of the user's Active chit for batchID
func ActiveChit(f models.UserFinance, batchID string) (int, bool) {
	for i, c := range f.Chits {
		if c.BatchID == batchID && c.Status == models.StatusActive {
			return i, true
		}
	}
	return -1, false
}

// CanBid reports whether userID may bid in batchID's auction:
// an Active chit in the batch that has not won yet. Admin ids always may.
func CanBid(l models.Ledger, userID, batchID string) bool {
	if IsAdminID(userID) {
		return true
	}
	fin, ok := l[userID]
	if !ok {
		return false
	}
	i, ok := ActiveChit(fin, batchID)
	if !ok {
		return false
	}
	return !fin.Chits[i].BidWon
}

// ApplySettlement fans a settled round out to every user with an Active chit in batchID.
// It returns the next ledger and the ids of the users it touched, sorted.
func ApplySettlement(l models.Ledger, batchID string, r models.SettlementResult) (models.Ledger, []string) {
	next := make(models.Ledger, len(l))
	var touched []string

	for userID, fin := range l {
		i, ok := ActiveChit(fin, batchID)
		if !ok {
			next[userID] = fin
			continue
		}

		chit := fin.Chits[i]
		chit.History = append(append([]models.HistoryRow(nil), chit.History...), models.HistoryRow{
			Month:  r.RunningMonth,
			Amount: r.MonthlyPayment,
			Status: models.PaymentPending,
		})
		chit.TotalProfit += r.Dividend
		chit.CurrentMonthPayment = r.MonthlyPayment
		chit.CurrentMonthDividend = r.Dividend
		chit.PendingAmount += r.MonthlyPayment

		if r.WinnerID != "" && userID == r.WinnerID {
			chit.BidWon = true
			chit.BidMonth = r.RunningMonth
			chit.BidAmount = r.FinalLoss
			chit.TotalLoss = r.FinalLoss
			chit.BidsInHand = intPtr(max(bidsInHand(chit)-1, 0))
		} else if !chit.BidWon {
			chit.BidsInHand = intPtr(1)
		}

		chits := append([]models.UserChit(nil), fin.Chits...)
		chits[i] = chit
		fin.Chits = chits
		next[userID] = fin
		touched = append(touched, userID)
	}

	sort.Strings(touched)
	return next, touched
}

// bidsInHand treats a missing count as one remaining bid
func bidsInHand(c models.UserChit) int {
	if c.BidsInHand == nil || *c.BidsInHand == 0 {
		return 1
	}
	return *c.BidsInHand
}

// AssignChit gives userID a fresh Active chit in batch
func AssignChit(l models.Ledger, userID string, batch models.ChitBatch, now time.Time) (models.Ledger, error) {
	fin := l[userID]
	if _, ok := ActiveChit(fin, batch.ID); ok {
		return nil, fmt.Errorf("assign chit %s to %s: %w", batch.ID, userID, auctionerrors.ErrChitAlreadyActive)
	}

	chit := models.UserChit{
		BatchID:              batch.ID,
		BatchName:            batch.Name,
		Value:                batch.Value,
		Term:                 JoinedChitTerm,
		Status:               models.StatusActive,
		StartDate:            now.Format(DateLayout),
		PendingAmount:        batch.Value,
		CurrentMonthPayment:  batch.Subscription,
		CurrentMonthDividend: batch.Dividend,
		BidsInHand:           intPtr(1),
		History:              []models.HistoryRow{},
	}
	fin.Chits = append(append([]models.UserChit(nil), fin.Chits...), chit)
	return withUser(l, userID, fin), nil
}

// AddLoan records an approved personal loan
func AddLoan(l models.Ledger, userID, loanID string, amount int64, now time.Time) models.Ledger {
	if amount <= 0 {
		amount = DefaultLoanAmount
	}
	fin := l[userID]
	loan := models.UserLoan{
		ID:               loanID,
		Type:             "Personal",
		Amount:           amount,
		Date:             now.Format(DateLayout),
		InterestRate:     LoanInterestRate,
		Status:           models.StatusActive,
		PendingPrincipal: amount,
		TotalPending:     amount,
		MonthlyInterest:  PercentOf(amount, LoanInterestRate),
		NextDueDate:      now.AddDate(0, 1, 0).Format(DateLayout),
	}
	fin.Loans = append(append([]models.UserLoan(nil), fin.Loans...), loan)
	return withUser(l, userID, fin)
}

// AddDeposit records an approved fixed deposit maturing after one year
func AddDeposit(l models.Ledger, userID, depositID string, amount int64, now time.Time) models.Ledger {
	if amount <= 0 {
		amount = DefaultDepositAmount
	}
	fin := l[userID]
	dep := models.UserDeposit{
		ID:            depositID,
		Amount:        amount,
		Date:          now.Format(DateLayout),
		InterestRate:  DepositInterestRate,
		MaturityDate:  now.AddDate(1, 0, 0).Format(DateLayout),
		Status:        models.StatusActive,
		MonthlyPayout: PercentOf(amount, DepositInterestRate),
	}
	fin.Deposits = append(append([]models.UserDeposit(nil), fin.Deposits...), dep)
	return withUser(l, userID, fin)
}

// PercentOf returns floor(amount × pct / 100) without float rounding error
func PercentOf(amount int64, pct decimal.Decimal) int64 {
	return decimal.NewFromInt(amount).Mul(pct).Div(decimal.NewFromInt(100)).Floor().IntPart()
}

func withUser(l models.Ledger, userID string, fin models.UserFinance) models.Ledger {
	next := make(models.Ledger, len(l)+1)
	for k, v := range l {
		next[k] = v
	}
	next[userID] = fin
	return next
}

func intPtr(v int) *int {
	return &v
}
