package models

import "github.com/shopspring/decimal"

// User represents a portal member
type User struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Services []string `json:"services" yaml:"services"`
	Phone    string   `json:"phone,omitempty" yaml:"phone"`
	AltPhone string   `json:"altPhone,omitempty" yaml:"altPhone"`
	Email    string   `json:"email,omitempty" yaml:"email"`
	Address  string   `json:"address,omitempty" yaml:"address"`
}

// RosterEntry is the compact view of a user shown in the auction room
type RosterEntry struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// AuctionConfig holds the admin-controlled parameters of the current round
type AuctionConfig struct {
	DateMonth       string          `json:"dateMonth" yaml:"dateMonth"`
	StartMonth      string          `json:"startMonth" yaml:"startMonth"`
	EndMonth        string          `json:"endMonth" yaml:"endMonth"`
	RunningMonth    string          `json:"runningMonth" yaml:"runningMonth"`
	Term            int             `json:"term" yaml:"term"`
	ChitValue       int64           `json:"chitValue" yaml:"chitValue"`
	LastBid         int64           `json:"lastBid" yaml:"lastBid"`
	CommissionRate  decimal.Decimal `json:"commissionRate" yaml:"commissionRate"`
	MinLoss         int64           `json:"minLoss" yaml:"-"`
	MonthlyPayment  int64           `json:"monthlyPayment" yaml:"monthlyPayment"`
	Ticker          string          `json:"ticker" yaml:"ticker"`
	RoomCode        string          `json:"roomCode" yaml:"roomCode"`
	JoinedUsers     int             `json:"joinedUsers" yaml:"-"`
	JoinedUsersList []RosterEntry   `json:"joinedUsersList" yaml:"-"`
	ActiveBatchID   string          `json:"activeBatchId,omitempty" yaml:"activeBatchId"`
	ActiveBatchName string          `json:"activeBatchName,omitempty" yaml:"activeBatchName"`
}

// Bidder is one row of the live ranking table
type Bidder struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Loss   int64  `json:"loss"`
}

// Winner is populated once, when the round is finalized
type Winner struct {
	UserID      string `json:"userId"`
	Name        string `json:"name"`
	WinnerLoss  int64  `json:"winnerLoss"`
	FinalLoss   int64  `json:"finalLoss"`
	MonthInHand int64  `json:"monthInHand"`
}

// AuctionState is the shared state of the running round.
// EndTime is unix milliseconds and is authoritative over SecondsLeft.
type AuctionState struct {
	SecondsLeft int      `json:"secondsLeft"`
	EndTime     *int64   `json:"endTime,omitempty"`
	Running     bool     `json:"running"`
	Finished    bool     `json:"finished"`
	CurrentLoss int64    `json:"currentLoss"`
	Bidders     []Bidder `json:"bidders"`
	Winner      *Winner  `json:"winner,omitempty"`
}

// ChitBatch is a rotating-savings group
type ChitBatch struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Value        int64  `json:"value" yaml:"value"`
	CurrentMonth string `json:"currentMonth" yaml:"currentMonth"`
	Subscription int64  `json:"subscription" yaml:"subscription"`
	Dividend     int64  `json:"dividend" yaml:"dividend"`
	Status       string `json:"status" yaml:"status"`
	NextAuction  string `json:"nextAuction" yaml:"nextAuction"`
}

// Chit and payment statuses
const (
	StatusActive    = "Active"
	StatusCompleted = "Completed"

	PaymentPaid    = "Paid"
	PaymentPending = "Pending"
	PaymentOverdue = "Overdue"
)

// HistoryRow is one installment line of a chit
type HistoryRow struct {
	Month      string `json:"month" yaml:"month"`
	Amount     int64  `json:"amount" yaml:"amount"`
	PaidOn     string `json:"paidOn,omitempty" yaml:"paidOn"`
	Status     string `json:"status" yaml:"status"`
	InvoiceURL string `json:"invoiceUrl,omitempty" yaml:"invoiceUrl"`
	ReceiptURL string `json:"receiptUrl,omitempty" yaml:"receiptUrl"`
}

// UserChit is a user's membership in one batch
type UserChit struct {
	BatchID              string       `json:"batchId" yaml:"batchId"`
	BatchName            string       `json:"batchName" yaml:"batchName"`
	Value                int64        `json:"value" yaml:"value"`
	Term                 int          `json:"term" yaml:"term"`
	Status               string       `json:"status" yaml:"status"`
	StartDate            string       `json:"startDate,omitempty" yaml:"startDate"`
	EndDate              string       `json:"endDate,omitempty" yaml:"endDate"`
	BidWon               bool         `json:"bidWon" yaml:"bidWon"`
	BidMonth             string       `json:"bidMonth,omitempty" yaml:"bidMonth"`
	BidAmount            int64        `json:"bidAmount,omitempty" yaml:"bidAmount"`
	TotalPaid            int64        `json:"totalPaid" yaml:"totalPaid"`
	PendingAmount        int64        `json:"pendingAmount" yaml:"pendingAmount"`
	InstallmentsPaid     int          `json:"installmentsPaid" yaml:"installmentsPaid"`
	CurrentMonthPayment  int64        `json:"currentMonthPayment,omitempty" yaml:"currentMonthPayment"`
	CurrentMonthDividend int64        `json:"currentMonthDividend,omitempty" yaml:"currentMonthDividend"`
	BidsInHand           *int         `json:"bidsInHand,omitempty" yaml:"bidsInHand"`
	TotalLoss            int64        `json:"totalLoss,omitempty" yaml:"totalLoss"`
	TotalProfit          int64        `json:"totalProfit,omitempty" yaml:"totalProfit"`
	History              []HistoryRow `json:"history" yaml:"history"`
}

// UserLoan is a personal or business loan
type UserLoan struct {
	ID               string          `json:"id" yaml:"id"`
	Type             string          `json:"type" yaml:"type"`
	Amount           int64           `json:"amount" yaml:"amount"`
	Date             string          `json:"date" yaml:"date"`
	EndDate          string          `json:"endDate,omitempty" yaml:"endDate"`
	InterestRate     decimal.Decimal `json:"interestRate" yaml:"interestRate"`
	Status           string          `json:"status" yaml:"status"`
	PendingPrincipal int64           `json:"pendingPrincipal" yaml:"pendingPrincipal"`
	InterestPaid     int64           `json:"interestPaid" yaml:"interestPaid"`
	PrincipalPaid    int64           `json:"principalPaid" yaml:"principalPaid"`
	TotalPending     int64           `json:"totalPending" yaml:"totalPending"`
	MonthlyInterest  int64           `json:"monthlyInterest,omitempty" yaml:"monthlyInterest"`
	NextDueDate      string          `json:"nextDueDate,omitempty" yaml:"nextDueDate"`
}

// UserDeposit is a fixed deposit
type UserDeposit struct {
	ID             string          `json:"id" yaml:"id"`
	Amount         int64           `json:"amount" yaml:"amount"`
	Date           string          `json:"date" yaml:"date"`
	InterestRate   decimal.Decimal `json:"interestRate" yaml:"interestRate"`
	InterestEarned int64           `json:"interestEarned" yaml:"interestEarned"`
	MaturityDate   string          `json:"maturityDate,omitempty" yaml:"maturityDate"`
	Status         string          `json:"status" yaml:"status"`
	MonthlyPayout  int64           `json:"monthlyPayout,omitempty" yaml:"monthlyPayout"`
}

// UserFinance is the full ledger record of one user
type UserFinance struct {
	Chits    []UserChit    `json:"chits" yaml:"chits"`
	Loans    []UserLoan    `json:"loans" yaml:"loans"`
	Deposits []UserDeposit `json:"deposits" yaml:"deposits"`
}

// Ledger maps userID to that user's financial record
type Ledger map[string]UserFinance

// SettlementResult carries the admin-confirmed figures of a finalized round
type SettlementResult struct {
	FinalLoss      int64  `json:"finalLoss"`
	Dividend       int64  `json:"dividend"`
	MonthlyPayment int64  `json:"monthlyPayment"`
	WinnerID       string `json:"winnerId,omitempty"`
	RunningMonth   string `json:"runningMonth"`
}

// Participant identifies the caller of a bid
type Participant struct {
	UserID string
	Name   string
	Admin  bool
}
