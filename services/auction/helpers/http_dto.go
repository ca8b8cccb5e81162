package helpers

import "chit-auction/internal/models"

// Request/Response DTOs
type JoinRoomRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	RoomCode string `json:"room_code" binding:"required"`
}

type PlaceBidRequest struct {
	UserID     string `json:"user_id" binding:"required"`
	Name       string `json:"name"`
	BatchID    string `json:"batch_id"`
	Percentage string `json:"percentage" binding:"required"`
}

type CanBidResponse struct {
	UserID  string `json:"user_id"`
	BatchID string `json:"batch_id"`
	CanBid  bool   `json:"can_bid"`
}

type ResetRequest struct {
	Config *models.AuctionConfig `json:"config"`
}

// SettleRequest overrides the suggested settlement figures; omitted fields keep the suggestion
type SettleRequest struct {
	BatchID        string  `json:"batch_id"`
	FinalLoss      *int64  `json:"final_loss"`
	Dividend       *int64  `json:"dividend"`
	MonthlyPayment *int64  `json:"monthly_payment"`
	WinnerID       *string `json:"winner_id"`
	RunningMonth   *string `json:"running_month"`
}

// Apply overlays the request on a suggested result
func (r SettleRequest) Apply(s models.SettlementResult) models.SettlementResult {
	if r.FinalLoss != nil {
		s.FinalLoss = *r.FinalLoss
	}
	if r.Dividend != nil {
		s.Dividend = *r.Dividend
	}
	if r.MonthlyPayment != nil {
		s.MonthlyPayment = *r.MonthlyPayment
	}
	if r.WinnerID != nil {
		s.WinnerID = *r.WinnerID
	}
	if r.RunningMonth != nil {
		s.RunningMonth = *r.RunningMonth
	}
	return s
}

type DecisionRequest struct {
	Comment string `json:"comment"`
}

type FinalizeResponse struct {
	Winner *models.Winner `json:"winner"`
}
