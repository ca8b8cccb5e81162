package handler

import (
	"context"
	"net/http"

	auction "chit-auction/internal/auctionService"
	"chit-auction/internal/models"
	"chit-auction/services/auction/helpers"
	"chit-auction/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=auction_handler.go -destination=mock_auction_handler.go -package=handler

type AuctionServiceInterface interface {
	JoinRoom(userID, code string) error
	PlaceBid(ctx context.Context, p models.Participant, batchID string, pct decimal.Decimal) (models.AuctionState, error)
	CanBid(ctx context.Context, userID, batchID string) (bool, error)
	Finance(ctx context.Context, userID string) (models.UserFinance, error)
	View() auction.StateView
	Config() models.AuctionConfig
	StartRound(ctx context.Context) (models.AuctionState, error)
	StopRound(ctx context.Context) (models.AuctionState, error)
	Finalize(ctx context.Context) (*models.Winner, error)
	ResetRound(ctx context.Context, cfg *models.AuctionConfig) (models.AuctionState, error)
	UpdateConfig(ctx context.Context, cfg models.AuctionConfig) (models.AuctionConfig, error)
	SuggestSettlement() models.SettlementResult
	Settle(ctx context.Context, batchID string, r models.SettlementResult) (auction.SettlementReport, error)
}

// AdminKey marks requests routed through the admin group
const AdminKey = "admin"

type AuctionHandler struct {
	service AuctionServiceInterface
}

func NewAuctionHandler(service AuctionServiceInterface) *AuctionHandler {
	return &AuctionHandler{service: service}
}

// JoinRoomHandler handles POST /auction/join
func (h *AuctionHandler) JoinRoomHandler(c *gin.Context) {
	var req helpers.JoinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "JoinRoomHandler", err)
		return
	}

	if err := h.service.JoinRoom(req.UserID, req.RoomCode); err != nil {
		helpers.HandleServiceError(c, "JoinRoomHandler", err, map[string]any{"user_id": req.UserID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, h.service.View(), "joined auction room")
	helpers.LogSuccess("JoinRoomHandler", "joined auction room", map[string]any{"user_id": req.UserID})
}

// PlaceBidHandler handles POST /auction/bids and POST /admin/auction/bids
func (h *AuctionHandler) PlaceBidHandler(c *gin.Context) {
	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}
	pct, err := decimal.NewFromString(req.Percentage)
	if err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	p := models.Participant{UserID: req.UserID, Name: req.Name, Admin: c.GetBool(AdminKey)}
	if p.Name == "" {
		p.Name = req.UserID
	}

	if _, err := h.service.PlaceBid(c.Request.Context(), p, req.BatchID, pct); err != nil {
		helpers.HandleServiceError(c, "PlaceBidHandler", err, map[string]any{
			"user_id":    req.UserID,
			"batch_id":   req.BatchID,
			"percentage": req.Percentage,
		})
		return
	}

	view := h.service.View()
	utils.JSONResponse(c, http.StatusCreated, view, "bid placed successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid placed successfully", map[string]any{
		"user_id":      req.UserID,
		"percentage":   req.Percentage,
		"current_loss": view.CurrentLoss,
	})
}

// GetStateHandler handles GET /auction/state
func (h *AuctionHandler) GetStateHandler(c *gin.Context) {
	utils.JSONResponse(c, http.StatusOK, h.service.View(), "auction state retrieved successfully")
}

// GetConfigHandler handles GET /auction/config
func (h *AuctionHandler) GetConfigHandler(c *gin.Context) {
	utils.JSONResponse(c, http.StatusOK, h.service.Config(), "auction config retrieved successfully")
}

// GetIncrementsHandler handles GET /auction/increments
func (h *AuctionHandler) GetIncrementsHandler(c *gin.Context) {
	chitValue := h.service.Config().ChitValue
	menu := make([]gin.H, 0, len(auction.BidIncrements))
	for _, inc := range auction.BidIncrements {
		menu = append(menu, gin.H{
			"percentage": inc.StringFixed(1),
			"amount":     auction.Increment(chitValue, inc),
		})
	}
	utils.JSONResponse(c, http.StatusOK, menu, "bid increments retrieved successfully")
}

// CanBidHandler handles GET /users/:user_id/can-bid
func (h *AuctionHandler) CanBidHandler(c *gin.Context) {
	userID := c.Param("user_id")
	batchID := c.Query("batch_id")
	if batchID == "" {
		batchID = h.service.Config().ActiveBatchID
	}

	ok, err := h.service.CanBid(c.Request.Context(), userID, batchID)
	if err != nil {
		helpers.HandleServiceError(c, "CanBidHandler", err, map[string]any{"user_id": userID, "batch_id": batchID})
		return
	}
	utils.JSONResponse(c, http.StatusOK, helpers.CanBidResponse{UserID: userID, BatchID: batchID, CanBid: ok}, "eligibility retrieved successfully")
}

// GetFinanceHandler handles GET /users/:user_id/finance
func (h *AuctionHandler) GetFinanceHandler(c *gin.Context) {
	userID := c.Param("user_id")
	fin, err := h.service.Finance(c.Request.Context(), userID)
	if err != nil {
		helpers.HandleServiceError(c, "GetFinanceHandler", err, map[string]any{"user_id": userID})
		return
	}
	utils.JSONResponse(c, http.StatusOK, fin, "finance retrieved successfully")
}

// StartRoundHandler handles POST /admin/auction/start
func (h *AuctionHandler) StartRoundHandler(c *gin.Context) {
	if _, err := h.service.StartRound(c.Request.Context()); err != nil {
		helpers.HandleServiceError(c, "StartRoundHandler", err, nil)
		return
	}
	utils.JSONResponse(c, http.StatusOK, h.service.View(), "auction started")
	helpers.LogSuccess("StartRoundHandler", "auction started", nil)
}

// StopRoundHandler handles POST /admin/auction/stop
func (h *AuctionHandler) StopRoundHandler(c *gin.Context) {
	if _, err := h.service.StopRound(c.Request.Context()); err != nil {
		helpers.HandleServiceError(c, "StopRoundHandler", err, nil)
		return
	}
	utils.JSONResponse(c, http.StatusOK, h.service.View(), "auction stopped")
	helpers.LogSuccess("StopRoundHandler", "auction stopped", nil)
}

// FinalizeHandler handles POST /admin/auction/finalize
func (h *AuctionHandler) FinalizeHandler(c *gin.Context) {
	w, err := h.service.Finalize(c.Request.Context())
	if err != nil {
		helpers.HandleServiceError(c, "FinalizeHandler", err, nil)
		return
	}
	utils.JSONResponse(c, http.StatusOK, helpers.FinalizeResponse{Winner: w}, "auction finalized")
}

// ResetRoundHandler handles POST /admin/auction/reset
func (h *AuctionHandler) ResetRoundHandler(c *gin.Context) {
	var req helpers.ResetRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			helpers.HandleBindError(c, "ResetRoundHandler", err)
			return
		}
	}

	if _, err := h.service.ResetRound(c.Request.Context(), req.Config); err != nil {
		helpers.HandleServiceError(c, "ResetRoundHandler", err, nil)
		return
	}
	utils.JSONResponse(c, http.StatusOK, h.service.View(), "auction reset")
	helpers.LogSuccess("ResetRoundHandler", "auction reset", map[string]any{"with_config": req.Config != nil})
}

// UpdateConfigHandler handles PUT /admin/auction/config
func (h *AuctionHandler) UpdateConfigHandler(c *gin.Context) {
	var cfg models.AuctionConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		helpers.HandleBindError(c, "UpdateConfigHandler", err)
		return
	}

	saved, err := h.service.UpdateConfig(c.Request.Context(), cfg)
	if err != nil {
		helpers.HandleServiceError(c, "UpdateConfigHandler", err, nil)
		return
	}
	utils.JSONResponse(c, http.StatusOK, saved, "auction config updated")
}

// GetSettlementHandler handles GET /admin/auction/settlement
func (h *AuctionHandler) GetSettlementHandler(c *gin.Context) {
	utils.JSONResponse(c, http.StatusOK, h.service.SuggestSettlement(), "settlement suggestion retrieved successfully")
}

// SettleHandler handles POST /admin/auction/settle
func (h *AuctionHandler) SettleHandler(c *gin.Context) {
	var req helpers.SettleRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			helpers.HandleBindError(c, "SettleHandler", err)
			return
		}
	}

	report, err := h.service.Settle(c.Request.Context(), req.BatchID, req.Apply(h.service.SuggestSettlement()))
	if err != nil {
		helpers.HandleServiceError(c, "SettleHandler", err, map[string]any{"batch_id": req.BatchID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, report, "auction settled")
	helpers.LogSuccess("SettleHandler", "auction settled", map[string]any{
		"batch_id": report.BatchID,
		"touched":  len(report.Touched),
	})
}
