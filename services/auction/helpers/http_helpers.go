package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"chit-auction/internal/auctionerrors"
	"chit-auction/utils"

	"github.com/gin-gonic/gin"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid_payload", "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// HandleServiceError maps err and sends it as a JSON error
func HandleServiceError(c *gin.Context, handlerName string, err error, fields map[string]any) {
	status, reason, message := MapErrorToHTTP(err)
	utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), reason, message)

	if fields == nil {
		fields = map[string]any{}
	}
	fields["handler"] = handlerName
	fields["error"] = err.Error()
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": request failed", fields)
		return
	}
	utils.Warn(handlerName+": request rejected", fields)
}

// MapErrorToHTTP maps domain/service errors to HTTP status code, a stable reason code and a message
func MapErrorToHTTP(err error) (int, string, string) {
	switch {
	case errors.Is(err, auctionerrors.ErrInvalidRoomCode):
		return http.StatusForbidden, "invalid_room_code", "invalid room code"
	case errors.Is(err, auctionerrors.ErrNotJoined):
		return http.StatusForbidden, "not_joined", "join the auction room first"
	case errors.Is(err, auctionerrors.ErrNotEligible):
		return http.StatusForbidden, "not_eligible", "not eligible to bid in this batch"
	case errors.Is(err, auctionerrors.ErrAuctionNotRunning):
		return http.StatusConflict, "auction_not_running", "auction is not running"
	case errors.Is(err, auctionerrors.ErrAlreadyTopBidder):
		return http.StatusConflict, "already_top_bidder", "you are already the top bidder"
	case errors.Is(err, auctionerrors.ErrAuctionFinished):
		return http.StatusConflict, "auction_finished", "auction round is finished"
	case errors.Is(err, auctionerrors.ErrAuctionNotFinished):
		return http.StatusConflict, "auction_not_finished", "auction round is not finished"
	case errors.Is(err, auctionerrors.ErrInvalidIncrement):
		return http.StatusBadRequest, "invalid_increment", "bid increment is not allowed"
	case errors.Is(err, auctionerrors.ErrInvalidConfig):
		return http.StatusBadRequest, "invalid_config", "invalid auction configuration"
	case errors.Is(err, auctionerrors.ErrInvalidSettlement):
		return http.StatusBadRequest, "invalid_settlement", "invalid settlement figures"
	case errors.Is(err, auctionerrors.ErrInvalidRequest):
		return http.StatusBadRequest, "invalid_request", "invalid request"
	case errors.Is(err, auctionerrors.ErrRequestNotFound):
		return http.StatusNotFound, "request_not_found", "request not found"
	case errors.Is(err, auctionerrors.ErrBatchNotFound):
		return http.StatusNotFound, "batch_not_found", "batch not found"
	case errors.Is(err, auctionerrors.ErrUserNotFound):
		return http.StatusNotFound, "user_not_found", "user not found"
	case errors.Is(err, auctionerrors.ErrRequestNotPending):
		return http.StatusConflict, "request_not_pending", "request was already decided"
	case errors.Is(err, auctionerrors.ErrChitAlreadyActive):
		return http.StatusConflict, "chit_already_active", "user already holds an active chit in this batch"
	case errors.Is(err, auctionerrors.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "store_unavailable", "storage is unavailable, please retry"
	case errors.Is(err, auctionerrors.ErrMalformedStoredValue):
		return http.StatusInternalServerError, "malformed_stored_value", "stored data is unreadable"
	default:
		return http.StatusInternalServerError, "internal", "internal server error"
	}
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
