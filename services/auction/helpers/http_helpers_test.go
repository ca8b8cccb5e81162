package helpers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"chit-auction/internal/auctionerrors"
	"chit-auction/internal/models"

	"github.com/stretchr/testify/require"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		err    error
		status int
		reason string
	}{
		{auctionerrors.ErrInvalidRoomCode, http.StatusForbidden, "invalid_room_code"},
		{auctionerrors.ErrNotEligible, http.StatusForbidden, "not_eligible"},
		{auctionerrors.ErrAuctionNotRunning, http.StatusConflict, "auction_not_running"},
		{auctionerrors.ErrAlreadyTopBidder, http.StatusConflict, "already_top_bidder"},
		{auctionerrors.ErrInvalidIncrement, http.StatusBadRequest, "invalid_increment"},
		{auctionerrors.ErrRequestNotFound, http.StatusNotFound, "request_not_found"},
		{auctionerrors.ErrStoreUnavailable, http.StatusServiceUnavailable, "store_unavailable"},
		{fmt.Errorf("service: place bid: %w", auctionerrors.ErrAlreadyTopBidder), http.StatusConflict, "already_top_bidder"},
		{errors.New("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tt := range tests {
		status, reason, message := MapErrorToHTTP(tt.err)
		require.Equal(t, tt.status, status, tt.err.Error())
		require.Equal(t, tt.reason, reason)
		require.NotEmpty(t, message)
	}
}

func TestSettleRequest_Apply(t *testing.T) {
	suggested := models.SettlementResult{FinalLoss: 69000, Dividend: 2875, MonthlyPayment: 22125, WinnerID: "B", RunningMonth: "Nov"}

	require.Equal(t, suggested, SettleRequest{}.Apply(suggested))

	dividend := int64(3000)
	month := "Dec"
	got := SettleRequest{Dividend: &dividend, RunningMonth: &month}.Apply(suggested)
	require.Equal(t, int64(3000), got.Dividend)
	require.Equal(t, "Dec", got.RunningMonth)
	require.Equal(t, int64(69000), got.FinalLoss)
}
