package integrationtests

import (
	"fmt"
	"net/http"
	"testing"

	"chit-auction/internal/models"
	"chit-auction/services/auction/helpers"

	"github.com/stretchr/testify/require"
)

const roomCode = "GK-123456"

// enroll registers members through the admin API and gives each an approved chit in GK-A1
func enroll(t *testing.T, app *TestApp, ids ...string) {
	t.Helper()

	_, w := ExecuteRequestAndParse(t, app.Router, http.MethodPost, "/admin/batches", models.ChitBatch{
		ID: "GK-A1", Name: "Alpha Batch", Value: 600000, Subscription: 25000, Dividend: 1200,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	for _, id := range ids {
		_, w = ExecuteRequestAndParse(t, app.Router, http.MethodPost, "/admin/users", models.User{ID: id, Name: "User " + id})
		require.Equal(t, http.StatusCreated, w.Code)

		resp, w := ExecuteRequestAndParse(t, app.Router, http.MethodPost, "/requests", map[string]any{
			"userId":   id,
			"userName": "User " + id,
			"type":     "Join Chit",
			"details":  map[string]any{"batchId": "GK-A1"},
		})
		require.Equal(t, http.StatusCreated, w.Code)
		reqID := Data(t, resp)["id"].(string)

		_, w = ExecuteRequestAndParse(t, app.Router, http.MethodPost, "/admin/requests/"+reqID+"/approve", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
}

func join(t *testing.T, app *TestApp, id string) {
	t.Helper()
	_, w := ExecuteRequestAndParse(t, app.Router, http.MethodPost, "/auction/join", helpers.JoinRoomRequest{UserID: id, RoomCode: roomCode})
	require.Equal(t, http.StatusOK, w.Code)
}

func bid(t *testing.T, app *TestApp, id, pct string) (map[string]any, int) {
	t.Helper()
	resp, w := ExecuteRequestAndParse(t, app.Router, http.MethodPost, "/auction/bids", helpers.PlaceBidRequest{UserID: id, Percentage: pct})
	return resp, w.Code
}

// Full round: enrollment, bidding, finalization and settlement
func TestAuctionRound_EndToEnd(t *testing.T) {
	app := SetupTestApp(t)
	enroll(t, app, "A", "B", "C")

	resp, w := ExecuteRequestAndParse(t, app.Router, http.MethodGet, "/users/A/can-bid", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, Data(t, resp)["can_bid"])

	for _, id := range []string{"A", "B", "C"} {
		join(t, app, id)
	}

	_, code := bid(t, app, "A", "0.5")
	require.Equal(t, http.StatusConflict, code, "bidding before start")

	_, w = ExecuteRequestAndParse(t, app.Router, http.MethodPost, "/admin/auction/start", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp, code = bid(t, app, "A", "0.5")
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, 33000.0, Data(t, resp)["currentLoss"])

	resp, code = bid(t, app, "A", "0.1")
	require.Equal(t, http.StatusConflict, code)
	require.Equal(t, "already_top_bidder", resp["reason"])

	resp, code = bid(t, app, "B", "1.0")
	require.Equal(t, http.StatusCreated, code)
	view := Data(t, resp)
	require.Equal(t, 39000.0, view["currentLoss"])
	require.Equal(t, "B", view["topBidder"].(map[string]any)["userId"])
	require.Equal(t, "6.50", view["highestInterestPct"])

	resp, code = bid(t, app, "C", "0.7")
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "invalid_increment", resp["reason"])

	resp, w = ExecuteRequestAndParse(t, app.Router, http.MethodPost, "/admin/auction/finalize", nil)
	require.Equal(t, http.StatusOK, w.Code)
	winner := Data(t, resp)["winner"].(map[string]any)
	require.Equal(t, "B", winner["userId"])
	require.Equal(t, 69000.0, winner["finalLoss"])
	require.Equal(t, 531000.0, winner["monthInHand"])

	resp, w = ExecuteRequestAndParse(t, app.Router, http.MethodGet, "/admin/auction/settlement", nil)
	require.Equal(t, http.StatusOK, w.Code)
	suggestion := Data(t, resp)
	require.Equal(t, 2875.0, suggestion["dividend"])
	require.Equal(t, 22125.0, suggestion["monthlyPayment"])

	resp, w = ExecuteRequestAndParse(t, app.Router, http.MethodPost, "/admin/auction/settle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	report := Data(t, resp)
	require.Equal(t, []any{"A", "B", "C"}, report["touched"])
	require.Equal(t, false, report["state"].(map[string]any)["finished"])

	resp, w = ExecuteRequestAndParse(t, app.Router, http.MethodGet, "/users/B/finance", nil)
	require.Equal(t, http.StatusOK, w.Code)
	chit := Data(t, resp)["chits"].([]any)[0].(map[string]any)
	require.Equal(t, true, chit["bidWon"])
	require.Equal(t, 69000.0, chit["bidAmount"])

	resp, _ = ExecuteRequestAndParse(t, app.Router, http.MethodGet, "/users/B/can-bid", nil)
	require.Equal(t, false, Data(t, resp)["can_bid"])
}

func TestJoinRoom_API(t *testing.T) {
	tests := []struct {
		name       string
		request    any
		wantStatus int
		wantReason string
	}{
		{name: "Valid_Code", request: helpers.JoinRoomRequest{UserID: "A", RoomCode: roomCode}, wantStatus: http.StatusOK},
		{name: "Wrong_Code", request: helpers.JoinRoomRequest{UserID: "A", RoomCode: "GK-000000"}, wantStatus: http.StatusForbidden, wantReason: "invalid_room_code"},
		{name: "Missing_Code", request: map[string]string{"user_id": "A"}, wantStatus: http.StatusBadRequest, wantReason: "invalid_payload"},
		{name: "Invalid_JSON", request: []byte("{user_id: 'A'"), wantStatus: http.StatusBadRequest, wantReason: "invalid_payload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := SetupTestApp(t)
			resp, w := ExecuteRequestAndParse(t, app.Router, http.MethodPost, "/auction/join", tt.request)
			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantReason != "" {
				require.Equal(t, tt.wantReason, resp["reason"])
			}
		})
	}
}

func TestBid_NotEligibleAndAdminBypass(t *testing.T) {
	app := SetupTestApp(t)
	enroll(t, app)

	join(t, app, "X")
	join(t, app, "ADMIN1")
	_, w := ExecuteRequestAndParse(t, app.Router, http.MethodPost, "/admin/auction/start", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp, code := bid(t, app, "X", "0.5")
	require.Equal(t, http.StatusForbidden, code)
	require.Equal(t, "not_eligible", resp["reason"])

	// admin console bids skip the ledger check
	resp, w = ExecuteRequestAndParse(t, app.Router, http.MethodPost, "/admin/auction/bids", helpers.PlaceBidRequest{UserID: "ADMIN1", Percentage: "0.2"})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, 31200.0, Data(t, resp)["currentLoss"])
}

func TestRequests_API(t *testing.T) {
	app := SetupTestApp(t)
	enroll(t, app, "A")

	for i, typ := range []string{"New Loan", "New Deposit"} {
		resp, w := ExecuteRequestAndParse(t, app.Router, http.MethodPost, "/requests", map[string]any{
			"userId":   "A",
			"userName": "User A",
			"type":     typ,
			"details":  map[string]any{"amount": 50000 * (i + 1)},
		})
		require.Equal(t, http.StatusCreated, w.Code)
		require.Equal(t, models.RequestPending, Data(t, resp)["status"])
	}

	resp, w := ExecuteRequestAndParse(t, app.Router, http.MethodGet, "/requests?status=Pending", nil)
	require.Equal(t, http.StatusOK, w.Code)
	pending := resp["data"].([]any)
	require.Len(t, pending, 2)

	loanID := pending[1].(map[string]any)["id"].(string)
	depositID := pending[0].(map[string]any)["id"].(string)

	_, w = ExecuteRequestAndParse(t, app.Router, http.MethodPost, fmt.Sprintf("/admin/requests/%s/approve", loanID), map[string]string{"comment": "ok"})
	require.Equal(t, http.StatusOK, w.Code)
	_, w = ExecuteRequestAndParse(t, app.Router, http.MethodPost, fmt.Sprintf("/admin/requests/%s/reject", depositID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp, w = ExecuteRequestAndParse(t, app.Router, http.MethodPost, fmt.Sprintf("/admin/requests/%s/approve", depositID), nil)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "request_not_pending", resp["reason"])

	resp, _ = ExecuteRequestAndParse(t, app.Router, http.MethodGet, "/users/A/finance", nil)
	fin := Data(t, resp)
	require.Len(t, fin["loans"].([]any), 1)
	require.Empty(t, fin["deposits"].([]any))
	require.Equal(t, 50000.0, fin["loans"].([]any)[0].(map[string]any)["amount"])
}
