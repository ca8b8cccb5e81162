package requests

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	auction "chit-auction/internal/auctionService"
	"chit-auction/internal/auctionerrors"
	"chit-auction/internal/models"
	"chit-auction/internal/repository"
	roster "chit-auction/internal/rosterService"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc    *Service
	roster *roster.Service
	engine *auction.Engine
	store  *repository.MemoryStore
}

func setup(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	store := repository.NewMemoryStore()
	engine, err := auction.NewEngine(ctx, store, auction.DefaultConfig(time.Now()))
	require.NoError(t, err)
	t.Cleanup(engine.Close)

	r := roster.NewService(store, engine)
	_, err = r.AddBatch(ctx, models.ChitBatch{ID: "GK-A1", Name: "Alpha Batch", Value: 600000, Subscription: 25000, Dividend: 1200})
	require.NoError(t, err)

	svc := NewService(store, engine, r)
	svc.now = func() time.Time { return time.Date(2025, time.November, 3, 9, 0, 0, 0, time.UTC) }
	return fixture{svc: svc, roster: r, engine: engine, store: store}
}

func (f fixture) submit(t *testing.T, userID string, d models.RequestDetails) models.UserRequest {
	t.Helper()
	req, err := f.svc.Submit(context.Background(), models.UserRequest{UserID: userID, UserName: "Asha", Details: d})
	require.NoError(t, err)
	return req
}

func TestService_Submit(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tests := []struct {
		name          string
		req           models.UserRequest
		expectedError error
	}{
		{name: "join_chit", req: models.UserRequest{UserID: "USR-1", UserName: "Asha", Details: models.JoinChitDetails{BatchID: "GK-A1"}}},
		{name: "registration_without_user_id", req: models.UserRequest{UserName: "Ravi", Details: models.RegistrationDetails{Email: "r@gk.in"}}},
		{name: "missing_details", req: models.UserRequest{UserID: "USR-1", UserName: "Asha"}, expectedError: auctionerrors.ErrInvalidRequest},
		{name: "missing_name", req: models.UserRequest{UserID: "USR-1", Details: models.NewLoanDetails{}}, expectedError: auctionerrors.ErrInvalidRequest},
		{name: "loan_without_user", req: models.UserRequest{UserName: "Asha", Details: models.NewLoanDetails{}}, expectedError: auctionerrors.ErrInvalidRequest},
		{name: "join_without_batch", req: models.UserRequest{UserID: "USR-1", UserName: "Asha", Details: models.JoinChitDetails{}}, expectedError: auctionerrors.ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.svc.Submit(ctx, tt.req)
			if tt.expectedError != nil {
				require.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(got.ID, "REQ-"))
			require.Equal(t, models.RequestPending, got.Status)
			require.Equal(t, "03 Nov 2025", got.Date)
			require.Equal(t, tt.req.Details.RequestType(), got.Type)
		})
	}

	all, err := f.svc.List(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, models.RequestRegistration, all[0].Type, "newest first")
}

func TestService_ApproveJoinChit(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	req := f.submit(t, "USR-1", models.JoinChitDetails{BatchID: "GK-A1"})

	got, err := f.svc.Approve(ctx, req.ID, "welcome")
	require.NoError(t, err)
	require.Equal(t, models.RequestApproved, got.Status)
	require.Equal(t, "welcome", got.AdminComment)

	fin, err := f.engine.Finance(ctx, "USR-1")
	require.NoError(t, err)
	require.Len(t, fin.Chits, 1)
	chit := fin.Chits[0]
	require.Equal(t, "GK-A1", chit.BatchID)
	require.Equal(t, 20, chit.Term)
	require.Equal(t, int64(600000), chit.PendingAmount)
	require.Equal(t, int64(25000), chit.CurrentMonthPayment)
	require.Equal(t, models.StatusActive, chit.Status)

	ok, err := f.engine.CanBid(ctx, "USR-1", "GK-A1")
	require.NoError(t, err)
	require.True(t, ok)

	// a second approval is refused and leaves the request pending
	again := f.submit(t, "USR-1", models.JoinChitDetails{BatchID: "GK-A1"})
	_, err = f.svc.Approve(ctx, again.ID, "")
	require.ErrorIs(t, err, auctionerrors.ErrChitAlreadyActive)
	pending, err := f.svc.List(ctx, models.RequestPending, "")
	require.NoError(t, err)
	require.Len(t, pending, 1)
}

func TestService_ApproveJoinUnknownBatch(t *testing.T) {
	f := setup(t)
	req := f.submit(t, "USR-1", models.JoinChitDetails{BatchID: "GK-Z9"})

	_, err := f.svc.Approve(context.Background(), req.ID, "")
	require.ErrorIs(t, err, auctionerrors.ErrBatchNotFound)
}

func TestService_ApproveLoanAndDeposit(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	loan := f.submit(t, "USR-1", models.NewLoanDetails{Purpose: "shop"})
	deposit := f.submit(t, "USR-1", models.NewDepositDetails{Amount: 80000})

	_, err := f.svc.Approve(ctx, loan.ID, "")
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, deposit.ID, "")
	require.NoError(t, err)

	fin, err := f.engine.Finance(ctx, "USR-1")
	require.NoError(t, err)
	require.Len(t, fin.Loans, 1)
	require.Equal(t, int64(100000), fin.Loans[0].Amount)
	require.Equal(t, int64(2000), fin.Loans[0].MonthlyInterest)
	require.True(t, strings.HasPrefix(fin.Loans[0].ID, "LN-"))

	require.Len(t, fin.Deposits, 1)
	require.Equal(t, int64(80000), fin.Deposits[0].Amount)
	require.Equal(t, int64(1200), fin.Deposits[0].MonthlyPayout)
	require.Equal(t, "03 Nov 2026", fin.Deposits[0].MaturityDate)
}

func TestService_ApproveRegistrationAddsMember(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	req, err := f.svc.Submit(ctx, models.UserRequest{UserName: "Ravi", Details: models.RegistrationDetails{Email: "r@gk.in", Phone: "98450"}})
	require.NoError(t, err)

	got, err := f.svc.Approve(ctx, req.ID, "")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(got.UserID, "USR-"))

	u, err := f.roster.Get(ctx, got.UserID)
	require.NoError(t, err)
	require.Equal(t, "Ravi", u.Name)
	require.Equal(t, "r@gk.in", u.Email)
	require.Equal(t, 1, f.engine.Config().JoinedUsers)

	stored, err := f.svc.List(ctx, models.RequestApproved, got.UserID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
}

func TestService_ForexIsStatusOnly(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	req := f.submit(t, "USR-1", models.ForexDetails{Direction: "Buy", FromCurrency: "INR", ToCurrency: "USD", Amount: decimal.NewFromInt(500)})

	got, err := f.svc.Approve(ctx, req.ID, "")
	require.NoError(t, err)
	require.Equal(t, models.RequestApproved, got.Status)

	fin, err := f.engine.Finance(ctx, "USR-1")
	require.NoError(t, err)
	require.Empty(t, fin.Chits)
	require.Empty(t, fin.Loans)
}

func TestService_RejectAndDecisionsAreFinal(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	req := f.submit(t, "USR-1", models.NewLoanDetails{Amount: 5000})

	got, err := f.svc.Reject(ctx, req.ID, "insufficient history")
	require.NoError(t, err)
	require.Equal(t, models.RequestRejected, got.Status)

	_, err = f.svc.Approve(ctx, req.ID, "")
	require.ErrorIs(t, err, auctionerrors.ErrRequestNotPending)
	_, err = f.svc.Reject(ctx, req.ID, "")
	require.ErrorIs(t, err, auctionerrors.ErrRequestNotPending)
	_, err = f.svc.Approve(ctx, "REQ-NOPE", "")
	require.ErrorIs(t, err, auctionerrors.ErrRequestNotFound)

	fin, err := f.engine.Finance(ctx, "USR-1")
	require.NoError(t, err)
	require.Empty(t, fin.Loans)
}

func TestService_UnreadableRequestsAreDropped(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	raw := `[{"id":"REQ-1","userName":"A","type":"Join Chit","status":"Pending","date":"x","details":{"batchId":"GK-A1"}},
	         {"id":"REQ-2","userName":"B","type":"Gold Loan","status":"Pending","date":"x"}]`
	require.NoError(t, f.store.Set(ctx, repository.KeyUserRequests, []byte(raw)))

	all, err := f.svc.List(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "REQ-1", all[0].ID)
	require.Equal(t, models.JoinChitDetails{BatchID: "GK-A1"}, all[0].Details)
}

// gatedStore pauses the first ledger read after it is armed until release is closed
type gatedStore struct {
	repository.KVStore
	armed   atomic.Bool
	reached chan struct{}
	release chan struct{}
}

func (g *gatedStore) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := g.KVStore.Get(ctx, key)
	if key == repository.KeyFinances && g.armed.CompareAndSwap(true, false) {
		close(g.reached)
		<-g.release
	}
	return raw, err
}

// An approval landing while a settlement is between reading and writing the ledger keeps both changes
func TestService_ApproveDuringSettlement(t *testing.T) {
	ctx := context.Background()
	store := &gatedStore{KVStore: repository.NewMemoryStore(), reached: make(chan struct{}), release: make(chan struct{})}

	engine, err := auction.NewEngine(ctx, store, auction.DefaultConfig(time.Now()))
	require.NoError(t, err)
	t.Cleanup(engine.Close)
	r := roster.NewService(store, engine)
	_, err = r.AddBatch(ctx, models.ChitBatch{ID: "GK-A1", Name: "Alpha Batch", Value: 600000, Subscription: 25000, Dividend: 1200})
	require.NoError(t, err)
	svc := NewService(store, engine, r)

	joinReq, err := svc.Submit(ctx, models.UserRequest{UserID: "USR-1", UserName: "Asha", Details: models.JoinChitDetails{BatchID: "GK-A1"}})
	require.NoError(t, err)
	_, err = svc.Approve(ctx, joinReq.ID, "")
	require.NoError(t, err)
	loanReq, err := svc.Submit(ctx, models.UserRequest{UserID: "USR-1", UserName: "Asha", Details: models.NewLoanDetails{Amount: 100000}})
	require.NoError(t, err)

	require.NoError(t, engine.JoinRoom("USR-1", engine.Config().RoomCode))
	_, err = engine.StartRound(ctx)
	require.NoError(t, err)
	_, err = engine.PlaceBid(ctx, models.Participant{UserID: "USR-1", Name: "Asha"}, "", decimal.RequireFromString("0.5"))
	require.NoError(t, err)
	_, err = engine.Finalize(ctx)
	require.NoError(t, err)

	store.armed.Store(true)
	settled := make(chan error, 1)
	go func() {
		_, err := engine.Settle(ctx, "", engine.SuggestSettlement())
		settled <- err
	}()
	select {
	case <-store.reached:
	case <-time.After(2 * time.Second):
		t.Fatal("settlement never read the ledger")
	}

	approved := make(chan error, 1)
	go func() {
		_, err := svc.Approve(ctx, loanReq.ID, "")
		approved <- err
	}()
	select {
	case err := <-approved:
		t.Fatalf("approval wrote the ledger while settlement held it: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(store.release)
	require.NoError(t, <-settled)
	require.NoError(t, <-approved)

	fin, err := engine.Finance(ctx, "USR-1")
	require.NoError(t, err)
	require.Len(t, fin.Loans, 1)
	require.Equal(t, int64(100000), fin.Loans[0].Amount)
	require.Len(t, fin.Chits, 1)
	require.Len(t, fin.Chits[0].History, 1)
	require.True(t, fin.Chits[0].BidWon)
}
