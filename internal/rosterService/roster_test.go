package roster

import (
	"context"
	"strings"
	"testing"
	"time"

	auction "chit-auction/internal/auctionService"
	"chit-auction/internal/auctionerrors"
	"chit-auction/internal/models"
	"chit-auction/internal/repository"

	"github.com/stretchr/testify/require"
)

func setupRoster(t *testing.T) (*Service, *auction.Engine, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	engine, err := auction.NewEngine(context.Background(), store, auction.DefaultConfig(time.Now()))
	require.NoError(t, err)
	t.Cleanup(engine.Close)
	return NewService(store, engine), engine, store
}

func TestService_AddUser(t *testing.T) {
	svc, engine, _ := setupRoster(t)
	ctx := context.Background()

	tests := []struct {
		name          string
		user          models.User
		expectedError error
	}{
		{name: "generated_id", user: models.User{Name: "Asha"}},
		{name: "given_id", user: models.User{ID: "USR-0042", Name: "Ravi"}},
		{name: "duplicate_id", user: models.User{ID: "USR-0042", Name: "Ravi again"}, expectedError: auctionerrors.ErrInvalidRequest},
		{name: "blank_name", user: models.User{Name: "  "}, expectedError: auctionerrors.ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Add(ctx, tt.user)
			if tt.expectedError != nil {
				require.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(got.ID, "USR-"))
			require.NotNil(t, got.Services)
		})
	}

	users, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, 2, engine.Config().JoinedUsers)
	require.Equal(t, "USR-0042", engine.Config().JoinedUsersList[1].ID)
}

func TestService_UpdateAndDeleteUser(t *testing.T) {
	svc, engine, _ := setupRoster(t)
	ctx := context.Background()

	u, err := svc.Add(ctx, models.User{ID: "USR-1", Name: "Asha", Services: []string{"Chit Funds"}})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, u.ID, models.User{ID: "ignored", Name: "Asha K", Phone: "98450"})
	require.NoError(t, err)
	require.Equal(t, "USR-1", updated.ID)
	require.Equal(t, []string{"Chit Funds"}, updated.Services)
	require.Equal(t, "Asha K", engine.Config().JoinedUsersList[0].Name)

	got, err := svc.Get(ctx, "USR-1")
	require.NoError(t, err)
	require.Equal(t, "98450", got.Phone)

	_, err = svc.Update(ctx, "USR-404", models.User{Name: "x"})
	require.ErrorIs(t, err, auctionerrors.ErrUserNotFound)

	require.NoError(t, svc.Delete(ctx, "USR-1"))
	require.Equal(t, 0, engine.Config().JoinedUsers)
	require.ErrorIs(t, svc.Delete(ctx, "USR-1"), auctionerrors.ErrUserNotFound)

	_, err = svc.Get(ctx, "USR-1")
	require.ErrorIs(t, err, auctionerrors.ErrUserNotFound)
}

func TestService_MalformedUsers(t *testing.T) {
	svc, _, store := setupRoster(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, repository.KeyUsers, []byte(`{`)))

	users, err := svc.List(ctx)
	require.NoError(t, err)
	require.Empty(t, users)

	// writes refuse to replace a record they cannot read
	_, err = svc.Add(ctx, models.User{Name: "Asha"})
	require.ErrorIs(t, err, auctionerrors.ErrMalformedStoredValue)
}

func TestService_Batches(t *testing.T) {
	svc, _, _ := setupRoster(t)
	ctx := context.Background()

	b, err := svc.AddBatch(ctx, models.ChitBatch{ID: "GK-A1", Name: "Alpha Batch", Value: 600000, Subscription: 25000})
	require.NoError(t, err)
	require.Equal(t, models.StatusActive, b.Status)

	generated, err := svc.AddBatch(ctx, models.ChitBatch{Name: "Beta Batch", Value: 300000})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(generated.ID, "GK-"))

	_, err = svc.AddBatch(ctx, models.ChitBatch{ID: "GK-A1", Name: "dup", Value: 1})
	require.ErrorIs(t, err, auctionerrors.ErrInvalidRequest)
	_, err = svc.AddBatch(ctx, models.ChitBatch{Name: "free", Value: 0})
	require.ErrorIs(t, err, auctionerrors.ErrInvalidRequest)

	all, err := svc.Batches(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	got, err := svc.Batch(ctx, "GK-A1")
	require.NoError(t, err)
	require.Equal(t, int64(25000), got.Subscription)

	_, err = svc.Batch(ctx, "GK-Z9")
	require.ErrorIs(t, err, auctionerrors.ErrBatchNotFound)
}
