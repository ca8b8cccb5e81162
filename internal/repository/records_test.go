package repository

import (
	"context"
	"errors"
	"testing"

	"chit-auction/internal/auctionerrors"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestLoad_Fallbacks(t *testing.T) {
	def := sample{Name: "default", Count: 7}

	tests := []struct {
		name      string
		stored    []byte
		want      sample
		wantError error
	}{
		{name: "absent", stored: nil, want: def},
		{name: "null", stored: []byte(`null`), want: def},
		{name: "undefined", stored: []byte(`undefined`), want: def},
		{name: "valid", stored: []byte(`{"name":"x","count":2}`), want: sample{Name: "x", Count: 2}},
		{name: "corrupted", stored: []byte(`{"name":`), want: def, wantError: auctionerrors.ErrMalformedStoredValue},
		{name: "wrong_shape", stored: []byte(`[1,2]`), want: def, wantError: auctionerrors.ErrMalformedStoredValue},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			store := NewMemoryStore()
			ctx := context.Background()
			if tc.stored != nil {
				require.NoError(t, store.Set(ctx, "key", tc.stored))
			}

			got, err := Load(ctx, store, "key", def)
			if tc.wantError != nil {
				require.True(t, errors.Is(err, tc.wantError), "expected error: %v, got: %v", tc.wantError, err)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tc.want, got)
		})
	}
}

func TestLoad_StoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := NewMockKVStore(ctrl)
	mockStore.EXPECT().Get(gomock.Any(), "key").Return(nil, auctionerrors.ErrStoreUnavailable)

	got, err := Load(context.Background(), mockStore, "key", sample{Name: "default"})
	require.True(t, errors.Is(err, auctionerrors.ErrStoreUnavailable))
	require.Equal(t, "default", got.Name)
}

func TestBatch_CommitWritesOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := NewMockKVStore(ctrl)
	mockStore.EXPECT().SetMany(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, values map[string][]byte) error {
			require.Len(t, values, 2)
			require.JSONEq(t, `{"name":"a","count":1}`, string(values["a"]))
			require.JSONEq(t, `[1,2]`, string(values["b"]))
			return nil
		})

	b := Batch{}
	require.NoError(t, b.Put("a", sample{Name: "a", Count: 1}))
	require.NoError(t, b.Put("b", []int{1, 2}))
	require.NoError(t, b.Commit(context.Background(), mockStore))
}

func TestBatch_EmptyCommitIsNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// no expectations: any call fails the test
	mockStore := NewMockKVStore(ctrl)
	require.NoError(t, Batch{}.Commit(context.Background(), mockStore))
}
