package auction

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"chit-auction/internal/models"
	"chit-auction/internal/repository"

	"github.com/stretchr/testify/require"
)

const testBatch = "GK-A1"

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2025, time.November, 3, 10, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func activeChit(batchID string) models.UserChit {
	one := 1
	return models.UserChit{
		BatchID:    batchID,
		BatchName:  "Alpha Batch",
		Value:      600000,
		Term:       24,
		Status:     models.StatusActive,
		BidsInHand: &one,
		History:    []models.HistoryRow{},
	}
}

// testLedger gives every id an Active, unwon chit in testBatch
func testLedger(ids ...string) models.Ledger {
	l := models.Ledger{}
	for _, id := range ids {
		l[id] = models.UserFinance{Chits: []models.UserChit{activeChit(testBatch)}}
	}
	return l
}

func putJSON(t *testing.T, store repository.KVStore, key string, v any) {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), key, raw))
}

func newTestEngine(t *testing.T, store repository.KVStore, clock *testClock) *Engine {
	t.Helper()
	e, err := NewEngine(context.Background(), store, DefaultConfig(clock.Now()), WithClock(clock.Now))
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

// runningEngine returns an engine over a fresh memory store whose round is running
// and where every id in members has joined and holds an eligible chit
func runningEngine(t *testing.T, members ...string) (*Engine, *repository.MemoryStore, *testClock) {
	t.Helper()
	store := repository.NewMemoryStore()
	putJSON(t, store, repository.KeyFinances, testLedger(members...))
	clock := newTestClock()
	e := newTestEngine(t, store, clock)

	for _, id := range members {
		require.NoError(t, e.JoinRoom(id, e.Config().RoomCode))
	}
	_, err := e.StartRound(context.Background())
	require.NoError(t, err)
	return e, store, clock
}

func participant(id string) models.Participant {
	return models.Participant{UserID: id, Name: "User " + id}
}
