package integrationtests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	auction "chit-auction/internal/auctionService"
	"chit-auction/internal/repository"
	requests "chit-auction/internal/requestService"
	roster "chit-auction/internal/rosterService"
	"chit-auction/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// TestApp is a fully wired service over an in-memory store
type TestApp struct {
	Router *gin.Engine
	Engine *auction.Engine
	Store  *repository.MemoryStore
}

// SetupTestApp wires engine, roster and request services behind the real router.
func SetupTestApp(t *testing.T) *TestApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryStore()
	engine, err := auction.NewEngine(context.Background(), store, auction.DefaultConfig(time.Now()))
	require.NoError(t, err)
	t.Cleanup(engine.Close)

	rosterSvc := roster.NewService(store, engine)
	router := server.SetupRouter(server.Services{
		Auction:  engine,
		Requests: requests.NewService(store, engine, rosterSvc),
		Roster:   rosterSvc,
	}, nil, nil)

	return &TestApp{Router: router, Engine: engine, Store: store}
}

// ExecuteRequest executes an HTTP request and returns the response recorder.
func ExecuteRequest(t *testing.T, router *gin.Engine, method, url string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ExecuteRequestAndParse executes an HTTP request on the given router and parses the response envelope
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := ExecuteRequest(t, router, method, url, reqBody)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}
	return resp, w
}

// Data returns the "data" object of a parsed envelope
func Data(t *testing.T, resp map[string]any) map[string]any {
	t.Helper()
	data, ok := resp["data"].(map[string]any)
	require.True(t, ok, "response has no data object: %v", resp)
	return data
}
