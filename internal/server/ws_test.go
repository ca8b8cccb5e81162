package server

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"chit-auction/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestHub_StreamsChanges(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := repository.NewMemoryStore()
	hub := NewHub(store.Fork())
	defer hub.Close()

	router := gin.New()
	router.GET("/ws", hub.Handle)
	srv := httptest.NewServer(router)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "gk_auctionState", []byte(`{"running":true}`)))
	require.NoError(t, store.Set(ctx, "gk_cmsConfig", []byte("not json")))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var ev ChangeEvent
	require.NoError(t, conn.ReadJSON(&ev))
	require.Equal(t, "gk_auctionState", ev.Key)
	require.Equal(t, store.WriterID(), ev.Writer)
	require.JSONEq(t, `{"running":true}`, string(ev.Value))

	require.NoError(t, conn.ReadJSON(&ev))
	require.Equal(t, "gk_cmsConfig", ev.Key)
	var raw string
	require.NoError(t, json.Unmarshal(ev.Value, &raw))
	require.Equal(t, "not json", raw)
}

func TestHub_CloseDisconnectsClients(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub(repository.NewMemoryStore())

	router := gin.New()
	router.GET("/ws", hub.Handle)
	srv := httptest.NewServer(router)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	hub.Close()
	require.Equal(t, 0, hub.Clients())

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	require.True(t, websocket.IsCloseError(err, websocket.CloseNoStatusReceived), "unexpected error: %v", err)
}
