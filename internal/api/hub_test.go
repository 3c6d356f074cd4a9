package api

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamedkhairy/momentum-screener/internal/models"
	"github.com/mohamedkhairy/momentum-screener/internal/toplist"
)

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func snapshotUpdate(runID string) toplist.Update {
	return toplist.Update{Snapshot: models.ToplistSnapshot{
		RunID:     runID,
		Rankings:  []models.ScreeningResult{{Symbol: "AAA", Rank: 1}},
		Timestamp: time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC),
	}}
}

func TestHub_BroadcastsToplist(t *testing.T) {
	hub := NewHub(HubConfig{})
	defer hub.Stop()
	server := httptest.NewServer(NewRouter(NewHandler(toplist.NewMemoryStore(), nil), hub))
	defer server.Close()

	conn := dial(t, server)
	require.Eventually(t, func() bool { return hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Publish(context.Background(), snapshotUpdate("run-1")))

	msg := readMessage(t, conn)
	assert.Equal(t, MessageTypeToplist, msg.Type)
	assert.Equal(t, "run-1", msg.Data.RunID)
	assert.Equal(t, []string{"AAA"}, msg.Data.Symbols())
}

func TestHub_ReplaysLatestOnConnect(t *testing.T) {
	hub := NewHub(HubConfig{})
	defer hub.Stop()
	server := httptest.NewServer(NewRouter(NewHandler(toplist.NewMemoryStore(), nil), hub))
	defer server.Close()

	require.NoError(t, hub.Publish(context.Background(), snapshotUpdate("run-1")))
	require.NoError(t, hub.Publish(context.Background(), snapshotUpdate("run-2")))

	conn := dial(t, server)
	msg := readMessage(t, conn)
	assert.Equal(t, "run-2", msg.Data.RunID)
}

func TestHub_UnregistersOnClientClose(t *testing.T) {
	hub := NewHub(HubConfig{})
	defer hub.Stop()
	server := httptest.NewServer(NewRouter(NewHandler(toplist.NewMemoryStore(), nil), hub))
	defer server.Close()

	conn := dial(t, server)
	require.Eventually(t, func() bool { return hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_PublishWithoutClients(t *testing.T) {
	hub := NewHub(HubConfig{})
	defer hub.Stop()

	assert.NoError(t, hub.Publish(context.Background(), snapshotUpdate("run-1")))
	assert.Equal(t, 0, hub.Count())
}

func TestHub_StopClosesClients(t *testing.T) {
	hub := NewHub(HubConfig{})
	server := httptest.NewServer(NewRouter(NewHandler(toplist.NewMemoryStore(), nil), hub))
	defer server.Close()

	dial(t, server)
	require.Eventually(t, func() bool { return hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Stop()
	assert.Equal(t, 0, hub.Count())
}
