package ws_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/vedran77/lawnpool/internal/domain"
	"github.com/vedran77/lawnpool/internal/repository/memory"
	"github.com/vedran77/lawnpool/internal/service"
	"github.com/vedran77/lawnpool/internal/transport/ws"
)

type env struct {
	hub      *ws.Hub
	messages *service.MessageService
	url      string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	hub := ws.NewHub()
	messages := service.NewMessageService(store.Messages)
	messages.SetNotifier(ws.NewHubNotifier(hub))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", ws.ServeWS(hub, messages, ws.Options{SendRate: 100, SendBurst: 100}))
	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})

	return &env{hub: hub, messages: messages, url: "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"}
}

func (e *env) dial(t *testing.T, ctx context.Context) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.Dial(ctx, e.url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

func (e *env) join(t *testing.T, ctx context.Context, conn *websocket.Conn, userID uuid.UUID, want int) {
	t.Helper()
	require.NoError(t, wsjson.Write(ctx, conn, map[string]any{"type": ws.EventTypeJoinRoom, "payload": userID.String()}))
	room := domain.RoomForUser(userID.String())
	require.Eventually(t, func() bool { return e.hub.Subscribers(room) == want }, 2*time.Second, 10*time.Millisecond)
}

func readEvent(t *testing.T, ctx context.Context, conn *websocket.Conn) map[string]any {
	t.Helper()
	var evt map[string]any
	require.NoError(t, wsjson.Read(ctx, conn, &evt))
	return evt
}

func TestWebsocket_SendReachesBothParticipants(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	alice, bob := uuid.New(), uuid.New()
	aliceConn := e.dial(t, ctx)
	bobPhone := e.dial(t, ctx)
	bobLaptop := e.dial(t, ctx)
	e.join(t, ctx, aliceConn, alice, 1)
	e.join(t, ctx, bobPhone, bob, 1)
	e.join(t, ctx, bobLaptop, bob, 2)

	require.NoError(t, wsjson.Write(ctx, aliceConn, map[string]any{
		"type": ws.EventTypeSendMessage,
		"payload": map[string]string{
			"fromId": alice.String(), "toId": bob.String(), "content": " hi ",
		},
	}))

	for _, conn := range []*websocket.Conn{aliceConn, bobPhone, bobLaptop} {
		evt := readEvent(t, ctx, conn)
		assert.Equal(t, ws.EventTypeReceiveMessage, evt["type"])
		payload := evt["payload"].(map[string]any)
		assert.Equal(t, "hi", payload["content"])
		assert.Equal(t, alice.String(), payload["fromId"])
	}

	ab, err := e.messages.History(ctx, alice, bob)
	require.NoError(t, err)
	ba, err := e.messages.History(ctx, bob, alice)
	require.NoError(t, err)
	require.Len(t, ab, 1)
	assert.Equal(t, ab, ba)
}

func TestWebsocket_InvalidSendReportsError(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := e.dial(t, ctx)
	require.NoError(t, wsjson.Write(ctx, conn, map[string]any{
		"type":    ws.EventTypeSendMessage,
		"payload": map[string]string{"fromId": uuid.NewString(), "toId": uuid.NewString(), "content": "   "},
	}))

	evt := readEvent(t, ctx, conn)
	assert.Equal(t, ws.EventTypeMessageError, evt["type"])
	payload := evt["payload"].(map[string]any)
	assert.Contains(t, payload["error"], "content")
}

func TestWebsocket_PingPong(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := e.dial(t, ctx)
	require.NoError(t, wsjson.Write(ctx, conn, map[string]any{"type": ws.EventTypePing}))
	assert.Equal(t, ws.EventTypePong, readEvent(t, ctx, conn)["type"])
}
