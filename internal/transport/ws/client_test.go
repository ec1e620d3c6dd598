package ws

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/vedran77/lawnpool/internal/domain"
	"github.com/vedran77/lawnpool/internal/service"
)

type stubSender struct {
	inputs []service.SendMessageInput
	err    error
}

func (s *stubSender) Send(_ context.Context, in service.SendMessageInput) (*domain.Message, error) {
	s.inputs = append(s.inputs, in)
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Message{ID: uuid.New(), Content: in.Content}, nil
}

func event(t *testing.T, typ string, payload any) *Event {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return &Event{Type: typ, Payload: data}
}

func errorText(t *testing.T, evt Event) string {
	t.Helper()
	require.Equal(t, EventTypeMessageError, evt.Type)
	var p ErrorPayload
	require.NoError(t, json.Unmarshal(evt.Payload, &p))
	return p.Error
}

func TestClient_JoinRoomAcceptsBothPayloadShapes(t *testing.T) {
	h := NewHub()
	c := newTestClient(h)
	ctx := context.Background()

	c.handleEvent(ctx, event(t, EventTypeJoinRoom, "u-1"))
	c.handleEvent(ctx, event(t, EventTypeJoinRoom, map[string]string{"userId": "u-2"}))
	c.handleEvent(ctx, event(t, EventTypeJoinRoom, 42))
	c.handleEvent(ctx, event(t, EventTypeJoinRoom, ""))

	assert.Equal(t, 1, h.Subscribers("user-u-1"))
	assert.Equal(t, 1, h.Subscribers("user-u-2"))
	assertNothingQueued(t, c)
}

func TestClient_Ping(t *testing.T) {
	h := NewHub()
	c := newTestClient(h)

	c.handleEvent(context.Background(), &Event{Type: EventTypePing})
	assert.Equal(t, EventTypePong, recv(t, c).Type)
}

func TestClient_UnknownEvent(t *testing.T) {
	h := NewHub()
	c := newTestClient(h)

	c.handleEvent(context.Background(), &Event{Type: "typing"})
	assert.Contains(t, errorText(t, recv(t, c)), "unknown event type")
}

func TestClient_SendMessage(t *testing.T) {
	h := NewHub()
	sender := &stubSender{}
	c := NewClient(h, nil, sender, nil)
	h.Register(c)

	c.handleEvent(context.Background(), event(t, EventTypeSendMessage, map[string]string{
		"fromId": "a", "toId": "b", "content": "hi", "offerId": "o",
	}))

	require.Len(t, sender.inputs, 1)
	assert.Equal(t, service.SendMessageInput{FromID: "a", ToID: "b", Content: "hi", OfferID: "o"}, sender.inputs[0])
	assertNothingQueued(t, c)
}

func TestClient_SendFailureReportsToSenderOnly(t *testing.T) {
	h := NewHub()
	sender := &stubSender{err: errors.New("db down")}
	c := NewClient(h, nil, sender, nil)
	h.Register(c)
	other := newTestClient(h)

	c.handleEvent(context.Background(), event(t, EventTypeSendMessage, map[string]string{"content": "hi"}))
	assert.Equal(t, "Failed to send message", errorText(t, recv(t, c)))
	assertNothingQueued(t, other)

	sender.err = domain.Invalid("Message content is required")
	c.handleEvent(context.Background(), event(t, EventTypeSendMessage, map[string]string{"content": " "}))
	assert.Equal(t, "Message content is required", errorText(t, recv(t, c)))
}

func TestClient_SendIsThrottled(t *testing.T) {
	h := NewHub()
	sender := &stubSender{}
	c := NewClient(h, nil, sender, rate.NewLimiter(rate.Limit(0.001), 2))
	h.Register(c)

	for i := 0; i < 3; i++ {
		c.handleEvent(context.Background(), event(t, EventTypeSendMessage, map[string]string{"content": "hi"}))
	}

	assert.Len(t, sender.inputs, 2)
	assert.Contains(t, errorText(t, recv(t, c)), "Too many messages")
}
