package ws

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/vedran77/lawnpool/internal/domain"
)

// Event types - Client → Server
const (
	EventTypeJoinRoom    = "join-room"
	EventTypeSendMessage = "send-message"
	EventTypePing        = "ping"
)

// Event types - Server → Client
const (
	EventTypeReceiveMessage = "receive-message"
	EventTypeMessageError   = "message-error"
	EventTypePong           = "pong"
)

// Event is the base envelope for all WebSocket messages.
type Event struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"ts,omitempty"`
}

// --- Client → Server payloads ---

// JoinRoomPayload accepts either a bare user id string or {"userId": "..."}.
type JoinRoomPayload struct {
	UserID string `json:"userId"`
}

func (p *JoinRoomPayload) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		p.UserID = id
		return nil
	}
	type plain JoinRoomPayload
	var obj plain
	if err := json.Unmarshal(data, &obj); err != nil {
		return errors.New("join-room payload must be a user id or {\"userId\"}")
	}
	*p = JoinRoomPayload(obj)
	return nil
}

func (p JoinRoomPayload) Room() (string, bool) {
	id := strings.TrimSpace(p.UserID)
	if id == "" {
		return "", false
	}
	return domain.RoomForUser(id), true
}

// --- Server → Client payloads ---

type ErrorPayload struct {
	Error string `json:"error"`
}

// NewEvent creates a server→client event with the current timestamp.
func NewEvent(eventType string, payload any) (*Event, error) {
	evt := &Event{
		Type:      eventType,
		Timestamp: time.Now().UnixMilli(),
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		evt.Payload = data
	}
	return evt, nil
}

func encodeEvent(eventType string, payload any) ([]byte, error) {
	evt, err := NewEvent(eventType, payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(evt)
}

// MessageEvent encodes a receive-message event for msg.
func MessageEvent(msg *domain.Message) ([]byte, error) {
	return encodeEvent(EventTypeReceiveMessage, msg)
}
