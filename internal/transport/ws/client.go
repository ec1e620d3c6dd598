package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/vedran77/lawnpool/internal/domain"
	"github.com/vedran77/lawnpool/internal/metrics"
	"github.com/vedran77/lawnpool/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pingInterval   = 30 * time.Second
	maxMessageSize = 16 * 1024
	sendBufSize    = 256
)

// MessageSender persists and fans out a direct message.
type MessageSender interface {
	Send(ctx context.Context, input service.SendMessageInput) (*domain.Message, error)
}

// Client represents a single WebSocket connection.
type Client struct {
	id      string
	hub     *Hub
	conn    *websocket.Conn
	sender  MessageSender
	limiter *rate.Limiter

	// rooms is guarded by hub.mu.
	rooms map[string]struct{}

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func NewClient(hub *Hub, conn *websocket.Conn, sender MessageSender, limiter *rate.Limiter) *Client {
	return &Client{
		id:      uuid.NewString(),
		hub:     hub,
		conn:    conn,
		sender:  sender,
		limiter: limiter,
		rooms:   make(map[string]struct{}),
		send:    make(chan []byte, sendBufSize),
		done:    make(chan struct{}),
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// ReadPump reads events from the WebSocket until the connection fails or ctx ends.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	for {
		var event Event
		err := wsjson.Read(ctx, c.conn, &event)
		if err != nil {
			if websocket.CloseStatus(err) != -1 || errors.Is(err, context.Canceled) {
				log.Debug().Str("client", c.id).Msg("ws client closed connection")
			} else {
				log.Warn().Err(err).Str("client", c.id).Msg("ws read error")
			}
			return
		}

		c.handleEvent(ctx, &event)
	}
}

// WritePump writes queued events to the WebSocket and keeps it alive with pings.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message := <-c.send:
			wctx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(wctx, websocket.MessageText, message)
			cancel()
			if err != nil {
				log.Warn().Err(err).Str("client", c.id).Msg("ws write error")
				return
			}

		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pctx)
			cancel()
			if err != nil {
				log.Debug().Err(err).Str("client", c.id).Msg("ws ping failed")
				return
			}

		case <-c.done:
			return

		case <-ctx.Done():
			return
		}
	}
}

// handleEvent routes an incoming client event.
func (c *Client) handleEvent(ctx context.Context, event *Event) {
	switch event.Type {
	case EventTypeJoinRoom:
		var p JoinRoomPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			log.Debug().Err(err).Str("client", c.id).Msg("ws ignoring malformed join-room")
			return
		}
		room, ok := p.Room()
		if !ok {
			return
		}
		c.hub.Subscribe(c, room)
		log.Debug().Str("client", c.id).Str("room", room).Msg("ws client joined room")

	case EventTypeSendMessage:
		c.handleSend(ctx, event.Payload)

	case EventTypePing:
		c.enqueue(EventTypePong, nil)

	default:
		c.sendError("unknown event type: " + event.Type)
	}
}

func (c *Client) handleSend(ctx context.Context, payload json.RawMessage) {
	if c.limiter != nil && !c.limiter.Allow() {
		metrics.RecordMessageSent("throttled")
		c.sendError("Too many messages, slow down")
		return
	}

	var input service.SendMessageInput
	if err := json.Unmarshal(payload, &input); err != nil {
		metrics.RecordMessageSent("error")
		c.sendError("Invalid message payload")
		return
	}

	if _, err := c.sender.Send(ctx, input); err != nil {
		metrics.RecordMessageSent("error")
		var derr *domain.Error
		if errors.As(err, &derr) {
			c.sendError(derr.Message)
			return
		}
		log.Error().Err(err).Str("client", c.id).Msg("send message")
		c.sendError("Failed to send message")
		return
	}
	metrics.RecordMessageSent("ok")
}

func (c *Client) sendError(message string) {
	c.enqueue(EventTypeMessageError, ErrorPayload{Error: message})
}

// enqueue queues an event for this connection only, dropping it when the
// buffer is full.
func (c *Client) enqueue(eventType string, payload any) {
	data, err := encodeEvent(eventType, payload)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}
