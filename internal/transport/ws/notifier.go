package ws

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/vedran77/lawnpool/internal/domain"
)

// HubNotifier implements service.Notifier by publishing to both participants' rooms.
type HubNotifier struct {
	broadcaster Broadcaster
}

func NewHubNotifier(b Broadcaster) *HubNotifier {
	return &HubNotifier{broadcaster: b}
}

func (n *HubNotifier) NotifyNewMessage(msg *domain.Message) {
	data, err := MessageEvent(msg)
	if err != nil {
		log.Error().Err(err).Msg("ws notifier: marshal message")
		return
	}

	rooms := []string{domain.RoomForUser(msg.ToID.String())}
	if msg.FromID != msg.ToID {
		rooms = append(rooms, domain.RoomForUser(msg.FromID.String()))
	}

	for _, room := range rooms {
		if err := n.broadcaster.Broadcast(context.Background(), room, data); err != nil {
			log.Error().Err(err).Str("room", room).Msg("ws notifier: broadcast")
		}
	}
}
