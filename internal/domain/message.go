package domain

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID        uuid.UUID  `json:"id"`
	FromID    uuid.UUID  `json:"fromId"`
	ToID      uuid.UUID  `json:"toId"`
	Content   string     `json:"content"`
	OfferID   *uuid.UUID `json:"offerId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// RoomForUser is the pub/sub topic every connection of a user subscribes to.
func RoomForUser(userID string) string {
	return "user-" + userID
}
