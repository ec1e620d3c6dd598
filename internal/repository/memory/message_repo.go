package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/vedran77/lawnpool/internal/domain"
)

// MessageRepo keeps messages in insertion order.
type MessageRepo struct {
	mu       sync.RWMutex
	messages []domain.Message
}

func NewMessageRepo() *MessageRepo {
	return &MessageRepo{}
}

func (r *MessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	r.messages = append(r.messages, cloneMessage(*msg))
	return nil
}

func (r *MessageRepo) ListBetween(ctx context.Context, userA, userB uuid.UUID) ([]domain.Message, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Message, 0)
	for _, m := range r.messages {
		if (m.FromID == userA && m.ToID == userB) || (m.FromID == userB && m.ToID == userA) {
			out = append(out, cloneMessage(m))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func cloneMessage(m domain.Message) domain.Message {
	out := m
	if m.OfferID != nil {
		v := *m.OfferID
		out.OfferID = &v
	}
	return out
}
