package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/vedran77/lawnpool/internal/domain"
)

type OfferRepo struct {
	mu sync.RWMutex

	byID  map[uuid.UUID]domain.Offer
	order []uuid.UUID
}

func NewOfferRepo() *OfferRepo {
	return &OfferRepo{byID: make(map[uuid.UUID]domain.Offer)}
}

func (r *OfferRepo) Create(ctx context.Context, offer *domain.Offer) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[offer.ID] = cloneOffer(*offer)
	r.order = append(r.order, offer.ID)
	return nil
}

func (r *OfferRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Offer, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	c := cloneOffer(o)
	return &c, nil
}

// List returns offers newest first.
func (r *OfferRepo) List(ctx context.Context) ([]domain.Offer, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Offer, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		out = append(out, cloneOffer(r.byID[r.order[i]]))
	}
	return out, nil
}

func cloneOffer(o domain.Offer) domain.Offer {
	out := o
	out.Amenities = slices.Clone(o.Amenities)
	if out.Amenities == nil {
		out.Amenities = []string{}
	}
	return out
}
