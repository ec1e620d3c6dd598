package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/vedran77/lawnpool/internal/domain"
)

type GroupRepo struct {
	mu sync.RWMutex

	byID  map[uuid.UUID]domain.Group
	order []uuid.UUID
}

func NewGroupRepo() *GroupRepo {
	return &GroupRepo{byID: make(map[uuid.UUID]domain.Group)}
}

func (r *GroupRepo) Create(ctx context.Context, group *domain.Group) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	g := cloneGroup(*group)
	g.Members = dedupe(g.Members)
	r.byID[g.ID] = g
	r.order = append(r.order, g.ID)
	return nil
}

func (r *GroupRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	c := cloneGroup(g)
	return &c, nil
}

// List returns groups newest first.
func (r *GroupRepo) List(ctx context.Context) ([]domain.Group, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Group, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		out = append(out, cloneGroup(r.byID[r.order[i]]))
	}
	return out, nil
}

func (r *GroupRepo) AddMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.byID[groupID]
	if !ok || slices.Contains(g.Members, userID) {
		return false, nil
	}
	g.Members = append(slices.Clone(g.Members), userID)
	r.byID[groupID] = g
	return true, nil
}

func cloneGroup(g domain.Group) domain.Group {
	out := g
	out.Address = cloneStringPtr(g.Address)
	out.Description = cloneStringPtr(g.Description)
	out.Members = slices.Clone(g.Members)
	if out.Members == nil {
		out.Members = []uuid.UUID{}
	}
	return out
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
