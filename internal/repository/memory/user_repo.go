package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/vedran77/lawnpool/internal/domain"
	"github.com/vedran77/lawnpool/internal/repository"
)

type UserRepo struct {
	mu sync.RWMutex

	byID       map[uuid.UUID]domain.User
	idByEmail  map[string]uuid.UUID
	idByGoogle map[string]uuid.UUID
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		byID:       make(map[uuid.UUID]domain.User),
		idByEmail:  make(map[string]uuid.UUID),
		idByGoogle: make(map[string]uuid.UUID),
	}
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	_ = ctx
	email := strings.ToLower(user.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.idByEmail[email]; ok {
		return repository.ErrDuplicateEmail
	}
	if user.GoogleID != nil {
		if _, ok := r.idByGoogle[*user.GoogleID]; ok {
			return repository.ErrDuplicateEmail
		}
		r.idByGoogle[*user.GoogleID] = user.ID
	}
	r.byID[user.ID] = cloneUser(*user)
	r.idByEmail[email] = user.ID
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(id), nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.idByEmail[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	return r.lookup(id), nil
}

func (r *UserRepo) GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.idByGoogle[googleID]
	if !ok {
		return nil, nil
	}
	return r.lookup(id), nil
}

func (r *UserRepo) LinkGoogle(ctx context.Context, id uuid.UUID, googleID string, avatarURL *string) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil
	}
	if owner, taken := r.idByGoogle[googleID]; taken && owner != id {
		return repository.ErrDuplicateEmail
	}
	if u.GoogleID != nil && *u.GoogleID != googleID {
		delete(r.idByGoogle, *u.GoogleID)
	}
	u.GoogleID = &googleID
	if u.AvatarURL == nil && avatarURL != nil {
		u.AvatarURL = cloneStringPtr(avatarURL)
	}
	u.AuthMethod = domain.AuthMethodGoogle
	r.byID[id] = u
	r.idByGoogle[googleID] = id
	return nil
}

func (r *UserRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.byID[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *UserRepo) lookup(id uuid.UUID) *domain.User {
	u, ok := r.byID[id]
	if !ok {
		return nil
	}
	c := cloneUser(u)
	return &c
}

func cloneUser(u domain.User) domain.User {
	out := u
	out.GoogleID = cloneStringPtr(u.GoogleID)
	out.AvatarURL = cloneStringPtr(u.AvatarURL)
	return out
}
