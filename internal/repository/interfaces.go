package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vedran77/lawnpool/internal/domain"
)

// ErrDuplicateEmail is returned by UserRepository.Create when the email is taken.
var ErrDuplicateEmail = errors.New("email already registered")

// Lookups return (nil, nil) when the record does not exist.

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error)
	// LinkGoogle attaches a Google identity to an existing user. The avatar is
	// only set when the user has none.
	LinkGoogle(ctx context.Context, id uuid.UUID, googleID string, avatarURL *string) error
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error)
}

type GroupRepository interface {
	// Create stores the group together with its initial member list.
	Create(ctx context.Context, group *domain.Group) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error)
	List(ctx context.Context) ([]domain.Group, error)
	// AddMember appends userID to the group's members unless already present.
	// It must be a single atomic add-if-absent and report whether a row was added.
	AddMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
}

type OfferRepository interface {
	Create(ctx context.Context, offer *domain.Offer) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Offer, error)
	List(ctx context.Context) ([]domain.Offer, error)
}

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	// ListBetween returns every message exchanged by the two users in either
	// direction, oldest first.
	ListBetween(ctx context.Context, userA, userB uuid.UUID) ([]domain.Message, error)
}

// Store bundles the repositories of one storage backend.
type Store struct {
	Users    UserRepository
	Groups   GroupRepository
	Offers   OfferRepository
	Messages MessageRepository
	Close    func()
}
