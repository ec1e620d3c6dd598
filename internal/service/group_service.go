package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vedran77/lawnpool/internal/domain"
	"github.com/vedran77/lawnpool/internal/repository"
	"github.com/vedran77/lawnpool/pkg/validator"
)

type GroupService struct {
	groupRepo repository.GroupRepository
	userRepo  repository.UserRepository
}

func NewGroupService(groupRepo repository.GroupRepository, userRepo repository.UserRepository) *GroupService {
	return &GroupService{groupRepo: groupRepo, userRepo: userRepo}
}

type CreateGroupInput struct {
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Zip         string    `json:"zip"`
	Description string    `json:"description"`
	CreatorID   uuid.UUID `json:"creatorId"`
}

// Create registers a new group with the creator as its first member. An
// explicit zip wins over the one derived from the address.
func (s *GroupService) Create(ctx context.Context, input CreateGroupInput) (*domain.GroupView, error) {
	zip := strings.TrimSpace(input.Zip)
	if zip == "" {
		zip = domain.ExtractZIP(input.Address)
	}

	if err := validator.ValidateGroup(input.Name, zip).Err(); err != nil {
		return nil, err
	}
	if input.CreatorID == uuid.Nil {
		return nil, domain.Invalid("creatorId is required")
	}

	creator, err := s.userRepo.GetByID(ctx, input.CreatorID)
	if err != nil {
		return nil, err
	}
	if creator == nil {
		return nil, domain.NotFound("Creator not found")
	}

	group := &domain.Group{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(input.Name),
		Zip:         zip,
		Address:     optionalText(input.Address),
		Description: optionalText(input.Description),
		Members:     []uuid.UUID{creator.ID},
		CreatorID:   creator.ID,
		CreatedAt:   now(),
	}

	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, fmt.Errorf("creating group: %w", err)
	}

	return s.view(ctx, group)
}

func (s *GroupService) List(ctx context.Context) ([]domain.GroupView, error) {
	groups, err := s.groupRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}

	// Resolve every member once across all groups.
	seen := make(map[uuid.UUID]bool)
	ids := []uuid.UUID{}
	for _, g := range groups {
		for _, m := range g.Members {
			if !seen[m] {
				seen[m] = true
				ids = append(ids, m)
			}
		}
	}
	users, err := s.usersByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]domain.GroupView, 0, len(groups))
	for i := range groups {
		views = append(views, buildView(&groups[i], users))
	}
	return views, nil
}

func (s *GroupService) Get(ctx context.Context, groupID uuid.UUID) (*domain.GroupView, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, domain.NotFound("Group not found")
	}
	return s.view(ctx, group)
}

// Join adds userID to the group. Joining a group twice is a no-op.
func (s *GroupService) Join(ctx context.Context, groupID, userID uuid.UUID) (*domain.GroupView, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, domain.NotFound("Group not found")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NotFound("User not found")
	}

	if _, err := s.groupRepo.AddMember(ctx, groupID, userID); err != nil {
		return nil, fmt.Errorf("joining group: %w", err)
	}

	return s.Get(ctx, groupID)
}

// MemberCount returns the size of a group, or false if it does not exist.
func (s *GroupService) MemberCount(ctx context.Context, groupID uuid.UUID) (int, bool, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return 0, false, err
	}
	if group == nil {
		return 0, false, nil
	}
	return group.MemberCount(), true, nil
}

func (s *GroupService) view(ctx context.Context, group *domain.Group) (*domain.GroupView, error) {
	users, err := s.usersByID(ctx, group.Members)
	if err != nil {
		return nil, err
	}
	v := buildView(group, users)
	return &v, nil
}

func (s *GroupService) usersByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.User, error) {
	list, err := s.userRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolving members: %w", err)
	}
	out := make(map[uuid.UUID]*domain.User, len(list))
	for i := range list {
		out[list[i].ID] = &list[i]
	}
	return out, nil
}

// buildView resolves member summaries in join order. Members without a user
// record are shown by id only.
func buildView(group *domain.Group, users map[uuid.UUID]*domain.User) domain.GroupView {
	details := make([]domain.MemberSummary, 0, len(group.Members))
	for _, id := range group.Members {
		if u, ok := users[id]; ok {
			details = append(details, u.Summary())
		} else {
			details = append(details, domain.MemberSummary{ID: id})
		}
	}

	if group.Members == nil {
		group.Members = []uuid.UUID{}
	}
	n := group.MemberCount()
	return domain.GroupView{
		Group:           *group,
		MemberDetails:   details,
		MemberCount:     n,
		DiscountPercent: domain.DiscountPercent(n),
	}
}

func optionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
