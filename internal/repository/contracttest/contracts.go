// Package contracttest holds behavior suites every storage backend must pass.
package contracttest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedran77/lawnpool/internal/domain"
	"github.com/vedran77/lawnpool/internal/repository"
)

// StoreFactory returns a fresh, empty store. Cleanup is registered by the suite.
type StoreFactory func(t *testing.T) *repository.Store

func RunAll(t *testing.T, newStore StoreFactory) {
	t.Run("users", func(t *testing.T) { RunUserRepo(t, newStore) })
	t.Run("groups", func(t *testing.T) { RunGroupRepo(t, newStore) })
	t.Run("offers", func(t *testing.T) { RunOfferRepo(t, newStore) })
	t.Run("messages", func(t *testing.T) { RunMessageRepo(t, newStore) })
}

func open(t *testing.T, newStore StoreFactory) *repository.Store {
	t.Helper()
	store := newStore(t)
	if store.Close != nil {
		t.Cleanup(store.Close)
	}
	return store
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func seedUser(t *testing.T, users repository.UserRepository, email string) *domain.User {
	t.Helper()
	u := &domain.User{
		ID:         uuid.New(),
		Name:       "User " + email,
		Email:      email,
		Role:       domain.RoleHomeowner,
		AuthMethod: domain.AuthMethodEmail,
		CreatedAt:  now(),
	}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func RunUserRepo(t *testing.T, newStore StoreFactory) {
	t.Helper()
	ctx := context.Background()
	store := open(t, newStore)
	users := store.Users

	u := &domain.User{
		ID:           uuid.New(),
		Name:         "Dana",
		Email:        "dana@example.com",
		PasswordHash: "salt:hash",
		Role:         domain.RoleProvider,
		AuthMethod:   domain.AuthMethodEmail,
		CreatedAt:    now(),
	}
	require.NoError(t, users.Create(ctx, u))

	got, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Dana", got.Name)
	assert.Equal(t, "dana@example.com", got.Email)
	assert.Equal(t, "salt:hash", got.PasswordHash)
	assert.Equal(t, domain.RoleProvider, got.Role)
	assert.Equal(t, domain.AuthMethodEmail, got.AuthMethod)
	assert.Nil(t, got.GoogleID)
	assert.WithinDuration(t, u.CreatedAt, got.CreatedAt, time.Millisecond)

	byEmail, err := users.GetByEmail(ctx, "dana@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, u.ID, byEmail.ID)

	missing, err := users.GetByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	missing, err = users.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	dup := *u
	dup.ID = uuid.New()
	dup.Name = "Impostor"
	assert.ErrorIs(t, users.Create(ctx, &dup), repository.ErrDuplicateEmail)

	unchanged, err := users.GetByEmail(ctx, "dana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Dana", unchanged.Name)

	// Google linking keeps an existing avatar and sets one when absent.
	avatar := "https://example.com/a.png"
	require.NoError(t, users.LinkGoogle(ctx, u.ID, "g-123", &avatar))
	linked, err := users.GetByGoogleID(ctx, "g-123")
	require.NoError(t, err)
	require.NotNil(t, linked)
	assert.Equal(t, u.ID, linked.ID)
	assert.Equal(t, domain.AuthMethodGoogle, linked.AuthMethod)
	require.NotNil(t, linked.AvatarURL)
	assert.Equal(t, avatar, *linked.AvatarURL)

	other := "https://example.com/b.png"
	require.NoError(t, users.LinkGoogle(ctx, u.ID, "g-123", &other))
	linked, err = users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, avatar, *linked.AvatarURL)

	none, err := users.GetByGoogleID(ctx, "g-unknown")
	require.NoError(t, err)
	assert.Nil(t, none)

	second := seedUser(t, users, "second@example.com")
	list, err := users.ListByIDs(ctx, []uuid.UUID{u.ID, uuid.New(), second.ID})
	require.NoError(t, err)
	ids := []uuid.UUID{}
	for _, l := range list {
		ids = append(ids, l.ID)
	}
	assert.ElementsMatch(t, []uuid.UUID{u.ID, second.ID}, ids)

	empty, err := users.ListByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func RunGroupRepo(t *testing.T, newStore StoreFactory) {
	t.Helper()
	ctx := context.Background()
	store := open(t, newStore)
	groups := store.Groups

	creator := seedUser(t, store.Users, "creator@example.com")
	joiner := seedUser(t, store.Users, "joiner@example.com")

	addr := "123 Main St, Springfield, 62704"
	g := &domain.Group{
		ID:        uuid.New(),
		Name:      "Maple Court",
		Zip:       "62704",
		Address:   &addr,
		Members:   []uuid.UUID{creator.ID},
		CreatorID: creator.ID,
		CreatedAt: now(),
	}
	require.NoError(t, groups.Create(ctx, g))

	got, err := groups.GetByID(ctx, g.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Maple Court", got.Name)
	assert.Equal(t, "62704", got.Zip)
	require.NotNil(t, got.Address)
	assert.Equal(t, addr, *got.Address)
	assert.Nil(t, got.Description)
	assert.Equal(t, []uuid.UUID{creator.ID}, got.Members)
	assert.Equal(t, creator.ID, got.CreatorID)

	missing, err := groups.GetByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	added, err := groups.AddMember(ctx, g.ID, joiner.ID)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = groups.AddMember(ctx, g.ID, joiner.ID)
	require.NoError(t, err)
	assert.False(t, added, "second add of the same member must be a no-op")

	got, err = groups.GetByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{creator.ID, joiner.ID}, got.Members, "members keep join order")

	// Concurrent joins of the same user never duplicate the membership.
	racer := seedUser(t, store.Users, "racer@example.com")
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := groups.AddMember(ctx, g.ID, racer.ID)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)

	got, err = groups.GetByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.MemberCount())

	desc := "Corner lots"
	later := &domain.Group{
		ID:          uuid.New(),
		Name:        "Oak Row",
		Zip:         "10001",
		Description: &desc,
		Members:     []uuid.UUID{joiner.ID},
		CreatorID:   joiner.ID,
		CreatedAt:   g.CreatedAt.Add(time.Second),
	}
	require.NoError(t, groups.Create(ctx, later))

	list, err := groups.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, later.ID, list[0].ID, "newest first")
	assert.Equal(t, g.ID, list[1].ID)
	assert.Len(t, list[1].Members, 3)
	require.NotNil(t, list[0].Description)
	assert.Equal(t, desc, *list[0].Description)
}

func RunOfferRepo(t *testing.T, newStore StoreFactory) {
	t.Helper()
	ctx := context.Background()
	store := open(t, newStore)
	offers := store.Offers

	provider := seedUser(t, store.Users, "provider@example.com")

	o := &domain.Offer{
		ID:           uuid.New(),
		ProviderID:   provider.ID,
		Title:        "Weekly mowing",
		Description:  "Front and back",
		MinHomes:     3,
		MaxHomes:     6,
		BasePrice:    50,
		PricePerHome: 12.5,
		AreaCoverage: 4000,
		Amenities:    []string{"mowing", "edging"},
		CreatedAt:    now(),
	}
	require.NoError(t, offers.Create(ctx, o))

	got, err := offers.GetByID(ctx, o.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, provider.ID, got.ProviderID)
	assert.Equal(t, "Weekly mowing", got.Title)
	assert.Equal(t, 3, got.MinHomes)
	assert.Equal(t, 6, got.MaxHomes)
	assert.Equal(t, 50.0, got.BasePrice)
	assert.Equal(t, 12.5, got.PricePerHome)
	assert.Equal(t, 4000.0, got.AreaCoverage)
	assert.Equal(t, []string{"mowing", "edging"}, got.Amenities)

	missing, err := offers.GetByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	bare := &domain.Offer{
		ID:         uuid.New(),
		ProviderID: provider.ID,
		Title:      "Leaf pickup",
		MinHomes:   1,
		MaxHomes:   100,
		Amenities:  []string{},
		CreatedAt:  o.CreatedAt.Add(time.Second),
	}
	require.NoError(t, offers.Create(ctx, bare))

	list, err := offers.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, bare.ID, list[0].ID, "newest first")
	assert.NotNil(t, list[0].Amenities)
	assert.Empty(t, list[0].Amenities)
}

func RunMessageRepo(t *testing.T, newStore StoreFactory) {
	t.Helper()
	ctx := context.Background()
	store := open(t, newStore)
	messages := store.Messages

	a, b, c := uuid.New(), uuid.New(), uuid.New()
	base := now()
	offerID := uuid.New()

	create := func(from, to uuid.UUID, content string, at time.Time, offer *uuid.UUID) *domain.Message {
		m := &domain.Message{
			ID:        uuid.New(),
			FromID:    from,
			ToID:      to,
			Content:   content,
			OfferID:   offer,
			CreatedAt: at,
		}
		require.NoError(t, messages.Create(ctx, m))
		return m
	}

	second := create(b, a, "second", base.Add(2*time.Second), nil)
	first := create(a, b, "first", base.Add(time.Second), &offerID)
	create(a, c, "elsewhere", base, nil)
	third := create(a, b, "third", base.Add(3*time.Second), nil)

	ab, err := messages.ListBetween(ctx, a, b)
	require.NoError(t, err)
	ba, err := messages.ListBetween(ctx, b, a)
	require.NoError(t, err)

	require.Len(t, ab, 3)
	assert.Equal(t, []uuid.UUID{first.ID, second.ID, third.ID}, []uuid.UUID{ab[0].ID, ab[1].ID, ab[2].ID})
	assert.Equal(t, ab, ba, "history is symmetric")

	require.NotNil(t, ab[0].OfferID)
	assert.Equal(t, offerID, *ab[0].OfferID)
	assert.Nil(t, ab[1].OfferID)
	assert.Equal(t, "first", ab[0].Content)

	none, err := messages.ListBetween(ctx, b, c)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
