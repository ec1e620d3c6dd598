package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedran77/lawnpool/internal/domain"
)

func TestGroup_CreateDerivesZip(t *testing.T) {
	f := newFixture(t)
	creator := f.register(t, "Dana", "dana@example.com", "")

	g, err := f.groups.Create(context.Background(), CreateGroupInput{
		Name:      "  Maple Court ",
		Address:   "123 Main St, Springfield, 62704",
		CreatorID: creator.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Maple Court", g.Name)
	assert.Equal(t, "62704", g.Zip)
	assert.Equal(t, []uuid.UUID{creator.ID}, g.Members)
	assert.Equal(t, creator.ID, g.CreatorID)
	assert.Equal(t, 1, g.MemberCount)
	assert.Equal(t, 0, g.DiscountPercent)
	require.Len(t, g.MemberDetails, 1)
	assert.Equal(t, "Dana", g.MemberDetails[0].Name)
	assert.Nil(t, g.Description)
}

func TestGroup_CreateExplicitZipWins(t *testing.T) {
	f := newFixture(t)
	creator := f.register(t, "Dana", "dana@example.com", "")

	g, err := f.groups.Create(context.Background(), CreateGroupInput{
		Name: "Maple Court", Address: "1 Elm St 10001", Zip: " 94110 ", CreatorID: creator.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "94110", g.Zip)
}

func TestGroup_CreateErrors(t *testing.T) {
	f := newFixture(t)
	creator := f.register(t, "Dana", "dana@example.com", "")
	ctx := context.Background()

	_, err := f.groups.Create(ctx, CreateGroupInput{Name: " ", Zip: "62704", CreatorID: creator.ID})
	requireKind(t, err, domain.ErrValidation)

	_, err = f.groups.Create(ctx, CreateGroupInput{Name: "No Zip", CreatorID: creator.ID})
	requireKind(t, err, domain.ErrValidation)

	_, err = f.groups.Create(ctx, CreateGroupInput{Name: "Nobody", Zip: "62704"})
	requireKind(t, err, domain.ErrValidation)

	_, err = f.groups.Create(ctx, CreateGroupInput{Name: "Ghost", Zip: "62704", CreatorID: uuid.New()})
	requireKind(t, err, domain.ErrNotFound)
}

func TestGroup_JoinIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.register(t, "Dana", "dana@example.com", "")
	joiner := f.register(t, "Eli", "eli@example.com", "")

	g, err := f.groups.Create(ctx, CreateGroupInput{Name: "Maple", Zip: "62704", CreatorID: creator.ID})
	require.NoError(t, err)

	joined, err := f.groups.Join(ctx, g.ID, joiner.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, joined.MemberCount)

	again, err := f.groups.Join(ctx, g.ID, joiner.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, again.MemberCount)
	assert.Equal(t, []uuid.UUID{creator.ID, joiner.ID}, again.Members)

	_, err = f.groups.Join(ctx, uuid.New(), joiner.ID)
	requireKind(t, err, domain.ErrNotFound)

	_, err = f.groups.Join(ctx, g.ID, uuid.New())
	requireKind(t, err, domain.ErrNotFound)
}

func TestGroup_ConcurrentJoinsNeverDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.register(t, "Dana", "dana@example.com", "")
	joiner := f.register(t, "Eli", "eli@example.com", "")

	g, err := f.groups.Create(ctx, CreateGroupInput{Name: "Maple", Zip: "62704", CreatorID: creator.ID})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.groups.Join(ctx, g.ID, joiner.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := f.groups.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.MemberCount)
}

func TestGroup_DiscountFollowsMembership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.register(t, "U0", "u0@example.com", "")

	g, err := f.groups.Create(ctx, CreateGroupInput{Name: "Big", Zip: "62704", CreatorID: creator.ID})
	require.NoError(t, err)

	want := map[int]int{2: 0, 3: 10, 4: 10, 5: 10, 6: 20}
	for n := 2; n <= 6; n++ {
		u := f.register(t, "U", uuid.NewString()+"@example.com", "")
		view, err := f.groups.Join(ctx, g.ID, u.ID)
		require.NoError(t, err)
		assert.Equal(t, n, view.MemberCount)
		assert.Equal(t, want[n], view.DiscountPercent, "n=%d", n)
	}
}

func TestGroup_ListNewestFirstWithUnknownMembers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.register(t, "Dana", "dana@example.com", "")

	first, err := f.groups.Create(ctx, CreateGroupInput{Name: "First", Zip: "10001", CreatorID: creator.ID})
	require.NoError(t, err)
	second, err := f.groups.Create(ctx, CreateGroupInput{Name: "Second", Zip: "10002", CreatorID: creator.ID})
	require.NoError(t, err)

	// A membership whose user record is missing still shows up by id.
	orphan := uuid.New()
	_, err = f.store.Groups.AddMember(ctx, first.ID, orphan)
	require.NoError(t, err)

	list, err := f.groups.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	details := list[1].MemberDetails
	require.Len(t, details, 2)
	assert.Equal(t, "Dana", details[0].Name)
	assert.Equal(t, orphan, details[1].ID)
	assert.Empty(t, details[1].Name)
}

func TestGroup_GetMissing(t *testing.T) {
	f := newFixture(t)
	_, err := f.groups.Get(context.Background(), uuid.New())
	requireKind(t, err, domain.ErrNotFound)
}
