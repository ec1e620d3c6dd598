package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedran77/lawnpool/internal/domain"
)

func TestFlexNumber_Unmarshal(t *testing.T) {
	tests := []struct {
		raw   string
		want  float64
		valid bool
	}{
		{`12`, 12, true},
		{`12.5`, 12.5, true},
		{`"7"`, 7, true},
		{`" 3.25 "`, 3.25, true},
		{`-4`, -4, true},
		{`"abc"`, 0, false},
		{`""`, 0, false},
		{`null`, 0, false},
		{`true`, 0, false},
		{`[1]`, 0, false},
	}
	for _, tt := range tests {
		var n FlexNumber
		require.NoError(t, json.Unmarshal([]byte(tt.raw), &n), tt.raw)
		assert.Equal(t, tt.valid, n.Valid, tt.raw)
		assert.Equal(t, tt.want, n.Value, tt.raw)
	}
}

func TestOffer_CreateCoercesAndDefaults(t *testing.T) {
	f := newFixture(t)
	provider := f.register(t, "Pro", "pro@example.com", domain.RoleProvider)

	var input CreateOfferInput
	require.NoError(t, json.Unmarshal([]byte(`{
		"providerId": "`+provider.ID.String()+`",
		"title": " Weekly mowing ",
		"minHomes": "3",
		"maxHomes": "not a number",
		"basePrice": "50",
		"pricePerHome": 12.5,
		"amenities": ["mowing", "edging", "mowing"]
	}`), &input))

	o, err := f.offers.Create(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "Weekly mowing", o.Title)
	assert.Equal(t, 3, o.MinHomes)
	assert.Equal(t, domain.DefaultMaxHomes, o.MaxHomes)
	assert.Equal(t, 50.0, o.BasePrice)
	assert.Equal(t, 12.5, o.PricePerHome)
	assert.Equal(t, 0.0, o.AreaCoverage)
	assert.Equal(t, []string{"mowing", "edging"}, o.Amenities)

	got, err := f.offers.Get(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
}

func TestOffer_CreateZeroFallsBackToDefault(t *testing.T) {
	f := newFixture(t)
	provider := f.register(t, "Pro", "pro@example.com", domain.RoleProvider)

	o, err := f.offers.Create(context.Background(), CreateOfferInput{
		ProviderID: provider.ID.String(), Title: "Edge", MinHomes: Num(0), MaxHomes: Num(0),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, o.MinHomes)
	assert.Equal(t, 100, o.MaxHomes)
	assert.NotNil(t, o.Amenities)
}

func TestOffer_CreateErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	provider := f.register(t, "Pro", "pro@example.com", domain.RoleProvider)
	pid := provider.ID.String()

	_, err := f.offers.Create(ctx, CreateOfferInput{ProviderID: pid, Title: " "})
	requireKind(t, err, domain.ErrValidation)

	_, err = f.offers.Create(ctx, CreateOfferInput{ProviderID: "nope", Title: "Mow"})
	requireKind(t, err, domain.ErrValidation)

	_, err = f.offers.Create(ctx, CreateOfferInput{ProviderID: uuid.NewString(), Title: "Mow"})
	requireKind(t, err, domain.ErrNotFound)

	_, err = f.offers.Create(ctx, CreateOfferInput{ProviderID: pid, Title: "Mow", MinHomes: Num(8), MaxHomes: Num(4)})
	requireKind(t, err, domain.ErrValidation)

	_, err = f.offers.Create(ctx, CreateOfferInput{ProviderID: pid, Title: "Mow", BasePrice: Num(-1)})
	requireKind(t, err, domain.ErrValidation)

	_, err = f.offers.Create(ctx, CreateOfferInput{ProviderID: pid, Title: "Mow", Amenities: []string{"snow"}})
	requireKind(t, err, domain.ErrValidation)

	_, err = f.offers.Get(ctx, uuid.New())
	requireKind(t, err, domain.ErrNotFound)
}

func TestOffer_ListByGroupSize(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	provider := f.register(t, "Pro", "pro@example.com", domain.RoleProvider)

	window, err := f.offers.Create(ctx, CreateOfferInput{
		ProviderID: provider.ID.String(), Title: "3 to 6",
		MinHomes: Num(3), MaxHomes: Num(6), BasePrice: Num(50), PricePerHome: Num(10),
	})
	require.NoError(t, err)

	creator := f.register(t, "U0", "u0@example.com", "")
	g, err := f.groups.Create(ctx, CreateGroupInput{Name: "G", Zip: "62704", CreatorID: creator.ID})
	require.NoError(t, err)

	listFor := func() []domain.OfferView {
		views, err := f.offers.List(ctx, OfferQuery{GroupID: &g.ID})
		require.NoError(t, err)
		return views
	}

	join := func() {
		u := f.register(t, "U", uuid.NewString()+"@example.com", "")
		_, err := f.groups.Join(ctx, g.ID, u.ID)
		require.NoError(t, err)
	}

	join() // 2 members
	assert.Empty(t, listFor(), "excluded at 2")

	join() // 3 members
	views := listFor()
	require.Len(t, views, 1)
	assert.Equal(t, window.ID, views[0].ID)
	require.NotNil(t, views[0].EstimatedTotal)
	assert.Equal(t, 80.0, *views[0].EstimatedTotal)
	assert.Equal(t, "80.00", views[0].DisplayTotal)
	require.NotNil(t, views[0].DiscountPercent)
	assert.Equal(t, 10, *views[0].DiscountPercent)

	join()
	join()
	join() // 6 members
	views = listFor()
	require.Len(t, views, 1)
	assert.Equal(t, 110.0, *views[0].EstimatedTotal)
	assert.Equal(t, 20, *views[0].DiscountPercent)

	join() // 7 members
	assert.Empty(t, listFor(), "excluded at 7")
}

func TestOffer_ListFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pro := f.register(t, "Pro", "pro@example.com", domain.RoleProvider)
	other := f.register(t, "Other", "other@example.com", domain.RoleProvider)

	small, err := f.offers.Create(ctx, CreateOfferInput{ProviderID: pro.ID.String(), Title: "Small", MinHomes: Num(1), MaxHomes: Num(4)})
	require.NoError(t, err)
	large, err := f.offers.Create(ctx, CreateOfferInput{ProviderID: other.ID.String(), Title: "Large", MinHomes: Num(10), MaxHomes: Num(20)})
	require.NoError(t, err)

	ids := func(views []domain.OfferView) []uuid.UUID {
		out := []uuid.UUID{}
		for _, v := range views {
			out = append(out, v.ID)
		}
		return out
	}
	intp := func(v int) *int { return &v }

	all, err := f.offers.List(ctx, OfferQuery{})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{large.ID, small.ID}, ids(all), "newest first")
	assert.Nil(t, all[0].EstimatedTotal)

	got, err := f.offers.List(ctx, OfferQuery{MinHomes: intp(5)})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{large.ID}, ids(got))

	got, err = f.offers.List(ctx, OfferQuery{MaxHomes: intp(5)})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{small.ID}, ids(got))

	got, err = f.offers.List(ctx, OfferQuery{MinHomes: intp(5), MaxHomes: intp(5)})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = f.offers.List(ctx, OfferQuery{ProviderID: &pro.ID})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{small.ID}, ids(got))

	unknown := uuid.New()
	got, err = f.offers.List(ctx, OfferQuery{GroupID: &unknown})
	require.NoError(t, err)
	assert.Len(t, got, 2, "unknown group skips the group filter")
}
