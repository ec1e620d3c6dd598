package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/vedran77/lawnpool/internal/domain"
	"github.com/vedran77/lawnpool/internal/repository"
	"github.com/vedran77/lawnpool/pkg/validator"
)

// FlexNumber accepts a JSON number or a numeric string. Anything else decodes
// as an unset value rather than failing the request.
type FlexNumber struct {
	Value float64
	Valid bool
}

func Num(v float64) FlexNumber {
	return FlexNumber{Value: v, Valid: true}
}

func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	*n = FlexNumber{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	var raw string
	switch data[0] {
	case '"':
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil
		}
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		raw = string(data)
	default:
		return nil
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	*n = FlexNumber{Value: v, Valid: true}
	return nil
}

// intOr truncates n toward zero, using def when n is unset or zero.
func (n FlexNumber) intOr(def int) int {
	if !n.Valid {
		return def
	}
	if v := int(n.Value); v != 0 {
		return v
	}
	return def
}

func (n FlexNumber) floatOr(def float64) float64 {
	if !n.Valid || n.Value == 0 {
		return def
	}
	return n.Value
}

type OfferService struct {
	offerRepo repository.OfferRepository
	groupRepo repository.GroupRepository
	userRepo  repository.UserRepository
}

func NewOfferService(
	offerRepo repository.OfferRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
) *OfferService {
	return &OfferService{
		offerRepo: offerRepo,
		groupRepo: groupRepo,
		userRepo:  userRepo,
	}
}

type CreateOfferInput struct {
	ProviderID   string     `json:"providerId"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	MinHomes     FlexNumber `json:"minHomes"`
	MaxHomes     FlexNumber `json:"maxHomes"`
	BasePrice    FlexNumber `json:"basePrice"`
	PricePerHome FlexNumber `json:"pricePerHome"`
	AreaCoverage FlexNumber `json:"areaCoverage"`
	Amenities    []string   `json:"amenities"`
}

// OfferQuery narrows ListOffers. Nil fields are not applied.
type OfferQuery struct {
	GroupID    *uuid.UUID
	MinHomes   *int
	MaxHomes   *int
	ProviderID *uuid.UUID
}

func (s *OfferService) Create(ctx context.Context, input CreateOfferInput) (*domain.Offer, error) {
	providerID, err := uuid.Parse(strings.TrimSpace(input.ProviderID))
	if err != nil {
		return nil, domain.Invalid("A valid providerId is required")
	}

	offer := &domain.Offer{
		ID:           uuid.New(),
		ProviderID:   providerID,
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		MinHomes:     input.MinHomes.intOr(domain.DefaultMinHomes),
		MaxHomes:     input.MaxHomes.intOr(domain.DefaultMaxHomes),
		BasePrice:    input.BasePrice.floatOr(0),
		PricePerHome: input.PricePerHome.floatOr(0),
		AreaCoverage: input.AreaCoverage.floatOr(0),
		Amenities:    normalizeAmenities(input.Amenities),
		CreatedAt:    now(),
	}

	if err := validator.ValidateOffer(offer).Err(); err != nil {
		return nil, err
	}

	provider, err := s.userRepo.GetByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, domain.NotFound("Provider not found")
	}

	if err := s.offerRepo.Create(ctx, offer); err != nil {
		return nil, fmt.Errorf("creating offer: %w", err)
	}
	return offer, nil
}

func (s *OfferService) Get(ctx context.Context, offerID uuid.UUID) (*domain.Offer, error) {
	offer, err := s.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer == nil {
		return nil, domain.NotFound("Offer not found")
	}
	return offer, nil
}

// List returns matching offers, newest first. With a known group, only offers
// accepting its size are kept and each carries the group's estimated total.
// An unknown group id leaves the group filter off.
func (s *OfferService) List(ctx context.Context, q OfferQuery) ([]domain.OfferView, error) {
	filter := domain.OfferFilter{
		MinHomes:   q.MinHomes,
		MaxHomes:   q.MaxHomes,
		ProviderID: q.ProviderID,
	}

	if q.GroupID != nil {
		group, err := s.groupRepo.GetByID(ctx, *q.GroupID)
		if err != nil {
			return nil, err
		}
		if group != nil {
			n := group.MemberCount()
			filter.GroupSize = &n
		}
	}

	offers, err := s.offerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing offers: %w", err)
	}

	views := []domain.OfferView{}
	for i := range offers {
		o := &offers[i]
		if !filter.Match(o) {
			continue
		}
		view := domain.OfferView{Offer: *o}
		if filter.GroupSize != nil {
			total := domain.ComputeTotal(o, *filter.GroupSize)
			discount := domain.DiscountPercent(*filter.GroupSize)
			view.EstimatedTotal = &total
			view.DisplayTotal = domain.FormatPrice(total)
			view.DiscountPercent = &discount
		}
		views = append(views, view)
	}
	return views, nil
}

// normalizeAmenities trims and de-duplicates tags, keeping first-seen order.
func normalizeAmenities(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, a := range in {
		a = strings.TrimSpace(a)
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}
