package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultMinHomes = 1
	DefaultMaxHomes = 100
)

// Amenities is the fixed set of services an offer may include, in display order.
var Amenities = []string{
	"mowing",
	"edging",
	"fertilizing",
	"weed_control",
	"mulching",
	"leaf_removal",
}

func ValidAmenity(a string) bool {
	for _, known := range Amenities {
		if a == known {
			return true
		}
	}
	return false
}

type Offer struct {
	ID           uuid.UUID `json:"id"`
	ProviderID   uuid.UUID `json:"providerId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	MinHomes     int       `json:"minHomes"`
	MaxHomes     int       `json:"maxHomes"`
	BasePrice    float64   `json:"basePrice"`
	PricePerHome float64   `json:"pricePerHome"`
	AreaCoverage float64   `json:"areaCoverage"`
	Amenities    []string  `json:"amenities"`
	CreatedAt    time.Time `json:"createdAt"`
}

// OfferView is an offer as listed for a specific group.
type OfferView struct {
	Offer
	EstimatedTotal  *float64 `json:"estimatedTotal,omitempty"`
	DisplayTotal    string   `json:"displayTotal,omitempty"`
	DiscountPercent *int     `json:"discountPercent,omitempty"`
}

// Accepts reports whether a group of n homes is within the offer's window.
func (o *Offer) Accepts(n int) bool {
	return o.MinHomes <= n && n <= o.MaxHomes
}

// OfferFilter narrows a listing. Zero values mean "no constraint".
type OfferFilter struct {
	GroupSize  *int
	MinHomes   *int
	MaxHomes   *int
	ProviderID *uuid.UUID
}

func (f OfferFilter) Match(o *Offer) bool {
	if f.GroupSize != nil && !o.Accepts(*f.GroupSize) {
		return false
	}
	if f.MinHomes != nil && o.MaxHomes < *f.MinHomes {
		return false
	}
	if f.MaxHomes != nil && o.MinHomes > *f.MaxHomes {
		return false
	}
	if f.ProviderID != nil && o.ProviderID != *f.ProviderID {
		return false
	}
	return true
}
