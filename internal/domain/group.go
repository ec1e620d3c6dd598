package domain

import (
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Group struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Zip         string      `json:"zip"`
	Address     *string     `json:"address,omitempty"`
	Description *string     `json:"description,omitempty"`
	Members     []uuid.UUID `json:"members"`
	CreatorID   uuid.UUID   `json:"creatorId"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// GroupView is a group with its member references resolved for display.
type GroupView struct {
	Group
	MemberDetails   []MemberSummary `json:"memberDetails"`
	MemberCount     int             `json:"memberCount"`
	DiscountPercent int             `json:"discountPercent"`
}

func (g *Group) MemberCount() int {
	return len(g.Members)
}

func (g *Group) HasMember(userID uuid.UUID) bool {
	return slices.Contains(g.Members, userID)
}

// DiscountPercent is the bulk discount tier for a group of n homes.
func DiscountPercent(n int) int {
	switch {
	case n >= 6:
		return 20
	case n >= 3:
		return 10
	default:
		return 0
	}
}

var zipPattern = regexp.MustCompile(`\b\d{5}\b`)

// ExtractZIP returns the first 5-digit run in address. Without one it falls
// back to the last whitespace-delimited token, which may not be numeric.
func ExtractZIP(address string) string {
	if m := zipPattern.FindString(address); m != "" {
		return m
	}
	fields := strings.Fields(address)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
