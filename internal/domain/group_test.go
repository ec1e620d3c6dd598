package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/vedran77/lawnpool/internal/domain"
)

func TestDiscountPercent(t *testing.T) {
	cases := map[int]int{
		0:  0,
		1:  0,
		2:  0,
		3:  10,
		4:  10,
		5:  10,
		6:  20,
		7:  20,
		50: 20,
	}
	for n, want := range cases {
		assert.Equal(t, want, domain.DiscountPercent(n), "n=%d", n)
	}
}

func TestExtractZIP(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    string
	}{
		{"trailing zip", "123 Main St, Springfield, 62704", "62704"},
		{"first five digit run wins", "90210 Sunset Blvd, 10001", "90210"},
		{"zip before suffix", "1 Elm Rd, Austin TX 78701-1234", "78701"},
		{"longer digit runs are not zips", "Unit 1234567 Oak Ave", "Ave"},
		{"no digits falls back to last token", "Maple Street Springfield", "Springfield"},
		{"fallback keeps punctuation", "Maple Street, Springfield,", "Springfield,"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ExtractZIP(tt.address))
		})
	}
}

func TestGroup_HasMember(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	g := domain.Group{Members: []uuid.UUID{a}}

	assert.True(t, g.HasMember(a))
	assert.False(t, g.HasMember(b))
	assert.Equal(t, 1, g.MemberCount())
}
