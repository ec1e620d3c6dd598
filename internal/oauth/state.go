// Package oauth implements the Google sign-in round trip: one-time state
// tokens and the authorization-code exchange.
package oauth

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// StateStore remembers issued state tokens, together with the role requested
// at sign-in start, until they are consumed or expire. Oldest entries are
// evicted once capacity is reached.
type StateStore struct {
	cache *expirable.LRU[string, string]
}

func NewStateStore(capacity int, ttl time.Duration) *StateStore {
	return &StateStore{cache: expirable.NewLRU[string, string](capacity, nil, ttl)}
}

// Issue creates and remembers a new random state token bound to userType.
func (s *StateStore) Issue(userType string) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	state := hex.EncodeToString(buf)
	s.cache.Add(state, userType)
	return state, nil
}

// Consume returns the role bound to state if it was issued and not yet used.
// A state can be consumed only once.
func (s *StateStore) Consume(state string) (string, bool) {
	if state == "" {
		return "", false
	}
	userType, ok := s.cache.Get(state)
	if !ok || !s.cache.Remove(state) {
		return "", false
	}
	return userType, true
}

func (s *StateStore) Len() int {
	return s.cache.Len()
}
