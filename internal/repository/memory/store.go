// Package memory holds ephemeral, process-local repositories used for tests
// and offline mode. Every repository is safe for concurrent use and hands out
// copies so callers can never mutate stored records.
package memory

import "github.com/vedran77/lawnpool/internal/repository"

func NewStore() *repository.Store {
	return &repository.Store{
		Users:    NewUserRepo(),
		Groups:   NewGroupRepo(),
		Offers:   NewOfferRepo(),
		Messages: NewMessageRepo(),
		Close:    func() {},
	}
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
