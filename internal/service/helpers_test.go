package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vedran77/lawnpool/internal/domain"
	"github.com/vedran77/lawnpool/internal/repository"
	"github.com/vedran77/lawnpool/internal/repository/memory"
)

const testSecret = "test-secret-that-is-long-enough"

type fixture struct {
	store    *repository.Store
	auth     *AuthService
	groups   *GroupService
	offers   *OfferService
	messages *MessageService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	return &fixture{
		store:    store,
		auth:     NewAuthService(store.Users, testSecret, time.Hour),
		groups:   NewGroupService(store.Groups, store.Users),
		offers:   NewOfferService(store.Offers, store.Groups, store.Users),
		messages: NewMessageService(store.Messages),
	}
}

func (f *fixture) register(t *testing.T, name, email, userType string) *domain.User {
	t.Helper()
	resp, err := f.auth.Register(context.Background(), RegisterInput{
		Name: name, Email: email, Password: "hunter22", UserType: userType,
	})
	require.NoError(t, err)
	return resp.User
}

func requireKind(t *testing.T, err error, kind error) {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, kind)
}
