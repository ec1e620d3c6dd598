package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/lawnpool/internal/repository"
)

func NewStore(pool *pgxpool.Pool) *repository.Store {
	return &repository.Store{
		Users:    NewUserRepo(pool),
		Groups:   NewGroupRepo(pool),
		Offers:   NewOfferRepo(pool),
		Messages: NewMessageRepo(pool),
		Close:    pool.Close,
	}
}
