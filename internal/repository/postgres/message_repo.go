package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/lawnpool/internal/domain"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

func (r *MessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	query := `
		INSERT INTO messages (id, from_id, to_id, content, offer_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.pool.Exec(ctx, query,
		msg.ID, msg.FromID, msg.ToID, msg.Content, msg.OfferID, msg.CreatedAt,
	)
	return err
}

func (r *MessageRepo) ListBetween(ctx context.Context, userA, userB uuid.UUID) ([]domain.Message, error) {
	query := `
		SELECT id, from_id, to_id, content, offer_id, created_at
		FROM messages
		WHERE (from_id = $1 AND to_id = $2) OR (from_id = $2 AND to_id = $1)
		ORDER BY created_at ASC, seq ASC`

	rows, err := r.pool.Query(ctx, query, userA, userB)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.FromID, &m.ToID, &m.Content, &m.OfferID, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
