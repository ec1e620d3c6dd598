package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/vedran77/lawnpool/internal/domain"
)

type MessageRepo struct {
	db *sql.DB
}

func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

func (r *MessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	var offerID sql.NullString
	if msg.OfferID != nil {
		offerID = sql.NullString{String: msg.OfferID.String(), Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (id, from_id, to_id, content, offer_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		msg.ID.String(), msg.FromID.String(), msg.ToID.String(), msg.Content, offerID, toMicros(msg.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (r *MessageRepo) ListBetween(ctx context.Context, userA, userB uuid.UUID) ([]domain.Message, error) {
	a, b := userA.String(), userB.String()
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, from_id, to_id, content, offer_id, created_at
		 FROM messages
		 WHERE (from_id = ? AND to_id = ?) OR (from_id = ? AND to_id = ?)
		 ORDER BY created_at ASC, rowid ASC`,
		a, b, b, a,
	)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var (
			m         domain.Message
			offerID   sql.NullString
			createdAt int64
		)
		if err := rows.Scan(&m.ID, &m.FromID, &m.ToID, &m.Content, &offerID, &createdAt); err != nil {
			return nil, err
		}
		if offerID.Valid {
			id, err := uuid.Parse(offerID.String)
			if err != nil {
				return nil, fmt.Errorf("parse offer id: %w", err)
			}
			m.OfferID = &id
		}
		m.CreatedAt = fromMicros(createdAt)
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
