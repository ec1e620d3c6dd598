package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/lawnpool/internal/domain"
)

const groupSelect = `
	SELECT g.id, g.name, g.zip, g.address, g.description, g.created_by, g.created_at,
		COALESCE(
			(SELECT array_agg(m.user_id::text ORDER BY m.position)
			 FROM group_members m WHERE m.group_id = g.id),
			'{}'
		) AS members
	FROM groups g`

type GroupRepo struct {
	pool *pgxpool.Pool
}

func NewGroupRepo(pool *pgxpool.Pool) *GroupRepo {
	return &GroupRepo{pool: pool}
}

func (r *GroupRepo) Create(ctx context.Context, group *domain.Group) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO groups (id, name, zip, address, description, created_by, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`
		if _, err := tx.Exec(ctx, query,
			group.ID, group.Name, group.Zip, group.Address, group.Description,
			group.CreatorID, group.CreatedAt,
		); err != nil {
			return fmt.Errorf("inserting group: %w", err)
		}

		for _, userID := range group.Members {
			if _, err := tx.Exec(ctx, `
				INSERT INTO group_members (group_id, user_id, joined_at)
				VALUES ($1, $2, $3)
				ON CONFLICT (group_id, user_id) DO NOTHING`,
				group.ID, userID, group.CreatedAt,
			); err != nil {
				return fmt.Errorf("inserting group member: %w", err)
			}
		}
		return nil
	})
}

func (r *GroupRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	g, err := scanGroup(r.pool.QueryRow(ctx, groupSelect+" WHERE g.id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return g, err
}

func (r *GroupRepo) List(ctx context.Context) ([]domain.Group, error) {
	rows, err := r.pool.Query(ctx, groupSelect+" ORDER BY g.created_at DESC, g.seq DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := []domain.Group{}
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, *g)
	}
	return groups, rows.Err()
}

// AddMember relies on the (group_id, user_id) primary key so concurrent joins
// resolve inside a single statement.
func (r *GroupRepo) AddMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO group_members (group_id, user_id, joined_at)
		VALUES ($1, $2, now())
		ON CONFLICT (group_id, user_id) DO NOTHING`,
		groupID, userID,
	)
	if hasCode(err, foreignKeyViolation) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func scanGroup(row pgx.Row) (*domain.Group, error) {
	var g domain.Group
	var members []string
	if err := row.Scan(
		&g.ID, &g.Name, &g.Zip, &g.Address, &g.Description,
		&g.CreatorID, &g.CreatedAt, &members,
	); err != nil {
		return nil, err
	}

	g.Members = make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		id, err := uuid.Parse(m)
		if err != nil {
			return nil, fmt.Errorf("parsing member id %q: %w", m, err)
		}
		g.Members = append(g.Members, id)
	}
	return &g, nil
}
