package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/lawnpool/internal/domain"
)

type GroupRepo struct {
	db *sql.DB
}

func NewGroupRepo(db *sql.DB) *GroupRepo {
	return &GroupRepo{db: db}
}

func (r *GroupRepo) Create(ctx context.Context, group *domain.Group) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO groups (id, name, zip, address, description, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		group.ID.String(), group.Name, group.Zip, group.Address, group.Description,
		group.CreatorID.String(), toMicros(group.CreatedAt),
	); err != nil {
		return fmt.Errorf("insert group: %w", err)
	}

	for _, userID := range group.Members {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO group_members (group_id, user_id, joined_at) VALUES (?, ?, ?)`,
			group.ID.String(), userID.String(), toMicros(group.CreatedAt),
		); err != nil {
			return fmt.Errorf("insert group member: %w", err)
		}
	}
	return tx.Commit()
}

func (r *GroupRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	g, err := scanGroup(r.db.QueryRowContext(ctx,
		`SELECT id, name, zip, address, description, created_by, created_at
		 FROM groups WHERE id = ?`, id.String(),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query group: %w", err)
	}

	members, err := r.members(ctx, []string{id.String()})
	if err != nil {
		return nil, err
	}
	g.Members = membersOrEmpty(members[id.String()])
	return g, nil
}

func (r *GroupRepo) List(ctx context.Context) ([]domain.Group, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, zip, address, description, created_by, created_at
		 FROM groups ORDER BY created_at DESC, rowid DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}

	groups := []domain.Group{}
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		groups = append(groups, *g)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	// The single connection must be released before the member query runs.
	rows.Close()

	ids := make([]string, len(groups))
	for i, g := range groups {
		ids[i] = g.ID.String()
	}
	members, err := r.members(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range groups {
		groups[i].Members = membersOrEmpty(members[groups[i].ID.String()])
	}
	return groups, nil
}

// AddMember inserts only when the group exists; the unique (group_id, user_id)
// pair turns a repeated join into a no-op.
func (r *GroupRepo) AddMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO group_members (group_id, user_id, joined_at)
		 SELECT ?, ?, ? WHERE EXISTS (SELECT 1 FROM groups WHERE id = ?)`,
		groupID.String(), userID.String(), toMicros(time.Now()), groupID.String(),
	)
	if err != nil {
		return false, fmt.Errorf("add member: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}

func (r *GroupRepo) members(ctx context.Context, groupIDs []string) (map[string][]uuid.UUID, error) {
	out := make(map[string][]uuid.UUID, len(groupIDs))
	if len(groupIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT group_id, user_id FROM group_members ORDER BY position ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	wanted := make(map[string]bool, len(groupIDs))
	for _, id := range groupIDs {
		wanted[id] = true
	}
	for rows.Next() {
		var groupID string
		var userID uuid.UUID
		if err := rows.Scan(&groupID, &userID); err != nil {
			return nil, err
		}
		if wanted[groupID] {
			out[groupID] = append(out[groupID], userID)
		}
	}
	return out, rows.Err()
}

func membersOrEmpty(m []uuid.UUID) []uuid.UUID {
	if m == nil {
		return []uuid.UUID{}
	}
	return m
}

func scanGroup(row scanner) (*domain.Group, error) {
	var (
		g           domain.Group
		address     sql.NullString
		description sql.NullString
		createdAt   int64
	)
	if err := row.Scan(&g.ID, &g.Name, &g.Zip, &address, &description, &g.CreatorID, &createdAt); err != nil {
		return nil, err
	}
	g.Address = nullString(address)
	g.Description = nullString(description)
	g.CreatedAt = fromMicros(createdAt)
	return &g, nil
}
