package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vedran77/lawnpool/internal/domain"
	"github.com/vedran77/lawnpool/internal/repository"
)

const userColumns = "id, name, email, password_hash, google_id, avatar_url, role, auth_method, created_at"

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, google_id, avatar_url, role, auth_method, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID.String(), user.Name, strings.ToLower(user.Email), user.PasswordHash,
		user.GoogleID, user.AvatarURL, user.Role, user.AuthMethod, toMicros(user.CreatedAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.getOne(ctx, "id = ?", id.String())
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, "email = ?", strings.ToLower(email))
}

func (r *UserRepo) GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	return r.getOne(ctx, "google_id = ?", googleID)
}

func (r *UserRepo) LinkGoogle(ctx context.Context, id uuid.UUID, googleID string, avatarURL *string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET google_id = ?, avatar_url = COALESCE(avatar_url, ?), auth_method = 'google'
		 WHERE id = ?`,
		googleID, avatarURL, id.String(),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("link google: %w", err)
	}
	return nil
}

func (r *UserRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error) {
	users := []domain.User{}
	if len(ids) == 0 {
		return users, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id.String()
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id IN ("+strings.Join(placeholders, ", ")+")",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *UserRepo) getOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE "+where, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*domain.User, error) {
	var (
		u         domain.User
		googleID  sql.NullString
		avatarURL sql.NullString
		createdAt int64
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &googleID, &avatarURL, &u.Role, &u.AuthMethod, &createdAt); err != nil {
		return nil, err
	}
	u.GoogleID = nullString(googleID)
	u.AvatarURL = nullString(avatarURL)
	u.CreatedAt = fromMicros(createdAt)
	return &u, nil
}
