package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/lawnpool/internal/domain"
	"github.com/vedran77/lawnpool/internal/repository"
)

const userColumns = "id, name, email, password_hash, google_id, avatar_url, role, auth_method, created_at"

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, google_id, avatar_url, role, auth_method, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		user.ID, user.Name, strings.ToLower(user.Email), user.PasswordHash,
		user.GoogleID, user.AvatarURL, user.Role, user.AuthMethod, user.CreatedAt,
	)
	if hasCode(err, uniqueViolation) {
		return repository.ErrDuplicateEmail
	}
	return err
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.scanUser(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.scanUser(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", strings.ToLower(email))
}

func (r *UserRepo) GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	return r.scanUser(ctx, "SELECT "+userColumns+" FROM users WHERE google_id = $1", googleID)
}

func (r *UserRepo) LinkGoogle(ctx context.Context, id uuid.UUID, googleID string, avatarURL *string) error {
	query := `
		UPDATE users
		SET google_id = $2, avatar_url = COALESCE(avatar_url, $3), auth_method = 'google'
		WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, googleID, avatarURL)
	if hasCode(err, uniqueViolation) {
		return repository.ErrDuplicateEmail
	}
	return err
}

func (r *UserRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error) {
	if len(ids) == 0 {
		return []domain.User{}, nil
	}
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}

	rows, err := r.pool.Query(ctx, "SELECT "+userColumns+" FROM users WHERE id::text = ANY($1)", strIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *UserRepo) scanUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	u, err := scanUserRow(r.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func scanUserRow(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.GoogleID,
		&u.AvatarURL, &u.Role, &u.AuthMethod, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
