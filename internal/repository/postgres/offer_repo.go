package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/lawnpool/internal/domain"
)

const offerColumns = `id, provider_id, title, description, min_homes, max_homes,
	base_price, price_per_home, area_coverage, amenities, created_at`

type OfferRepo struct {
	pool *pgxpool.Pool
}

func NewOfferRepo(pool *pgxpool.Pool) *OfferRepo {
	return &OfferRepo{pool: pool}
}

func (r *OfferRepo) Create(ctx context.Context, o *domain.Offer) error {
	query := `
		INSERT INTO offers (id, provider_id, title, description, min_homes, max_homes,
			base_price, price_per_home, area_coverage, amenities, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	amenities := o.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	_, err := r.pool.Exec(ctx, query,
		o.ID, o.ProviderID, o.Title, o.Description, o.MinHomes, o.MaxHomes,
		o.BasePrice, o.PricePerHome, o.AreaCoverage, amenities, o.CreatedAt,
	)
	return err
}

func (r *OfferRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Offer, error) {
	o, err := scanOffer(r.pool.QueryRow(ctx, "SELECT "+offerColumns+" FROM offers WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return o, err
}

func (r *OfferRepo) List(ctx context.Context) ([]domain.Offer, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+offerColumns+" FROM offers ORDER BY created_at DESC, seq DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	offers := []domain.Offer{}
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		offers = append(offers, *o)
	}
	return offers, rows.Err()
}

func scanOffer(row pgx.Row) (*domain.Offer, error) {
	var o domain.Offer
	if err := row.Scan(
		&o.ID, &o.ProviderID, &o.Title, &o.Description, &o.MinHomes, &o.MaxHomes,
		&o.BasePrice, &o.PricePerHome, &o.AreaCoverage, &o.Amenities, &o.CreatedAt,
	); err != nil {
		return nil, err
	}
	if o.Amenities == nil {
		o.Amenities = []string{}
	}
	return &o, nil
}
