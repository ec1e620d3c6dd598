package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vedran77/lawnpool/internal/domain"
)

const offerColumns = `id, provider_id, title, description, min_homes, max_homes,
	base_price, price_per_home, area_coverage, amenities, created_at`

type OfferRepo struct {
	db *sql.DB
}

func NewOfferRepo(db *sql.DB) *OfferRepo {
	return &OfferRepo{db: db}
}

func (r *OfferRepo) Create(ctx context.Context, o *domain.Offer) error {
	amenities := o.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	encoded, err := json.Marshal(amenities)
	if err != nil {
		return fmt.Errorf("encode amenities: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO offers (`+offerColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID.String(), o.ProviderID.String(), o.Title, o.Description, o.MinHomes, o.MaxHomes,
		o.BasePrice, o.PricePerHome, o.AreaCoverage, string(encoded), toMicros(o.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert offer: %w", err)
	}
	return nil
}

func (r *OfferRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Offer, error) {
	o, err := scanOffer(r.db.QueryRowContext(ctx,
		"SELECT "+offerColumns+" FROM offers WHERE id = ?", id.String(),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query offer: %w", err)
	}
	return o, nil
}

func (r *OfferRepo) List(ctx context.Context) ([]domain.Offer, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+offerColumns+" FROM offers ORDER BY created_at DESC, rowid DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
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

func scanOffer(row scanner) (*domain.Offer, error) {
	var (
		o         domain.Offer
		amenities string
		createdAt int64
	)
	if err := row.Scan(
		&o.ID, &o.ProviderID, &o.Title, &o.Description, &o.MinHomes, &o.MaxHomes,
		&o.BasePrice, &o.PricePerHome, &o.AreaCoverage, &amenities, &createdAt,
	); err != nil {
		return nil, err
	}
	o.Amenities = []string{}
	if err := json.Unmarshal([]byte(amenities), &o.Amenities); err != nil {
		return nil, fmt.Errorf("decode amenities: %w", err)
	}
	if o.Amenities == nil {
		o.Amenities = []string{}
	}
	o.CreatedAt = fromMicros(createdAt)
	return &o, nil
}
