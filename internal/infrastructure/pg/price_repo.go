package pg

import (
	"context"
	"errors"

	"goldquote-service/internal/application"
	"goldquote-service/internal/domain"

	"github.com/jackc/pgx/v5"
)

type PriceRepo struct{ db *DB }

func NewPriceRepo(db *DB) *PriceRepo { return &PriceRepo{db: db} }

func (r *PriceRepo) GetLast(ctx context.Context, asset domain.Asset) (domain.Price, error) {
	const q = `
        SELECT asset, usd_per_gram::float8, usd_per_oz::float8, source, updated_at
        FROM prices WHERE asset=$1`
	var out domain.Price
	err := r.db.q(ctx).QueryRow(ctx, q, string(asset)).
		Scan(&out.Asset, &out.UsdPerGram, &out.UsdPerOz, &out.Source, &out.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Price{}, application.ErrNotFound
	}
	if err != nil {
		return domain.Price{}, err
	}
	return out, nil
}

func (r *PriceRepo) Upsert(ctx context.Context, p domain.Price) error {
	const up = `
        INSERT INTO prices(asset, usd_per_gram, usd_per_oz, source, updated_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (asset) DO UPDATE
          SET usd_per_gram=EXCLUDED.usd_per_gram,
              usd_per_oz=EXCLUDED.usd_per_oz,
              source=EXCLUDED.source,
              updated_at=EXCLUDED.updated_at`
	_, err := r.db.q(ctx).Exec(ctx, up, string(p.Asset), p.UsdPerGram, p.UsdPerOz, p.Source, p.UpdatedAt)
	return err
}

func (r *PriceRepo) AppendHistory(ctx context.Context, p domain.Price, refreshID *string) error {
	_, err := r.db.q(ctx).Exec(ctx, `
        INSERT INTO price_history(asset, usd_per_gram, usd_per_oz, quoted_at, source, refresh_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (asset, quoted_at, source) DO NOTHING
    `, string(p.Asset), p.UsdPerGram, p.UsdPerOz, p.UpdatedAt, p.Source, refreshID)
	return err
}
