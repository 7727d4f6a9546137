package pg

import (
	"context"
	"errors"

	"goldquote-service/internal/application"
	"goldquote-service/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type FeeRecordRepo struct{ db *DB }

func NewFeeRecordRepo(db *DB) *FeeRecordRepo { return &FeeRecordRepo{db: db} }

func (r *FeeRecordRepo) Create(ctx context.Context, rec domain.FeeRecord) (string, error) {
	id := uuid.NewString()
	const ins = `
        INSERT INTO fee_records(id, input_asset, output_asset, amount, fee_bps, fee_amount, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.q(ctx).Exec(ctx, ins, id,
		string(rec.InputAsset), string(rec.OutputAsset),
		rec.Amount, rec.FeeBps, rec.FeeAmount, rec.CreatedAt)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *FeeRecordRepo) GetByID(ctx context.Context, id string) (domain.FeeRecord, error) {
	const q = `
        SELECT id::text, input_asset, output_asset, amount::float8, fee_bps, fee_amount::float8, created_at
        FROM fee_records WHERE id=$1`
	var out domain.FeeRecord
	err := r.db.q(ctx).QueryRow(ctx, q, id).Scan(
		&out.ID, &out.InputAsset, &out.OutputAsset,
		&out.Amount, &out.FeeBps, &out.FeeAmount, &out.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.FeeRecord{}, application.ErrNotFound
	}
	if err != nil {
		return domain.FeeRecord{}, err
	}
	return out, nil
}
