package pg

import (
	"context"
	"errors"

	"goldquote-service/internal/application"
	"goldquote-service/internal/domain"
	"goldquote-service/internal/infrastructure/logx"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type RefreshJobRepo struct{ db *DB }

func NewRefreshJobRepo(db *DB) *RefreshJobRepo { return &RefreshJobRepo{db: db} }

func (r *RefreshJobRepo) CreateQueued(ctx context.Context, asset domain.Asset) (string, error) {
	id := uuid.NewString()
	const ins = `
        INSERT INTO price_refreshes(id, asset, status)
        VALUES ($1, $2, 'queued')`
	log := logx.L().With(
		zap.String("repo", "refresh_job"),
		zap.String("operation", "CreateQueued"),
		zap.String("id", id),
		zap.String("asset", string(asset)),
	)
	log.Info("sql.exec_start")
	tag, err := r.db.q(ctx).Exec(ctx, ins, id, string(asset))
	if err != nil {
		log.Error("sql.exec_failed", zap.Error(err))
		return "", err
	}
	log.Info("sql.exec_success", zap.Int64("rows_affected", int64(tag.RowsAffected())))
	return id, nil
}

func (r *RefreshJobRepo) GetByID(ctx context.Context, id string) (domain.PriceRefresh, error) {
	const q = `
        SELECT id::text, asset, status, error, COALESCE(completed_at, requested_at)
        FROM price_refreshes WHERE id=$1`
	var out domain.PriceRefresh
	var errMsg *string
	var status string
	err := r.db.q(ctx).QueryRow(ctx, q, id).Scan(&out.ID, &out.Asset, &status, &errMsg, &out.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.PriceRefresh{}, application.ErrNotFound
	}
	if err != nil {
		return domain.PriceRefresh{}, err
	}
	out.Error = errMsg
	out.Status = parseStatus(status)
	return out, nil
}

func (r *RefreshJobRepo) UpdateStatus(ctx context.Context, id string, st domain.PriceRefreshStatus, errMsg *string) error {
	const up = `
        UPDATE price_refreshes
        SET status=$2,
            error=$3,
            completed_at = CASE WHEN $2 IN ('done','failed') THEN NOW() ELSE completed_at END
        WHERE id=$1`
	log := logx.L().With(
		zap.String("repo", "refresh_job"),
		zap.String("operation", "UpdateStatus"),
		zap.String("id", id),
		zap.String("status", string(st)),
	)
	if errMsg != nil {
		log = log.With(zap.String("error", *errMsg))
	}
	tag, err := r.db.q(ctx).Exec(ctx, up, id, string(st), errMsg)
	if err != nil {
		log.Error("sql.exec_failed", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		log.Warn("sql.exec_no_rows")
		return application.ErrNotFound
	}
	return nil
}

func (r *RefreshJobRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.PriceRefresh, error) {
	const q = `
      WITH cte AS (
        SELECT id
        FROM price_refreshes
        WHERE status = 'queued'
        ORDER BY requested_at
        LIMIT $1
        FOR UPDATE SKIP LOCKED
      )
      UPDATE price_refreshes p
      SET status = 'processing'
      FROM cte
      WHERE p.id = cte.id
      RETURNING p.id, p.asset;
    `
	rows, err := r.db.q(ctx).Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.PriceRefresh
	for rows.Next() {
		var id, asset string
		if err := rows.Scan(&id, &asset); err != nil {
			return nil, err
		}
		out = append(out, domain.PriceRefresh{
			ID:     id,
			Asset:  domain.Asset(asset),
			Status: domain.PriceRefreshStatusProcessing,
		})
	}
	return out, rows.Err()
}

func parseStatus(s string) domain.PriceRefreshStatus {
	switch s {
	case "queued":
		return domain.PriceRefreshStatusQueued
	case "processing":
		return domain.PriceRefreshStatusProcessing
	case "done":
		return domain.PriceRefreshStatusDone
	default:
		return domain.PriceRefreshStatusFailed
	}
}
