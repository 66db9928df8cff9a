package repository

import (
	"context"
	"errors"
	"time"

	"kardus/internal/infra"
	"kardus/internal/infra/db"
	"kardus/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type IdempotencyRepository struct{}

func NewIdempotencyRepository() *IdempotencyRepository {
	return &IdempotencyRepository{}
}

func (r *IdempotencyRepository) TryInsert(ctx context.Context, dbtx db.DBTX, key, actorID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) error {
	tag, err := dbtx.Exec(ctx, `
		INSERT INTO idempotency_keys (key, actor_id, endpoint, request_hash, status, expires_at)
		VALUES ($1,$2,$3,$4,'processing',$5)
		ON CONFLICT (key, actor_id) DO NOTHING
	`, key, actorID, endpoint, requestHash, expiresAt)
	if err != nil {
		return infra.WrapRepoErr("failed to insert idempotency key", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindDuplicateKey, "idempotency key already exists")
	}

	return nil
}

func (r *IdempotencyRepository) Get(ctx context.Context, dbtx db.DBTX, key, actorID uuid.UUID) (*shared.IdempotencyRecord, error) {
	var rec shared.IdempotencyRecord
	err := dbtx.QueryRow(ctx, `
		SELECT key, actor_id, endpoint, request_hash, status, result_id, expires_at
		FROM idempotency_keys
		WHERE key = $1 AND actor_id = $2
	`, key, actorID).Scan(
		&rec.Key, &rec.ActorID, &rec.Endpoint, &rec.RequestHash,
		&rec.Status, &rec.ResultID, &rec.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("idempotency key not found", err)
		}
		return nil, infra.WrapRepoErr("failed to get idempotency key", err)
	}

	return &rec, nil
}

func (r *IdempotencyRepository) UpdateStatusCompleted(ctx context.Context, dbtx db.DBTX, key, actorID, resultID uuid.UUID) error {
	_, err := dbtx.Exec(ctx, `
		UPDATE idempotency_keys
		SET status = 'completed', result_id = $3
		WHERE key = $1 AND actor_id = $2
	`, key, actorID, resultID)
	if err != nil {
		return infra.WrapRepoErr("failed to complete idempotency key", err)
	}

	return nil
}

func (r *IdempotencyRepository) DeleteExpired(ctx context.Context, dbtx db.DBTX, now time.Time) (int64, error) {
	tag, err := dbtx.Exec(ctx, `
		DELETE FROM idempotency_keys
		WHERE expires_at < $1
	`, now)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired idempotency keys", err)
	}

	return tag.RowsAffected(), nil
}
