package repository

import (
	"context"
	"errors"
	"time"

	"kardus/internal/domain/pricing"
	"kardus/internal/domain/submission"
	"kardus/internal/infra"
	"kardus/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SubmissionRepository struct{}

func NewSubmissionRepository() *SubmissionRepository {
	return &SubmissionRepository{}
}

func (r *SubmissionRepository) Create(ctx context.Context, dbtx db.DBTX, sub *submission.Submission) (uuid.UUID, error) {
	var id uuid.UUID
	err := dbtx.QueryRow(ctx, `
		INSERT INTO submissions
			(id, customer_id, material_type, condition, weight_kg, estimated_price, status, notes, version)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id
	`,
		sub.ID(), sub.CustomerID(), sub.Material(), sub.Condition().String(),
		sub.WeightKg(), sub.EstimatedPrice(), sub.Status().String(), sub.Notes(), sub.Version(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create submission", err)
	}

	return id, nil
}

func (r *SubmissionRepository) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*submission.Submission, error) {
	row := dbtx.QueryRow(ctx, `
		SELECT id, customer_id, material_type, condition, weight_kg, estimated_price,
		       status, collector_id, pickup_at, completed_at, cancel_reason, notes,
		       version, created_at, updated_at
		FROM submissions
		WHERE id = $1
	`, id)

	sub, err := scanSubmission(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("submission not found", err)
		}
		return nil, infra.WrapRepoErr("failed to find submission", err)
	}

	return sub, nil
}

// UpdateCAS writes the whole mutated row guarded by the version the
// caller loaded. A false return means another writer got there first and
// the caller must re-read before deciding anything.
func (r *SubmissionRepository) UpdateCAS(ctx context.Context, dbtx db.DBTX, sub *submission.Submission, expectedVersion int32) (bool, error) {
	tag, err := dbtx.Exec(ctx, `
		UPDATE submissions
		SET material_type = $2,
		    condition = $3,
		    weight_kg = $4,
		    estimated_price = $5,
		    status = $6,
		    collector_id = $7,
		    pickup_at = $8,
		    completed_at = $9,
		    cancel_reason = $10,
		    notes = $11,
		    version = version + 1,
		    updated_at = now()
		WHERE id = $1 AND version = $12
	`,
		sub.ID(), sub.Material(), sub.Condition().String(), sub.WeightKg(),
		sub.EstimatedPrice(), sub.Status().String(), sub.CollectorID(),
		sub.PickupAt(), sub.CompletedAt(), nullIfEmpty(sub.CancelReason()),
		sub.Notes(), expectedVersion,
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to update submission", err)
	}

	return tag.RowsAffected() == 1, nil
}

func scanSubmission(row pgx.Row) (*submission.Submission, error) {
	var (
		id, customerID         uuid.UUID
		material, conditionStr string
		weightKg               float64
		estimatedPrice         int64
		statusStr              string
		collectorID            *uuid.UUID
		pickupAt, completedAt  *time.Time
		cancelReason           *string
		notes                  string
		version                int32
		createdAt, updatedAt   time.Time
	)

	err := row.Scan(
		&id, &customerID, &material, &conditionStr, &weightKg, &estimatedPrice,
		&statusStr, &collectorID, &pickupAt, &completedAt, &cancelReason, &notes,
		&version, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	status, err := submission.ParseStatus(statusStr)
	if err != nil {
		return nil, err
	}
	condition, err := pricing.ParseCondition(conditionStr)
	if err != nil {
		return nil, err
	}

	reason := ""
	if cancelReason != nil {
		reason = *cancelReason
	}

	return submission.Reconstruct(
		id, customerID, material, condition, weightKg, estimatedPrice, status,
		collectorID, pickupAt, completedAt, reason, notes, version, createdAt, updatedAt,
	), nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
