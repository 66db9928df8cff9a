package readstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"kardus/internal/infra"
	"kardus/internal/infra/db"
	"kardus/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const submissionColumns = `
	id, customer_id, material_type, condition, weight_kg, estimated_price,
	status, collector_id, pickup_at, completed_at, cancel_reason, notes,
	version, created_at, updated_at`

type SubmissionReadStore struct{}

func NewSubmissionReadStore() *SubmissionReadStore {
	return &SubmissionReadStore{}
}

func (s *SubmissionReadStore) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*queries.SubmissionView, error) {
	row := dbtx.QueryRow(ctx, `SELECT `+submissionColumns+` FROM submissions WHERE id = $1`, id)

	view, err := scanSubmissionView(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("submission not found", err)
		}
		return nil, infra.WrapRepoErr("failed to find submission", err)
	}

	return view, nil
}

// List applies the optional filters in a fixed order so the arg indexes
// stay predictable.
func (s *SubmissionReadStore) List(ctx context.Context, dbtx db.DBTX, filter queries.SubmissionFilter) ([]*queries.SubmissionListItem, error) {
	query := `SELECT id, material_type, condition, weight_kg, estimated_price, status, pickup_at, created_at
		FROM submissions WHERE 1=1`
	args := make([]any, 0, 4)

	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		query += ` AND customer_id = $` + strconv.Itoa(len(args))
	}
	if filter.CollectorID != nil {
		args = append(args, *filter.CollectorID)
		query += ` AND collector_id = $` + strconv.Itoa(len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += ` AND status = $` + strconv.Itoa(len(args))
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT %d`, limit)

	rows, err := dbtx.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list submissions", err)
	}
	defer rows.Close()

	var result []*queries.SubmissionListItem
	for rows.Next() {
		item := &queries.SubmissionListItem{}
		if err := rows.Scan(
			&item.ID, &item.Material, &item.Condition, &item.WeightKg,
			&item.EstimatedPrice, &item.Status, &item.PickupAt, &item.CreatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan submission row", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read submission rows", err)
	}

	return result, nil
}

// ListPendingForPickup returns unassigned pending submissions collectors
// can browse, oldest first so nothing starves.
func (s *SubmissionReadStore) ListPendingForPickup(ctx context.Context, dbtx db.DBTX, limit int32) ([]*queries.SubmissionListItem, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := dbtx.Query(ctx, `
		SELECT id, material_type, condition, weight_kg, estimated_price, status, pickup_at, created_at
		FROM submissions
		WHERE status = 'pending'
		ORDER BY created_at ASC, id ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list pending submissions", err)
	}
	defer rows.Close()

	var result []*queries.SubmissionListItem
	for rows.Next() {
		item := &queries.SubmissionListItem{}
		if err := rows.Scan(
			&item.ID, &item.Material, &item.Condition, &item.WeightKg,
			&item.EstimatedPrice, &item.Status, &item.PickupAt, &item.CreatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan submission row", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read submission rows", err)
	}

	return result, nil
}

func scanSubmissionView(row pgx.Row) (*queries.SubmissionView, error) {
	v := &queries.SubmissionView{}
	err := row.Scan(
		&v.ID, &v.CustomerID, &v.Material, &v.Condition, &v.WeightKg, &v.EstimatedPrice,
		&v.Status, &v.CollectorID, &v.PickupAt, &v.CompletedAt, &v.CancelReason, &v.Notes,
		&v.Version, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return v, nil
}
