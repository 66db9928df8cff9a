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

const inventoryColumns = `
	id, collector_id, material_type, condition, weight_kg, acquired_on,
	source_transaction_id, source_note, status, notes, created_at, updated_at`

type InventoryReadStore struct{}

func NewInventoryReadStore() *InventoryReadStore {
	return &InventoryReadStore{}
}

func (s *InventoryReadStore) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*queries.InventoryItemView, error) {
	row := dbtx.QueryRow(ctx, `SELECT `+inventoryColumns+` FROM inventory_items WHERE id = $1`, id)

	view, err := scanInventoryView(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("inventory item not found", err)
		}
		return nil, infra.WrapRepoErr("failed to find inventory item", err)
	}

	return view, nil
}

func (s *InventoryReadStore) List(ctx context.Context, dbtx db.DBTX, filter queries.InventoryFilter) ([]*queries.InventoryItemView, error) {
	args := []any{filter.CollectorID}
	query := `SELECT ` + inventoryColumns + ` FROM inventory_items WHERE collector_id = $1`

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filter.Material != "" {
		args = append(args, filter.Material)
		query += ` AND material_type = $` + strconv.Itoa(len(args))
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	query += fmt.Sprintf(` ORDER BY acquired_on DESC, id DESC LIMIT %d`, limit)

	rows, err := dbtx.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list inventory items", err)
	}
	defer rows.Close()

	var result []*queries.InventoryItemView
	for rows.Next() {
		view, err := scanInventoryView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan inventory row", err)
		}
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read inventory rows", err)
	}

	return result, nil
}

func scanInventoryView(row pgx.Row) (*queries.InventoryItemView, error) {
	v := &queries.InventoryItemView{}
	var sourceNote *string
	err := row.Scan(
		&v.ID, &v.CollectorID, &v.Material, &v.Condition, &v.WeightKg, &v.AcquiredOn,
		&v.SourceTransactionID, &sourceNote, &v.Status, &v.Notes, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if sourceNote != nil {
		v.SourceNote = *sourceNote
	}
	return v, nil
}
