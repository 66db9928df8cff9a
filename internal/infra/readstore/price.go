package readstore

import (
	"context"

	"kardus/internal/domain/pricing"
	"kardus/internal/infra"
	"kardus/internal/infra/db"
	"kardus/internal/usecase/queries"

	"github.com/google/uuid"
)

type PriceReadStore struct{}

func NewPriceReadStore() *PriceReadStore {
	return &PriceReadStore{}
}

// ActiveTable loads the collector's live price table for estimation.
func (s *PriceReadStore) ActiveTable(ctx context.Context, dbtx db.DBTX, collectorID uuid.UUID) (*pricing.Table, error) {
	rows, err := dbtx.Query(ctx, `
		SELECT material_type, condition, price_per_kg
		FROM price_entries
		WHERE collector_id = $1 AND is_active
	`, collectorID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load active price table", err)
	}
	defer rows.Close()

	table := pricing.NewTable()
	for rows.Next() {
		var material, conditionStr string
		var price int64
		if err := rows.Scan(&material, &conditionStr, &price); err != nil {
			return nil, infra.WrapRepoErr("failed to scan price entry", err)
		}
		condition, err := pricing.ParseCondition(conditionStr)
		if err != nil {
			return nil, infra.WrapRepoErr("corrupt price entry condition", err)
		}
		table.Set(material, condition, price)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read price entries", err)
	}

	return table, nil
}

func (s *PriceReadStore) ListActive(ctx context.Context, dbtx db.DBTX, collectorID uuid.UUID) ([]*queries.PriceEntryView, error) {
	rows, err := dbtx.Query(ctx, `
		SELECT id, collector_id, material_type, condition, price_per_kg, is_active, created_at, updated_at
		FROM price_entries
		WHERE collector_id = $1 AND is_active
		ORDER BY material_type, condition
	`, collectorID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list price entries", err)
	}
	defer rows.Close()

	var result []*queries.PriceEntryView
	for rows.Next() {
		v := &queries.PriceEntryView{}
		if err := rows.Scan(
			&v.ID, &v.CollectorID, &v.Material, &v.Condition,
			&v.PricePerKg, &v.IsActive, &v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan price entry", err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read price entries", err)
	}

	return result, nil
}

func (s *PriceReadStore) History(ctx context.Context, dbtx db.DBTX, collectorID uuid.UUID, limit int32) ([]*queries.PriceHistoryView, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}

	rows, err := dbtx.Query(ctx, `
		SELECT id, collector_id, material_type, condition, old_price, new_price, changed_at
		FROM price_history
		WHERE collector_id = $1
		ORDER BY changed_at DESC, id DESC
		LIMIT $2
	`, collectorID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list price history", err)
	}
	defer rows.Close()

	var result []*queries.PriceHistoryView
	for rows.Next() {
		v := &queries.PriceHistoryView{}
		if err := rows.Scan(
			&v.ID, &v.CollectorID, &v.Material, &v.Condition,
			&v.OldPrice, &v.NewPrice, &v.ChangedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan price history row", err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read price history rows", err)
	}

	return result, nil
}
