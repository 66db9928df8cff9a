package repository

import (
	"context"
	"errors"

	"kardus/internal/infra"
	"kardus/internal/infra/db"
	"kardus/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PriceRepository owns the append-only active/history pair for collector
// price tables. The partial unique index on active rows is the real
// guard; these methods just keep the bookkeeping honest.
type PriceRepository struct{}

func NewPriceRepository() *PriceRepository {
	return &PriceRepository{}
}

func (r *PriceRepository) DeactivateActive(ctx context.Context, dbtx db.DBTX, collectorID uuid.UUID, material, condition string) (*int64, error) {
	var oldPrice int64
	err := dbtx.QueryRow(ctx, `
		UPDATE price_entries
		SET is_active = false, updated_at = now()
		WHERE collector_id = $1 AND material_type = $2 AND condition = $3 AND is_active
		RETURNING price_per_kg
	`, collectorID, material, condition).Scan(&oldPrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to deactivate price entry", err)
	}

	return &oldPrice, nil
}

func (r *PriceRepository) DeactivateAll(ctx context.Context, dbtx db.DBTX, collectorID uuid.UUID) (map[[2]string]int64, error) {
	rows, err := dbtx.Query(ctx, `
		UPDATE price_entries
		SET is_active = false, updated_at = now()
		WHERE collector_id = $1 AND is_active
		RETURNING material_type, condition, price_per_kg
	`, collectorID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to deactivate price entries", err)
	}
	defer rows.Close()

	old := make(map[[2]string]int64)
	for rows.Next() {
		var material, condition string
		var price int64
		if err := rows.Scan(&material, &condition, &price); err != nil {
			return nil, infra.WrapRepoErr("failed to scan deactivated price entry", err)
		}
		old[[2]string{material, condition}] = price
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read deactivated price entries", err)
	}

	return old, nil
}

func (r *PriceRepository) InsertActive(ctx context.Context, dbtx db.DBTX, collectorID uuid.UUID, material, condition string, pricePerKg int64) error {
	_, err := dbtx.Exec(ctx, `
		INSERT INTO price_entries (collector_id, material_type, condition, price_per_kg, is_active)
		VALUES ($1,$2,$3,$4,true)
	`, collectorID, material, condition, pricePerKg)
	if err != nil {
		return infra.WrapRepoErr("failed to insert price entry", err)
	}

	return nil
}

func (r *PriceRepository) InsertHistory(ctx context.Context, dbtx db.DBTX, change shared.PriceChange) error {
	_, err := dbtx.Exec(ctx, `
		INSERT INTO price_history (collector_id, material_type, condition, old_price, new_price)
		VALUES ($1,$2,$3,$4,$5)
	`, change.CollectorID, change.Material, change.Condition, change.OldPrice, change.NewPrice)
	if err != nil {
		return infra.WrapRepoErr("failed to insert price history", err)
	}

	return nil
}
