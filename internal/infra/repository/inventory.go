package repository

import (
	"context"
	"time"

	"kardus/internal/domain/inventory"
	"kardus/internal/domain/pricing"
	"kardus/internal/infra"
	"kardus/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type InventoryRepository struct{}

func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{}
}

func (r *InventoryRepository) Create(ctx context.Context, dbtx db.DBTX, item *inventory.Item) error {
	_, err := dbtx.Exec(ctx, `
		INSERT INTO inventory_items
			(id, collector_id, material_type, condition, weight_kg, acquired_on,
			 source_transaction_id, source_note, status, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		item.ID(), item.CollectorID(), item.Material(), item.Condition().String(),
		item.WeightKg(), item.AcquiredOn(), item.SourceTransactionID(),
		item.SourceNote(), item.Status().String(), item.Notes(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create inventory item", err)
	}

	return nil
}

// CreateFromSettlement relies on the unique source_transaction_id key so
// a retried settlement leaves the already-written row untouched.
func (r *InventoryRepository) CreateFromSettlement(ctx context.Context, dbtx db.DBTX, item *inventory.Item) error {
	_, err := dbtx.Exec(ctx, `
		INSERT INTO inventory_items
			(id, collector_id, material_type, condition, weight_kg, acquired_on,
			 source_transaction_id, source_note, status, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (source_transaction_id) DO NOTHING
	`,
		item.ID(), item.CollectorID(), item.Material(), item.Condition().String(),
		item.WeightKg(), item.AcquiredOn(), item.SourceTransactionID(),
		item.SourceNote(), item.Status().String(), item.Notes(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create settlement inventory item", err)
	}

	return nil
}

func (r *InventoryRepository) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*inventory.Item, error) {
	row := dbtx.QueryRow(ctx, `
		SELECT id, collector_id, material_type, condition, weight_kg, acquired_on,
		       source_transaction_id, source_note, status, notes, created_at, updated_at
		FROM inventory_items
		WHERE id = $1
	`, id)

	item, err := scanInventoryItem(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find inventory item", err)
	}

	return item, nil
}

func (r *InventoryRepository) Update(ctx context.Context, dbtx db.DBTX, item *inventory.Item) error {
	tag, err := dbtx.Exec(ctx, `
		UPDATE inventory_items
		SET status = $2, notes = $3, updated_at = now()
		WHERE id = $1
	`, item.ID(), item.Status().String(), item.Notes())
	if err != nil {
		return infra.WrapRepoErr("failed to update inventory item", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "inventory item not found")
	}

	return nil
}

func scanInventoryItem(row pgx.Row) (*inventory.Item, error) {
	var (
		id, collectorID        uuid.UUID
		material, conditionStr string
		weightKg               float64
		acquiredOn             time.Time
		sourceTransactionID    *uuid.UUID
		sourceNote             *string
		statusStr              string
		notes                  string
		createdAt, updatedAt   time.Time
	)

	err := row.Scan(
		&id, &collectorID, &material, &conditionStr, &weightKg, &acquiredOn,
		&sourceTransactionID, &sourceNote, &statusStr, &notes, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	condition, err := pricing.ParseCondition(conditionStr)
	if err != nil {
		return nil, err
	}
	status, err := inventory.ParseStatus(statusStr)
	if err != nil {
		return nil, err
	}

	note := ""
	if sourceNote != nil {
		note = *sourceNote
	}

	return inventory.Reconstruct(
		id, collectorID, material, condition, weightKg, acquiredOn,
		sourceTransactionID, note, status, notes, createdAt, updatedAt,
	), nil
}
