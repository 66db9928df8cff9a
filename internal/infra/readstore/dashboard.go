package readstore

import (
	"context"
	"time"

	"kardus/internal/infra"
	"kardus/internal/infra/db"
	"kardus/internal/usecase/queries"

	"github.com/google/uuid"
)

// DashboardReadStore aggregates the dashboard counters. Callers must run
// every method of one snapshot inside the same read-only transaction so
// the numbers agree with each other.
type DashboardReadStore struct{}

func NewDashboardReadStore() *DashboardReadStore {
	return &DashboardReadStore{}
}

func (s *DashboardReadStore) CollectorCounters(ctx context.Context, dbtx db.DBTX, collectorID uuid.UUID, monthStart, dayStart time.Time) (queries.CollectorCounters, error) {
	var c queries.CollectorCounters
	err := dbtx.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM submissions
			 WHERE collector_id = $1 AND status = 'scheduled'),
			(SELECT count(*) FROM submissions
			 WHERE collector_id = $1 AND status = 'completed' AND completed_at >= $2),
			(SELECT count(*) FROM submissions
			 WHERE collector_id = $1 AND status = 'completed' AND completed_at >= $3),
			(SELECT coalesce(sum(total_amount), 0) FROM transactions
			 WHERE collector_id = $1 AND payment_status <> 'cancelled' AND created_at >= $2),
			(SELECT count(DISTINCT customer_id) FROM transactions
			 WHERE collector_id = $1)
	`, collectorID, monthStart, dayStart).Scan(
		&c.ScheduledPickups, &c.CompletedThisMonth, &c.CompletedToday,
		&c.SpentThisMonth, &c.UniqueCustomers,
	)
	if err != nil {
		return queries.CollectorCounters{}, infra.WrapRepoErr("failed to read collector counters", err)
	}

	return c, nil
}

func (s *DashboardReadStore) CountPendingSubmissions(ctx context.Context, dbtx db.DBTX) (int64, error) {
	var count int64
	err := dbtx.QueryRow(ctx, `
		SELECT count(*) FROM submissions WHERE status = 'pending'
	`).Scan(&count)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count pending submissions", err)
	}

	return count, nil
}

func (s *DashboardReadStore) InventoryByMaterial(ctx context.Context, dbtx db.DBTX, collectorID uuid.UUID) (map[string]float64, float64, error) {
	rows, err := dbtx.Query(ctx, `
		SELECT material_type, sum(weight_kg)
		FROM inventory_items
		WHERE collector_id = $1 AND status = 'available'
		GROUP BY material_type
	`, collectorID)
	if err != nil {
		return nil, 0, infra.WrapRepoErr("failed to aggregate inventory", err)
	}
	defer rows.Close()

	byMaterial := make(map[string]float64)
	var total float64
	for rows.Next() {
		var material string
		var weight float64
		if err := rows.Scan(&material, &weight); err != nil {
			return nil, 0, infra.WrapRepoErr("failed to scan inventory aggregate", err)
		}
		byMaterial[material] = weight
		total += weight
	}
	if err := rows.Err(); err != nil {
		return nil, 0, infra.WrapRepoErr("failed to read inventory aggregates", err)
	}

	return byMaterial, total, nil
}

func (s *DashboardReadStore) UpcomingPickups(ctx context.Context, dbtx db.DBTX, collectorID uuid.UUID, limit int32) ([]*queries.SubmissionListItem, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	rows, err := dbtx.Query(ctx, `
		SELECT id, material_type, condition, weight_kg, estimated_price, status, pickup_at, created_at
		FROM submissions
		WHERE collector_id = $1 AND status = 'scheduled'
		ORDER BY pickup_at ASC
		LIMIT $2
	`, collectorID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list upcoming pickups", err)
	}
	defer rows.Close()

	var result []*queries.SubmissionListItem
	for rows.Next() {
		item := &queries.SubmissionListItem{}
		if err := rows.Scan(
			&item.ID, &item.Material, &item.Condition, &item.WeightKg,
			&item.EstimatedPrice, &item.Status, &item.PickupAt, &item.CreatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan pickup row", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read pickup rows", err)
	}

	return result, nil
}

func (s *DashboardReadStore) CustomerCounters(ctx context.Context, dbtx db.DBTX, customerID uuid.UUID) (active, completed, totalEarned int64, totalWeight float64, err error) {
	err = dbtx.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM submissions
			 WHERE customer_id = $1 AND status IN ('pending', 'scheduled')),
			(SELECT count(*) FROM submissions
			 WHERE customer_id = $1 AND status = 'completed'),
			(SELECT coalesce(sum(total_amount), 0) FROM transactions
			 WHERE customer_id = $1 AND payment_status = 'completed'),
			(SELECT coalesce(sum(weight_kg), 0) FROM submissions
			 WHERE customer_id = $1 AND status = 'completed')
	`, customerID).Scan(&active, &completed, &totalEarned, &totalWeight)
	if err != nil {
		return 0, 0, 0, 0, infra.WrapRepoErr("failed to read customer counters", err)
	}

	return active, completed, totalEarned, totalWeight, nil
}
