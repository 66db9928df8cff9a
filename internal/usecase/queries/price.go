package queries

import (
	"context"

	"kardus/internal/domain/actor"
	"kardus/internal/domain/pricing"
	"kardus/internal/infra/db"
	"kardus/internal/pkg/errs"
	"kardus/internal/usecase/shared"

	"github.com/google/uuid"
)

// EstimateView is the quote preview a customer sees before submitting.
// Nothing is persisted; the figure is recomputed at settlement time.
type EstimateView struct {
	Material       string  `json:"material_type"`
	Condition      string  `json:"condition"`
	WeightKg       float64 `json:"weight_kg"`
	PricePerKg     int64   `json:"price_per_kg"`
	EstimatedPrice int64   `json:"estimated_price"`
	PriceSource    string  `json:"price_source"`
}

const (
	PriceSourceCollector = "collector"
	PriceSourceDefault   = "default"
)

type PriceReadStore interface {
	ActiveTable(ctx context.Context, dbtx db.DBTX, collectorID uuid.UUID) (*pricing.Table, error)
	ListActive(ctx context.Context, dbtx db.DBTX, collectorID uuid.UUID) ([]*PriceEntryView, error)
	History(ctx context.Context, dbtx db.DBTX, collectorID uuid.UUID, limit int32) ([]*PriceHistoryView, error)
}

type PriceQueries interface {
	// Estimate quotes weight × price-per-kg, preferring collectorID's
	// live table and falling back to the platform defaults. A nil
	// collectorID quotes straight from the defaults.
	Estimate(ctx context.Context, collectorID *uuid.UUID, material, condition string, weightKg float64) (*EstimateView, error)
	ListActive(ctx context.Context, collectorID uuid.UUID) ([]*PriceEntryView, error)
	// History returns the collector's own price audit trail.
	History(ctx context.Context, act actor.Actor, limit int32) ([]*PriceHistoryView, error)
}

type priceQueriesImpl struct {
	uow      shared.UnitOfWork
	store    PriceReadStore
	defaults *pricing.Table
}

func NewPriceQueries(uow shared.UnitOfWork, store PriceReadStore, defaults *pricing.Table) PriceQueries {
	return &priceQueriesImpl{uow: uow, store: store, defaults: defaults}
}

func (q *priceQueriesImpl) Estimate(ctx context.Context, collectorID *uuid.UUID, material, condition string, weightKg float64) (*EstimateView, error) {
	cond, err := pricing.ParseCondition(condition)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidCondition)
	}
	if weightKg < 0 {
		return nil, errs.ErrInvalidWeight
	}

	pricePerKg, source, err := q.resolvePrice(ctx, collectorID, material, cond)
	if err != nil {
		return nil, err
	}

	table := pricing.NewTable()
	table.Set(material, cond, pricePerKg)
	estimate, err := pricing.Estimate(material, cond, weightKg, table)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrPriceUnavailable)
	}

	return &EstimateView{
		Material:       material,
		Condition:      condition,
		WeightKg:       weightKg,
		PricePerKg:     pricePerKg,
		EstimatedPrice: estimate,
		PriceSource:    source,
	}, nil
}

func (q *priceQueriesImpl) resolvePrice(ctx context.Context, collectorID *uuid.UUID, material string, cond pricing.Condition) (int64, string, error) {
	if collectorID != nil {
		var table *pricing.Table
		err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
			t, err := q.store.ActiveTable(ctx, dbtx, *collectorID)
			if err != nil {
				return err
			}
			table = t
			return nil
		})
		if err != nil {
			return 0, "", errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if price, ok := table.Lookup(material, cond); ok {
			return price, PriceSourceCollector, nil
		}
	}

	if price, ok := q.defaults.Lookup(material, cond); ok {
		return price, PriceSourceDefault, nil
	}
	return 0, "", errs.ErrPriceUnavailable
}

func (q *priceQueriesImpl) ListActive(ctx context.Context, collectorID uuid.UUID) ([]*PriceEntryView, error) {
	var entries []*PriceEntryView
	err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		rows, err := q.store.ListActive(ctx, dbtx, collectorID)
		if err != nil {
			return err
		}
		entries = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (q *priceQueriesImpl) History(ctx context.Context, act actor.Actor, limit int32) ([]*PriceHistoryView, error) {
	if !act.IsCollector() {
		return nil, errs.ErrForbidden
	}

	var rows []*PriceHistoryView
	err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		r, err := q.store.History(ctx, dbtx, act.ID, limit)
		if err != nil {
			return err
		}
		rows = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}
