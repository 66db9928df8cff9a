package queries

import (
	"context"

	"kardus/internal/domain/actor"
	"kardus/internal/infra"
	"kardus/internal/infra/db"
	"kardus/internal/pkg/errs"
	"kardus/internal/usecase/shared"

	"github.com/google/uuid"
)

type InventoryReadStore interface {
	FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*InventoryItemView, error)
	List(ctx context.Context, dbtx db.DBTX, filter InventoryFilter) ([]*InventoryItemView, error)
}

type InventoryQueries interface {
	GetByID(ctx context.Context, act actor.Actor, id uuid.UUID) (*InventoryItemView, error)
	ListMine(ctx context.Context, act actor.Actor, status, material string, limit int32) ([]*InventoryItemView, error)
}

type inventoryQueriesImpl struct {
	uow   shared.UnitOfWork
	store InventoryReadStore
}

func NewInventoryQueries(uow shared.UnitOfWork, store InventoryReadStore) InventoryQueries {
	return &inventoryQueriesImpl{uow: uow, store: store}
}

func (q *inventoryQueriesImpl) GetByID(ctx context.Context, act actor.Actor, id uuid.UUID) (*InventoryItemView, error) {
	if !act.IsCollector() {
		return nil, errs.ErrForbidden
	}

	var view *InventoryItemView
	err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		v, err := q.store.FindByID(ctx, dbtx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrInventoryItemNotFound
			}
			return err
		}
		view = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	if view.CollectorID != act.ID {
		return nil, errs.ErrForbidden
	}
	return view, nil
}

func (q *inventoryQueriesImpl) ListMine(ctx context.Context, act actor.Actor, status, material string, limit int32) ([]*InventoryItemView, error) {
	if !act.IsCollector() {
		return nil, errs.ErrForbidden
	}

	filter := InventoryFilter{
		CollectorID: act.ID,
		Status:      status,
		Material:    material,
		Limit:       limit,
	}

	var rows []*InventoryItemView
	err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		r, err := q.store.List(ctx, dbtx, filter)
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
