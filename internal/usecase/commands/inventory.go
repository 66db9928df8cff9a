package commands

import (
	"context"
	"errors"
	"time"

	"kardus/internal/domain/actor"
	"kardus/internal/domain/inventory"
	"kardus/internal/domain/pricing"
	"kardus/internal/infra"
	"kardus/internal/infra/db"
	"kardus/internal/pkg/errs"
	"kardus/internal/usecase/queries"
	"kardus/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateInventoryItemInput struct {
	Material   string    `json:"material_type"`
	Condition  string    `json:"condition"`
	WeightKg   float64   `json:"weight_kg"`
	AcquiredOn time.Time `json:"acquired_on"`
	SourceNote string    `json:"source_note"`
	Notes      string    `json:"notes"`
}

// UpdateInventoryItemInput leaves a field untouched when it is empty
// (Status) or nil (Notes).
type UpdateInventoryItemInput struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes"`
}

type InventoryCommands interface {
	CreateManual(ctx context.Context, act actor.Actor, in CreateInventoryItemInput) (*queries.InventoryItemView, error)
	Update(ctx context.Context, act actor.Actor, id uuid.UUID, in UpdateInventoryItemInput) (*queries.InventoryItemView, error)
}

type inventoryUseCaseImpl struct {
	uow            shared.UnitOfWork
	inventoryReads InventoryReads
}

func NewInventoryUseCase(uow shared.UnitOfWork, inventoryReads InventoryReads) InventoryCommands {
	return &inventoryUseCaseImpl{uow: uow, inventoryReads: inventoryReads}
}

func (u *inventoryUseCaseImpl) CreateManual(ctx context.Context, act actor.Actor, in CreateInventoryItemInput) (*queries.InventoryItemView, error) {
	if !act.IsCollector() {
		return nil, errs.ErrForbidden
	}

	condition, err := pricing.ParseCondition(in.Condition)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidCondition)
	}

	item, err := inventory.NewManual(act.ID, in.Material, condition, in.WeightKg, in.AcquiredOn, in.SourceNote, in.Notes)
	if err != nil {
		return nil, mapInventoryDomainErr(err)
	}

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Inventory().Create(ctx, tx.DB(), item); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return u.readView(ctx, item.ID())
}

func (u *inventoryUseCaseImpl) Update(ctx context.Context, act actor.Actor, id uuid.UUID, in UpdateInventoryItemInput) (*queries.InventoryItemView, error) {
	if !act.IsCollector() {
		return nil, errs.ErrForbidden
	}

	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		item, err := tx.Inventory().FindByID(ctx, tx.DB(), id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrInventoryItemNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if item.CollectorID() != act.ID {
			return errs.ErrForbidden
		}

		if in.Status != "" {
			status, err := inventory.ParseStatus(in.Status)
			if err != nil {
				return errs.Mark(err, errs.ErrInvalidInventoryState)
			}
			if err := item.UpdateStatus(status); err != nil {
				return mapInventoryDomainErr(err)
			}
		}
		if in.Notes != nil {
			item.SetNotes(*in.Notes)
		}

		if err := tx.Inventory().Update(ctx, tx.DB(), item); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return u.readView(ctx, id)
}

func (u *inventoryUseCaseImpl) readView(ctx context.Context, id uuid.UUID) (*queries.InventoryItemView, error) {
	var view *queries.InventoryItemView
	err := u.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		v, err := u.inventoryReads.FindByID(ctx, dbtx, id)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		view = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func mapInventoryDomainErr(err error) error {
	switch {
	case errors.Is(err, inventory.ErrInvalidStatus):
		return errs.Mark(err, errs.ErrInvalidInventoryState)
	case errors.Is(err, inventory.ErrNonPositiveWeight):
		return errs.Mark(err, errs.ErrInvalidWeight)
	default:
		return errs.Wrap(err, "inventory domain rule failed")
	}
}
