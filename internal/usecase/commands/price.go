package commands

import (
	"context"

	"kardus/internal/domain/actor"
	"kardus/internal/domain/pricing"
	"kardus/internal/pkg/clock"
	"kardus/internal/pkg/errs"
	"kardus/internal/usecase/shared"
)

type PriceEntryInput struct {
	Material   string `json:"material_type"`
	Condition  string `json:"condition"`
	PricePerKg int64  `json:"price_per_kg"`
}

type PriceCommands interface {
	// SetPrice updates one (material, condition) quote: the old entry is
	// deactivated, a new active entry inserted, and the change recorded
	// in history, all in one transaction.
	SetPrice(ctx context.Context, act actor.Actor, in PriceEntryInput) error
	// ReplaceAll swaps the collector's whole table atomically. Readers
	// never observe a mix of old and new quotes.
	ReplaceAll(ctx context.Context, act actor.Actor, entries []PriceEntryInput) error
}

type priceUseCaseImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewPriceUseCase(uow shared.UnitOfWork, clk clock.Clock) PriceCommands {
	return &priceUseCaseImpl{uow: uow, clock: clk}
}

func (u *priceUseCaseImpl) SetPrice(ctx context.Context, act actor.Actor, in PriceEntryInput) error {
	if !act.IsCollector() {
		return errs.ErrForbidden
	}
	if err := validatePriceEntry(in); err != nil {
		return err
	}

	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		oldPrice, err := tx.Prices().DeactivateActive(ctx, tx.DB(), act.ID, in.Material, in.Condition)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if err := tx.Prices().InsertActive(ctx, tx.DB(), act.ID, in.Material, in.Condition, in.PricePerKg); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		change := shared.PriceChange{
			CollectorID: act.ID,
			Material:    in.Material,
			Condition:   in.Condition,
			OldPrice:    oldPrice,
			NewPrice:    in.PricePerKg,
			ChangedAt:   u.clock.Now(),
		}
		if err := tx.Prices().InsertHistory(ctx, tx.DB(), change); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (u *priceUseCaseImpl) ReplaceAll(ctx context.Context, act actor.Actor, entries []PriceEntryInput) error {
	if !act.IsCollector() {
		return errs.ErrForbidden
	}
	for _, in := range entries {
		if err := validatePriceEntry(in); err != nil {
			return err
		}
	}

	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		old, err := tx.Prices().DeactivateAll(ctx, tx.DB(), act.ID)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		now := u.clock.Now()
		for _, in := range entries {
			if err := tx.Prices().InsertActive(ctx, tx.DB(), act.ID, in.Material, in.Condition, in.PricePerKg); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}

			change := shared.PriceChange{
				CollectorID: act.ID,
				Material:    in.Material,
				Condition:   in.Condition,
				NewPrice:    in.PricePerKg,
				ChangedAt:   now,
			}
			if prev, ok := old[[2]string{in.Material, in.Condition}]; ok {
				prevCopy := prev
				change.OldPrice = &prevCopy
			}
			if err := tx.Prices().InsertHistory(ctx, tx.DB(), change); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
		}
		return nil
	})
}

func validatePriceEntry(in PriceEntryInput) error {
	if in.Material == "" {
		return errs.ErrInvalidMaterial
	}
	if _, err := pricing.ParseCondition(in.Condition); err != nil {
		return errs.Mark(err, errs.ErrInvalidCondition)
	}
	if in.PricePerKg < 0 {
		return errs.ErrInvalidPrice
	}
	return nil
}
