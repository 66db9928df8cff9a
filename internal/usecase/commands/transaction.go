package commands

import (
	"context"
	"errors"

	"kardus/internal/domain/actor"
	"kardus/internal/domain/pricing"
	"kardus/internal/domain/transaction"
	"kardus/internal/infra"
	"kardus/internal/infra/db"
	"kardus/internal/pkg/errs"
	"kardus/internal/usecase/queries"
	"kardus/internal/usecase/shared"

	"github.com/google/uuid"
)

// AdHocTransactionInput records an exchange that happened off-platform,
// with no submission behind it.
type AdHocTransactionInput struct {
	CustomerID uuid.UUID `json:"customer_id"`
	Material   string    `json:"material_type"`
	Condition  string    `json:"condition"`
	WeightKg   float64   `json:"weight_kg"`
	PricePerKg int64     `json:"price_per_kg"`
}

type TransactionCommands interface {
	CreateAdHoc(ctx context.Context, act actor.Actor, in AdHocTransactionInput) (*queries.TransactionView, error)
	// UpdatePaymentStatus moves pending → completed|cancelled. Both
	// targets are final.
	UpdatePaymentStatus(ctx context.Context, act actor.Actor, id uuid.UUID, status string) (*queries.TransactionView, error)
}

type transactionUseCaseImpl struct {
	uow              shared.UnitOfWork
	transactionReads TransactionReads
	receipts         ReceiptIssuer
}

func NewTransactionUseCase(uow shared.UnitOfWork, transactionReads TransactionReads, receipts ReceiptIssuer) TransactionCommands {
	return &transactionUseCaseImpl{
		uow:              uow,
		transactionReads: transactionReads,
		receipts:         receipts,
	}
}

func (u *transactionUseCaseImpl) CreateAdHoc(ctx context.Context, act actor.Actor, in AdHocTransactionInput) (*queries.TransactionView, error) {
	if !act.IsCollector() {
		return nil, errs.ErrForbidden
	}

	condition, err := pricing.ParseCondition(in.Condition)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidCondition)
	}

	trx, err := transaction.New(u.receipts.Next(), act.ID, in.CustomerID, nil,
		in.Material, condition, in.WeightKg, in.PricePerKg)
	if err != nil {
		return nil, mapTransactionDomainErr(err)
	}

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// An ad hoc transaction has no submission key, so insertion never
		// conflicts; a false return here means a broken unique index.
		inserted, err := tx.Transactions().Create(ctx, tx.DB(), trx)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !inserted {
			return errs.New("ad hoc transaction insert reported conflict")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return u.readView(ctx, trx.ID())
}

func (u *transactionUseCaseImpl) UpdatePaymentStatus(ctx context.Context, act actor.Actor, id uuid.UUID, status string) (*queries.TransactionView, error) {
	target, err := transaction.ParsePaymentStatus(status)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidPaymentStatus)
	}

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		trx, err := tx.Transactions().FindByID(ctx, tx.DB(), id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrTransactionNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if trx.CollectorID() != act.ID {
			return errs.ErrForbidden
		}

		if err := trx.MarkPayment(target); err != nil {
			return mapTransactionDomainErr(err)
		}

		if err := tx.Transactions().UpdatePaymentStatus(ctx, tx.DB(), id, trx.PaymentStatus()); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return u.readView(ctx, id)
}

func (u *transactionUseCaseImpl) readView(ctx context.Context, id uuid.UUID) (*queries.TransactionView, error) {
	var view *queries.TransactionView
	err := u.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		v, err := u.transactionReads.FindByID(ctx, dbtx, id)
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

func mapTransactionDomainErr(err error) error {
	switch {
	case errors.Is(err, transaction.ErrPaymentStatusFinal):
		return errs.Mark(err, errs.ErrPaymentStatusFinal)
	case errors.Is(err, transaction.ErrInvalidPaymentStatus):
		return errs.Mark(err, errs.ErrInvalidPaymentStatus)
	case errors.Is(err, transaction.ErrNonPositiveWeight):
		return errs.Mark(err, errs.ErrInvalidWeight)
	case errors.Is(err, transaction.ErrNegativePrice):
		return errs.Mark(err, errs.ErrInvalidPrice)
	default:
		return errs.Wrap(err, "transaction domain rule failed")
	}
}
