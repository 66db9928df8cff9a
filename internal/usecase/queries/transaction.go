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

type TransactionReadStore interface {
	FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*TransactionView, error)
	FindBySubmissionID(ctx context.Context, dbtx db.DBTX, submissionID uuid.UUID) (*TransactionView, error)
	List(ctx context.Context, dbtx db.DBTX, filter TransactionFilter) ([]*TransactionView, error)
}

type TransactionQueries interface {
	GetByID(ctx context.Context, act actor.Actor, id uuid.UUID) (*TransactionView, error)
	GetBySubmissionID(ctx context.Context, act actor.Actor, submissionID uuid.UUID) (*TransactionView, error)
	ListMine(ctx context.Context, act actor.Actor, paymentStatus string, limit int32) ([]*TransactionView, error)
}

type transactionQueriesImpl struct {
	uow   shared.UnitOfWork
	store TransactionReadStore
}

func NewTransactionQueries(uow shared.UnitOfWork, store TransactionReadStore) TransactionQueries {
	return &transactionQueriesImpl{uow: uow, store: store}
}

func (q *transactionQueriesImpl) GetByID(ctx context.Context, act actor.Actor, id uuid.UUID) (*TransactionView, error) {
	var view *TransactionView
	err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		v, err := q.store.FindByID(ctx, dbtx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrTransactionNotFound
			}
			return err
		}
		view = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	if view.CollectorID != act.ID && view.CustomerID != act.ID {
		return nil, errs.ErrForbidden
	}
	return view, nil
}

func (q *transactionQueriesImpl) GetBySubmissionID(ctx context.Context, act actor.Actor, submissionID uuid.UUID) (*TransactionView, error) {
	var view *TransactionView
	err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		v, err := q.store.FindBySubmissionID(ctx, dbtx, submissionID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrSubmissionNotSettled
			}
			return err
		}
		view = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	if view.CollectorID != act.ID && view.CustomerID != act.ID {
		return nil, errs.ErrForbidden
	}
	return view, nil
}

func (q *transactionQueriesImpl) ListMine(ctx context.Context, act actor.Actor, paymentStatus string, limit int32) ([]*TransactionView, error) {
	filter := TransactionFilter{PaymentStatus: paymentStatus, Limit: limit}
	if act.IsCollector() {
		filter.CollectorID = &act.ID
	} else {
		filter.CustomerID = &act.ID
	}

	var rows []*TransactionView
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
