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

type SubmissionReadStore interface {
	FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*SubmissionView, error)
	List(ctx context.Context, dbtx db.DBTX, filter SubmissionFilter) ([]*SubmissionListItem, error)
	ListPendingForPickup(ctx context.Context, dbtx db.DBTX, limit int32) ([]*SubmissionListItem, error)
}

type SubmissionQueries interface {
	GetByID(ctx context.Context, act actor.Actor, id uuid.UUID) (*SubmissionView, error)
	// ListMine is role-aware: customers see their own submissions,
	// collectors the ones assigned to them.
	ListMine(ctx context.Context, act actor.Actor, status string, limit int32) ([]*SubmissionListItem, error)
	// ListPending is the collector-facing browse feed of unassigned work.
	ListPending(ctx context.Context, act actor.Actor, limit int32) ([]*SubmissionListItem, error)
}

type submissionQueriesImpl struct {
	uow   shared.UnitOfWork
	store SubmissionReadStore
}

func NewSubmissionQueries(uow shared.UnitOfWork, store SubmissionReadStore) SubmissionQueries {
	return &submissionQueriesImpl{uow: uow, store: store}
}

func (q *submissionQueriesImpl) GetByID(ctx context.Context, act actor.Actor, id uuid.UUID) (*SubmissionView, error) {
	var view *SubmissionView
	err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		v, err := q.store.FindByID(ctx, dbtx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrSubmissionNotFound
			}
			return err
		}
		view = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !canSeeSubmission(act, view) {
		return nil, errs.ErrForbidden
	}
	return view, nil
}

// canSeeSubmission: owners always, the assigned collector always, and any
// collector while the offer is still unassigned.
func canSeeSubmission(act actor.Actor, v *SubmissionView) bool {
	if act.IsCustomer() {
		return v.CustomerID == act.ID
	}
	if v.CollectorID != nil {
		return *v.CollectorID == act.ID
	}
	return v.Status == "pending"
}

func (q *submissionQueriesImpl) ListMine(ctx context.Context, act actor.Actor, status string, limit int32) ([]*SubmissionListItem, error) {
	filter := SubmissionFilter{Status: status, Limit: limit}
	if act.IsCustomer() {
		filter.CustomerID = &act.ID
	} else {
		filter.CollectorID = &act.ID
	}

	var items []*SubmissionListItem
	err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		rows, err := q.store.List(ctx, dbtx, filter)
		if err != nil {
			return err
		}
		items = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (q *submissionQueriesImpl) ListPending(ctx context.Context, act actor.Actor, limit int32) ([]*SubmissionListItem, error) {
	if !act.IsCollector() {
		return nil, errs.ErrForbidden
	}

	var items []*SubmissionListItem
	err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		rows, err := q.store.ListPendingForPickup(ctx, dbtx, limit)
		if err != nil {
			return err
		}
		items = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}
