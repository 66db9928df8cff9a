package queries

import (
	"context"

	"kardus/internal/domain/actor"
	"kardus/internal/infra/db"
	"kardus/internal/usecase/shared"

	"github.com/google/uuid"
)

type NotificationReadStore interface {
	ListByRecipient(ctx context.Context, dbtx db.DBTX, recipientID uuid.UUID, unreadOnly bool, limit int32) ([]*NotificationView, error)
	CountUnread(ctx context.Context, dbtx db.DBTX, recipientID uuid.UUID) (int64, error)
}

type NotificationQueries interface {
	ListMine(ctx context.Context, act actor.Actor, unreadOnly bool, limit int32) ([]*NotificationView, error)
	CountUnread(ctx context.Context, act actor.Actor) (int64, error)
}

type notificationQueriesImpl struct {
	uow   shared.UnitOfWork
	store NotificationReadStore
}

func NewNotificationQueries(uow shared.UnitOfWork, store NotificationReadStore) NotificationQueries {
	return &notificationQueriesImpl{uow: uow, store: store}
}

func (q *notificationQueriesImpl) ListMine(ctx context.Context, act actor.Actor, unreadOnly bool, limit int32) ([]*NotificationView, error) {
	var rows []*NotificationView
	err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		r, err := q.store.ListByRecipient(ctx, dbtx, act.ID, unreadOnly, limit)
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

func (q *notificationQueriesImpl) CountUnread(ctx context.Context, act actor.Actor) (int64, error) {
	var count int64
	err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		n, err := q.store.CountUnread(ctx, dbtx, act.ID)
		if err != nil {
			return err
		}
		count = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
