package commands

import (
	"context"

	"kardus/internal/domain/actor"
	"kardus/internal/pkg/errs"
	"kardus/internal/usecase/shared"

	"github.com/google/uuid"
)

type NotificationCommands interface {
	// MarkRead flips one of the caller's notifications to read. Marking an
	// already-read notification is a no-op, not an error.
	MarkRead(ctx context.Context, act actor.Actor, id uuid.UUID) error
	MarkAllRead(ctx context.Context, act actor.Actor) (int64, error)
}

type notificationUseCaseImpl struct {
	uow shared.UnitOfWork
}

func NewNotificationUseCase(uow shared.UnitOfWork) NotificationCommands {
	return &notificationUseCaseImpl{uow: uow}
}

func (u *notificationUseCaseImpl) MarkRead(ctx context.Context, act actor.Actor, id uuid.UUID) error {
	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		_, err := tx.Notifications().MarkRead(ctx, tx.DB(), id, act.ID)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (u *notificationUseCaseImpl) MarkAllRead(ctx context.Context, act actor.Actor) (int64, error) {
	var updated int64
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		n, err := tx.Notifications().MarkAllRead(ctx, tx.DB(), act.ID)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		updated = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}
