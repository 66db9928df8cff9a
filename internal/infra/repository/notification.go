package repository

import (
	"context"

	"kardus/internal/infra"
	"kardus/internal/infra/db"
	"kardus/internal/usecase/shared"

	"github.com/google/uuid"
)

type NotificationRepository struct{}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) Create(ctx context.Context, dbtx db.DBTX, n *shared.Notification) error {
	_, err := dbtx.Exec(ctx, `
		INSERT INTO notifications
			(id, recipient_id, title, body, category, related_entity, related_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, n.ID, n.RecipientID, n.Title, n.Body, n.Category, n.RelatedEntity, n.RelatedID)
	if err != nil {
		return infra.WrapRepoErr("failed to create notification", err)
	}

	return nil
}

// CreateOncePerRelated hits the partial unique index on (category,
// related_id), so retried settlement writes stay silent.
func (r *NotificationRepository) CreateOncePerRelated(ctx context.Context, dbtx db.DBTX, n *shared.Notification) error {
	_, err := dbtx.Exec(ctx, `
		INSERT INTO notifications
			(id, recipient_id, title, body, category, related_entity, related_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (category, related_id) WHERE related_id IS NOT NULL DO NOTHING
	`, n.ID, n.RecipientID, n.Title, n.Body, n.Category, n.RelatedEntity, n.RelatedID)
	if err != nil {
		return infra.WrapRepoErr("failed to create notification", err)
	}

	return nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, dbtx db.DBTX, id, recipientID uuid.UUID) (bool, error) {
	tag, err := dbtx.Exec(ctx, `
		UPDATE notifications
		SET read = true
		WHERE id = $1 AND recipient_id = $2 AND NOT read
	`, id, recipientID)
	if err != nil {
		return false, infra.WrapRepoErr("failed to mark notification read", err)
	}

	return tag.RowsAffected() == 1, nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, dbtx db.DBTX, recipientID uuid.UUID) (int64, error) {
	tag, err := dbtx.Exec(ctx, `
		UPDATE notifications
		SET read = true
		WHERE recipient_id = $1 AND NOT read
	`, recipientID)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to mark notifications read", err)
	}

	return tag.RowsAffected(), nil
}
