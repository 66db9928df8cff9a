package readstore

import (
	"context"

	"kardus/internal/infra"
	"kardus/internal/infra/db"
	"kardus/internal/usecase/queries"

	"github.com/google/uuid"
)

type NotificationReadStore struct{}

func NewNotificationReadStore() *NotificationReadStore {
	return &NotificationReadStore{}
}

func (s *NotificationReadStore) ListByRecipient(ctx context.Context, dbtx db.DBTX, recipientID uuid.UUID, unreadOnly bool, limit int32) ([]*queries.NotificationView, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := `
		SELECT id, recipient_id, title, body, category, related_entity, related_id, read, created_at
		FROM notifications
		WHERE recipient_id = $1`
	if unreadOnly {
		query += ` AND NOT read`
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT $2`

	rows, err := dbtx.Query(ctx, query, recipientID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list notifications", err)
	}
	defer rows.Close()

	var result []*queries.NotificationView
	for rows.Next() {
		v := &queries.NotificationView{}
		if err := rows.Scan(
			&v.ID, &v.RecipientID, &v.Title, &v.Body, &v.Category,
			&v.RelatedEntity, &v.RelatedID, &v.Read, &v.CreatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan notification row", err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read notification rows", err)
	}

	return result, nil
}

func (s *NotificationReadStore) CountUnread(ctx context.Context, dbtx db.DBTX, recipientID uuid.UUID) (int64, error) {
	var count int64
	err := dbtx.QueryRow(ctx, `
		SELECT count(*) FROM notifications WHERE recipient_id = $1 AND NOT read
	`, recipientID).Scan(&count)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count unread notifications", err)
	}

	return count, nil
}
