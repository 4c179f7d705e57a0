package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pathcraft/backend/domain"
	"github.com/pathcraft/backend/repository"
)

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository returns a Postgres-backed implementation of
// NotificationRepository.
func NewNotificationRepository(pool *pgxpool.Pool) repository.NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	if notification == nil {
		return domain.ErrInvalidPayload
	}
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO notifications (id, recipient_id, sender_id, type, title, description, link, read)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING created_at
	`

	return r.pool.QueryRow(ctx, query,
		notification.ID,
		notification.RecipientID,
		notification.SenderID,
		notification.Type,
		notification.Title,
		notification.Description,
		notification.Link,
		notification.Read,
	).Scan(&notification.CreatedAt)
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit int) ([]domain.Notification, error) {
	const query = `
	SELECT id, recipient_id, sender_id, type, title, description, link, read, created_at
	FROM notifications
	WHERE recipient_id = $1
	  AND (NOT $2 OR NOT read)
	ORDER BY created_at DESC
	LIMIT $3
	`
	rows, err := r.pool.Query(ctx, query, recipientID, unreadOnly, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(
			&n.ID,
			&n.RecipientID,
			&n.SenderID,
			&n.Type,
			&n.Title,
			&n.Description,
			&n.Link,
			&n.Read,
			&n.CreatedAt,
		); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *notificationRepository) MarkRead(ctx context.Context, recipientID, id string) error {
	if invalidUUID(id) {
		return domain.ErrNotificationNotFound
	}
	const query = `UPDATE notifications SET read = TRUE WHERE id = $1 AND recipient_id = $2 RETURNING id`
	var updated string
	if err := r.pool.QueryRow(ctx, query, id, recipientID).Scan(&updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotificationNotFound
		}
		return err
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID string) error {
	const query = `UPDATE notifications SET read = TRUE WHERE recipient_id = $1 AND NOT read`
	_, err := r.pool.Exec(ctx, query, recipientID)
	return err
}

func (r *notificationRepository) Delete(ctx context.Context, recipientID, id string) error {
	if invalidUUID(id) {
		return domain.ErrNotificationNotFound
	}
	const query = `DELETE FROM notifications WHERE id = $1 AND recipient_id = $2`
	tag, err := r.pool.Exec(ctx, query, id, recipientID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

func (r *notificationRepository) DeleteAll(ctx context.Context, recipientID string) error {
	const query = `DELETE FROM notifications WHERE recipient_id = $1`
	_, err := r.pool.Exec(ctx, query, recipientID)
	return err
}
