package notification

import (
	"context"

	"go.uber.org/zap"

	"github.com/pathcraft/backend/domain"
	"github.com/pathcraft/backend/repository"
)

type UseCase struct {
	notifications repository.NotificationRepository
	logger        *zap.Logger
}

func New(notifications repository.NotificationRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		notifications: notifications,
		logger:        logger,
	}
}

func (uc *UseCase) List(ctx context.Context, recipientID string, unreadOnly bool, limit int) ([]domain.Notification, error) {
	return uc.notifications.ListByRecipient(ctx, recipientID, unreadOnly, limit)
}

func (uc *UseCase) MarkRead(ctx context.Context, recipientID, id string) error {
	return uc.notifications.MarkRead(ctx, recipientID, id)
}

func (uc *UseCase) MarkAllRead(ctx context.Context, recipientID string) error {
	return uc.notifications.MarkAllRead(ctx, recipientID)
}

func (uc *UseCase) Delete(ctx context.Context, recipientID, id string) error {
	return uc.notifications.Delete(ctx, recipientID, id)
}

func (uc *UseCase) ClearAll(ctx context.Context, recipientID string) error {
	return uc.notifications.DeleteAll(ctx, recipientID)
}
