package usecase

import (
	"context"

	"github.com/pathcraft/backend/domain"
)

// Notifier abstracts the notification outbox so use cases fire-and-forget
// milestone messages without coupling to its storage.
type Notifier interface {
	Notify(ctx context.Context, notification *domain.Notification) error
}
