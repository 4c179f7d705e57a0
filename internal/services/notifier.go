package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/pathcraft/backend/domain"
	"github.com/pathcraft/backend/internal/infrastructure/queue"
	"github.com/pathcraft/backend/repository"
	"github.com/pathcraft/backend/usecase"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// DispatcherConfig controls how frequently the outbox is drained.
type DispatcherConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
	Retention  time.Duration
}

// NotificationDispatcher drains queued notifications into the primary store
// on a schedule, so core operations never wait on the notifications table
// and queued items survive database outages.
type NotificationDispatcher struct {
	store         *queue.Store
	monitor       ConnectionHealth
	notifications repository.NotificationRepository
	logger        *zap.Logger
	cron          *cron.Cron
	cfg           DispatcherConfig
}

func NewNotificationDispatcher(
	store *queue.Store,
	monitor ConnectionHealth,
	notifications repository.NotificationRepository,
	logger *zap.Logger,
	cfg DispatcherConfig,
) *NotificationDispatcher {
	if cfg.Interval <= 0 {
		cfg.Interval = 15 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	d := &NotificationDispatcher{
		store:         store,
		monitor:       monitor,
		notifications: notifications,
		logger:        logger,
		cfg:           cfg,
		cron:          cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = d.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := d.Drain(ctx); err != nil {
			d.logger.Error("notification drain failed", zap.Error(err))
		}
	})
	_, _ = d.cron.AddFunc("@hourly", func() {
		if err := d.store.Cleanup(time.Now().Add(-cfg.Retention)); err != nil {
			d.logger.Warn("notification queue cleanup failed", zap.Error(err))
		}
	})

	return d
}

// Start launches the cron scheduler.
func (d *NotificationDispatcher) Start() {
	if d == nil || d.cron == nil {
		return
	}
	d.cron.Start()
	d.logger.Info("notification dispatcher started")
}

// Stop gracefully stops the scheduler.
func (d *NotificationDispatcher) Stop(ctx context.Context) {
	if d == nil || d.cron == nil {
		return
	}
	stopCtx := d.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	d.logger.Info("notification dispatcher stopped")
}

// Drain lands queued notifications in Postgres, dropping items that keep
// failing past the retry budget.
func (d *NotificationDispatcher) Drain(ctx context.Context) error {
	if d == nil || d.store == nil {
		return nil
	}
	if d.monitor != nil && !d.monitor.IsOnline() {
		d.logger.Debug("skipping notification drain (offline)")
		return nil
	}

	items, err := d.store.GetBatch(d.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, item := range items {
		notification := item.Notification
		if err := d.notifications.Create(ctx, &notification); err != nil {
			d.logger.Error("failed to deliver notification",
				zap.String("item_id", item.ID),
				zap.String("recipient_id", notification.RecipientID),
				zap.Error(err))

			item.Retries++
			if item.Retries >= d.cfg.MaxRetries {
				d.logger.Warn("dropping notification (max retries reached)", zap.String("item_id", item.ID))
				_ = d.store.Remove(item)
				continue
			}

			// Requeue lands the item under a fresh key before the old one
			// goes away; a crash in between duplicates instead of dropping.
			// Requeue mutates only its own copy, so Remove still sees the
			// old key.
			if err := d.store.Requeue(item); err != nil {
				d.logger.Error("failed to requeue notification", zap.Error(err))
				continue
			}
			if err := d.store.Remove(item); err != nil {
				d.logger.Warn("failed to remove queued notification", zap.Error(err))
			}
			continue
		}

		if err := d.store.Remove(item); err != nil {
			d.logger.Warn("failed to purge delivered notification", zap.Error(err))
		}
	}
	return nil
}

// Size returns the number of queued notifications.
func (d *NotificationDispatcher) Size() int {
	if d == nil || d.store == nil {
		return 0
	}
	size, err := d.store.Size()
	if err != nil {
		return 0
	}
	return size
}

// Enqueue persists a notification into the outbox for later delivery.
func (d *NotificationDispatcher) Enqueue(_ context.Context, notification *domain.Notification) error {
	if d == nil || d.store == nil {
		return fmt.Errorf("notification dispatcher not configured")
	}
	if notification == nil {
		return domain.ErrInvalidPayload
	}
	return d.store.Enqueue(queue.Item{Notification: *notification})
}

// NotifierBridge adapts the dispatcher to the usecase.Notifier port.
type NotifierBridge struct {
	dispatcher *NotificationDispatcher
}

func NewNotifierBridge(dispatcher *NotificationDispatcher) *NotifierBridge {
	return &NotifierBridge{dispatcher: dispatcher}
}

func (b *NotifierBridge) Notify(ctx context.Context, notification *domain.Notification) error {
	if b.dispatcher == nil || notification == nil {
		return domain.ErrInvalidPayload
	}
	return b.dispatcher.Enqueue(ctx, notification)
}

var _ usecase.Notifier = (*NotifierBridge)(nil)
