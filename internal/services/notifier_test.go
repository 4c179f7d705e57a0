package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pathcraft/backend/domain"
	"github.com/pathcraft/backend/internal/infrastructure/queue"
)

func newTestStore(t *testing.T) *queue.Store {
	t.Helper()
	store, err := queue.Open(filepath.Join(t.TempDir(), "outbox.db"), "notifications")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestDispatcher(store *queue.Store, repo *fakeNotificationRepo, maxRetries int) *NotificationDispatcher {
	return NewNotificationDispatcher(store, onlineHealth{}, repo, nil, DispatcherConfig{
		Interval:   time.Minute,
		BatchSize:  10,
		MaxRetries: maxRetries,
		Retention:  time.Hour,
	})
}

func TestDrainDeliversAndRemoves(t *testing.T) {
	store := newTestStore(t)
	repo := &fakeNotificationRepo{}
	d := newTestDispatcher(store, repo, 3)

	require.NoError(t, d.Enqueue(context.Background(), &domain.Notification{
		ID:          "n-1",
		RecipientID: "user-1",
		Title:       "Path cloned",
	}))

	require.NoError(t, d.Drain(context.Background()))

	require.Len(t, repo.created, 1)
	require.Equal(t, "n-1", repo.created[0].ID)
	require.Equal(t, 0, d.Size())
}

func TestDrainKeepsFailedItemQueued(t *testing.T) {
	store := newTestStore(t)
	repo := &fakeNotificationRepo{createErr: errors.New("connection refused")}
	d := newTestDispatcher(store, repo, 3)

	require.NoError(t, d.Enqueue(context.Background(), &domain.Notification{
		ID:          "n-1",
		RecipientID: "user-1",
	}))

	require.NoError(t, d.Drain(context.Background()))

	// The failed item must survive the drain with its retry count bumped,
	// and must not be duplicated by the requeue/remove pair.
	items, err := store.GetBatch(10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, 1, items[0].Retries)

	// Once the store recovers, the same item lands and leaves the queue.
	repo.createErr = nil
	require.NoError(t, d.Drain(context.Background()))
	require.Len(t, repo.created, 1)
	require.Equal(t, 0, d.Size())
}

func TestDrainDropsItemPastRetryBudget(t *testing.T) {
	store := newTestStore(t)
	repo := &fakeNotificationRepo{createErr: errors.New("connection refused")}
	d := newTestDispatcher(store, repo, 1)

	require.NoError(t, d.Enqueue(context.Background(), &domain.Notification{
		ID:          "n-1",
		RecipientID: "user-1",
	}))

	require.NoError(t, d.Drain(context.Background()))
	require.Equal(t, 0, d.Size())
	require.Empty(t, repo.created)
}

func TestDrainSkipsWhileOffline(t *testing.T) {
	store := newTestStore(t)
	repo := &fakeNotificationRepo{}
	d := NewNotificationDispatcher(store, offlineHealth{}, repo, nil, DispatcherConfig{
		Interval: time.Minute,
	})

	require.NoError(t, d.Enqueue(context.Background(), &domain.Notification{
		ID:          "n-1",
		RecipientID: "user-1",
	}))

	require.NoError(t, d.Drain(context.Background()))
	require.Empty(t, repo.created)
	require.Equal(t, 1, d.Size())
}

// --- fakes ---

type onlineHealth struct{}

func (onlineHealth) IsOnline() bool { return true }

type offlineHealth struct{}

func (offlineHealth) IsOnline() bool { return false }

type fakeNotificationRepo struct {
	created   []domain.Notification
	createErr error
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, *n)
	return nil
}

func (f *fakeNotificationRepo) ListByRecipient(context.Context, string, bool, int) ([]domain.Notification, error) {
	return nil, nil
}

func (f *fakeNotificationRepo) MarkRead(context.Context, string, string) error { return nil }
func (f *fakeNotificationRepo) MarkAllRead(context.Context, string) error      { return nil }
func (f *fakeNotificationRepo) Delete(context.Context, string, string) error   { return nil }
func (f *fakeNotificationRepo) DeleteAll(context.Context, string) error        { return nil }
