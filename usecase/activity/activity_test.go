package activity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pathcraft/backend/domain"
)

var fixedNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func newTestUseCase(t *testing.T, user *domain.User) (*UseCase, *fakeUserRepo, *fakeNotifier) {
	t.Helper()

	users := &fakeUserRepo{users: map[string]*domain.User{}}
	if user != nil {
		users.users[user.ID] = user
	}
	notifier := &fakeNotifier{}

	uc := New(users, notifier, nil)
	uc.now = func() time.Time { return fixedNow }
	return uc, users, notifier
}

func TestTrackActivityFirstEver(t *testing.T) {
	uc, users, _ := newTestUseCase(t, &domain.User{ID: "user-1"})

	streak, err := uc.TrackActivity(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, 1, streak.CurrentStreak)
	require.Equal(t, 1, streak.LongestStreak)
	require.Equal(t, 1, streak.TotalActiveDays)
	require.Equal(t, 1, users.updateCalls)
}

func TestTrackActivitySameDaySkipsWrite(t *testing.T) {
	today := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	user := &domain.User{
		ID: "user-1",
		Streak: domain.Streak{
			CurrentStreak:    4,
			LongestStreak:    6,
			TotalActiveDays:  10,
			LastActivityDate: &today,
		},
	}
	uc, users, _ := newTestUseCase(t, user)

	streak, err := uc.TrackActivity(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, 4, streak.CurrentStreak)
	require.Equal(t, 10, streak.TotalActiveDays)
	require.Zero(t, users.updateCalls)
}

func TestTrackActivityConsecutiveDay(t *testing.T) {
	yesterday := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
	user := &domain.User{
		ID: "user-1",
		Streak: domain.Streak{
			CurrentStreak:    4,
			LongestStreak:    6,
			TotalActiveDays:  10,
			LastActivityDate: &yesterday,
		},
	}
	uc, _, _ := newTestUseCase(t, user)

	streak, err := uc.TrackActivity(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, 5, streak.CurrentStreak)
	require.Equal(t, 6, streak.LongestStreak)
	require.Equal(t, 11, streak.TotalActiveDays)
}

func TestTrackActivityLostRaceReloads(t *testing.T) {
	yesterday := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
	today := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	user := &domain.User{
		ID: "user-1",
		Streak: domain.Streak{
			CurrentStreak:    4,
			LongestStreak:    6,
			TotalActiveDays:  10,
			LastActivityDate: &yesterday,
		},
	}
	uc, users, notifier := newTestUseCase(t, user)

	// Simulate a concurrent request landing first: the guarded write refuses
	// and the stored state already reflects today.
	users.rejectWrite = true
	users.afterUpdate = func() {
		users.users["user-1"].Streak = domain.Streak{
			CurrentStreak:    5,
			LongestStreak:    6,
			TotalActiveDays:  11,
			LastActivityDate: &today,
		}
	}

	streak, err := uc.TrackActivity(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, 5, streak.CurrentStreak)
	require.Equal(t, 11, streak.TotalActiveDays)
	require.Empty(t, notifier.sent)
}

func TestTrackActivityMilestoneNotification(t *testing.T) {
	yesterday := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
	user := &domain.User{
		ID: "user-1",
		Streak: domain.Streak{
			CurrentStreak:    6,
			LongestStreak:    6,
			TotalActiveDays:  6,
			LastActivityDate: &yesterday,
		},
	}
	uc, _, notifier := newTestUseCase(t, user)

	streak, err := uc.TrackActivity(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, 7, streak.CurrentStreak)

	require.Len(t, notifier.sent, 1)
	require.Equal(t, domain.NotificationStreak, notifier.sent[0].Type)
	require.Equal(t, "user-1", notifier.sent[0].RecipientID)
}

func TestTrackActivityNoMilestoneOffTarget(t *testing.T) {
	yesterday := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
	user := &domain.User{
		ID: "user-1",
		Streak: domain.Streak{
			CurrentStreak:    7,
			LongestStreak:    7,
			TotalActiveDays:  7,
			LastActivityDate: &yesterday,
		},
	}
	uc, _, notifier := newTestUseCase(t, user)

	_, err := uc.TrackActivity(context.Background(), "user-1")
	require.NoError(t, err)
	require.Empty(t, notifier.sent)
}

func TestTrackActivityUnknownUser(t *testing.T) {
	uc, _, _ := newTestUseCase(t, nil)

	_, err := uc.TrackActivity(context.Background(), "ghost")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

// --- fakes ---

type fakeUserRepo struct {
	users       map[string]*domain.User
	updateCalls int
	rejectWrite bool
	afterUpdate func()
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) UpdateStreak(_ context.Context, userID string, streak domain.Streak) (bool, error) {
	f.updateCalls++
	if f.afterUpdate != nil {
		f.afterUpdate()
	}
	if f.rejectWrite {
		return false, nil
	}
	if user, ok := f.users[userID]; ok {
		user.Streak = streak
	}
	return true, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) SavePath(context.Context, string, string) error   { return nil }
func (f *fakeUserRepo) UnsavePath(context.Context, string, string) error { return nil }

func (f *fakeUserRepo) ListSavedPaths(context.Context, string) ([]domain.Path, error) {
	return nil, nil
}

type fakeNotifier struct {
	sent []*domain.Notification
}

func (f *fakeNotifier) Notify(_ context.Context, n *domain.Notification) error {
	f.sent = append(f.sent, n)
	return nil
}
