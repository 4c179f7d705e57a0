package activity

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pathcraft/backend/domain"
	"github.com/pathcraft/backend/repository"
	"github.com/pathcraft/backend/usecase"
)

// Streak day counts that earn the user a notification.
var milestones = []int{7, 30, 100}

type UseCase struct {
	users    repository.UserRepository
	notifier usecase.Notifier
	logger   *zap.Logger
	now      func() time.Time
}

func New(users repository.UserRepository, notifier usecase.Notifier, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:    users,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// TrackActivity records that the user was active right now and returns the
// resulting streak counters. Safe to call any number of times per day: only
// the first call on a new calendar day changes anything.
func (uc *UseCase) TrackActivity(ctx context.Context, userID string) (domain.Streak, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return domain.Streak{}, err
	}

	next := domain.NextStreak(user.Streak, uc.now())
	if next.SameDay(user.Streak) {
		// Already counted today; skip the write entirely.
		return user.Streak, nil
	}

	applied, err := uc.users.UpdateStreak(ctx, userID, next)
	if err != nil {
		return domain.Streak{}, err
	}
	if !applied {
		// A concurrent request recorded today first; report its result.
		user, err = uc.users.GetByID(ctx, userID)
		if err != nil {
			return domain.Streak{}, err
		}
		return user.Streak, nil
	}

	uc.notifyMilestone(ctx, userID, user.Streak.CurrentStreak, next.CurrentStreak)
	return next, nil
}

func (uc *UseCase) notifyMilestone(ctx context.Context, userID string, prev, current int) {
	if uc.notifier == nil || current <= prev {
		return
	}
	for _, m := range milestones {
		if current == m {
			notification := &domain.Notification{
				RecipientID: userID,
				Type:        domain.NotificationStreak,
				Title:       fmt.Sprintf("%d-Day Streak!", m),
				Description: fmt.Sprintf("You've been learning for %d days in a row. Keep it up!", m),
			}
			if err := uc.notifier.Notify(ctx, notification); err != nil {
				uc.logger.Warn("failed to enqueue streak notification",
					zap.String("user_id", userID),
					zap.Int("streak", current),
					zap.Error(err))
			}
			return
		}
	}
}
