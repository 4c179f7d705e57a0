package repository

import (
	"context"

	"github.com/pathcraft/backend/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	// UpdateStreak persists the streak counters only if they advance the
	// stored activity day, so two same-day callers cannot double-count.
	// It reports whether the write was applied.
	UpdateStreak(ctx context.Context, userID string, streak domain.Streak) (bool, error)
	// SavePath bookmarks a path for the user; saving twice is a no-op.
	SavePath(ctx context.Context, userID, pathID string) error
	UnsavePath(ctx context.Context, userID, pathID string) error
	ListSavedPaths(ctx context.Context, userID string) ([]domain.Path, error)
}
