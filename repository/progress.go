package repository

import (
	"context"

	"github.com/pathcraft/backend/domain"
)

type ProgressFilter struct {
	Status string
	Limit  int
	Offset int
}

type ProgressRepository interface {
	// Find returns the record for the (user, path) pair or
	// domain.ErrProgressNotFound.
	Find(ctx context.Context, userID, pathID string) (*domain.Progress, error)
	// Create inserts a fresh record and fails with domain.ErrProgressExists
	// when one already exists for the pair.
	Create(ctx context.Context, userID, pathID string) (*domain.Progress, error)
	// FindOrCreate is the racing-safe variant used on first step completion:
	// an atomic upsert that returns whichever record wins.
	FindOrCreate(ctx context.Context, userID, pathID string) (*domain.Progress, error)
	// Save writes the whole record in one statement, guarded by the version
	// it was loaded with; a concurrent writer surfaces as
	// domain.ErrStaleProgress and nothing is persisted.
	Save(ctx context.Context, record *domain.Progress) error
	ListByUser(ctx context.Context, userID string, filter ProgressFilter) ([]domain.Progress, error)
}
