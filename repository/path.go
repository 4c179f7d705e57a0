package repository

import (
	"context"

	"github.com/pathcraft/backend/domain"
)

type PathFilter struct {
	AuthorID   string
	Category   string
	PublicOnly bool
	Limit      int
	Offset     int
}

type PathRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Path, error)
	List(ctx context.Context, filter PathFilter) ([]domain.Path, error)
	Create(ctx context.Context, path *domain.Path) (*domain.Path, error)
	Update(ctx context.Context, path *domain.Path) error
	Delete(ctx context.Context, id string) error
	IncrementCloneCount(ctx context.Context, id string) error
	// ListCategories aggregates public paths by category, most populous first.
	ListCategories(ctx context.Context) ([]domain.CategoryCount, error)
}
