package path

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pathcraft/backend/domain"
	"github.com/pathcraft/backend/repository"
	"github.com/pathcraft/backend/usecase"
)

type UseCase struct {
	paths    repository.PathRepository
	users    repository.UserRepository
	notifier usecase.Notifier
	logger   *zap.Logger
}

func New(paths repository.PathRepository, users repository.UserRepository, notifier usecase.Notifier, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		paths:    paths,
		users:    users,
		notifier: notifier,
		logger:   logger,
	}
}

// CreatePath stores a new path, assigning an ID to every step.
func (uc *UseCase) CreatePath(ctx context.Context, path *domain.Path) (*domain.Path, error) {
	if path == nil || len(path.Steps) == 0 {
		return nil, domain.ErrInvalidPayload
	}
	assignStepIDs(path.Steps)
	return uc.paths.Create(ctx, path)
}

// GetPath returns a path; private paths resolve only for their author.
func (uc *UseCase) GetPath(ctx context.Context, requesterID, id string) (*domain.Path, error) {
	path, err := uc.paths.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !path.IsPublic && path.AuthorID != requesterID {
		return nil, domain.ErrPrivatePath
	}
	return path, nil
}

// ListPaths returns paths matching the filter.
func (uc *UseCase) ListPaths(ctx context.Context, filter repository.PathFilter) ([]domain.Path, error) {
	return uc.paths.List(ctx, filter)
}

// ListCategories aggregates the public catalog by category.
func (uc *UseCase) ListCategories(ctx context.Context) ([]domain.CategoryCount, error) {
	return uc.paths.ListCategories(ctx)
}

// UpdatePath lets the author modify their path. Steps without an ID (newly
// added) get one assigned; existing IDs are preserved so progress records
// stay valid.
func (uc *UseCase) UpdatePath(ctx context.Context, requesterID string, path *domain.Path) (*domain.Path, error) {
	existing, err := uc.paths.GetByID(ctx, path.ID)
	if err != nil {
		return nil, err
	}
	if existing.AuthorID != requesterID {
		return nil, domain.ErrNotPathOwner
	}

	path.AuthorID = existing.AuthorID
	path.CloneCount = existing.CloneCount
	assignStepIDs(path.Steps)

	if err := uc.paths.Update(ctx, path); err != nil {
		return nil, err
	}
	return path, nil
}

// DeletePath removes the author's path.
func (uc *UseCase) DeletePath(ctx context.Context, requesterID, id string) error {
	existing, err := uc.paths.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.AuthorID != requesterID {
		return domain.ErrNotPathOwner
	}
	return uc.paths.Delete(ctx, id)
}

// ClonePath copies a public path into the requester's account. Clones start
// private with fresh step IDs, and the original author gets notified.
func (uc *UseCase) ClonePath(ctx context.Context, requesterID, id string) (*domain.Path, error) {
	original, err := uc.paths.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !original.IsPublic {
		return nil, domain.ErrPrivatePath
	}

	clone := &domain.Path{
		Title:       original.Title + " (Copy)",
		Description: original.Description,
		Category:    original.Category,
		Difficulty:  original.Difficulty,
		Steps:       cloneSteps(original.Steps),
		AuthorID:    requesterID,
		IsPublic:    false,
		Tags:        original.Tags,
	}

	created, err := uc.paths.Create(ctx, clone)
	if err != nil {
		return nil, err
	}

	if err := uc.paths.IncrementCloneCount(ctx, original.ID); err != nil {
		uc.logger.Warn("failed to bump clone count", zap.String("path_id", original.ID), zap.Error(err))
	}

	if uc.notifier != nil && original.AuthorID != requesterID {
		requesterName := "Someone"
		if requester, err := uc.users.GetByID(ctx, requesterID); err == nil {
			requesterName = requester.Name
		}
		notification := &domain.Notification{
			RecipientID: original.AuthorID,
			SenderID:    requesterID,
			Type:        domain.NotificationSocial,
			Title:       "Path Cloned!",
			Description: fmt.Sprintf("%s just cloned your path %q", requesterName, original.Title),
			Link:        fmt.Sprintf("/path/%s", original.ID),
		}
		if err := uc.notifier.Notify(ctx, notification); err != nil {
			uc.logger.Warn("failed to enqueue clone notification", zap.String("path_id", original.ID), zap.Error(err))
		}
	}

	return created, nil
}

func assignStepIDs(steps []domain.Step) {
	for i := range steps {
		if steps[i].ID == "" {
			steps[i].ID = uuid.NewString()
		}
	}
}

func cloneSteps(steps []domain.Step) []domain.Step {
	out := make([]domain.Step, len(steps))
	for i, step := range steps {
		out[i] = domain.Step{
			ID:                uuid.NewString(),
			Title:             step.Title,
			Description:       step.Description,
			Resources:         append([]string(nil), step.Resources...),
			EstimatedDuration: step.EstimatedDuration,
			Order:             step.Order,
		}
	}
	return out
}
