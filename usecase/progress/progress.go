package progress

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pathcraft/backend/domain"
	"github.com/pathcraft/backend/repository"
	"github.com/pathcraft/backend/usecase"
)

// View is the derived state returned alongside a progress record.
type View struct {
	Record               *domain.Progress `json:"progress"`
	CompletionPercentage int              `json:"completion_percentage"`
	TotalSteps           int              `json:"total_steps"`
	CompletedCount       int              `json:"completed_count"`
}

// ListItem pairs a progress record with its path for overview responses.
type ListItem struct {
	View
	Path *domain.Path `json:"path,omitempty"`
}

type UseCase struct {
	records  repository.ProgressRepository
	paths    repository.PathRepository
	notifier usecase.Notifier
	logger   *zap.Logger
	now      func() time.Time
}

func New(records repository.ProgressRepository, paths repository.PathRepository, notifier usecase.Notifier, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		records:  records,
		paths:    paths,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// StartTracking creates a progress record for the pair, or returns the
// existing one. The second result reports whether a record was created.
func (uc *UseCase) StartTracking(ctx context.Context, userID, pathID string) (*View, bool, error) {
	path, err := uc.paths.GetByID(ctx, pathID)
	if err != nil {
		return nil, false, err
	}

	record, err := uc.records.Find(ctx, userID, pathID)
	if err == nil {
		return uc.view(record, path), false, nil
	}
	if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		return nil, false, err
	}

	record, err = uc.records.Create(ctx, userID, pathID)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeConflict) {
			// Lost a racing start; the other request's record serves.
			record, err = uc.records.Find(ctx, userID, pathID)
			if err != nil {
				return nil, false, err
			}
			return uc.view(record, path), false, nil
		}
		return nil, false, err
	}
	return uc.view(record, path), true, nil
}

// GetProgress returns the record with derived stats, or NotFound when the
// user never started tracking the path.
func (uc *UseCase) GetProgress(ctx context.Context, userID, pathID string) (*View, error) {
	path, err := uc.paths.GetByID(ctx, pathID)
	if err != nil {
		return nil, err
	}
	record, err := uc.records.Find(ctx, userID, pathID)
	if err != nil {
		return nil, err
	}
	return uc.view(record, path), nil
}

// ToggleStep marks a step complete or incomplete, recomputes the completion
// state, and persists the whole transition atomically. Repeating a call with
// the same arguments only refreshes the activity timestamp.
func (uc *UseCase) ToggleStep(ctx context.Context, userID, pathID, stepID string, completed bool) (*View, error) {
	path, err := uc.paths.GetByID(ctx, pathID)
	if err != nil {
		return nil, err
	}
	if !path.HasStep(stepID) {
		return nil, domain.ErrStepNotFound
	}

	record, err := uc.records.FindOrCreate(ctx, userID, pathID)
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	wasCompleted := record.Status == domain.ProgressCompleted

	record.MarkStep(stepID, completed)
	record.ApplyCompletion(record.CoversAll(path.StepIDs()), now)
	record.LastActivityAt = now

	if err := uc.records.Save(ctx, record); err != nil {
		return nil, err
	}

	if !wasCompleted && record.Status == domain.ProgressCompleted {
		uc.notifyCompletion(ctx, record, path)
	}

	return uc.view(record, path), nil
}

// UpdateStatus applies a direct status change (e.g. archiving), keeping
// CompletedAt consistent with the new status.
func (uc *UseCase) UpdateStatus(ctx context.Context, userID, pathID, status string) (*domain.Progress, error) {
	if !domain.ValidProgressStatus(status) {
		return nil, domain.ErrInvalidStatus
	}

	record, err := uc.records.Find(ctx, userID, pathID)
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	record.Status = status
	if status == domain.ProgressCompleted {
		if record.CompletedAt == nil {
			record.CompletedAt = &now
		}
	} else {
		record.CompletedAt = nil
	}
	record.LastActivityAt = now

	if err := uc.records.Save(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// ListUserProgress returns every record for the user with per-path stats,
// most recently active first.
func (uc *UseCase) ListUserProgress(ctx context.Context, userID string, filter repository.ProgressFilter) ([]ListItem, error) {
	records, err := uc.records.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]ListItem, 0, len(records))
	for i := range records {
		record := &records[i]
		path, err := uc.paths.GetByID(ctx, record.PathID)
		if err != nil {
			if domain.IsDomainError(err, domain.ErrCodeNotFound) {
				// Path deleted by its owner; keep the record with zeroed stats.
				items = append(items, ListItem{View: *uc.view(record, nil)})
				continue
			}
			return nil, err
		}
		items = append(items, ListItem{View: *uc.view(record, path), Path: path})
	}
	return items, nil
}

func (uc *UseCase) view(record *domain.Progress, path *domain.Path) *View {
	totalSteps := 0
	if path != nil {
		totalSteps = len(path.Steps)
	}
	completedCount := len(record.CompletedSteps)
	return &View{
		Record:               record,
		CompletionPercentage: domain.CompletionPercentage(completedCount, totalSteps),
		TotalSteps:           totalSteps,
		CompletedCount:       completedCount,
	}
}

func (uc *UseCase) notifyCompletion(ctx context.Context, record *domain.Progress, path *domain.Path) {
	if uc.notifier == nil {
		return
	}
	notification := &domain.Notification{
		RecipientID: record.UserID,
		Type:        domain.NotificationMilestone,
		Title:       "Path Completed!",
		Description: fmt.Sprintf("You finished every step of %q. Congratulations!", path.Title),
		Link:        fmt.Sprintf("/path/%s", path.ID),
	}
	if err := uc.notifier.Notify(ctx, notification); err != nil {
		uc.logger.Warn("failed to enqueue completion notification",
			zap.String("user_id", record.UserID),
			zap.String("path_id", path.ID),
			zap.Error(err))
	}
}
