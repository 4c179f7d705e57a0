package user

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/pathcraft/backend/domain"
	"github.com/pathcraft/backend/repository"
)

// UseCase covers account maintenance and path bookmarks.
type UseCase struct {
	users  repository.UserRepository
	paths  repository.PathRepository
	logger *zap.Logger
}

func New(users repository.UserRepository, paths repository.PathRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		paths:  paths,
		logger: logger,
	}
}

// UpdateProfile changes the user's display name and, when provided, avatar.
func (uc *UseCase) UpdateProfile(ctx context.Context, userID, name string, avatar *string) (*domain.User, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Name = name
	if avatar != nil {
		user.Avatar = *avatar
	}

	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword rotates the password after verifying the current one.
func (uc *UseCase) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return domain.ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	return uc.users.Update(ctx, user)
}

// DeleteAccount removes the user; owned paths, progress, bookmarks and
// notifications go with it via the schema's cascades.
func (uc *UseCase) DeleteAccount(ctx context.Context, userID string) error {
	return uc.users.Delete(ctx, userID)
}

// SavePath bookmarks a path the user can see. Saving twice is a no-op.
func (uc *UseCase) SavePath(ctx context.Context, userID, pathID string) error {
	path, err := uc.paths.GetByID(ctx, pathID)
	if err != nil {
		return err
	}
	if !path.IsPublic && path.AuthorID != userID {
		return domain.ErrPrivatePath
	}
	return uc.users.SavePath(ctx, userID, path.ID)
}

// UnsavePath drops a bookmark; removing one that is not there is a no-op.
func (uc *UseCase) UnsavePath(ctx context.Context, userID, pathID string) error {
	return uc.users.UnsavePath(ctx, userID, pathID)
}

// ListSavedPaths returns the user's bookmarks, most recently saved first.
func (uc *UseCase) ListSavedPaths(ctx context.Context, userID string) ([]domain.Path, error) {
	return uc.users.ListSavedPaths(ctx, userID)
}
