package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pathcraft/backend/domain"
	"github.com/pathcraft/backend/repository"
)

func newTestUseCase(t *testing.T) (*UseCase, *fakeUserRepo, *fakePathRepo) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)

	users := &fakeUserRepo{
		users: map[string]*domain.User{
			"user-1": {ID: "user-1", Email: "ada@example.com", Name: "Ada", PasswordHash: string(hash)},
		},
	}
	paths := &fakePathRepo{
		paths: map[string]*domain.Path{
			"path-pub":  {ID: "path-pub", Title: "Learn Go", AuthorID: "author-1", IsPublic: true},
			"path-priv": {ID: "path-priv", Title: "Drafts", AuthorID: "author-1", IsPublic: false},
			"path-own":  {ID: "path-own", Title: "My Notes", AuthorID: "user-1", IsPublic: false},
		},
	}
	users.paths = paths
	return New(users, paths, nil), users, paths
}

func TestUpdateProfileChangesNameKeepsAvatar(t *testing.T) {
	uc, users, _ := newTestUseCase(t)
	users.users["user-1"].Avatar = "/avatars/ada.png"

	updated, err := uc.UpdateProfile(context.Background(), "user-1", "Ada Lovelace", nil)
	require.NoError(t, err)
	require.Equal(t, "Ada Lovelace", updated.Name)
	require.Equal(t, "/avatars/ada.png", updated.Avatar)
}

func TestUpdateProfileSetsAvatarWhenProvided(t *testing.T) {
	uc, _, _ := newTestUseCase(t)

	avatar := "/avatars/new.png"
	updated, err := uc.UpdateProfile(context.Background(), "user-1", "Ada", &avatar)
	require.NoError(t, err)
	require.Equal(t, "/avatars/new.png", updated.Avatar)
}

func TestUpdateProfileUnknownUser(t *testing.T) {
	uc, _, _ := newTestUseCase(t)

	_, err := uc.UpdateProfile(context.Background(), "ghost", "Ada", nil)
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestChangePasswordRotatesHash(t *testing.T) {
	uc, users, _ := newTestUseCase(t)
	ctx := context.Background()

	require.NoError(t, uc.ChangePassword(ctx, "user-1", "hunter22", "s3cretword"))

	stored := users.users["user-1"]
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cretword")))
	require.Error(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("hunter22")))
}

func TestChangePasswordRejectsWrongCurrent(t *testing.T) {
	uc, users, _ := newTestUseCase(t)

	before := users.users["user-1"].PasswordHash
	err := uc.ChangePassword(context.Background(), "user-1", "wrong", "s3cretword")
	require.ErrorIs(t, err, domain.ErrWrongPassword)
	require.Equal(t, before, users.users["user-1"].PasswordHash)
}

func TestDeleteAccount(t *testing.T) {
	uc, users, _ := newTestUseCase(t)

	require.NoError(t, uc.DeleteAccount(context.Background(), "user-1"))
	require.NotContains(t, users.users, "user-1")

	require.ErrorIs(t, uc.DeleteAccount(context.Background(), "user-1"), domain.ErrUserNotFound)
}

func TestSavePathIsIdempotent(t *testing.T) {
	uc, users, _ := newTestUseCase(t)
	ctx := context.Background()

	require.NoError(t, uc.SavePath(ctx, "user-1", "path-pub"))
	require.NoError(t, uc.SavePath(ctx, "user-1", "path-pub"))

	require.Equal(t, []string{"path-pub"}, users.saved["user-1"])
}

func TestSavePathAllowsOwnPrivatePath(t *testing.T) {
	uc, users, _ := newTestUseCase(t)

	require.NoError(t, uc.SavePath(context.Background(), "user-1", "path-own"))
	require.Equal(t, []string{"path-own"}, users.saved["user-1"])
}

func TestSavePathRejectsForeignPrivatePath(t *testing.T) {
	uc, users, _ := newTestUseCase(t)

	err := uc.SavePath(context.Background(), "user-1", "path-priv")
	require.ErrorIs(t, err, domain.ErrPrivatePath)
	require.Empty(t, users.saved["user-1"])
}

func TestSavePathUnknownPath(t *testing.T) {
	uc, _, _ := newTestUseCase(t)

	err := uc.SavePath(context.Background(), "user-1", "ghost")
	require.ErrorIs(t, err, domain.ErrPathNotFound)
}

func TestUnsavePathIsIdempotent(t *testing.T) {
	uc, users, _ := newTestUseCase(t)
	ctx := context.Background()

	require.NoError(t, uc.SavePath(ctx, "user-1", "path-pub"))
	require.NoError(t, uc.UnsavePath(ctx, "user-1", "path-pub"))
	require.NoError(t, uc.UnsavePath(ctx, "user-1", "path-pub"))

	require.Empty(t, users.saved["user-1"])
}

func TestListSavedPaths(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	ctx := context.Background()

	require.NoError(t, uc.SavePath(ctx, "user-1", "path-pub"))
	require.NoError(t, uc.SavePath(ctx, "user-1", "path-own"))

	saved, err := uc.ListSavedPaths(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, saved, 2)
	require.Equal(t, "path-pub", saved[0].ID)
	require.Equal(t, "path-own", saved[1].ID)
}

// --- fakes ---

type fakeUserRepo struct {
	users map[string]*domain.User
	saved map[string][]string
	paths *fakePathRepo
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) UpdateStreak(context.Context, string, domain.Streak) (bool, error) {
	return true, nil
}

func (f *fakeUserRepo) SavePath(_ context.Context, userID, pathID string) error {
	if f.saved == nil {
		f.saved = map[string][]string{}
	}
	for _, saved := range f.saved[userID] {
		if saved == pathID {
			return nil
		}
	}
	f.saved[userID] = append(f.saved[userID], pathID)
	return nil
}

func (f *fakeUserRepo) UnsavePath(_ context.Context, userID, pathID string) error {
	kept := f.saved[userID][:0]
	for _, saved := range f.saved[userID] {
		if saved != pathID {
			kept = append(kept, saved)
		}
	}
	f.saved[userID] = kept
	return nil
}

func (f *fakeUserRepo) ListSavedPaths(_ context.Context, userID string) ([]domain.Path, error) {
	var out []domain.Path
	for _, id := range f.saved[userID] {
		if path, ok := f.paths.paths[id]; ok {
			out = append(out, *path)
		}
	}
	return out, nil
}

type fakePathRepo struct {
	paths map[string]*domain.Path
}

func (f *fakePathRepo) GetByID(_ context.Context, id string) (*domain.Path, error) {
	path, ok := f.paths[id]
	if !ok {
		return nil, domain.ErrPathNotFound
	}
	return path, nil
}

func (f *fakePathRepo) List(context.Context, repository.PathFilter) ([]domain.Path, error) {
	return nil, nil
}

func (f *fakePathRepo) Create(_ context.Context, path *domain.Path) (*domain.Path, error) {
	f.paths[path.ID] = path
	return path, nil
}

func (f *fakePathRepo) Update(_ context.Context, path *domain.Path) error {
	f.paths[path.ID] = path
	return nil
}

func (f *fakePathRepo) Delete(_ context.Context, id string) error {
	delete(f.paths, id)
	return nil
}

func (f *fakePathRepo) IncrementCloneCount(context.Context, string) error { return nil }

func (f *fakePathRepo) ListCategories(context.Context) ([]domain.CategoryCount, error) {
	return nil, nil
}
