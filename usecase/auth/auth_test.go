package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"

	"github.com/pathcraft/backend/domain"
)

const testSecret = "test-secret"

func newTestUseCase(t *testing.T) (*UseCase, *fakeUserRepo, *fakeSessionRepo) {
	t.Helper()

	users := &fakeUserRepo{users: map[string]*domain.User{}}
	sessions := &fakeSessionRepo{sessions: map[string]*domain.Session{}}

	uc := New(users, sessions, Config{
		Secret:   testSecret,
		Issuer:   "pathcraft",
		TokenTTL: time.Hour,
	}, nil)
	return uc, users, sessions
}

func TestRegisterHashesPasswordAndIssuesToken(t *testing.T) {
	uc, users, sessions := newTestUseCase(t)

	user, token, err := uc.Register(context.Background(), "ada@example.com", "hunter22", "Ada")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.NotEqual(t, "hunter22", user.PasswordHash)
	require.NotEmpty(t, token)

	stored := users.users[user.ID]
	require.NotNil(t, stored)

	claims := parseClaims(t, token)
	require.Equal(t, user.ID, claims["user_id"])
	require.Equal(t, "pathcraft", claims["iss"])

	// A revocable session backs the token.
	jti, _ := claims["jti"].(string)
	require.NotEmpty(t, jti)
	require.Contains(t, sessions.sessions, jti)
}

func TestLoginSuccess(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	ctx := context.Background()

	registered, _, err := uc.Register(ctx, "ada@example.com", "hunter22", "Ada")
	require.NoError(t, err)

	user, token, err := uc.Login(ctx, "ada@example.com", "hunter22")
	require.NoError(t, err)
	require.Equal(t, registered.ID, user.ID)
	require.NotEmpty(t, token)
}

func TestLoginWrongPassword(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	ctx := context.Background()

	_, _, err := uc.Register(ctx, "ada@example.com", "hunter22", "Ada")
	require.NoError(t, err)

	_, _, err = uc.Login(ctx, "ada@example.com", "wrong")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginUnknownEmailHidesExistence(t *testing.T) {
	uc, _, _ := newTestUseCase(t)

	_, _, err := uc.Login(context.Background(), "nobody@example.com", "whatever")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogoutDeletesSession(t *testing.T) {
	uc, _, sessions := newTestUseCase(t)
	ctx := context.Background()

	_, token, err := uc.Register(ctx, "ada@example.com", "hunter22", "Ada")
	require.NoError(t, err)

	jti, _ := parseClaims(t, token)["jti"].(string)
	require.NoError(t, uc.Logout(ctx, jti))
	require.NotContains(t, sessions.sessions, jti)
}

func TestValidateSessionResolvesLiveSession(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	ctx := context.Background()

	user, token, err := uc.Register(ctx, "ada@example.com", "hunter22", "Ada")
	require.NoError(t, err)

	jti, _ := parseClaims(t, token)["jti"].(string)
	session, err := uc.ValidateSession(ctx, jti)
	require.NoError(t, err)
	require.Equal(t, user.ID, session.UserID)
}

func TestValidateSessionRejectsRevokedSession(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	ctx := context.Background()

	_, token, err := uc.Register(ctx, "ada@example.com", "hunter22", "Ada")
	require.NoError(t, err)

	jti, _ := parseClaims(t, token)["jti"].(string)
	require.NoError(t, uc.Logout(ctx, jti))

	_, err = uc.ValidateSession(ctx, jti)
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestValidateSessionPrunesExpiredSession(t *testing.T) {
	uc, _, sessions := newTestUseCase(t)
	ctx := context.Background()

	sessions.sessions["stale"] = &domain.Session{
		ID:        "stale",
		UserID:    "user-1",
		CreatedAt: time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}

	_, err := uc.ValidateSession(ctx, "stale")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
	require.NotContains(t, sessions.sessions, "stale")
}

func parseClaims(t *testing.T, token string) jwt.MapClaims {
	t.Helper()
	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	return claims
}

// --- fakes ---

type fakeUserRepo struct {
	users map[string]*domain.User
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
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	if user.ID == "" {
		user.ID = "user-" + user.Email
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) UpdateStreak(context.Context, string, domain.Streak) (bool, error) {
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

type fakeSessionRepo struct {
	sessions map[string]*domain.Session
}

func (f *fakeSessionRepo) Get(_ context.Context, id string) (*domain.Session, error) {
	session, ok := f.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (f *fakeSessionRepo) Save(_ context.Context, session *domain.Session) error {
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeSessionRepo) Delete(_ context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}
