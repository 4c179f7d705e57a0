package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pathcraft/backend/domain"
	"github.com/pathcraft/backend/repository"
)

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository instantiates a Postgres-backed user repository.
func NewUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `
	id, email, name, password_hash, avatar,
	current_streak, longest_streak, total_active_days, last_activity_date,
	created_at, updated_at
`

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = lower($1)`
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO users (id, email, name, password_hash, avatar)
	VALUES ($1, lower($2), $3, $4, $5)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.Avatar,
	).Scan(&user.CreatedAt, &user.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE users
	SET name = $2,
		avatar = $3,
		password_hash = $4,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Name,
		user.Avatar,
		user.PasswordHash,
	).Scan(&user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrUserNotFound
		}
		return err
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	if invalidUUID(id) {
		return domain.ErrUserNotFound
	}
	const query = `DELETE FROM users WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) SavePath(ctx context.Context, userID, pathID string) error {
	if invalidUUID(userID) || invalidUUID(pathID) {
		return domain.ErrPathNotFound
	}
	const query = `
	INSERT INTO saved_paths (user_id, path_id)
	VALUES ($1, $2)
	ON CONFLICT (user_id, path_id) DO NOTHING
	`
	if _, err := r.pool.Exec(ctx, query, userID, pathID); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrPathNotFound
		}
		return err
	}
	return nil
}

func (r *userRepository) UnsavePath(ctx context.Context, userID, pathID string) error {
	if invalidUUID(userID) || invalidUUID(pathID) {
		return nil
	}
	const query = `DELETE FROM saved_paths WHERE user_id = $1 AND path_id = $2`
	_, err := r.pool.Exec(ctx, query, userID, pathID)
	return err
}

func (r *userRepository) ListSavedPaths(ctx context.Context, userID string) ([]domain.Path, error) {
	const query = `
	SELECT p.id, p.title, p.description, p.category, p.difficulty, p.steps,
		p.author_id, p.is_public, p.clone_count, p.tags, p.created_at, p.updated_at
	FROM saved_paths s
	JOIN paths p ON p.id = s.path_id
	WHERE s.user_id = $1
	ORDER BY s.created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []domain.Path
	for rows.Next() {
		path, err := scanPath(rows)
		if err != nil {
			return nil, err
		}
		paths = append(paths, *path)
	}
	return paths, rows.Err()
}

// UpdateStreak applies the counters with a guard on the stored activity day:
// the write only lands when it advances last_activity_date, so two requests
// racing on the same calendar day cannot both increment.
func (r *userRepository) UpdateStreak(ctx context.Context, userID string, streak domain.Streak) (bool, error) {
	const query = `
	UPDATE users
	SET current_streak = $2,
		longest_streak = $3,
		total_active_days = $4,
		last_activity_date = $5,
		updated_at = NOW()
	WHERE id = $1
	  AND (last_activity_date IS NULL OR last_activity_date < $5)
	`

	tag, err := r.pool.Exec(ctx, query,
		userID,
		streak.CurrentStreak,
		streak.LongestStreak,
		streak.TotalActiveDays,
		nullTime(streak.LastActivityDate),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.Avatar,
		&user.Streak.CurrentStreak,
		&user.Streak.LongestStreak,
		&user.Streak.TotalActiveDays,
		&user.Streak.LastActivityDate,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
