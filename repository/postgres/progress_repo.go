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

type progressRepository struct {
	pool *pgxpool.Pool
}

// NewProgressRepository returns a Postgres-backed implementation of
// ProgressRepository. A unique index on (user_id, path_id) backs the
// one-record-per-pair invariant.
func NewProgressRepository(pool *pgxpool.Pool) repository.ProgressRepository {
	return &progressRepository{pool: pool}
}

const progressColumns = `
	id, user_id, path_id, completed_steps, status,
	started_at, last_activity_at, completed_at, version
`

func (r *progressRepository) Find(ctx context.Context, userID, pathID string) (*domain.Progress, error) {
	if invalidUUID(userID) || invalidUUID(pathID) {
		return nil, domain.ErrProgressNotFound
	}
	query := `SELECT ` + progressColumns + ` FROM progress WHERE user_id = $1 AND path_id = $2`
	return scanProgress(r.pool.QueryRow(ctx, query, userID, pathID))
}

func (r *progressRepository) Create(ctx context.Context, userID, pathID string) (*domain.Progress, error) {
	if invalidUUID(userID) || invalidUUID(pathID) {
		return nil, domain.ErrPathNotFound
	}
	const query = `
	INSERT INTO progress (id, user_id, path_id)
	VALUES ($1, $2, $3)
	RETURNING ` + progressColumns

	record, err := scanProgress(r.pool.QueryRow(ctx, query, uuid.NewString(), userID, pathID))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrProgressExists
		}
		return nil, err
	}
	return record, nil
}

// FindOrCreate resolves racing first completions with an atomic upsert: the
// insert silently loses to an existing row, and the follow-up select
// observes whichever record won.
func (r *progressRepository) FindOrCreate(ctx context.Context, userID, pathID string) (*domain.Progress, error) {
	if invalidUUID(userID) || invalidUUID(pathID) {
		return nil, domain.ErrPathNotFound
	}
	const query = `
	INSERT INTO progress (id, user_id, path_id)
	VALUES ($1, $2, $3)
	ON CONFLICT (user_id, path_id) DO NOTHING
	RETURNING ` + progressColumns

	record, err := scanProgress(r.pool.QueryRow(ctx, query, uuid.NewString(), userID, pathID))
	if err == nil {
		return record, nil
	}
	if errors.Is(err, domain.ErrProgressNotFound) {
		// Insert lost the race; the existing row is ours to load.
		return r.Find(ctx, userID, pathID)
	}
	return nil, err
}

// Save writes the mutable fields in a single statement so completed_steps
// and status can never be observed out of sync. The version predicate turns
// a lost race into domain.ErrStaleProgress instead of a silent overwrite.
func (r *progressRepository) Save(ctx context.Context, record *domain.Progress) error {
	if record == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE progress
	SET completed_steps = $2,
		status = $3,
		last_activity_at = $4,
		completed_at = $5,
		version = version + 1
	WHERE id = $1 AND version = $6
	RETURNING version
	`

	if err := r.pool.QueryRow(ctx, query,
		record.ID,
		marshalJSON(record.CompletedSteps),
		record.Status,
		record.LastActivityAt,
		nullTime(record.CompletedAt),
		record.Version,
	).Scan(&record.Version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrStaleProgress
		}
		return err
	}
	return nil
}

func (r *progressRepository) ListByUser(ctx context.Context, userID string, filter repository.ProgressFilter) ([]domain.Progress, error) {
	query := `
	SELECT ` + progressColumns + `
	FROM progress
	WHERE user_id = $1
	  AND ($2 = '' OR status = $2)
	ORDER BY last_activity_at DESC
	LIMIT $3 OFFSET $4
	`
	rows, err := r.pool.Query(ctx, query, userID, filter.Status, clampLimit(filter.Limit), filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.Progress
	for rows.Next() {
		record, err := scanProgress(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

func scanProgress(row pgx.Row) (*domain.Progress, error) {
	var record domain.Progress
	var steps []byte

	if err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.PathID,
		&steps,
		&record.Status,
		&record.StartedAt,
		&record.LastActivityAt,
		&record.CompletedAt,
		&record.Version,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProgressNotFound
		}
		return nil, err
	}

	record.CompletedSteps = unmarshalStrings(steps)
	if record.CompletedSteps == nil {
		record.CompletedSteps = []string{}
	}

	return &record, nil
}
