package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pathcraft/backend/domain"
	"github.com/pathcraft/backend/repository"
)

type pathRepository struct {
	pool *pgxpool.Pool
}

// NewPathRepository returns a Postgres-backed implementation of PathRepository.
func NewPathRepository(pool *pgxpool.Pool) repository.PathRepository {
	return &pathRepository{pool: pool}
}

const pathColumns = `
	id, title, description, category, difficulty, steps,
	author_id, is_public, clone_count, tags, created_at, updated_at
`

func (r *pathRepository) GetByID(ctx context.Context, id string) (*domain.Path, error) {
	if invalidUUID(id) {
		return nil, domain.ErrPathNotFound
	}
	query := `SELECT ` + pathColumns + ` FROM paths WHERE id = $1`
	return scanPath(r.pool.QueryRow(ctx, query, id))
}

func (r *pathRepository) List(ctx context.Context, filter repository.PathFilter) ([]domain.Path, error) {
	// author_id is a UUID column while $1 doubles as the "no filter" empty
	// string, so the comparison has to happen in text space.
	query := `
	SELECT ` + pathColumns + `
	FROM paths
	WHERE ($1 = '' OR author_id::text = $1)
	  AND ($2 = '' OR category = $2)
	  AND (NOT $3 OR is_public)
	ORDER BY created_at DESC
	LIMIT $4 OFFSET $5
	`
	rows, err := r.pool.Query(ctx, query,
		filter.AuthorID,
		filter.Category,
		filter.PublicOnly,
		clampLimit(filter.Limit),
		filter.Offset,
	)
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

func (r *pathRepository) Create(ctx context.Context, path *domain.Path) (*domain.Path, error) {
	if path == nil {
		return nil, domain.ErrInvalidPayload
	}
	if path.ID == "" {
		path.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO paths (id, title, description, category, difficulty, steps, author_id, is_public, clone_count, tags)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		path.ID,
		path.Title,
		path.Description,
		path.Category,
		path.Difficulty,
		marshalJSON(path.Steps),
		path.AuthorID,
		path.IsPublic,
		path.CloneCount,
		marshalJSON(path.Tags),
	).Scan(&path.CreatedAt, &path.UpdatedAt); err != nil {
		return nil, err
	}
	return path, nil
}

func (r *pathRepository) Update(ctx context.Context, path *domain.Path) error {
	if path == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE paths
	SET title = $2,
		description = $3,
		category = $4,
		difficulty = $5,
		steps = $6,
		is_public = $7,
		tags = $8,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		path.ID,
		path.Title,
		path.Description,
		path.Category,
		path.Difficulty,
		marshalJSON(path.Steps),
		path.IsPublic,
		marshalJSON(path.Tags),
	).Scan(&path.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrPathNotFound
		}
		return err
	}
	return nil
}

func (r *pathRepository) Delete(ctx context.Context, id string) error {
	if invalidUUID(id) {
		return domain.ErrPathNotFound
	}
	const query = `DELETE FROM paths WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPathNotFound
	}
	return nil
}

func (r *pathRepository) IncrementCloneCount(ctx context.Context, id string) error {
	if invalidUUID(id) {
		return domain.ErrPathNotFound
	}
	const query = `UPDATE paths SET clone_count = clone_count + 1 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPathNotFound
	}
	return nil
}

func (r *pathRepository) ListCategories(ctx context.Context) ([]domain.CategoryCount, error) {
	const query = `
	SELECT category, COUNT(*) AS count
	FROM paths
	WHERE is_public
	GROUP BY category
	ORDER BY count DESC, category
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.CategoryCount
	for rows.Next() {
		var c domain.CategoryCount
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func scanPath(row pgx.Row) (*domain.Path, error) {
	var path domain.Path
	var steps, tags []byte

	if err := row.Scan(
		&path.ID,
		&path.Title,
		&path.Description,
		&path.Category,
		&path.Difficulty,
		&steps,
		&path.AuthorID,
		&path.IsPublic,
		&path.CloneCount,
		&tags,
		&path.CreatedAt,
		&path.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPathNotFound
		}
		return nil, err
	}

	if len(steps) > 0 {
		_ = json.Unmarshal(steps, &path.Steps)
	}
	path.Tags = unmarshalStrings(tags)

	return &path, nil
}
