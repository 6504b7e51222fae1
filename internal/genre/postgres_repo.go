package genre

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookswap/internal/apperror"
	"bookswap/internal/platform/pgutil"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

const genreColumns = `id, name, slug, parent_id, created_at`

func scanGenre(row pgx.Row) (Genre, error) {
	var g Genre
	err := row.Scan(&g.ID, &g.Name, &g.Slug, &g.ParentID, &g.CreatedAt)
	return g, err
}

func (r *PostgresRepo) Create(ctx context.Context, g *Genre) error {
	const query = `
		INSERT INTO genres (name, slug, parent_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(ctx, query, g.Name, g.Slug, g.ParentID).Scan(&g.ID, &g.CreatedAt)
	if pgutil.IsUniqueViolation(err, "genres_slug_key") {
		return apperror.Conflict("genreExistsAlready", g.Name)
	}
	if err != nil {
		return fmt.Errorf("insert genre: %w", err)
	}
	return nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Genre, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	g, err := scanGenre(r.db.QueryRow(ctx, `SELECT `+genreColumns+` FROM genres WHERE id = $1`, id))
	if pgutil.IsNoRows(err) {
		return Genre{}, apperror.NotFound("genreNotFound", id)
	}
	if err != nil {
		return Genre{}, fmt.Errorf("get genre: %w", err)
	}
	return g, nil
}

func (r *PostgresRepo) GetByIDs(ctx context.Context, ids []string) ([]Genre, error) {
	return r.query(ctx, `SELECT `+genreColumns+` FROM genres WHERE id = ANY($1) ORDER BY name`, ids)
}

func (r *PostgresRepo) List(ctx context.Context) ([]Genre, error) {
	return r.query(ctx, `SELECT `+genreColumns+` FROM genres ORDER BY name`)
}

func (r *PostgresRepo) query(ctx context.Context, sql string, args ...any) ([]Genre, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query genres: %w", err)
	}
	defer rows.Close()

	var out []Genre
	for rows.Next() {
		g, err := scanGenre(rows)
		if err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) UpdateParent(ctx context.Context, id string, parentID *string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(ctx, `UPDATE genres SET parent_id = $2 WHERE id = $1`, id, parentID)
	if err != nil {
		return fmt.Errorf("update genre parent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("genreNotFound", id)
	}
	return nil
}
