package user

import (
	"context"
	"fmt"
	"time"

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

func (r *PostgresRepo) Create(ctx context.Context, u *User) error {
	const query = `
	INSERT INTO users (email, username, password_hash, role)
	VALUES ($1, $2, $3, COALESCE(NULLIF($4, ''), 'USER'))
	RETURNING id, role, created_at, updated_at
	`
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(ctx, query, u.Email, u.Username, u.Password, u.Role).
		Scan(&u.ID, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if pgutil.IsUniqueViolation(err, "users_email_key") {
		return apperror.Conflict("emailExistsAlready", u.Email)
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

const userColumns = `id, email, username, password_hash, role, created_at, updated_at`

func (r *PostgresRepo) getOne(ctx context.Context, where string, arg any) (User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var u User
	err := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where+` LIMIT 1`, arg).Scan(
		&u.ID, &u.Email, &u.Username, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	u, err := r.getOne(ctx, "email = $1", email)
	if pgutil.IsNoRows(err) {
		return User{}, apperror.NotFound("userNotFound", email)
	}
	if err != nil {
		return User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (User, error) {
	u, err := r.getOne(ctx, "id = $1", id)
	if pgutil.IsNoRows(err) {
		return User{}, apperror.NotFound("userNotFound", id)
	}
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *PostgresRepo) OwnsBook(ctx context.Context, userID, bookID string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var owned bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM books WHERE id = $1 AND owner_id = $2)`,
		bookID, userID,
	).Scan(&owned)
	if err != nil {
		return false, fmt.Errorf("check book owner: %w", err)
	}
	return owned, nil
}
