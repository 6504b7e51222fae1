package book

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	jsoniter "github.com/json-iterator/go"

	"bookswap/internal/apperror"
	"bookswap/internal/genre"
	"bookswap/internal/platform/pgutil"
	"bookswap/internal/swap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var dialect = goqu.Dialect("postgres")

var bookColumns = []any{
	goqu.I("b.id"), goqu.I("b.owner_id"), goqu.I("b.title"), goqu.I("b.author"),
	goqu.I("b.description"), goqu.I("b.language"), goqu.I("b.condition"),
	goqu.I("b.cover_photos"), goqu.I("b.swap_condition"),
	goqu.I("b.created_at"), goqu.I("b.updated_at"),
}

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

func scanBook(row pgx.Row) (Book, error) {
	var (
		b         Book
		condition string
		rawSwap   []byte
	)
	err := row.Scan(&b.ID, &b.OwnerID, &b.Title, &b.Author, &b.Description, &b.Language,
		&condition, &b.CoverPhotos, &rawSwap, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return Book{}, err
	}
	if b.Condition, err = ParseCondition(condition); err != nil {
		return Book{}, fmt.Errorf("book %s: %w", b.ID, err)
	}
	if err := json.Unmarshal(rawSwap, &b.SwapCondition); err != nil {
		return Book{}, fmt.Errorf("book %s swap condition: %w", b.ID, err)
	}
	if b.CoverPhotos == nil {
		b.CoverPhotos = []string{}
	}
	return b, nil
}

// Create inserts the book, its swap condition and its genre links in one transaction.
func (r *PostgresRepo) Create(ctx context.Context, b *Book) error {
	rawSwap, err := json.Marshal(b.SwapCondition)
	if err != nil {
		return fmt.Errorf("encode swap condition: %w", err)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const bookSQL = `
		INSERT INTO books (owner_id, title, author, description, language, condition,
		                   cover_photos, swap_type, swap_condition)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	err = tx.QueryRow(ctx, bookSQL,
		b.OwnerID, b.Title, b.Author, b.Description, b.Language, b.Condition.String(),
		b.CoverPhotos, b.SwapCondition.Type().String(), string(rawSwap),
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}

	if len(b.Genres) > 0 {
		rows := make([][]any, len(b.Genres))
		for i, g := range b.Genres {
			rows[i] = []any{b.ID, g.ID, i}
		}
		_, err = tx.CopyFrom(ctx, pgx.Identifier{"book_genres"},
			[]string{"book_id", "genre_id", "position"}, pgx.CopyFromRows(rows))
		if err != nil {
			return fmt.Errorf("insert book genres: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Book, error) {
	query, args, err := dialect.From(goqu.T("books").As("b")).
		Prepared(true).
		Select(bookColumns...).
		Where(goqu.I("b.id").Eq(id)).
		ToSQL()
	if err != nil {
		return Book{}, fmt.Errorf("build get book query: %w", err)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(ctx, query, args...))
	if pgutil.IsNoRows(err) {
		return Book{}, apperror.NotFound("bookNotFound", id)
	}
	if err != nil {
		return Book{}, fmt.Errorf("get book: %w", err)
	}

	books := []Book{b}
	if err := r.attachGenres(ctx, books); err != nil {
		return Book{}, err
	}
	return books[0], nil
}

// listFilter applies the Query filters shared by the page and count queries.
func listFilter(q Query) exp.ExpressionList {
	where := goqu.And()
	if q.GenreID != "" {
		where = where.Append(goqu.I("b.id").In(
			dialect.From("book_genres").Select("book_id").Where(goqu.Ex{"genre_id": q.GenreID}),
		))
	}
	if q.Language != "" {
		where = where.Append(goqu.I("b.language").Eq(q.Language))
	}
	if q.Condition != ConditionUnknown {
		where = where.Append(goqu.I("b.condition").Eq(q.Condition.String()))
	}
	if q.SwapType != swap.TypeUnknown {
		where = where.Append(goqu.I("b.swap_type").Eq(q.SwapType.String()))
	}
	if q.OwnerID != "" {
		where = where.Append(goqu.I("b.owner_id").Eq(q.OwnerID))
	}
	if q.Q != "" {
		pattern := "%" + q.Q + "%"
		where = where.Append(goqu.Or(
			goqu.I("b.title").ILike(pattern),
			goqu.I("b.author").ILike(pattern),
		))
	}
	return where
}

func buildListQueries(q Query) (page string, pageArgs []any, count string, countArgs []any, err error) {
	base := dialect.From(goqu.T("books").As("b")).Prepared(true).Where(listFilter(q))

	sortCol := goqu.I("b.created_at")
	if q.Sort == SortTitle {
		sortCol = goqu.I("b.title")
	}
	order := sortCol.Asc()
	if q.Desc {
		order = sortCol.Desc()
	}

	page, pageArgs, err = base.Select(bookColumns...).
		Order(order, goqu.I("b.id").Asc()).
		Limit(uint(q.Limit)).
		Offset(uint(q.Offset)).
		ToSQL()
	if err != nil {
		return "", nil, "", nil, fmt.Errorf("build list query: %w", err)
	}
	count, countArgs, err = base.Select(goqu.COUNT(goqu.Star())).ToSQL()
	if err != nil {
		return "", nil, "", nil, fmt.Errorf("build count query: %w", err)
	}
	return page, pageArgs, count, countArgs, nil
}

func (r *PostgresRepo) List(ctx context.Context, q Query) ([]Book, int, error) {
	pageSQL, pageArgs, countSQL, countArgs, err := buildListQueries(q)
	if err != nil {
		return nil, 0, err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	rows, err := r.db.Query(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}

	if err := r.attachGenres(ctx, out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// attachGenres loads the genres of books with a single query, keeping each
// book's genre order.
func (r *PostgresRepo) attachGenres(ctx context.Context, books []Book) error {
	if len(books) == 0 {
		return nil
	}
	ids := make([]string, len(books))
	idx := make(map[string]int, len(books))
	for i, b := range books {
		ids[i] = b.ID
		idx[b.ID] = i
		books[i].Genres = []genre.Genre{}
	}

	const query = `
		SELECT bg.book_id, g.id, g.name, g.slug, g.parent_id, g.created_at
		FROM book_genres bg
		JOIN genres g ON g.id = bg.genre_id
		WHERE bg.book_id = ANY($1)
		ORDER BY bg.book_id, bg.position`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("query book genres: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			bookID string
			g      genre.Genre
		)
		if err := rows.Scan(&bookID, &g.ID, &g.Name, &g.Slug, &g.ParentID, &g.CreatedAt); err != nil {
			return fmt.Errorf("scan book genre: %w", err)
		}
		if i, ok := idx[bookID]; ok {
			books[i].Genres = append(books[i].Genres, g)
		}
	}
	return rows.Err()
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("bookNotFound", id)
	}
	return nil
}

// FindSwappableBook searches the swappable books embedded in BY_BOOKS conditions.
func (r *PostgresRepo) FindSwappableBook(ctx context.Context, id string) (swap.SwappableBook, error) {
	const query = `
		SELECT sb
		FROM books b, jsonb_array_elements(b.swap_condition -> 'swappableBooks') AS sb
		WHERE b.swap_type = 'BY_BOOKS' AND sb ->> 'id' = $1
		LIMIT 1`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var raw []byte
	err := r.db.QueryRow(ctx, query, id).Scan(&raw)
	if pgutil.IsNoRows(err) {
		return swap.SwappableBook{}, apperror.NotFound("swappableBookNotFound", id)
	}
	if err != nil {
		return swap.SwappableBook{}, fmt.Errorf("find swappable book: %w", err)
	}

	var sb swap.SwappableBook
	if err := json.Unmarshal(raw, &sb); err != nil {
		return swap.SwappableBook{}, fmt.Errorf("decode swappable book: %w", err)
	}
	return sb, nil
}
