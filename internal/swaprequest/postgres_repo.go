package swaprequest

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	jsoniter "github.com/json-iterator/go"

	"bookswap/internal/apperror"
	"bookswap/internal/platform/pgutil"
	"bookswap/internal/swap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const tripleConstraint = "swap_requests_triple_key"

var columns = []any{
	"id", "sender_id", "receiver_id", "book_id", "swap_type", "swap_offer",
	"ask_for_giveaway", "status", "note", "requested_at", "updated_at",
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

func scanSwapRequest(row pgx.Row) (SwapRequest, error) {
	var (
		sr               SwapRequest
		swapType, status string
		rawOffer         []byte
	)
	err := row.Scan(&sr.ID, &sr.SenderID, &sr.ReceiverID, &sr.BookToSwapWithID, &swapType, &rawOffer,
		&sr.AskForGiveaway, &status, &sr.Note, &sr.RequestedAt, &sr.UpdatedAt)
	if err != nil {
		return SwapRequest{}, err
	}
	if sr.SwapType, err = swap.ParseType(swapType); err != nil {
		return SwapRequest{}, fmt.Errorf("swap request %s: %w", sr.ID, err)
	}
	if sr.SwapStatus, err = swap.ParseStatus(status); err != nil {
		return SwapRequest{}, fmt.Errorf("swap request %s: %w", sr.ID, err)
	}
	if len(rawOffer) > 0 {
		var offer swap.Offer
		if err := json.Unmarshal(rawOffer, &offer); err != nil {
			return SwapRequest{}, fmt.Errorf("swap request %s offer: %w", sr.ID, err)
		}
		sr.SwapOffer = &offer
	}
	return sr, nil
}

func (r *PostgresRepo) ExistsByTriple(ctx context.Context, senderID, receiverID, bookID string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM swap_requests
			WHERE sender_id = $1 AND receiver_id = $2 AND book_id = $3
		)`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	var exists bool
	if err := r.db.QueryRow(ctx, query, senderID, receiverID, bookID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check swap request triple: %w", err)
	}
	return exists, nil
}

// Save inserts sr. A concurrent insert of the same triple loses on the unique
// constraint and is reported as SwapRequestExistsAlready.
func (r *PostgresRepo) Save(ctx context.Context, sr *SwapRequest) error {
	var offer any
	if sr.SwapOffer != nil {
		raw, err := json.Marshal(sr.SwapOffer)
		if err != nil {
			return fmt.Errorf("encode swap offer: %w", err)
		}
		offer = string(raw)
	}

	const query = `
		INSERT INTO swap_requests (sender_id, receiver_id, book_id, swap_type, swap_offer,
		                           ask_for_giveaway, status, note, requested_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(ctx, query,
		sr.SenderID, sr.ReceiverID, sr.BookToSwapWithID, sr.SwapType.String(), offer,
		sr.AskForGiveaway, sr.SwapStatus.String(), sr.Note, sr.RequestedAt, sr.UpdatedAt,
	).Scan(&sr.ID)
	if pgutil.IsUniqueViolation(err, tripleConstraint) {
		return apperror.SwapRequestExistsAlready(sr.SenderID, sr.ReceiverID, sr.BookToSwapWithID)
	}
	if err != nil {
		return fmt.Errorf("insert swap request: %w", err)
	}
	return nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (SwapRequest, error) {
	query, args, err := goqu.Dialect("postgres").From("swap_requests").
		Prepared(true).
		Select(columns...).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return SwapRequest{}, fmt.Errorf("build get swap request query: %w", err)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	sr, err := scanSwapRequest(r.db.QueryRow(ctx, query, args...))
	if pgutil.IsNoRows(err) {
		return SwapRequest{}, apperror.NotFound("swapRequestNotFound", id)
	}
	if err != nil {
		return SwapRequest{}, fmt.Errorf("get swap request: %w", err)
	}
	return sr, nil
}

func buildListQueries(f ListFilter) (page string, pageArgs []any, count string, countArgs []any, err error) {
	where := goqu.Ex{"receiver_id": f.UserID}
	if f.Direction == DirectionSent {
		where = goqu.Ex{"sender_id": f.UserID}
	}
	if f.Status != swap.StatusUnknown {
		where["status"] = f.Status.String()
	}

	base := goqu.Dialect("postgres").From("swap_requests").Prepared(true).Where(where)

	ds := base.Select(columns...).Order(goqu.I("requested_at").Desc(), goqu.I("id").Asc())
	if f.Limit > 0 {
		ds = ds.Limit(uint(f.Limit)).Offset(uint(f.Offset))
	}
	if page, pageArgs, err = ds.ToSQL(); err != nil {
		return "", nil, "", nil, fmt.Errorf("build list swap requests query: %w", err)
	}
	if count, countArgs, err = base.Select(goqu.COUNT(goqu.Star())).ToSQL(); err != nil {
		return "", nil, "", nil, fmt.Errorf("build count swap requests query: %w", err)
	}
	return page, pageArgs, count, countArgs, nil
}

func (r *PostgresRepo) List(ctx context.Context, f ListFilter) ([]SwapRequest, int, error) {
	pageSQL, pageArgs, countSQL, countArgs, err := buildListQueries(f)
	if err != nil {
		return nil, 0, err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count swap requests: %w", err)
	}

	rows, err := r.db.Query(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list swap requests: %w", err)
	}
	defer rows.Close()

	out := []SwapRequest{}
	for rows.Next() {
		sr, err := scanSwapRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list swap requests: %w", err)
	}
	return out, total, nil
}

func (r *PostgresRepo) UpdateStatus(ctx context.Context, id string, status swap.Status, at time.Time) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(ctx,
		`UPDATE swap_requests SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status.String(), at)
	if err != nil {
		return fmt.Errorf("update swap request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("swapRequestNotFound", id)
	}
	return nil
}

func (r *PostgresRepo) DeleteAll(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(ctx, `DELETE FROM swap_requests`)
	if err != nil {
		return 0, fmt.Errorf("delete swap requests: %w", err)
	}
	return tag.RowsAffected(), nil
}
