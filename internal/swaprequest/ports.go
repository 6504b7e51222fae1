package swaprequest

//go:generate mockgen -source=ports.go -destination=mocks_test.go -package=swaprequest

import (
	"context"
	"time"

	"bookswap/internal/book"
	"bookswap/internal/genre"
	"bookswap/internal/swap"
	"bookswap/internal/user"
)

type UserDirectory interface {
	GetByID(ctx context.Context, id string) (user.User, error)
	IsOwnedBook(ctx context.Context, userID, bookID string) (bool, error)
}

// BookDirectory returns books with their swap condition resolved.
type BookDirectory interface {
	GetByID(ctx context.Context, id string) (book.Book, error)
	GetSwappableBook(ctx context.Context, id string) (swap.SwappableBook, error)
}

type GenreDirectory interface {
	GetByID(ctx context.Context, id string) (genre.Genre, error)
}

// Store persists swap requests. Save must reject a second request for the
// same (sender, receiver, book) triple with SwapRequestExistsAlready.
type Store interface {
	ExistsByTriple(ctx context.Context, senderID, receiverID, bookID string) (bool, error)
	Save(ctx context.Context, sr *SwapRequest) error
	GetByID(ctx context.Context, id string) (SwapRequest, error)
	List(ctx context.Context, f ListFilter) ([]SwapRequest, int, error)
	UpdateStatus(ctx context.Context, id string, status swap.Status, at time.Time) error
	DeleteAll(ctx context.Context) (int64, error)
}

type EventPublisher interface {
	PublishCreated(ctx context.Context, e CreatedEvent) error
}
