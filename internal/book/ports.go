package book

import (
	"context"

	"bookswap/internal/genre"
	"bookswap/internal/swap"
)

// Repository defines the contract for book data storage.
type Repository interface {
	Create(ctx context.Context, b *Book) error
	GetByID(ctx context.Context, id string) (Book, error)
	List(ctx context.Context, q Query) ([]Book, int, error)
	Delete(ctx context.Context, id string) error
	FindSwappableBook(ctx context.Context, id string) (swap.SwappableBook, error)
}

// GenreResolver turns genre ids into catalog genres, failing on unknown ids.
type GenreResolver interface {
	Resolve(ctx context.Context, ids []string) ([]genre.Genre, error)
}
