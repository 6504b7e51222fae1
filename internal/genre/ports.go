package genre

import (
	"context"
)

// Repository defines the contract for genre storage. Lookups by id return
// apperror NotFound values for missing rows.
type Repository interface {
	Create(ctx context.Context, g *Genre) error
	GetByID(ctx context.Context, id string) (Genre, error)
	GetByIDs(ctx context.Context, ids []string) ([]Genre, error)
	List(ctx context.Context) ([]Genre, error)
	UpdateParent(ctx context.Context, id string, parentID *string) error
}
