package user

import (
	"context"
)

// Repository defines the contract for user storage. Missing users are
// reported as apperror NotFound values.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	OwnsBook(ctx context.Context, userID, bookID string) (bool, error)
}
