package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bookswap/internal/apperror"
	"bookswap/internal/platform/crypto"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a USER account. Emails are compared case-insensitively.
func (s *Service) Register(ctx context.Context, email, username, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	_, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return User{}, apperror.Conflict("emailExistsAlready", email)
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return User{}, err
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Email:    email,
		Username: strings.TrimSpace(username),
		Password: hash,
		Role:     RoleUser,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return *u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// IsOwnedBook reports whether bookID is listed by userID.
func (s *Service) IsOwnedBook(ctx context.Context, userID, bookID string) (bool, error) {
	return s.repo.OwnsBook(ctx, userID, bookID)
}
