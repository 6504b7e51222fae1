// Package auth issues access tokens for registered users.
package auth

import (
	"context"
	"errors"
	"time"

	"bookswap/internal/apperror"
	"bookswap/internal/platform/crypto"
	"bookswap/internal/user"
)

// UserFinder looks up accounts by email.
type UserFinder interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type Token struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int    `json:"expiresIn"`
}

type Service struct {
	secret string
	ttl    time.Duration
	users  UserFinder
}

func NewService(secret string, ttl time.Duration, users UserFinder) *Service {
	return &Service{secret: secret, ttl: ttl, users: users}
}

// Login verifies the credentials and signs an access token. Unknown emails and
// wrong passwords fail the same way.
func (s *Service) Login(ctx context.Context, email, password string) (Token, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, apperror.ErrNotFound) {
		return Token{}, apperror.Unauthorized("invalidCredentials")
	}
	if err != nil {
		return Token{}, err
	}
	if !crypto.VerifyPassword(u.Password, password) {
		return Token{}, apperror.Unauthorized("invalidCredentials")
	}

	token, _, err := crypto.GenerateToken(s.secret, u.ID, u.Role, s.ttl)
	if err != nil {
		return Token{}, apperror.Wrap(err, "tokenGenerationFailed")
	}
	return Token{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.ttl.Seconds()),
	}, nil
}
