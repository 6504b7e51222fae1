// Package testutil holds helpers for HTTP tests that go through the auth
// middleware.
package testutil

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/golang-jwt/jwt/v5"
	jsoniter "github.com/json-iterator/go"

	"bookswap/internal/platform/crypto"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	UserID  = "test-user-id-123"
	AdminID = "test-admin-id-456"
)

// Token signs a one hour access token.
func Token(secret, userID, role string) string {
	token, _, err := crypto.GenerateToken(secret, userID, role, time.Hour)
	if err != nil {
		panic(err)
	}
	return token
}

// ExpiredToken signs a token that expired an hour ago.
func ExpiredToken(secret, userID, role string) string {
	c := crypto.Claims{
		Sub:  userID,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "bookswap",
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
	if err != nil {
		panic(err)
	}
	return token
}

// NewRequest builds a request with body encoded as JSON. A nil body sends none.
func NewRequest(method, path string, body any) *http.Request {
	if body == nil {
		return httptest.NewRequest(method, path, nil)
	}
	raw, err := json.Marshal(body)
	if err != nil {
		panic(err)
	}
	r := httptest.NewRequest(method, path, bytes.NewReader(raw))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// NewRequestWithAuth is NewRequest plus a bearer token when token is set.
func NewRequestWithAuth(method, path string, body any, token string) *http.Request {
	r := NewRequest(method, path, body)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}
