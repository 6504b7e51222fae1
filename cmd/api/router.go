package main

import (
	"context"
	"net/http"
	"time"

	"bookswap/internal/auth"
	"bookswap/internal/book"
	"bookswap/internal/genre"
	"bookswap/internal/httpx"
	"bookswap/internal/photo"
	"bookswap/internal/swaprequest"
	"bookswap/internal/user"
)

type routes struct {
	jwtSecret string
	ready     func(ctx context.Context) error

	users        *user.HTTPHandler
	auth         *auth.HTTPHandler
	genres       *genre.HTTPHandler
	books        *book.HTTPHandler
	photos       *photo.HTTPHandler
	swapRequests *swaprequest.HTTPHandler
}

func newRouter(rt routes) *http.ServeMux {
	authed := httpx.RequireAuth(rt.jwtSecret)
	admin := func(h http.HandlerFunc) http.Handler {
		return authed(httpx.RequireRole(httpx.RoleAdmin)(h))
	}
	member := func(h http.HandlerFunc) http.Handler {
		return authed(h)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := rt.ready(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	mux.HandleFunc("POST /users/register", rt.users.Register)
	mux.HandleFunc("POST /users/login", rt.auth.Login)
	mux.Handle("GET /me", member(rt.users.Me))

	mux.HandleFunc("GET /genres", rt.genres.List)
	mux.HandleFunc("GET /genres/{id}", rt.genres.Get)
	mux.Handle("POST /genres", admin(rt.genres.Create))
	mux.Handle("PATCH /genres/{id}/parent", admin(rt.genres.SetParent))

	mux.HandleFunc("GET /books", rt.books.List)
	mux.HandleFunc("GET /books/{id}", rt.books.Get)
	mux.HandleFunc("GET /users/{id}/books", rt.books.ListByOwner)
	mux.Handle("POST /books", member(rt.books.Create))
	mux.Handle("DELETE /books/{id}", member(rt.books.Delete))

	mux.HandleFunc("GET /photos/{key}", rt.photos.Get)
	mux.Handle("POST /photos", member(rt.photos.Upload))
	mux.Handle("DELETE /photos/{key}", member(rt.photos.Delete))

	mux.Handle("POST /swap-requests", member(rt.swapRequests.Create))
	mux.Handle("GET /swap-requests/{id}", member(rt.swapRequests.Get))
	mux.Handle("PATCH /swap-requests/{id}/status", member(rt.swapRequests.TransitionStatus))
	mux.Handle("GET /me/swap-requests", member(rt.swapRequests.ListMine))
	mux.Handle("DELETE /swap-requests", admin(rt.swapRequests.DeleteAll))

	return mux
}
