package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookswap/internal/auth"
	"bookswap/internal/book"
	"bookswap/internal/config"
	"bookswap/internal/genre"
	"bookswap/internal/httpx"
	"bookswap/internal/logger"
	"bookswap/internal/photo"
	"bookswap/internal/platform/natsbus"
	"bookswap/internal/platform/pgutil"
	"bookswap/internal/swaprequest"
	"bookswap/internal/user"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Config{
		Environment: cfg.Env,
		Level:       cfg.LogLevel,
		AddSource:   !cfg.IsProduction(),
	})
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := pgutil.Open(ctx, cfg.DB.DSN, 2*time.Second)
	if err != nil {
		return fmt.Errorf("open database (%s): %w", config.RedactDSN(cfg.DB.DSN), err)
	}
	defer db.Close()
	log.Info("database connection OK")

	userService := user.NewService(user.NewPostgresRepo(db, cfg.DB.Timeout))
	authService := auth.NewService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, userService)
	genreService := genre.NewService(genre.NewPostgresRepo(db, cfg.DB.Timeout))
	bookService := book.NewService(book.NewPostgresRepo(db, cfg.DB.Timeout), genreService)

	photoStore, err := photo.NewLocalStore(cfg.Photo.Dir)
	if err != nil {
		return fmt.Errorf("open photo store: %w", err)
	}
	photoService := photo.NewService(photoStore, cfg.Photo.BaseURL, cfg.Photo.MaxBytes)

	var opts []swaprequest.Option
	if cfg.NATS.URL != "" {
		natsbus.InstallPropagator()
		nc, err := natsbus.Connect(cfg.NATS.URL, log)
		if err != nil {
			return fmt.Errorf("connect nats: %w", err)
		}
		defer nc.Drain()
		opts = append(opts, swaprequest.WithPublisher(swaprequest.NewBusPublisher(natsbus.NewPublisher(nc))))
		log.Info("publishing swap request events", "nats_url", cfg.NATS.URL)
	}
	swapRequestService := swaprequest.NewService(
		swaprequest.NewPostgresRepo(db, cfg.DB.Timeout),
		userService, bookService, genreService, log, opts...,
	)

	mux := newRouter(routes{
		jwtSecret:    cfg.Auth.JWTSecret,
		ready:        db.Ping,
		users:        user.NewHTTPHandler(userService, log),
		auth:         auth.NewHTTPHandler(authService, log),
		genres:       genre.NewHTTPHandler(genreService, log),
		books:        book.NewHTTPHandler(bookService, log),
		photos:       photo.NewHTTPHandler(photoService, log),
		swapRequests: swaprequest.NewHTTPHandler(swapRequestService, log),
	})

	limiter := httpx.NewRateLimiter(ctx, cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)
	handler := httpx.Chain(mux,
		httpx.RequestIDMiddleware,
		httpx.RecoveryMiddleware(log),
		httpx.AccessLogMiddleware(log),
		httpx.SecurityHeadersMiddleware(cfg.HTTP.EnableHSTS),
		httpx.CORSMiddleware(cfg.HTTP.CORSAllowedOrigins),
		limiter.Middleware,
		httpx.RequestSizeLimitMiddleware(cfg.HTTP.MaxBodyBytes),
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", "addr", cfg.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
