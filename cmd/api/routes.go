package main

import (
	"context"
	"net/http"
	"time"

	"bookreview/internal/book"
	"bookreview/internal/config"
	"bookreview/internal/httpx"
	"bookreview/internal/review"
	"bookreview/internal/storage"

	"go.uber.org/zap"
)

// newRouter wires the handlers and middleware. The returned func stops
// background work owned by the router.
func newRouter(cfg config.HTTPConfig, logger *zap.Logger, store storage.Provider, notifier review.Notifier) (http.Handler, func()) {
	bookService := book.NewService(storage.BookRepo{})
	reviewService := review.NewService(storage.ReviewRepo{}, bookService, notifier)

	bookHandler := book.NewHTTPHandler(bookService, logger)
	reviewHandler := review.NewHTTPHandler(reviewService, logger)

	api := http.NewServeMux()
	api.HandleFunc("POST /books/{$}", bookHandler.Create)
	api.HandleFunc("POST /books", bookHandler.Create)
	api.HandleFunc("GET /books/{$}", bookHandler.List)
	api.HandleFunc("GET /books", bookHandler.List)
	api.HandleFunc("POST /books/{book_id}/reviews/{$}", reviewHandler.Create)
	api.HandleFunc("POST /books/{book_id}/reviews", reviewHandler.Create)
	api.HandleFunc("GET /books/{book_id}/reviews/{$}", reviewHandler.List)
	api.HandleFunc("GET /books/{book_id}/reviews", reviewHandler.List)

	router := http.NewServeMux()
	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	router.Handle("/books", storage.Middleware(store, logger)(api))
	router.Handle("/books/", storage.Middleware(store, logger)(api))

	mws := []httpx.Middleware{
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(logger),
		httpx.RecoveryMiddleware(logger),
		httpx.SecurityHeadersMiddleware(cfg.EnableHSTS),
		httpx.CORSMiddleware(cfg.CORSOrigins),
	}

	stop := func() {}
	if cfg.RateLimitRPS > 0 {
		limiter := httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst)
		mws = append(mws, limiter.Middleware)
		stop = limiter.Stop
	}
	mws = append(mws, httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes))

	return httpx.Chain(router, mws...), stop
}
