package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Start - serves the game command API until the listener fails.
func Start(logger *slog.Logger, port string, handlers *Handlers) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", handlers.Ping)
	mux.HandleFunc("/", handlers.Command)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      withRequestLog(logger, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

type ctxKey string

const requestIDKey ctxKey = "request-id"

// withRequestLog tags every request with an id and logs method, path and
// duration.
func withRequestLog(logger *slog.Logger, next http.Handler) http.Handler {
	log := logger.With("component", "rest")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		requestID := uuid.NewString()

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))

		log.Info("request handled",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(started),
		)
	})
}
