package router

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/user/storefront-harvester/internal/delivery/http/handler"
)

// Serve runs the observability endpoint on addr until ctx ends.
func Serve(ctx context.Context, addr string, progress handler.ProgressSource) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      New(handler.NewHandler(progress)),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting metrics server", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
