package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

const shutdownTimeout = 10 * time.Second

// Start serves HTTP until ctx is canceled, then shuts down gracefully. The form
// session sweeper runs for the lifetime of the server.
func (s *Server) Start(ctx context.Context) error {
	go s.forms.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		addr := s.Cfg.GetAppAddr()
		slog.Info("Starting server", "addr", addr)
		if err := s.E.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	slog.Info("Shutting down server")
	return s.E.Shutdown(shutdownCtx)
}
