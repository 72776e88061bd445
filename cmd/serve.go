package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/keshav-star/devlist/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve starts the playlist HTTP API and blocks until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if host := cmd.String("host"); host != "" {
		r.config.Server.Host = host
	}
	if port := cmd.Int("port"); port != 0 {
		r.config.Server.Port = int(port)
	}

	s, err := r.openStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer s.Close()

	router := server.New(s, r.logger, r.config.Server.RateLimit, r.config.Server.RateBurst)

	addr := r.config.Server.Addr()
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errChan := make(chan error, 1)
	go func() {
		r.logger.Info("serving playlist API", "addr", addr, "driver", r.config.Database.Driver)
		errChan <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-stop:
		r.logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
	}

	return nil
}
