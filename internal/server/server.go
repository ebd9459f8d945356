// Package server exposes the prayer-time engine over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/salat/internal/cache"
)

const shutdownTimeout = 5 * time.Second

// Options configures New.
type Options struct {
	// Cache stores computed tables. Nil disables caching.
	Cache  cache.TableStore
	Logger zerolog.Logger
	// Now is the clock used for default dates; time.Now when nil.
	Now func() time.Time
}

// Server holds the gin engine and its dependencies.
type Server struct {
	engine *gin.Engine
	cache  cache.TableStore
	logger zerolog.Logger
	now    func() time.Time
}

// New builds a Server with all routes registered.
func New(opts Options) *Server {
	s := &Server{
		engine: gin.New(),
		cache:  opts.Cache,
		logger: opts.Logger,
		now:    opts.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	RegisterRoutes(s.engine, s)
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info().Msg("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
