// Package server hosts the state machine over HTTP. It owns everything the
// core is forbidden to touch: the wall clock behind the logical clock, the
// entropy source, and the lifecycle of the listener.
package server

import (
	"context"
	"crypto/rand"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"bundlenet/pkg/kvstore"
	"bundlenet/pkg/log"
	"bundlenet/pkg/router"
)

const shutdownTimeout = 10

// Server is the HTTP front of one bundlenet node.
type Server struct {
	echo    *echo.Echo
	router  *router.Router
	store   kvstore.Store
	version string
	clock   atomic.Uint64
}

func New(store kvstore.Store, version string) *Server {
	s := &Server{
		echo:    echo.New(),
		router:  router.New(store),
		store:   store,
		version: version,
	}
	// The logical clock must move forward across restarts; seeding from the
	// wall clock keeps it monotonic as long as restarts take longer than a
	// nanosecond.
	s.clock.Store(uint64(time.Now().UnixNano()))
	return s
}

// nextClock hands out a strictly increasing logical timestamp per call.
func (s *Server) nextClock() uint64 {
	return s.clock.Add(1)
}

func entropy() []byte {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		log.Fatal().Err(err).Msg("Entropy source failed")
	}
	return b
}

func (s *Server) Start(addr string) error {
	s.setupRoutes()

	// Start the server in a goroutine.
	go func() {
		log.Info().
			Str("addr", addr).
			Str("version", s.version).
			Msg("Starting bundlenet server")

		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server startup failed")
		}
	}()

	// Wait for the interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	return s.Shutdown()
}

func (s *Server) Shutdown() error {
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout*time.Second)
	defer cancel()

	if err := s.echo.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
		return err
	}

	log.Info().Msg("Server gracefully stopped")

	if err := s.store.Close(); err != nil {
		log.Error().Err(err).Msg("Store close failed")
		return err
	}

	log.Info().Msg("Shutdown complete")
	return nil
}

func (s *Server) setupRoutes() {
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} ${status} ${method} ${uri} (${latency_human})\n",
	}))
	s.echo.Use(middleware.Recover())

	s.echo.GET("/healthz", s.health)
	s.echo.POST("/v1/tx", s.handleTx)
	s.echo.POST("/v1/query", s.handleQuery)
}

func (s *Server) health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.version,
	})
}
