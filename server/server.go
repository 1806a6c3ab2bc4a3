// Package server exposes the terminal and the charts over HTTP for a web shell.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/etnz/fundterm/crosshair"
	"github.com/etnz/fundterm/terminal"
	"github.com/gin-gonic/gin"
	"github.com/phuslu/log"
	"github.com/rs/cors"
)

// Options configures a Server.
type Options struct {
	// AllowedOrigins are the CORS origins, none when empty.
	AllowedOrigins []string
	// Loader, when set, serves POST /api/refresh.
	Loader terminal.Loader
	Logger *log.Logger
}

// Server is the HTTP adapter of an interpreter.
type Server struct {
	term      *terminal.Interpreter
	crosshair crosshair.Service
	loader    terminal.Loader
	logger    *log.Logger
	handler   http.Handler
}

// New returns a Server of term.
func New(term *terminal.Interpreter, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = &log.Logger{Writer: log.IOWriter{Writer: io.Discard}}
	}
	s := &Server{term: term, loader: opts.Loader, logger: logger}

	router := gin.New()
	router.Use(requestLogger(logger), errorHandler(logger))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	api := router.Group("/api")
	{
		api.POST("/terminal/submit", s.submit)
		api.GET("/terminal/complete", s.complete)
		api.POST("/terminal/history/up", s.historyUp)
		api.POST("/terminal/history/down", s.historyDown)
		api.GET("/terminal/output", s.output)
		api.GET("/state", s.state)
		api.PUT("/currency", s.setCurrency)
		api.GET("/chart", s.chart)
		api.POST("/chart/visibility", s.setVisibility)
		api.GET("/table", s.table)
		api.GET("/crosshair", s.snapshot)
		api.DELETE("/crosshair", s.clearSnapshot)
		api.GET("/crosshair/range", s.rangeSummary)
		api.POST("/refresh", s.refresh)
	}
	router.NoRoute(func(c *gin.Context) {
		abortWithError(c, http.StatusNotFound, "NOT_FOUND", "Not found")
	})

	s.handler = cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(router)
	return s
}

// Handler returns the http.Handler of the server.
func (s *Server) Handler() http.Handler { return s.handler }

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.handler, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info().Str("addr", addr).Msg("listening")

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
