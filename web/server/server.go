package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/scene"
)

const shutdownTimeout = 5 * time.Second

// Server serves preview renders of built-in and document scenes
type Server struct {
	port      int
	scenesDir string
	logger    core.Logger
	console   *Console
	renders   atomic.Int64
	echo      *echo.Echo
}

// NewServer creates a preview server. Scene documents are discovered in scenesDir.
func NewServer(port int, scenesDir string, logger core.Logger) *Server {
	if logger == nil {
		logger = core.NopLogger{}
	}

	s := &Server{
		port:      port,
		scenesDir: scenesDir,
		logger:    logger,
		console:   NewConsole(consoleCapacity),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(corsMiddleware)

	e.GET("/api/health", s.handleHealth)
	e.GET("/api/scenes", s.handleScenes)
	e.GET("/api/render", s.handleRender)
	e.GET("/api/inspect", s.handleInspect)
	e.GET("/api/console", s.handleConsole)
	s.echo = e

	return s
}

// Handler exposes the routes for embedding and tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Printf("Starting web server on http://localhost%s\n", addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Printf("Shutting down web server\n")
		return s.echo.Shutdown(shutdownCtx)
	}
}

func corsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Access-Control-Allow-Origin", "*")
		return next(c)
	}
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes followed by discovered documents
func (s *Server) handleScenes(c echo.Context) error {
	scenes := scene.BuiltinScenes()
	if s.scenesDir != "" {
		documents, err := scene.ListDocumentScenes(s.scenesDir)
		if err != nil {
			return jsonError(c, http.StatusInternalServerError, err.Error())
		}
		scenes = append(scenes, documents...)
	}
	return c.JSON(http.StatusOK, scenes)
}

// handleConsole returns the most recent render log lines
func (s *Server) handleConsole(c echo.Context) error {
	return c.JSON(http.StatusOK, s.console.Messages())
}

func jsonError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"error": message})
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func parseInt64Param(values url.Values, key string, defaultValue int64) (int64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}
