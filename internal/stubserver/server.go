// Package stubserver serves a stand-in for the document parse service. It
// answers POST /parse with a canned parse result so load tests can run
// without the real service.
package stubserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Response is the envelope the parse service wraps every reply in.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Responder decides the status and body for one uploaded document.
type Responder func(filename string, data []byte) (int, any)

// Server is an echo-backed stub of the parse endpoint.
type Server struct {
	echo    *echo.Echo
	respond Responder
	delay   time.Duration

	requests atomic.Int64
	inFlight atomic.Int64
	peak     atomic.Int64
}

// Option configures a Server.
type Option func(*Server)

// WithResponder replaces DefaultResponder.
func WithResponder(r Responder) Option {
	return func(s *Server) { s.respond = r }
}

// WithDelay holds every /parse request for d before answering.
func WithDelay(d time.Duration) Option {
	return func(s *Server) { s.delay = d }
}

// New creates a Server with routes registered.
func New(opts ...Option) *Server {
	s := &Server{echo: echo.New(), respond: DefaultResponder}
	for _, opt := range opts {
		opt(s)
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(middleware.Recover())

	s.echo.GET("/health", s.handleHealth)
	s.echo.POST("/parse", s.handleParse)
	return s
}

// ServeHTTP lets the stub be mounted on httptest.Server.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start listens on addr and blocks until Shutdown.
func (s *Server) Start(addr string) error {
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops a server started with Start.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Requests returns the number of /parse requests received.
func (s *Server) Requests() int64 { return s.requests.Load() }

// PeakInFlight returns the highest number of concurrent /parse requests seen.
func (s *Server) PeakInFlight() int64 { return s.peak.Load() }

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, Response{Success: true, Data: "Service is healthy"})
}

func (s *Server) handleParse(c echo.Context) error {
	s.requests.Add(1)
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, Response{Error: "no file provided: " + err.Error()})
	}
	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, Response{Error: "failed to open uploaded file: " + err.Error()})
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, Response{Error: "failed to read uploaded file: " + err.Error()})
	}

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-c.Request().Context().Done():
			return c.Request().Context().Err()
		}
	}

	status, body := s.respond(file.Filename, data)
	if raw, ok := body.(json.RawMessage); ok {
		return c.Blob(status, echo.MIMEApplicationJSON, raw)
	}
	return c.JSON(status, body)
}
