// Package server is a stand-in for the remote classification service. It
// speaks the same HTTP contract as the production backend and classifies
// text with the bundled lexicon, which is enough for local development and
// end-to-end tests of the client.
package server

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/colonyops/sentiview/internal/core/logging"
	"github.com/colonyops/sentiview/internal/core/sentiment"
)

// Options configures a Server.
type Options struct {
	Addr      string
	RateLimit float64 // requests per second across all clients, 0 disables
	Burst     int     // defaults to ceil(RateLimit) when RateLimit is set
	Pprof     bool    // mount runtime profiles under /debug/pprof
	// Classifiers selectable through the request "method" field. The first
	// one is the default. Defaults to the lexicon classifier.
	Classifiers []sentiment.Classifier
}

type Server struct {
	echo        *echo.Echo
	httpServer  *http.Server
	listener    net.Listener
	addr        string
	classifiers map[string]sentiment.Classifier
	fallback    sentiment.Classifier
	log         zerolog.Logger
}

func New(opts Options) *Server {
	classifiers := opts.Classifiers
	if len(classifiers) == 0 {
		classifiers = []sentiment.Classifier{sentiment.NewLexicon()}
	}

	s := &Server{
		addr:        opts.Addr,
		classifiers: make(map[string]sentiment.Classifier, len(classifiers)),
		fallback:    classifiers[0],
		log:         logging.Component("server"),
	}
	for _, c := range classifiers {
		s.classifiers[c.Name()] = c
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			ev := s.log.Info()
			if v.Error != nil {
				ev = s.log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = int(math.Ceil(opts.RateLimit))
		}
		e.Use(rateLimit(rate.NewLimiter(rate.Limit(opts.RateLimit), burst)))
	}

	s.echo = e
	s.setupRoutes()
	if opts.Pprof {
		s.setupPprof()
	}

	s.httpServer = &http.Server{
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.health)
	s.echo.POST("/feedback", s.feedback)
	s.echo.POST("/analyze-sentiment", s.analyze)
	s.echo.POST("/analyze-sentiment-detailed", s.analyzeDetailed)
}

func (s *Server) setupPprof() {
	g := s.echo.Group("/debug/pprof")
	g.GET("/", echo.WrapHandler(http.HandlerFunc(pprof.Index)))
	g.GET("/cmdline", echo.WrapHandler(http.HandlerFunc(pprof.Cmdline)))
	g.GET("/profile", echo.WrapHandler(http.HandlerFunc(pprof.Profile)))
	g.GET("/symbol", echo.WrapHandler(http.HandlerFunc(pprof.Symbol)))
	g.GET("/trace", echo.WrapHandler(http.HandlerFunc(pprof.Trace)))
	g.GET("/:profile", func(c echo.Context) error {
		pprof.Handler(c.Param("profile")).ServeHTTP(c.Response(), c.Request())
		return nil
	})
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}
	s.listener = listener

	s.log.Info().Str("addr", listener.Addr().String()).Msg("starting classification server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("classification server failed to start: %w", err)
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

// Addr returns the listening address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("shutting down classification server")
	return s.httpServer.Shutdown(ctx)
}

// classifier resolves a method name. Unknown or empty names get the default.
func (s *Server) classifier(method string) sentiment.Classifier {
	if c, ok := s.classifiers[method]; ok {
		return c
	}
	return s.fallback
}

func rateLimit(limiter *rate.Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiter.Allow() {
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
