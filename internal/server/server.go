package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pscheid92/campuspulse/internal/broadcast"
	"github.com/pscheid92/campuspulse/internal/config"
	"github.com/pscheid92/campuspulse/internal/domain"
	pulseerrors "github.com/pscheid92/campuspulse/internal/errors"
)

type Server struct {
	echo        *echo.Echo
	config      *config.Config
	repository  domain.PulseRepository
	broadcaster *broadcast.Broadcaster
	clock       clockwork.Clock
	startTime   time.Time
}

func NewServer(cfg *config.Config, repository domain.PulseRepository, broadcaster *broadcast.Broadcaster, clock clockwork.Clock) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logRequest(v)
			return nil
		},
	}))
	e.Use(pulseerrors.Middleware())

	srv := &Server{
		echo:        e,
		config:      cfg,
		repository:  repository,
		broadcaster: broadcaster,
		clock:       clock,
		startTime:   clock.Now(),
	}

	srv.registerRoutes()
	return srv
}

func logRequest(v middleware.RequestLoggerValues) {
	slog.Info("Request",
		"method", v.Method,
		"uri", v.URI,
		"status", v.Status,
		"latency", v.Latency,
	)
}

func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
