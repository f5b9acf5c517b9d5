// Package server wires the HTTP API, middleware and background runners.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/hrygo/yotei/internal/profile"
	"github.com/hrygo/yotei/plugin/nlevent"
	"github.com/hrygo/yotei/server/middleware"
	apiv1 "github.com/hrygo/yotei/server/router/api/v1"
	"github.com/hrygo/yotei/server/runner/retention"
	"github.com/hrygo/yotei/store"
)

// rateLimiterIdle is how long a client's bucket survives without requests.
const rateLimiterIdle = 10 * time.Minute

type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer        *echo.Echo
	rateLimiter       *middleware.RateLimiter
	apiV1Service      *apiv1.APIV1Service
	retentionRunner   *retention.Runner
	runnerCancelFuncs []context.CancelFunc
}

func NewServer(ctx context.Context, profile *profile.Profile, store *store.Store) (*Server, error) {
	s := &Server{
		Store:   store,
		Profile: profile,
	}

	echoServer := echo.New()
	echoServer.Debug = true
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.Use(echomiddleware.Recover())
	echoServer.Use(echomiddleware.RequestID())
	s.rateLimiter = middleware.NewRateLimiter(profile.RateLimitRPS, profile.RateLimitBurst)
	echoServer.Use(s.rateLimiter.Middleware())
	s.echoServer = echoServer

	eventService := nlevent.NewService(nlevent.ServiceConfig{
		Parser:          nlevent.DefaultConfig(),
		DefaultTimezone: profile.Timezone,
		BatchLimit:      profile.BatchLimit,
		CacheCapacity:   profile.CacheCapacity,
		CacheTTL:        profile.CacheTTL,
	})
	s.apiV1Service = apiv1.NewAPIV1Service(profile, store, eventService)
	s.apiV1Service.RegisterRoutes(echoServer)

	runner, err := retention.NewRunner(store, profile.ParseLogRetention, profile.RetentionSchedule)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create retention runner")
	}
	s.retentionRunner = runner

	return s, nil
}

// Handler exposes the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echoServer
}

func (s *Server) Start(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return errors.Wrap(err, "failed to listen")
	}
	s.echoServer.Listener = listener

	s.StartBackgroundRunners(ctx)

	go func() {
		if err := s.echoServer.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start echo server", "error", err)
		}
	}()
	return nil
}

func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	slog.Info("server shutting down")

	for _, cancelFunc := range s.runnerCancelFuncs {
		if cancelFunc != nil {
			cancelFunc()
		}
	}

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", slog.String("error", err.Error()))
	}

	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close database", slog.String("error", err.Error()))
	}

	slog.Info("server stopped properly")
}

func (s *Server) StartBackgroundRunners(ctx context.Context) {
	retentionCtx, retentionCancel := context.WithCancel(ctx)
	s.runnerCancelFuncs = append(s.runnerCancelFuncs, retentionCancel)

	go func() {
		s.retentionRunner.Run(retentionCtx)
	}()

	limiterCtx, limiterCancel := context.WithCancel(ctx)
	s.runnerCancelFuncs = append(s.runnerCancelFuncs, limiterCancel)
	go s.rateLimiter.Run(limiterCtx, time.Minute, rateLimiterIdle)
	slog.Info("background runners started", "retention", s.retentionRunner.Enabled())
}
