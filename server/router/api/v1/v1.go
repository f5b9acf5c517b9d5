package v1

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/hrygo/yotei/internal/profile"
	"github.com/hrygo/yotei/plugin/nlevent"
	"github.com/hrygo/yotei/server/internal/observability"
	"github.com/hrygo/yotei/server/service/parselog"
	"github.com/hrygo/yotei/store"
)

type APIV1Service struct {
	Profile         *profile.Profile
	Store           *store.Store
	EventService    nlevent.EventService
	ParseLogService *parselog.Service
	Metrics         *observability.Metrics
	Logger          *slog.Logger

	startedAt time.Time
	now       func() time.Time
}

func NewAPIV1Service(profile *profile.Profile, store *store.Store, eventService nlevent.EventService) *APIV1Service {
	service := &APIV1Service{
		Profile:      profile,
		Store:        store,
		EventService: eventService,
		Metrics:      observability.NewMetrics(1000),
		Logger:       slog.Default(),
		startedAt:    time.Now(),
		now:          time.Now,
	}
	if store != nil {
		service.ParseLogService = parselog.NewService(store)
	}
	return service
}

// RegisterRoutes registers the REST handlers with the given Echo instance.
func (s *APIV1Service) RegisterRoutes(echoServer *echo.Echo) {
	echoServer.GET("/healthz", s.Healthz)

	api := echoServer.Group("/api/v1", middleware.CORS())

	api.POST("/events/parse", s.ParseEvent)
	api.POST("/events/parse/batch", s.ParseEventBatch)
	api.GET("/events/parse/ics", s.ExportEventICS)
	api.GET("/events/examples", s.ListExamples)

	if s.ParseLogService != nil {
		api.POST("/parse-logs", s.CreateParseLog)
		api.GET("/parse-logs", s.ListParseLogs)
		api.GET("/parse-logs/rss", s.GetParseLogFeed)
	}

	api.GET("/system/metrics/overview", s.GetMetricsOverview)
}
