package v1

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/yotei/plugin/nlevent"
	apierrors "github.com/hrygo/yotei/server/internal/errors"
	"github.com/hrygo/yotei/server/internal/observability"
	"github.com/hrygo/yotei/server/timezone"
)

// ErrorResponse is the body of every non-parse error.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// begin opens the logging scope of one handler call.
func (s *APIV1Service) begin(c echo.Context, operation, userID string) *observability.RequestContext {
	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	if requestID == "" {
		requestID = c.Request().Header.Get(echo.HeaderXRequestID)
	}
	return observability.NewRequestContext(s.Logger, requestID, operation, userID)
}

// finish records metrics and the access log line for a handler call.
func (s *APIV1Service) finish(rc *observability.RequestContext, failed bool, attrs ...slog.Attr) {
	duration := rc.Duration()
	s.Metrics.Observe(rc.Operation, duration, failed)
	attrs = append(attrs,
		slog.Int64(observability.LogFieldDuration, duration.Milliseconds()),
		slog.Bool("failed", failed),
	)
	rc.Info("request finished", attrs...)
}

// fail writes err as an ErrorResponse.
func (s *APIV1Service) fail(c echo.Context, rc *observability.RequestContext, err *apierrors.APIError) error {
	status := err.HTTPStatus()
	if status >= 500 {
		rc.Error("request failed", err)
	}
	s.finish(rc, true, slog.String(observability.LogFieldErrorCode, string(err.Code)))
	return c.JSON(status, ErrorResponse{
		Success: false,
		Error:   err.Message,
		Code:    string(err.Code),
		Details: err.Context["details"],
	})
}

// parseOptions validates the optional reference_time (RFC 3339) and timezone
// request fields.
func parseOptions(referenceTime, tz string) (nlevent.ParseOptions, *apierrors.APIError) {
	var opts nlevent.ParseOptions
	if referenceTime != "" {
		ref, err := time.Parse(time.RFC3339, referenceTime)
		if err != nil {
			return opts, apierrors.InvalidArgument("reference_time must be an RFC 3339 timestamp")
		}
		opts.Reference = ref
	}
	if tz != "" {
		if !timezone.IsValidTimezone(tz) {
			return opts, apierrors.InvalidArgument("unknown timezone: " + tz)
		}
		opts.Timezone = tz
	}
	return opts, nil
}
