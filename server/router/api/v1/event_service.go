package v1

import (
	"fmt"
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"

	"github.com/hrygo/yotei/plugin/nlevent"
	apierrors "github.com/hrygo/yotei/server/internal/errors"
	"github.com/hrygo/yotei/server/internal/observability"
)

// ParseEventRequest is the body of POST /api/v1/events/parse.
type ParseEventRequest struct {
	Text          string `json:"text"`
	ReferenceTime string `json:"reference_time,omitempty"`
	Timezone      string `json:"timezone,omitempty"`
}

// ParseEventBatchRequest is the body of POST /api/v1/events/parse/batch.
type ParseEventBatchRequest struct {
	Texts         []string `json:"texts"`
	ReferenceTime string   `json:"reference_time,omitempty"`
	Timezone      string   `json:"timezone,omitempty"`
}

// ParseEventBatchResponse keeps results in request order.
type ParseEventBatchResponse struct {
	Results []nlevent.ParseResult `json:"results"`
}

// ExamplesResponse lists the example phrases.
type ExamplesResponse struct {
	Examples []string `json:"examples"`
}

// ParseEvent parses one phrase.
// POST /api/v1/events/parse
// The body is the parse result; failures use 400 (empty input), 422 (no
// date/time) or 500 (parser fault).
func (s *APIV1Service) ParseEvent(c echo.Context) error {
	rc := s.begin(c, "parse_event", "")

	var req ParseEventRequest
	if err := c.Bind(&req); err != nil {
		return s.fail(c, rc, apierrors.InvalidArgument("invalid request body"))
	}
	opts, apiErr := parseOptions(req.ReferenceTime, req.Timezone)
	if apiErr != nil {
		return s.fail(c, rc, apiErr)
	}

	result, err := s.EventService.Parse(c.Request().Context(), req.Text, opts)
	if err != nil {
		return s.fail(c, rc, apierrors.FromError(err, "failed to parse event"))
	}

	status := http.StatusOK
	attrs := []slog.Attr{slog.Int(observability.LogFieldTextLen, utf8.RuneCountInString(req.Text))}
	if f, ok := result.(*nlevent.Failure); ok {
		failure := apierrors.FromParseError(f.Err)
		status = failure.HTTPStatus()
		attrs = append(attrs, slog.String(observability.LogFieldErrorCode, string(failure.Code)))
	}
	s.finish(rc, !result.Succeeded(), attrs...)
	return c.JSON(status, result)
}

// ParseEventBatch parses many phrases against the same reference instant.
// POST /api/v1/events/parse/batch
// Individual parse failures are reported inside results; the response is 200.
func (s *APIV1Service) ParseEventBatch(c echo.Context) error {
	rc := s.begin(c, "parse_event_batch", "")

	var req ParseEventBatchRequest
	if err := c.Bind(&req); err != nil {
		return s.fail(c, rc, apierrors.InvalidArgument("invalid request body"))
	}
	if len(req.Texts) == 0 {
		return s.fail(c, rc, apierrors.InvalidArgument("texts must not be empty"))
	}
	if limit := s.maxBatchSize(); len(req.Texts) > limit {
		return s.fail(c, rc, apierrors.InvalidArgument(fmt.Sprintf("at most %d texts per batch", limit)))
	}
	opts, apiErr := parseOptions(req.ReferenceTime, req.Timezone)
	if apiErr != nil {
		return s.fail(c, rc, apiErr)
	}

	results, err := s.EventService.ParseBatch(c.Request().Context(), req.Texts, opts)
	if err != nil {
		return s.fail(c, rc, apierrors.FromError(err, "failed to parse batch"))
	}

	failed := 0
	for _, r := range results {
		if !r.Succeeded() {
			failed++
		}
	}
	s.finish(rc, false, slog.Int("texts", len(results)), slog.Int("parse_failures", failed))
	return c.JSON(http.StatusOK, ParseEventBatchResponse{Results: results})
}

// ExportEventICS parses a phrase and returns it as an iCalendar file.
// GET /api/v1/events/parse/ics?text=&reference_time=&timezone=
func (s *APIV1Service) ExportEventICS(c echo.Context) error {
	rc := s.begin(c, "export_event_ics", "")

	text := c.QueryParam("text")
	opts, apiErr := parseOptions(c.QueryParam("reference_time"), c.QueryParam("timezone"))
	if apiErr != nil {
		return s.fail(c, rc, apiErr)
	}

	result, err := s.EventService.Parse(c.Request().Context(), text, opts)
	if err != nil {
		return s.fail(c, rc, apierrors.FromError(err, "failed to parse event"))
	}
	success, ok := result.(*nlevent.Success)
	if !ok {
		failure := apierrors.FromParseError(result.(*nlevent.Failure).Err)
		s.finish(rc, true, slog.String(observability.LogFieldErrorCode, string(failure.Code)))
		return c.JSON(failure.HTTPStatus(), result)
	}

	ics, err := nlevent.ToICS(success.Event, shortuuid.New()+"@yotei", s.now())
	if err != nil {
		return s.fail(c, rc, apierrors.Internal("failed to render calendar", err))
	}
	s.finish(rc, false)
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="event.ics"`)
	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(ics))
}

// ListExamples returns the example phrases.
// GET /api/v1/events/examples
func (s *APIV1Service) ListExamples(c echo.Context) error {
	return c.JSON(http.StatusOK, ExamplesResponse{Examples: nlevent.Examples()})
}

func (s *APIV1Service) maxBatchSize() int {
	if s.Profile != nil && s.Profile.MaxBatchSize > 0 {
		return s.Profile.MaxBatchSize
	}
	return 100
}
