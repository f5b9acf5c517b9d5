package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	apierrors "github.com/hrygo/yotei/server/internal/errors"
	"github.com/hrygo/yotei/server/service/parselog"
	"github.com/hrygo/yotei/store"
)

// ParseLog is the API representation of a stored parse log.
type ParseLog struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	InputText       string          `json:"inputText"`
	ParsedResult    json.RawMessage `json:"parsedResult,omitempty"`
	Success         bool            `json:"success"`
	Title           string          `json:"title,omitempty"`
	Timezone        string          `json:"timezone,omitempty"`
	ConfidenceScore *float64        `json:"confidenceScore,omitempty"`
	UserAccepted    *bool           `json:"userAccepted,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ParseLogResponse wraps parse log payloads.
type ParseLogResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// CreateParseLog records a parse attempt.
// POST /api/v1/parse-logs
func (s *APIV1Service) CreateParseLog(c echo.Context) error {
	var req parselog.CreateRequest
	if err := c.Bind(&req); err != nil {
		rc := s.begin(c, "create_parse_log", "")
		return s.fail(c, rc, apierrors.InvalidArgument("invalid input"))
	}
	rc := s.begin(c, "create_parse_log", strings.TrimSpace(req.UserID))

	log, err := s.ParseLogService.Create(c.Request().Context(), &req)
	if err != nil {
		return s.fail(c, rc, s.parseLogError(err, "failed to create parse log"))
	}
	s.finish(rc, false)
	return c.JSON(http.StatusCreated, ParseLogResponse{Success: true, Data: convertParseLogFromStore(log)})
}

// ListParseLogs returns a user's newest parse logs.
// GET /api/v1/parse-logs?user_id=&limit=&filter=
func (s *APIV1Service) ListParseLogs(c echo.Context) error {
	userID := strings.TrimSpace(c.QueryParam("user_id"))
	rc := s.begin(c, "list_parse_logs", userID)
	if userID == "" {
		return s.fail(c, rc, apierrors.InvalidArgument("user_id is required"))
	}
	limit, apiErr := parseLimit(c.QueryParam("limit"))
	if apiErr != nil {
		return s.fail(c, rc, apiErr)
	}

	logs, err := s.ParseLogService.List(c.Request().Context(), &parselog.ListRequest{
		UserID: userID,
		Limit:  limit,
		Filter: c.QueryParam("filter"),
	})
	if err != nil {
		return s.fail(c, rc, s.parseLogError(err, "failed to list parse logs"))
	}

	data := make([]*ParseLog, 0, len(logs))
	for _, log := range logs {
		data = append(data, convertParseLogFromStore(log))
	}
	s.finish(rc, false)
	return c.JSON(http.StatusOK, ParseLogResponse{Success: true, Data: data})
}

// GetParseLogFeed renders a user's newest parse logs as RSS.
// GET /api/v1/parse-logs/rss?user_id=
func (s *APIV1Service) GetParseLogFeed(c echo.Context) error {
	userID := strings.TrimSpace(c.QueryParam("user_id"))
	rc := s.begin(c, "get_parse_log_feed", userID)
	if userID == "" {
		return s.fail(c, rc, apierrors.InvalidArgument("user_id is required"))
	}

	logs, err := s.ParseLogService.List(c.Request().Context(), &parselog.ListRequest{UserID: userID})
	if err != nil {
		return s.fail(c, rc, s.parseLogError(err, "failed to list parse logs"))
	}

	rss, err := s.generateParseLogRSS(c, userID, logs)
	if err != nil {
		return s.fail(c, rc, apierrors.Internal("failed to generate rss", err))
	}
	s.finish(rc, false)
	return c.Blob(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(rss))
}

func (s *APIV1Service) generateParseLogRSS(c echo.Context, userID string, logs []*store.ParseLog) (string, error) {
	baseURL := fmt.Sprintf("%s://%s", c.Scheme(), c.Request().Host)
	feed := &feeds.Feed{
		Title:       fmt.Sprintf("yotei parse logs: %s", userID),
		Link:        &feeds.Link{Href: fmt.Sprintf("%s/api/v1/parse-logs?user_id=%s", baseURL, userID)},
		Description: "Recent natural-language event parses",
		Created:     s.now(),
		Items:       make([]*feeds.Item, 0, len(logs)),
	}
	for _, log := range logs {
		title := log.Title
		if title == "" {
			title = log.InputText
		}
		status := "parsed"
		if !log.Success {
			status = "not parsed"
		}
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          log.UID,
			Title:       title,
			Link:        &feeds.Link{Href: fmt.Sprintf("%s/api/v1/parse-logs?user_id=%s#%s", baseURL, userID, log.UID)},
			Description: fmt.Sprintf("%s (%s)", log.InputText, status),
			Created:     time.Unix(log.CreatedTs, 0),
		})
	}
	rss, err := feed.ToRss()
	if err != nil {
		return "", errors.Wrap(err, "failed to render rss")
	}
	return rss, nil
}

func (s *APIV1Service) parseLogError(err error, msg string) *apierrors.APIError {
	var verr *parselog.ValidationError
	if errors.As(err, &verr) {
		return apierrors.InvalidArgument("invalid input").WithContext("details", verr.Issues)
	}
	var ferr *parselog.FilterError
	if errors.As(err, &ferr) {
		return apierrors.InvalidFilter(ferr).WithContext("details", ferr.Error())
	}
	return apierrors.FromError(err, msg)
}

// parseLimit reads an optional positive integer limit. Zero means the default.
func parseLimit(raw string) (int, *apierrors.APIError) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, apierrors.InvalidArgument("limit must be a positive integer")
	}
	return limit, nil
}

func convertParseLogFromStore(log *store.ParseLog) *ParseLog {
	pl := &ParseLog{
		ID:              log.UID,
		UserID:          log.UserID,
		InputText:       log.InputText,
		Success:         log.Success,
		Title:           log.Title,
		Timezone:        log.Timezone,
		ConfidenceScore: log.ConfidenceScore,
		UserAccepted:    log.UserAccepted,
		CreatedAt:       time.Unix(log.CreatedTs, 0).UTC(),
	}
	if log.ParsedResult != nil {
		pl.ParsedResult = json.RawMessage(*log.ParsedResult)
	}
	return pl
}
