// Package parselog records parse attempts and how users reacted to them, and
// lists them back for review.
package parselog

import (
	"context"
	"encoding/json"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pkg/errors"

	"github.com/hrygo/yotei/store"
)

const (
	// DefaultListLimit is used when a list request sets no limit.
	DefaultListLimit = 20
	// MaxListLimit caps every list request.
	MaxListLimit = 100
	// filterScanLimit bounds how many rows a filtered list inspects.
	filterScanLimit = 1000
)

// Store is the interface for store operations needed by the parse log service.
type Store interface {
	CreateParseLog(ctx context.Context, create *store.ParseLog) (*store.ParseLog, error)
	ListParseLogs(ctx context.Context, find *store.FindParseLog) ([]*store.ParseLog, error)
}

// CreateRequest is the payload for recording a parse attempt.
type CreateRequest struct {
	UserID          string          `json:"userId" validate:"required"`
	InputText       string          `json:"inputText" validate:"required"`
	ParsedResult    json.RawMessage `json:"parsedResult,omitempty"`
	ConfidenceScore *float64        `json:"confidenceScore,omitempty" validate:"omitempty,gte=0,lte=1"`
	UserAccepted    *bool           `json:"userAccepted,omitempty"`
	Timezone        string          `json:"timezone,omitempty" validate:"omitempty,timezone"`
}

// ListRequest selects a user's most recent parse logs.
type ListRequest struct {
	UserID string `validate:"required"`
	Limit  int    `validate:"gte=0"`
	Filter string
}

// Issue describes one rejected field.
type Issue struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// ValidationError is returned when a request fails validation.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		msgs[i] = issue.Message
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}

// Service validates and stores parse logs.
type Service struct {
	store      Store
	validate   *validator.Validate
	translator ut.Translator
}

// NewService creates a parse log service.
func NewService(s Store) *Service {
	v, trans := mustValidator()
	return &Service{store: s, validate: v, translator: trans}
}

// mustValidator builds a validator that reports English messages keyed by json
// field names.
func mustValidator() (*validator.Validate, ut.Translator) {
	enLoc := en.New()
	trans, found := ut.New(enLoc, enLoc).GetTranslator(enLoc.Locale())
	if !found {
		panic("parselog: english translator not registered")
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	// Report json names so issues match the request body.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	if err := en_translations.RegisterDefaultTranslations(v, trans); err != nil {
		panic(errors.Wrap(err, "parselog: failed to register translations"))
	}
	return v, trans
}

// Create validates req and stores it. Success and Title are derived from the
// parsed result the client received.
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*store.ParseLog, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	req.InputText = strings.TrimSpace(req.InputText)
	if err := s.check(req); err != nil {
		return nil, err
	}

	create := &store.ParseLog{
		UserID:          req.UserID,
		InputText:       req.InputText,
		ConfidenceScore: req.ConfidenceScore,
		UserAccepted:    req.UserAccepted,
		Timezone:        req.Timezone,
	}
	if raw := strings.TrimSpace(string(req.ParsedResult)); raw != "" && raw != "null" {
		if !json.Valid([]byte(raw)) {
			return nil, &ValidationError{Issues: []Issue{{
				Field:   "parsedResult",
				Tag:     "json",
				Message: "parsedResult must be valid JSON",
			}}}
		}
		create.ParsedResult = &raw
		create.Success, create.Title = summarize([]byte(raw))
	}

	log, err := s.store.CreateParseLog(ctx, create)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create parse log")
	}
	return log, nil
}

// List returns the newest logs of a user, at most MaxListLimit. A filter is
// applied after loading, so it only sees the most recent filterScanLimit rows.
func (s *Service) List(ctx context.Context, req *ListRequest) ([]*store.ParseLog, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	if err := s.check(req); err != nil {
		return nil, err
	}
	limit := req.Limit
	if limit == 0 {
		limit = DefaultListLimit
	}
	limit = min(limit, MaxListLimit)

	var filter *Filter
	if strings.TrimSpace(req.Filter) != "" {
		f, err := CompileFilter(req.Filter)
		if err != nil {
			return nil, err
		}
		filter = f
	}

	find := &store.FindParseLog{UserID: &req.UserID, Limit: limit}
	if filter != nil {
		find.Limit = filterScanLimit
	}
	logs, err := s.store.ListParseLogs(ctx, find)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list parse logs")
	}
	if filter == nil {
		return logs, nil
	}

	matched := make([]*store.ParseLog, 0, limit)
	for _, log := range logs {
		ok, err := filter.Match(log)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, log)
			if len(matched) == limit {
				break
			}
		}
	}
	return matched, nil
}

func (s *Service) check(req any) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, "failed to validate request")
	}
	issues := make([]Issue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, Issue{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: fe.Translate(s.translator),
		})
	}
	return &ValidationError{Issues: issues}
}

// summarize reads the outcome and title out of a stored parse result. Both the
// API result shape ({"success":..,"event":{"title":..}}) and a bare event
// ({"title":..}) are understood.
func summarize(raw []byte) (bool, string) {
	var v struct {
		Success *bool  `json:"success"`
		Title   string `json:"title"`
		Event   *struct {
			Title string `json:"title"`
		} `json:"event"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return false, ""
	}
	title := v.Title
	if v.Event != nil {
		title = v.Event.Title
	}
	if v.Success != nil {
		return *v.Success, title
	}
	return title != "", title
}
