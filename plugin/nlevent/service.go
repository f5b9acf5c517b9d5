package nlevent

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/hrygo/yotei/plugin/cache"
	"github.com/hrygo/yotei/server/timezone"
)

// EventService defines the event parsing service interface.
// Consumers: HTTP API, CLI.
type EventService interface {
	// Parse extracts one event from text.
	// Supports: "明日の午後2時に会議", "来週の金曜日の10時から12時まで研修"
	Parse(ctx context.Context, text string, opts ParseOptions) (ParseResult, error)

	// ParseBatch parses every text against the same options. Results keep the
	// order of texts.
	ParseBatch(ctx context.Context, texts []string, opts ParseOptions) ([]ParseResult, error)
}

// ParseOptions controls how relative expressions are resolved.
type ParseOptions struct {
	// Reference is the instant relative expressions are resolved against.
	// Zero means now.
	Reference time.Time
	// Timezone is an IANA name. When set, Reference is converted to it first.
	Timezone string
}

// ServiceConfig configures a Service.
type ServiceConfig struct {
	Parser          Config
	DefaultTimezone string
	BatchLimit      int           // Concurrent parses per batch (default: 4)
	CacheCapacity   int           // Memoised results (default: 1000)
	CacheTTL        time.Duration // Memo lifetime (default: 5m)
}

// Service implements EventService on top of Parser with memoisation.
type Service struct {
	parser     *Parser
	defaultLoc *time.Location
	batchLimit int
	memo       *cache.LRU[ParseResult]
	now        func() time.Time
}

// NewService creates a new event service. An unknown default timezone falls
// back to UTC.
func NewService(cfg ServiceConfig) *Service {
	loc, err := timezone.ParseTimezone(cfg.DefaultTimezone)
	if err != nil {
		loc = timezone.UTC
	}
	if cfg.BatchLimit <= 0 {
		cfg.BatchLimit = 4
	}
	return &Service{
		parser:     NewParser(cfg.Parser),
		defaultLoc: loc,
		batchLimit: cfg.BatchLimit,
		memo:       cache.NewLRU[ParseResult](cfg.CacheCapacity, cfg.CacheTTL),
		now:        time.Now,
	}
}

// Parse implements EventService. The returned error is only set for invalid
// options or a cancelled context; parse failures are Failure results.
func (s *Service) Parse(ctx context.Context, text string, opts ParseOptions) (ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ref, err := s.reference(opts)
	if err != nil {
		return nil, err
	}
	return s.parse(text, ref), nil
}

// ParseBatch implements EventService.
func (s *Service) ParseBatch(ctx context.Context, texts []string, opts ParseOptions) ([]ParseResult, error) {
	ref, err := s.reference(opts)
	if err != nil {
		return nil, err
	}

	results := make([]ParseResult, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchLimit)
	for i, text := range texts {
		i, text := i, text
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.parse(text, ref)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "batch parse interrupted")
	}
	return results, nil
}

func (s *Service) parse(text string, ref time.Time) ParseResult {
	key := memoKey(text, ref)
	if r, ok := s.memo.Get(key); ok {
		return r
	}
	r := s.parser.Parse(text, ref)
	s.memo.Set(key, r, 0)
	return r
}

// reference resolves the options to a concrete instant in the right location.
func (s *Service) reference(opts ParseOptions) (time.Time, error) {
	ref := opts.Reference
	if ref.IsZero() {
		ref = s.now().In(s.defaultLoc)
	}
	if opts.Timezone != "" {
		loc, err := timezone.ParseTimezone(opts.Timezone)
		if err != nil {
			return time.Time{}, errors.Wrap(err, "failed to resolve timezone")
		}
		ref = ref.In(loc)
	}
	return ref, nil
}

// memoKey identifies a parse by its text and the reference wall clock, since
// the same instant in two locations can resolve to different calendar days.
func memoKey(text string, ref time.Time) string {
	return fmt.Sprintf("%s|%s|%s", text, ref.Format(time.RFC3339Nano), ref.Location())
}
