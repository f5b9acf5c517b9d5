// Package nlevent turns Japanese free-text phrases such as "明日の午後2時に会議"
// into calendar events.
//
// Parsing runs in two stages. The temporal resolver finds the first date/time
// expression and resolves it against a reference instant; the title extractor
// cuts that span out of the text and trims the particles around it. Parsing is
// a pure function of the text and the reference instant.
package nlevent

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultDuration is the event length used when no end time is given.
	DefaultDuration = time.Hour
	// DefaultPlaceholderTitle is used when nothing but the date/time remains.
	DefaultPlaceholderTitle = "イベント"
)

// Config configures a Parser.
type Config struct {
	DefaultDuration  time.Duration // Event length without an explicit end (default: 1h)
	PlaceholderTitle string        // Title when extraction yields nothing (default: イベント)
}

// DefaultConfig returns the default parser configuration.
func DefaultConfig() Config {
	return Config{
		DefaultDuration:  DefaultDuration,
		PlaceholderTitle: DefaultPlaceholderTitle,
	}
}

// Parser parses natural-language event phrases.
type Parser struct {
	cfg Config
	now func() time.Time
}

// NewParser creates a parser. Zero fields in cfg fall back to defaults.
func NewParser(cfg Config) *Parser {
	if cfg.DefaultDuration <= 0 {
		cfg.DefaultDuration = DefaultDuration
	}
	if strings.TrimSpace(cfg.PlaceholderTitle) == "" {
		cfg.PlaceholderTitle = DefaultPlaceholderTitle
	}
	return &Parser{
		cfg: cfg,
		now: time.Now,
	}
}

// Parse extracts an event from text. Relative expressions are resolved
// against ref; a zero ref means the current time. Parse never panics: every
// outcome is reported through the returned ParseResult.
func (p *Parser) Parse(text string, ref time.Time) (result ParseResult) {
	if strings.TrimSpace(text) == "" {
		return &Failure{Err: &ParseError{Kind: EmptyInput}, Text: text}
	}
	if ref.IsZero() {
		ref = p.now()
	}

	defer func() {
		if r := recover(); r != nil {
			result = &Failure{
				Err:  &ParseError{Kind: InternalParseFault, Detail: fmt.Sprint(r)},
				Text: text,
			}
		}
	}()

	m, ok := resolveFunc(text, ref)
	if !ok {
		return &Failure{Err: &ParseError{Kind: NoTemporalExpression}, Text: text}
	}

	end := m.Start.Add(p.cfg.DefaultDuration)
	if m.End != nil {
		end = *m.End
	}

	return &Success{
		Event: ParsedEvent{
			Title:       extractTitle(text, m, p.cfg.PlaceholderTitle),
			StartTime:   m.Start,
			EndTime:     end,
			Description: fmt.Sprintf("自然言語入力: %q", text),
		},
		Text: text,
	}
}

var defaultParser = NewParser(DefaultConfig())

// Parse parses text with the default configuration.
func Parse(text string, ref time.Time) ParseResult {
	return defaultParser.Parse(text, ref)
}
