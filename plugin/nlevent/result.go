package nlevent

import (
	"encoding/json"
	"fmt"
	"time"
)

// ParsedEvent is a calendar event extracted from free text.
type ParsedEvent struct {
	Title       string    `json:"title" yaml:"title"`
	StartTime   time.Time `json:"startTime" yaml:"startTime"`
	EndTime     time.Time `json:"endTime" yaml:"endTime"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
}

// Duration returns the length of the event.
func (e ParsedEvent) Duration() time.Duration {
	return e.EndTime.Sub(e.StartTime)
}

// ErrorKind classifies why a phrase could not be turned into an event.
type ErrorKind int

const (
	// EmptyInput means the text was empty or whitespace only.
	EmptyInput ErrorKind = iota + 1
	// NoTemporalExpression means no date or time vocabulary was found.
	NoTemporalExpression
	// InternalParseFault wraps an unexpected failure during resolution.
	InternalParseFault
)

// String returns the stable code used in logs and API payloads.
func (k ErrorKind) String() string {
	switch k {
	case EmptyInput:
		return "EMPTY_INPUT"
	case NoTemporalExpression:
		return "NO_TEMPORAL_EXPRESSION"
	case InternalParseFault:
		return "INTERNAL_PARSE_FAULT"
	default:
		return "UNKNOWN"
	}
}

// ParseError is the failure value carried by a Failure result.
type ParseError struct {
	Kind   ErrorKind
	Detail string
}

// Error returns the user-facing message for the failure.
func (e *ParseError) Error() string {
	switch e.Kind {
	case EmptyInput:
		return "text not entered"
	case NoTemporalExpression:
		return "date/time not recognized"
	default:
		return fmt.Sprintf("parse error: %s", e.Detail)
	}
}

// ParseResult is either a *Success or a *Failure. Callers branch with a type
// switch or on Succeeded.
type ParseResult interface {
	// OriginalText returns the input the result was produced from.
	OriginalText() string
	// Succeeded reports whether the result is a *Success.
	Succeeded() bool

	sealed()
}

// Success holds a parsed event.
type Success struct {
	Event ParsedEvent
	Text  string
}

// Failure holds the reason a phrase was rejected.
type Failure struct {
	Err  *ParseError
	Text string
}

func (r *Success) OriginalText() string { return r.Text }
func (r *Success) Succeeded() bool      { return true }
func (*Success) sealed()                {}

func (r *Failure) OriginalText() string { return r.Text }
func (r *Failure) Succeeded() bool      { return false }
func (*Failure) sealed()                {}

// resultView is the wire shape shared by both variants.
type resultView struct {
	Success      bool         `json:"success" yaml:"success"`
	Event        *ParsedEvent `json:"event,omitempty" yaml:"event,omitempty"`
	Error        string       `json:"error,omitempty" yaml:"error,omitempty"`
	OriginalText string       `json:"originalText" yaml:"originalText"`
}

// View returns the wire representation of a result.
func View(r ParseResult) any {
	switch v := r.(type) {
	case *Success:
		ev := v.Event
		return resultView{Success: true, Event: &ev, OriginalText: v.Text}
	case *Failure:
		return resultView{Success: false, Error: v.Err.Error(), OriginalText: v.Text}
	default:
		return nil
	}
}

func (r *Success) MarshalJSON() ([]byte, error) {
	return json.Marshal(View(r))
}

func (r *Failure) MarshalJSON() ([]byte, error) {
	return json.Marshal(View(r))
}

func (r *Success) MarshalYAML() (any, error) {
	return View(r), nil
}

func (r *Failure) MarshalYAML() (any, error) {
	return View(r), nil
}
