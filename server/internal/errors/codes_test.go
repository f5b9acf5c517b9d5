package errors

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/hrygo/yotei/plugin/nlevent"
)

func TestAPIError_Error(t *testing.T) {
	err := InvalidArgument("text is required")
	assert.Equal(t, "[INVALID_ARGUMENT] text is required", err.Error())

	err = Internal("failed to list parse logs", fmt.Errorf("db closed"))
	assert.Equal(t, "[INTERNAL] failed to list parse logs: db closed", err.Error())
}

func TestAPIError_HTTPStatus(t *testing.T) {
	tests := []struct {
		err  *APIError
		want int
	}{
		{InvalidArgument("x"), http.StatusBadRequest},
		{InvalidFilter(fmt.Errorf("x")), http.StatusBadRequest},
		{FromParseError(&nlevent.ParseError{Kind: nlevent.EmptyInput}), http.StatusBadRequest},
		{FromParseError(&nlevent.ParseError{Kind: nlevent.NoTemporalExpression}), http.StatusUnprocessableEntity},
		{FromParseError(&nlevent.ParseError{Kind: nlevent.InternalParseFault, Detail: "x"}), http.StatusInternalServerError},
		{NotFound("x"), http.StatusNotFound},
		{RateLimitExceeded("x"), http.StatusTooManyRequests},
		{ContextCanceled(context.Canceled), http.StatusRequestTimeout},
		{Internal("x", nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}

func TestFromParseError(t *testing.T) {
	err := FromParseError(&nlevent.ParseError{Kind: nlevent.NoTemporalExpression})
	assert.Equal(t, ErrCodeNoTemporalExpression, err.Code)
	assert.Equal(t, "date/time not recognized", err.Message)
}

func TestFromError(t *testing.T) {
	wrapped := pkgerrors.Wrap(context.Canceled, "batch parse interrupted")
	assert.Equal(t, ErrCodeContextCanceled, FromError(wrapped, "x").Code)

	original := NotFound("parse log not found")
	assert.Same(t, original, FromError(pkgerrors.Wrap(original, "lookup"), "x"))

	err := FromError(fmt.Errorf("disk full"), "failed to save")
	assert.Equal(t, ErrCodeInternal, err.Code)
	assert.Equal(t, "failed to save", err.Message)
}

func TestIsCode(t *testing.T) {
	err := pkgerrors.Wrap(RateLimitExceeded("slow down"), "middleware")
	assert.True(t, IsCode(err, ErrCodeRateLimitExceeded))
	assert.False(t, IsCode(err, ErrCodeInternal))
	assert.Equal(t, ErrCodeInternal, GetCodeFromError(fmt.Errorf("x"), ErrCodeInternal))
}

func TestAPIError_WithContext(t *testing.T) {
	err := InvalidArgument("too many texts").WithContext("max", 100)
	assert.Equal(t, 100, err.Context["max"])
}
