package nlevent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	s := NewService(ServiceConfig{DefaultTimezone: "Asia/Tokyo", BatchLimit: 2})
	s.now = func() time.Time { return testRef }
	return s
}

func TestService_Parse(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	t.Run("explicit reference", func(t *testing.T) {
		r, err := s.Parse(ctx, "明日の午後2時に会議", ParseOptions{Reference: testRef})
		require.NoError(t, err)

		ev := mustSucceed(t, r)
		assert.Equal(t, "2024-03-02 14:00", ev.StartTime.Format("2006-01-02 15:04"))
	})

	t.Run("default reference", func(t *testing.T) {
		r, err := s.Parse(ctx, "明日に会議", ParseOptions{})
		require.NoError(t, err)

		ev := mustSucceed(t, r)
		assert.Equal(t, "2024-03-02", ev.StartTime.Format("2006-01-02"))
		assert.Equal(t, "Asia/Tokyo", ev.StartTime.Location().String())
	})

	t.Run("timezone shifts the calendar day", func(t *testing.T) {
		// 2024-03-01 10:00 JST is still 2024-02-29 in Los Angeles.
		r, err := s.Parse(ctx, "明日に会議", ParseOptions{Reference: testRef, Timezone: "America/Los_Angeles"})
		require.NoError(t, err)

		ev := mustSucceed(t, r)
		assert.Equal(t, "2024-03-01", ev.StartTime.Format("2006-01-02"))
	})

	t.Run("invalid timezone", func(t *testing.T) {
		_, err := s.Parse(ctx, "明日に会議", ParseOptions{Timezone: "Mars/Olympus"})
		assert.Error(t, err)
	})

	t.Run("failure is a result", func(t *testing.T) {
		r, err := s.Parse(ctx, "ただの文章です", ParseOptions{Reference: testRef})
		require.NoError(t, err)
		assert.Equal(t, NoTemporalExpression, failureKind(t, r))
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := s.Parse(cctx, "明日に会議", ParseOptions{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestService_ParseMemoised(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	first, err := s.Parse(ctx, "明日の午後2時に会議", ParseOptions{Reference: testRef})
	require.NoError(t, err)
	second, err := s.Parse(ctx, "明日の午後2時に会議", ParseOptions{Reference: testRef})
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, s.memo.Size())

	_, err = s.Parse(ctx, "明日の午後2時に会議", ParseOptions{Reference: testRef.Add(time.Minute)})
	require.NoError(t, err)
	assert.Equal(t, 2, s.memo.Size())
}

func TestService_ParseBatch(t *testing.T) {
	s := newTestService()
	texts := append(Examples(), "", "ただの文章です")

	results, err := s.ParseBatch(context.Background(), texts, ParseOptions{Reference: testRef})
	require.NoError(t, err)
	require.Len(t, results, len(texts))

	for i, r := range results {
		assert.Equal(t, texts[i], r.OriginalText())
	}
	for _, r := range results[:len(Examples())] {
		assert.True(t, r.Succeeded())
	}
	assert.Equal(t, EmptyInput, failureKind(t, results[len(texts)-2]))
	assert.Equal(t, NoTemporalExpression, failureKind(t, results[len(texts)-1]))
}

func TestService_ParseBatchCancelled(t *testing.T) {
	s := newTestService()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ParseBatch(ctx, Examples(), ParseOptions{Reference: testRef})
	assert.ErrorIs(t, err, context.Canceled)
}
