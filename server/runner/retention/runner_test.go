package retention

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/yotei/store"
	storetest "github.com/hrygo/yotei/store/test"
)

func TestNewRunner_Schedule(t *testing.T) {
	tests := []struct {
		spec    string
		wantErr bool
	}{
		{"@daily", false},
		{"@every 1h", false},
		{"0 3 * * *", false},
		{"not a schedule", true},
		{"61 * * * *", true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			_, err := NewRunner(nil, time.Hour, tt.spec)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRunner_Disabled(t *testing.T) {
	// A disabled runner ignores the schedule entirely.
	r, err := NewRunner(nil, 0, "not a schedule")
	require.NoError(t, err)
	assert.False(t, r.Enabled())

	n, err := r.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	done := make(chan struct{})
	go func() {
		r.Run(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("disabled runner did not return")
	}
}

func TestRunner_RunOnce(t *testing.T) {
	ctx := context.Background()
	ts := storetest.NewTestingStore(ctx, t)

	now := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	for i, age := range []time.Duration{48 * time.Hour, 40 * 24 * time.Hour, 31 * 24 * time.Hour} {
		_, err := ts.CreateParseLog(ctx, &store.ParseLog{
			UserID:    "user-1",
			InputText: "明日の午後2時に会議",
			CreatedTs: now.Add(-age).Unix() + int64(i),
		})
		require.NoError(t, err)
	}

	r, err := NewRunner(ts, 30*24*time.Hour, "@daily")
	require.NoError(t, err)
	r.now = func() time.Time { return now }

	n, err := r.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	userID := "user-1"
	logs, err := ts.ListParseLogs(ctx, &store.FindParseLog{UserID: &userID})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, now.Add(-48*time.Hour).Unix(), logs[0].CreatedTs)
}

func TestRunner_RunStopsOnCancel(t *testing.T) {
	r, err := NewRunner(nil, time.Hour, "@daily")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop")
	}
}

func TestRunner_RunOnceCancelled(t *testing.T) {
	r, err := NewRunner(nil, time.Hour, "@daily")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.RunOnce(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
