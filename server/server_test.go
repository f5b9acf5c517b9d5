package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/yotei/internal/profile"
	storetest "github.com/hrygo/yotei/store/test"
)

func newTestProfile() *profile.Profile {
	p := &profile.Profile{Mode: "prod", Version: "0.2.0", Timezone: "Asia/Tokyo"}
	p.FromEnv()
	p.RateLimitRPS = 1
	p.RateLimitBurst = 3
	return p
}

func TestServer_Routes(t *testing.T) {
	ctx := context.Background()
	s, err := NewServer(ctx, newTestProfile(), storetest.NewTestingStore(ctx, t))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/events/parse",
		strings.NewReader(`{"text":"明日の午後2時に会議","reference_time":"2024-03-01T10:00:00+09:00"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"title":"会議"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestServer_RateLimit(t *testing.T) {
	ctx := context.Background()
	s, err := NewServer(ctx, newTestProfile(), storetest.NewTestingStore(ctx, t))
	require.NoError(t, err)

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/events/examples", nil)
		req.RemoteAddr = "192.0.2.10:5000"
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, 200, 429}, codes)
}

func TestServer_InvalidRetentionSchedule(t *testing.T) {
	ctx := context.Background()
	p := newTestProfile()
	p.RetentionSchedule = "whenever"

	_, err := NewServer(ctx, p, storetest.NewTestingStore(ctx, t))
	assert.Error(t, err)
}

func TestServer_StartShutdown(t *testing.T) {
	ctx := context.Background()
	p := newTestProfile()
	p.Addr = "127.0.0.1"
	p.Port = 0

	s, err := NewServer(ctx, p, storetest.NewTestingStore(ctx, t))
	require.NoError(t, err)
	require.NoError(t, s.Start(ctx))

	addr := s.echoServer.Listener.Addr().String()
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	s.Shutdown(ctx)
}
