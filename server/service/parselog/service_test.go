package parselog

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/yotei/store"
)

// memStore is an in-memory Store ordered like the real drivers.
type memStore struct {
	mu   sync.Mutex
	logs []*store.ParseLog
	next int32
	find *store.FindParseLog
}

func (m *memStore) CreateParseLog(_ context.Context, create *store.ParseLog) (*store.ParseLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	log := *create
	log.ID = m.next
	if log.CreatedTs == 0 {
		log.CreatedTs = 1709251200 + int64(m.next)
	}
	m.logs = append(m.logs, &log)
	return &log, nil
}

func (m *memStore) ListParseLogs(_ context.Context, find *store.FindParseLog) ([]*store.ParseLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.find = find
	var out []*store.ParseLog
	for _, log := range m.logs {
		if find.UserID != nil && log.UserID != *find.UserID {
			continue
		}
		out = append(out, log)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedTs > out[j].CreatedTs })
	if find.Limit > 0 && len(out) > find.Limit {
		out = out[:find.Limit]
	}
	return out, nil
}

func ptr[T any](v T) *T { return &v }

func TestService_Create(t *testing.T) {
	ms := &memStore{}
	svc := NewService(ms)

	log, err := svc.Create(context.Background(), &CreateRequest{
		UserID:          " user-1 ",
		InputText:       "明日の15時に会議",
		ParsedResult:    json.RawMessage(`{"success":true,"event":{"title":"会議"},"originalText":"明日の15時に会議"}`),
		ConfidenceScore: ptr(0.9),
		UserAccepted:    ptr(true),
	})
	require.NoError(t, err)

	assert.Equal(t, "user-1", log.UserID)
	assert.True(t, log.Success)
	assert.Equal(t, "会議", log.Title)
	require.NotNil(t, log.ParsedResult)
	assert.JSONEq(t, `{"success":true,"event":{"title":"会議"},"originalText":"明日の15時に会議"}`, *log.ParsedResult)
}

func TestService_Create_Validation(t *testing.T) {
	svc := NewService(&memStore{})

	tests := []struct {
		name  string
		req   *CreateRequest
		field string
	}{
		{"missing user", &CreateRequest{InputText: "会議"}, "userId"},
		{"blank user", &CreateRequest{UserID: "  ", InputText: "会議"}, "userId"},
		{"missing text", &CreateRequest{UserID: "u"}, "inputText"},
		{"confidence above one", &CreateRequest{UserID: "u", InputText: "x", ConfidenceScore: ptr(1.5)}, "confidenceScore"},
		{"confidence below zero", &CreateRequest{UserID: "u", InputText: "x", ConfidenceScore: ptr(-0.1)}, "confidenceScore"},
		{"bad timezone", &CreateRequest{UserID: "u", InputText: "x", Timezone: "Mars/Olympus"}, "timezone"},
		{"bad json", &CreateRequest{UserID: "u", InputText: "x", ParsedResult: json.RawMessage(`{`)}, "parsedResult"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.req)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.NotEmpty(t, verr.Issues)
			assert.Equal(t, tt.field, verr.Issues[0].Field)
			assert.NotEmpty(t, verr.Issues[0].Message)
		})
	}
}

func TestNewService_EnglishMessages(t *testing.T) {
	var svc *Service
	require.NotPanics(t, func() { svc = NewService(&memStore{}) })

	_, err := svc.Create(context.Background(), &CreateRequest{InputText: "会議"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Issues, 1)
	assert.Equal(t, "userId is a required field", verr.Issues[0].Message)
}

func TestService_Create_NullResult(t *testing.T) {
	svc := NewService(&memStore{})

	log, err := svc.Create(context.Background(), &CreateRequest{
		UserID:       "u",
		InputText:    "ただの文章です",
		ParsedResult: json.RawMessage(`null`),
	})
	require.NoError(t, err)
	assert.Nil(t, log.ParsedResult)
	assert.False(t, log.Success)
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		raw         string
		wantSuccess bool
		wantTitle   string
	}{
		{`{"success":true,"event":{"title":"会議"}}`, true, "会議"},
		{`{"success":false,"error":"date/time not recognized"}`, false, ""},
		{`{"title":"会議"}`, true, "会議"},
		{`[1,2]`, false, ""},
	}

	for _, tt := range tests {
		success, title := summarize([]byte(tt.raw))
		assert.Equal(t, tt.wantSuccess, success, tt.raw)
		assert.Equal(t, tt.wantTitle, title, tt.raw)
	}
}

func seed(t *testing.T, svc *Service, userID string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		title := fmt.Sprintf("会議%d", i)
		raw := fmt.Sprintf(`{"success":%t,"event":{"title":%q}}`, i%2 == 0, title)
		_, err := svc.Create(context.Background(), &CreateRequest{
			UserID:       userID,
			InputText:    "明日の午後2時に" + title,
			ParsedResult: json.RawMessage(raw),
			UserAccepted: ptr(i%3 == 0),
		})
		require.NoError(t, err)
	}
}

func TestService_List_Limits(t *testing.T) {
	ms := &memStore{}
	svc := NewService(ms)
	seed(t, svc, "u", 3)

	logs, err := svc.List(context.Background(), &ListRequest{UserID: "u"})
	require.NoError(t, err)
	assert.Len(t, logs, 3)
	assert.Equal(t, DefaultListLimit, ms.find.Limit)
	assert.Equal(t, "会議2", logs[0].Title)

	_, err = svc.List(context.Background(), &ListRequest{UserID: "u", Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, MaxListLimit, ms.find.Limit)

	logs, err = svc.List(context.Background(), &ListRequest{UserID: "u", Limit: 1})
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestService_List_Validation(t *testing.T) {
	svc := NewService(&memStore{})

	var verr *ValidationError
	_, err := svc.List(context.Background(), &ListRequest{UserID: " "})
	assert.ErrorAs(t, err, &verr)

	_, err = svc.List(context.Background(), &ListRequest{UserID: "u", Limit: -1})
	assert.ErrorAs(t, err, &verr)
}

func TestService_List_Filter(t *testing.T) {
	svc := NewService(&memStore{})
	seed(t, svc, "u", 6)
	seed(t, svc, "other", 2)

	tests := []struct {
		filter string
		limit  int
		want   []string
	}{
		{`success`, 0, []string{"会議4", "会議2", "会議0"}},
		{`success && user_accepted`, 0, []string{"会議0"}},
		{`title.contains("5")`, 0, []string{"会議5"}},
		{`!success`, 2, []string{"会議5", "会議3"}},
		{`input_text.startsWith("明日")`, 1, []string{"会議5"}},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			logs, err := svc.List(context.Background(), &ListRequest{UserID: "u", Limit: tt.limit, Filter: tt.filter})
			require.NoError(t, err)

			titles := make([]string, len(logs))
			for i, log := range logs {
				titles[i] = log.Title
				assert.Equal(t, "u", log.UserID)
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestCompileFilter_Errors(t *testing.T) {
	for _, expr := range []string{`title +`, `created_ts + 1`, `unknown_field`} {
		t.Run(expr, func(t *testing.T) {
			_, err := CompileFilter(expr)
			var ferr *FilterError
			require.ErrorAs(t, err, &ferr)
			assert.Equal(t, expr, ferr.Expr)
		})
	}
}
