package nlevent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_Span(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantText   string
		wantOffset int
		wantEnd    bool
	}{
		{"leading", "明日の午後2時に会議", "明日の午後2時", 0, false},
		{"trailing", "会議を明日の午後2時に", "明日の午後2時", len("会議を"), false},
		{"range", "研修は10時から12時まで", "10時から12時まで", len("研修は"), true},
		{"full-width", "会議は明日の午後２時", "明日の午後２時", len("会議は"), false},
		{"date only", "来週の金曜日に研修", "来週の金曜日", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := resolve(tt.input, testRef)
			require.True(t, ok)

			assert.Equal(t, tt.wantText, m.Text)
			assert.Equal(t, tt.wantOffset, m.Offset)
			assert.Equal(t, len(tt.wantText), m.Length)
			assert.Equal(t, tt.wantText, tt.input[m.Offset:m.Offset+m.Length])
			assert.Equal(t, tt.wantEnd, m.End != nil)
		})
	}
}

func TestResolve_FirstMatchWins(t *testing.T) {
	m, ok := resolve("明日の会議と明後日の研修", testRef)
	require.True(t, ok)

	assert.Equal(t, "明日", m.Text)
	assert.Equal(t, "2024-03-02", m.Start.Format("2006-01-02"))
}

func TestResolve_DoesNotStartInsideNumber(t *testing.T) {
	m, ok := resolve("13時に会議", testRef)
	require.True(t, ok)

	assert.Equal(t, "13時", m.Text)
	assert.Equal(t, 13, m.Start.Hour())
}

func TestResolve_DayAfterMonthWord(t *testing.T) {
	m, ok := resolve("毎月1日に掃除", testRef)
	require.True(t, ok)
	assert.Equal(t, "1日", m.Text)

	_, ok = resolve("2月30日に会議", testRef)
	assert.False(t, ok)
}

func TestResolve_RejectsDurations(t *testing.T) {
	for _, input := range []string{"3日間の研修", "2時間の会議", "1日中作業"} {
		t.Run(input, func(t *testing.T) {
			_, ok := resolve(input, testRef)
			assert.False(t, ok)
		})
	}
}

func TestResolve_PeriodWordNeedsDate(t *testing.T) {
	_, ok := resolve("夜景を見る", testRef)
	assert.False(t, ok)

	m, ok := resolve("明日の夜景", testRef)
	require.True(t, ok)
	assert.Equal(t, "明日", m.Text)
}

func TestResolve_RangeEndAfterStart(t *testing.T) {
	m, ok := resolve("22時から2時まで", testRef)
	require.True(t, ok)
	require.NotNil(t, m.End)

	assert.True(t, m.End.After(m.Start))
	assert.Equal(t, "2024-03-02 02:00", m.End.Format("2006-01-02 15:04"))
}

func TestClock_Normalize(t *testing.T) {
	tests := []struct {
		in     clock
		want   int
		wantOK bool
	}{
		{clock{hour: 2, period: "午後"}, 14, true},
		{clock{hour: 12, period: "午後"}, 12, true},
		{clock{hour: 15, period: "午後"}, 15, true},
		{clock{hour: 12, period: "午前"}, 0, true},
		{clock{hour: 9, period: "朝"}, 9, true},
		{clock{hour: 13, period: "午前"}, 0, false},
		{clock{hour: 7, period: "夜"}, 19, true},
		{clock{hour: 12, period: "夜"}, 0, true},
		{clock{hour: 12, period: "昼"}, 12, true},
		{clock{hour: 23}, 23, true},
		{clock{hour: 24}, 0, false},
		{clock{hour: 10, minute: 60}, 0, false},
	}

	for _, tt := range tests {
		got, ok := tt.in.normalize()
		assert.Equal(t, tt.wantOK, ok, "%+v", tt.in)
		if tt.wantOK {
			assert.Equal(t, tt.want, got.hour, "%+v", tt.in)
		}
	}
}
