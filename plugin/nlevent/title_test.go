package nlevent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		match temporalMatch
		want  string
	}{
		{
			name:  "suffix particle",
			text:  "明日の午後2時に会議",
			match: temporalMatch{Text: "明日の午後2時", Offset: 0, Length: len("明日の午後2時")},
			want:  "会議",
		},
		{
			name:  "nested particles",
			text:  "会議を明日の午後2時に",
			match: temporalMatch{Text: "明日の午後2時", Offset: len("会議を"), Length: len("明日の午後2時")},
			want:  "会議",
		},
		{
			name:  "residual time fragment",
			text:  "明日の会議 15時半から",
			match: temporalMatch{Text: "明日", Offset: 0, Length: len("明日")},
			want:  "会議",
		},
		{
			name:  "stale offsets fall back to substring",
			text:  "打ち合わせは明日",
			match: temporalMatch{Text: "明日", Offset: 100, Length: len("明日")},
			want:  "打ち合わせ",
		},
		{
			name:  "whitespace collapsed",
			text:  "明日  チーム   定例",
			match: temporalMatch{Text: "明日", Offset: 0, Length: len("明日")},
			want:  "チーム 定例",
		},
		{
			name:  "only particles left",
			text:  "明日の午後2時から",
			match: temporalMatch{Text: "明日の午後2時", Offset: 0, Length: len("明日の午後2時")},
			want:  "イベント",
		},
		{
			name:  "kanji word kept",
			text:  "明日に一時停止",
			match: temporalMatch{Text: "明日", Offset: 0, Length: len("明日")},
			want:  "一時停止",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractTitle(tt.text, tt.match, DefaultPlaceholderTitle))
		})
	}
}

func TestTrimParticles(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"に会議", "会議"},
		{"会議をに", "会議"},
		{"から研修まで", "研修"},
		{" で 打ち合わせ ", "打ち合わせ"},
		{"の", ""},
		{"家族との食事", "家族との食事"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, trimParticles(tt.in), tt.in)
	}
}
