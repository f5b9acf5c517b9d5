package nlevent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumeral(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"15", 15, true},
		{"三", 3, true},
		{"十", 10, true},
		{"十五", 15, true},
		{"二十", 20, true},
		{"二十五", 25, true},
		{"二〇二四", 2024, true},
		{"十十", 0, false},
		{"", 0, false},
		{"五x", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseNumeral(tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		if tt.wantOK {
			assert.Equal(t, tt.want, got, tt.in)
		}
	}
}

func TestFoldWidth(t *testing.T) {
	folded, offsets := foldWidth("２時")

	assert.Equal(t, "2時", folded)
	assert.Equal(t, []int{0, 3, 3, 3, 6}, offsets)

	folded, offsets = foldWidth("ａｂ")
	assert.Equal(t, "ab", folded)
	assert.Len(t, offsets, len(folded)+1)
}

func TestFoldWidth_KeepsKatakana(t *testing.T) {
	folded, _ := foldWidth("ミーティング")
	assert.Equal(t, "ミーティング", folded)
}
