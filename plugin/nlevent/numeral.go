package nlevent

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/width"
)

// numPattern matches an ASCII or kanji numeral. The two forms are never mixed.
const numPattern = `([0-9]{1,4}|[〇一二三四五六七八九十]{1,5})`

var kanjiDigits = map[rune]int{
	'〇': 0,
	'一': 1,
	'二': 2,
	'三': 3,
	'四': 4,
	'五': 5,
	'六': 6,
	'七': 7,
	'八': 8,
	'九': 9,
}

// parseNumeral converts "15", "十五", "二十" or "二〇二四" to an int.
func parseNumeral(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}

	total, digits := 0, -1
	seenTen := false
	for _, r := range s {
		if r == '十' {
			if seenTen {
				return 0, false
			}
			seenTen = true
			if digits < 0 {
				digits = 1
			}
			total = digits * 10
			digits = -1
			continue
		}
		d, ok := kanjiDigits[r]
		if !ok {
			return 0, false
		}
		if digits < 0 {
			digits = d
		} else {
			// Positional form such as 二〇二四.
			digits = digits*10 + d
		}
	}
	if digits >= 0 {
		total += digits
	}
	return total, true
}

// isNumeralRune reports whether r can be part of a numeral.
func isNumeralRune(r rune) bool {
	if r >= '0' && r <= '9' {
		return true
	}
	_, ok := kanjiDigits[r]
	return ok || r == '十'
}

// foldWidth maps full-width and half-width forms to their canonical width so
// that "２時" and "2時" match the same patterns. The returned offsets slice has
// len(folded)+1 entries mapping every folded byte back to the byte offset of
// the rune it came from in the original text.
func foldWidth(text string) (string, []int) {
	var b strings.Builder
	b.Grow(len(text))
	offsets := make([]int, 0, len(text)+1)

	for i, r := range text {
		if p := width.LookupRune(r); p.Folded() != 0 {
			r = p.Folded()
		}
		before := b.Len()
		b.WriteRune(r)
		for j := before; j < b.Len(); j++ {
			offsets = append(offsets, i)
		}
	}
	offsets = append(offsets, len(text))
	return b.String(), offsets
}

// runeBefore returns the rune that ends at byte offset i of s.
func runeBefore(s string, i int) (rune, bool) {
	if i <= 0 {
		return 0, false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return r, true
}

// runeAt returns the rune that starts at byte offset i of s.
func runeAt(s string, i int) (rune, bool) {
	if i >= len(s) {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return r, true
}
