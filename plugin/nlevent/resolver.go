package nlevent

import (
	"regexp"
	"time"
	"unicode/utf8"
)

// temporalMatch is the span of text the resolver consumed together with the
// instants it resolved to. Offset and Length are byte positions in the
// original (unfolded) text.
type temporalMatch struct {
	Text   string
	Offset int
	Length int
	Start  time.Time
	End    *time.Time
}

// hit is a match found by the scanner, measured in folded-text bytes.
type hit struct {
	n     int
	start time.Time
	end   *time.Time
}

var joinerPattern = regexp.MustCompile(`^(?:の|、|,|\s)*`)

// resolveFunc is swapped out in tests.
var resolveFunc = resolve

// scanner walks width-folded text looking for the first temporal expression.
type scanner struct {
	src string
	ref time.Time
}

// resolve locates the first date/time expression in text and resolves it
// against ref. The earliest starting position wins; at that position the
// longest expression wins.
func resolve(text string, ref time.Time) (temporalMatch, bool) {
	folded, offsets := foldWidth(text)
	s := &scanner{src: folded, ref: ref}

	for i := 0; i < len(folded); {
		if h, ok := s.matchAt(i); ok {
			from, to := offsets[i], offsets[i+h.n]
			return temporalMatch{
				Text:   text[from:to],
				Offset: from,
				Length: to - from,
				Start:  h.start,
				End:    h.end,
			}, true
		}
		_, size := utf8.DecodeRuneInString(folded[i:])
		i += size
	}
	return temporalMatch{}, false
}

func (s *scanner) matchAt(i int) (hit, bool) {
	// Never start inside a number ("13時" is not "3時") or in the middle of a
	// date that already failed to resolve ("2月30日" is not "30日").
	if cur, _ := runeAt(s.src, i); isNumeralRune(cur) && s.insideNumber(i) {
		return hit{}, false
	}

	if d, ok := s.date(s.src[i:]); ok {
		h := hit{n: d.n, start: d.day}
		j := i + d.n
		j += len(joinerPattern.FindString(s.src[j:]))
		if c, ok := s.clockRange(s.src[j:], d.day, true, d.period); ok {
			h = hit{n: j - i + c.n, start: c.start, end: c.end}
		} else if d.period != "" {
			h.start = s.at(d.day, clock{hour: periodDefaultHours[d.period]})
		}
		return h, true
	}

	if c, ok := s.clockRange(s.src[i:], s.ref, false, ""); ok {
		return c, true
	}

	return s.relativeClock(s.src[i:])
}

// insideNumber reports whether byte offset i continues a number or a numeric
// date. 月 only counts when a numeral precedes it, so 毎月1日 still matches.
func (s *scanner) insideNumber(i int) bool {
	prev, ok := runeBefore(s.src, i)
	if !ok {
		return false
	}
	switch {
	case isNumeralRune(prev), prev == '年', prev == '/':
		return true
	case prev == '月':
		before, ok := runeBefore(s.src, i-utf8.RuneLen(prev))
		return ok && isNumeralRune(before)
	}
	return false
}

// at combines the calendar day of day with the given clock reading.
func (s *scanner) at(day time.Time, c clock) time.Time {
	d := day.Day()
	if c.nextDay {
		d++
	}
	return time.Date(day.Year(), day.Month(), d, c.hour, c.minute, 0, 0, s.ref.Location())
}

// dayAt builds a date that keeps the reference instant's clock time.
func (s *scanner) dayAt(y int, m time.Month, d int) time.Time {
	r := s.ref
	return time.Date(y, m, d, r.Hour(), r.Minute(), r.Second(), r.Nanosecond(), r.Location())
}

func (s *scanner) addDays(n int) time.Time {
	y, m, d := s.ref.Date()
	return s.dayAt(y, m, d+n)
}

// beforeRef reports whether the calendar date y-m-d lies strictly before the
// reference date.
func (s *scanner) beforeRef(y int, m time.Month, d int) bool {
	ry, rm, rd := s.ref.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Before(time.Date(ry, rm, rd, 0, 0, 0, 0, time.UTC))
}

func validDate(y int, m time.Month, d int) bool {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return t.Year() == y && t.Month() == m && t.Day() == d
}

func daysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// mondayIndex numbers weekdays from Monday = 0 to Sunday = 6.
func mondayIndex(w time.Weekday) int {
	return (int(w) + 6) % 7
}
