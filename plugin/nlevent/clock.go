package nlevent

import (
	"regexp"
	"strings"
	"time"
)

const periodPattern = `(午前|午後|夕方|朝|夜|昼|晩)`

var (
	hourPattern          = regexp.MustCompile(`^(?:` + periodPattern + `の?\s*)?` + numPattern + `時(?:(半)|` + numPattern + `分)?`)
	colonPattern         = regexp.MustCompile(`^(?:` + periodPattern + `の?\s*)?([0-9]{1,2}):([0-9]{2})`)
	noonPattern          = regexp.MustCompile(`^正午`)
	periodOnlyPattern    = regexp.MustCompile(`^` + periodPattern)
	relativeClockPattern = regexp.MustCompile(`^` + numPattern + `\s*(時間|分)(半)?後`)
	connectorPattern     = regexp.MustCompile(`^\s*(から|〜|~|-|–|—)\s*`)
	untilPattern         = regexp.MustCompile(`^\s*まで`)
)

// periodDefaultHours is used when a period word follows a date without an
// explicit hour ("明日の夕方").
var periodDefaultHours = map[string]int{
	"朝":  8,
	"午前": 9,
	"昼":  12,
	"午後": 14,
	"夕方": 17,
	"夜":  19,
	"晩":  19,
}

// periodFollowers are the runes allowed after a bare period word so that
// 朝食 or 夜景 are not read as times.
const periodFollowers = "にでのをがはへとかま、。,. "

type clock struct {
	hour   int
	minute int
	period string
	// nextDay is set for 夜12時, which is midnight at the end of the day.
	nextDay bool
}

func isMorning(period string) bool {
	return period == "午前" || period == "朝"
}

func isNight(period string) bool {
	return period == "夜" || period == "晩"
}

func isAfternoon(period string) bool {
	switch period {
	case "午後", "夕方", "夜", "昼", "晩":
		return true
	}
	return false
}

// normalize maps a literal hour and period word onto a 24-hour clock.
func (c clock) normalize() (clock, bool) {
	switch {
	case isMorning(c.period):
		if c.hour > 12 {
			return c, false
		}
		if c.hour == 12 {
			c.hour = 0
		}
	case isAfternoon(c.period):
		if c.hour > 23 {
			return c, false
		}
		switch {
		case c.hour == 12 && isNight(c.period):
			c.hour, c.nextDay = 0, true
		case c.hour < 12:
			c.hour += 12
		}
	default:
		if c.hour > 23 {
			return c, false
		}
	}
	if c.minute < 0 || c.minute > 59 {
		return c, false
	}
	return c, true
}

// clock reads a single time of day at the start of rest. Bare period words are
// accepted only when allowPeriodOnly is set. implied is the period carried by
// a preceding date word such as 今夜.
func (s *scanner) clock(rest string, allowPeriodOnly bool, implied string) (clock, int, bool) {
	var best clock
	bestN := 0

	if m := hourPattern.FindStringSubmatch(rest); m != nil {
		if next, ok := runeAt(rest, len(m[0])); !ok || next != '間' {
			if c, ok := hourClock(m, implied); ok && len(m[0]) > bestN {
				best, bestN = c, len(m[0])
			}
		}
	}
	if m := colonPattern.FindStringSubmatch(rest); m != nil && !followedByDigit(rest[len(m[0]):]) {
		h, _ := parseNumeral(m[2])
		mm, _ := parseNumeral(m[3])
		if c, ok := (clock{hour: h, minute: mm, period: orDefault(m[1], implied)}).normalize(); ok && len(m[0]) > bestN {
			best, bestN = c, len(m[0])
		}
	}
	if m := noonPattern.FindString(rest); m != "" && len(m) > bestN {
		best, bestN = clock{hour: 12}, len(m)
	}
	if bestN > 0 {
		return best, bestN, true
	}

	if allowPeriodOnly {
		if m := periodOnlyPattern.FindString(rest); m != "" {
			next, ok := runeAt(rest, len(m))
			if !ok || strings.ContainsRune(periodFollowers, next) {
				return clock{hour: periodDefaultHours[m], period: m}, len(m), true
			}
		}
	}
	return clock{}, 0, false
}

func hourClock(m []string, implied string) (clock, bool) {
	h, ok := parseNumeral(m[2])
	if !ok {
		return clock{}, false
	}
	c := clock{hour: h, period: orDefault(m[1], implied)}
	switch {
	case m[3] != "":
		c.minute = 30
	case m[4] != "":
		mm, ok := parseNumeral(m[4])
		if !ok {
			return clock{}, false
		}
		c.minute = mm
	}
	return c.normalize()
}

// clockRange reads a time, optionally followed by a connector and an end time.
func (s *scanner) clockRange(rest string, day time.Time, afterDate bool, implied string) (hit, bool) {
	c1, n1, ok := s.clock(rest, afterDate, implied)
	if !ok {
		return hit{}, false
	}
	start := s.at(day, c1)

	conn := connectorPattern.FindString(rest[n1:])
	if conn == "" {
		return hit{n: n1, start: start}, true
	}
	c2, n2, ok := s.clock(rest[n1+len(conn):], false, "")
	if !ok {
		// A dangling から is left for the title extractor.
		return hit{n: n1, start: start}, true
	}
	c2 = inheritAfternoon(c1, c2)

	end := s.at(day, c2)
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	n := n1 + len(conn) + n2
	n += len(untilPattern.FindString(rest[n:]))
	return hit{n: n, start: start, end: &end}, true
}

// inheritAfternoon lets "午後1時から3時" end at 15:00: an end time without its
// own period word takes the start's afternoon reading when that keeps it later.
func inheritAfternoon(start, end clock) clock {
	if end.period == "" && isNight(start.period) && end.hour == 12 {
		end.hour, end.nextDay = 0, true
		return end
	}
	if end.period != "" || !isAfternoon(start.period) || end.hour >= 12 {
		return end
	}
	shifted := end
	shifted.hour += 12
	if shifted.hour > start.hour || (shifted.hour == start.hour && shifted.minute > start.minute) {
		return shifted
	}
	return end
}

func orDefault(period, implied string) string {
	if period == "" {
		return implied
	}
	return period
}

// relativeClock reads "2時間後" or "30分後" relative to the reference instant.
func (s *scanner) relativeClock(rest string) (hit, bool) {
	m := relativeClockPattern.FindStringSubmatch(rest)
	if m == nil {
		return hit{}, false
	}
	n, ok := parseNumeral(m[1])
	if !ok {
		return hit{}, false
	}
	var d time.Duration
	switch m[2] {
	case "時間":
		d = time.Duration(n) * time.Hour
		if m[3] != "" {
			d += 30 * time.Minute
		}
	case "分":
		d = time.Duration(n) * time.Minute
	}
	return hit{n: len(m[0]), start: s.ref.Add(d)}, true
}
