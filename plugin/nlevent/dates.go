package nlevent

import (
	"regexp"
	"strings"
	"time"
)

var (
	relativeDayPattern    = regexp.MustCompile(`^(明々後日|明明後日|しあさって|一昨日|おととい|明後日|あさって|今日|本日|今朝|今夜|今晩|明日|あした|明朝|明晩|昨日|きのう|昨夜)`)
	relativeOffsetPattern = regexp.MustCompile(`^` + numPattern + `\s*(日|週間|か月|ヶ月|カ月|ケ月|ヵ月|箇月)後`)
	weekdayPattern        = regexp.MustCompile(`^(?:(今度|次|この|再来週|来週|今週|先週)の?)?([月火水木金土日])曜日?`)
	weekPattern           = regexp.MustCompile(`^(再来週|来週|今週|先週)`)
	weekendPattern        = regexp.MustCompile(`^(今週末|来週末|週末)`)
	monthPattern          = regexp.MustCompile(`^(再来月|来月|今月|先月)(?:の?(?:` + numPattern + `日|第` + numPattern + `([月火水木金土日])曜日?))?`)
	absoluteDatePattern   = regexp.MustCompile(`^(?:` + numPattern + `年)?` + numPattern + `月` + numPattern + `日`)
	isoDatePattern        = regexp.MustCompile(`^([0-9]{4})[-/]([0-9]{1,2})[-/]([0-9]{1,2})`)
	slashDatePattern      = regexp.MustCompile(`^([0-9]{1,2})/([0-9]{1,2})`)
	dayOfMonthPattern     = regexp.MustCompile(`^` + numPattern + `日`)
)

var relativeDayOffsets = map[string]int{
	"明々後日":  3,
	"明明後日":  3,
	"しあさって": 3,
	"一昨日":   -2,
	"おととい":  -2,
	"明後日":   2,
	"あさって":  2,
	"今日":    0,
	"本日":    0,
	"今朝":    0,
	"今夜":    0,
	"今晩":    0,
	"明日":    1,
	"あした":   1,
	"明朝":    1,
	"明晩":    1,
	"昨日":    -1,
	"きのう":   -1,
	"昨夜":    -1,
}

// impliedPeriods are day words that also fix the part of the day.
var impliedPeriods = map[string]string{
	"今朝": "朝",
	"今夜": "夜",
	"今晩": "晩",
	"明朝": "朝",
	"明晩": "晩",
	"昨夜": "夜",
}

// weekdayIndex maps weekday kanji to a Monday-based index.
var weekdayIndex = map[string]int{
	"月": 0,
	"火": 1,
	"水": 2,
	"木": 3,
	"金": 4,
	"土": 5,
	"日": 6,
}

var weekOffsets = map[string]int{
	"先週":  -7,
	"今週":  0,
	"来週":  7,
	"再来週": 14,
}

var monthOffsets = map[string]int{
	"先月":  -1,
	"今月":  0,
	"来月":  1,
	"再来月": 2,
}

// dateHit is a calendar day carrying the reference clock time. period is set
// when the date word itself names a part of the day.
type dateHit struct {
	n      int
	day    time.Time
	period string
}

// date returns the longest date expression at the start of rest.
func (s *scanner) date(rest string) (dateHit, bool) {
	matchers := []func(string) (dateHit, bool){
		s.relativeDay,
		s.relativeOffset,
		s.weekday,
		s.week,
		s.weekend,
		s.month,
		s.absoluteDate,
		s.isoDate,
		s.slashDate,
		s.dayOfMonth,
	}

	var best dateHit
	found := false
	for _, match := range matchers {
		if d, ok := match(rest); ok && d.n > best.n {
			best, found = d, true
		}
	}
	return best, found
}

func (s *scanner) relativeDay(rest string) (dateHit, bool) {
	m := relativeDayPattern.FindString(rest)
	if m == "" {
		return dateHit{}, false
	}
	return dateHit{n: len(m), day: s.addDays(relativeDayOffsets[m]), period: impliedPeriods[m]}, true
}

func (s *scanner) relativeOffset(rest string) (dateHit, bool) {
	m := relativeOffsetPattern.FindStringSubmatch(rest)
	if m == nil {
		return dateHit{}, false
	}
	n, ok := parseNumeral(m[1])
	if !ok {
		return dateHit{}, false
	}

	switch m[2] {
	case "日":
		return dateHit{n: len(m[0]), day: s.addDays(n)}, true
	case "週間":
		return dateHit{n: len(m[0]), day: s.addDays(7 * n)}, true
	default:
		return dateHit{n: len(m[0]), day: s.addMonthsClamped(n)}, true
	}
}

func (s *scanner) weekday(rest string) (dateHit, bool) {
	m := weekdayPattern.FindStringSubmatch(rest)
	if m == nil {
		return dateHit{}, false
	}
	target := weekdayIndex[m[2]]
	current := mondayIndex(s.ref.Weekday())

	var diff int
	switch m[1] {
	case "今度", "次", "この":
		// Strictly after the reference date.
		diff = (target - current + 7) % 7
		if diff == 0 {
			diff = 7
		}
	case "今週", "来週", "再来週", "先週":
		diff = weekOffsets[m[1]] - current + target
	default:
		diff = (target - current + 7) % 7
	}
	return dateHit{n: len(m[0]), day: s.addDays(diff)}, true
}

func (s *scanner) week(rest string) (dateHit, bool) {
	m := weekPattern.FindString(rest)
	if m == "" {
		return dateHit{}, false
	}
	return dateHit{n: len(m), day: s.addDays(weekOffsets[m])}, true
}

func (s *scanner) weekend(rest string) (dateHit, bool) {
	m := weekendPattern.FindString(rest)
	if m == "" {
		return dateHit{}, false
	}
	current := mondayIndex(s.ref.Weekday())
	diff := 5 - current
	if m == "来週末" {
		diff += 7
	} else if diff < 0 {
		// On a Sunday the weekend is already under way.
		diff = 0
	}
	return dateHit{n: len(m), day: s.addDays(diff)}, true
}

func (s *scanner) month(rest string) (dateHit, bool) {
	m := monthPattern.FindStringSubmatch(rest)
	if m == nil {
		return dateHit{}, false
	}
	ry, rm, rd := s.ref.Date()
	first := time.Date(ry, rm+time.Month(monthOffsets[m[1]]), 1, 0, 0, 0, 0, time.UTC)
	y, mon := first.Year(), first.Month()

	switch {
	case m[2] != "":
		d, ok := parseNumeral(m[2])
		if !ok || !validDate(y, mon, d) {
			return dateHit{}, false
		}
		return dateHit{n: len(m[0]), day: s.dayAt(y, mon, d)}, true
	case m[3] != "":
		nth, ok := parseNumeral(m[3])
		if !ok || nth < 1 || nth > 5 {
			return dateHit{}, false
		}
		shift := (weekdayIndex[m[4]] - mondayIndex(first.Weekday()) + 7) % 7
		d := 1 + shift + (nth-1)*7
		if !validDate(y, mon, d) {
			return dateHit{}, false
		}
		return dateHit{n: len(m[0]), day: s.dayAt(y, mon, d)}, true
	default:
		return dateHit{n: len(m[0]), day: s.dayAt(y, mon, min(rd, daysIn(y, mon)))}, true
	}
}

func (s *scanner) absoluteDate(rest string) (dateHit, bool) {
	m := absoluteDatePattern.FindStringSubmatch(rest)
	if m == nil {
		return dateHit{}, false
	}
	mon, ok1 := parseNumeral(m[2])
	d, ok2 := parseNumeral(m[3])
	if !ok1 || !ok2 {
		return dateHit{}, false
	}
	if m[1] != "" {
		y, ok := parseNumeral(m[1])
		if !ok {
			return dateHit{}, false
		}
		if y < 100 {
			y += 2000
		}
		return s.explicitDate(len(m[0]), y, mon, d)
	}
	return s.nextOccurrence(len(m[0]), mon, d)
}

func (s *scanner) isoDate(rest string) (dateHit, bool) {
	m := isoDatePattern.FindStringSubmatch(rest)
	if m == nil || followedByDigit(rest[len(m[0]):]) {
		return dateHit{}, false
	}
	y, _ := parseNumeral(m[1])
	mon, _ := parseNumeral(m[2])
	d, _ := parseNumeral(m[3])
	return s.explicitDate(len(m[0]), y, mon, d)
}

func (s *scanner) slashDate(rest string) (dateHit, bool) {
	m := slashDatePattern.FindStringSubmatch(rest)
	if m == nil {
		return dateHit{}, false
	}
	if tail := rest[len(m[0]):]; followedByDigit(tail) || strings.HasPrefix(tail, "/") {
		return dateHit{}, false
	}
	mon, _ := parseNumeral(m[1])
	d, _ := parseNumeral(m[2])
	return s.nextOccurrence(len(m[0]), mon, d)
}

func (s *scanner) dayOfMonth(rest string) (dateHit, bool) {
	m := dayOfMonthPattern.FindStringSubmatch(rest)
	if m == nil {
		return dateHit{}, false
	}
	// 3日間, 2日目 and 1日中 are durations, not dates.
	if next, ok := runeAt(rest, len(m[0])); ok && strings.ContainsRune("間目中後", next) {
		return dateHit{}, false
	}
	d, ok := parseNumeral(m[1])
	if !ok || d < 1 || d > 31 {
		return dateHit{}, false
	}

	ry, rm, _ := s.ref.Date()
	for k := 0; k <= 12; k++ {
		first := time.Date(ry, rm+time.Month(k), 1, 0, 0, 0, 0, time.UTC)
		y, mon := first.Year(), first.Month()
		if validDate(y, mon, d) && !s.beforeRef(y, mon, d) {
			return dateHit{n: len(m[0]), day: s.dayAt(y, mon, d)}, true
		}
	}
	return dateHit{}, false
}

func (s *scanner) explicitDate(n, y, mon, d int) (dateHit, bool) {
	if !validDate(y, time.Month(mon), d) {
		return dateHit{}, false
	}
	return dateHit{n: n, day: s.dayAt(y, time.Month(mon), d)}, true
}

// nextOccurrence resolves a month/day without a year to the reference year,
// or to the next year in which it exists when it already lies in the past.
func (s *scanner) nextOccurrence(n, mon, d int) (dateHit, bool) {
	if mon < 1 || mon > 12 || d < 1 || d > 31 {
		return dateHit{}, false
	}
	for y := s.ref.Year(); y <= s.ref.Year()+8; y++ {
		if validDate(y, time.Month(mon), d) && !s.beforeRef(y, time.Month(mon), d) {
			return dateHit{n: n, day: s.dayAt(y, time.Month(mon), d)}, true
		}
	}
	return dateHit{}, false
}

// addMonthsClamped moves the reference date by n months, clamping the day to
// the end of the target month (1月31日 + 1か月 = 2月29日).
func (s *scanner) addMonthsClamped(n int) time.Time {
	ry, rm, rd := s.ref.Date()
	first := time.Date(ry, rm+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	y, mon := first.Year(), first.Month()
	return s.dayAt(y, mon, min(rd, daysIn(y, mon)))
}

func followedByDigit(tail string) bool {
	r, ok := runeAt(tail, 0)
	return ok && r >= '0' && r <= '9'
}
