package ingest

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// monthAbbrev translates Spanish month abbreviations to the canonical
// English form the created-date pattern expects.
var monthAbbrev = map[string]string{
	"ene":  "Jan",
	"feb":  "Feb",
	"mar":  "Mar",
	"abr":  "Apr",
	"may":  "May",
	"jun":  "Jun",
	"jul":  "Jul",
	"ago":  "Aug",
	"sep":  "Sep",
	"sept": "Sep",
	"oct":  "Oct",
	"nov":  "Nov",
	"dic":  "Dec",
}

var canonicalMonths = map[string]time.Month{
	"jan": time.January,
	"feb": time.February,
	"mar": time.March,
	"apr": time.April,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"aug": time.August,
	"sep": time.September,
	"oct": time.October,
	"nov": time.November,
	"dec": time.December,
}

var (
	monthTokenPattern = regexp.MustCompile(`/([A-Za-z]{3,4})/`)
	createdPattern    = regexp.MustCompile(`^(\d{1,2})/([A-Za-z]{3})/(\d{2}) (\d{1,2}):(\d{2}) ([AaPp][Mm])$`)
)

// ParseCreated parses a "19/ene/26 12:47 PM" timestamp in local time.
func ParseCreated(raw string) (time.Time, bool) {
	return ParseCreatedIn(raw, time.Local)
}

// ParseCreatedIn parses a created timestamp as wall-clock time in loc.
// It fails rather than rolling over invalid calendar dates.
func ParseCreatedIn(raw string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	s := normalizeMonth(strings.TrimSpace(raw))
	m := createdPattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}

	day, _ := strconv.Atoi(m[1])
	month, ok := canonicalMonths[strings.ToLower(m[2])]
	if !ok {
		return time.Time{}, false
	}
	yy, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])
	if hour > 12 || minute > 59 {
		return time.Time{}, false
	}

	year := 2000 + yy
	if yy >= 70 {
		year = 1900 + yy
	}

	pm := strings.EqualFold(m[6], "pm")
	switch {
	case hour == 12 && !pm:
		hour = 0
	case pm && hour != 12:
		hour += 12
	}

	t := time.Date(year, month, day, hour, minute, 0, 0, loc)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func normalizeMonth(s string) string {
	return monthTokenPattern.ReplaceAllStringFunc(s, func(tok string) string {
		abbrev := strings.ToLower(strings.Trim(tok, "/"))
		if canonical, ok := monthAbbrev[abbrev]; ok {
			return "/" + canonical + "/"
		}
		return tok
	})
}
