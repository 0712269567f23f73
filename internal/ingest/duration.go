package ingest

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	decimalHoursPattern = regexp.MustCompile(`^[+-]?(\d+([.,]\d*)?|[.,]\d+)$`)
	clockHoursPattern   = regexp.MustCompile(`^([+-])?\s*(\d+)\s*:\s*(\d{1,2})$`)
)

// ParseHours converts a first-response duration into signed fractional
// hours. Accepted forms are decimal hours ("1.25", "-2,5") and signed clock
// time ("-1:30"). Blank or unrecognized values return false, which callers
// treat as "no data".
func ParseHours(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	if decimalHoursPattern.MatchString(s) {
		v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}

	if m := clockHoursPattern.FindStringSubmatch(s); m != nil {
		hours, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return 0, false
		}
		minutes, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			return 0, false
		}
		v := hours + minutes/60
		if m[1] == "-" {
			v = -v
		}
		return v, true
	}

	return 0, false
}

// ParseScore parses a satisfaction score. Comma decimals are accepted.
func ParseScore(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func optional(v float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	return &v
}
