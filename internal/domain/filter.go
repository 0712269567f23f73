package domain

import (
	"strconv"
	"strings"
)

// Filter is the dashboard filter state. Empty values, "all" and "any"
// leave the corresponding predicate open.
type Filter struct {
	FromMonth    string `json:"from_month"`
	ToMonth      string `json:"to_month"`
	Organization string `json:"organization"`
	Assignee     string `json:"assignee"`
	Status       string `json:"status"`
}

// IsAny reports whether a filter value matches every record.
func IsAny(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "all", "any":
		return true
	}
	return false
}

// Matches applies all four predicates (AND-combined) to a ticket.
// Month bounds are inclusive and compared on the YYYY-MM key.
func (f Filter) Matches(t Ticket) bool {
	if !IsAny(f.FromMonth) && t.YearMonth < f.FromMonth {
		return false
	}
	if !IsAny(f.ToMonth) && t.YearMonth > f.ToMonth {
		return false
	}
	if !IsAny(f.Organization) && t.Organization != f.Organization {
		return false
	}
	if !IsAny(f.Assignee) && t.Assignee != f.Assignee {
		return false
	}
	if !IsAny(f.Status) && t.Status != f.Status {
		return false
	}
	return true
}

// Key returns a canonical string for the filter, used for memoization.
// Open predicates render as "*" and set values are Go-quoted, so distinct
// filters never share a key.
func (f Filter) Key() string {
	parts := []string{f.FromMonth, f.ToMonth, f.Organization, f.Assignee, f.Status}
	for i, p := range parts {
		if IsAny(p) {
			parts[i] = "*"
		} else {
			parts[i] = strconv.Quote(p)
		}
	}
	return strings.Join(parts, "|")
}

// FullRange returns the filter spanning every month observed in records.
// Records are expected in ascending createdAt order.
func FullRange(records []Ticket) Filter {
	if len(records) == 0 {
		return Filter{}
	}
	from, to := records[0].YearMonth, records[0].YearMonth
	for _, r := range records[1:] {
		if r.YearMonth < from {
			from = r.YearMonth
		}
		if r.YearMonth > to {
			to = r.YearMonth
		}
	}
	return Filter{FromMonth: from, ToMonth: to}
}
