package analytics

import (
	"sort"
	"strings"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// Count is a labeled ticket count.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// YearCount is the ticket count of one calendar year.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// YearStatusSeries counts tickets per year and status. Counts in each row
// line up with Statuses.
type YearStatusSeries struct {
	Statuses []string        `json:"statuses"`
	Rows     []YearStatusRow `json:"rows"`
}

// YearStatusRow is one year of YearStatusSeries.
type YearStatusRow struct {
	Year   int   `json:"year"`
	Counts []int `json:"counts"`
	Total  int   `json:"total"`
}

// YearSLA splits a year's tickets into SLA outcomes.
type YearSLA struct {
	Year         int     `json:"year"`
	Total        int     `json:"total"`
	Compliant    int     `json:"compliant"`
	Breached     int     `json:"breached"`
	CompliantPct float64 `json:"compliant_pct"`
	BreachedPct  float64 `json:"breached_pct"`
}

// YearCSAT is the satisfaction summary of one year.
type YearCSAT struct {
	Year      int      `json:"year"`
	Tickets   int      `json:"tickets"`
	Responses int      `json:"responses"`
	Average   *float64 `json:"average"`
}

// HourSeries counts tickets per hour of day.
type HourSeries struct {
	Counts [24]int `json:"counts"`
	Max    int     `json:"max"`
}

// WeekdayLabels are the ISO weekdays, Monday first.
var WeekdayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// WeekdayHourMatrix counts tickets per ISO weekday (rows) and hour (columns).
type WeekdayHourMatrix struct {
	Days   [7]string  `json:"days"`
	Counts [7][24]int `json:"counts"`
	Max    int        `json:"max"`
}

// tally accumulates counts per key.
type tally map[string]int

func (t tally) sortedDesc() []Count {
	out := make([]Count, 0, len(t))
	for label, n := range t {
		out = append(out, Count{Label: label, Count: n})
	}
	sortCountsDesc(out)
	return out
}

func (t tally) sortedByKey() []Count {
	out := make([]Count, 0, len(t))
	for label, n := range t {
		out = append(out, Count{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// sortCountsDesc orders by count descending, then label ascending.
func sortCountsDesc(counts []Count) {
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Label < counts[j].Label
	})
}

func labelOr(value, sentinel string) string {
	if strings.TrimSpace(value) == "" {
		return sentinel
	}
	return value
}

// CountByMonth counts tickets per YYYY-MM, ascending.
func CountByMonth(records []domain.Ticket) []Count {
	t := tally{}
	for _, r := range records {
		t[r.YearMonth]++
	}
	return t.sortedByKey()
}

// CountByYear counts tickets per calendar year, ascending.
func CountByYear(records []domain.Ticket) []YearCount {
	counts := map[int]int{}
	for _, r := range records {
		counts[r.Year]++
	}
	out := make([]YearCount, 0, len(counts))
	for _, year := range sortedYears(counts) {
		out = append(out, YearCount{Year: year, Count: counts[year]})
	}
	return out
}

// CountByYearStatus counts tickets per year with one column per status.
func CountByYearStatus(records []domain.Ticket) YearStatusSeries {
	perYear := map[int]tally{}
	statusSet := map[string]struct{}{}
	for _, r := range records {
		status := labelOr(r.Status, NoStatusLabel)
		statusSet[status] = struct{}{}
		if perYear[r.Year] == nil {
			perYear[r.Year] = tally{}
		}
		perYear[r.Year][status]++
	}

	statuses := sortedKeys(statusSet)
	series := YearStatusSeries{Statuses: statuses, Rows: make([]YearStatusRow, 0, len(perYear))}
	for _, year := range sortedYears(perYear) {
		row := YearStatusRow{Year: year, Counts: make([]int, len(statuses))}
		for i, s := range statuses {
			row.Counts[i] = perYear[year][s]
			row.Total += row.Counts[i]
		}
		series.Rows = append(series.Rows, row)
	}
	return series
}

// CountByYearSLA splits each year's tickets into compliant and breached.
func CountByYearSLA(records []domain.Ticket) []YearSLA {
	byYear := map[int]*YearSLA{}
	for _, r := range records {
		y, ok := byYear[r.Year]
		if !ok {
			y = &YearSLA{Year: r.Year}
			byYear[r.Year] = y
		}
		y.Total++
		if r.Breached() {
			y.Breached++
		} else {
			y.Compliant++
		}
	}

	out := make([]YearSLA, 0, len(byYear))
	for _, year := range sortedYears(byYear) {
		y := *byYear[year]
		y.BreachedPct = percent(y.Breached, y.Total)
		if y.Total > 0 {
			y.CompliantPct = 100 - y.BreachedPct
		}
		out = append(out, y)
	}
	return out
}

// CountByYearCSAT averages satisfaction scores per year.
func CountByYearCSAT(records []domain.Ticket) []YearCSAT {
	type acc struct {
		tickets, responses int
		sum                float64
	}
	byYear := map[int]*acc{}
	for _, r := range records {
		a, ok := byYear[r.Year]
		if !ok {
			a = &acc{}
			byYear[r.Year] = a
		}
		a.tickets++
		if r.Satisfaction != nil {
			a.responses++
			a.sum += *r.Satisfaction
		}
	}

	out := make([]YearCSAT, 0, len(byYear))
	for _, year := range sortedYears(byYear) {
		a := byYear[year]
		row := YearCSAT{Year: year, Tickets: a.tickets, Responses: a.responses}
		if a.responses > 0 {
			avg := a.sum / float64(a.responses)
			row.Average = &avg
		}
		out = append(out, row)
	}
	return out
}

// TopAssignees returns the ten assignees with the most tickets.
func TopAssignees(records []domain.Ticket) []Count {
	t := tally{}
	for _, r := range records {
		t[labelOr(r.Assignee, UnassignedLabel)]++
	}
	out := t.sortedDesc()
	if len(out) > topAssigneeLimit {
		out = out[:topAssigneeLimit]
	}
	return out
}

// CountByOrganization counts tickets per organization, largest first.
func CountByOrganization(records []domain.Ticket) []Count {
	t := tally{}
	for _, r := range records {
		t[labelOr(r.Organization, NoOrganizationLabel)]++
	}
	return t.sortedDesc()
}

// OrganizationPie keeps the five largest organizations and folds the rest
// into an "Other" slice, omitted when empty.
func OrganizationPie(records []domain.Ticket) []Count {
	all := CountByOrganization(records)
	if len(all) <= organizationPieLimit {
		return all
	}
	pie := append([]Count(nil), all[:organizationPieLimit]...)
	top := 0
	for _, c := range pie {
		top += c.Count
	}
	if other := len(records) - top; other > 0 {
		pie = append(pie, Count{Label: OtherLabel, Count: other})
	}
	return pie
}

// CountByHour counts tickets per hour of day; all 24 buckets are present.
func CountByHour(records []domain.Ticket) HourSeries {
	var s HourSeries
	for _, r := range records {
		s.Counts[r.CreatedAt.Hour()]++
	}
	for _, n := range s.Counts {
		if n > s.Max {
			s.Max = n
		}
	}
	return s
}

// CountByWeekdayHour fills the full weekday × hour matrix.
func CountByWeekdayHour(records []domain.Ticket) WeekdayHourMatrix {
	m := WeekdayHourMatrix{Days: WeekdayLabels}
	for _, r := range records {
		day := (int(r.CreatedAt.Weekday()) + 6) % 7
		m.Counts[day][r.CreatedAt.Hour()]++
	}
	for _, row := range m.Counts {
		for _, n := range row {
			if n > m.Max {
				m.Max = n
			}
		}
	}
	return m
}

func sortedYears[V any](m map[int]V) []int {
	years := make([]int, 0, len(m))
	for y := range m {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
