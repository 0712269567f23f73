package analytics

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// Health classifies a report metric.
type Health string

const (
	HealthGood    Health = "good"
	HealthWarn    Health = "warn"
	HealthBad     Health = "bad"
	HealthNeutral Health = "neutral"
)

// Report metric labels.
const (
	MetricReceived = "Tickets received"
	MetricResolved = "Tickets resolved"
	MetricSLA      = "SLA compliance"
	MetricBacklog  = "Backlog"
)

// MonthRef identifies a report month.
type MonthRef struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// MonthMetrics are the comparative figures of one month, canceled tickets
// excluded.
type MonthMetrics struct {
	Tickets  int     `json:"tickets"`
	Resolved int     `json:"resolved"`
	Breached int     `json:"breached"`
	SLAPct   float64 `json:"sla_pct"`
	Backlog  int     `json:"backlog"`
}

// ReportMetric is one row of the executive summary.
type ReportMetric struct {
	Label  string   `json:"label"`
	Value  string   `json:"value"`
	Delta  *float64 `json:"delta"`
	Health Health   `json:"health"`
}

// BacklogStatus groups the current month's open tickets by status.
type BacklogStatus struct {
	Status string   `json:"status"`
	Count  int      `json:"count"`
	Keys   []string `json:"keys"`
}

// Report is the executive month-over-month summary.
type Report struct {
	CurrentMonth  *MonthRef       `json:"current_month"`
	PreviousMonth *MonthRef       `json:"previous_month"`
	Current       *MonthMetrics   `json:"current"`
	Previous      *MonthMetrics   `json:"previous"`
	Metrics       []ReportMetric  `json:"metrics"`
	Backlog       []BacklogStatus `json:"backlog"`
	Insights      []string        `json:"insights"`
}

// Report compares the latest month of an already filtered set with the
// month before it that has tickets.
func (e *Engine) Report(records []domain.Ticket) Report {
	current, previous := reportMonths(records)
	if current == "" {
		return Report{
			Metrics:  []ReportMetric{},
			Backlog:  []BacklogStatus{},
			Insights: insufficientDataInsights(),
		}
	}

	curSet := e.monthSubset(records, current)
	curMetrics := e.monthMetrics(curSet)
	report := Report{
		CurrentMonth: &MonthRef{Key: current, Label: domain.MonthLabel(current)},
		Current:      &curMetrics,
		Backlog:      e.backlogByStatus(curSet),
	}

	var prevMetrics *MonthMetrics
	if previous != "" {
		m := e.monthMetrics(e.monthSubset(records, previous))
		prevMetrics = &m
		report.PreviousMonth = &MonthRef{Key: previous, Label: domain.MonthLabel(previous)}
		report.Previous = prevMetrics
	}

	report.Metrics = buildMetrics(curMetrics, prevMetrics)
	report.Insights = buildInsights(report)
	return report
}

// reportMonths returns the highest month key and the next lower one present.
func reportMonths(records []domain.Ticket) (current, previous string) {
	for _, r := range records {
		switch {
		case r.YearMonth > current:
			previous, current = current, r.YearMonth
		case r.YearMonth < current && r.YearMonth > previous:
			previous = r.YearMonth
		}
	}
	return current, previous
}

func (e *Engine) monthSubset(records []domain.Ticket, month string) []domain.Ticket {
	out := make([]domain.Ticket, 0)
	for _, r := range records {
		if r.YearMonth != month || e.taxonomy.IsCanceled(r.Status) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (e *Engine) monthMetrics(records []domain.Ticket) MonthMetrics {
	m := MonthMetrics{Tickets: len(records)}
	for _, r := range records {
		if e.taxonomy.IsClosed(r.Status) {
			m.Resolved++
		}
		if r.Breached() {
			m.Breached++
		}
	}
	m.SLAPct = 100 - percent(m.Breached, m.Tickets)
	m.Backlog = m.Tickets - m.Resolved
	return m
}

func (e *Engine) backlogByStatus(records []domain.Ticket) []BacklogStatus {
	groups := map[string]*BacklogStatus{}
	for _, r := range records {
		if e.taxonomy.IsClosed(r.Status) {
			continue
		}
		status := NoStatusLabel
		if strings.TrimSpace(r.Status) != "" {
			status = titleCase(r.Status)
		}
		g, ok := groups[status]
		if !ok {
			g = &BacklogStatus{Status: status, Keys: []string{}}
			groups[status] = g
		}
		g.Count++
		if r.Key != "" {
			g.Keys = append(g.Keys, r.Key)
		}
	}

	out := make([]BacklogStatus, 0, len(groups))
	for _, g := range groups {
		sort.Strings(g.Keys)
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Status < out[j].Status
	})
	return out
}

// PercentChange is (current-previous)/previous*100, or nil without a
// comparative basis.
func PercentChange(current, previous float64, hasPrevious bool) *float64 {
	if !hasPrevious || previous == 0 {
		return nil
	}
	v := (current - previous) / previous * 100
	return &v
}

// SLAHealth classifies an SLA compliance percentage.
func SLAHealth(pct float64) Health {
	switch {
	case pct >= 95:
		return HealthGood
	case pct >= 90:
		return HealthWarn
	default:
		return HealthBad
	}
}

// BacklogHealth classifies an open ticket count.
func BacklogHealth(backlog int) Health {
	switch {
	case backlog <= 25:
		return HealthGood
	case backlog <= 60:
		return HealthWarn
	default:
		return HealthBad
	}
}

func buildMetrics(cur MonthMetrics, prev *MonthMetrics) []ReportMetric {
	// A previous month with no countable tickets has a nominal 100% SLA
	// and gives no basis for the SLA delta.
	var p MonthMetrics
	hasPrev := prev != nil
	if hasPrev {
		p = *prev
	}
	return []ReportMetric{
		{
			Label:  MetricReceived,
			Value:  fmt.Sprintf("%d", cur.Tickets),
			Delta:  PercentChange(float64(cur.Tickets), float64(p.Tickets), hasPrev),
			Health: HealthNeutral,
		},
		{
			Label:  MetricResolved,
			Value:  fmt.Sprintf("%d", cur.Resolved),
			Delta:  PercentChange(float64(cur.Resolved), float64(p.Resolved), hasPrev),
			Health: HealthNeutral,
		},
		{
			Label:  MetricSLA,
			Value:  fmt.Sprintf("%.1f%%", cur.SLAPct),
			Delta:  PercentChange(cur.SLAPct, p.SLAPct, hasPrev && p.Tickets > 0),
			Health: SLAHealth(cur.SLAPct),
		},
		{
			Label:  MetricBacklog,
			Value:  fmt.Sprintf("%d", cur.Backlog),
			Delta:  PercentChange(float64(cur.Backlog), float64(p.Backlog), hasPrev),
			Health: BacklogHealth(cur.Backlog),
		},
	}
}

// titleCase upper-cases the first letter of each word and lower-cases the rest.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
