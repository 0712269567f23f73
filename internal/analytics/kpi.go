package analytics

import (
	"time"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// CapacityHealth bands the average tickets handled per person.
type CapacityHealth string

const (
	CapacityAvailable CapacityHealth = "Has Capacity"
	CapacityOptimal   CapacityHealth = "Optimal"
	CapacityAtLimit   CapacityHealth = "At Limit"
	CapacityWarning   CapacityHealth = "Warning"
	CapacityNoData    CapacityHealth = "No data"
)

// KPIs are the scalar indicators of the dashboard header.
type KPIs struct {
	Total            int            `json:"total"`
	Breached         int            `json:"breached"`
	BreachedPct      float64        `json:"breached_pct"`
	LatestMonth      string         `json:"latest_month"`
	LatestMonthCount int            `json:"latest_month_count"`
	CSATAverage      *float64       `json:"csat_average"`
	CSATResponses    int            `json:"csat_responses"`
	CSATCoveragePct  float64        `json:"csat_coverage_pct"`
	TicketsPerPerson *float64       `json:"tickets_per_person"`
	CapacityMonths   []MonthLoad    `json:"capacity_months"`
	Capacity         CapacityHealth `json:"capacity"`
}

// MonthLoad is one month of the tickets-per-person window.
type MonthLoad struct {
	Month     string   `json:"month"`
	Tickets   int      `json:"tickets"`
	TeamSize  *int     `json:"team_size"`
	PerPerson *float64 `json:"per_person"`
}

// KPIs computes the scalar indicators over an already filtered set.
func (e *Engine) KPIs(records []domain.Ticket) KPIs {
	k := KPIs{Total: len(records)}

	var scoreSum float64
	for _, r := range records {
		if r.Breached() {
			k.Breached++
		}
		if r.Satisfaction != nil {
			scoreSum += *r.Satisfaction
			k.CSATResponses++
		}
	}
	k.BreachedPct = percent(k.Breached, k.Total)
	k.CSATCoveragePct = percent(k.CSATResponses, k.Total)
	if k.CSATResponses > 0 {
		avg := scoreSum / float64(k.CSATResponses)
		k.CSATAverage = &avg
	}

	months := CountByMonth(records)
	if len(months) > 0 {
		last := months[len(months)-1]
		k.LatestMonth = last.Label
		k.LatestMonthCount = last.Count
	}

	k.CapacityMonths, k.TicketsPerPerson = e.ticketsPerPerson(records, months)
	k.Capacity = CapacityFor(k.TicketsPerPerson)
	return k
}

// ticketsPerPerson averages count/teamSize over the trailing closed months.
// The month of the latest ticket counts as closed only when that ticket was
// created on the month's last calendar day.
func (e *Engine) ticketsPerPerson(records []domain.Ticket, months []Count) ([]MonthLoad, *float64) {
	if len(records) == 0 {
		return nil, nil
	}
	latest := records[0].CreatedAt
	for _, r := range records[1:] {
		if r.CreatedAt.After(latest) {
			latest = r.CreatedAt
		}
	}

	window := months
	if !isLastDayOfMonth(latest) && len(window) > 0 && window[len(window)-1].Label == domain.YearMonthOf(latest) {
		window = window[:len(window)-1]
	}
	if len(window) > capacityWindowMonths {
		window = window[len(window)-capacityWindowMonths:]
	}

	loads := make([]MonthLoad, 0, len(window))
	var sum float64
	var n int
	for _, m := range window {
		load := MonthLoad{Month: m.Label, Tickets: m.Count}
		if size, ok := e.taxonomy.TeamSizes.Lookup(m.Label); ok {
			perPerson := float64(m.Count) / float64(size)
			load.TeamSize = &size
			load.PerPerson = &perPerson
			sum += perPerson
			n++
		}
		loads = append(loads, load)
	}
	if n == 0 {
		return loads, nil
	}
	avg := sum / float64(n)
	return loads, &avg
}

// CapacityFor bands a tickets-per-person average.
func CapacityFor(perPerson *float64) CapacityHealth {
	if perPerson == nil {
		return CapacityNoData
	}
	v := *perPerson
	switch {
	case v < 40:
		return CapacityAvailable
	case v <= 70:
		return CapacityOptimal
	case v <= 95:
		return CapacityAtLimit
	default:
		return CapacityWarning
	}
}

func isLastDayOfMonth(t time.Time) bool {
	lastDay := time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
	return t.Day() == lastDay
}
