package analytics

import (
	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// Sentinel labels for blank grouping keys.
const (
	NoStatusLabel       = "(no status)"
	UnassignedLabel     = "(unassigned)"
	NoOrganizationLabel = "(no organization)"
	OtherLabel          = "Other"
)

const (
	topAssigneeLimit     = 10
	organizationPieLimit = 5
	heatmapMonths        = 6
	capacityWindowMonths = 6
)

// Engine computes dashboards and executive reports. It holds only the
// taxonomy and never mutates its inputs, so one Engine can serve any number
// of concurrent callers.
type Engine struct {
	taxonomy domain.Taxonomy
}

// NewEngine builds an engine. Empty taxonomy parts fall back to defaults.
func NewEngine(taxonomy domain.Taxonomy) *Engine {
	def := domain.DefaultTaxonomy()
	if len(taxonomy.ClosedStatuses) == 0 {
		taxonomy.ClosedStatuses = def.ClosedStatuses
	}
	if len(taxonomy.CanceledStatuses) == 0 {
		taxonomy.CanceledStatuses = def.CanceledStatuses
	}
	if len(taxonomy.TeamSizes) == 0 {
		taxonomy.TeamSizes = def.TeamSizes
	}
	return &Engine{taxonomy: taxonomy}
}

// Taxonomy returns the vocabularies in use.
func (e *Engine) Taxonomy() domain.Taxonomy {
	return e.taxonomy
}

// Dashboard is every series and KPI shown for one filter state.
type Dashboard struct {
	Filter          domain.Filter      `json:"filter"`
	Records         []domain.Ticket    `json:"-"`
	KPIs            KPIs               `json:"kpis"`
	ByMonth         []Count            `json:"by_month"`
	ByYear          []YearCount        `json:"by_year"`
	YearStatus      YearStatusSeries   `json:"year_status"`
	YearSLA         []YearSLA          `json:"year_sla"`
	YearCSAT        []YearCSAT         `json:"year_csat"`
	TopAssignees    []Count            `json:"top_assignees"`
	Organizations   []Count            `json:"organizations"`
	OrganizationPie []Count            `json:"organization_pie"`
	HourOfDay       HourSeries         `json:"hour_of_day"`
	WeekdayHour     WeekdayHourMatrix  `json:"weekday_hour"`
	MonthStatus     MonthStatusHeatmap `json:"month_status"`
}

// Apply returns the records matching filter, preserving input order.
func Apply(records []domain.Ticket, filter domain.Filter) []domain.Ticket {
	out := make([]domain.Ticket, 0, len(records))
	for _, r := range records {
		if filter.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// Dashboard filters records and folds the result into every series.
func (e *Engine) Dashboard(records []domain.Ticket, filter domain.Filter) Dashboard {
	filtered := Apply(records, filter)
	return Dashboard{
		Filter:          filter,
		Records:         filtered,
		KPIs:            e.KPIs(filtered),
		ByMonth:         CountByMonth(filtered),
		ByYear:          CountByYear(filtered),
		YearStatus:      CountByYearStatus(filtered),
		YearSLA:         CountByYearSLA(filtered),
		YearCSAT:        CountByYearCSAT(filtered),
		TopAssignees:    TopAssignees(filtered),
		Organizations:   CountByOrganization(filtered),
		OrganizationPie: OrganizationPie(filtered),
		HourOfDay:       CountByHour(filtered),
		WeekdayHour:     CountByWeekdayHour(filtered),
		MonthStatus:     MonthStatusMatrix(filtered),
	}
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
