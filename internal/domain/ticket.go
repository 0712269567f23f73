package domain

import (
	"fmt"
	"time"
)

// SLAStatus classifies the first-response SLA outcome of a ticket.
type SLAStatus string

const (
	SLACompliant SLAStatus = "Compliant"
	SLABreached  SLAStatus = "Breached"
)

// SLAStatusFor derives the SLA outcome from the signed response hours.
// A nil value means "no data" and counts as compliant.
func SLAStatusFor(hours *float64) SLAStatus {
	if hours != nil && *hours < 0 {
		return SLABreached
	}
	return SLACompliant
}

// Ticket is the canonical record produced from one CSV row. It is treated
// as immutable once built by NewTicket.
type Ticket struct {
	Key              string    `json:"key"`
	Organization     string    `json:"organization"`
	Status           string    `json:"status"`
	Assignee         string    `json:"assignee"`
	CreatedAt        time.Time `json:"created_at"`
	Year             int       `json:"year"`
	YearMonth        string    `json:"year_month"`
	SLAResponseHours *float64  `json:"sla_response_hours"`
	SLAResponse      SLAStatus `json:"sla_response_status"`
	Satisfaction     *float64  `json:"satisfaction"`
}

// TicketInput carries the already-parsed fields of a ticket.
type TicketInput struct {
	Key              string
	Organization     string
	Status           string
	Assignee         string
	CreatedAt        time.Time
	SLAResponseHours *float64
	Satisfaction     *float64
}

// NewTicket builds a Ticket and derives its calendar keys and SLA status.
func NewTicket(in TicketInput) Ticket {
	return Ticket{
		Key:              in.Key,
		Organization:     in.Organization,
		Status:           in.Status,
		Assignee:         in.Assignee,
		CreatedAt:        in.CreatedAt,
		Year:             in.CreatedAt.Year(),
		YearMonth:        YearMonthOf(in.CreatedAt),
		SLAResponseHours: in.SLAResponseHours,
		SLAResponse:      SLAStatusFor(in.SLAResponseHours),
		Satisfaction:     in.Satisfaction,
	}
}

// Breached reports whether the ticket missed its first-response SLA.
func (t Ticket) Breached() bool {
	return t.SLAResponse == SLABreached
}

// YearMonthOf formats an instant as a YYYY-MM key.
func YearMonthOf(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// ParseYearMonth splits a YYYY-MM key into year and month.
func ParseYearMonth(key string) (int, time.Month, bool) {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return 0, 0, false
	}
	return t.Year(), t.Month(), true
}

// MonthLabel renders a YYYY-MM key as "January 2026". Unparseable keys are
// returned unchanged.
func MonthLabel(key string) string {
	year, month, ok := ParseYearMonth(key)
	if !ok {
		return key
	}
	return fmt.Sprintf("%s %d", month.String(), year)
}
