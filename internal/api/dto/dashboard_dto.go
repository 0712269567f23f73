package dto

import (
	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// FilterQuery captures the dashboard filter from the query string.
type FilterQuery struct {
	From         string `query:"from"`
	To           string `query:"to"`
	Organization string `query:"organization"`
	Assignee     string `query:"assignee"`
	Status       string `query:"status"`
}

// ToFilter converts the query into a domain filter.
func (q FilterQuery) ToFilter() domain.Filter {
	return domain.Filter{
		FromMonth:    q.From,
		ToMonth:      q.To,
		Organization: q.Organization,
		Assignee:     q.Assignee,
		Status:       q.Status,
	}
}

// TicketList response for GET /tickets.
type TicketList struct {
	Filter domain.Filter   `json:"filter"`
	Total  int             `json:"total"`
	Items  []domain.Ticket `json:"items"`
}

// HistoryQuery pages the load history.
type HistoryQuery struct {
	Limit int `query:"limit"`
}
