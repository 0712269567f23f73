package analytics

import (
	"fmt"
	"time"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

type ticketOpt func(*domain.TicketInput)

func withStatus(s string) ticketOpt        { return func(in *domain.TicketInput) { in.Status = s } }
func withOrg(s string) ticketOpt           { return func(in *domain.TicketInput) { in.Organization = s } }
func withAssignee(s string) ticketOpt      { return func(in *domain.TicketInput) { in.Assignee = s } }
func withKey(s string) ticketOpt           { return func(in *domain.TicketInput) { in.Key = s } }
func withSLA(h float64) ticketOpt          { return func(in *domain.TicketInput) { in.SLAResponseHours = &h } }
func withSatisfaction(v float64) ticketOpt { return func(in *domain.TicketInput) { in.Satisfaction = &v } }

func ticketAt(ts string, opts ...ticketOpt) domain.Ticket {
	created, err := time.ParseInLocation("2006-01-02 15:04", ts, time.UTC)
	if err != nil {
		panic(err)
	}
	in := domain.TicketInput{CreatedAt: created}
	for _, opt := range opts {
		opt(&in)
	}
	return domain.NewTicket(in)
}

// monthTickets creates n tickets on the given day of a month.
func monthTickets(month string, day, n int, opts ...ticketOpt) []domain.Ticket {
	out := make([]domain.Ticket, 0, n)
	for i := 0; i < n; i++ {
		ts := month + "-" + twoDigits(day) + " 10:00"
		out = append(out, ticketAt(ts, opts...))
	}
	return out
}

func twoDigits(n int) string {
	return fmt.Sprintf("%02d", n)
}

func concat(sets ...[]domain.Ticket) []domain.Ticket {
	var out []domain.Ticket
	for _, s := range sets {
		out = append(out, s...)
	}
	return out
}
