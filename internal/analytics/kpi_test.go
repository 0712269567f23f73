package analytics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

func TestKPIsBasics(t *testing.T) {
	engine := NewEngine(domain.Taxonomy{})
	records := []domain.Ticket{
		ticketAt("2026-01-02 10:00", withSLA(-0.5), withSatisfaction(4)),
		ticketAt("2026-01-03 10:00", withSLA(0), withSatisfaction(5)),
		ticketAt("2026-02-01 10:00"),
		ticketAt("2026-02-03 10:00", withSLA(1.5)),
	}

	k := engine.KPIs(records)
	require.Equal(t, 4, k.Total)
	require.Equal(t, 1, k.Breached)
	require.InDelta(t, 25.0, k.BreachedPct, 1e-9)
	require.Equal(t, "2026-02", k.LatestMonth)
	require.Equal(t, 2, k.LatestMonthCount)
	require.NotNil(t, k.CSATAverage)
	require.InDelta(t, 4.5, *k.CSATAverage, 1e-9)
	require.Equal(t, 2, k.CSATResponses)
	require.InDelta(t, 50.0, k.CSATCoveragePct, 1e-9)
}

func TestKPIsEmpty(t *testing.T) {
	k := NewEngine(domain.Taxonomy{}).KPIs(nil)
	require.Equal(t, 0, k.Total)
	require.Zero(t, k.BreachedPct)
	require.Zero(t, k.CSATCoveragePct)
	require.Nil(t, k.CSATAverage)
	require.Nil(t, k.TicketsPerPerson)
	require.Equal(t, CapacityNoData, k.Capacity)
	require.Equal(t, "", k.LatestMonth)
}

func TestTicketsPerPersonExcludesOpenMonth(t *testing.T) {
	records := concat(
		monthTickets("2025-01", 10, 100),
		monthTickets("2025-02", 10, 250),
		monthTickets("2025-03", 10, 250),
		monthTickets("2025-04", 10, 250),
		monthTickets("2025-05", 10, 250),
		monthTickets("2025-06", 10, 250),
		monthTickets("2025-07", 10, 150),
		monthTickets("2025-08", 14, 10),
	)
	k := NewEngine(domain.Taxonomy{}).KPIs(records)

	require.Len(t, k.CapacityMonths, 6)
	require.Equal(t, "2025-02", k.CapacityMonths[0].Month)
	require.Equal(t, "2025-07", k.CapacityMonths[5].Month)
	require.NotNil(t, k.CapacityMonths[5].TeamSize)
	require.Equal(t, 3, *k.CapacityMonths[5].TeamSize)
	require.NotNil(t, k.TicketsPerPerson)
	require.InDelta(t, 50.0, *k.TicketsPerPerson, 1e-9)
	require.Equal(t, CapacityOptimal, k.Capacity)
}

func TestTicketsPerPersonIncludesClosedMonth(t *testing.T) {
	records := concat(
		monthTickets("2025-06", 10, 250),
		monthTickets("2025-07", 10, 300),
		[]domain.Ticket{ticketAt("2025-07-31 23:59")},
	)
	k := NewEngine(domain.Taxonomy{}).KPIs(records)

	require.Len(t, k.CapacityMonths, 2)
	require.Equal(t, "2025-07", k.CapacityMonths[1].Month)
	// June: 250/5 = 50, July: 301/3.
	want := (50.0 + 301.0/3.0) / 2
	require.InDelta(t, want, *k.TicketsPerPerson, 1e-9)
	require.Equal(t, CapacityAtLimit, k.Capacity)
}

func TestTicketsPerPersonUnknownTeamSize(t *testing.T) {
	records := concat(
		monthTickets("2024-03", 10, 20),
		monthTickets("2024-04", 10, 20),
		monthTickets("2024-05", 10, 20),
	)
	k := NewEngine(domain.Taxonomy{}).KPIs(records)

	require.Len(t, k.CapacityMonths, 2)
	for _, m := range k.CapacityMonths {
		require.Nil(t, m.TeamSize)
		require.Nil(t, m.PerPerson)
	}
	require.Nil(t, k.TicketsPerPerson)
	require.Equal(t, CapacityNoData, k.Capacity)
}

func TestTicketsPerPersonSkipsUnknownMonthsInAverage(t *testing.T) {
	records := concat(
		monthTickets("2024-05", 10, 500),
		monthTickets("2024-06", 10, 100),
		[]domain.Ticket{ticketAt("2024-06-30 18:00")},
	)
	k := NewEngine(domain.Taxonomy{}).KPIs(records)
	require.NotNil(t, k.TicketsPerPerson)
	require.InDelta(t, 101.0/5.0, *k.TicketsPerPerson, 1e-9)
	require.Equal(t, CapacityAvailable, k.Capacity)
}

func TestCapacityFor(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	cases := []struct {
		in   *float64
		want CapacityHealth
	}{
		{nil, CapacityNoData},
		{f(0), CapacityAvailable},
		{f(39.99), CapacityAvailable},
		{f(40), CapacityOptimal},
		{f(70), CapacityOptimal},
		{f(70.01), CapacityAtLimit},
		{f(95), CapacityAtLimit},
		{f(95.01), CapacityWarning},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, CapacityFor(tc.in))
	}
}
