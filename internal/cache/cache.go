// Package cache memoizes computed dashboards and reports per dataset and filter.
package cache

import (
	"context"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// DashboardCache stores JSON-encodable views keyed by dataset and filter.
type DashboardCache interface {
	// Get decodes the cached value into dst and reports whether it was found.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	// Invalidate drops every entry computed from the dataset.
	Invalidate(ctx context.Context, datasetID string) error
}

const (
	kindDashboard = "dashboard"
	kindReport    = "report"
	kindTickets   = "tickets"
)

// DashboardKey addresses the dashboard view of a dataset under a filter.
func DashboardKey(datasetID string, filter domain.Filter) string {
	return key(kindDashboard, datasetID, filter)
}

// ReportKey addresses the executive report of a dataset under a filter.
func ReportKey(datasetID string, filter domain.Filter) string {
	return key(kindReport, datasetID, filter)
}

// TicketsKey addresses the filtered record list.
func TicketsKey(datasetID string, filter domain.Filter) string {
	return key(kindTickets, datasetID, filter)
}

func key(kind, datasetID string, filter domain.Filter) string {
	return kind + ":" + datasetID + ":" + filter.Key()
}

type noop struct{}

// NewNoop returns a cache that never stores anything.
func NewNoop() DashboardCache {
	return noop{}
}

func (noop) Get(context.Context, string, any) (bool, error) { return false, nil }
func (noop) Set(context.Context, string, any) error         { return nil }
func (noop) Invalidate(context.Context, string) error       { return nil }
