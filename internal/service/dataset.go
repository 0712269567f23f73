package service

import (
	"sort"
	"time"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// Dataset is one accepted export. It is never mutated after load.
type Dataset struct {
	ID            string
	Filename      string
	LoadedBy      string
	LoadedAt      time.Time
	Records       []domain.Ticket
	RowsRead      int
	Skipped       int
	Excluded      int
	DefaultFilter domain.Filter
}

// DatasetInfo describes the current dataset without its records.
type DatasetInfo struct {
	ID            string        `json:"id"`
	Filename      string        `json:"filename"`
	LoadedBy      string        `json:"loaded_by,omitempty"`
	LoadedAt      time.Time     `json:"loaded_at"`
	RowsRead      int           `json:"rows_read"`
	Records       int           `json:"records"`
	Skipped       int           `json:"skipped"`
	Excluded      int           `json:"excluded"`
	DefaultFilter domain.Filter `json:"default_filter"`
}

// Info returns the metadata of d.
func (d *Dataset) Info() DatasetInfo {
	return DatasetInfo{
		ID:            d.ID,
		Filename:      d.Filename,
		LoadedBy:      d.LoadedBy,
		LoadedAt:      d.LoadedAt,
		RowsRead:      d.RowsRead,
		Records:       len(d.Records),
		Skipped:       d.Skipped,
		Excluded:      d.Excluded,
		DefaultFilter: d.DefaultFilter,
	}
}

// FilterOptions lists the distinct values available to each filter control.
type FilterOptions struct {
	Dataset       DatasetInfo `json:"dataset"`
	Months        []string    `json:"months"`
	Organizations []string    `json:"organizations"`
	Assignees     []string    `json:"assignees"`
	Statuses      []string    `json:"statuses"`
}

func (d *Dataset) options() FilterOptions {
	months := map[string]struct{}{}
	orgs := map[string]struct{}{}
	assignees := map[string]struct{}{}
	statuses := map[string]struct{}{}
	for _, r := range d.Records {
		months[r.YearMonth] = struct{}{}
		addNonEmpty(orgs, r.Organization)
		addNonEmpty(assignees, r.Assignee)
		addNonEmpty(statuses, r.Status)
	}
	return FilterOptions{
		Dataset:       d.Info(),
		Months:        sortedSet(months),
		Organizations: sortedSet(orgs),
		Assignees:     sortedSet(assignees),
		Statuses:      sortedSet(statuses),
	}
}

func addNonEmpty(set map[string]struct{}, v string) {
	if v != "" {
		set[v] = struct{}{}
	}
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
