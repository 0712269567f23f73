package analytics

import "github.com/spec-kit/ticket-dashboard/internal/domain"

// MonthStatusHeatmap counts tickets per month (rows) and status (columns)
// over the most recent months of the filtered set.
type MonthStatusHeatmap struct {
	Months   []string `json:"months"`
	Statuses []string `json:"statuses"`
	Cells    [][]int  `json:"cells"`
	Max      int      `json:"max"`
}

// MonthStatusMatrix builds the heatmap over the last six distinct months.
func MonthStatusMatrix(records []domain.Ticket) MonthStatusHeatmap {
	months := CountByMonth(records)
	if len(months) > heatmapMonths {
		months = months[len(months)-heatmapMonths:]
	}
	if len(months) == 0 {
		return MonthStatusHeatmap{Months: []string{}, Statuses: []string{}, Cells: [][]int{}}
	}

	monthIndex := make(map[string]int, len(months))
	labels := make([]string, len(months))
	for i, m := range months {
		monthIndex[m.Label] = i
		labels[i] = m.Label
	}

	perMonth := make([]tally, len(months))
	statusSet := map[string]struct{}{}
	for _, r := range records {
		i, ok := monthIndex[r.YearMonth]
		if !ok {
			continue
		}
		status := labelOr(r.Status, NoStatusLabel)
		statusSet[status] = struct{}{}
		if perMonth[i] == nil {
			perMonth[i] = tally{}
		}
		perMonth[i][status]++
	}

	h := MonthStatusHeatmap{Months: labels, Statuses: sortedKeys(statusSet)}
	h.Cells = make([][]int, len(labels))
	for i := range labels {
		h.Cells[i] = make([]int, len(h.Statuses))
		for j, s := range h.Statuses {
			n := perMonth[i][s]
			h.Cells[i][j] = n
			if n > h.Max {
				h.Max = n
			}
		}
	}
	return h
}
