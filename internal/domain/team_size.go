package domain

// TeamSizeRange assigns a headcount to an inclusive range of YYYY-MM keys.
// An empty To leaves the range open-ended.
type TeamSizeRange struct {
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
	Size int    `yaml:"size" json:"size"`
}

// TeamSizeTable maps months to support team headcount.
type TeamSizeTable []TeamSizeRange

// DefaultTeamSizes is the historical headcount of the support team.
var DefaultTeamSizes = TeamSizeTable{
	{From: "2024-06", To: "2025-06", Size: 5},
	{From: "2025-07", Size: 3},
}

// Lookup returns the headcount for a month, or false when the month is
// outside every defined range.
func (t TeamSizeTable) Lookup(yearMonth string) (int, bool) {
	for _, r := range t {
		if yearMonth < r.From {
			continue
		}
		if r.To != "" && yearMonth > r.To {
			continue
		}
		if r.Size <= 0 {
			return 0, false
		}
		return r.Size, true
	}
	return 0, false
}
