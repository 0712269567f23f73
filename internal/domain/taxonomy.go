package domain

import "strings"

// DefaultClosedStatuses are status labels counted as resolved.
var DefaultClosedStatuses = []string{
	"done",
	"closed",
	"resolved",
	"resuelto",
	"resuelta",
	"cerrado",
	"cerrada",
	"completado",
	"completada",
	"finalizado",
	"finalizada",
	"listo",
}

// DefaultCanceledStatuses are status labels left out of month-over-month
// comparisons.
var DefaultCanceledStatuses = []string{
	"canceled",
	"cancelled",
	"cancelado",
	"cancelada",
	"anulado",
	"anulada",
	"descartado",
	"descartada",
	"rechazado",
	"rechazada",
	"rejected",
	"won't do",
}

// Taxonomy holds the deployment-specific status vocabularies and headcount.
type Taxonomy struct {
	ClosedStatuses   []string      `yaml:"closed_statuses"`
	CanceledStatuses []string      `yaml:"canceled_statuses"`
	TeamSizes        TeamSizeTable `yaml:"team_sizes"`
}

// DefaultTaxonomy returns the built-in vocabularies and team size table.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		ClosedStatuses:   append([]string(nil), DefaultClosedStatuses...),
		CanceledStatuses: append([]string(nil), DefaultCanceledStatuses...),
		TeamSizes:        append(TeamSizeTable(nil), DefaultTeamSizes...),
	}
}

// IsClosed matches status case-insensitively against the closed vocabulary.
func (t Taxonomy) IsClosed(status string) bool {
	return inVocabulary(t.ClosedStatuses, status)
}

// IsCanceled matches status case-insensitively against the canceled vocabulary.
func (t Taxonomy) IsCanceled(status string) bool {
	return inVocabulary(t.CanceledStatuses, status)
}

func inVocabulary(vocab []string, status string) bool {
	status = strings.TrimSpace(status)
	for _, v := range vocab {
		if strings.EqualFold(v, status) {
			return true
		}
	}
	return false
}
