package ingest

import "strings"

// Row maps lower-cased, trimmed column names to raw cell values.
type Row map[string]string

// Header candidates per logical field, in resolution order.
var (
	CreatedFields  = []string{"creada", "created", "fecha de creación", "fecha de creacion"}
	KeyFields      = []string{"clave de incidencia", "key", "issue key"}
	StatusFields   = []string{"estado", "status"}
	AssigneeFields = []string{"persona asignada", "assignee"}

	OrganizationFields = []string{
		"campo personalizado (organizations)",
		"organizations",
		"organization",
		"organisation",
	}

	SLAResponseFields = []string{
		"campo personalizado (time to first response)",
		"campo personalizado (time to first response).",
		"custom field (time to first response)",
		"custom field (time to first response).",
		"time to first response",
		"sla response",
		"sla de response",
	}

	SatisfactionFields = []string{
		"calificación de satisfacción",
		"calificacion de satisfaccion",
		"satisfaction",
	}
)

// Resolve returns the value of the first candidate column that is present
// and non-blank. When every present candidate is blank, the first present
// one wins. The boolean is false when no candidate column exists at all.
func Resolve(row Row, candidates ...string) (string, bool) {
	for _, name := range candidates {
		if v, ok := row[name]; ok && strings.TrimSpace(v) != "" {
			return v, true
		}
	}
	for _, name := range candidates {
		if v, ok := row[name]; ok {
			return v, true
		}
	}
	return "", false
}

// resolveTrimmed resolves a field and trims it; absent fields yield "".
func resolveTrimmed(row Row, candidates ...string) string {
	v, _ := Resolve(row, candidates...)
	return strings.TrimSpace(v)
}
