package ingest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolvePrefersNonBlank(t *testing.T) {
	row := Row{"organizations": "  ", "organization": "Acme"}
	v, ok := Resolve(row, OrganizationFields...)
	require.True(t, ok)
	require.Equal(t, "Acme", v)
}

func TestResolveFallsBackToPresentBlank(t *testing.T) {
	row := Row{"organisation": "", "organization": " "}
	v, ok := Resolve(row, OrganizationFields...)
	require.True(t, ok)
	require.Equal(t, " ", v)
}

func TestResolveOrderWins(t *testing.T) {
	row := Row{"key": "B-2", "clave de incidencia": "A-1"}
	v, ok := Resolve(row, KeyFields...)
	require.True(t, ok)
	require.Equal(t, "A-1", v)
}

func TestResolveAbsent(t *testing.T) {
	_, ok := Resolve(Row{"other": "x"}, SLAResponseFields...)
	require.False(t, ok)
}

func TestResolveSLAPeriodVariant(t *testing.T) {
	row := Row{"campo personalizado (time to first response).": "-0:45"}
	v, ok := Resolve(row, SLAResponseFields...)
	require.True(t, ok)
	require.Equal(t, "-0:45", v)
}
