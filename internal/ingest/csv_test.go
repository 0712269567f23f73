package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadCSVComma(t *testing.T) {
	data := "\ufeffClave de incidencia, Estado ,Creada\nSUP-1,Open,19/ene/26 12:47 PM\n\nSUP-2,Closed,20/ene/26 09:00 AM\n"
	rows, err := ReadCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "SUP-1", rows[0]["clave de incidencia"])
	require.Equal(t, "Open", rows[0]["estado"])
	require.Equal(t, "20/ene/26 09:00 AM", rows[1]["creada"])
}

func TestReadCSVSemicolon(t *testing.T) {
	data := "Creada;Estado;Campo personalizado (Time to first response)\n19/ene/26 12:47 PM;Open;-1,5\n"
	rows, err := ReadCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "-1,5", rows[0]["campo personalizado (time to first response)"])
}

func TestReadCSVDuplicateHeaders(t *testing.T) {
	data := "Creada,Organization,Organization\n19/ene/26 12:47 PM,,Acme\n"
	rows, err := ReadCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, "Acme", rows[0]["organization"])
}

func TestReadCSVErrors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("   \n"))
	require.ErrorIs(t, err, ErrMissingHeader)

	_, err = ReadCSV(strings.NewReader("a,b\n1,2,3\n"))
	require.ErrorIs(t, err, ErrMalformedCSV)
}

func TestReadCSVThenNormalize(t *testing.T) {
	data := "Creada,Estado,Persona asignada\n19/ene/26 12:47 PM,Open,Ana\nbad,Open,Ana\n"
	rows, err := ReadCSV(strings.NewReader(data))
	require.NoError(t, err)
	batch, err := Normalize(rows)
	require.NoError(t, err)
	require.Len(t, batch.Records, 1)
	require.Equal(t, 1, batch.Skipped)
}
