package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runIncidences(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := incidencesCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestIncidencesCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "incidences.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
incidences:
  - name: Retardo E1
    options: [Retardo justificado]
  - name: Falta
    options: [Falta justificada, Permiso con goce]
  - name: Vacaciones
`), 0o644))

	out, err := runIncidences(t, "--file", path)
	require.NoError(t, err)
	assert.Equal(t,
		"Retardo E1: Retardo justificado\n"+
			"Falta: Falta justificada, Permiso con goce\n"+
			"Vacaciones: (no corrections)\n",
		out)
}

func TestIncidencesCmd_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "incidences.yaml")
	require.NoError(t, os.WriteFile(path, []byte("incidences:\n  - name: Falta\n  - name: Falta\n"), 0o644))

	_, err := runIncidences(t, "--file", path)
	assert.ErrorContains(t, err, "listed twice")

	_, err = runIncidences(t, "--file", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
