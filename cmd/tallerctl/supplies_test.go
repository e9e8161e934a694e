package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runParse(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"supplies", "parse"}, args...))

	if err := cmd.Execute(); err != nil {
		t.Fatalf("supplies parse failed: %v", err)
	}
	return buf.String()
}

func TestSuppliesParse_Stdin(t *testing.T) {
	out := runParse(t, "1: Filtro de aire (Pendiente)\n---\n2: Aceite 15W40 (Terminado)")

	for _, want := range []string{"NUMERO", "Filtro de aire", "Aceite 15W40", "Pendientes: 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSuppliesParse_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suministros.txt")
	if err := os.WriteFile(path, []byte("7: Cubierta (Cancelado)\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	out := runParse(t, "", path)
	if !strings.Contains(out, "Cancelado") {
		t.Errorf("expected Cancelado in output:\n%s", out)
	}
	if !strings.Contains(out, "Sin pendientes") {
		t.Errorf("expected no-note decision:\n%s", out)
	}
}

func TestSuppliesParse_Empty(t *testing.T) {
	out := runParse(t, "   \n", "-")
	if !strings.Contains(out, "No supply records found.") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
