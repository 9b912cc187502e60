package export

import (
	"archive/zip"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/labplot/internal/ingest"
	"github.com/JonMunkholm/labplot/internal/plot"
)

func readZip(t *testing.T, path string) map[string]string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	out := make(map[string]string)
	var order []string
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		out[f.Name] = string(b)
		order = append(order, f.Name)
	}
	out["__order__"] = strings.Join(order, ",")
	return out
}

func TestWriteDeck(t *testing.T) {
	dir := t.TempDir()
	w := New(dir, "")

	slides := []plot.Artifact{
		{Name: "Ch1", PNG: []byte("one")},
		{Name: "Ch/2", PNG: []byte("two")},
	}
	path, err := w.WriteDeck("Dewar_2.0GPa", slides)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Dewar_2.0GPa.zip"), path)

	entries := readZip(t, path)
	assert.Equal(t, "01_Ch1.png,02_Ch_2.png", entries["__order__"])
	assert.Equal(t, "one", entries["01_Ch1.png"])
	assert.Equal(t, "two", entries["02_Ch_2.png"])
}

func TestWriteDeck_Overwrites(t *testing.T) {
	w := New(t.TempDir(), "")

	_, err := w.WriteDeck("Deck", []plot.Artifact{{Name: "a", PNG: []byte("1")}})
	require.NoError(t, err)
	path, err := w.WriteDeck("Deck", []plot.Artifact{{Name: "b", PNG: []byte("2")}})
	require.NoError(t, err)

	entries := readZip(t, path)
	assert.Equal(t, "01_b.png", entries["__order__"])
}

func TestWriteDeck_Locked(t *testing.T) {
	dir := t.TempDir()
	w := New(dir, "")

	// a directory at the target path cannot be opened for writing
	require.NoError(t, os.Mkdir(filepath.Join(dir, "Busy.zip"), 0o755))

	_, err := w.WriteDeck("Busy", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrResourceLocked))
}

func TestWriteDeck_CustomProbe(t *testing.T) {
	w := New(t.TempDir(), "")
	w.Probe = func(string) error { return ErrResourceLocked }

	_, err := w.WriteDeck("Any", nil)
	assert.ErrorIs(t, err, ErrResourceLocked)
}

func TestSaveProject(t *testing.T) {
	dir := t.TempDir()
	w := New(dir, "project.zip")

	tbl, err := ingest.NewTable([]string{"Temperature", "R1"}, [][]float64{{300, 1.5}, {2, math.NaN()}})
	require.NoError(t, err)

	books := []plot.Book{
		{Name: "CoolingData 2.0 GPa", Sheets: []plot.Sheet{{Name: "Sheet1", Table: tbl}}},
		{Name: "Fields", Sheets: []plot.Sheet{{Name: "Field_10.0", Table: tbl}, {Name: "Field_10.0", Table: tbl}}},
	}
	path, err := w.SaveProject(books)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "project.zip"), path)

	entries := readZip(t, path)
	assert.Equal(t, "Temperature,R1\n300,1.5\n2,\n", entries["CoolingData 2.0 GPa/Sheet1.csv"])
	assert.Contains(t, entries, "Fields/Field_10.0.csv")
	assert.Contains(t, entries, "Fields/Field_10.0_2.csv")
}

func TestSaveProject_SuffixDoesNotCollide(t *testing.T) {
	dir := t.TempDir()
	w := New(dir, "project.zip")

	tbl, err := ingest.NewTable([]string{"Temperature"}, [][]float64{{1}})
	require.NoError(t, err)

	books := []plot.Book{{Name: "B", Sheets: []plot.Sheet{
		{Name: "A", Table: tbl}, {Name: "A", Table: tbl}, {Name: "A_2", Table: tbl},
	}}}
	path, err := w.SaveProject(books)
	require.NoError(t, err)

	entries := readZip(t, path)
	assert.Equal(t, "B/A.csv,B/A_2.csv,B/A_2_2.csv", entries["__order__"])
}

func TestProbeWritable(t *testing.T) {
	dir := t.TempDir()

	assert.NoError(t, ProbeWritable(filepath.Join(dir, "missing.zip")))

	file := filepath.Join(dir, "plain.zip")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	assert.NoError(t, ProbeWritable(file))

	assert.ErrorIs(t, ProbeWritable(dir), ErrResourceLocked)
}

func TestSafeName(t *testing.T) {
	tests := map[string]string{
		"Dewar_2.0GPa": "Dewar_2.0GPa",
		"a/b\\c":       "a_b_c",
		"":             "unnamed",
		"..":           "unnamed",
		" x ":          "x",
	}
	for in, want := range tests {
		assert.Equal(t, want, safeName(in), in)
	}
}
