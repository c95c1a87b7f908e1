package exporter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	// Strip the BOM before parsing
	content := strings.TrimPrefix(string(data), "\xEF\xBB\xBF")
	rows, err := csv.NewReader(strings.NewReader(content)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteSimpleCSV(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	err := w.WriteSimpleCSV("games.csv",
		[]string{"ID", "Name"},
		[][]string{{"100", "Alpha"}, {"200", "Beta"}})
	require.NoError(t, err)

	rows := readCSV(t, filepath.Join(dir, "games.csv"))
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ID", "Name"}, rows[0])
	assert.Equal(t, []string{"200", "Beta"}, rows[2])
}

func TestWriteSimpleCSVHasBOM(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	require.NoError(t, w.WriteSimpleCSV("bom.csv", []string{"A"}, nil))

	data, err := os.ReadFile(filepath.Join(dir, "bom.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "\xEF\xBB\xBF"))
}

func TestWriteCSVCreatesNestedDirectories(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	err := w.WriteSimpleCSV(filepath.Join("reports", "2024", "games.csv"),
		[]string{"ID"}, [][]string{{"100"}})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "reports", "2024", "games.csv"))
	assert.NoError(t, err)
}

func TestAppendToCSV(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	require.NoError(t, w.WriteSimpleCSV("append.csv", []string{"ID"}, [][]string{{"1"}}))
	require.NoError(t, w.AppendToCSV("append.csv", [][]string{{"2"}}))

	rows := readCSV(t, filepath.Join(dir, "append.csv"))
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"2"}, rows[2])
}

func TestWriteCSVAbsolutePathIgnoresBase(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(t.TempDir(), "abs.csv")
	w := NewCSVWriter(base)

	require.NoError(t, w.WriteSimpleCSV(target, []string{"A"}, nil))

	_, err := os.Stat(target)
	assert.NoError(t, err)
}

func TestStreamWriter(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	sw, err := w.CreateStreamWriter("stream.csv", []string{"ID", "Name"})
	require.NoError(t, err)

	require.NoError(t, sw.WriteRecord([]string{"100", "Alpha"}))
	require.NoError(t, sw.WriteRecord([]string{"200", "Beta"}))
	require.NoError(t, sw.Close())

	rows := readCSV(t, filepath.Join(dir, "stream.csv"))
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"100", "Alpha"}, rows[1])
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "13.40", formatFloat(13.4))
	assert.Equal(t, "42", formatInt(42))
	assert.Equal(t, "12.50%", formatPercent(12.5))
}
