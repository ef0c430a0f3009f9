package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandArgs(t *testing.T) {
	dir := t.TempDir()
	csv := filepath.Join(dir, "a.csv")
	require.NoError(t, os.WriteFile(csv, []byte("x\n1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.json"), []byte("[]"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.txt"), []byte("no"), 0o644))

	paths, err := expandArgs([]string{dir})
	require.NoError(t, err)
	assert.Len(t, paths, 2)

	paths, err = expandArgs([]string{csv})
	require.NoError(t, err)
	assert.Equal(t, []string{csv}, paths)

	_, err = expandArgs([]string{filepath.Join(dir, "missing.csv")})
	assert.Error(t, err)
}

func TestWriteBatchCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.csv")
	results := []batchResult{
		{File: "a.csv", Rows: 10, Columns: 3, Score: 97.5, Duration: "1ms"},
		{File: "b.csv", Duration: "0s", Error: "unknown file format"},
	}

	require.NoError(t, writeBatchCSV(path, results))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	body := strings.TrimPrefix(string(raw), "\xef\xbb\xbf")

	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "file,rows,columns,data_quality_score,duration,error", lines[0])
	assert.Equal(t, "a.csv,10,3,97.50,1ms,", lines[1])
	assert.Equal(t, "b.csv,0,0,0.00,0s,unknown file format", lines[2])
}

func TestAnalyzeOneFoldsErrors(t *testing.T) {
	result := analyzeOne(filepath.Join(t.TempDir(), "missing.csv"))
	assert.NotEmpty(t, result.Error)
	assert.NotEmpty(t, result.Duration)
}

func TestAnalyzeOne(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte("region,sales\nnorth,100\nsouth,200\n"), 0o644))

	result := analyzeOne(path)
	assert.Empty(t, result.Error)
	assert.Equal(t, 2, result.Rows)
	assert.Equal(t, 2, result.Columns)
	assert.Greater(t, result.Score, 0.0)
}
