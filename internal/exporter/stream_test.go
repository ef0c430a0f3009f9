package exporter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "stream.csv")

	sw, err := CreateStreamWriter(path, []string{"file", "score"})
	require.NoError(t, err)
	require.NoError(t, sw.WriteRecord([]string{"a.csv", "91.5"}))
	require.NoError(t, sw.WriteRecord([]string{"b.csv", "88"}))
	require.NoError(t, sw.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	out := strings.TrimPrefix(string(raw), "\xef\xbb\xbf")
	assert.NotEqual(t, string(raw), out, "BOM expected at start of file")
	assert.Equal(t, "file,score\na.csv,91.5\nb.csv,88\n", out)
}
