package market

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeCSV(t, "acme.csv", `date,open,high,low,close
2024-03-01,49.50,50.25,49.10,50.00
2024-03-04,50.00,51.00,49.80,50.75
`)
	s, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, "acme", s.Instrument())
	require.Equal(t, 2, s.Len())

	b, ok := s.AtDate(Date(2024, 3, 1))
	require.True(t, ok)
	assert.Equal(t, "50", b.Close.String())
	assert.True(t, b.Low.Equal(decimal.RequireFromString("49.10")))
}

func TestLoadCSVCompressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acme.csv.xz")
	f, err := os.Create(path)
	require.NoError(t, err)
	w, err := xz.NewWriter(f)
	require.NoError(t, err)
	_, err = w.Write([]byte(`date,open,high,low,close
2024-03-01,49.50,50.25,49.10,50.00
2024-03-04,50.00,51.00,49.80,50.75
`))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	s, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, "acme", s.Instrument())
	require.Equal(t, 2, s.Len())

	b, ok := s.AtDate(Date(2024, 3, 4))
	require.True(t, ok)
	assert.Equal(t, "50.75", b.Close.String())
}

func TestLoadCSVNoHeader(t *testing.T) {
	path := writeCSV(t, "acme.csv", "2024-03-01,49.50,50.25,49.10,50.00\n")
	s, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
}

func TestLoadCSVBadRows(t *testing.T) {
	for name, content := range map[string]string{
		"short row": "2024-03-01,49.50\n",
		"bad date":  "yesterday,49.50,50.25,49.10,50.00\n",
		"bad price": "2024-03-01,49.50,50.25,49.10,fifty\n",
		"empty":     "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := LoadCSV(writeCSV(t, "bad.csv", content))
			assert.Error(t, err)
		})
	}
}
