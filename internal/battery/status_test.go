package battery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentAndRatio(t *testing.T) {
	s := Status{Level: 80, Scale: 100}
	assert.Equal(t, 80, s.Percent())
	assert.Equal(t, 0.8, s.Ratio())

	// Non-100 scale broadcasts normalize the same way
	s = Status{Level: 40, Scale: 50}
	assert.Equal(t, 80, s.Percent())
	assert.Equal(t, 0.8, s.Ratio())

	s = Status{Level: 1, Scale: 0}
	assert.Equal(t, 0, s.Percent())

	s = Status{Level: 120, Scale: 100}
	assert.Equal(t, 100, s.Percent())

	s = Status{Level: -3, Scale: 100}
	assert.Equal(t, 0, s.Percent())
}

func TestSysfsReader(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "BAT0")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "capacity"), []byte("73\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "status"), []byte("Charging\n"), 0o644))

	r := NewSysfsReaderAt(root, "BAT0")
	s, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, 73, s.Level)
	assert.Equal(t, 100, s.Scale)
	assert.True(t, s.Charging)
	assert.Equal(t, "BAT0", s.Source)
}

func TestSysfsReaderMissing(t *testing.T) {
	r := NewSysfsReaderAt(t.TempDir(), "BAT9")
	_, err := r.Read()
	assert.Error(t, err)
}
