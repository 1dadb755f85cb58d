package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorustyt/dynnavmesh/navmesh"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "navmesh.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	c := NewConfig()
	assert.Equal(t, navmesh.DefaultExtraPops, c.Search.ExtraPops)
	assert.Equal(t, "info", c.Log.Level)
	assert.NoError(t, c.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
mesh:
  cell_size: 2.5
obstacles:
  margin: 0.25
search:
  extra_pops: 3
log:
  level: debug
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2.5, c.Mesh.CellSize)
	assert.Equal(t, 0.25, c.Obstacles.Margin)
	assert.Equal(t, 4.0, c.Obstacles.CellSize, "missing keys keep the default")
	assert.Equal(t, 3, c.Search.ExtraPops)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, 64, c.Log.MaxSizeMB)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "mesh: [1, 2"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "mesh:\n  cell_size: -1\nsearch:\n  extra_pops: -2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mesh.cell_size")
	assert.Contains(t, err.Error(), "search.extra_pops")
}

func TestReset(t *testing.T) {
	c := NewConfig()
	c.Mesh.CellSize = 100
	c.Search.ExtraPops = 0
	c.Reset()
	assert.Equal(t, NewConfig(), c)
}
