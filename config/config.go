package config

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/gorustyt/dynnavmesh/common"
	"github.com/gorustyt/dynnavmesh/navmesh"
)

type Config struct {
	Mesh      MeshConfig           `yaml:"mesh"`
	Obstacles ObstaclesConfig      `yaml:"obstacles"`
	Search    SearchConfig         `yaml:"search"`
	Log       common.LoggerOptions `yaml:"log"`
}

func (cfg *Config) Reset() {
	cfg.Mesh.Reset()
	cfg.Obstacles.Reset()
	cfg.Search.Reset()
	cfg.Log = common.LoggerOptions{Level: "info", MaxSizeMB: 64, MaxBackups: 3, MaxAgeDays: 7}
}

func NewConfig() *Config {
	c := &Config{}
	c.Reset()
	return c
}

// Load reads a yaml file over the defaults. Keys missing from the file keep
// their default value.
func Load(path string) (*Config, error) {
	c := NewConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	if err := c.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return c, nil
}

func (cfg *Config) Validate() (err error) {
	if cfg.Mesh.CellSize <= 0 {
		err = multierr.Append(err, errors.Errorf("mesh.cell_size must be positive, got %v", cfg.Mesh.CellSize))
	}
	if cfg.Obstacles.CellSize <= 0 {
		err = multierr.Append(err, errors.Errorf("obstacles.cell_size must be positive, got %v", cfg.Obstacles.CellSize))
	}
	if cfg.Obstacles.Margin < 0 {
		err = multierr.Append(err, errors.Errorf("obstacles.margin must not be negative, got %v", cfg.Obstacles.Margin))
	}
	if cfg.Search.ExtraPops < 0 {
		err = multierr.Append(err, errors.Errorf("search.extra_pops must not be negative, got %v", cfg.Search.ExtraPops))
	}
	if cfg.Search.MaxVisited < 0 {
		err = multierr.Append(err, errors.Errorf("search.max_visited must not be negative, got %v", cfg.Search.MaxVisited))
	}
	return err
}

type MeshConfig struct {
	CellSize float64 `yaml:"cell_size"` // node index cell size
}

func (cfg *MeshConfig) Reset() {
	cfg.CellSize = 4
}

type ObstaclesConfig struct {
	CellSize float64 `yaml:"cell_size"`
	Margin   float64 `yaml:"margin"` // outline expansion, 0 keeps the outline as given
}

func (cfg *ObstaclesConfig) Reset() {
	cfg.CellSize = 4
	cfg.Margin = 0
}

type SearchConfig struct {
	ExtraPops  int `yaml:"extra_pops"`
	MaxVisited int `yaml:"max_visited"` // FindNearestValid limit, 0 is unbounded
}

func (cfg *SearchConfig) Reset() {
	cfg.ExtraPops = navmesh.DefaultExtraPops
	cfg.MaxVisited = 0
}
