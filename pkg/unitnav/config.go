package unitnav

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"unitnav/internal/core"
	"unitnav/internal/navigator"
	"unitnav/internal/pathfinding"
)

var ErrInvalidConfig = errors.New("invalid engine config")

// Rect is a ground plane rectangle in world units
type Rect struct {
	MinX float64 `yaml:"min_x"`
	MinY float64 `yaml:"min_y"`
	MaxX float64 `yaml:"max_x"`
	MaxY float64 `yaml:"max_y"`
}

// AABB converts the rectangle
func (r Rect) AABB() core.AABB {
	return NewAABB(r.MinX, r.MinY, r.MaxX, r.MaxY)
}

// Config holds configuration for the engine
type Config struct {
	SceneBounds    Rect    `yaml:"scene_bounds"`
	TickRate       float64 `yaml:"tick_rate"` // ticks per simulated second
	TurnRate       float64 `yaml:"turn_rate"` // degrees per second, 0 turns instantly
	PathCacheSize  int     `yaml:"path_cache_size"`
	Heuristic      string  `yaml:"heuristic"` // euclidean, ground, manhattan or octile
	MaxSearchNodes int     `yaml:"max_search_nodes"`
	FogOfWar       bool    `yaml:"fog_of_war"`
	FogCellSize    float64 `yaml:"fog_cell_size"`
	LogLevel       string  `yaml:"log_level"`

	Navigator *navigator.Config `yaml:"navigator"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		SceneBounds:    Rect{MinX: -4096, MinY: -4096, MaxX: 4096, MaxY: 4096},
		TickRate:       20,
		TurnRate:       720,
		PathCacheSize:  256,
		Heuristic:      "euclidean",
		MaxSearchNodes: 10000,
		FogCellSize:    64,
		LogLevel:       "info",
		Navigator:      navigator.DefaultConfig(),
	}
}

// LoadConfig reads a YAML file on top of the defaults
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read engine config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML on top of the defaults
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse engine config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the engine settings and the embedded navigator tuning
func (c *Config) Validate() error {
	var errs []error
	if c.SceneBounds.MaxX <= c.SceneBounds.MinX || c.SceneBounds.MaxY <= c.SceneBounds.MinY {
		errs = append(errs, fmt.Errorf("scene_bounds empty: %+v", c.SceneBounds))
	}
	if c.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("tick_rate out of range: %v", c.TickRate))
	}
	if c.TurnRate < 0 {
		errs = append(errs, fmt.Errorf("turn_rate out of range: %v", c.TurnRate))
	}
	if c.PathCacheSize < 0 {
		errs = append(errs, fmt.Errorf("path_cache_size out of range: %v", c.PathCacheSize))
	}
	if _, err := pathfinding.HeuristicByName(c.Heuristic); err != nil {
		errs = append(errs, err)
	}
	if c.MaxSearchNodes <= 0 {
		errs = append(errs, fmt.Errorf("max_search_nodes out of range: %v", c.MaxSearchNodes))
	}
	if c.FogOfWar && c.FogCellSize <= 0 {
		errs = append(errs, fmt.Errorf("fog_cell_size out of range: %v", c.FogCellSize))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if c.Navigator == nil {
		errs = append(errs, errors.New("navigator config missing"))
	} else if err := c.Navigator.Validate(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// TickInterval is the simulated seconds per tick
func (c *Config) TickInterval() float64 {
	return 1 / c.TickRate
}
