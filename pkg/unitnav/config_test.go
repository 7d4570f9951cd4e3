package unitnav

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("Expected the default config to be valid, got %v", err)
	}
	if got := DefaultConfig().TickInterval(); got != 0.05 {
		t.Fatalf("Expected a 0.05s tick, got %v", got)
	}
}

func TestParseConfig(t *testing.T) {
	data := []byte(`
tick_rate: 10
fog_of_war: true
scene_bounds:
  min_x: -500
  min_y: -500
  max_x: 500
  max_y: 500
navigator:
  max_consider: 8
`)
	cfg, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}

	if cfg.TickRate != 10 || !cfg.FogOfWar {
		t.Fatalf("Expected parsed values, got %+v", cfg)
	}
	if cfg.TurnRate != DefaultConfig().TurnRate {
		t.Fatalf("Expected default turn rate, got %v", cfg.TurnRate)
	}
	if b := cfg.SceneBounds.AABB(); b.Min[0] != -500 || b.Max[1] != 500 {
		t.Fatalf("Unexpected bounds %+v", b)
	}
	if cfg.Navigator.MaxConsider != 8 {
		t.Fatalf("Expected max_consider 8, got %d", cfg.Navigator.MaxConsider)
	}
	if cfg.Navigator.DefaultGoalTolerance != DefaultConfig().Navigator.DefaultGoalTolerance {
		t.Fatalf("Expected navigator defaults to survive a partial section")
	}
}

func TestParseConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty bounds", "scene_bounds: {min_x: 10, max_x: 10, min_y: 0, max_y: 1}"},
		{"negative tick rate", "tick_rate: -1"},
		{"unknown log level", "log_level: loud"},
		{"unknown heuristic", "heuristic: dijkstra"},
		{"bad navigator value", "navigator: {max_consider: 0}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseConfig([]byte(tt.data)); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	if _, err := ParseConfig([]byte("tick_rate: [")); err == nil {
		t.Fatalf("Expected a YAML error")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	if err := os.WriteFile(path, []byte("path_cache_size: 16\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.PathCacheSize != 16 {
		t.Fatalf("Expected path cache size 16, got %d", cfg.PathCacheSize)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("Expected an error for a missing file")
	}
}
