package navigator

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("Default config should be valid, got %v", err)
	}
}

func TestParseConfigKeepsDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("max_consider: 8\nreactive_path: false\nthreshold_max: 0.75\n"))
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}

	if cfg.MaxConsider != 8 || cfg.ReactivePath || cfg.ThresholdMax != 0.75 {
		t.Fatalf("Expected overrides to apply, got %+v", cfg)
	}
	def := DefaultConfig()
	if cfg.DiscomfortWeightMax != def.DiscomfortWeightMax || cfg.SeedLifetime != def.SeedLifetime {
		t.Fatalf("Expected untouched fields to keep their defaults")
	}
}

func TestParseConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"negative consider", "max_consider: -1"},
		{"too many scan steps", "max_scan_steps: 12"},
		{"discomfort range empty", "discomfort_weight_max: 0.5"},
		{"facing cone", "facing_cone: 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseConfig([]byte(tt.yaml)); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	if _, err := ParseConfig([]byte("max_consider: [")); err == nil || errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Expected a YAML error, got %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nav.yaml")
	if err := os.WriteFile(path, []byte("local_path_distance: 150\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.LocalPathDistance != 150 {
		t.Fatalf("Expected local_path_distance 150, got %v", cfg.LocalPathDistance)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Expected a not exist error, got %v", err)
	}
}

func TestThresholds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ThresholdMinOffset = 0.1
	cfg.NoGoalThresholdMinOffset = 0.2
	cfg.NoGoalThresholdMax = 0.5

	if tmin, tmax := cfg.thresholds(true); tmin != cfg.Threshold+0.1 || tmax != cfg.ThresholdMax {
		t.Fatalf("Unexpected goal thresholds %v, %v", tmin, tmax)
	}
	if tmin, tmax := cfg.thresholds(false); tmin != cfg.Threshold+0.2 || tmax != 0.5 {
		t.Fatalf("Unexpected no goal thresholds %v, %v", tmin, tmax)
	}
}
