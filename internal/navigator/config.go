package navigator

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every navigator tunable. A single Config is usually shared by
// all navigators of a simulation.
type Config struct {
	// Consider list and direction sampling
	ConsiderMultiplier   float64 `yaml:"consider_multiplier"`
	MaxConsider          int     `yaml:"max_consider"`
	ScanEarlyExitDensity float64 `yaml:"scan_early_exit_density"`
	MaxScanSteps         int     `yaml:"max_scan_steps"`

	// Density and flow
	SlowEntitySpeed float64 `yaml:"slow_entity_speed"`
	RepulsionScale  float64 `yaml:"repulsion_scale"`
	SeedRadiusBloat float64 `yaml:"seed_radius_bloat"`
	SeedDensity     float64 `yaml:"seed_density"`
	SeedLifetime    float64 `yaml:"seed_lifetime"`
	MinFlowSpeed    float64 `yaml:"min_flow_speed"`

	// Path/flow blend thresholds
	Threshold                float64 `yaml:"threshold"`
	ThresholdMinOffset       float64 `yaml:"threshold_min_offset"`
	NoGoalThresholdMinOffset float64 `yaml:"nogoal_threshold_min_offset"`
	ThresholdMax             float64 `yaml:"threshold_max"`
	NoGoalThresholdMax       float64 `yaml:"nogoal_threshold_max"`

	// Direction cost
	CostTimeWeight   float64 `yaml:"cost_time_weight"`
	CostDistWeight   float64 `yaml:"cost_dist_weight"`
	DensityNoMove    float64 `yaml:"density_no_move"`
	NoGoalMinDiff    float64 `yaml:"nogoal_min_diff"`
	NoGoalMinDensity float64 `yaml:"nogoal_min_density"`

	// Discomfort integrator
	DiscomfortWeightStart   float64 `yaml:"discomfort_weight_start"`
	DiscomfortGrowThreshold float64 `yaml:"discomfort_grow_threshold"`
	DiscomfortGrowRate      float64 `yaml:"discomfort_grow_rate"`
	DiscomfortWeightMax     float64 `yaml:"discomfort_weight_max"`

	// Debounce intervals in simulation seconds
	RecomputeDebounce     float64 `yaml:"recompute_debounce"`
	ReactivePath          bool    `yaml:"reactive_path"`
	ReactivePathInterval  float64 `yaml:"reactive_path_interval"`
	PositionCheckInterval float64 `yaml:"position_check_interval"`
	StuckDistance         float64 `yaml:"stuck_distance"`

	// Route building
	LocalPathDistance float64 `yaml:"local_path_distance"`
	AreaBeneathLimit  float64 `yaml:"area_beneath_limit"`
	WaypointUpZ       float64 `yaml:"waypoint_up_z"`
	ClimbTolerance    float64 `yaml:"climb_tolerance"`
	AllowCachedPaths  bool    `yaml:"allow_cached_paths"`
	RequireArea       bool    `yaml:"require_area"`

	// Reactive path checks
	ReactiveMaxLookAhead        float64 `yaml:"reactive_max_look_ahead"`
	ReactiveMaxWaypointsAhead   int     `yaml:"reactive_max_waypoints_ahead"`
	TestRouteStepSize           float64 `yaml:"test_route_step_size"`
	TestRouteBloatScale         float64 `yaml:"test_route_bloat_scale"`
	TestBeneathLimit            float64 `yaml:"test_beneath_limit"`
	DefaultTestRouteStartHeight float64 `yaml:"default_test_route_start_height"`

	// Goals and facing
	DefaultGoalTolerance    float64 `yaml:"default_goal_tolerance"`
	ForcedGoalDistanceBonus float64 `yaml:"forced_goal_distance_bonus"`
	IdealYawTolerance       float64 `yaml:"ideal_yaw_tolerance"`
	FacingCone              float64 `yaml:"facing_cone"`
	EatMoves                bool    `yaml:"eat_moves"`
}

// DefaultConfig returns the default tuning
func DefaultConfig() *Config {
	return &Config{
		ConsiderMultiplier:   2.5,
		MaxConsider:          32,
		ScanEarlyExitDensity: 0.01,
		MaxScanSteps:         4,

		SlowEntitySpeed: 25,
		RepulsionScale:  2000,
		SeedRadiusBloat: 1.5,
		SeedDensity:     0.1,
		SeedLifetime:    0.5,
		MinFlowSpeed:    15,

		Threshold:                0.0009,
		ThresholdMinOffset:       0,
		NoGoalThresholdMinOffset: 0,
		ThresholdMax:             1.0,
		NoGoalThresholdMax:       0,

		CostTimeWeight:   1,
		CostDistWeight:   1,
		DensityNoMove:    0.5,
		NoGoalMinDiff:    0.25,
		NoGoalMinDensity: 0.4,

		DiscomfortWeightStart:   1,
		DiscomfortGrowThreshold: 0.05,
		DiscomfortGrowRate:      500,
		DiscomfortWeightMax:     25000,

		RecomputeDebounce:     0.8,
		ReactivePath:          true,
		ReactivePathInterval:  0.25,
		PositionCheckInterval: 0.5,
		StuckDistance:         1,

		LocalPathDistance: 300,
		AreaBeneathLimit:  120,
		WaypointUpZ:       8,
		ClimbTolerance:    2,
		AllowCachedPaths:  true,
		RequireArea:       true,

		ReactiveMaxLookAhead:        2048,
		ReactiveMaxWaypointsAhead:   5,
		TestRouteStepSize:           16,
		TestRouteBloatScale:         1.2,
		TestBeneathLimit:            2000,
		DefaultTestRouteStartHeight: 32,

		DefaultGoalTolerance:    64,
		ForcedGoalDistanceBonus: 1000,
		IdealYawTolerance:       2.5,
		FacingCone:              0.7,
	}
}

// LoadConfig reads a YAML file on top of the defaults
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read navigator config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML on top of the defaults, so partial documents are valid
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse navigator config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every out of range tunable
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, name string, v any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%s out of range: %v", name, v))
		}
	}

	check(c.ConsiderMultiplier > 0, "consider_multiplier", c.ConsiderMultiplier)
	check(c.MaxConsider > 0, "max_consider", c.MaxConsider)
	check(c.ScanEarlyExitDensity >= 0, "scan_early_exit_density", c.ScanEarlyExitDensity)
	check(c.MaxScanSteps >= 0 && c.MaxScanSteps < maxSamples, "max_scan_steps", c.MaxScanSteps)
	check(c.SlowEntitySpeed >= 0, "slow_entity_speed", c.SlowEntitySpeed)
	check(c.SeedRadiusBloat > 0, "seed_radius_bloat", c.SeedRadiusBloat)
	check(c.SeedLifetime >= 0, "seed_lifetime", c.SeedLifetime)
	check(c.MinFlowSpeed >= 0, "min_flow_speed", c.MinFlowSpeed)
	check(c.DiscomfortWeightMax > c.DiscomfortWeightStart, "discomfort_weight_max", c.DiscomfortWeightMax)
	check(c.DiscomfortGrowRate >= 0, "discomfort_grow_rate", c.DiscomfortGrowRate)
	check(c.RecomputeDebounce >= 0, "recompute_debounce", c.RecomputeDebounce)
	check(c.ReactivePathInterval >= 0, "reactive_path_interval", c.ReactivePathInterval)
	check(c.PositionCheckInterval >= 0, "position_check_interval", c.PositionCheckInterval)
	check(c.LocalPathDistance >= 0, "local_path_distance", c.LocalPathDistance)
	check(c.AreaBeneathLimit > 0, "area_beneath_limit", c.AreaBeneathLimit)
	check(c.ClimbTolerance >= 0, "climb_tolerance", c.ClimbTolerance)
	check(c.ReactiveMaxLookAhead > 0, "reactive_max_look_ahead", c.ReactiveMaxLookAhead)
	check(c.ReactiveMaxWaypointsAhead > 0, "reactive_max_waypoints_ahead", c.ReactiveMaxWaypointsAhead)
	check(c.TestRouteStepSize > 0, "test_route_step_size", c.TestRouteStepSize)
	check(c.TestRouteBloatScale > 0, "test_route_bloat_scale", c.TestRouteBloatScale)
	check(c.TestBeneathLimit > 0, "test_beneath_limit", c.TestBeneathLimit)
	check(c.DefaultGoalTolerance > 0, "default_goal_tolerance", c.DefaultGoalTolerance)
	check(c.FacingCone >= -1 && c.FacingCone <= 1, "facing_cone", c.FacingCone)

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// thresholds returns the blend thresholds for the current goal state
func (c *Config) thresholds(hasGoal bool) (tmin, tmax float64) {
	if hasGoal {
		return c.Threshold + c.ThresholdMinOffset, c.ThresholdMax
	}
	return c.Threshold + c.NoGoalThresholdMinOffset, c.NoGoalThresholdMax
}
