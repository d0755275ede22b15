// Package config handles pipeline configuration loading for cellseg.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config describes a full segmentation run: which stages to execute and the
// parameters of each.
type Config struct {
	// Layer is the base layer name the stage chain derives keys from.
	Layer string `yaml:"layer"`

	// Stages lists the pipeline stages to run, in order.
	Stages []string `yaml:"stages"`

	EM        EMConfig        `yaml:"em"`
	Mask      MaskConfig      `yaml:"mask"`
	Markers   MarkersConfig   `yaml:"markers"`
	Watershed WatershedConfig `yaml:"watershed"`
	Expand    ExpandConfig    `yaml:"expand"`
	Split     SplitConfig     `yaml:"split"`
}

// EMConfig configures mixture fitting and scoring.
type EMConfig struct {
	UsePeaks    bool      `yaml:"use_peaks"`
	MinDistance int       `yaml:"min_distance"`
	Downsample  float64   `yaml:"downsample"`
	Seed        uint64    `yaml:"seed"`
	Workers     int       `yaml:"workers"`
	BinsLayer   string    `yaml:"bins_layer"`
	W           []float64 `yaml:"w"`
	Mu          []float64 `yaml:"mu"`
	Var         []float64 `yaml:"var"`
	MaxIter     int       `yaml:"max_iter"`
	Precision   float64   `yaml:"precision"`
}

// MaskConfig configures thresholding of scores into a foreground mask.
// A zero threshold selects Otsu's method.
type MaskConfig struct {
	Threshold float64 `yaml:"threshold"`
}

// MarkersConfig configures watershed marker derivation.
type MarkersConfig struct {
	K              int     `yaml:"k"`
	Square         bool    `yaml:"square"`
	MinArea        int     `yaml:"min_area"`
	NIter          int     `yaml:"n_iter"`
	FloatK         int     `yaml:"float_k"`
	FloatThreshold float64 `yaml:"float_threshold"`
}

// WatershedConfig configures the watershed stage.
type WatershedConfig struct {
	K int `yaml:"k"`
}

// ExpandConfig configures label expansion.
type ExpandConfig struct {
	Distance int `yaml:"distance"`
	MaxArea  int `yaml:"max_area"`
}

// SplitConfig configures connected-component splitting.
type SplitConfig struct {
	K        int  `yaml:"k"`
	Square   bool `yaml:"square"`
	MinArea  int  `yaml:"min_area"`
	NIter    int  `yaml:"n_iter"`
	Distance int  `yaml:"distance"`
	MaxArea  int  `yaml:"max_area"`
}

// Load reads configuration from a YAML file. A missing file yields the
// defaults; a malformed file is an error. Unset values are filled with
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultConfig(), nil
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultConfig returns the default pipeline: score, mask, markers,
// watershed and expansion on the "stain" layer.
func DefaultConfig() *Config {
	return &Config{
		Layer:  "stain",
		Stages: []string{"score", "mask", "markers", "watershed", "expand"},
		EM: EMConfig{
			MinDistance: 21,
			Downsample:  1e6,
			W:           []float64{0.5, 0.5},
			Mu:          []float64{10, 300},
			Var:         []float64{20, 400},
			MaxIter:     2000,
			Precision:   1e-6,
		},
		Markers:   MarkersConfig{K: 3, MinArea: 100, NIter: -1, FloatK: 5},
		Watershed: WatershedConfig{K: 3},
		Expand:    ExpandConfig{Distance: 5, MaxArea: 400},
		Split:     SplitConfig{K: 3, MinArea: 100, NIter: -1, Distance: 5, MaxArea: 400},
	}
}

// Validate checks structural constraints that defaults cannot fix.
func (c *Config) Validate() error {
	if len(c.EM.W) != 2 || len(c.EM.Mu) != 2 || len(c.EM.Var) != 2 {
		return fmt.Errorf("config: em.w, em.mu and em.var must each have two components")
	}
	for k := 0; k < 2; k++ {
		if c.EM.Var[k] <= c.EM.Mu[k] {
			return fmt.Errorf("config: em.var[%d] must exceed em.mu[%d] (overdispersion)", k, k)
		}
	}
	if c.Layer == "" {
		return fmt.Errorf("config: layer must be set")
	}
	return nil
}

func applyDefaults(cfg *Config) {
	d := DefaultConfig()

	if cfg.Layer == "" {
		cfg.Layer = d.Layer
	}
	if len(cfg.Stages) == 0 {
		cfg.Stages = d.Stages
	}
	if cfg.EM.MinDistance == 0 {
		cfg.EM.MinDistance = d.EM.MinDistance
	}
	if cfg.EM.Downsample == 0 {
		cfg.EM.Downsample = d.EM.Downsample
	}
	if len(cfg.EM.W) == 0 {
		cfg.EM.W = d.EM.W
	}
	if len(cfg.EM.Mu) == 0 {
		cfg.EM.Mu = d.EM.Mu
	}
	if len(cfg.EM.Var) == 0 {
		cfg.EM.Var = d.EM.Var
	}
	if cfg.EM.MaxIter == 0 {
		cfg.EM.MaxIter = d.EM.MaxIter
	}
	if cfg.EM.Precision == 0 {
		cfg.EM.Precision = d.EM.Precision
	}
	if cfg.Markers.K == 0 {
		cfg.Markers.K = d.Markers.K
	}
	if cfg.Markers.MinArea == 0 {
		cfg.Markers.MinArea = d.Markers.MinArea
	}
	if cfg.Markers.NIter == 0 {
		cfg.Markers.NIter = d.Markers.NIter
	}
	if cfg.Markers.FloatK == 0 {
		cfg.Markers.FloatK = d.Markers.FloatK
	}
	if cfg.Watershed.K == 0 {
		cfg.Watershed.K = d.Watershed.K
	}
	if cfg.Expand.Distance == 0 {
		cfg.Expand.Distance = d.Expand.Distance
	}
	if cfg.Expand.MaxArea == 0 {
		cfg.Expand.MaxArea = d.Expand.MaxArea
	}
	if cfg.Split.K == 0 {
		cfg.Split.K = d.Split.K
	}
	if cfg.Split.MinArea == 0 {
		cfg.Split.MinArea = d.Split.MinArea
	}
	if cfg.Split.NIter == 0 {
		cfg.Split.NIter = d.Split.NIter
	}
	if cfg.Split.Distance == 0 {
		cfg.Split.Distance = d.Split.Distance
	}
	if cfg.Split.MaxArea == 0 {
		cfg.Split.MaxArea = d.Split.MaxArea
	}
}
