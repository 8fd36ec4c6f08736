// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"deepfold-core/candidate"
	"deepfold-core/resolve"
	"deepfold-core/seq"
)

// Reference set names selectable on the command line.
const (
	SetSubset  = "subset"
	SetFullset = "fullset"
)

// Model backends.
const (
	BackendONNX = "onnx"
	BackendLoom = "loom"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// ReferenceSet names the 1D model file/directory and the 2D ensemble
// directory of one trained reference set.
type ReferenceSet struct {
	Model1D string `yaml:"model_1d"`
	Model2D string `yaml:"model_2d"`
}

// Train holds the knobs of deepfold-train.
type Train struct {
	Hidden       int     `yaml:"hidden"`
	Epochs       int     `yaml:"epochs"`
	LearningRate float64 `yaml:"learning_rate"`
	Seed         int64   `yaml:"seed"`
}

// Config is the YAML configuration file. Zero values in the file keep the
// defaults; flags are applied on top by the callers.
type Config struct {
	Winsize        int     `yaml:"winsize"`
	Thr1           float64 `yaml:"thr1"`
	BatchSize      int     `yaml:"batch_size"`
	CandidateRule  string  `yaml:"candidate_rule"`
	ConflictPolicy string  `yaml:"conflict_policy"`
	NoSmooth       bool    `yaml:"no_smooth"`

	Backend       string                  `yaml:"backend"`
	ONNXLibrary   string                  `yaml:"onnx_library"`
	ModelRoot     string                  `yaml:"model_root"`
	ReferenceSets map[string]ReferenceSet `yaml:"reference_sets"`

	Threads      int    `yaml:"threads"`
	LogLevel     string `yaml:"log_level"`
	OutputFormat string `yaml:"output_format"`

	Train Train `yaml:"train"`
}

// Default returns the settings of the reference tool.
func Default() Config {
	return Config{
		Winsize:        seq.DefaultWinsize,
		Thr1:           candidate.DefaultThreshold,
		BatchSize:      256,
		CandidateRule:  candidate.RuleLegacy.String(),
		ConflictPolicy: resolve.PolicyShift.String(),
		Backend:        BackendONNX,
		ModelRoot:      "model",
		ReferenceSets: map[string]ReferenceSet{
			SetSubset:  {Model1D: "1D_S", Model2D: "2D_S"},
			SetFullset: {Model1D: "1D_F", Model2D: "2D_F"},
		},
		Threads:      0,
		LogLevel:     "info",
		OutputFormat: "ct",
		Train: Train{
			Hidden:       64,
			Epochs:       10,
			LearningRate: 0.01,
			Seed:         1,
		},
	}
}

// Load returns Default() overlaid with the YAML file at path. An empty
// path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	if err := seq.ValidateSize(c.Winsize); err != nil {
		return fmt.Errorf("%w: winsize: %w", ErrInvalid, err)
	}
	if c.Thr1 < 0 || c.Thr1 >= 1 {
		return fmt.Errorf("%w: thr1 %v not in [0,1)", ErrInvalid, c.Thr1)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("%w: batch_size must be ≥ 1", ErrInvalid)
	}
	if _, err := candidate.ParseRule(c.CandidateRule); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := resolve.ParsePolicy(c.ConflictPolicy); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	switch c.Backend {
	case BackendONNX, BackendLoom:
	default:
		return fmt.Errorf("%w: backend %q (want onnx|loom)", ErrInvalid, c.Backend)
	}
	if c.Threads < 0 {
		return fmt.Errorf("%w: threads must be ≥ 0", ErrInvalid)
	}
	switch c.OutputFormat {
	case "ct", "json":
	default:
		return fmt.Errorf("%w: output_format %q (want ct|json)", ErrInvalid, c.OutputFormat)
	}
	return nil
}

// Rule returns the parsed candidate rule.
func (c Config) Rule() candidate.Rule {
	r, _ := candidate.ParseRule(c.CandidateRule)
	return r
}

// Resolver returns a resolver configured from c.
func (c Config) Resolver() resolve.Resolver {
	r := resolve.New()
	r.Policy, _ = resolve.ParsePolicy(c.ConflictPolicy)
	r.NoSmooth = c.NoSmooth
	return r
}

// Models returns the model paths of the named reference set, joined onto
// ModelRoot when relative.
func (c Config) Models(set string) (ReferenceSet, error) {
	rs, ok := c.ReferenceSets[set]
	if !ok {
		return ReferenceSet{}, fmt.Errorf("%w: unknown reference set %q", ErrInvalid, set)
	}
	if rs.Model1D == "" || rs.Model2D == "" {
		return ReferenceSet{}, fmt.Errorf("%w: reference set %q needs model_1d and model_2d", ErrInvalid, set)
	}
	join := func(p string) string {
		if filepath.IsAbs(p) || c.ModelRoot == "" {
			return p
		}
		return filepath.Join(c.ModelRoot, p)
	}
	return ReferenceSet{Model1D: join(rs.Model1D), Model2D: join(rs.Model2D)}, nil
}
