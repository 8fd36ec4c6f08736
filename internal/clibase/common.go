// internal/clibase/common.go
package clibase

import (
	"flag"
	"fmt"

	"deepfold/internal/cliutil"
	"deepfold/internal/config"
)

// Common holds CLI fields shared by deepfold and deepfold-train.
type Common struct {
	ConfigPath string
	Winsize    int
	Threads    int

	LogLevel string
	Quiet    bool
	Verbose  bool
	Version  bool
	Examples bool
}

// Register wires shared flags onto fs. Defaults come from config.Default()
// so --help shows the effective values.
func Register(fs *flag.FlagSet, c *Common) {
	d := config.Default()
	fs.StringVar(&c.ConfigPath, "config", "", "YAML configuration file")
	fs.IntVar(&c.Winsize, "winsize", d.Winsize, "window length (odd, ≥ 5)")
	fs.IntVar(&c.Threads, "threads", d.Threads, "worker threads (0=all CPUs)")
	fs.IntVar(&c.Threads, "t", d.Threads, "alias of --threads")

	fs.StringVar(&c.LogLevel, "log-level", d.LogLevel, "log level: debug | info | warn | error")
	fs.BoolVar(&c.Quiet, "quiet", false, "only log warnings and errors")
	fs.BoolVar(&c.Quiet, "q", false, "alias of --quiet")
	fs.BoolVar(&c.Verbose, "verbose", false, "log debug detail")
	fs.BoolVar(&c.Version, "v", false, "print version and exit")
	fs.BoolVar(&c.Version, "version", false, "print version and exit")
	fs.BoolVar(&c.Examples, "examples", false, "print usage examples and exit")
}

// Apply copies explicitly set shared flags over cfg.
func (c *Common) Apply(cfg *config.Config, set map[string]bool) {
	if set["winsize"] {
		cfg.Winsize = c.Winsize
	}
	if cliutil.Any(set, "threads", "t") {
		cfg.Threads = c.Threads
	}
	if set["log-level"] {
		cfg.LogLevel = c.LogLevel
	}
}

// Validate applies shared CLI invariants used by all tools.
func Validate(c *Common) error {
	if c.Threads < 0 {
		return fmt.Errorf("--threads must be ≥ 0")
	}
	if c.Quiet && c.Verbose {
		return fmt.Errorf("--quiet conflicts with --verbose")
	}
	return nil
}

// LoadConfig reads c.ConfigPath, lays the flags in set over it, and
// validates the result. apply adds tool-specific overrides.
func LoadConfig(c *Common, set map[string]bool, apply func(*config.Config)) (config.Config, error) {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return cfg, err
	}
	c.Apply(&cfg, set)
	if apply != nil {
		apply(&cfg)
	}
	return cfg, cfg.Validate()
}
