// Package config loads viewer settings from TOML.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	BackendGTK  = "gtk"
	BackendGLFW = "glfw"
)

var ErrInvalid = errors.New("invalid config")

// Duration wraps time.Duration so it can be written as "250ms" in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type Config struct {
	Program string `toml:"program"`
	Backend string `toml:"backend"`
	// ShaderDir overrides the built-in shaders with <program>.vert and
	// <program>.frag from this directory.
	ShaderDir string `toml:"shader_dir"`

	Width   int     `toml:"width"`
	Height  int     `toml:"height"`
	MinReal float64 `toml:"min_real"`
	MaxReal float64 `toml:"max_real"`

	Iterations    int `toml:"iterations"`
	IterationsMin int `toml:"iterations_min"`
	IterationsMax int `toml:"iterations_max"`
	// IterationsStep is the change per key press or slider step.
	IterationsStep int `toml:"iterations_step"`

	FPSInterval Duration `toml:"fps_interval"`
	Debug       bool     `toml:"debug"`
}

func Default() Config {
	return Config{
		Program:        "mandelbrot",
		Backend:        BackendGTK,
		Width:          1200,
		Height:         800,
		MinReal:        -2,
		MaxReal:        2,
		Iterations:     200,
		IterationsMin:  1,
		IterationsMax:  1000,
		IterationsStep: 10,
		FPSInterval:    Duration{250 * time.Millisecond},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default value.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("%w: unknown keys in %s: %v", ErrInvalid, path, undecoded)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("size %dx%d must be positive", c.Width, c.Height))
	}
	if c.MinReal >= c.MaxReal {
		errs = append(errs, fmt.Errorf("min_real %v must be below max_real %v", c.MinReal, c.MaxReal))
	}
	if c.IterationsMin < 1 || c.IterationsMin > c.IterationsMax {
		errs = append(errs, fmt.Errorf("iteration bounds [%d, %d] are empty", c.IterationsMin, c.IterationsMax))
	} else if c.Iterations < c.IterationsMin || c.Iterations > c.IterationsMax {
		errs = append(errs, fmt.Errorf("iterations %d outside [%d, %d]", c.Iterations, c.IterationsMin, c.IterationsMax))
	}
	if c.IterationsStep < 1 {
		errs = append(errs, fmt.Errorf("iterations_step %d must be positive", c.IterationsStep))
	}
	if c.FPSInterval.Duration <= 0 {
		errs = append(errs, fmt.Errorf("fps_interval %v must be positive", c.FPSInterval))
	}
	switch c.Backend {
	case BackendGTK, BackendGLFW:
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q", c.Backend))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// ClampIterations limits n to the configured iteration bounds.
func (c Config) ClampIterations(n int) int {
	return min(max(n, c.IterationsMin), c.IterationsMax)
}
