package stress

import (
	"fmt"
	"time"
)

// Container variants.
const (
	VariantCow    = "cow"
	VariantLocked = "locked"
)

// Container shapes.
const (
	ShapeList = "list"
	ShapeMap  = "map"
)

// Config describes one workload run.
type Config struct {
	Variant string `koanf:"variant" json:"variant" yaml:"variant"`
	Shape   string `koanf:"shape" json:"shape" yaml:"shape"`
	// Untyped routes every operation through the untyped adapters.
	Untyped bool `koanf:"untyped" json:"untyped" yaml:"untyped"`
	Workers int  `koanf:"workers" json:"workers" yaml:"workers"`
	// Ops is the total operation budget shared by all workers. Zero means
	// run until Duration elapses.
	Ops      int `koanf:"ops" json:"ops" yaml:"ops"`
	KeySpace int `koanf:"key_space" json:"key_space" yaml:"key_space"`
	// Seed is the number of items loaded before the workers start.
	Seed           int     `koanf:"seed" json:"seed" yaml:"seed"`
	ReadRatio      float64 `koanf:"read_ratio" json:"read_ratio" yaml:"read_ratio"`
	EnumerateRatio float64 `koanf:"enumerate_ratio" json:"enumerate_ratio" yaml:"enumerate_ratio"`
	// Rate caps operations per second across all workers. Zero is unlimited.
	Rate     float64       `koanf:"rate" json:"rate" yaml:"rate"`
	Duration time.Duration `koanf:"duration" json:"duration" yaml:"duration"`
	// RandSeed makes key selection reproducible. Zero picks one per run.
	RandSeed uint64 `koanf:"rand_seed" json:"rand_seed" yaml:"rand_seed"`
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() Config {
	return Config{
		Variant:        VariantLocked,
		Shape:          ShapeMap,
		Workers:        4,
		Ops:            100_000,
		KeySpace:       1024,
		Seed:           128,
		ReadRatio:      0.5,
		EnumerateRatio: 0.01,
	}
}

// Defaults returns DefaultConfig as dotted keys under prefix, ready for a
// koanf defaults layer.
func Defaults(prefix string) map[string]any {
	d := DefaultConfig()
	return map[string]any{
		prefix + ".variant":         d.Variant,
		prefix + ".shape":           d.Shape,
		prefix + ".untyped":         d.Untyped,
		prefix + ".workers":         d.Workers,
		prefix + ".ops":             d.Ops,
		prefix + ".key_space":       d.KeySpace,
		prefix + ".seed":            d.Seed,
		prefix + ".read_ratio":      d.ReadRatio,
		prefix + ".enumerate_ratio": d.EnumerateRatio,
		prefix + ".rate":            d.Rate,
		prefix + ".duration":        d.Duration,
		prefix + ".rand_seed":       d.RandSeed,
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.Variant {
	case VariantCow, VariantLocked:
	default:
		return fmt.Errorf("stress: unknown variant %q (want %s or %s)", c.Variant, VariantCow, VariantLocked)
	}
	switch c.Shape {
	case ShapeList, ShapeMap:
	default:
		return fmt.Errorf("stress: unknown shape %q (want %s or %s)", c.Shape, ShapeList, ShapeMap)
	}
	if c.Workers < 1 {
		return fmt.Errorf("stress: workers must be at least 1, got %d", c.Workers)
	}
	if c.Ops < 0 {
		return fmt.Errorf("stress: ops must not be negative, got %d", c.Ops)
	}
	if c.Ops == 0 && c.Duration <= 0 {
		return fmt.Errorf("stress: either ops or duration must be set")
	}
	if c.KeySpace < 1 {
		return fmt.Errorf("stress: key_space must be at least 1, got %d", c.KeySpace)
	}
	if c.Seed < 0 {
		return fmt.Errorf("stress: seed must not be negative, got %d", c.Seed)
	}
	if c.Shape == ShapeMap && c.Seed > c.KeySpace {
		return fmt.Errorf("stress: seed %d exceeds key_space %d for a map", c.Seed, c.KeySpace)
	}
	if c.ReadRatio < 0 || c.EnumerateRatio < 0 || c.ReadRatio+c.EnumerateRatio > 1 {
		return fmt.Errorf("stress: read_ratio %.2f and enumerate_ratio %.2f must be non-negative and sum to at most 1",
			c.ReadRatio, c.EnumerateRatio)
	}
	if c.Rate < 0 {
		return fmt.Errorf("stress: rate must not be negative, got %v", c.Rate)
	}
	return nil
}
