package offcanvas

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds renderer settings.
type Config struct {
	TargetFPS int     `yaml:"target_fps"`
	Width     float64 `yaml:"width"`
	Rendering string  `yaml:"rendering"`
	Debug     bool    `yaml:"debug"`

	Pool    PoolConfig    `yaml:"pool"`
	Queue   QueueConfig   `yaml:"queue"`
	Capture CaptureConfig `yaml:"capture"`
	Stats   StatsConfig   `yaml:"stats"`
}

// PoolConfig sizes node pools.
type PoolConfig struct {
	Grow int `yaml:"grow"`
}

// QueueConfig sizes the render channel.
type QueueConfig struct {
	Depth int `yaml:"depth"`
}

// CaptureConfig controls where surface captures are written.
type CaptureConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"`
}

// StatsConfig controls frame statistics.
type StatsConfig struct {
	Window int    `yaml:"window"` // frames kept for summaries
	CSV    string `yaml:"csv"`    // optional per-frame CSV path
}

// DefaultConfig returns the embedded defaults.
func DefaultConfig() *Config {
	cfg, err := ParseConfig(nil)
	if err != nil {
		panic(fmt.Sprintf("offcanvas: embedded defaults: %v", err))
	}
	return cfg
}

// LoadConfig reads a YAML file over the embedded defaults. An empty path
// returns the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return ParseConfig(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML over the embedded defaults. Fields missing from
// data keep their default values.
func ParseConfig(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.TargetFPS <= 0 {
		return fmt.Errorf("config: target_fps must be positive, got %d", c.TargetFPS)
	}
	if c.Width <= 0 {
		return fmt.Errorf("config: width must be positive, got %v", c.Width)
	}
	switch c.Capture.Format {
	case "png", "webp":
	default:
		return fmt.Errorf("config: capture.format %q: %w", c.Capture.Format, ErrUnknownFormat)
	}
	return nil
}

// Interval returns the pacing interval for TargetFPS.
func (c *Config) Interval() time.Duration {
	return IntervalForFPS(c.TargetFPS)
}

// WorkerOptions derives draw worker options.
func (c *Config) WorkerOptions() WorkerOptions {
	return WorkerOptions{
		PoolGrow:      c.Pool.Grow,
		Rendering:     ParseRendering(c.Rendering),
		CaptureDir:    c.Capture.Dir,
		CaptureFormat: c.Capture.Format,
		Debug:         c.Debug,
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
