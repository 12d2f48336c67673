package render

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the file form of the engine options.
type Config struct {
	Safe            bool              `json:"safe" yaml:"safe"`
	Preprocess      bool              `json:"preprocess" yaml:"preprocess"`
	MaxPartialDepth int               `json:"max_partial_depth" yaml:"max_partial_depth"`
	Locale          string            `json:"locale" yaml:"locale"`
	MaxSteps        int               `json:"max_steps" yaml:"max_steps"`
	TimeBudget      string            `json:"time_budget" yaml:"time_budget"`
	TemplateDir     string            `json:"template_dir" yaml:"template_dir"`
	Partials        map[string]string `json:"partials" yaml:"partials"`
	Injectables     map[string]string `json:"injectables" yaml:"injectables"`
}

// LoadConfig reads a YAML (or JSON) config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("render: read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes a YAML (or JSON) config document.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("render: decode config: %w", err)
	}
	if cfg.MaxPartialDepth < 0 {
		return Config{}, fmt.Errorf("render: max_partial_depth must not be negative")
	}
	if _, err := cfg.budget(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) budget() (time.Duration, error) {
	if c.TimeBudget == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.TimeBudget)
	if err != nil {
		return 0, fmt.Errorf("render: time_budget %q: %w", c.TimeBudget, err)
	}
	return d, nil
}

// Options converts the config into engine options. Unset fields keep the
// engine defaults.
func (c Config) Options() []Option {
	opts := []Option{
		WithSafeMode(c.Safe),
		WithPreprocess(c.Preprocess),
		WithPartials(c.Partials),
		WithInjectables(c.Injectables),
	}
	if c.MaxPartialDepth > 0 {
		opts = append(opts, WithMaxPartialDepth(c.MaxPartialDepth))
	}
	if c.Locale != "" {
		opts = append(opts, WithLocale(c.Locale))
	}
	if c.TemplateDir != "" {
		opts = append(opts, WithBaseDir(c.TemplateDir))
	}
	budget, _ := c.budget()
	opts = append(opts, WithLimits(c.MaxSteps, budget))
	return opts
}
