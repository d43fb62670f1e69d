// SPDX-License-Identifier: MIT

// Package config loads rollrate settings from YAML, an optional .env file
// and ROLLRATE_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/rollrate/estimator"
	"github.com/katalvlaran/rollrate/panel"
	"github.com/katalvlaran/rollrate/render"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ROLLRATE_"

// Period names accepted by Config.Period.
const (
	PeriodMonth = "month"
	PeriodWeek  = "week"
	PeriodDay   = "day"
)

// Columns maps panel roles onto input column names.
type Columns struct {
	ID     string `mapstructure:"id" yaml:"id"`
	Time   string `mapstructure:"time" yaml:"time"`
	Bucket string `mapstructure:"bucket" yaml:"bucket"`
	Group  string `mapstructure:"group" yaml:"group"`
}

// Redis configures the snapshot store. An empty Addr disables it.
type Redis struct {
	Addr     string        `mapstructure:"addr" yaml:"addr"`
	Password string        `mapstructure:"password" yaml:"password"`
	DB       int           `mapstructure:"db" yaml:"db"`
	Prefix   string        `mapstructure:"prefix" yaml:"prefix"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// Render configures heatmap output.
type Render struct {
	Threshold float64 `mapstructure:"threshold" yaml:"threshold"`
	Color     bool    `mapstructure:"color" yaml:"color"`
}

// Config is the full configuration surface.
type Config struct {
	Buckets     []int   `mapstructure:"buckets" yaml:"buckets"`
	Alpha       float64 `mapstructure:"alpha" yaml:"alpha"`
	AutoRebin   bool    `mapstructure:"auto_rebin" yaml:"auto_rebin"`
	DropEmpty   bool    `mapstructure:"drop_empty" yaml:"drop_empty"`
	MinCount    int     `mapstructure:"min_count" yaml:"min_count"`
	RebinWindow int     `mapstructure:"rebin_window" yaml:"rebin_window"`
	Period      string  `mapstructure:"period" yaml:"period"`
	Columns     Columns `mapstructure:"columns" yaml:"columns"`
	TimeLayout  string  `mapstructure:"time_layout" yaml:"time_layout"`
	Parallelism int     `mapstructure:"parallelism" yaml:"parallelism"`
	LogLevel    string  `mapstructure:"log_level" yaml:"log_level"`
	Redis       Redis   `mapstructure:"redis" yaml:"redis"`
	Render      Render  `mapstructure:"render" yaml:"render"`
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() *Config {
	return &Config{
		Alpha:       estimator.DefaultAlpha,
		MinCount:    estimator.DefaultMinCount,
		RebinWindow: estimator.DefaultRebinWindow,
		Period:      PeriodMonth,
		Columns:     Columns{ID: "id", Time: "date", Bucket: "bucket"},
		TimeLayout:  panel.DefaultTimeLayout,
		Parallelism: estimator.DefaultParallelism,
		LogLevel:    "info",
		Redis:       Redis{Prefix: "rollrate:snapshot:"},
		Render:      Render{Threshold: render.DefaultThreshold},
	}
}

// envKeys lists every overridable setting as ROLLRATE_<NAME> -> key path.
var envKeys = map[string][]string{
	"BUCKETS":          {"buckets"},
	"ALPHA":            {"alpha"},
	"AUTO_REBIN":       {"auto_rebin"},
	"DROP_EMPTY":       {"drop_empty"},
	"MIN_COUNT":        {"min_count"},
	"REBIN_WINDOW":     {"rebin_window"},
	"PERIOD":           {"period"},
	"COLUMNS_ID":       {"columns", "id"},
	"COLUMNS_TIME":     {"columns", "time"},
	"COLUMNS_BUCKET":   {"columns", "bucket"},
	"COLUMNS_GROUP":    {"columns", "group"},
	"TIME_LAYOUT":      {"time_layout"},
	"PARALLELISM":      {"parallelism"},
	"LOG_LEVEL":        {"log_level"},
	"REDIS_ADDR":       {"redis", "addr"},
	"REDIS_PASSWORD":   {"redis", "password"},
	"REDIS_DB":         {"redis", "db"},
	"REDIS_PREFIX":     {"redis", "prefix"},
	"REDIS_TTL":        {"redis", "ttl"},
	"RENDER_THRESHOLD": {"render", "threshold"},
	"RENDER_COLOR":     {"render", "color"},
}

// LoadOption configures Load.
type LoadOption func(*loader)

type loader struct {
	envFile string
	lookup  func(string) (string, bool)
}

// WithEnvFile reads KEY=VALUE pairs from path (via godotenv) beneath the
// process environment. A missing file is ignored.
func WithEnvFile(path string) LoadOption {
	return func(l *loader) { l.envFile = path }
}

// WithLookup replaces os.LookupEnv.
func WithLookup(lookup func(string) (string, bool)) LoadOption {
	return func(l *loader) {
		if lookup != nil {
			l.lookup = lookup
		}
	}
}

// Load builds a Config from defaults, then the YAML file at path (skipped
// when path is empty), then the .env file, then the environment.
// The result is validated.
func Load(path string, opts ...LoadOption) (*Config, error) {
	l := loader{lookup: os.LookupEnv}
	for _, opt := range opts {
		opt(&l)
	}

	raw := map[string]any{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err = yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
		if raw == nil {
			raw = map[string]any{}
		}
	}

	dotenv := map[string]string{}
	if l.envFile != "" {
		vals, err := godotenv.Read(l.envFile)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", l.envFile, err)
		default:
			dotenv = vals
		}
	}
	for name, keyPath := range envKeys {
		key := EnvPrefix + name
		v, ok := l.lookup(key)
		if !ok {
			v, ok = dotenv[key]
		}
		if ok {
			set(raw, keyPath, v)
		}
	}

	cfg := Defaults()
	if err := decode(raw, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func decode(raw map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           cfg,
	})
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err = dec.Decode(raw); err != nil {
		return fmt.Errorf("config: decode: %w", err)
	}

	return nil
}

// set stores v at path inside nested maps, creating levels as needed.
// List values ("0, 30, 60") are normalized so each element parses.
func set(m map[string]any, path []string, v string) {
	for _, k := range path[:len(path)-1] {
		next, ok := m[k].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[k] = next
		}
		m = next
	}
	parts := strings.Split(v, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	m[path[len(path)-1]] = strings.Join(parts, ",")
}

// Validate reports contradictory or out-of-range settings. Strategy and
// smoothing problems wrap estimator.ErrConfiguration.
func (c *Config) Validate() error {
	var errs []error
	if c.AutoRebin && c.DropEmpty {
		errs = append(errs, fmt.Errorf("%w: auto_rebin and drop_empty are mutually exclusive", estimator.ErrConfiguration))
	}
	if c.Alpha < 0 {
		errs = append(errs, fmt.Errorf("%w: alpha=%g must be >= 0", estimator.ErrConfiguration, c.Alpha))
	}
	if len(c.Buckets) == 0 {
		errs = append(errs, fmt.Errorf("%w: buckets must not be empty", estimator.ErrConfiguration))
	}
	if c.MinCount < 0 {
		errs = append(errs, fmt.Errorf("%w: min_count=%d must be >= 0", estimator.ErrConfiguration, c.MinCount))
	}
	if c.RebinWindow < 0 {
		errs = append(errs, fmt.Errorf("%w: rebin_window=%d must be >= 0", estimator.ErrConfiguration, c.RebinWindow))
	}
	if c.Parallelism < 1 {
		errs = append(errs, fmt.Errorf("%w: parallelism=%d must be >= 1", estimator.ErrConfiguration, c.Parallelism))
	}
	if _, err := c.Step(); err != nil {
		errs = append(errs, err)
	}
	if c.Render.Threshold < 0 {
		errs = append(errs, fmt.Errorf("%w: render.threshold=%g must be >= 0", estimator.ErrConfiguration, c.Render.Threshold))
	}

	return errors.Join(errs...)
}

// Step maps Period onto panel arithmetic.
func (c *Config) Step() (panel.Step, error) {
	switch strings.ToLower(c.Period) {
	case "", PeriodMonth:
		return panel.Month, nil
	case PeriodWeek:
		return panel.WeekStep(1), nil
	case PeriodDay:
		return panel.DayStep(1), nil
	}

	return nil, fmt.Errorf("%w: unknown period %q", estimator.ErrConfiguration, c.Period)
}

// PanelColumns returns the column mapping for panel.Frame.Observations.
func (c *Config) PanelColumns() panel.Columns {
	return panel.Columns{
		ID:         c.Columns.ID,
		Time:       c.Columns.Time,
		Bucket:     c.Columns.Bucket,
		Group:      c.Columns.Group,
		TimeLayout: c.TimeLayout,
	}
}

// EstimatorOptions validates c and maps it onto estimator options.
func (c *Config) EstimatorOptions() ([]estimator.Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	step, _ := c.Step()

	return []estimator.Option{
		estimator.WithAlpha(c.Alpha),
		estimator.WithAutoRebin(c.AutoRebin),
		estimator.WithDropEmpty(c.DropEmpty),
		estimator.WithMinCount(c.MinCount),
		estimator.WithRebinWindow(c.RebinWindow),
		estimator.WithStep(step),
		estimator.WithParallelism(c.Parallelism),
	}, nil
}
