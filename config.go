package object

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// MaxConfigSize bounds the size of a YAML config document.
const MaxConfigSize = 1 << 20

// Config is the file form of arena, transaction and history options.
type Config struct {
	HistoryLimit    int    `yaml:"history_limit"`
	Metrics         *bool  `yaml:"metrics,omitempty"`
	ActivityChannel string `yaml:"activity_channel,omitempty"`
	Actor           string `yaml:"actor,omitempty"`
	Tenant          string `yaml:"tenant,omitempty"`
	LogLevel        string `yaml:"log_level,omitempty"`
}

// LoadConfig decodes a YAML config. Unknown keys are rejected and an empty
// document yields the zero Config.
func LoadConfig(r io.Reader) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(io.LimitReader(r, MaxConfigSize))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("object: decode config: %w", err)
	}
	if cfg.HistoryLimit < 0 {
		return Config{}, fmt.Errorf("object: history_limit must not be negative, got %d", cfg.HistoryLimit)
	}
	if _, err := cfg.Level(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads and decodes the YAML config at path.
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("object: open config: %w", err)
	}
	defer f.Close()
	return LoadConfig(f)
}

// Level parses LogLevel; empty means info.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(c.LogLevel) == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("object: log_level: %w", err)
	}
	return level, nil
}

func (c Config) metricsEnabled() bool {
	return c.Metrics == nil || *c.Metrics
}

// Options converts c into arena and transaction options. A nil logger leaves
// commit logging off.
func (c Config) Options(logger *slog.Logger) []Option {
	opts := []Option{
		WithMetrics(c.metricsEnabled()),
		WithActor(c.Actor),
		WithTenant(c.Tenant),
	}
	if c.ActivityChannel != "" {
		opts = append(opts, WithActivityChannel(c.ActivityChannel))
	}
	if logger != nil {
		opts = append(opts, WithCommitLogger(SlogCommitLogger(logger)))
	}
	return opts
}

// HistoryOptions converts c into history options.
func (c Config) HistoryOptions(logger *slog.Logger) []HistoryOption {
	opts := []HistoryOption{
		WithHistoryLimit(c.HistoryLimit),
		WithHistoryMetrics(c.metricsEnabled()),
		WithHistoryActor(c.Actor),
	}
	if logger != nil {
		opts = append(opts, WithHistoryLogger(SlogCommitLogger(logger)))
	}
	return opts
}
