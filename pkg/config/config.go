// Package config loads the optional redul.yaml runtime configuration.
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-redul/redul/pkg/errors"
	"github.com/go-redul/redul/pkg/scheduler"
)

// FileName is the configuration file looked up by LoadOptional.
const FileName = "redul.yaml"

// CurrentVersion is the configuration format version written by Default.
const CurrentVersion = "v1.0.0"

// Host names accepted in scheduler.host.
const (
	HostFrame = "frame"
	HostTimer = "timer"
)

// Config represents redul.yaml.
type Config struct {
	Version   string          `yaml:"version"`
	App       string          `yaml:"app,omitempty"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Render    RenderConfig    `yaml:"render"`
}

// SchedulerConfig selects and tunes the scheduler host.
type SchedulerConfig struct {
	Host      string `yaml:"host"`
	FrameRate int    `yaml:"frame_rate,omitempty"`
	// Timeouts overrides the expiration of priorities, keyed by priority
	// name ("user-blocking", "normal", ...).
	Timeouts map[string]time.Duration `yaml:"timeouts,omitempty"`
}

// RenderConfig tunes the renderer.
type RenderConfig struct {
	Priority string `yaml:"priority"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Version:   CurrentVersion,
		Scheduler: SchedulerConfig{Host: HostFrame},
		Render:    RenderConfig{Priority: scheduler.NormalPriority.String()},
	}
}

// LoadOptional reads redul.yaml from dir if present. A missing file yields
// Default. When dir holds a go.mod and no app name is configured, the app
// is named after the module.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	cfg, err := Load(path)
	if err != nil {
		if !stderrors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = Default()
	}
	if cfg.App == "" {
		cfg.App = moduleName(dir)
	}
	return cfg, nil
}

// Load reads and validates the configuration at path. Unset fields keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return nil, configError("config.Load", fmt.Errorf("failed to read %s: %w", path, err))
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, configError("config.Load", fmt.Errorf("failed to parse %s: %w", path, err))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if !semver.IsValid(c.Version) {
		return configError("config.Validate", fmt.Errorf("invalid version %q", c.Version))
	}
	if major := semver.Major(c.Version); major != semver.Major(CurrentVersion) {
		return configError("config.Validate", fmt.Errorf("%w %s", errors.ErrUnsupportedVersion, major))
	}

	switch c.Scheduler.Host {
	case HostFrame, HostTimer:
	default:
		return configError("config.Validate", fmt.Errorf("unknown scheduler host %q", c.Scheduler.Host))
	}
	if c.Scheduler.FrameRate < 0 || c.Scheduler.FrameRate > scheduler.MaxFrameRate {
		return configError("config.Validate", errors.ErrFrameRateOutOfRange)
	}
	for _, name := range sortedNames(c.Scheduler.Timeouts) {
		if _, err := scheduler.ParsePriority(name); err != nil {
			return configError("config.Validate", fmt.Errorf("scheduler.timeouts: %w", err))
		}
		if c.Scheduler.Timeouts[name] <= 0 {
			return configError("config.Validate", fmt.Errorf("scheduler.timeouts: %s must be positive", name))
		}
	}
	if _, err := scheduler.ParsePriority(c.Render.Priority); err != nil {
		return configError("config.Validate", fmt.Errorf("render.priority: %w", err))
	}
	return nil
}

// SchedulerOptions returns the scheduler options for the configured
// priority timeouts.
func (c *Config) SchedulerOptions() []scheduler.Option {
	var opts []scheduler.Option
	for _, name := range sortedNames(c.Scheduler.Timeouts) {
		p, err := scheduler.ParsePriority(name)
		if err != nil {
			continue
		}
		opts = append(opts, scheduler.WithPriorityTimeout(p, c.Scheduler.Timeouts[name]))
	}
	return opts
}

// RenderPriority returns the priority render work is scheduled at.
func (c *Config) RenderPriority() scheduler.Priority {
	p, err := scheduler.ParsePriority(c.Render.Priority)
	if err != nil {
		return scheduler.NormalPriority
	}
	return p
}

// NewHost creates the configured scheduler host on loop.
func (c *Config) NewHost(loop *scheduler.Loop, clock scheduler.Clock) (scheduler.HostConfig, error) {
	var h scheduler.HostConfig
	switch c.Scheduler.Host {
	case HostTimer:
		h = scheduler.NewTimerHost(loop, clock)
	case HostFrame, "":
		h = scheduler.NewFrameHost(loop, clock)
	default:
		return nil, configError("config.NewHost", fmt.Errorf("unknown scheduler host %q", c.Scheduler.Host))
	}
	if c.Scheduler.FrameRate != 0 {
		if err := h.ForceFrameRate(c.Scheduler.FrameRate); err != nil {
			return nil, configError("config.NewHost", err)
		}
	}
	return h, nil
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func configError(op string, err error) error {
	return &errors.Error{Op: op, Kind: errors.KindConfig, Err: err}
}

func moduleName(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return ""
	}
	path := modfile.ModulePath(data)
	if i := strings.LastIndex(path, "/"); i >= 0 {
		path = path[i+1:]
	}
	return path
}

func sortedNames(m map[string]time.Duration) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
