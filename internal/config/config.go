package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for rentalwatch.
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Polling PollingConfig `yaml:"polling"`
	Alerts  AlertsConfig  `yaml:"alerts"`
	Sound   SoundConfig   `yaml:"sound"`
	Push    PushConfig    `yaml:"push"`
	Log     LogConfig     `yaml:"log"`
}

// SourceConfig selects where active rentals come from. File wins over URL.
type SourceConfig struct {
	URL            string   `yaml:"url"`
	Tenant         string   `yaml:"tenant"`
	TokenEnv       string   `yaml:"token_env"`
	File           string   `yaml:"file"`
	RequestTimeout Duration `yaml:"request_timeout"`
}

// PollingConfig controls how often active rentals are fetched.
type PollingConfig struct {
	Interval   Duration `yaml:"interval"`
	StaleAfter Duration `yaml:"stale_after"`
}

// AlertsConfig controls when and how long alerts are shown.
type AlertsConfig struct {
	WarningThreshold Duration `yaml:"warning_threshold"`
	ToastDuration    Duration `yaml:"toast_duration"`
}

// SoundConfig controls alert sounds.
type SoundConfig struct {
	Enabled bool   `yaml:"enabled"`
	Output  string `yaml:"output"`
}

// PushConfig controls desktop notifications.
type PushConfig struct {
	Enabled        bool     `yaml:"enabled"`
	CoalesceWindow Duration `yaml:"coalesce_window"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"`
	// File receives logs while the dashboard owns the terminal.
	File string `yaml:"file"`
}

// Duration wraps time.Duration for YAML unmarshalling from strings like "15s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Source: SourceConfig{
			TokenEnv:       "RENTALWATCH_TOKEN",
			RequestTimeout: Duration{10 * time.Second},
		},
		Polling: PollingConfig{
			Interval:   Duration{30 * time.Second},
			StaleAfter: Duration{10 * time.Second},
		},
		Alerts: AlertsConfig{
			WarningThreshold: Duration{5 * time.Minute},
			ToastDuration:    Duration{10 * time.Second},
		},
		Sound: SoundConfig{
			Enabled: true,
			Output:  "auto",
		},
		Push: PushConfig{
			Enabled:        true,
			CoalesceWindow: Duration{10 * time.Minute},
		},
		Log: LogConfig{
			Level: "info",
			File:  defaultLogPath(),
		},
	}
}

// Load reads the config file and merges with defaults.
// Missing file is not an error; defaults are used silently.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads config from a specific path.
func LoadFrom(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Defaults(), fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.overrideWithEnv()

	if err := cfg.validate(); err != nil {
		return Defaults(), fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// overrideWithEnv lets deployments point at a backend without a config file.
func (c *Config) overrideWithEnv() {
	if val := os.Getenv("RENTALWATCH_API_URL"); val != "" {
		c.Source.URL = val
	}
	if val := os.Getenv("RENTALWATCH_TENANT"); val != "" {
		c.Source.Tenant = val
	}
	if val := os.Getenv("RENTALWATCH_FIXTURE"); val != "" {
		c.Source.File = val
	}
}

// Token returns the API token from the configured environment variable.
func (c Config) Token() string {
	if c.Source.TokenEnv == "" {
		return ""
	}
	return os.Getenv(c.Source.TokenEnv)
}

func (c Config) validate() error {
	pi := c.Polling.Interval.Duration
	if pi < 5*time.Second || pi > 5*time.Minute {
		return fmt.Errorf("polling.interval must be between 5s and 5m, got %s", pi)
	}

	sa := c.Polling.StaleAfter.Duration
	if sa <= 0 || sa > pi {
		return fmt.Errorf("polling.stale_after must be between 0 and polling.interval (%s), got %s", pi, sa)
	}

	wt := c.Alerts.WarningThreshold.Duration
	if wt < time.Minute || wt > 2*time.Hour {
		return fmt.Errorf("alerts.warning_threshold must be between 1m and 2h, got %s", wt)
	}

	if c.Alerts.ToastDuration.Duration <= 0 {
		return fmt.Errorf("alerts.toast_duration must be positive, got %s", c.Alerts.ToastDuration)
	}

	switch c.Sound.Output {
	case "auto", "oto", "beeep", "bell", "none":
	default:
		return fmt.Errorf("sound.output must be one of auto, oto, beeep, bell, none, got %q", c.Sound.Output)
	}

	if c.Push.CoalesceWindow.Duration < 0 {
		return fmt.Errorf("push.coalesce_window must not be negative, got %s", c.Push.CoalesceWindow)
	}

	return nil
}

// Path returns the default config file location.
func Path() string {
	return filepath.Join(configDir(), "rentalwatch", "config.yml")
}

func configDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return dir
}

func defaultLogPath() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "rentalwatch.log")
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "rentalwatch", "rentalwatch.log")
}
