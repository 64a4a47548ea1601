package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config models hotel.yml.
type Config struct {
	Hotel struct {
		Name     string `yaml:"name" json:"name"`
		Timezone string `yaml:"timezone" json:"timezone"`
	} `yaml:"hotel" json:"hotel"`
	Pricing struct {
		Currency        string                     `yaml:"currency" json:"currency"`
		StrictRoomTypes bool                       `yaml:"strict_room_types" json:"strict_room_types"`
		Rates           map[string]decimal.Decimal `yaml:"rates" json:"rates"`
	} `yaml:"pricing" json:"pricing"`
	Housekeeping struct {
		DelaySweep string `yaml:"delay_sweep" json:"delay_sweep"`
	} `yaml:"housekeeping" json:"housekeeping"`
	Snapshot struct {
		Autosave string `yaml:"autosave" json:"autosave"`
	} `yaml:"snapshot" json:"snapshot"`
	Log      LogConfig       `yaml:"log" json:"log"`
	Webhooks []WebhookConfig `yaml:"webhooks" json:"webhooks"`
}

// WebhookConfig forwards journal events to an HTTP endpoint. No Events means
// every event type.
type WebhookConfig struct {
	URL            string   `yaml:"url" json:"url"`
	Events         []string `yaml:"events" json:"events"`
	Secret         string   `yaml:"secret" json:"secret"`
	TimeoutSeconds int      `yaml:"timeout_seconds" json:"timeout_seconds"`
	Enabled        *bool    `yaml:"enabled" json:"enabled"`
}

type LogConfig struct {
	Level      string `yaml:"level" json:"level"`
	File       string `yaml:"file" json:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" json:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" json:"max_age_days"`
}

// Load reads and validates config from workspace.
func Load(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s not found; create one with hotelctl init", path)
		}
		return nil, err
	}
	return FromYAML(data)
}

// LoadOptional returns the default config if the file does not exist.
func LoadOptional(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if c.Hotel.Name == "" {
		return fmt.Errorf("config.hotel.name is required")
	}
	if _, err := time.LoadLocation(c.Hotel.Timezone); err != nil {
		return fmt.Errorf("config.hotel.timezone %q: %w", c.Hotel.Timezone, err)
	}
	if len(c.Pricing.Rates) == 0 {
		return fmt.Errorf("config.pricing.rates is required")
	}
	for roomType, rate := range c.Pricing.Rates {
		if roomType == "" {
			return fmt.Errorf("config.pricing.rates contains empty room type")
		}
		if rate.IsNegative() {
			return fmt.Errorf("rate for room type %s is negative", roomType)
		}
	}
	for name, spec := range map[string]string{
		"housekeeping.delay_sweep": c.Housekeeping.DelaySweep,
		"snapshot.autosave":        c.Snapshot.Autosave,
	} {
		if spec == "" {
			continue
		}
		if _, err := cron.ParseStandard(spec); err != nil {
			return fmt.Errorf("config.%s %q: %w", name, spec, err)
		}
	}
	for i, hook := range c.Webhooks {
		if hook.URL == "" {
			return fmt.Errorf("config.webhooks[%d].url is required", i)
		}
		if hook.TimeoutSeconds < 0 {
			return fmt.Errorf("config.webhooks[%d].timeout_seconds is negative", i)
		}
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config.log.level %q unknown", c.Log.Level)
	}
	return nil
}

// Rate returns the nightly rate for a room type and whether it is known.
func (c *Config) Rate(roomType string) (decimal.Decimal, bool) {
	rate, ok := c.Pricing.Rates[roomType]
	if !ok {
		return decimal.Zero, false
	}
	return rate, true
}

// Location returns the hotel timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Hotel.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "hotel.yml")
}

// GenerateDefault returns default config YAML.
func GenerateDefault(name string) string {
	return fmt.Sprintf(defaultTemplate, name)
}

// Default returns the default Config struct.
func Default() *Config {
	var cfg Config
	_ = yaml.NewDecoder(bytes.NewBufferString(GenerateDefault("Hotel"))).Decode(&cfg)
	return &cfg
}

// FromYAML parses and validates config from raw YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromFile reads YAML config from the given path.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

const defaultTemplate = `hotel:
  name: %q
  timezone: UTC

pricing:
  currency: MXN
  strict_room_types: false
  rates:
    Standard: 1800
    Ejecutiva: 2800
    Suite: 4200
    Suite Ejecutiva: 5500
    Presidencial: 8500

housekeeping:
  # in-progress tasks running past their estimate become delayed
  delay_sweep: "*/5 * * * *"

snapshot:
  autosave: "* * * * *"

log:
  level: info
  file: ""
  max_size_mb: 10
  max_backups: 7
  max_age_days: 28

# webhooks:
#   - url: https://frontdesk.example.com/hooks/hotel
#     events: [reservation.checked_in, room.report-maintenance]
#     secret: change-me
`
