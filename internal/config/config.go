package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// defaultDaySlots is the clinic's working-day calendar: half-hour slots from
// opening to closing with the lunch gap between 11:30 and 14:00.
var defaultDaySlots = []string{
	"08:00", "08:30", "09:00", "09:30", "10:00", "10:30",
	"11:00", "11:30", "14:00", "14:30", "15:00", "15:30",
	"16:00", "16:30", "17:00", "17:30", "18:00",
}

var slotPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

type Config struct {
	Port              string   `mapstructure:"PORT"`
	Env               string   `mapstructure:"ENV"`
	APIBaseURL        string   `mapstructure:"API_BASE_URL"`
	APITimeoutSeconds int      `mapstructure:"API_TIMEOUT_SECONDS"`
	SessionFile       string   `mapstructure:"SESSION_FILE"`
	CORSOrigins       []string `mapstructure:"CORS_ORIGINS"`
	DaySlotList       string   `mapstructure:"DAY_SLOTS"`
	WeekStartsMonday  bool     `mapstructure:"WEEK_STARTS_MONDAY"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("API_TIMEOUT_SECONDS", 10)
	v.SetDefault("SESSION_FILE", defaultSessionFile())
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("DAY_SLOTS", strings.Join(defaultDaySlots, ","))
	v.SetDefault("WEEK_STARTS_MONDAY", false)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("API_BASE_URL")
	v.BindEnv("API_TIMEOUT_SECONDS")
	v.BindEnv("SESSION_FILE")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("DAY_SLOTS")
	v.BindEnv("WEEK_STARTS_MONDAY")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// DaySlots returns the configured slot start times in calendar order.
func (c *Config) DaySlots() []string {
	raw := strings.Split(c.DaySlotList, ",")
	slots := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s != "" {
			slots = append(slots, s)
		}
	}
	return slots
}

// Validate checks that the configuration is safe to run: the API base URL
// must parse and every configured slot must be a zero-padded HH:MM time.
// Zero-padding matters because the agenda sorts times lexicographically.
func (c *Config) Validate() error {
	u, err := url.ParseRequestURI(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("API_BASE_URL is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("API_BASE_URL must be http or https, got %q", u.Scheme)
	}

	slots := c.DaySlots()
	if len(slots) == 0 {
		return fmt.Errorf("DAY_SLOTS must list at least one slot")
	}
	for i, s := range slots {
		if !slotPattern.MatchString(s) {
			return fmt.Errorf("DAY_SLOTS[%d]: %q is not a zero-padded HH:MM time", i, s)
		}
		if i > 0 && s <= slots[i-1] {
			return fmt.Errorf("DAY_SLOTS must be strictly increasing, got %q after %q", s, slots[i-1])
		}
	}

	if c.APITimeoutSeconds <= 0 {
		return fmt.Errorf("API_TIMEOUT_SECONDS must be positive, got %d", c.APITimeoutSeconds)
	}

	return nil
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".dental-console-session.json"
	}
	return filepath.Join(dir, "dental-console", "session.json")
}
