// Package config loads service settings from the environment and an optional
// config.yaml.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"booking-service/internal/availability"
)

const (
	DefaultTimezone         = "America/Mexico_City"
	DefaultWeekdayMorning   = "09:00-14:00"
	DefaultWeekdayAfternoon = "16:00-20:00"
	DefaultSaturday         = "09:00-13:00"
)

type Config struct {
	Port     string `mapstructure:"PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRefreshToken string `mapstructure:"GOOGLE_REFRESH_TOKEN"`
	CalendarID         string `mapstructure:"CALENDAR_ID"`
	GoogleCalendarID   string `mapstructure:"GOOGLE_CALENDAR_ID"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`

	WeekdayMorningHours   string `mapstructure:"WEEKDAY_MORNING_HOURS"`
	WeekdayAfternoonHours string `mapstructure:"WEEKDAY_AFTERNOON_HOURS"`
	SaturdayHours         string `mapstructure:"SATURDAY_HOURS"`
	Timezone              string `mapstructure:"TIMEZONE"`

	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	DebugEnabled   bool   `mapstructure:"DEBUG_ENABLED"`
	DebugKey       string `mapstructure:"DEBUG_KEY"`
	DebugJWTSecret string `mapstructure:"DEBUG_JWT_SECRET"`

	RateLimitMax      int   `mapstructure:"RATE_LIMIT_MAX"`
	RateLimitWindowMS int64 `mapstructure:"RATE_LIMIT_WINDOW_MS"`
	MinLeadMinutes    int   `mapstructure:"MIN_LEAD_MINUTES"`
	SlotMinutes       int   `mapstructure:"SLOT_MINUTES"`

	SlotsCacheTTLSeconds int     `mapstructure:"SLOTS_CACHE_TTL_SECONDS"`
	SlotsCacheMax        int     `mapstructure:"SLOTS_CACHE_MAX"`
	SlotsCacheEvict      int     `mapstructure:"SLOTS_CACHE_EVICT"`
	SlotsRateRPS         float64 `mapstructure:"SLOTS_RATE_RPS"`
	SlotsRateBurst       int     `mapstructure:"SLOTS_RATE_BURST"`

	MaintenanceSchedule string `mapstructure:"MAINTENANCE_SCHEDULE"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Derived by Load.
	Location *time.Location      `mapstructure:"-"`
	Policy   availability.Policy `mapstructure:"-"`
	// ConfigFile is the file that was read, empty when only the environment was used.
	ConfigFile string `mapstructure:"-"`
}

var defaults = map[string]any{
	"PORT":                    "8080",
	"ENV":                     "development",
	"LOG_LEVEL":               "info",
	"GOOGLE_CLIENT_ID":        "",
	"GOOGLE_CLIENT_SECRET":    "",
	"GOOGLE_REFRESH_TOKEN":    "",
	"CALENDAR_ID":             "",
	"GOOGLE_CALENDAR_ID":      "",
	"GOOGLE_REDIRECT_URL":     "",
	"WEEKDAY_MORNING_HOURS":   DefaultWeekdayMorning,
	"WEEKDAY_AFTERNOON_HOURS": DefaultWeekdayAfternoon,
	"SATURDAY_HOURS":          DefaultSaturday,
	"TIMEZONE":                DefaultTimezone,
	"ALLOWED_ORIGINS":         "",
	"DEBUG_ENABLED":           false,
	"DEBUG_KEY":               "",
	"DEBUG_JWT_SECRET":        "",
	"RATE_LIMIT_MAX":          5,
	"RATE_LIMIT_WINDOW_MS":    3600000,
	"MIN_LEAD_MINUTES":        210,
	"SLOT_MINUTES":            30,
	"SLOTS_CACHE_TTL_SECONDS": 300,
	"SLOTS_CACHE_MAX":         30,
	"SLOTS_CACHE_EVICT":       10,
	"SLOTS_RATE_RPS":          2.0,
	"SLOTS_RATE_BURST":        20,
	"MAINTENANCE_SCHEDULE":    "@every 1m",
	"REDIS_ADDR":              "",
	"REDIS_PASSWORD":          "",
	"REDIS_DB":                0,
	"DATABASE_URL":            "",
}

// Load reads config.yaml from "." or "./config" when present, overlays the
// environment and validates the result.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) finish() error {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	c.Location = loc

	morning, err := availability.ParseBlock(c.WeekdayMorningHours)
	if err != nil {
		return fmt.Errorf("invalid WEEKDAY_MORNING_HOURS: %w", err)
	}
	afternoon, err := availability.ParseBlock(c.WeekdayAfternoonHours)
	if err != nil {
		return fmt.Errorf("invalid WEEKDAY_AFTERNOON_HOURS: %w", err)
	}
	saturday, err := availability.ParseBlock(c.SaturdayHours)
	if err != nil {
		return fmt.Errorf("invalid SATURDAY_HOURS: %w", err)
	}
	c.Policy = availability.NewPolicy([]availability.Block{morning, afternoon}, saturday)

	if c.SlotMinutes <= 0 {
		return fmt.Errorf("SLOT_MINUTES must be positive, got %d", c.SlotMinutes)
	}
	if c.RateLimitMax <= 0 || c.RateLimitWindowMS <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX and RATE_LIMIT_WINDOW_MS must be positive")
	}
	return nil
}

// Calendar returns the target calendar id; GOOGLE_CALENDAR_ID wins over CALENDAR_ID.
func (c *Config) Calendar() string {
	if c.GoogleCalendarID != "" {
		return c.GoogleCalendarID
	}
	return c.CalendarID
}

func (c *Config) IsProduction() bool { return c.Env == "production" }

// Origins splits ALLOWED_ORIGINS. An empty result means no list was configured.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowMS) * time.Millisecond
}

func (c *Config) LeadTime() time.Duration {
	return time.Duration(c.MinLeadMinutes) * time.Minute
}

func (c *Config) SlotStep() time.Duration {
	return time.Duration(c.SlotMinutes) * time.Minute
}

func (c *Config) SlotsCacheTTL() time.Duration {
	return time.Duration(c.SlotsCacheTTLSeconds) * time.Second
}

// Missing lists the calendar settings that are not set. The service still
// starts without them but every calendar call will fail.
func (c *Config) Missing() []string {
	var out []string
	if c.GoogleClientID == "" {
		out = append(out, "GOOGLE_CLIENT_ID")
	}
	if c.GoogleClientSecret == "" {
		out = append(out, "GOOGLE_CLIENT_SECRET")
	}
	if c.GoogleRefreshToken == "" {
		out = append(out, "GOOGLE_REFRESH_TOKEN")
	}
	if c.Calendar() == "" {
		out = append(out, "GOOGLE_CALENDAR_ID")
	}
	return out
}
