package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultRefreshInterval is the canonical full-dashboard refresh period
	DefaultRefreshInterval = 30 * time.Second
	// DefaultNotificationTTL is how long a notification stays visible
	DefaultNotificationTTL = 3 * time.Second
	// DefaultMaxNotifications caps the number of visible notifications
	DefaultMaxNotifications = 5
)

type Config struct {
	ServerPort  string
	Environment string
	Locale      string
	// Stats API
	StatsBaseURL   string
	SessionCookie  string // forwarded as Cookie header, the stats API is login-protected
	AttendanceDays int
	// Live channel
	LiveURL           string
	ReconnectInterval time.Duration
	// Refresh schedule. Zero disables the optional triggers.
	RefreshInterval        time.Duration
	CounterRefreshInterval time.Duration
	ChartRefreshInterval   time.Duration
	// Presentation
	NotificationTTL  time.Duration
	MaxNotifications int
	AnimateCounters  bool

	// Filled while loading, logged once a logger exists
	Defaulted []string // keys left unset
	Warnings  []string // values that could not be parsed
}

// Load reads the configuration from the environment and an optional .env file.
// Problems are collected on the returned Config instead of being logged.
func Load() *Config {
	cfg := &Config{}

	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		cfg.Defaulted = append(cfg.Defaulted, ".env")
	}

	cfg.ServerPort = cfg.getEnv("SERVER_PORT", "8090")
	cfg.Environment = cfg.getEnv("ENVIRONMENT", "development")
	cfg.Locale = cfg.getEnv("LOCALE", "en")
	cfg.StatsBaseURL = strings.TrimRight(cfg.getEnv("STATS_BASE_URL", "http://localhost:5000"), "/")
	cfg.SessionCookie = cfg.getEnv("SESSION_COOKIE", "")
	cfg.AttendanceDays = cfg.getEnvInt("ATTENDANCE_DAYS", 30)
	cfg.LiveURL = cfg.getEnv("LIVE_URL", DeriveLiveURL(cfg.StatsBaseURL))
	cfg.ReconnectInterval = cfg.getEnvDuration("RECONNECT_INTERVAL", 2*time.Second)
	cfg.RefreshInterval = cfg.getEnvDuration("REFRESH_INTERVAL", DefaultRefreshInterval)
	cfg.CounterRefreshInterval = cfg.getEnvDuration("COUNTER_REFRESH_INTERVAL", 0)
	cfg.ChartRefreshInterval = cfg.getEnvDuration("CHART_REFRESH_INTERVAL", 0)
	cfg.NotificationTTL = cfg.getEnvDuration("NOTIFICATION_TTL", DefaultNotificationTTL)
	cfg.MaxNotifications = cfg.getEnvInt("MAX_NOTIFICATIONS", DefaultMaxNotifications)
	cfg.AnimateCounters = cfg.getEnvBool("ANIMATE_COUNTERS", true)

	return cfg
}

// DeriveLiveURL maps the stats base URL to the live channel endpoint
// (http -> ws, https -> wss)
func DeriveLiveURL(statsBaseURL string) string {
	switch {
	case strings.HasPrefix(statsBaseURL, "https://"):
		return "wss://" + strings.TrimPrefix(statsBaseURL, "https://") + "/live"
	case strings.HasPrefix(statsBaseURL, "http://"):
		return "ws://" + strings.TrimPrefix(statsBaseURL, "http://") + "/live"
	default:
		return statsBaseURL + "/live"
	}
}

func (c *Config) getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		c.Defaulted = append(c.Defaulted, key)
		return defaultValue
	}
	return value
}

func (c *Config) getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept common boolean representations
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		c.Warnings = append(c.Warnings, fmt.Sprintf("invalid boolean for %s (%q), using %t", key, value, defaultValue))
		return defaultValue
	}
}

func (c *Config) getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		c.Warnings = append(c.Warnings, fmt.Sprintf("invalid integer for %s (%q), using %d", key, value, defaultValue))
		return defaultValue
	}
	return n
}

// getEnvDuration accepts Go durations ("30s", "5m") or plain seconds ("30")
func (c *Config) getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		c.Warnings = append(c.Warnings, fmt.Sprintf("invalid duration for %s (%q), using %s", key, value, defaultValue))
		return defaultValue
	}
	return d
}
