package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIURL         = "https://ws.otodatanetwork.com/neevoapp/v1/DataService.svc/GetAllDisplayPropaneDevices"
	DefaultScanInterval   = 1440 * time.Minute
	DefaultRequestTimeout = 30 * time.Second
)

// Config holds all application configuration.
type Config struct {
	Neevo struct {
		Username string        `yaml:"username"`
		Password string        `yaml:"password"`
		APIURL   string        `yaml:"api_url"`
		Timeout  time.Duration `yaml:"timeout"`
	} `yaml:"neevo"`
	Pricing struct {
		URL     string        `yaml:"url"`
		State   string        `yaml:"state"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"pricing"`
	Schedule struct {
		Interval time.Duration `yaml:"interval"`
	} `yaml:"schedule"`
	HTTP struct {
		Addr  string `yaml:"addr"`
		Token string `yaml:"token"`
	} `yaml:"http"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Redis struct {
		Addr     string        `yaml:"addr"`
		Password string        `yaml:"password"`
		TTL      time.Duration `yaml:"ttl"`
	} `yaml:"redis"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Alerts struct {
		StateFile string `yaml:"state_file"`
	} `yaml:"alerts"`
	DataSource string `yaml:"data_source"` // "neevo" or "mock"
	EntryID    string `yaml:"entry_id"`
	LogLevel   string `yaml:"log_level"`
	Proxy      string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies .env and environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	envString("NEEVO_USERNAME", &cfg.Neevo.Username)
	envString("NEEVO_PASSWORD", &cfg.Neevo.Password)
	envString("NEEVO_API_URL", &cfg.Neevo.APIURL)
	envString("PRICING_URL", &cfg.Pricing.URL)
	envString("PRICING_STATE", &cfg.Pricing.State)
	envString("HTTP_ADDR", &cfg.HTTP.Addr)
	envString("HTTP_TOKEN", &cfg.HTTP.Token)
	envString("TELEGRAM_BOT_TOKEN", &cfg.Telegram.BotToken)
	envString("TELEGRAM_CHAT_ID", &cfg.Telegram.ChatID)
	envString("REDIS_ADDR", &cfg.Redis.Addr)
	envString("REDIS_PASSWORD", &cfg.Redis.Password)
	envString("SQLITE_PATH", &cfg.Database.SQLitePath)
	envString("ALERT_STATE_FILE", &cfg.Alerts.StateFile)
	envString("DATA_SOURCE", &cfg.DataSource)
	envString("ENTRY_ID", &cfg.EntryID)
	envString("LOG_LEVEL", &cfg.LogLevel)
	envString("HTTPS_PROXY", &cfg.Proxy)
	if err := envDuration("SCAN_INTERVAL", &cfg.Schedule.Interval); err != nil {
		return nil, err
	}
	if err := envDuration("REQUEST_TIMEOUT", &cfg.Neevo.Timeout); err != nil {
		return nil, err
	}

	// Defaults
	if cfg.Neevo.APIURL == "" {
		cfg.Neevo.APIURL = DefaultAPIURL
	}
	if cfg.Neevo.Timeout == 0 {
		cfg.Neevo.Timeout = DefaultRequestTimeout
	}
	if cfg.Pricing.Timeout == 0 {
		cfg.Pricing.Timeout = DefaultRequestTimeout
	}
	if cfg.Schedule.Interval == 0 {
		cfg.Schedule.Interval = DefaultScanInterval
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.Redis.TTL == 0 {
		cfg.Redis.TTL = 2 * cfg.Schedule.Interval
	}
	if cfg.Alerts.StateFile == "" {
		cfg.Alerts.StateFile = "data/alert_state.json"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/tank_sentinel.db"
	}
	if cfg.DataSource == "" {
		cfg.DataSource = "neevo"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.EntryID == "" && cfg.Neevo.Username != "" {
		cfg.EntryID = DefaultEntryID(cfg.Neevo.Username)
	}
	if cfg.EntryID == "" && cfg.DataSource == "mock" {
		cfg.EntryID = "mock"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.DataSource != "neevo" && c.DataSource != "mock" {
		return fmt.Errorf("data_source must be \"neevo\" or \"mock\", got %q", c.DataSource)
	}
	if c.DataSource == "neevo" {
		if c.Neevo.Username == "" {
			return fmt.Errorf("neevo.username is required")
		}
		if c.Neevo.Password == "" {
			return fmt.Errorf("neevo.password is required")
		}
	}
	if c.EntryID == "" {
		return fmt.Errorf("entry_id is required when no username is configured")
	}
	if c.Pricing.State != "" && c.Pricing.URL == "" {
		if _, ok := PricingURLForState(c.Pricing.State); !ok {
			return fmt.Errorf("pricing.state %q is not a known EIA region", c.Pricing.State)
		}
	}
	if c.Schedule.Interval < time.Minute {
		return fmt.Errorf("schedule.interval must be at least 1m, got %s", c.Schedule.Interval)
	}
	if c.Neevo.Timeout <= 0 || c.Pricing.Timeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// PricingURL returns the page to scrape for the propane price.
// An explicit URL wins over the state shortcut. Empty means pricing is disabled.
func (c *Config) PricingURL() string {
	if c.Pricing.URL != "" {
		return c.Pricing.URL
	}
	if u, ok := PricingURLForState(c.Pricing.State); ok {
		return u
	}
	return ""
}

// DefaultEntryID derives a stable entry id from the account name so sensor
// unique ids survive restarts without extra configuration.
func DefaultEntryID(username string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("neevo:"+strings.ToLower(username))).String()
}

func envString(key string, dst *string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func envDuration(key string, dst *time.Duration) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}
