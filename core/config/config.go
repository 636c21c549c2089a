package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds Telegram bot related settings.
type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"BOT_TOKEN"`
	AdminID int64  `yaml:"admin_id" envconfig:"TELEGRAM_ADMIN_ID"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	KeysOrder   string `yaml:"keys_order"`
	DebugSample string `yaml:"debug_sample"`
	Dir         string `yaml:"dir"`
	BotFile     string `yaml:"bot_file"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

const (
	// UpdateCallback identifies callback updates for rate limit exclusions.
	UpdateCallback = "callback"
	// UpdateMessage identifies message updates for rate limit exclusions.
	UpdateMessage = "message"
)

// RateLimitConfig holds settings for rate limiting.
// ExcludeUpdates accepts update types to bypass limiting:
// - "callback": Telegram callback button presses
// - "message": standard text messages
type RateLimitConfig struct {
	IntervalMS     int      `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
	ExcludeUpdates []string `yaml:"exclude_updates" envconfig:"RATE_LIMIT_EXCLUDE_UPDATES"`
}

const (
	// StorageMemory keeps ping history in process memory.
	StorageMemory = "memory"
	// StoragePostgres persists ping history in Postgres.
	StoragePostgres = "postgres"
)

// StorageConfig selects the ping registry backend and its bounds.
type StorageConfig struct {
	Driver string `yaml:"driver" envconfig:"STORAGE_DRIVER"`
	// MaxHistory caps the in-memory ping history; oldest records are evicted.
	MaxHistory int `yaml:"max_history" envconfig:"STORAGE_MAX_HISTORY"`
}

// SessionConfig bounds abandoned conversation sessions.
type SessionConfig struct {
	SweepIntervalMinutes int `yaml:"sweep_interval_minutes" envconfig:"SESSION_SWEEP_INTERVAL_MINUTES"`
	MaxIdleHours         int `yaml:"max_idle_hours" envconfig:"SESSION_MAX_IDLE_HOURS"`
}

// DatabaseConfig holds Postgres connection settings for the ping registry
// backend. It mirrors core/database.Config; bootstrap converts between the
// two so this package stays free of database imports.
type DatabaseConfig struct {
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
}

// CatalogEntry describes one selectable option shown to the user.
type CatalogEntry struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// CatalogConfig carries the fixed location and friend catalogs.
type CatalogConfig struct {
	Locations []CatalogEntry `yaml:"locations"`
	Friends   []CatalogEntry `yaml:"friends"`
}

// Config aggregates the full bot configuration.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Storage   StorageConfig   `yaml:"storage"`
	Session   SessionConfig   `yaml:"session"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Database  DatabaseConfig  `yaml:"database"`
}

// DefaultLocations is the built-in campus location catalog, used when the
// YAML config does not provide one.
var DefaultLocations = []CatalogEntry{
	{ID: "main_library", Name: "📚 Main Library"},
	{ID: "campus_cafe", Name: "☕ Campus Café"},
	{ID: "student_union", Name: "🍕 Student Union"},
	{ID: "study_hall_a", Name: "🏫 Study Hall A"},
	{ID: "campus_quad", Name: "🌳 Campus Quad"},
	{ID: "rec_center", Name: "🏃 Recreation Center"},
	{ID: "food_court", Name: "🍔 Food Court"},
	{ID: "science_building", Name: "🔬 Science Building"},
}

// DefaultFriends is the built-in friend catalog.
var DefaultFriends = []CatalogEntry{
	{ID: "alex", Name: "Alex"},
	{ID: "sam", Name: "Sam"},
	{ID: "jordan", Name: "Jordan"},
	{ID: "casey", Name: "Casey"},
	{ID: "taylor", Name: "Taylor"},
	{ID: "morgan", Name: "Morgan"},
	{ID: "riley", Name: "Riley"},
	{ID: "avery", Name: "Avery"},
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize performs basic validation of required configuration fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if rm == "" {
		rm = RunModeLongpoll
	}
	if rm == "polling" { // accept alias
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			return fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'")
		}
		if strings.TrimSpace(cfg.Webhook.Listen) == "" {
			return fmt.Errorf("webhook.listen is required when telegram.run_mode is 'webhook'")
		}
		if cfg.Webhook.Port <= 0 {
			return fmt.Errorf("webhook.port must be > 0 when telegram.run_mode is 'webhook'")
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm

	allowed := map[string]struct{}{
		UpdateCallback: {},
		UpdateMessage:  {},
	}
	for i, v := range cfg.RateLimit.ExcludeUpdates {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" {
			continue
		}
		if _, ok := allowed[key]; !ok {
			return fmt.Errorf("invalid rate_limit.exclude_updates value %q; allowed: callback, message", v)
		}
		cfg.RateLimit.ExcludeUpdates[i] = key
	}

	driver := strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	if driver == "" {
		driver = StorageMemory
	}
	switch driver {
	case StorageMemory:
	case StoragePostgres:
		if strings.TrimSpace(cfg.Database.Host) == "" {
			return fmt.Errorf("database.host is required when storage.driver is 'postgres'")
		}
		if strings.TrimSpace(cfg.Database.Name) == "" {
			return fmt.Errorf("database.name is required when storage.driver is 'postgres'")
		}
	default:
		return fmt.Errorf("invalid storage.driver %q; allowed: memory, postgres", cfg.Storage.Driver)
	}
	cfg.Storage.Driver = driver
	if cfg.Storage.MaxHistory <= 0 {
		cfg.Storage.MaxHistory = 100
	}

	if cfg.Session.SweepIntervalMinutes < 0 {
		return fmt.Errorf("session.sweep_interval_minutes must be >= 0")
	}
	if cfg.Session.SweepIntervalMinutes == 0 {
		cfg.Session.SweepIntervalMinutes = 30
	}
	if cfg.Session.MaxIdleHours < 0 {
		return fmt.Errorf("session.max_idle_hours must be >= 0")
	}
	if cfg.Session.MaxIdleHours == 0 {
		cfg.Session.MaxIdleHours = 24
	}

	if len(cfg.Catalog.Locations) == 0 {
		cfg.Catalog.Locations = append([]CatalogEntry(nil), DefaultLocations...)
	}
	if len(cfg.Catalog.Friends) == 0 {
		cfg.Catalog.Friends = append([]CatalogEntry(nil), DefaultFriends...)
	}
	if err := validateCatalog("catalog.locations", cfg.Catalog.Locations); err != nil {
		return err
	}
	if err := validateCatalog("catalog.friends", cfg.Catalog.Friends); err != nil {
		return err
	}

	return nil
}

func validateCatalog(section string, entries []CatalogEntry) error {
	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		id := strings.TrimSpace(e.ID)
		if id == "" {
			return fmt.Errorf("%s[%d]: id is required", section, i)
		}
		if strings.TrimSpace(e.Name) == "" {
			return fmt.Errorf("%s[%d]: name is required", section, i)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%s: duplicate id %q", section, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
