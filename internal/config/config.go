package config

import (
	"time"

	"keyword-research/pkg/ratelimit"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Matching  MatchingConfig  `mapstructure:"matching"`
	Countries []string        `mapstructure:"countries"`
	Updated   UpdatedConfig   `mapstructure:"updated"`
	Logger    LoggerConfig    `mapstructure:"logger"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig selects the keyword datastore. DSN wins over DatasetFile.
// OrderBy names the column giving the table scan order; empty uses ctid.
type DatabaseConfig struct {
	DSN         string `mapstructure:"dsn"`
	DatasetFile string `mapstructure:"dataset_file"`
	OrderBy     string `mapstructure:"order_by"`
}

// ProvidersConfig holds the upstream endpoints. CallTimeout bounds one
// adapter fetch, rate-limit wait and retries included.
type ProvidersConfig struct {
	SERP        ProviderConfig `mapstructure:"serp"`
	Trends      ProviderConfig `mapstructure:"trends"`
	History     ProviderConfig `mapstructure:"history"`
	CallTimeout time.Duration  `mapstructure:"call_timeout"`
}

type ProviderConfig struct {
	Endpoint   string        `mapstructure:"endpoint"`
	APIKey     string        `mapstructure:"api_key"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
}

// Enabled reports whether an endpoint is configured.
func (p ProviderConfig) Enabled() bool {
	return p.Endpoint != ""
}

type CacheConfig struct {
	Capacity int           `mapstructure:"capacity"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type RateLimitConfig struct {
	MinDelay time.Duration `mapstructure:"min_delay"`
	SERP     time.Duration `mapstructure:"serp"`
	Trends   time.Duration `mapstructure:"trends"`
	History  time.Duration `mapstructure:"history"`
}

// PerFamily returns the delays keyed by upstream family.
func (r RateLimitConfig) PerFamily() map[string]time.Duration {
	return map[string]time.Duration{
		ratelimit.FamilySERP:    r.SERP,
		ratelimit.FamilyTrends:  r.Trends,
		ratelimit.FamilyHistory: r.History,
	}
}

type MatchingConfig struct {
	Threshold float64 `mapstructure:"threshold"`
	MinLength int     `mapstructure:"min_length"`
}

type UpdatedConfig struct {
	BaseDate     string `mapstructure:"base_date"`
	IntervalDays int    `mapstructure:"interval_days"`
}

// Base parses BaseDate (YYYY-MM-DD).
func (u UpdatedConfig) Base() (time.Time, error) {
	return time.Parse(time.DateOnly, u.BaseDate)
}

// Interval returns IntervalDays as a duration.
func (u UpdatedConfig) Interval() time.Duration {
	return time.Duration(u.IntervalDays) * 24 * time.Hour
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	TimeFormat string `mapstructure:"time_format"`
}

type Manager interface {
	Load(configPath string) (*Config, error)
	Reload() error
	GetConfig() *Config
}
