package config

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. KWR_SERVER_PORT.
const EnvPrefix = "KWR"

var countryPattern = regexp.MustCompile(`^[a-z]{2}$`)

type manager struct {
	mu     sync.RWMutex
	config *Config
	viper  *viper.Viper
	path   string
}

func NewManager() Manager {
	return &manager{
		viper: viper.New(),
	}
}

// Load reads configPath, applies environment overrides and validates. An
// empty path loads defaults and environment only.
func (m *manager) Load(configPath string) (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.path = configPath
	m.setupViper(configPath)

	config, err := m.read()
	if err != nil {
		return nil, err
	}

	m.config = config
	return config, nil
}

func (m *manager) Reload() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.config == nil {
		return fmt.Errorf("config not loaded")
	}

	config, err := m.read()
	if err != nil {
		return err
	}

	m.config = config
	return nil
}

func (m *manager) GetConfig() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

func (m *manager) read() (*Config, error) {
	if m.path != "" {
		if err := m.viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := m.viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	normalize(&config)

	if err := Validate(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func (m *manager) setupViper(configPath string) {
	if configPath != "" {
		m.viper.SetConfigFile(configPath)
	}

	m.viper.SetEnvPrefix(EnvPrefix)
	m.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.viper.AutomaticEnv()

	setDefaults(m.viper)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.dsn", "")
	v.SetDefault("database.dataset_file", "")
	v.SetDefault("database.order_by", "")

	for _, name := range []string{"serp", "trends", "history"} {
		v.SetDefault("providers."+name+".endpoint", "")
		v.SetDefault("providers."+name+".api_key", "")
		v.SetDefault("providers."+name+".timeout", 30*time.Second)
		v.SetDefault("providers."+name+".max_retries", 3)
		v.SetDefault("providers."+name+".retry_delay", time.Second)
	}
	v.SetDefault("providers.history.endpoint", "https://targeted-keyword-trend.p.rapidapi.com")
	v.SetDefault("providers.call_timeout", 90*time.Second)

	v.SetDefault("cache.capacity", 100)
	v.SetDefault("cache.ttl", time.Duration(0))

	v.SetDefault("rate_limit.min_delay", 5*time.Second)
	v.SetDefault("rate_limit.serp", 5*time.Second)
	v.SetDefault("rate_limit.trends", 5*time.Second)
	v.SetDefault("rate_limit.history", 5*time.Second)

	v.SetDefault("matching.threshold", 0.8)
	v.SetDefault("matching.min_length", 3)

	v.SetDefault("countries", []string{"us", "uk", "ca", "in"})

	v.SetDefault("updated.base_date", "2023-08-25")
	v.SetDefault("updated.interval_days", 10)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.time_format", "")
}

// normalize lower-cases country codes. A comma separated env value arrives as
// a single element.
func normalize(config *Config) {
	var countries []string
	for _, c := range config.Countries {
		for _, part := range strings.Split(c, ",") {
			if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
				countries = append(countries, part)
			}
		}
	}
	config.Countries = countries
}

// Validate checks a loaded configuration.
func Validate(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if len(config.Countries) == 0 {
		return fmt.Errorf("countries cannot be empty")
	}
	for _, c := range config.Countries {
		if !countryPattern.MatchString(c) {
			return fmt.Errorf("invalid country code: %q", c)
		}
	}

	if config.Providers.CallTimeout < 0 {
		return fmt.Errorf("providers call_timeout cannot be negative")
	}

	if config.Cache.Capacity <= 0 {
		return fmt.Errorf("cache capacity must be positive")
	}
	if config.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl cannot be negative")
	}

	rl := config.RateLimit
	if rl.MinDelay < 0 || rl.SERP < 0 || rl.Trends < 0 || rl.History < 0 {
		return fmt.Errorf("rate limit delays cannot be negative")
	}

	if config.Matching.Threshold <= 0 || config.Matching.Threshold > 1 {
		return fmt.Errorf("matching threshold must be in (0, 1]: %v", config.Matching.Threshold)
	}
	if config.Matching.MinLength < 0 {
		return fmt.Errorf("matching min_length cannot be negative")
	}

	if _, err := config.Updated.Base(); err != nil {
		return fmt.Errorf("invalid updated base_date %q: %w", config.Updated.BaseDate, err)
	}
	if config.Updated.IntervalDays <= 0 {
		return fmt.Errorf("updated interval_days must be positive")
	}

	for name, p := range map[string]ProviderConfig{
		"serp":    config.Providers.SERP,
		"trends":  config.Providers.Trends,
		"history": config.Providers.History,
	} {
		if p.MaxRetries < 0 {
			return fmt.Errorf("provider %s max_retries cannot be negative", name)
		}
		if p.Timeout < 0 {
			return fmt.Errorf("provider %s timeout cannot be negative", name)
		}
	}

	return nil
}
