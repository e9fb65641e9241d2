// Package config loads waypoint settings from defaults, an optional config file and
// WAYPOINT_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/aretw0/waypoint/pkg/adapters/file"
	"github.com/aretw0/waypoint/pkg/effects"
	"github.com/aretw0/waypoint/pkg/resolver"
	"github.com/aretw0/waypoint/pkg/reverter"
	"github.com/aretw0/waypoint/pkg/walkthrough"
)

// EnvPrefix is prepended to every environment override, e.g. WAYPOINT_LOG_LEVEL.
const EnvPrefix = "WAYPOINT"

// Config represents the complete waypoint configuration.
type Config struct {
	Timing  TimingConfig  `mapstructure:"timing"`
	Store   StoreConfig   `mapstructure:"store"`
	Log     LogConfig     `mapstructure:"log"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Catalog CatalogConfig `mapstructure:"catalog"`
}

// TimingConfig holds the runtime delays. Values are duration strings such as "250ms".
type TimingConfig struct {
	ResolveTimeout   time.Duration `mapstructure:"resolve_timeout"`
	SettleDelay      time.Duration `mapstructure:"settle_delay"`
	RevertDelay      time.Duration `mapstructure:"revert_delay"`
	DebounceInterval time.Duration `mapstructure:"debounce_interval"`
	ActionTimeout    time.Duration `mapstructure:"action_timeout"`
}

// StoreConfig selects the progress store backend.
type StoreConfig struct {
	// Backend is one of "file", "memory", "redis", "sqlite".
	Backend string      `mapstructure:"backend"`
	Path    string      `mapstructure:"path"`
	Redis   RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type CatalogConfig struct {
	Dir   string `mapstructure:"dir"`
	Watch bool   `mapstructure:"watch"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Timing: TimingConfig{
			ResolveTimeout:   resolver.DefaultTimeout,
			SettleDelay:      resolver.DefaultSettleDelay,
			RevertDelay:      reverter.DefaultDelay,
			DebounceInterval: resolver.DefaultDebounceInterval,
			ActionTimeout:    effects.DefaultTimeout,
		},
		Store: StoreConfig{
			Backend: "file",
			Path:    file.DefaultPath,
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
		},
		Log:     LogConfig{Level: "info"},
		HTTP:    HTTPConfig{Addr: ":8080"},
		Catalog: CatalogConfig{Dir: "."},
	}
}

// SetDefaults registers default values with v.
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("timing.resolve_timeout", defaults.Timing.ResolveTimeout)
	v.SetDefault("timing.settle_delay", defaults.Timing.SettleDelay)
	v.SetDefault("timing.revert_delay", defaults.Timing.RevertDelay)
	v.SetDefault("timing.debounce_interval", defaults.Timing.DebounceInterval)
	v.SetDefault("timing.action_timeout", defaults.Timing.ActionTimeout)

	v.SetDefault("store.backend", defaults.Store.Backend)
	v.SetDefault("store.path", defaults.Store.Path)
	v.SetDefault("store.redis.addr", defaults.Store.Redis.Addr)
	v.SetDefault("store.redis.password", defaults.Store.Redis.Password)
	v.SetDefault("store.redis.db", defaults.Store.Redis.DB)
	v.SetDefault("store.redis.ttl", defaults.Store.Redis.TTL)

	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("http.addr", defaults.HTTP.Addr)
	v.SetDefault("catalog.dir", defaults.Catalog.Dir)
	v.SetDefault("catalog.watch", defaults.Catalog.Watch)
}

// New returns a viper instance with defaults registered and WAYPOINT_* environment
// overrides enabled. A non-empty file is read as the config file.
func New(file string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}
	return v, nil
}

// Load reads the configuration from v into a Config struct and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &cfg, nil
}

// Timings returns the driver timings described by the configuration.
func (c TimingConfig) Timings() walkthrough.Timings {
	return walkthrough.Timings{
		ResolveTimeout:   c.ResolveTimeout,
		SettleDelay:      c.SettleDelay,
		DebounceInterval: c.DebounceInterval,
		RevertDelay:      c.RevertDelay,
	}
}
