package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// SweepConfig controls the background expiry sweeper.
type SweepConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Interval   time.Duration `mapstructure:"interval"`
	RunTimeout time.Duration `mapstructure:"runTimeout"`
}

func DefaultSweepConfig() SweepConfig {
	return SweepConfig{
		Enabled:    true,
		Interval:   time.Hour,
		RunTimeout: 2 * time.Minute,
	}
}

// SweepConfigHolder exposes the current sweep settings and hot-reloads
// them when the config file changes.
type SweepConfigHolder struct {
	current atomic.Value // holds SweepConfig
}

func NewSweepConfigHolder() (*SweepConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("sweep")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/polisdesk")
	v.AddConfigPath(".")

	v.SetEnvPrefix("POLISDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultSweepConfig()
	v.SetDefault("sweep.enabled", defaults.Enabled)
	v.SetDefault("sweep.interval", defaults.Interval)
	v.SetDefault("sweep.runTimeout", defaults.RunTimeout)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg SweepConfig
	if err := v.UnmarshalKey("sweep", &cfg); err != nil {
		return nil, err
	}
	if err := validateSweepConfig(cfg); err != nil {
		return nil, err
	}

	holder := &SweepConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated SweepConfig
		if err := v.UnmarshalKey("sweep", &updated); err != nil {
			log.Printf("[sweep-config] reload failed: %v", err)
			return
		}
		if err := validateSweepConfig(updated); err != nil {
			log.Printf("[sweep-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[sweep-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *SweepConfigHolder) Get() SweepConfig {
	return h.current.Load().(SweepConfig)
}

// Store replaces the current settings. Used by tests.
func (h *SweepConfigHolder) Store(cfg SweepConfig) {
	h.current.Store(cfg)
}

func validateSweepConfig(cfg SweepConfig) error {
	if cfg.Interval <= 0 {
		return errors.New("sweep.interval must be positive")
	}
	if cfg.RunTimeout <= 0 {
		return errors.New("sweep.runTimeout must be positive")
	}
	return nil
}
