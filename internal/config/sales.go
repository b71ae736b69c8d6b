package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// SalesConfig holds operational rules that field supervisors tune without a
// redeploy: geofence tolerance for visit check-ins, the order value above
// which approval is required, and the cap on bulk sync batches.
type SalesConfig struct {
	CheckInRadiusMeters    float64 `mapstructure:"checkInRadiusMeters"`
	OrderApprovalThreshold int64   `mapstructure:"orderApprovalThreshold"`
	MaxBulkBatchSize       int     `mapstructure:"maxBulkBatchSize"`
	EnforceGeofence        bool    `mapstructure:"enforceGeofence"`
}

func DefaultSalesConfig() SalesConfig {
	return SalesConfig{
		CheckInRadiusMeters:    250,
		OrderApprovalThreshold: 500_000,
		MaxBulkBatchSize:       100,
		EnforceGeofence:        false,
	}
}

type SalesConfigHolder struct {
	current atomic.Value // holds SalesConfig
}

func NewSalesConfigHolder() (*SalesConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("sales")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/fieldline/config")
	v.AddConfigPath("/etc/fieldline")
	v.AddConfigPath(".")

	v.SetEnvPrefix("FIELDLINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultSalesConfig()
		v.SetDefault("sales.checkInRadiusMeters", defaults.CheckInRadiusMeters)
		v.SetDefault("sales.orderApprovalThreshold", defaults.OrderApprovalThreshold)
		v.SetDefault("sales.maxBulkBatchSize", defaults.MaxBulkBatchSize)
		v.SetDefault("sales.enforceGeofence", defaults.EnforceGeofence)
	}

	var cfg SalesConfig
	if err := v.UnmarshalKey("sales", &cfg); err != nil {
		return nil, err
	}
	if err := validateSalesConfig(cfg); err != nil {
		return nil, err
	}

	holder := &SalesConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated SalesConfig
		if err := v.UnmarshalKey("sales", &updated); err != nil {
			log.Printf("[sales-config] reload failed: %v", err)
			return
		}
		if err := validateSalesConfig(updated); err != nil {
			log.Printf("[sales-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[sales-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticSalesConfigHolder wraps a fixed config with no file watching.
func NewStaticSalesConfigHolder(cfg SalesConfig) *SalesConfigHolder {
	holder := &SalesConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *SalesConfigHolder) Get() SalesConfig {
	return h.current.Load().(SalesConfig)
}

func validateSalesConfig(cfg SalesConfig) error {
	if cfg.CheckInRadiusMeters < 0 {
		return errors.New("checkInRadiusMeters must not be negative")
	}
	if cfg.OrderApprovalThreshold < 0 {
		return errors.New("orderApprovalThreshold must not be negative")
	}
	if cfg.MaxBulkBatchSize <= 0 {
		return errors.New("maxBulkBatchSize must be positive")
	}
	return nil
}
