package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/tendant/simple-resize/pkg/imageresize"
)

// Option applies configuration to a Config instance.
type Option func(*Config) error

// Load constructs a Config by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*Config, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() Config {
	return Config{
		DerivativeRoot:   imageresize.DefaultDerivativeRoot,
		CacheTTL:         imageresize.DefaultCacheTTL,
		BrowserCache:     imageresize.DefaultBrowserCache,
		VideoPlaceholder: imageresize.DefaultVideoPlaceholder,
		FilePlaceholder:  imageresize.DefaultFilePlaceholder,
		Cache: CacheConfig{
			Type: "memory",
		},
		Primary: StorageBackendConfig{
			Name:   "memory",
			Type:   "memory",
			Config: map[string]interface{}{},
		},
	}
}

// Config represents configuration for the resize service
type Config struct {
	// Derivative layout and headers
	DerivativeRoot string        `yaml:"derivative_root"`
	CacheTTL       time.Duration `yaml:"cache_ttl"`
	BrowserCache   time.Duration `yaml:"browser_cache"`

	// Placeholders for sources that are not raster images
	VideoPlaceholder string `yaml:"video_placeholder"`
	FilePlaceholder  string `yaml:"file_placeholder"`

	// ExtensionsFile is an optional YAML map of content type to extension
	// merged over the built-in table
	ExtensionsFile string `yaml:"extensions_file"`

	Cache   CacheConfig           `yaml:"cache"`
	Primary StorageBackendConfig  `yaml:"primary"`
	Staging *StorageBackendConfig `yaml:"staging"`
}

// CacheConfig selects the metadata cache
type CacheConfig struct {
	Type        string `yaml:"type"` // "none", "memory", "badger", "postgres"
	Dir         string `yaml:"dir"`  // badger directory; empty for in-memory
	DatabaseURL string `yaml:"database_url"`
	DBSchema    string `yaml:"db_schema"`
}

// StorageBackendConfig represents configuration for a storage backend
type StorageBackendConfig struct {
	Name   string                 `yaml:"name"`
	Type   string                 `yaml:"type"` // "memory", "fs", "s3"
	Config map[string]interface{} `yaml:"config"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.DerivativeRoot == "" {
		return errors.New("derivative_root is required")
	}
	if c.CacheTTL < 0 {
		return errors.New("cache_ttl must not be negative")
	}
	if c.BrowserCache < 0 {
		return errors.New("browser_cache must not be negative")
	}

	switch c.Cache.Type {
	case "none", "memory", "badger":
	case "postgres":
		if c.Cache.DatabaseURL == "" {
			return errors.New("cache database_url is required when using postgres")
		}
	default:
		return fmt.Errorf("unsupported cache type: %s", c.Cache.Type)
	}

	if err := validateBackend("primary", c.Primary); err != nil {
		return err
	}
	if c.Staging != nil {
		if err := validateBackend("staging", *c.Staging); err != nil {
			return err
		}
	}
	return nil
}

func validateBackend(role string, b StorageBackendConfig) error {
	switch b.Type {
	case "memory":
		return nil
	case "fs":
		if getString(b.Config, "base_dir", "") == "" {
			return fmt.Errorf("%s storage: base_dir is required for fs", role)
		}
		return nil
	case "s3":
		if getString(b.Config, "bucket", "") == "" {
			return fmt.Errorf("%s storage: bucket is required for s3", role)
		}
		return nil
	default:
		return fmt.Errorf("%s storage: unsupported backend type: %s", role, b.Type)
	}
}

func getString(config map[string]interface{}, key string, defaultValue string) string {
	if value, exists := config[key]; exists {
		if str, ok := value.(string); ok {
			return str
		}
	}
	return defaultValue
}

func getBool(config map[string]interface{}, key string, defaultValue bool) bool {
	if value, exists := config[key]; exists {
		if b, ok := value.(bool); ok {
			return b
		}
		if str, ok := value.(string); ok {
			if b, err := strconv.ParseBool(str); err == nil {
				return b
			}
		}
	}
	return defaultValue
}
