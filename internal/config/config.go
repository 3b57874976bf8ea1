// Package config loads the neonpm configuration file and environment overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"neonpm/internal/core"
	"neonpm/internal/kv"
)

// Config is the root configuration document.
type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	IDs      IDsConfig      `yaml:"ids"`
	Meetings MeetingsConfig `yaml:"meetings"`
	API      APIConfig      `yaml:"api"`
	Log      LogConfig      `yaml:"log"`
}

// StorageConfig selects the key-value backend holding the record document.
type StorageConfig struct {
	Driver      string   `yaml:"driver"`       // fs|sqlite|postgres|s3|memory (default: fs)
	Key         string   `yaml:"key"`          // document key (default: neonpm-data)
	FSRoot      string   `yaml:"fs_root"`      // fs driver directory (default: ./neonpm-data)
	SQLitePath  string   `yaml:"sqlite_path"`  // sqlite driver file (default: neonpm.db)
	PostgresDSN string   `yaml:"postgres_dsn"` // required for postgres
	S3          S3Config `yaml:"s3"`
	StrictLoad  bool     `yaml:"strict_load"` // fail instead of falling back to seed on a corrupt document
}

// S3Config configures the S3 driver. Credentials come from the AWS default
// chain unless the NEONPM_S3_ACCESS_KEY_ID pair is set.
type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	PathStyle bool   `yaml:"path_style"`
	Prefix    string `yaml:"prefix"`

	AccessKeyID     string `yaml:"-"`
	SecretAccessKey string `yaml:"-"`
}

// IDsConfig selects the record id generator.
type IDsConfig struct {
	Strategy string `yaml:"strategy"` // short|uuid (default: short)
}

// MeetingsConfig holds meeting defaults.
type MeetingsConfig struct {
	LinkBase string `yaml:"link_base"`
}

// APIConfig configures the HTTP server.
type APIConfig struct {
	Address   string  `yaml:"address"`    // listen address (default: :8080)
	RateLimit float64 `yaml:"rate_limit"` // requests per second, 0 disables
	Burst     int     `yaml:"burst"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug|info|warn|error (default: info)
	Format string `yaml:"format"` // text|json (default: text)
}

// Load reads path when non-empty, applies NEONPM_* environment overrides,
// fills defaults and validates the result.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// Default returns a configuration with default values.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

func (c *Config) setDefaults() {
	if c.Storage.Driver == "" {
		c.Storage.Driver = string(kv.DriverFilesystem)
	}
	if c.Storage.FSRoot == "" {
		c.Storage.FSRoot = "./neonpm-data"
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = "neonpm.db"
	}
	if c.Storage.S3.Region == "" {
		c.Storage.S3.Region = "us-east-1"
	}
	if c.IDs.Strategy == "" {
		c.IDs.Strategy = "short"
	}
	if c.Meetings.LinkBase == "" {
		c.Meetings.LinkBase = core.DefaultMeetingLinkBase
	}
	if c.API.Address == "" {
		c.API.Address = ":8080"
	}
	if c.API.RateLimit > 0 && c.API.Burst <= 0 {
		c.API.Burst = int(c.API.RateLimit) + 1
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch kv.Driver(c.Storage.Driver) {
	case kv.DriverFilesystem, kv.DriverSQLite, kv.DriverMemory:
	case kv.DriverPostgres:
		if c.Storage.PostgresDSN == "" {
			return errors.New("storage.postgres_dsn is required for the postgres driver")
		}
	case kv.DriverS3:
		if c.Storage.S3.Bucket == "" {
			return errors.New("storage.s3.bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("storage.driver %q is not supported", c.Storage.Driver)
	}
	switch c.IDs.Strategy {
	case "short", "uuid":
	default:
		return fmt.Errorf("ids.strategy %q is not supported", c.IDs.Strategy)
	}
	if c.API.RateLimit < 0 {
		return errors.New("api.rate_limit must not be negative")
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format %q is not supported", c.Log.Format)
	}
	return nil
}

// StorageOptions maps the storage section onto the service storage options.
func (c *Config) StorageOptions() core.StorageConfig {
	kvCfg := kv.Config{Driver: kv.Driver(c.Storage.Driver)}
	switch kvCfg.Driver {
	case kv.DriverFilesystem:
		kvCfg.Path = c.Storage.FSRoot
	case kv.DriverSQLite:
		kvCfg.Path = c.Storage.SQLitePath
	case kv.DriverPostgres:
		kvCfg.DSN = c.Storage.PostgresDSN
	case kv.DriverS3:
		kvCfg.S3 = kv.S3Config{
			Region:          c.Storage.S3.Region,
			Bucket:          c.Storage.S3.Bucket,
			Prefix:          c.Storage.S3.Prefix,
			Endpoint:        c.Storage.S3.Endpoint,
			PathStyle:       c.Storage.S3.PathStyle,
			AccessKeyID:     c.Storage.S3.AccessKeyID,
			SecretAccessKey: c.Storage.S3.SecretAccessKey,
		}
	}
	return core.StorageConfig{
		KV:         kvCfg,
		Key:        c.Storage.Key,
		StrictLoad: c.Storage.StrictLoad,
		IDStrategy: c.IDs.Strategy,
	}
}

// SlogLevel parses the configured level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level %q is not supported", l.Level)
	}
	return level, nil
}

type lookupFunc func(string) (string, bool)

// applyEnv overlays NEONPM_* variables on the file values.
func (c *Config) applyEnv(lookup lookupFunc) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	boolean := func(name string, dst *bool) error {
		v, ok := lookup(name)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*dst = b
		return nil
	}

	str("NEONPM_STORAGE_DRIVER", &c.Storage.Driver)
	str("NEONPM_STORAGE_KEY", &c.Storage.Key)
	str("NEONPM_FS_ROOT", &c.Storage.FSRoot)
	str("NEONPM_SQLITE_PATH", &c.Storage.SQLitePath)
	str("NEONPM_POSTGRES_DSN", &c.Storage.PostgresDSN)
	str("NEONPM_S3_BUCKET", &c.Storage.S3.Bucket)
	str("NEONPM_S3_REGION", &c.Storage.S3.Region)
	str("NEONPM_S3_ENDPOINT", &c.Storage.S3.Endpoint)
	str("NEONPM_S3_PREFIX", &c.Storage.S3.Prefix)
	str("NEONPM_S3_ACCESS_KEY_ID", &c.Storage.S3.AccessKeyID)
	str("NEONPM_S3_SECRET_ACCESS_KEY", &c.Storage.S3.SecretAccessKey)
	str("NEONPM_ID_STRATEGY", &c.IDs.Strategy)
	str("NEONPM_MEETING_LINK_BASE", &c.Meetings.LinkBase)
	str("NEONPM_API_ADDRESS", &c.API.Address)
	str("NEONPM_LOG_LEVEL", &c.Log.Level)
	str("NEONPM_LOG_FORMAT", &c.Log.Format)
	if err := boolean("NEONPM_S3_PATH_STYLE", &c.Storage.S3.PathStyle); err != nil {
		return err
	}
	if err := boolean("NEONPM_STRICT_LOAD", &c.Storage.StrictLoad); err != nil {
		return err
	}
	if v, ok := lookup("NEONPM_API_RATE_LIMIT"); ok {
		rate, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("NEONPM_API_RATE_LIMIT: %w", err)
		}
		c.API.RateLimit = rate
	}
	return nil
}
