// Package config loads service configuration from defaults, an optional
// config file, an optional .env file and MENUDOC_ environment variables,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/tsawler/menudoc/layout"
)

// EnvPrefix is prepended to every environment variable, e.g.
// MENUDOC_HTTP_ADDR for http.addr
const EnvPrefix = "MENUDOC"

// Config is the service configuration
type Config struct {
	HTTP     HTTPConfig     `mapstructure:"http"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Store    StoreConfig    `mapstructure:"store"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Images   ImagesConfig   `mapstructure:"images"`
	S3       S3Config       `mapstructure:"s3"`
	Share    ShareConfig    `mapstructure:"share"`
	Layout   LayoutConfig   `mapstructure:"layout"`
}

type HTTPConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// DatabaseConfig selects the PostgreSQL store. An empty DSN selects the
// memory store.
type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

type StoreConfig struct {
	Snapshot string `mapstructure:"snapshot"` // memory store snapshot file
}

// RedisConfig selects the Redis export cache. An empty Addr selects the
// in-memory cache.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CacheConfig struct {
	TTL    time.Duration `mapstructure:"ttl"` // zero disables caching
	Shards int           `mapstructure:"shards"`
}

type ImagesConfig struct {
	Timeout  time.Duration `mapstructure:"timeout"`
	Workers  int           `mapstructure:"workers"`
	MaxBytes int64         `mapstructure:"max_bytes"`
	Root     string        `mapstructure:"root"` // directory served for file: refs
}

type S3Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	PathStyle bool   `mapstructure:"path_style"`
}

type ShareConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// LayoutConfig picks the page geometry. Zero values keep the defaults of
// the chosen page.
type LayoutConfig struct {
	Page       string  `mapstructure:"page"` // a4 or letter
	Margin     float64 `mapstructure:"margin"`
	LineHeight float64 `mapstructure:"line_height"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 60*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("database.dsn", "")
	v.SetDefault("store.snapshot", "")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("cache.ttl", 15*time.Minute)
	v.SetDefault("cache.shards", 16)

	v.SetDefault("images.timeout", 5*time.Second)
	v.SetDefault("images.workers", 4)
	v.SetDefault("images.max_bytes", 10<<20)
	v.SetDefault("images.root", "")

	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("s3.path_style", true)

	v.SetDefault("share.base_url", "http://localhost:8080")

	v.SetDefault("layout.page", "a4")
	v.SetDefault("layout.margin", 0)
	v.SetDefault("layout.line_height", 0)
}

// Load reads configuration. configFile may be empty; a .env file in the
// working directory is loaded when present.
func Load(configFile string) (*Config, error) {
	return load(configFile, ".env")
}

func load(configFile, envFile string) (*Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, fmt.Errorf("config: loading %s: %w", envFile, err)
			}
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid setting
func (c *Config) Validate() error {
	var errs []error
	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("http.addr is required"))
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		errs = append(errs, fmt.Errorf("log.format must be json or console, got %q", c.Log.Format))
	}
	if c.Images.Timeout <= 0 {
		errs = append(errs, errors.New("images.timeout must be positive"))
	}
	if c.Images.Workers < 1 {
		errs = append(errs, errors.New("images.workers must be at least 1"))
	}
	if c.Images.MaxBytes <= 0 {
		errs = append(errs, errors.New("images.max_bytes must be positive"))
	}
	if c.Cache.TTL < 0 {
		errs = append(errs, errors.New("cache.ttl must not be negative"))
	}
	if c.Cache.Shards < 1 {
		errs = append(errs, errors.New("cache.shards must be at least 1"))
	}
	if _, err := c.Geometry(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Geometry returns the page geometry described by the layout settings
func (c *Config) Geometry() (layout.Geometry, error) {
	var g layout.Geometry
	switch strings.ToLower(c.Layout.Page) {
	case "", "a4":
		g = layout.DefaultGeometry()
	case "letter":
		g = layout.LetterGeometry()
	default:
		return g, fmt.Errorf("layout.page must be a4 or letter, got %q", c.Layout.Page)
	}
	if c.Layout.Margin > 0 {
		g.Margin = c.Layout.Margin
	}
	if c.Layout.LineHeight > 0 {
		g.LineHeight = c.Layout.LineHeight
	}
	if err := g.Validate(); err != nil {
		return g, fmt.Errorf("layout: %w", err)
	}
	return g, nil
}

// String renders the configuration with secrets masked
func (c *Config) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "http.addr=%s log.level=%s log.format=%s\n", c.HTTP.Addr, c.Log.Level, c.Log.Format)
	fmt.Fprintf(&sb, "database.dsn=%s store.snapshot=%s\n", mask(c.Database.DSN), c.Store.Snapshot)
	fmt.Fprintf(&sb, "redis.addr=%s redis.password=%s cache.ttl=%s\n", c.Redis.Addr, mask(c.Redis.Password), c.Cache.TTL)
	fmt.Fprintf(&sb, "images.timeout=%s images.workers=%d images.max_bytes=%d images.root=%s\n",
		c.Images.Timeout, c.Images.Workers, c.Images.MaxBytes, c.Images.Root)
	fmt.Fprintf(&sb, "s3.endpoint=%s s3.access_key=%s s3.secret_key=%s\n", c.S3.Endpoint, mask(c.S3.AccessKey), mask(c.S3.SecretKey))
	fmt.Fprintf(&sb, "share.base_url=%s layout.page=%s", c.Share.BaseURL, c.Layout.Page)
	return sb.String()
}

func mask(s string) string {
	if s == "" {
		return "(empty)"
	}
	return "********"
}
