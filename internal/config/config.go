package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "ATLAS_CONFIG"

// DefaultPath is used when EnvConfigPath is unset.
const DefaultPath = "config/atlas.yaml"

// Atlas holds all configuration for the atlas host and tools.
type Atlas struct {
	// Dataset file or directory; ignored when Database.Enabled.
	DatasetPath string `yaml:"dataset_path"`

	// Logging
	LogLevel  string `yaml:"log_level"`  // debug, info, warn, error
	LogFormat string `yaml:"log_format"` // text or json

	HTTP     HTTPConfig     `yaml:"http"`
	Render   RenderConfig   `yaml:"render"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	GeoIP    GeoIPConfig    `yaml:"geoip"`
}

// HTTPConfig is the API listener.
type HTTPConfig struct {
	BindAddress     string        `yaml:"bind_address"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Addr returns host:port for net.Listen.
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.BindAddress, h.Port)
}

// RenderConfig bounds render requests.
type RenderConfig struct {
	DefaultQuality string `yaml:"default_quality"`
	MaxWidth       int    `yaml:"max_width"`
	MaxHeight      int    `yaml:"max_height"`
	Workers        int    `yaml:"workers"` // 0 = GOMAXPROCS
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// RedisConfig configures the render cache.
type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// GeoIPConfig points at a GeoLite2/GeoIP2 City database. Empty disables lookups.
type GeoIPConfig struct {
	Path string `yaml:"path"`
}

// DefaultAtlas returns Atlas config with sensible defaults.
func DefaultAtlas() Atlas {
	return Atlas{
		DatasetPath: "data/locations",
		LogLevel:    "info",
		LogFormat:   "text",
		HTTP: HTTPConfig{
			BindAddress:     "0.0.0.0",
			Port:            8080,
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Render: RenderConfig{
			DefaultQuality: "sextant",
			MaxWidth:       240,
			MaxHeight:      100,
		},
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "atlas",
			Password: "atlas",
			DBName:   "atlas",
			SSLMode:  "disable",
		},
		Redis: RedisConfig{
			Addr: "127.0.0.1:6379",
			TTL:  10 * time.Minute,
		},
	}
}

// Validate checks values that would otherwise fail later at runtime.
func (a Atlas) Validate() error {
	if a.HTTP.Port <= 0 || a.HTTP.Port > 65535 {
		return fmt.Errorf("http.port %d out of range", a.HTTP.Port)
	}
	if a.Render.MaxWidth <= 0 || a.Render.MaxHeight <= 0 {
		return fmt.Errorf("render max size %dx%d must be positive", a.Render.MaxWidth, a.Render.MaxHeight)
	}
	if a.Render.Workers < 0 {
		return fmt.Errorf("render.workers %d must not be negative", a.Render.Workers)
	}
	if !a.Database.Enabled && a.DatasetPath == "" {
		return fmt.Errorf("dataset_path is required when database is disabled")
	}
	switch a.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format %q: want text or json", a.LogFormat)
	}
	return nil
}

// PathFromEnv returns $ATLAS_CONFIG or DefaultPath.
func PathFromEnv() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return DefaultPath
}

// LoadAtlas loads config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadAtlas(path string) (Atlas, error) {
	cfg := DefaultAtlas()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}
