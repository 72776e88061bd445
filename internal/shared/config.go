package shared

import (
	_ "embed"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file,
// optionally overridden by DEVLIST_* environment variables (a .env file in
// the working directory is honored).
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Mongo    MongoConfig    `toml:"mongo"`
	Server   ServerConfig   `toml:"server"`
	Client   ClientConfig   `toml:"client"`
}

// DatabaseConfig contains store selection and SQLite connection settings.
//
// Driver is one of "sqlite", "memory", or "mongo".
type DatabaseConfig struct {
	Driver       string `toml:"driver"`
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// MongoConfig contains settings for the MongoDB-backed store.
type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host      string  `toml:"host"`
	Port      int     `toml:"port"`
	RateLimit float64 `toml:"rate_limit"`
	RateBurst int     `toml:"rate_burst"`
}

// ClientConfig contains settings for CLI/TUI clients.
type ClientConfig struct {
	TokenPath string `toml:"token_path"`
	RemoteURL string `toml:"remote_url"`
}

// Addr returns the host:port pair the HTTP server binds to.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// LoadConfig reads and parses a TOML configuration file from the specified path,
// then applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	config.applyEnv()
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyEnv()
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyEnv loads a .env file if present and overrides config fields from
// DEVLIST_* environment variables.
func (c *Config) applyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("DEVLIST_DB_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("DEVLIST_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("DEVLIST_MONGO_URI"); v != "" {
		c.Mongo.URI = v
	}
	if v := os.Getenv("DEVLIST_MONGO_DB"); v != "" {
		c.Mongo.Database = v
	}
	if v := os.Getenv("DEVLIST_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("DEVLIST_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("DEVLIST_TOKEN_PATH"); v != "" {
		c.Client.TokenPath = v
	}
	if v := os.Getenv("DEVLIST_REMOTE_URL"); v != "" {
		c.Client.RemoteURL = v
	}
}
