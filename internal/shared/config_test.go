package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Driver != "sqlite" {
			t.Errorf("expected database driver sqlite, got %s", config.Database.Driver)
		}

		if config.Database.Path != "./devlist.db" {
			t.Errorf("expected database path ./devlist.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.Server.RateLimit <= 0 || config.Server.RateBurst <= 0 {
			t.Errorf("expected positive rate limit defaults, got %v/%d", config.Server.RateLimit, config.Server.RateBurst)
		}

		if config.Mongo.Database != "devlist" {
			t.Errorf("expected mongo database devlist, got %s", config.Mongo.Database)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
driver = "memory"
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[server]
host = "0.0.0.0"
port = 8080
rate_limit = 5.0
rate_burst = 10

[client]
token_path = "/custom/token"
remote_url = "http://devlist.example.com"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Driver != "memory" {
			t.Errorf("expected database driver memory, got %s", config.Database.Driver)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}

		if config.Client.RemoteURL != "http://devlist.example.com" {
			t.Errorf("expected remote url http://devlist.example.com, got %s", config.Client.RemoteURL)
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
			t.Error("expected an error for a missing config file")
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("DEVLIST_DB_DRIVER", "memory")
		t.Setenv("DEVLIST_PORT", "9090")
		t.Setenv("DEVLIST_TOKEN_PATH", "/env/token")

		config := DefaultConfig()

		if config.Database.Driver != "memory" {
			t.Errorf("expected env-driven driver memory, got %s", config.Database.Driver)
		}
		if config.Server.Port != 9090 {
			t.Errorf("expected env-driven port 9090, got %d", config.Server.Port)
		}
		if config.Client.TokenPath != "/env/token" {
			t.Errorf("expected env-driven token path /env/token, got %s", config.Client.TokenPath)
		}
	})
}
