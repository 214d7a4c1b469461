// Package config loads runtime settings from the environment and the API
// key from its file. There is no hidden global state: Load runs once in
// main and the struct is passed to the constructors that need it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr     string `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath       string `env:"DB_PATH" envDefault:"/data/warranty.db"`
	APIKeyFile   string `env:"API_KEY_FILE" envDefault:"/data/dell_api_key"`
	DellBaseURL  string `env:"DELL_BASE_URL" envDefault:"https://sandbox.api.dell.com/support/assetinfo/v4/getassetwarranty/"`
	ExportPath   string `env:"EXPORT_PATH" envDefault:"/data/ms_warranty_export.csv"`
	EventLogPath string `env:"EVENT_LOG_PATH" envDefault:"/data/warranty_events.log"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// DBDir returns the target directory for DBPath.
func (c Config) DBDir() string {
	return filepath.Dir(c.DBPath)
}

// LoadAPIKey reads the upstream API key file. An unreadable or empty key is
// the one fatal startup condition: the process must not begin serving.
func LoadAPIKey(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read api key file: %w", err)
	}
	key := strings.TrimSpace(string(raw))
	if key == "" {
		return "", fmt.Errorf("api key file %s is empty", path)
	}
	return key, nil
}
