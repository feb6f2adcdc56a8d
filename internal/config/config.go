package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL         string `json:"api_base_url"`
	DataDir            string `json:"data_dir"`
	HTTPTimeoutSeconds int    `json:"http_timeout_seconds"`
}

func Default() Config {
	return Config{APIBaseURL: "http://localhost:4001/api", HTTPTimeoutSeconds: 15}
}

func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "taskflow", "config.json"), nil
}

func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

// Load reads the config file, then applies .env / environment overrides.
// A missing file yields the defaults.
func Load(path string) (Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return Config{}, err
		}
	} else if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	_ = godotenv.Load()
	config.APIBaseURL = getEnv("TASKFLOW_API_URL", config.APIBaseURL)
	config.DataDir = getEnv("TASKFLOW_DATA_DIR", config.DataDir)
	if value := os.Getenv("TASKFLOW_HTTP_TIMEOUT"); value != "" {
		seconds, err := strconv.Atoi(value)
		if err != nil {
			return Config{}, fmt.Errorf("parse TASKFLOW_HTTP_TIMEOUT: %w", err)
		}
		config.HTTPTimeoutSeconds = seconds
	}

	if config.DataDir == "" {
		config.DataDir = filepath.Dir(path)
	}

	return config, nil
}

func Save(path string, cfg Config) error {
	if err := EnsureDir(path); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
