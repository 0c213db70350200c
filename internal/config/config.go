package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
)

type Config struct {
	Server struct {
		Host         string `json:"host"`
		Port         int    `json:"port"`
		JWTSecret    string `json:"jwtSecret"`
		ClientOrigin string `json:"clientOrigin"`
	} `json:"server"`
	Postgres struct {
		DSN string `json:"dsn"`
	} `json:"postgres"`
	Redis struct {
		Addr     string `json:"addr"`
		Password string `json:"password"`
		DB       int    `json:"db"`
	} `json:"redis"`
	Upload struct {
		Dir         string `json:"dir"`
		MaxFileSize int64  `json:"maxFileSize"`
	} `json:"upload"`
}

var (
	once   sync.Once
	cfg    *Config
	cfgErr error
)

// LoadConfig reads the JSON config from disk (singleton). Environment
// variables override file values so deployments can keep secrets out of the
// config file: LOANTRACK_JWT_SECRET, LOANTRACK_DB_DSN, LOANTRACK_REDIS_ADDR,
// LOANTRACK_CLIENT_ORIGIN, LOANTRACK_UPLOAD_DIR, LOANTRACK_MAX_FILE_SIZE.
func LoadConfig(path string) (*Config, error) {
	once.Do(func() {
		raw, err := os.ReadFile(path)
		if err != nil {
			cfgErr = fmt.Errorf("failed to read config file: %w", err)
			return
		}
		var c Config
		if err := json.Unmarshal(raw, &c); err != nil {
			cfgErr = fmt.Errorf("invalid config format: %w", err)
			return
		}
		applyEnv(&c)
		applyDefaults(&c)
		if c.Server.JWTSecret == "" {
			cfgErr = errors.New("jwtSecret must be set in config")
			return
		}
		cfg = &c
	})
	return cfg, cfgErr
}

func applyEnv(c *Config) {
	if v := os.Getenv("LOANTRACK_JWT_SECRET"); v != "" {
		c.Server.JWTSecret = v
	}
	if v := os.Getenv("LOANTRACK_DB_DSN"); v != "" {
		c.Postgres.DSN = v
	}
	if v := os.Getenv("LOANTRACK_REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("LOANTRACK_CLIENT_ORIGIN"); v != "" {
		c.Server.ClientOrigin = v
	}
	if v := os.Getenv("LOANTRACK_UPLOAD_DIR"); v != "" {
		c.Upload.Dir = v
	}
	if v := os.Getenv("LOANTRACK_MAX_FILE_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			c.Upload.MaxFileSize = n
		}
	}
}

func applyDefaults(c *Config) {
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if c.Upload.Dir == "" {
		c.Upload.Dir = "./uploads"
	}
	if c.Upload.MaxFileSize == 0 {
		c.Upload.MaxFileSize = 5 * 1024 * 1024
	}
}

// GetConfig returns the loaded config (must call LoadConfig first)
func GetConfig() *Config {
	return cfg
}

// ResetConfigForTest resets the singleton state (for testing only)
func ResetConfigForTest() {
	once = sync.Once{}
	cfg = nil
	cfgErr = nil
}
