package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server  ServerConfig
	Data    DataConfig
	Maps    MapsConfig
	Charts  ChartsConfig
	Worker  WorkerConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	RateLimitRPS int
}

type DataConfig struct {
	Source       string // "xlsx" or "sqlite"
	BinaryPath   string
	BinarySheet  string
	NdviPath     string
	NdviSheet    string
	SQLitePath   string
	CriteriaPath string // empty uses the built-in criteria
}

type MapsConfig struct {
	Dir       string
	Elevation string
}

type ChartsConfig struct {
	Warmup   bool
	CacheTTL time.Duration // 0 keeps rendered charts for the process lifetime
}

type WorkerConfig struct {
	Count      int
	BufferSize int
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "localhost"),
			Port:         getEnvInt("SERVER_PORT", 8080),
			RateLimitRPS: getEnvInt("RATE_LIMIT_RPS", 20),
		},
		Data: DataConfig{
			Source:       getEnv("DATA_SOURCE", "xlsx"),
			BinaryPath:   getEnv("BINARY_XLSX_PATH", "data/suit_binary.xlsx"),
			BinarySheet:  getEnv("BINARY_SHEET", ""),
			NdviPath:     getEnv("NDVI_XLSX_PATH", "data/Suitability_pasture_ha.xlsx"),
			NdviSheet:    getEnv("NDVI_SHEET", ""),
			SQLitePath:   getEnv("SQLITE_PATH", "data/suitability.db"),
			CriteriaPath: getEnv("CRITERIA_PATH", ""),
		},
		Maps: MapsConfig{
			Dir:       getEnv("MAPS_DIR", "maps"),
			Elevation: getEnv("ELEVATION_MAP", "elev_qarabagh_suit.jpg"),
		},
		Charts: ChartsConfig{
			Warmup:   getEnvBool("CHART_WARMUP", true),
			CacheTTL: getEnvDuration("CHART_CACHE_TTL", 0),
		},
		Worker: WorkerConfig{
			Count:      getEnvInt("WORKER_COUNT", 2),
			BufferSize: getEnvInt("WORKER_BUFFER_SIZE", 20),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.RateLimitRPS < 1 {
		return fmt.Errorf("rate limit must be at least 1 req/s, got %d", c.Server.RateLimitRPS)
	}

	switch c.Data.Source {
	case "xlsx":
		if c.Data.BinaryPath == "" || c.Data.NdviPath == "" {
			return fmt.Errorf("both spreadsheet paths are required for the xlsx source")
		}
	case "sqlite":
		if c.Data.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite source")
		}
	default:
		return fmt.Errorf("invalid data source: %s", c.Data.Source)
	}

	if c.Worker.Count < 1 {
		return fmt.Errorf("worker count must be at least 1, got %d", c.Worker.Count)
	}
	if c.Charts.CacheTTL < 0 {
		return fmt.Errorf("chart cache ttl must not be negative")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
