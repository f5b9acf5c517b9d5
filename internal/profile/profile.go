package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Profile is the configuration to start main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where yotei stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string
	// Timezone is the IANA zone used when a request names none
	Timezone string

	// Parsing Configuration
	BatchLimit    int           // YOTEI_BATCH_LIMIT (default: 4)
	MaxBatchSize  int           // YOTEI_MAX_BATCH_SIZE (default: 100)
	CacheCapacity int           // YOTEI_CACHE_CAPACITY (default: 1000)
	CacheTTL      time.Duration // YOTEI_CACHE_TTL (default: 5m)

	// Rate Limiting Configuration
	RateLimitRPS   float64 // YOTEI_RATE_LIMIT_RPS (default: 10)
	RateLimitBurst int     // YOTEI_RATE_LIMIT_BURST (default: 20)

	// Parse Log Retention Configuration
	ParseLogRetention time.Duration // YOTEI_PARSE_LOG_RETENTION (default: 720h, 0 disables)
	RetentionSchedule string        // YOTEI_RETENTION_SCHEDULE (default: @daily)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}

// FromEnv loads tuning options from YOTEI_* environment variables.
// Unset or malformed values keep their defaults.
func (p *Profile) FromEnv() {
	p.BatchLimit = getIntEnv("YOTEI_BATCH_LIMIT", 4)
	p.MaxBatchSize = getIntEnv("YOTEI_MAX_BATCH_SIZE", 100)
	p.CacheCapacity = getIntEnv("YOTEI_CACHE_CAPACITY", 1000)
	p.CacheTTL = getDurationEnv("YOTEI_CACHE_TTL", 5*time.Minute)

	p.RateLimitRPS = 10
	if v, err := strconv.ParseFloat(os.Getenv("YOTEI_RATE_LIMIT_RPS"), 64); err == nil {
		p.RateLimitRPS = v
	}
	p.RateLimitBurst = getIntEnv("YOTEI_RATE_LIMIT_BURST", 20)

	p.ParseLogRetention = getDurationEnv("YOTEI_PARSE_LOG_RETENTION", 30*24*time.Hour)
	p.RetentionSchedule = getEnvOrDefault("YOTEI_RETENTION_SCHEDULE", "@daily")
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "dev"
	}

	switch p.Driver {
	case "":
		p.Driver = "sqlite"
	case "sqlite", "postgres":
	default:
		return errors.Errorf("unsupported driver %q: only sqlite and postgres are supported", p.Driver)
	}
	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("dsn is required for the postgres driver")
	}

	if p.Timezone != "" {
		if _, err := time.LoadLocation(p.Timezone); err != nil {
			return errors.Wrapf(err, "invalid timezone %q", p.Timezone)
		}
	}
	if p.ParseLogRetention < 0 {
		return errors.New("parse log retention must not be negative")
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "yotei")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/yotei"
		}
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check dsn", slog.String("data", dataDir), slog.String("error", err.Error()))
		return err
	}

	p.Data = dataDir
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("yotei_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}

	return nil
}
