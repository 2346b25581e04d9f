package main

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/shuliakovsky/wg-endpoints/pkg/config"
	"github.com/shuliakovsky/wg-endpoints/pkg/refresher"
	"github.com/shuliakovsky/wg-endpoints/pkg/status"
)

type appConfig struct {
	WGCommand       string
	Source          string
	Interface       string
	RefreshInterval string
	FetchTimeout    string
	TemplatesDir    string
	Host            string
	Port            string
	MaxConns        int
	ReadTimeout     string
	WriteTimeout    string
	ShutdownTimeout string
	LogLevel        string
	ConfigFile      string
}

// loadDotEnv preloads variables from ENV_FILE (default .env). Variables that
// are already set win.
func loadDotEnv() error {
	err := godotenv.Load(getEnv("ENV_FILE", ".env"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func loadConfig() appConfig {
	maxConns, _ := strconv.Atoi(getEnv("MAX_CONNS", "0"))
	return appConfig{
		WGCommand:       getEnv("WG_COMMAND", status.DefaultCommand),
		Source:          getEnv("WG_SOURCE", "command"),
		Interface:       getEnv("WG_INTERFACE", ""),
		RefreshInterval: getEnv("REFRESH_INTERVAL", refresher.DefaultInterval.String()),
		FetchTimeout:    getEnv("FETCH_TIMEOUT", "5s"),
		TemplatesDir:    getEnv("TEMPLATES_DIR", "templates"),
		Host:            getEnv("SERVER_HOST", "0.0.0.0"),
		Port:            getEnv("SERVER_PORT", "8080"),
		MaxConns:        maxConns,
		ReadTimeout:     getEnv("READ_TIMEOUT", "10s"),
		WriteTimeout:    getEnv("WRITE_TIMEOUT", "10s"),
		ShutdownTimeout: getEnv("SHUTDOWN_TIMEOUT", "10s"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ConfigFile:      getEnv("CONFIG_FILE", ""),
	}
}

// applyConfigFile overlays non-empty values from CONFIG_FILE.
func applyConfigFile(cfg appConfig, logger *zap.Logger) appConfig {
	if cfg.ConfigFile == "" {
		return cfg
	}
	f, err := config.Load(cfg.ConfigFile, logger)
	if err != nil {
		logger.Fatal("config_load_error", zap.String("file", cfg.ConfigFile), zap.Error(err))
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.WGCommand, f.WGCommand)
	set(&cfg.Source, f.Source)
	set(&cfg.Interface, f.Interface)
	set(&cfg.RefreshInterval, f.RefreshInterval)
	set(&cfg.FetchTimeout, f.FetchTimeout)
	set(&cfg.TemplatesDir, f.TemplatesDir)
	set(&cfg.Host, f.Host)
	set(&cfg.Port, f.Port)
	set(&cfg.LogLevel, f.LogLevel)
	if f.MaxConns > 0 {
		cfg.MaxConns = f.MaxConns
	}
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// duration parses v, falling back to def with a warning when v is invalid.
func duration(name, v string, def time.Duration, logger *zap.Logger) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		logger.Warn("invalid duration, using default",
			zap.String("setting", name),
			zap.String("value", v),
			zap.Duration("default", def))
		return def
	}
	return d
}
