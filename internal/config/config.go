package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the console's runtime settings.
type Config struct {
	APIBase        string
	LogDir         string
	LogLevel       string
	RequestTimeout time.Duration
	PageSize       int
}

const (
	defaultConfigPath     = "~/.config/librarian/config.toml"
	defaultLogDir         = "~/.local/share/librarian/logs"
	defaultAPIBase        = "http://localhost:8082"
	defaultLogLevel       = "info"
	defaultRequestTimeout = 10 * time.Second
	defaultPageSize       = 10

	logFileName = "librarian.log"
)

// fileConfig is the on-disk shape. Environment variables override file values.
type fileConfig struct {
	APIBase        string `toml:"api_base" env:"LIBRARIAN_API_BASE"`
	LogDir         string `toml:"log_dir" env:"LIBRARIAN_LOG_DIR"`
	LogLevel       string `toml:"log_level" env:"LIBRARIAN_LOG_LEVEL"`
	RequestTimeout string `toml:"request_timeout" env:"LIBRARIAN_REQUEST_TIMEOUT"`
	PageSize       int    `toml:"page_size" env:"LIBRARIAN_PAGE_SIZE"`
}

// Load reads the config file at path (or the default location), applies
// environment overrides and fills defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var raw fileConfig
	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cleanenv.ReadEnv(&raw); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	return raw.resolve()
}

func (raw fileConfig) resolve() (Config, error) {
	cfg := Config{
		APIBase:        strings.TrimSpace(raw.APIBase),
		LogDir:         strings.TrimSpace(raw.LogDir),
		LogLevel:       strings.ToLower(strings.TrimSpace(raw.LogLevel)),
		RequestTimeout: defaultRequestTimeout,
		PageSize:       raw.PageSize,
	}
	if cfg.APIBase == "" {
		cfg.APIBase = defaultAPIBase
	}
	if cfg.LogDir == "" {
		cfg.LogDir = defaultLogDir
	}
	cfg.LogDir = mustExpand(cfg.LogDir)

	switch cfg.LogLevel {
	case "":
		cfg.LogLevel = defaultLogLevel
	case "debug", "info", "warn", "error":
	default:
		return Config{}, fmt.Errorf("invalid log_level %q (want debug, info, warn or error)", raw.LogLevel)
	}

	if timeout := strings.TrimSpace(raw.RequestTimeout); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil || d < 0 {
			return Config{}, fmt.Errorf("invalid request_timeout %q", raw.RequestTimeout)
		}
		cfg.RequestTimeout = d
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	return cfg, nil
}

// LogPath returns the console's own log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/" + logFileName)
	}
	return filepath.Join(c.LogDir, logFileName)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
