package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the settings roster reads from its TOML file.
type Config struct {
	BaseURL         string        `validate:"required,url"`
	Timeout         time.Duration `validate:"gt=0,lte=5m"`
	LogFile         string
	Debug           bool
	ReconcileCreate bool
}

const (
	defaultConfigPath = "~/.config/roster/config.toml"
	defaultLogFile    = "~/.local/state/roster/roster.log"
	defaultBaseURL    = "https://jsonplaceholder.typicode.com"
	defaultTimeout    = 5 * time.Second
)

var validate = validator.New()

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		BaseURL: defaultBaseURL,
		Timeout: defaultTimeout,
		LogFile: mustExpand(defaultLogFile),
	}
}

// Load locates and parses the roster config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		BaseURL         string  `toml:"base_url"`
		Timeout         string  `toml:"timeout"`
		LogFile         *string `toml:"log_file"`
		Debug           bool    `toml:"debug"`
		ReconcileCreate bool    `toml:"reconcile_create"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if baseURL := NormalizeBaseURL(raw.BaseURL); baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if timeout := strings.TrimSpace(raw.Timeout); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse config: timeout %q: %w", timeout, err)
		}
		cfg.Timeout = d
	}
	// An explicitly empty log_file turns logging off.
	if raw.LogFile != nil {
		cfg.LogFile = ""
		if logFile := strings.TrimSpace(*raw.LogFile); logFile != "" {
			cfg.LogFile = mustExpand(logFile)
		}
	}
	cfg.Debug = raw.Debug
	cfg.ReconcileCreate = raw.ReconcileCreate

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints, reporting every violation at once.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate config: %w", err)
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, formatFieldError(fe))
		}
		return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// NormalizeBaseURL trims raw and assumes http:// when no scheme is given.
// Blank input stays blank.
func NormalizeBaseURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.Contains(trimmed, "://") {
		return trimmed
	}
	return "http://" + trimmed
}

func formatFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "url":
		return fmt.Sprintf("%s must be an absolute url", field)
	case "gt":
		return fmt.Sprintf("%s must be positive", field)
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
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
