// Package config loads desktop-pilot settings from defaults, a YAML file,
// a .env file and the environment, in increasing order of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Transport selects how the dispatcher is exposed.
type Transport string

const (
	// TransportHTTP serves the JSON HTTP endpoints.
	TransportHTTP Transport = "http"
	// TransportMCPStdio serves MCP tools over stdin/stdout.
	TransportMCPStdio Transport = "mcp-stdio"
	// TransportMCPHTTP serves MCP tools over streamable HTTP.
	TransportMCPHTTP Transport = "mcp-http"
)

// Config holds all runtime settings.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Capture       CaptureConfig       `yaml:"capture"`
	Input         InputConfig         `yaml:"input"`
	Windows       WindowsConfig       `yaml:"windows"`
	Accessibility AccessibilityConfig `yaml:"accessibility"`
	Execute       ExecuteConfig       `yaml:"execute"`
	Log           LogConfig           `yaml:"log"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	Transport    Transport     `yaml:"transport"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type CaptureConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	JPEGQuality   int           `yaml:"jpeg_quality"`
	FrameInterval time.Duration `yaml:"frame_interval"`
}

type InputConfig struct {
	// PasteSettle is the delay between staging the clipboard and sending
	// the paste shortcut.
	PasteSettle time.Duration `yaml:"paste_settle"`
}

type WindowsConfig struct {
	// MinOwnerPID hides windows of processes below this id.
	MinOwnerPID int `yaml:"min_owner_pid"`
}

type AccessibilityConfig struct {
	MaxDepth int `yaml:"max_depth"`
}

type ExecuteConfig struct {
	Enabled bool          `yaml:"enabled"`
	Timeout time.Duration `yaml:"timeout"`
	Dir     string        `yaml:"dir"`
	// Env entries (KEY=VALUE) are added to the inherited environment.
	Env     []string      `yaml:"env"`
}

type LogConfig struct {
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
	NoColor bool   `yaml:"no_color"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8080",
			Transport:    TransportHTTP,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Capture: CaptureConfig{
			Timeout:       3 * time.Second,
			JPEGQuality:   90,
			FrameInterval: 33 * time.Millisecond,
		},
		Input:         InputConfig{PasteSettle: 500 * time.Millisecond},
		Windows:       WindowsConfig{MinOwnerPID: 1000},
		Accessibility: AccessibilityConfig{MaxDepth: 64},
		Execute:       ExecuteConfig{Enabled: true},
		Log:           LogConfig{Level: "info", Format: "text"},
	}
}

// DefaultPath is ~/.desktop-pilot/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".desktop-pilot", "config.yaml")
}

// Load builds a Config. An empty path reads DefaultPath if it exists; an
// explicit path must exist.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := cfg.decode(data); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(c)
}

func (c *Config) applyEnv() error {
	c.Server.Addr = getEnv("PILOT_ADDR", c.Server.Addr)
	c.Server.Transport = Transport(getEnv("PILOT_TRANSPORT", string(c.Server.Transport)))
	c.Log.Level = getEnv("PILOT_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("PILOT_LOG_FORMAT", c.Log.Format)
	// NO_COLOR disables colour for any non-empty value.
	if os.Getenv("NO_COLOR") != "" {
		c.Log.NoColor = true
	}
	c.Execute.Enabled = getEnvAsBool("PILOT_EXECUTE_ENABLED", c.Execute.Enabled)

	var err error
	if c.Capture.Timeout, err = getEnvAsDuration("PILOT_CAPTURE_TIMEOUT", c.Capture.Timeout); err != nil {
		return err
	}
	if c.Input.PasteSettle, err = getEnvAsDuration("PILOT_PASTE_SETTLE", c.Input.PasteSettle); err != nil {
		return err
	}
	if c.Windows.MinOwnerPID, err = getEnvAsInt("PILOT_MIN_OWNER_PID", c.Windows.MinOwnerPID); err != nil {
		return err
	}
	if c.Accessibility.MaxDepth, err = getEnvAsInt("PILOT_TREE_MAX_DEPTH", c.Accessibility.MaxDepth); err != nil {
		return err
	}
	return nil
}

// Validate rejects settings the rest of the program cannot honor.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, fmt.Errorf("server.addr cannot be empty"))
	}
	switch c.Server.Transport {
	case TransportHTTP, TransportMCPStdio, TransportMCPHTTP:
	default:
		errs = append(errs, fmt.Errorf("invalid transport %q (use http, mcp-stdio, or mcp-http)", c.Server.Transport))
	}
	if c.Capture.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("capture.timeout must be positive, got %s", c.Capture.Timeout))
	}
	if c.Capture.JPEGQuality < 1 || c.Capture.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("capture.jpeg_quality must be in 1..100, got %d", c.Capture.JPEGQuality))
	}
	if c.Capture.FrameInterval < 0 {
		errs = append(errs, fmt.Errorf("capture.frame_interval cannot be negative"))
	}
	if c.Input.PasteSettle < 0 {
		errs = append(errs, fmt.Errorf("input.paste_settle cannot be negative"))
	}
	if c.Windows.MinOwnerPID < 0 {
		errs = append(errs, fmt.Errorf("windows.min_owner_pid cannot be negative"))
	}
	if c.Accessibility.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("accessibility.max_depth cannot be negative"))
	}
	if c.Execute.Timeout < 0 {
		errs = append(errs, fmt.Errorf("execute.timeout cannot be negative"))
	}
	for _, kv := range c.Execute.Env {
		if k, _, ok := strings.Cut(kv, "="); !ok || k == "" {
			errs = append(errs, fmt.Errorf("execute.env entry %q must be KEY=VALUE", kv))
		}
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid log format %q (use text or json)", c.Log.Format))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	var result int
	if _, err := fmt.Sscanf(value, "%d", &result); err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q (expected integer)", key, value)
	}
	return result, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q (expected duration, e.g., '3s', '500ms')", key, value)
	}
	return d, nil
}
