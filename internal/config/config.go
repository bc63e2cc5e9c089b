// Package config loads service settings from defaults, an optional
// config.json and the environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/tidwall/jsonc"
)

const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

// Viewport is the browser window used for rendering.
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Size is a named thumbnail size.
type Size struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Config holds every setting the service reads at startup.
type Config struct {
	ViewportSize Viewport `json:"viewportSize"`
	Sizes        []Size   `json:"sizes"`
	// Timeout is the render budget in milliseconds.
	Timeout int    `json:"timeout"`
	Port    int    `json:"port"`
	IP      string `json:"ip"`
	// MaxAge is the cache freshness window in days.
	MaxAge      int    `json:"maxAge"`
	ImgPath     string `json:"imgPath"`
	ServeImgs   bool   `json:"serveImgs"`
	JPEGQuality int    `json:"jpegQuality"`

	CacheBackend string `json:"cacheBackend"`
	CachePath    string `json:"cachePath"`
	CacheDSN     string `json:"cacheDSN"`

	CORS CORS   `json:"cors"`
	Key  string `json:"key"`

	SweepSchedule string `json:"sweepSchedule"`
	// SweepAfter is how old, in minutes, a leftover render must be before
	// the sweeper removes it.
	SweepAfter int `json:"sweepAfter"`
}

// Defaults returns the settings used when nothing overrides them.
func Defaults() *Config {
	return &Config{
		ViewportSize: Viewport{Width: 1024, Height: 768},
		Sizes: []Size{
			{Name: "large", Width: 500, Height: 375},
			{Name: "medium", Width: 300, Height: 225},
			{Name: "small", Width: 200, Height: 150},
			{Name: "tiny", Width: 100, Height: 75},
		},
		Timeout:       10000,
		Port:          5050,
		MaxAge:        30,
		ImgPath:       "./imgs",
		ServeImgs:     true,
		JPEGQuality:   90,
		CacheBackend:  BackendSQLite,
		CachePath:     "./cache.db",
		SweepSchedule: "@every 1h",
		SweepAfter:    60,
	}
}

// Load builds the configuration: defaults, then the JSON file at path if it
// exists, then .env and process environment.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
			return nil, fmt.Errorf("could not parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}

	// A missing .env is normal outside development.
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	for _, name := range []string{"OPENSHIFT_NODEJS_PORT", "PORT"} {
		if v := os.Getenv(name); v != "" {
			port, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s %q: %w", name, v, err)
			}
			c.Port = port
			break
		}
	}

	if v := os.Getenv("OPENSHIFT_NODEJS_IP"); v != "" {
		c.IP = v
	}
	if v := os.Getenv("URLSHOT_KEY"); v != "" {
		c.Key = v
	}
	if v := os.Getenv("URLSHOT_CACHE_DSN"); v != "" {
		c.CacheDSN = v
	}

	// OpenShift only grants write access below its data dir.
	if dir := os.Getenv("OPENSHIFT_DATA_DIR"); dir != "" {
		c.ImgPath = rebase(dir, c.ImgPath)
		c.CachePath = rebase(dir, c.CachePath)
	}

	return nil
}

func rebase(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// RenderTimeout returns Timeout as a duration.
func (c *Config) RenderTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Millisecond
}

// MaxAgeDuration returns the freshness window.
func (c *Config) MaxAgeDuration() time.Duration {
	return time.Duration(c.MaxAge) * 24 * time.Hour
}

// SweepAfterDuration returns SweepAfter as a duration.
func (c *Config) SweepAfterDuration() time.Duration {
	return time.Duration(c.SweepAfter) * time.Minute
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return c.IP + ":" + strconv.Itoa(c.Port)
}

// SizeNames returns the configured size names in order.
func (c *Config) SizeNames() []string {
	names := make([]string, len(c.Sizes))
	for i, s := range c.Sizes {
		names[i] = s.Name
	}
	return names
}
