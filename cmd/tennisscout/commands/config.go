package commands

import (
	"errors"
	"fmt"
	"os"
	"tennisscout/internal/configutil"
	"tennisscout/internal/render"
	"time"
)

const defaultCacheFile = "player_cache.json"

// Config is read from tennisscout.json5 (and tennisscout.local.json5),
// every field is optional.
type Config struct {
	Cache     CacheConfig  `json:"cache"`
	Render    RenderConfig `json:"render"`
	UserAgent string       `json:"user_agent"`
	// RateLimit is the number of static fetches per second.
	RateLimit float64 `json:"rate_limit"`
}

type CacheConfig struct {
	File string `json:"file"`
	// Database is a sqlite file path or a libsql:// url, it takes
	// precedence over File when set.
	Database string `json:"database"`
}

type RenderConfig struct {
	NavigationTimeoutMs  int    `json:"navigation_timeout_ms"`
	NetworkIdleTimeoutMs int    `json:"network_idle_timeout_ms"`
	GraceDelayMs         *int   `json:"grace_delay_ms"`
	Headless             *bool  `json:"headless"`
	BrowserPath          string `json:"browser_path"`
	Static               bool   `json:"static"`
}

func readConfig(path string) (Config, error) {
	if path == "" {
		path = "tennisscout.json5"
	}
	cfg, err := configutil.ReadConfig[Config](path)
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return cfg, nil
}

func (c Config) renderOptions() render.Options {
	opts := render.DefaultOptions()
	if c.Render.NavigationTimeoutMs > 0 {
		opts.NavigationTimeout = time.Duration(c.Render.NavigationTimeoutMs) * time.Millisecond
	}
	if c.Render.NetworkIdleTimeoutMs > 0 {
		opts.NetworkIdleTimeout = time.Duration(c.Render.NetworkIdleTimeoutMs) * time.Millisecond
	}
	if c.Render.GraceDelayMs != nil {
		opts.GraceDelay = time.Duration(*c.Render.GraceDelayMs) * time.Millisecond
	}
	if c.UserAgent != "" {
		opts.UserAgent = c.UserAgent
	}
	return opts
}

func (c Config) headless() bool {
	return c.Render.Headless == nil || *c.Render.Headless
}

func (c Config) cacheFile() string {
	if c.Cache.File == "" {
		return defaultCacheFile
	}
	return c.Cache.File
}
