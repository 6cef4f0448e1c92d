// Package options defines the runtime configuration surface for variadb:
// where the disk log lives, what the HTTP API listens on, how the cache is
// sized and aged, which origins CORS allows, and how verbose logging is.
package options

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Options holds every tunable the server needs at startup.
type Options struct {
	// DataFile is the path to the disk log file. Its parent directory is
	// created on open if missing.
	DataFile string `json:"dataFile"`

	// HTTPAddr is the address the HTTP API listens on, e.g. ":8080".
	HTTPAddr string `json:"httpAddr"`

	// CacheMaxCost is the cache's total weight budget.
	CacheMaxCost int64 `json:"cacheMaxCost"`

	// CacheTTL is how long a cache entry lives regardless of access.
	CacheTTL time.Duration `json:"cacheTtl"`

	// CacheTTI is how long a cache entry may go unread before it expires.
	CacheTTI time.Duration `json:"cacheTti"`

	// LogLevel selects the structured logger's verbosity: error, warn,
	// info, debug.
	LogLevel string `json:"logLevel"`

	// CORSAllowedOrigins lists origins the HTTP API accepts cross-origin
	// requests from. A single "*" allows any origin.
	CORSAllowedOrigins []string `json:"corsAllowedOrigins"`
}

// String renders Options for the startup banner.
func (o Options) String() string {
	return fmt.Sprintf(
		"dataFile=%s httpAddr=%s cacheMaxCost=%d cacheTtl=%s cacheTti=%s logLevel=%s corsAllowedOrigins=%v",
		o.DataFile, o.HTTPAddr, o.CacheMaxCost, o.CacheTTL, o.CacheTTI, o.LogLevel, o.CORSAllowedOrigins,
	)
}

// OptionFunc modifies an Options value. Empty input, and for the numeric
// options a non-positive value, leaves the field unchanged rather than
// erroring, so options can be layered without every caller checking every
// value. The log level string is not checked against the known levels.
type OptionFunc func(*Options)

// New builds an Options starting from the built-in defaults and applying
// each OptionFunc in order.
func New(opts ...OptionFunc) *Options {
	o := NewDefaultOptions()
	for _, apply := range opts {
		apply(&o)
	}
	return &o
}

// WithDefaultOptions resets every field to the built-in defaults.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		*o = NewDefaultOptions()
	}
}

// WithDataFile sets the disk log file path.
func WithDataFile(path string) OptionFunc {
	return func(o *Options) {
		path = strings.TrimSpace(path)
		if path != "" {
			o.DataFile = path
		}
	}
}

// WithHTTPAddr sets the HTTP listen address.
func WithHTTPAddr(addr string) OptionFunc {
	return func(o *Options) {
		addr = strings.TrimSpace(addr)
		if addr != "" {
			o.HTTPAddr = addr
		}
	}
}

// WithCacheMaxCost sets the cache's weight budget.
func WithCacheMaxCost(cost int64) OptionFunc {
	return func(o *Options) {
		if cost > 0 {
			o.CacheMaxCost = cost
		}
	}
}

// WithCacheTTL sets the cache's time-to-live.
func WithCacheTTL(ttl time.Duration) OptionFunc {
	return func(o *Options) {
		if ttl > 0 {
			o.CacheTTL = ttl
		}
	}
}

// WithCacheTTI sets the cache's time-to-idle.
func WithCacheTTI(tti time.Duration) OptionFunc {
	return func(o *Options) {
		if tti > 0 {
			o.CacheTTI = tti
		}
	}
}

// WithLogLevel sets the structured logger's level.
func WithLogLevel(level string) OptionFunc {
	return func(o *Options) {
		level = strings.TrimSpace(strings.ToLower(level))
		if level != "" {
			o.LogLevel = level
		}
	}
}

// WithCORSAllowedOrigins sets the CORS allow-list.
func WithCORSAllowedOrigins(origins []string) OptionFunc {
	return func(o *Options) {
		if len(origins) > 0 {
			o.CORSAllowedOrigins = origins
		}
	}
}

// FromEnv reads LOG_LEVEL, DATA_DIR (the disk log file path despite the
// name, kept from the environment this store's design is grounded on),
// PORT, CACHE_SIZE, CACHE_TTL, CACHE_TTI (seconds), and
// CORS_ALLOWED_ORIGINS (comma-separated). Unlike that design, a missing or
// malformed variable here falls back to the corresponding default instead
// of aborting startup — this store is meant to run with zero required
// configuration.
func FromEnv() OptionFunc {
	return func(o *Options) {
		if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
			o.LogLevel = strings.ToLower(v)
		}
		if v := strings.TrimSpace(os.Getenv("DATA_DIR")); v != "" {
			o.DataFile = v
		}
		if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
			if port, err := strconv.Atoi(v); err == nil && port > 0 && port < 65536 {
				o.HTTPAddr = ":" + strconv.Itoa(port)
			}
		}
		if v := strings.TrimSpace(os.Getenv("CACHE_SIZE")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				o.CacheMaxCost = n
			}
		}
		if v := strings.TrimSpace(os.Getenv("CACHE_TTL")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				o.CacheTTL = time.Duration(n) * time.Second
			}
		}
		if v := strings.TrimSpace(os.Getenv("CACHE_TTI")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				o.CacheTTI = time.Duration(n) * time.Second
			}
		}
		if v := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); v != "" {
			var origins []string
			for _, part := range strings.Split(v, ",") {
				if part = strings.TrimSpace(part); part != "" {
					origins = append(origins, part)
				}
			}
			if len(origins) > 0 {
				o.CORSAllowedOrigins = origins
			}
		}
	}
}
