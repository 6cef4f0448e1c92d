package options

import "time"

const (
	// DefaultDataFile is where the disk log is created if nothing else is
	// configured.
	DefaultDataFile = "/var/lib/variadb/data.db"

	// DefaultHTTPAddr is the address the HTTP API listens on.
	DefaultHTTPAddr = ":8080"

	// DefaultCacheMaxCost is the cache's total weight budget.
	DefaultCacheMaxCost int64 = 64 * 1024 * 1024

	// DefaultCacheTTL is how long a cache entry lives regardless of access.
	DefaultCacheTTL = time.Hour

	// DefaultCacheTTI is how long a cache entry may go unread before it is
	// treated as expired.
	DefaultCacheTTI = 10 * time.Minute

	// DefaultLogLevel is used when LOG_LEVEL is unset or unrecognized.
	DefaultLogLevel = "info"
)

// defaultCORSAllowedOrigins is the allow-list used when
// CORS_ALLOWED_ORIGINS is unset. A single "*" permits any origin.
var defaultCORSAllowedOrigins = []string{"*"}

var defaultOptions = Options{
	DataFile:           DefaultDataFile,
	HTTPAddr:           DefaultHTTPAddr,
	CacheMaxCost:       DefaultCacheMaxCost,
	CacheTTL:           DefaultCacheTTL,
	CacheTTI:           DefaultCacheTTI,
	LogLevel:           DefaultLogLevel,
	CORSAllowedOrigins: append([]string(nil), defaultCORSAllowedOrigins...),
}

// NewDefaultOptions returns a copy of the built-in defaults.
func NewDefaultOptions() Options {
	o := defaultOptions
	o.CORSAllowedOrigins = append([]string(nil), defaultOptions.CORSAllowedOrigins...)
	return o
}
