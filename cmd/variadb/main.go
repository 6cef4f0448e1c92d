// Command variadb runs the HTTP-fronted key/value store: a disk log backed
// by an in-memory cache, served over a small JSON API.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/maxmielchen/variadb/internal/cache"
	"github.com/maxmielchen/variadb/internal/disklog"
	"github.com/maxmielchen/variadb/internal/engine"
	"github.com/maxmielchen/variadb/internal/httpapi"
	"github.com/maxmielchen/variadb/pkg/logger"
	"github.com/maxmielchen/variadb/pkg/options"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	opts := options.New(options.FromEnv())
	log := logger.New("variadb", opts.LogLevel)
	defer log.Sync()

	logger.PrintBanner(*opts)

	ctx := context.Background()

	disk, err := disklog.Open(opts.DataFile, log)
	if err != nil {
		return err
	}
	defer disk.Close()

	ristrettoCache, err := cache.NewRistrettoCache(cache.RistrettoCacheConfig{
		MaxCost: opts.CacheMaxCost,
		TTL:     opts.CacheTTL,
		TTI:     opts.CacheTTI,
	})
	if err != nil {
		return err
	}
	defer ristrettoCache.Close()

	eng, err := engine.New(ctx, &engine.Config{
		Disk:   disk,
		Cache:  ristrettoCache,
		Logger: log,
	})
	if err != nil {
		return err
	}
	defer eng.Close()

	server := httpapi.NewServer(eng, log, opts.CORSAllowedOrigins)

	log.Infow("listening", "addr", opts.HTTPAddr)
	return http.ListenAndServe(opts.HTTPAddr, server)
}
