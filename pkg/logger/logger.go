// Package logger builds the structured zap logger used across variadb and
// prints the startup banner that accompanies it.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a *zap.SugaredLogger tagged with service, at the given level
// (error, warn or warning, info, debug, and trace, which maps to debug;
// anything else falls back to info).
func New(service string, level string) *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	base, err := cfg.Build()
	if err != nil {
		base = zap.NewNop()
	}
	return base.Sugar().With("service", service)
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error":
		return zapcore.ErrorLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "debug":
		return zapcore.DebugLevel
	case "trace":
		// zap has no trace level; debug is the closest analogue.
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}

const banner = `
 _    __           _       ____  ____
| |  / /___ ______(_)___ _/ __ \/ __ \
| | / / __ \/ ___/ / __ \/ / / / / / /
| |/ / /_/ / /  / / /_/ / /_/ / /_/ /
|___/\____/_/  /_/\____/_____/_____/
`

// PrintBanner writes the startup banner followed by a one-line summary of
// config to stdout, the same shape as the line-printed banner this is
// grounded on, even though the printed fields themselves are variadb's own.
func PrintBanner(config fmt.Stringer) {
	fmt.Println(banner)
	fmt.Println(strings.Repeat("-", 40))
	fmt.Println(config.String())
	fmt.Println(strings.Repeat("-", 40))
}
