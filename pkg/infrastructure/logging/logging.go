package logging

import (
	"fmt"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verbosity levels passed to logger.V
const (
	DEFAULT = 0
	VERBOSE = 3
	DEBUG   = 4
	TRACE   = 5
)

// ParseLevel maps a level name to a logr verbosity
func ParseLevel(name string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "info", "default":
		return DEFAULT, nil
	case "verbose":
		return VERBOSE, nil
	case "debug":
		return DEBUG, nil
	case "trace":
		return TRACE, nil
	default:
		return DEFAULT, fmt.Errorf("invalid log level: %s (expected info, verbose, debug or trace)", name)
	}
}

// NewLogger builds a zap-backed logr.Logger. Development mode writes console
// output; otherwise entries are JSON.
func NewLogger(verbosity int, development bool) (logr.Logger, error) {
	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Sampling = nil
	}
	// zapr maps V(n) to zap level -n
	cfg.Level = zap.NewAtomicLevelAt(zapcore.Level(-verbosity))
	cfg.OutputPaths = []string{"stderr"}

	zapLog, err := cfg.Build()
	if err != nil {
		return logr.Discard(), fmt.Errorf("failed to build logger: %w", err)
	}
	return zapr.NewLogger(zapLog), nil
}
