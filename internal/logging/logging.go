// Package logging builds the zap logger used for diagnostics. User-facing
// results are printed by the commands, not logged.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LevelEnv overrides the log level ("debug", "info", "warn", "error").
const LevelEnv = "GOCONN_LOG_LEVEL"

// New returns a production logger writing JSON to stderr at info level, or
// a development console logger at debug level when verbose is set.
func New(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = !verbose

	if lvl := os.Getenv(LevelEnv); lvl != "" {
		level, err := zapcore.ParseLevel(lvl)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", LevelEnv, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(level)
	}

	return cfg.Build()
}
