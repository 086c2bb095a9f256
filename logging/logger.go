// Package logging builds the structured zap logger shared by the validation
// layer and the command-line front end.
//
// The logger tees output to the console and a rotating log file. Console
// encoding is human-readable in development mode and JSON otherwise; the
// file always receives JSON for downstream log processing.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures the logger built by New. Zero values select sensible
// defaults: info level, no log file, production console encoding.
type Options struct {
	// Level is the minimum level emitted on both outputs.
	Level zapcore.Level

	// FilePath is the rotating log file destination. Empty disables file
	// output entirely.
	FilePath string

	// Development switches the console to colored human-readable output
	// and lowers the level floor to debug.
	Development bool

	// FileConfig overrides the default rotation settings. Only consulted
	// when FilePath is set.
	FileConfig FileWriterConfig
}

// New builds a zap logger from the given options.
//
// Example:
//
//	logger, err := logging.New(logging.Options{
//	    Level:    logging.InfoLevel,
//	    FilePath: "validator.log",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Sync()
//
//	logger.Info("registry loaded", zap.Int("modules", n))
func New(opts Options) (*zap.Logger, error) {
	level := opts.Level
	if opts.Development && level > zapcore.DebugLevel {
		level = zapcore.DebugLevel
	}

	core, err := NewMultiCore(level, opts.FilePath, opts.Development, opts.FileConfig)
	if err != nil {
		return nil, fmt.Errorf("logging: building log core: %w", err)
	}

	return zap.New(core, zap.AddCaller()), nil
}
