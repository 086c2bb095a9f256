package logging

import (
	"os"

	"go.uber.org/zap/zapcore"
)

// NewMultiCore builds a zapcore.Core that tees output to the console and,
// when filePath is non-empty, to a rotating log file.
//
// The file output always uses JSON encoding for structured log processing.
// The console output is human-readable with colors in development mode and
// JSON otherwise.
//
// Example:
//
//	core, err := NewMultiCore(zapcore.InfoLevel, "validator.log", true, FileWriterConfig{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	logger := zap.New(core)
func NewMultiCore(level zapcore.Level, filePath string, isDev bool, fileConfig FileWriterConfig) (zapcore.Core, error) {
	consoleCore := zapcore.NewCore(
		consoleEncoder(isDev),
		zapcore.AddSync(os.Stdout),
		level,
	)
	if filePath == "" {
		return consoleCore, nil
	}

	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(NewEncoderConfig()),
		NewFileWriterWithConfig(filePath, fileConfig),
		level,
	)
	return zapcore.NewTee(consoleCore, fileCore), nil
}

// NewMultiCoreWithWriters builds the tee over caller-supplied writers.
// Useful in tests and for special output destinations.
func NewMultiCoreWithWriters(level zapcore.Level, consoleWriter, fileWriter zapcore.WriteSyncer, isDev bool) zapcore.Core {
	consoleCore := zapcore.NewCore(consoleEncoder(isDev), consoleWriter, level)
	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(NewEncoderConfig()),
		fileWriter,
		level,
	)
	return zapcore.NewTee(consoleCore, fileCore)
}

func consoleEncoder(isDev bool) zapcore.Encoder {
	if isDev {
		return zapcore.NewConsoleEncoder(NewConsoleEncoderConfig())
	}
	return zapcore.NewJSONEncoder(NewEncoderConfig())
}
