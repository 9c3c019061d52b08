package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	timeFormat        = "2006/01/02 15:04:05.000"
	defaultMaxSize    = 10 // MB
	defaultMaxAge     = 7  // days
	defaultMaxBackups = 3
)

// Config selects the log level and outputs
type Config struct {
	Level string
	// File enables a rotated log file in addition to stderr.
	File string
	// JSON switches the file encoding to JSON.
	JSON bool
	// Quiet drops the stderr output, leaving only the file.
	Quiet bool
}

// New creates a logger and a cleanup func that flushes and closes its outputs
func New(c Config) (*zap.Logger, func() error, error) {
	level := zap.NewAtomicLevel()
	if c.Level != "" {
		if err := level.UnmarshalText([]byte(c.Level)); err != nil {
			return nil, nil, fmt.Errorf("invalid log level %q: %w", c.Level, err)
		}
	}

	var (
		cores   []zapcore.Core
		closers []io.Closer
	)
	if !c.Quiet {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(newEncoderConfig()),
			zapcore.Lock(os.Stderr),
			level,
		))
	}
	if c.File != "" {
		writer := newRotatingWriter(c.File)
		encoder := zapcore.NewConsoleEncoder(newEncoderConfig())
		if c.JSON {
			encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(writer), level))
		closers = append(closers, writer)
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zap.PanicLevel))
	cleanup := func() error {
		_ = logger.Sync()
		for _, closer := range closers {
			if err := closer.Close(); err != nil {
				return err
			}
		}
		return nil
	}
	return logger, cleanup, nil
}

func newRotatingWriter(filename string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    defaultMaxSize,
		MaxAge:     defaultMaxAge,
		MaxBackups: defaultMaxBackups,
		LocalTime:  true,
		Compress:   true,
	}
}

func newEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = timeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	cfg.ConsoleSeparator = " "
	return cfg
}

func timeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + t.Format(timeFormat) + "]")
}
