// Package logger builds the process logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logger configuration.
type Config struct {
	Level         string // debug, info, warn, error
	Format        string // json, pretty
	FilePath      string // rotated log file; empty disables file output
	RotationSize  int    // MB
	RetentionDays int
	Service       string
}

// New builds a logger writing to out and, when FilePath is set, to a
// rotating file. The returned closer releases the file.
func New(cfg Config, out io.Writer) (zerolog.Logger, io.Closer, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		l, err := zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("invalid log level: %w", err)
		}
		level = l
	}

	if out == nil {
		out = os.Stderr
	}
	var writers []io.Writer
	if cfg.Format == "pretty" {
		writers = append(writers, zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"})
	} else {
		writers = append(writers, out)
	}

	var closer io.Closer = nopCloser{}
	if cfg.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("create log directory: %w", err)
		}
		file := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.RotationSize,
			MaxAge:     cfg.RetentionDays,
			MaxBackups: 10,
			Compress:   true,
		}
		writers = append(writers, file)
		closer = file
	}

	log := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Str("service", cfg.Service).
		Logger()
	return log, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
