// Package logging wraps a shared logrus logger for netrate.
//
// The terminal belongs to the dashboard while it runs, so the logger writes
// nowhere until EnableFileLogging routes it to a rotating file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Level is the logging level
type Level logrus.Level

// Logging levels
const (
	DebugLevel Level = Level(logrus.DebugLevel)
	InfoLevel  Level = Level(logrus.InfoLevel)
	WarnLevel  Level = Level(logrus.WarnLevel)
	ErrorLevel Level = Level(logrus.ErrorLevel)
)

var logger = logrus.New()

func init() {
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.InfoLevel)
}

// ParseLevel converts a level name such as "debug" or "warn".
func ParseLevel(name string) (Level, error) {
	lvl, err := logrus.ParseLevel(name)
	if err != nil {
		return InfoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return Level(lvl), nil
}

// SetLevel sets the logging level
func SetLevel(level Level) {
	logger.SetLevel(logrus.Level(level))
}

// EnableFileLogging sends log output to path, rotated by size.
func EnableFileLogging(path string, maxSize, maxBackups, maxAge int) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	rotateLogger := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSize,    // megabytes
		MaxBackups: maxBackups, // number of backups
		MaxAge:     maxAge,     // days
		Compress:   true,
	}
	logger.SetOutput(rotateLogger)

	return rotateLogger, nil
}

// WithComponent returns an entry tagged with the component name.
func WithComponent(name string) *logrus.Entry {
	return logger.WithField("component", name)
}
