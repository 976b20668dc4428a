package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// LogConfig selects level and an optional log file
type LogConfig struct {
	Level string
	Path  string
}

// ParseLevel maps a level name to a logrus level, defaulting to info
func ParseLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// New builds a logger writing to stderr, and also to Path when one is set.
// The returned close function releases the log file; call it on shutdown.
func New(config LogConfig) (*logrus.Logger, func() error, error) {
	log := logrus.New()
	log.SetLevel(ParseLevel(config.Level))
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})

	if config.Path == "" {
		log.SetOutput(os.Stderr)
		return log, func() error { return nil }, nil
	}

	f, err := openLogFile(config.Path)
	if err != nil {
		return nil, nil, err
	}
	log.SetOutput(io.MultiWriter(os.Stderr, f))
	return log, f.Close, nil
}

func openLogFile(logPath string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
}
