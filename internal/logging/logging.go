package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/rs/zerolog"
)

// LogFilePath builds a log file path using OS-appropriate path separators.
func LogFilePath(logsDir, appName string, sessionStart time.Time) string {
	return filepath.Join(
		logsDir,
		fmt.Sprintf("%s.%s.log", appName, sessionStart.Format("20060102_150405")),
	)
}

// ParseLevel converts a config log level to a zerolog level. Unknown values map to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Config selects the log outputs.
type Config struct {
	Level string
	// Console receives colored human output. Defaults to os.Stdout.
	Console io.Writer
	// File receives uncolored human output when set.
	File io.Writer
	// GraylogAddr is a host:port for GELF over UDP. Empty disables Graylog.
	GraylogAddr string
	// Session is called on every event to tag it with the active session name.
	Session func() string
}

// Logger bundles the configured logger with the outputs it must close.
type Logger struct {
	zerolog.Logger
	graylog *gelf.Writer
}

// Close releases the Graylog connection if one was opened.
func (l *Logger) Close() error {
	if l.graylog == nil {
		return nil
	}
	return l.graylog.Close()
}

// Setup builds a logger writing to the console, an optional file and optional Graylog.
func Setup(cfg Config) (*Logger, error) {
	console := cfg.Console
	if console == nil {
		console = os.Stdout
	}

	writers := []io.Writer{
		zerolog.ConsoleWriter{
			Out:        console,
			TimeFormat: time.RFC3339,
		},
	}
	if cfg.File != nil {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        cfg.File,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		})
	}

	out := &Logger{}
	if cfg.GraylogAddr != "" {
		gw, err := gelf.NewWriter(cfg.GraylogAddr)
		if err != nil {
			return nil, fmt.Errorf("connecting to graylog at %s: %w", cfg.GraylogAddr, err)
		}
		out.graylog = gw
		writers = append(writers, gw)
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(ParseLevel(cfg.Level)).
		With().Timestamp().Logger()

	if cfg.Session != nil {
		session := cfg.Session
		logger = logger.Hook(zerolog.HookFunc(func(e *zerolog.Event, _ zerolog.Level, _ string) {
			if name := session(); name != "" {
				e.Str("session", name)
			}
		}))
	}

	out.Logger = logger
	return out, nil
}
