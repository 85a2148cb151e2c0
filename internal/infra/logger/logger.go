// internal/infra/logger/logger.go
package logger

import (
	"io"
	"os"
	"strings"

	"bigben_scheduler/internal/infra/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the global logger instance
var Log = logrus.New()

// fileSink is the append-only log file; nil until Init runs with a LogFile configured.
var fileSink *lumberjack.Logger

// Init initializes the global logger based on application configuration.
// Every entry goes to stdout and is appended to cfg.LogFile.
func Init(cfg *config.AppConfig) {
	var out io.Writer = os.Stdout
	fileSink = nil
	if cfg.LogFile != "" {
		fileSink = &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // MB
			MaxBackups: 5,
			MaxAge:     90, // days
		}
		out = io.MultiWriter(os.Stdout, fileSink)
	}
	Log.SetOutput(out)

	// Set Log Level
	level, err := logrus.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		Log.Warnf("Invalid log level '%s', defaulting to 'info'. Error: %v", cfg.LogLevel, err)
		Log.SetLevel(logrus.InfoLevel)
	} else {
		Log.SetLevel(level)
	}

	Log.SetFormatter(formatterFor(cfg.Environment))

	Log.Info("Logger initialized successfully.")
	Log.Debugf("Log level set to: %s", Log.GetLevel().String())
	Log.Debugf("Log format set for environment: %s", cfg.Environment)
}

func formatterFor(environment string) logrus.Formatter {
	env := strings.ToLower(environment)
	if env == "production" || env == "staging" {
		return &logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00", // ISO8601
		}
	}
	// The same lines land in the log file, so no color codes.
	return &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   true,
	}
}

// Get returns the configured global logger.
func Get() *logrus.Logger {
	return Log
}

// Component returns an entry tagged with the component name.
func Component(name string) *logrus.Entry {
	return Log.WithField("component", name)
}

// Close flushes and closes the log file, if one is open.
func Close() error {
	if fileSink == nil {
		return nil
	}
	return fileSink.Close()
}
