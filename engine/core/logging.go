package core

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var once sync.Once

type logger struct {
	*log.Logger
}

var singleton *logger

// LoggerOptions controls the shared engine logger.
type LoggerOptions struct {
	Level        string
	Prefix       string
	ReportCaller bool
	Output       io.Writer
}

func getLogger() *logger {
	once.Do(func() {
		singleton = &logger{newLogger(LoggerOptions{
			Level:        "debug",
			Prefix:       "Renderer 🔺 ",
			ReportCaller: true,
		})}
	})
	return singleton
}

func newLogger(opts LoggerOptions) *log.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	l := log.NewWithOptions(out, log.Options{
		ReportCaller:    opts.ReportCaller,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          opts.Prefix,
	})
	level, err := log.ParseLevel(opts.Level)
	if err != nil {
		level = log.InfoLevel
	}
	l.SetLevel(level)
	return l
}

// ConfigureLogger replaces the shared logger settings. An unknown level falls back to info.
func ConfigureLogger(opts LoggerOptions) {
	l := getLogger()
	l.Logger = newLogger(opts)
}

func LogDebug(msg string, args ...interface{}) {
	getLogger().Debugf(msg, args...)
}

func LogInfo(msg string, args ...interface{}) {
	getLogger().Infof(msg, args...)
}

func LogWarn(msg string, args ...interface{}) {
	getLogger().Warnf(msg, args...)
}

func LogError(msg string, args ...interface{}) {
	getLogger().Errorf(msg, args...)
}

func LogFatal(msg string, args ...interface{}) {
	getLogger().Fatalf(msg, args...)
}
