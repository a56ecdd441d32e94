package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is a component-scoped zerolog logger.
type Logger struct {
	*zerolog.Logger
	component string
}

var levels = map[string]zerolog.Level{
	"development": zerolog.DebugLevel,
	"staging":     zerolog.InfoLevel,
	"production":  zerolog.InfoLevel,
}

// Config represents logger configuration
type Config struct {
	AppEnv string

	// Out defaults to stderr so CLI tables on stdout stay clean.
	Out io.Writer

	// JSON switches from the console writer to raw JSON lines.
	JSON bool
}

// New creates a logger for a component using APP_ENV from the environment.
func New(component string) *Logger {
	return NewWithConfig(component, Config{AppEnv: os.Getenv("APP_ENV")})
}

// NewWithConfig creates a logger instance with custom configuration
func NewWithConfig(component string, cfg Config) *Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}

	var logger zerolog.Logger
	if cfg.JSON {
		logger = zerolog.New(out).With().Timestamp().Str("component", component).Logger()
	} else {
		console := zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "15:04:05",
			FormatMessage: func(i interface{}) string {
				return fmt.Sprintf("[%s] %v", component, i)
			},
		}
		if cfg.AppEnv == "production" {
			console.TimeFormat = ""
			logger = zerolog.New(console)
		} else {
			logger = zerolog.New(console).With().Timestamp().Logger()
		}
	}
	logger = logger.Level(levelFor(cfg.AppEnv))

	return &Logger{Logger: &logger, component: component}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	l := zerolog.Nop()
	return &Logger{Logger: &l}
}

// Named derives a logger for a sub-component sharing the same sink and level.
func (l *Logger) Named(component string) *Logger {
	child := l.Logger.With().Str("sub", component).Logger()
	return &Logger{Logger: &child, component: l.component + "." + component}
}

// Component returns the component name the logger was created for.
func (l *Logger) Component() string { return l.component }

func levelFor(env string) zerolog.Level {
	if level, ok := levels[env]; ok {
		return level
	}
	return zerolog.DebugLevel
}

func (l *Logger) LogDebugf(format string, v ...interface{}) { l.Debug().Msgf(format, v...) }
func (l *Logger) LogInfof(format string, v ...interface{})  { l.Info().Msgf(format, v...) }
func (l *Logger) LogWarnf(format string, v ...interface{})  { l.Warn().Msgf(format, v...) }
func (l *Logger) LogErrorf(format string, v ...interface{}) { l.Error().Msgf(format, v...) }

// LogError logs msg with err attached when present.
func (l *Logger) LogError(msg string, err error) {
	if err != nil {
		l.Error().Err(err).Msg(msg)
		return
	}
	l.Error().Msg(msg)
}
