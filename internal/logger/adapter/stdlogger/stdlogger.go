// Package stdlogger adapts the global zerolog logger to printf style
// logger interfaces, such as the writer expected by gorm's logger.
package stdlogger

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger writes printf style messages to the global zerolog logger.
type Logger struct {
	component string
}

// New returns a Logger without a component field.
func New() *Logger {
	return &Logger{}
}

// NewComponent returns a Logger tagging every event with component.
func NewComponent(component string) *Logger {
	return &Logger{component: component}
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, args ...any) {
	l.emit(zerolog.DebugLevel, format, args...)
}

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...any) {
	l.emit(zerolog.InfoLevel, format, args...)
}

// Warningf logs at warn level.
func (l *Logger) Warningf(format string, args ...any) {
	l.emit(zerolog.WarnLevel, format, args...)
}

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...any) {
	l.emit(zerolog.ErrorLevel, format, args...)
}

// Printf logs at info level. gorm's logger calls it for every level, so the
// level keywords gorm prefixes its messages with are mapped back.
func (l *Logger) Printf(format string, args ...any) {
	l.emit(levelOf(format), format, args...)
}

func (l *Logger) emit(level zerolog.Level, format string, args ...any) {
	event := log.WithLevel(level)
	if l.component != "" {
		event = event.Str("component", l.component)
	}

	event.Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func levelOf(format string) zerolog.Level {
	switch {
	case strings.Contains(format, "[error]"):
		return zerolog.ErrorLevel
	case strings.Contains(format, "[warn]"), strings.Contains(format, "SLOW SQL"):
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}
