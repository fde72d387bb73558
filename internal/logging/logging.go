package logging

import "log"

// Provides a simple leveled logger interface for the application

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
)

func parseLevel(s string) level {
	switch s {
	case "debug":
		return levelDebug
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// StdLogger writes to the standard log package, dropping messages
// below its configured level.
type StdLogger struct {
	min level
}

func New(levelName string) StdLogger {
	return StdLogger{min: parseLevel(levelName)}
}

func (l StdLogger) Debug(msg string, args ...any) { l.print(levelDebug, "DEBUG: "+msg, args...) }
func (l StdLogger) Info(msg string, args ...any)  { l.print(levelInfo, "INFO: "+msg, args...) }
func (l StdLogger) Warn(msg string, args ...any)  { l.print(levelWarn, "WARN: "+msg, args...) }
func (l StdLogger) Error(msg string, args ...any) { l.print(levelError, "ERROR: "+msg, args...) }

func (l StdLogger) print(lv level, msg string, args ...any) {
	if lv < l.min {
		return
	}
	log.Printf(msg, args...)
}
