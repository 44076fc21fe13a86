// Package logging wraps logrus with JSON output and a service field.
package logging

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the structured logger handed to every component. Variadic args
// are alternating key/value pairs.
type Logger struct {
	entry *logrus.Entry
}

// NewLogger creates a new configured Logger tagged with the service name.
// LOG_LEVEL=debug enables debug output.
func NewLogger(service string) *Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetOutput(os.Stdout)
	l.SetLevel(logrus.InfoLevel)
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		l.SetLevel(lvl)
	}
	return &Logger{entry: l.WithField("service", service)}
}

// Info logs an informational message.
func (l *Logger) Info(msg string, kv ...interface{}) {
	l.entry.WithFields(fields(kv)).Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, kv ...interface{}) {
	l.entry.WithFields(fields(kv)).Warn(msg)
}

// Error logs an error message.
func (l *Logger) Error(msg string, kv ...interface{}) {
	l.entry.WithFields(fields(kv)).Error(msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, kv ...interface{}) {
	l.entry.WithFields(fields(kv)).Debug(msg)
}

func fields(kv []interface{}) logrus.Fields {
	f := make(logrus.Fields, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		f[key] = kv[i+1]
	}
	return f
}
