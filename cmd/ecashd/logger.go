// logger.go - Structured logging for the e-cash daemon
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger writes to the console and an optional log file. Warnings, errors and
// explicit audit events are also appended to the audit log.
type Logger struct {
	zerolog.Logger
	audit zerolog.Logger
	files []*os.File
}

// auditFilter forwards only WARN and above.
type auditFilter struct {
	w io.Writer
}

func (f auditFilter) Write(p []byte) (int, error) {
	return len(p), nil
}

func (f auditFilter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level < zerolog.WarnLevel {
		return len(p), nil
	}
	return f.w.Write(p)
}

// NewLogger creates a new logger instance
func NewLogger(level string, logFile string, auditFile string) (*Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	l := &Logger{audit: zerolog.Nop()}
	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "2006-01-02 15:04:05"}}

	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		l.files = append(l.files, file)
		writers = append(writers, file)
	}

	if auditFile != "" {
		file, err := os.OpenFile(auditFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			l.Close()
			return nil, fmt.Errorf("failed to open audit file: %w", err)
		}
		l.files = append(l.files, file)
		writers = append(writers, auditFilter{w: file})
		l.audit = zerolog.New(file).With().Timestamp().Str("stream", "audit").Logger()
	}

	l.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(lvl).With().Timestamp().Logger()
	return l, nil
}

// Close closes the logger and its files
func (l *Logger) Close() error {
	var first error
	for _, f := range l.files {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	l.files = nil
	return first
}

// Audit logs an audit event
func (l *Logger) Audit(event string, details map[string]interface{}) {
	l.audit.Log().Str("event", event).Fields(details).Msg("audit")
}
