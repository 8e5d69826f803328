/************************************************************************************
 *
 * wfbutler - REST client middleware for a Discord-bot marketplace backend
 *
 * SPDX-License-Identifier: BSD-3-Clause
 *
 ************************************************************************************/

package wfbutler

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger defines the logging interface used by the REST clients. The
// Discord and marketplace clients each take one (WithDiscordLogger,
// WithMarketLogger) so callers can plug in their own sink; the pipeline
// layers themselves do not log. The default implementation is backed by
// logrus.
type Logger interface {
	Info(msg string)
	Debug(msg string)
	Warn(msg string)
	Error(msg string)
	Fatal(msg string)

	// WithField adds a single field to the logger context.
	WithField(key string, value any) Logger
	// WithFields adds multiple fields to the logger context.
	WithFields(fields map[string]any) Logger
}

// LogLevel defines the severity level.
type LogLevel int

const (
	LogLevelDebugLevel LogLevel = iota
	LogLevelInfoLevel
	LogLevelWarnLevel
	LogLevelErrorLevel
	LogLevelFatalLevel
)

func (l LogLevel) toLogrus() logrus.Level {
	switch l {
	case LogLevelDebugLevel:
		return logrus.DebugLevel
	case LogLevelWarnLevel:
		return logrus.WarnLevel
	case LogLevelErrorLevel:
		return logrus.ErrorLevel
	case LogLevelFatalLevel:
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}

// DefaultLogger adapts logrus to the Logger interface, carrying an
// accumulated field set the way logrus.Entry does.
type DefaultLogger struct {
	entry *logrus.Entry
}

var _ Logger = (*DefaultLogger)(nil)

// NewDefaultLogger builds a JSON-formatted logrus-backed Logger writing to
// out (stdout if nil) at the given minimum level.
func NewDefaultLogger(out io.Writer, level LogLevel) *DefaultLogger {
	if out == nil {
		out = os.Stdout
	}
	base := logrus.New()
	base.SetOutput(out)
	base.SetFormatter(&logrus.JSONFormatter{})
	base.SetLevel(level.toLogrus())
	return &DefaultLogger{entry: logrus.NewEntry(base)}
}

func (l *DefaultLogger) WithField(key string, value any) Logger {
	return &DefaultLogger{entry: l.entry.WithField(key, value)}
}

func (l *DefaultLogger) WithFields(fields map[string]any) Logger {
	return &DefaultLogger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

func (l *DefaultLogger) Info(msg string)  { l.entry.Info(msg) }
func (l *DefaultLogger) Debug(msg string) { l.entry.Debug(msg) }
func (l *DefaultLogger) Warn(msg string)  { l.entry.Warn(msg) }
func (l *DefaultLogger) Error(msg string) { l.entry.Error(msg) }
func (l *DefaultLogger) Fatal(msg string) { l.entry.Fatal(msg) }
