// Package logging provides a small leveled logging interface so the rest
// of the gateway does not depend on a concrete logging library.
package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Logger is implemented by anything that can log at the usual levels. It is
// satisfied by *DefaultLog.
type Logger interface {
	Error(...interface{})
	Errorf(string, ...interface{})
	Warn(...interface{})
	Warnf(string, ...interface{})
	Info(...interface{})
	Infof(string, ...interface{})
	Debug(...interface{})
	Debugf(string, ...interface{})
}

// DefaultLog is the production Logger, backed by logrus.
type DefaultLog struct{}

func (l *DefaultLog) Error(a ...interface{})            { logrus.Error(a...) }
func (l *DefaultLog) Errorf(f string, a ...interface{}) { logrus.Errorf(f, a...) }
func (l *DefaultLog) Warn(a ...interface{})              { logrus.Warn(a...) }
func (l *DefaultLog) Warnf(f string, a ...interface{})   { logrus.Warnf(f, a...) }
func (l *DefaultLog) Info(a ...interface{})              { logrus.Info(a...) }
func (l *DefaultLog) Infof(f string, a ...interface{})   { logrus.Infof(f, a...) }
func (l *DefaultLog) Debug(a ...interface{})             { logrus.Debug(a...) }
func (l *DefaultLog) Debugf(f string, a ...interface{})  { logrus.Debugf(f, a...) }

// SetOutput, SetLevel and SetFormatter configure the package-wide logrus
// logger used by DefaultLog, for use in tests and process bootstrap.
func (l *DefaultLog) SetOutput(w io.Writer)          { logrus.SetOutput(w) }
func (l *DefaultLog) SetLevel(lvl logrus.Level)      { logrus.SetLevel(lvl) }
func (l *DefaultLog) SetFormatter(f logrus.Formatter) { logrus.SetFormatter(f) }
