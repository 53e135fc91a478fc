// Package pclog provides the package-level logger used by the
// page-coloring core. It follows rdtmanager.go's SetLog/logFunctionf
// pattern: a single swappable logger, defaulting to a quiet logrus
// instance so library consumers are not spammed unless they opt in.
package pclog

import (
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu  sync.RWMutex
	log = defaultLogger()
)

func defaultLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	return l
}

// SetLogger installs the logger used by the core from this point on.
// A nil logger resets to the quiet default.
func SetLogger(l *logrus.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		log = defaultLogger()
		return
	}
	log = l
}

func get() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Debugf logs a solver trace line.
func Debugf(format string, args ...interface{}) {
	get().Debugf(format, args...)
}

// Warnf logs a non-fatal diagnostic.
func Warnf(format string, args ...interface{}) {
	get().Warnf(format, args...)
}

// Errorf logs an error-level line.
func Errorf(format string, args ...interface{}) {
	get().Errorf(format, args...)
}
