package atacmd

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Component identifies the part of the package a log entry came from.
type Component string

const (
	ComponentHandler  Component = "handler"
	ComponentRegistry Component = "registry"
	ComponentSAT      Component = "sat"
	ComponentMegaraid Component = "megaraid"
)

var (
	// Log is the logger used by this package. It logs warnings and above to
	// stderr until reconfigured.
	Log = logrus.New()

	logMutex sync.RWMutex
)

func init() {
	Log.SetLevel(logrus.WarnLevel)
}

// SetLogger replaces the package logger.
func SetLogger(l *logrus.Logger) {
	logMutex.Lock()
	defer logMutex.Unlock()
	Log = l
}

// SetLogLevel sets the minimum level of the package logger.
func SetLogLevel(level logrus.Level) {
	logMutex.RLock()
	defer logMutex.RUnlock()
	Log.SetLevel(level)
}

func logger(c Component) *logrus.Entry {
	logMutex.RLock()
	l := Log
	logMutex.RUnlock()
	return l.WithField("component", string(c))
}
