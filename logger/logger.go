// Package logger configures the application logger. User-facing output
// goes to stdout through the menus; logs go to stderr.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds a logger writing to stderr at the given level. An unknown
// level name falls back to info.
func New(level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}
