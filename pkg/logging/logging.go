package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds the application logger. JSON output, level from LOG_LEVEL
// (default info).
func New() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	return l
}
