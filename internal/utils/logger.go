package utils

import (
	"os" // Log output

	"github.com/sirupsen/logrus" // Structured logging
)

// NewLogger builds the process logger: text with full timestamps in development, JSON elsewhere.
// An unknown level name falls back to info.
func NewLogger(env, level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	if env == "development" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}
