package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logg *logrus.Logger

func init() {
	logg = logrus.New()
	logg.SetFormatter(&logrus.JSONFormatter{})
	logg.SetOutput(os.Stdout)
	logg.SetLevel(logrus.InfoLevel)
}

// GetLogger returns the shared application logger
func GetLogger() *logrus.Logger {
	return logg
}

// ApplyLogLevel sets the logger level from the LOG_LEVEL config value.
// Unknown values keep the current level.
func ApplyLogLevel(level string) {
	if parsed, err := logrus.ParseLevel(level); err == nil {
		logg.SetLevel(parsed)
	}
}

// LogError logs an error with structured context about where it happened
func LogError(logger *logrus.Logger, moduleName string, funcName string, context string, data any, err error) {
	fields := logrus.Fields{
		"module":   moduleName,
		"funcName": funcName,
		"context":  context,
	}
	if data != nil {
		fields["data"] = data
	}
	logger.WithFields(fields).Error(err.Error())
}
