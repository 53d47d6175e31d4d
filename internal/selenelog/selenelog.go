// Package selenelog configures the GNC core's structured logger: one JSON
// object per line, severity-tagged, written to stdout or a file.
package selenelog

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New creates a logrus logger writing JSON-formatted lines to stdout (or to
// a file when output != "stdout"), at the given level ("debug", "info",
// "warn", "error"; anything else defaults to "info").
func New(level, output string) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(parseLevel(level))

	if output == "" || output == "stdout" {
		logger.SetOutput(os.Stdout)
	} else {
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			logger.SetOutput(os.Stdout)
			logger.Warnf("selenelog: failed to open %s, using stdout: %v", output, err)
		} else {
			logger.SetOutput(f)
		}
	}

	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	return logger
}

func parseLevel(level string) logrus.Level {
	switch level {
	case "debug":
		return logrus.DebugLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
