// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Init sets the global level, format and output. Logs go to stderr so that
// command output on stdout stays clean.
func Init(level string, json bool) error {
	return InitTo(os.Stderr, level, json)
}

// InitTo is Init with an explicit writer.
func InitTo(w io.Writer, level string, json bool) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if json {
		logrus.SetFormatter(&logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	logrus.SetOutput(w)
	logrus.SetLevel(lvl)
	return nil
}

// For returns a logger tagged with the component name.
func For(component string) *logrus.Entry {
	return logrus.WithField("component", component)
}
