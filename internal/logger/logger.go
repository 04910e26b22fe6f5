package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger shared by every component.
var Log = logrus.New()

type Entry = logrus.Entry

// Init configures structured JSON output on stdout. LOG_FORMAT=text switches
// to plain text for interactive use; DEBUG=true lowers the level.
func Init() {
	if os.Getenv("LOG_FORMAT") == "text" {
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		Log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	}

	Log.SetOutput(os.Stdout)

	if os.Getenv("DEBUG") == "true" {
		Log.SetLevel(logrus.DebugLevel)
	} else {
		Log.SetLevel(logrus.InfoLevel)
	}
}
