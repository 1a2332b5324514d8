package server

import (
	"io"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log file rotation limits.
const (
	logMaxSizeMB  = 50
	logMaxBackups = 5
	logMaxAgeDays = 28
)

// NewLogger returns a logger writing to w and, when logFile is set, also to a
// rotating file. The returned closer releases the file; it is a no-op
// otherwise.
func NewLogger(w io.Writer, logFile string, level log.Level) (*log.Logger, io.Closer) {
	var closer io.Closer = nopCloser{}
	if logFile != "" {
		rot := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    logMaxSizeMB,
			MaxBackups: logMaxBackups,
			MaxAge:     logMaxAgeDays,
			Compress:   true,
		}
		w = io.MultiWriter(w, rot)
		closer = rot
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Prefix:          "serve",
	}), closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
