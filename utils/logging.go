package utils

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Logger returns log, or a logger that discards everything when log is nil.
// Numerical packages are silent unless the caller hands them a logger.
func Logger(log logrus.FieldLogger) logrus.FieldLogger {
	if log != nil {
		return log
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
