// Package logging builds the logrus loggers used across tally.
package logging

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// Common field names for structured logging.
const (
	FieldComponent = "component"
	FieldPath      = "path"
	FieldCount     = "count"
	FieldPosition  = "position"
	FieldAmount    = "amount"
	FieldCategory  = "category"
	FieldCommit    = "commit"
)

// Component names.
const (
	ComponentCLI      = "cli"
	ComponentBudget   = "budget"
	ComponentCodec    = "codec"
	ComponentImporter = "importer"
)

// New returns a text logger writing to out at the named level
// ("debug", "info", "warn", ...). An empty level means info.
func New(level string, out io.Writer) (*logrus.Logger, error) {
	lvl := logrus.InfoLevel
	if level != "" {
		var err error
		lvl, err = logrus.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("parsing log level: %w", err)
		}
	}

	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	return l, nil
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// For returns an entry tagged with component.
func For(l logrus.FieldLogger, component string) logrus.FieldLogger {
	return l.WithField(FieldComponent, component)
}
