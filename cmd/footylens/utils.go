package main

import (
	"errors"
	"os"

	"footylens-backend/lib/outcome"

	"github.com/jedib0t/go-pretty/v6/table"
)

var errNoHistory = errors.New("search history needs both --db and --user")

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

// reportEmpty prints why there is nothing to show and exits non-zero
// on an upstream failure so scripts can tell the cases apart.
func reportEmpty(state outcome.State, subject string, err error) {
	switch state {
	case outcome.Absent:
		os.Stderr.WriteString("not found: " + subject + "\n")
	case outcome.Unavailable:
		os.Stderr.WriteString("source unavailable for " + subject + ": " + err.Error() + "\n")
		os.Exit(1)
	}
}
