// Package logging sets up the application logger. The terminal belongs to
// the TUI while the program runs, so all logging goes to a file in the app's
// config directory.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

const fileName = "airtune.log"

// Open returns a logger writing to <dir>/airtune.log and a closer for the
// underlying file. If the file cannot be opened the logger discards output;
// a broken log destination must not keep the radio from playing.
func Open(dir string) (*log.Logger, func() error) {
	opts := log.Options{ReportTimestamp: true}

	file, err := os.OpenFile(filepath.Join(dir, fileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return log.NewWithOptions(io.Discard, opts), func() error { return nil }
	}
	return log.NewWithOptions(file, opts), file.Close
}
