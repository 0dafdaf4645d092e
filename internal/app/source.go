package app

import (
	"bufio"
	"strings"
)

// startSource appends each line of the source to the grid on the loop.
// The reader is not closed; a blocked read ends with the process.
func (app *Application) startSource() {
	if app.opts.Source == nil {
		return
	}

	go func() {
		scanner := bufio.NewScanner(app.opts.Source)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := sanitizeLine(scanner.Text())
			app.loop.Post(func() {
				app.metrics.RecordLine()
				app.grid.Append(line)
			})
		}
		if err := scanner.Err(); err != nil {
			app.logger.Warn("reading source", "error", err)
			return
		}
		app.logger.Debug("source finished")
	}()
}

// sanitizeLine drops control characters the grid cannot place. Tabs are
// kept for the grid to expand.
func sanitizeLine(s string) string {
	return strings.Map(func(r rune) rune {
		if (r < 0x20 && r != '\t') || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
