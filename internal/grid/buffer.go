// Package grid holds the row model that is painted onto the display.
//
// A Buffer stores a fixed number of rows of cells. Every mutation reports the
// inclusive range of rows it touched to the registered ChangeFunc, which is
// how the render coordinator learns what to repaint.
package grid

import (
	"sync"

	"github.com/dshills/gridpaint/internal/renderer/core"
)

// ChangeFunc receives the inclusive range of rows that changed.
type ChangeFunc func(start, end int)

// Buffer is a rows x cols grid of cells.
type Buffer struct {
	mu       sync.RWMutex
	cols     int
	rows     [][]core.Cell
	tail     int // next row written by Append
	tabs     TabStops
	onChange ChangeFunc
}

// NewBuffer creates a blank buffer.
func NewBuffer(cols, rows int) *Buffer {
	b := &Buffer{
		cols: max(cols, 0),
		tabs: NewTabStops(DefaultTabWidth),
	}
	b.rows = make([][]core.Cell, max(rows, 0))
	for i := range b.rows {
		b.rows[i] = b.blankRow()
	}
	return b
}

// OnChange sets the change callback. Pass nil to stop reporting.
func (b *Buffer) OnChange(fn ChangeFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onChange = fn
}

// SetTabWidth sets the tab stop distance for text written afterwards.
func (b *Buffer) SetTabWidth(width int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tabs = NewTabStops(width)
}

// Cols returns the row width in cells.
func (b *Buffer) Cols() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cols
}

// Rows returns the number of rows.
func (b *Buffer) Rows() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.rows)
}

// Row returns a copy of row y, or nil if y is out of range.
func (b *Buffer) Row(y int) []core.Cell {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if y < 0 || y >= len(b.rows) {
		return nil
	}
	row := make([]core.Cell, len(b.rows[y]))
	copy(row, b.rows[y])
	return row
}

// Append writes text to the next free row. When the buffer is full every
// row scrolls up by one and the whole buffer is reported as changed.
func (b *Buffer) Append(text string) {
	b.mu.Lock()
	if len(b.rows) == 0 {
		b.mu.Unlock()
		return
	}

	var start, end int
	if b.tail < len(b.rows) {
		b.rows[b.tail] = b.layout(text)
		start, end = b.tail, b.tail
		b.tail++
	} else {
		copy(b.rows, b.rows[1:])
		b.rows[len(b.rows)-1] = b.layout(text)
		start, end = 0, len(b.rows)-1
	}
	fn := b.onChange
	b.mu.Unlock()

	if fn != nil {
		fn(start, end)
	}
}

// Clear blanks every row and resets the append position.
func (b *Buffer) Clear() {
	b.mu.Lock()
	for i := range b.rows {
		b.rows[i] = b.blankRow()
	}
	b.tail = 0
	n := len(b.rows)
	fn := b.onChange
	b.mu.Unlock()

	if fn != nil && n > 0 {
		fn(0, n-1)
	}
}

// Resize changes the grid size. When the appended rows no longer fit, the
// oldest ones are dropped so the latest text stays visible; rows are cut or
// padded to the new width. Resize does not report a change; callers repaint as part
// of their own resize handling.
func (b *Buffer) Resize(cols, rows int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cols, rows = max(cols, 0), max(rows, 0)

	used := b.tail
	drop := 0
	if used > rows {
		drop = used - rows
	}

	next := make([][]core.Cell, rows)
	for i := range next {
		src := i + drop
		if src < len(b.rows) {
			next[i] = fitRow(b.rows[src], cols)
			continue
		}
		next[i] = blank(cols)
	}

	b.cols = cols
	b.rows = next
	b.tail = used - drop
}

func (b *Buffer) blankRow() []core.Cell {
	return blank(b.cols)
}

// layout converts text into one row of cells. Tabs advance to the next tab
// stop. Wide runes take two columns, the second holding a zero cell; a wide
// rune that would straddle the edge is dropped.
func (b *Buffer) layout(text string) []core.Cell {
	row := blank(b.cols)
	x := 0
	for _, r := range text {
		if x >= b.cols {
			break
		}
		if r == '\t' {
			x = b.tabs.Next(x)
			continue
		}
		w := core.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > b.cols {
			break
		}
		row[x] = core.NewCell(r)
		if w == 2 {
			row[x+1] = core.Cell{}
		}
		x += w
	}
	return row
}

func blank(cols int) []core.Cell {
	row := make([]core.Cell, cols)
	for i := range row {
		row[i] = core.EmptyCell()
	}
	return row
}

func fitRow(row []core.Cell, cols int) []core.Cell {
	out := blank(cols)
	n := copy(out, row)
	// Do not leave half of a wide rune at the right edge.
	if n > 0 && n == cols && out[n-1].Width == 2 {
		out[n-1] = core.EmptyCell()
	}
	return out
}
