// Package backend provides display backend abstraction for the renderer.
package backend

import (
	"errors"
	"strings"
	"sync"

	"github.com/dshills/gridpaint/internal/renderer/core"
)

// ErrNotInitialized is returned by operations that need Init first.
var ErrNotInitialized = errors.New("backend: not initialized")

// EventType identifies the type of backend event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventResize
	EventFocus
	EventInterrupt
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventKey:
		return "key"
	case EventResize:
		return "resize"
	case EventFocus:
		return "focus"
	case EventInterrupt:
		return "interrupt"
	default:
		return "none"
	}
}

// Key represents a keyboard key.
type Key int

// Keys the application reacts to. Everything else maps to KeyOther.
const (
	KeyNone Key = iota
	KeyRune     // Regular character (use Rune field)
	KeyEscape
	KeyEnter
	KeyCtrlC
	KeyCtrlL
	KeyCtrlZ
	KeyOther
)

// Event represents a backend event.
type Event struct {
	Type EventType

	// Key event fields
	Key  Key
	Rune rune

	// Resize event fields
	Width, Height int

	// Focus event fields
	Focused bool

	// Interrupt event payload
	Data any
}

// Backend defines the interface for display backends.
// Implementations handle actual drawing to the terminal or another surface.
type Backend interface {
	// Init initializes the backend for use.
	// Must be called before any other methods.
	Init() error

	// Shutdown releases backend resources and restores terminal state.
	Shutdown()

	// Size returns the current dimensions in cells.
	Size() (width, height int)

	// SetCell sets a single cell at the given position.
	// Positions outside the surface are silently ignored.
	SetCell(x, y int, cell core.Cell)

	// GetCell returns the cell at the given position.
	// Returns an empty cell for positions outside the surface.
	GetCell(x, y int) core.Cell

	// Fill sets every cell of rect to cell, clipped to the surface.
	Fill(rect core.ScreenRect, cell core.Cell)

	// Clear clears the entire surface with the default style.
	Clear()

	// Show flushes pending changes to the display.
	Show()

	// PollEvent waits for and returns the next event.
	// This is a blocking call. After Shutdown it returns EventNone.
	PollEvent() Event

	// PostEvent queues a synthetic event, typically an interrupt used to
	// wake the polling goroutine.
	PostEvent(event Event)

	// Suspend releases the terminal (job control).
	Suspend() error

	// Resume reacquires the terminal after Suspend.
	Resume() error
}

// NullBackend is an in-memory backend for tests and headless runs.
type NullBackend struct {
	mu            sync.Mutex
	width, height int
	cells         [][]core.Cell
	shows         int
	suspended     bool
	events        chan Event
	done          chan struct{}
	closeOnce     sync.Once
}

// NewNullBackend creates a null backend with the given dimensions.
func NewNullBackend(width, height int) *NullBackend {
	return &NullBackend{
		width:  width,
		height: height,
		events: make(chan Event, 100),
		done:   make(chan struct{}),
	}
}

func (b *NullBackend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.allocate()
	return nil
}

func (b *NullBackend) allocate() {
	b.cells = make([][]core.Cell, b.height)
	for i := range b.cells {
		b.cells[i] = make([]core.Cell, b.width)
		for j := range b.cells[i] {
			b.cells[i][j] = core.EmptyCell()
		}
	}
}

func (b *NullBackend) Shutdown() {
	b.closeOnce.Do(func() { close(b.done) })
}

func (b *NullBackend) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.width, b.height
}

func (b *NullBackend) SetCell(x, y int, cell core.Cell) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if x < 0 || y < 0 || y >= len(b.cells) || x >= len(b.cells[y]) {
		return
	}
	b.cells[y][x] = cell
	// A wide rune covers the next column, as on a terminal.
	if cell.Width == 2 && x+1 < len(b.cells[y]) {
		b.cells[y][x+1] = core.Cell{}
	}
}

func (b *NullBackend) GetCell(x, y int) core.Cell {
	b.mu.Lock()
	defer b.mu.Unlock()

	if x < 0 || y < 0 || y >= len(b.cells) || x >= len(b.cells[y]) {
		return core.EmptyCell()
	}
	return b.cells[y][x]
}

func (b *NullBackend) Fill(rect core.ScreenRect, cell core.Cell) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for y := max(rect.Top, 0); y < rect.Bottom && y < len(b.cells); y++ {
		for x := max(rect.Left, 0); x < rect.Right && x < len(b.cells[y]); x++ {
			b.cells[y][x] = cell
		}
	}
}

func (b *NullBackend) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.allocate()
}

func (b *NullBackend) Show() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.shows++
}

func (b *NullBackend) PollEvent() Event {
	select {
	case ev := <-b.events:
		return ev
	case <-b.done:
		return Event{Type: EventNone}
	}
}

func (b *NullBackend) PostEvent(event Event) {
	select {
	case b.events <- event:
	default:
		// best-effort; queue full
	}
}

func (b *NullBackend) Suspend() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.suspended = true
	return nil
}

func (b *NullBackend) Resume() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.suspended = false
	return nil
}

// Resize changes the surface size, keeping no content, and queues a resize
// event like a terminal would.
func (b *NullBackend) Resize(width, height int) {
	b.mu.Lock()
	b.width = width
	b.height = height
	b.allocate()
	b.mu.Unlock()

	b.PostEvent(Event{Type: EventResize, Width: width, Height: height})
}

// ShowCount returns how many times Show has been called.
func (b *NullBackend) ShowCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.shows
}

// IsSuspended returns true between Suspend and Resume.
func (b *NullBackend) IsSuspended() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.suspended
}

// RowText returns the runes of row y with trailing blanks trimmed.
func (b *NullBackend) RowText(y int) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if y < 0 || y >= len(b.cells) {
		return ""
	}
	var sb strings.Builder
	for _, c := range b.cells[y] {
		if c.Rune == 0 {
			continue
		}
		sb.WriteRune(c.Rune)
	}
	return strings.TrimRight(sb.String(), " ")
}
