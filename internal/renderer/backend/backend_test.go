package backend

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/gridpaint/internal/renderer/core"
)

func TestNullBackendInit(t *testing.T) {
	b := NewNullBackend(80, 24)
	if err := b.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	w, h := b.Size()
	if w != 80 || h != 24 {
		t.Errorf("expected size (80, 24), got (%d, %d)", w, h)
	}
}

func TestNullBackendSetGetCell(t *testing.T) {
	b := NewNullBackend(80, 24)
	b.Init()

	cell := core.NewStyledCell('X', core.DefaultStyle().WithForeground(core.ColorFromRGB(255, 0, 0)))
	b.SetCell(10, 5, cell)

	got := b.GetCell(10, 5)
	if !got.Equals(cell) {
		t.Errorf("cell mismatch: expected %+v, got %+v", cell, got)
	}

	// Out of bounds should be ignored/return empty
	b.SetCell(-1, 0, cell)
	b.SetCell(100, 0, cell)

	empty := b.GetCell(-1, 0)
	if !empty.Equals(core.EmptyCell()) {
		t.Error("out of bounds should return empty cell")
	}
}

func TestNullBackendRowText(t *testing.T) {
	b := NewNullBackend(10, 2)
	b.Init()

	for i, r := range "hi" {
		b.SetCell(i, 0, core.NewCell(r))
	}
	b.SetCell(3, 1, core.NewCell('世'))
	b.SetCell(5, 1, core.NewCell('!'))

	if got := b.RowText(0); got != "hi" {
		t.Errorf("RowText(0) = %q, want %q", got, "hi")
	}
	if got := b.RowText(1); got != "   世!" {
		t.Errorf("RowText(1) = %q, want %q", got, "   世!")
	}
	if got := b.RowText(7); got != "" {
		t.Errorf("RowText out of range = %q, want empty", got)
	}
}

func TestNullBackendClearAndShow(t *testing.T) {
	b := NewNullBackend(80, 24)
	b.Init()

	b.SetCell(10, 10, core.NewCell('X'))
	b.Clear()
	b.Show()
	b.Show()

	if !b.GetCell(10, 10).Equals(core.EmptyCell()) {
		t.Error("clear should reset all cells")
	}
	if b.ShowCount() != 2 {
		t.Errorf("ShowCount() = %d, want 2", b.ShowCount())
	}
}

func TestNullBackendFillClips(t *testing.T) {
	b := NewNullBackend(10, 3)
	b.Init()

	b.Fill(core.NewScreenRect(1, 8, 5, 20), core.NewCell('#'))
	b.Fill(core.NewScreenRect(-1, -1, 1, 2), core.NewCell('*'))

	if got := b.RowText(0); got != "**" {
		t.Errorf("RowText(0) = %q, want %q", got, "**")
	}
	for y := 1; y < 3; y++ {
		if got := b.RowText(y); got != "        ##" {
			t.Errorf("RowText(%d) = %q, want %q", y, got, "        ##")
		}
	}
}

func TestNullBackendResizeQueuesEvent(t *testing.T) {
	b := NewNullBackend(80, 24)
	b.Init()

	b.Resize(100, 40)

	w, h := b.Size()
	if w != 100 || h != 40 {
		t.Errorf("expected size (100, 40), got (%d, %d)", w, h)
	}

	ev := b.PollEvent()
	if ev.Type != EventResize || ev.Width != 100 || ev.Height != 40 {
		t.Errorf("expected resize event (100, 40), got %+v", ev)
	}
}

func TestNullBackendPollAfterShutdown(t *testing.T) {
	b := NewNullBackend(80, 24)
	b.Init()

	b.Shutdown()
	b.Shutdown()

	if ev := b.PollEvent(); ev.Type != EventNone {
		t.Errorf("expected EventNone after shutdown, got %v", ev.Type)
	}
}

func TestNullBackendSuspendResume(t *testing.T) {
	b := NewNullBackend(80, 24)
	b.Init()

	if err := b.Suspend(); err != nil {
		t.Fatalf("Suspend failed: %v", err)
	}
	if !b.IsSuspended() {
		t.Error("backend should be suspended")
	}
	if err := b.Resume(); err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	if b.IsSuspended() {
		t.Error("backend should be resumed")
	}
}

func TestEventTypeString(t *testing.T) {
	tests := map[EventType]string{
		EventNone:      "none",
		EventKey:       "key",
		EventResize:    "resize",
		EventFocus:     "focus",
		EventInterrupt: "interrupt",
	}
	for et, want := range tests {
		if got := et.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", et, got, want)
		}
	}
}

func newSimTerminal(t *testing.T) (*Terminal, tcell.SimulationScreen) {
	t.Helper()

	sim := tcell.NewSimulationScreen("UTF-8")
	term := NewTerminalWithScreen(sim)
	if err := term.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	t.Cleanup(term.Shutdown)
	sim.SetSize(40, 10)
	return term, sim
}

func TestTerminalSetGetCell(t *testing.T) {
	term, _ := newSimTerminal(t)

	style := core.DefaultStyle().
		WithForeground(core.ColorFromRGB(10, 20, 30)).
		WithAttributes(core.AttrBold)
	term.SetCell(2, 3, core.NewStyledCell('Z', style))
	term.Show()

	got := term.GetCell(2, 3)
	if got.Rune != 'Z' {
		t.Errorf("rune = %q, want 'Z'", got.Rune)
	}
	if got.Style.Foreground != core.ColorFromRGB(10, 20, 30) {
		t.Errorf("foreground = %v, want #0a141e", got.Style.Foreground)
	}
	if !got.Style.Attributes.Has(core.AttrBold) {
		t.Error("bold attribute lost")
	}
}

func TestTerminalFill(t *testing.T) {
	term, _ := newSimTerminal(t)

	term.Fill(core.NewScreenRect(0, 38, 1, 45), core.NewCell('='))
	term.Show()

	for x := 38; x < 40; x++ {
		if got := term.GetCell(x, 0); got.Rune != '=' {
			t.Errorf("cell %d = %q, want '='", x, got.Rune)
		}
	}
	if got := term.GetCell(37, 0); got.Rune != ' ' {
		t.Errorf("cell 37 = %q, want blank", got.Rune)
	}
}

func TestTerminalKeyEvent(t *testing.T) {
	term, sim := newSimTerminal(t)

	sim.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	ev := term.PollEvent()
	for ev.Type == EventResize {
		ev = term.PollEvent()
	}

	if ev.Type != EventKey || ev.Key != KeyRune || ev.Rune != 'q' {
		t.Errorf("expected rune key 'q', got %+v", ev)
	}
}

func TestTerminalPostEventRoundTrip(t *testing.T) {
	term, _ := newSimTerminal(t)

	term.PostEvent(Event{Type: EventFocus, Focused: false})
	ev := term.PollEvent()
	for ev.Type == EventResize {
		ev = term.PollEvent()
	}

	if ev.Type != EventFocus || ev.Focused {
		t.Errorf("expected unfocused event, got %+v", ev)
	}
}

func TestConvertKey(t *testing.T) {
	tests := []struct {
		in   tcell.Key
		want Key
	}{
		{tcell.KeyRune, KeyRune},
		{tcell.KeyEscape, KeyEscape},
		{tcell.KeyEnter, KeyEnter},
		{tcell.KeyCtrlC, KeyCtrlC},
		{tcell.KeyCtrlL, KeyCtrlL},
		{tcell.KeyCtrlZ, KeyCtrlZ},
		{tcell.KeyF5, KeyOther},
	}
	for _, tt := range tests {
		if got := convertKey(tt.in); got != tt.want {
			t.Errorf("convertKey(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
