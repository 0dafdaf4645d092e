package grid

import "github.com/dshills/gridpaint/internal/renderer/core"

// DefaultTabWidth is the default distance between tab stops.
const DefaultTabWidth = 4

// TabStops places a tab stop every Width columns.
type TabStops struct {
	width int
}

// NewTabStops creates tab stops width columns apart.
// Widths below 1 fall back to DefaultTabWidth.
func NewTabStops(width int) TabStops {
	if width < 1 {
		width = DefaultTabWidth
	}
	return TabStops{width: width}
}

// Width returns the distance between tab stops.
func (t TabStops) Width() int {
	return t.width
}

// Next returns the next tab stop column after col.
func (t TabStops) Next(col int) int {
	return col + t.Offset(col)
}

// Offset returns how many columns a tab at col expands to.
func (t TabStops) Offset(col int) int {
	return t.width - col%t.width
}

// ExpandedWidth returns the display width of s with tabs expanded.
func (t TabStops) ExpandedWidth(s string) int {
	col := 0
	for _, r := range s {
		if r == '\t' {
			col = t.Next(col)
			continue
		}
		col += core.RuneWidth(r)
	}
	return col
}

// Expand returns s with tabs replaced by spaces.
func (t TabStops) Expand(s string) string {
	out := make([]rune, 0, len(s))
	col := 0
	for _, r := range s {
		if r == '\t' {
			for n := t.Offset(col); n > 0; n-- {
				out = append(out, ' ')
			}
			col = t.Next(col)
			continue
		}
		out = append(out, r)
		col += core.RuneWidth(r)
	}
	return string(out)
}
