// Package dirty provides row range bookkeeping for incremental rendering.
// It describes which rows of the display need to be repainted and merges
// pending ranges into their covering superset.
package dirty

import "fmt"

// RowRange is an inclusive range of display rows that needs repainting.
type RowRange struct {
	// Start is the first row of the range (inclusive).
	Start int

	// End is the last row of the range (inclusive).
	End int
}

// NewRowRange creates a row range, swapping the bounds if they are reversed.
func NewRowRange(start, end int) RowRange {
	if end < start {
		start, end = end, start
	}
	return RowRange{Start: start, End: end}
}

// SingleRow creates a range covering one row.
func SingleRow(row int) RowRange {
	return RowRange{Start: row, End: row}
}

// FullRange returns the range covering every row of a surface with rowCount rows.
// The result is empty when rowCount is zero or negative.
func FullRange(rowCount int) RowRange {
	return RowRange{Start: 0, End: rowCount - 1}
}

// IsEmpty returns true if the range covers no rows.
func (r RowRange) IsEmpty() bool {
	return r.Start > r.End
}

// Len returns the number of rows covered by the range.
func (r RowRange) Len() int {
	if r.IsEmpty() {
		return 0
	}
	return r.End - r.Start + 1
}

// Contains returns true if the range covers the given row.
func (r RowRange) Contains(row int) bool {
	return row >= r.Start && row <= r.End
}

// Overlaps returns true if two ranges share at least one row.
func (r RowRange) Overlaps(other RowRange) bool {
	if r.IsEmpty() || other.IsEmpty() {
		return false
	}
	return r.End >= other.Start && r.Start <= other.End
}

// Union returns the smallest range covering both ranges.
// Gaps between disjoint ranges are included; an empty operand is ignored.
func (r RowRange) Union(other RowRange) RowRange {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	return RowRange{
		Start: min(r.Start, other.Start),
		End:   max(r.End, other.End),
	}
}

// Clamp limits the range to [0, rowCount-1].
// The second result is false when nothing of the range is left.
func (r RowRange) Clamp(rowCount int) (RowRange, bool) {
	clamped := RowRange{
		Start: max(r.Start, 0),
		End:   min(r.End, rowCount-1),
	}
	if clamped.IsEmpty() {
		return clamped, false
	}
	return clamped, true
}

// String returns the range as "[start,end]".
func (r RowRange) String() string {
	return fmt.Sprintf("[%d,%d]", r.Start, r.End)
}
