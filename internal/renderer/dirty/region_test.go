package dirty

import (
	"testing"
)

func TestNewRowRange(t *testing.T) {
	t.Run("normal order", func(t *testing.T) {
		r := NewRowRange(5, 10)
		if r.Start != 5 || r.End != 10 {
			t.Errorf("NewRowRange(5, 10) = %v, want [5,10]", r)
		}
	})

	t.Run("reversed order", func(t *testing.T) {
		r := NewRowRange(10, 5)
		if r.Start != 5 || r.End != 10 {
			t.Errorf("NewRowRange(10, 5) should swap to [5,10], got %v", r)
		}
	})
}

func TestFullRange(t *testing.T) {
	r := FullRange(50)
	if r.Start != 0 || r.End != 49 {
		t.Errorf("FullRange(50) = %v, want [0,49]", r)
	}
	if !FullRange(0).IsEmpty() {
		t.Error("FullRange(0) should be empty")
	}
}

func TestRowRangeLen(t *testing.T) {
	tests := []struct {
		name string
		r    RowRange
		want int
	}{
		{"single", SingleRow(3), 1},
		{"several", RowRange{Start: 2, End: 5}, 4},
		{"empty", RowRange{Start: 1, End: 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Len(); got != tt.want {
				t.Errorf("Len() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRowRangeUnion(t *testing.T) {
	tests := []struct {
		name string
		a, b RowRange
		want RowRange
	}{
		{"disjoint", RowRange{3, 3}, RowRange{10, 12}, RowRange{3, 12}},
		{"overlapping", RowRange{2, 6}, RowRange{4, 9}, RowRange{2, 9}},
		{"contained", RowRange{0, 20}, RowRange{4, 9}, RowRange{0, 20}},
		{"empty left", RowRange{1, 0}, RowRange{4, 9}, RowRange{4, 9}},
		{"empty right", RowRange{4, 9}, RowRange{1, 0}, RowRange{4, 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Union(tt.b); got != tt.want {
				t.Errorf("%v.Union(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestRowRangeClamp(t *testing.T) {
	tests := []struct {
		name     string
		r        RowRange
		rowCount int
		want     RowRange
		ok       bool
	}{
		{"inside", RowRange{2, 5}, 10, RowRange{2, 5}, true},
		{"past end", RowRange{5, 40}, 10, RowRange{5, 9}, true},
		{"negative start", RowRange{-3, 4}, 10, RowRange{0, 4}, true},
		{"fully outside", RowRange{12, 14}, 10, RowRange{12, 9}, false},
		{"no rows", RowRange{0, 4}, 0, RowRange{0, -1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.r.Clamp(tt.rowCount)
			if ok != tt.ok {
				t.Fatalf("Clamp(%d) ok = %v, want %v", tt.rowCount, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("Clamp(%d) = %v, want %v", tt.rowCount, got, tt.want)
			}
		})
	}
}

func TestRowRangeContainsAndOverlaps(t *testing.T) {
	r := RowRange{Start: 4, End: 8}

	if !r.Contains(4) || !r.Contains(8) {
		t.Error("range should contain its bounds")
	}
	if r.Contains(3) || r.Contains(9) {
		t.Error("range should not contain rows outside its bounds")
	}
	if !r.Overlaps(RowRange{8, 12}) {
		t.Error("ranges sharing a row should overlap")
	}
	if r.Overlaps(RowRange{9, 12}) {
		t.Error("adjacent ranges should not overlap")
	}
	if r.Overlaps(RowRange{6, 5}) {
		t.Error("empty range should not overlap")
	}
}

func TestRowRangeString(t *testing.T) {
	if got := NewRowRange(3, 12).String(); got != "[3,12]" {
		t.Errorf("String() = %q, want %q", got, "[3,12]")
	}
}
