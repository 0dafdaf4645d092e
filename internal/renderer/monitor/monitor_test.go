package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportVisibilityRoutesByTarget(t *testing.T) {
	h := NewHub()
	screen := NamedTarget("screen")
	other := NamedTarget("other")

	var got []VisibilityEntry
	_, err := h.WatchVisibility(screen, func(entries []VisibilityEntry) {
		got = append(got, entries...)
	})
	require.NoError(t, err)

	h.ReportVisibility(other, 1)
	assert.Empty(t, got)

	h.ReportVisibility(screen, 0, 0.5)
	require.Len(t, got, 2)
	assert.False(t, got[0].IsVisible())
	assert.True(t, got[1].IsVisible())
	assert.Equal(t, "screen", got[1].Target.Name())
}

func TestReportVisibilityWithoutRatios(t *testing.T) {
	h := NewHub()
	calls := 0
	_, err := h.WatchVisibility(NamedTarget("s"), func([]VisibilityEntry) { calls++ })
	require.NoError(t, err)

	h.ReportVisibility(NamedTarget("s"))
	assert.Equal(t, 0, calls)
}

func TestWatchDisposeRemovesWatcher(t *testing.T) {
	h := NewHub()

	calls := 0
	vis, err := h.WatchVisibility(NamedTarget("s"), func([]VisibilityEntry) { calls++ })
	require.NoError(t, err)
	ratio, err := h.WatchPixelRatio(func() { calls++ })
	require.NoError(t, err)

	v, r := h.WatcherCount()
	assert.Equal(t, 1, v)
	assert.Equal(t, 1, r)

	vis.Dispose()
	ratio.Dispose()
	vis.Dispose()

	h.ReportVisibility(NamedTarget("s"), 1)
	h.NotifyPixelRatio()
	assert.Equal(t, 0, calls)

	v, r = h.WatcherCount()
	assert.Equal(t, 0, v)
	assert.Equal(t, 0, r)
}

func TestNotifyPixelRatio(t *testing.T) {
	h := NewHub()

	var order []string
	_, err := h.WatchPixelRatio(func() { order = append(order, "a") })
	require.NoError(t, err)
	_, err = h.WatchPixelRatio(func() { order = append(order, "b") })
	require.NoError(t, err)

	h.NotifyPixelRatio()
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestWatchAfterClose(t *testing.T) {
	h := NewHub()
	h.Close()

	_, err := h.WatchVisibility(NamedTarget("s"), func([]VisibilityEntry) {})
	assert.ErrorIs(t, err, ErrClosed)

	_, err = h.WatchPixelRatio(func() {})
	assert.ErrorIs(t, err, ErrClosed)
}
