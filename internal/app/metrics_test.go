package app

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/gridpaint/internal/renderer/coordinator"
)

type countingRenderer struct {
	rows int
}

func (r *countingRenderer) RenderRows(start, end int)          { r.rows += end - start + 1 }
func (r *countingRenderer) OnDevicePixelRatioChange()          {}
func (r *countingRenderer) OnOptionsChanged()                  {}
func (r *countingRenderer) Dimensions() coordinator.Dimensions { return coordinator.Dimensions{} }

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordPaint(2 * time.Millisecond)
	m.RecordPaint(4 * time.Millisecond)
	m.RecordEvent(time.Millisecond)
	m.RecordResize()
	m.RecordReload(nil)
	m.RecordReload(errors.New("bad"))
	m.RecordLine()

	s := m.Snapshot()
	assert.Equal(t, uint64(2), s.Paints)
	assert.Equal(t, 3*time.Millisecond, s.PaintAvg)
	assert.Equal(t, 4*time.Millisecond, s.PaintMax)
	assert.Equal(t, uint64(1), s.Events)
	assert.Equal(t, time.Millisecond, s.EventAvg)
	assert.Equal(t, uint64(1), s.Resizes)
	assert.Equal(t, uint64(1), s.Reloads)
	assert.Equal(t, uint64(1), s.ReloadErrors)
	assert.Equal(t, uint64(1), s.LinesIn)
}

func TestTimedRendererRecordsPaints(t *testing.T) {
	inner := &countingRenderer{}
	m := NewMetrics()
	r := timedRenderer{Renderer: inner, metrics: m}

	r.RenderRows(0, 4)
	r.RenderRows(7, 7)

	assert.Equal(t, 6, inner.rows)
	assert.Equal(t, uint64(2), m.Snapshot().Paints)
}

func TestSanitizeLine(t *testing.T) {
	assert.Equal(t, "a\tb", sanitizeLine("a\tb"))
	assert.Equal(t, "ok", sanitizeLine("o\x1bk\r"))
}
