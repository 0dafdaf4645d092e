package app

import (
	"sync/atomic"
	"time"

	"github.com/dshills/gridpaint/internal/renderer/coordinator"
)

// Metrics counts application activity. Counters are safe for concurrent use.
type Metrics struct {
	paintCount   atomic.Uint64
	paintTotalNs atomic.Int64
	paintMaxNs   atomic.Int64

	eventCount   atomic.Uint64
	eventTotalNs atomic.Int64

	resizes      atomic.Uint64
	reloads      atomic.Uint64
	reloadErrors atomic.Uint64
	linesIn      atomic.Uint64

	startTime time.Time
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Paints       uint64
	PaintAvg     time.Duration
	PaintMax     time.Duration
	Events       uint64
	EventAvg     time.Duration
	Resizes      uint64
	Reloads      uint64
	ReloadErrors uint64
	LinesIn      uint64
	Uptime       time.Duration
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordPaint records the duration of one RenderRows call.
func (m *Metrics) RecordPaint(d time.Duration) {
	ns := d.Nanoseconds()
	m.paintCount.Add(1)
	m.paintTotalNs.Add(ns)

	for {
		old := m.paintMaxNs.Load()
		if ns <= old {
			break
		}
		if m.paintMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordEvent records the handling time of one backend event.
func (m *Metrics) RecordEvent(d time.Duration) {
	m.eventCount.Add(1)
	m.eventTotalNs.Add(d.Nanoseconds())
}

// RecordResize counts a terminal resize.
func (m *Metrics) RecordResize() { m.resizes.Add(1) }

// RecordReload counts a config reload; failed reloads count separately.
func (m *Metrics) RecordReload(err error) {
	if err != nil {
		m.reloadErrors.Add(1)
		return
	}
	m.reloads.Add(1)
}

// RecordLine counts a line read from the source.
func (m *Metrics) RecordLine() { m.linesIn.Add(1) }

// Snapshot returns the current values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		Paints:       m.paintCount.Load(),
		PaintMax:     time.Duration(m.paintMaxNs.Load()),
		Events:       m.eventCount.Load(),
		Resizes:      m.resizes.Load(),
		Reloads:      m.reloads.Load(),
		ReloadErrors: m.reloadErrors.Load(),
		LinesIn:      m.linesIn.Load(),
		Uptime:       time.Since(m.startTime),
	}
	if s.Paints > 0 {
		s.PaintAvg = time.Duration(m.paintTotalNs.Load() / int64(s.Paints))
	}
	if s.Events > 0 {
		s.EventAvg = time.Duration(m.eventTotalNs.Load() / int64(s.Events))
	}
	return s
}

// timedRenderer records paint durations of the wrapped renderer.
type timedRenderer struct {
	coordinator.Renderer
	metrics *Metrics
}

func (r timedRenderer) RenderRows(start, end int) {
	begin := time.Now()
	r.Renderer.RenderRows(start, end)
	r.metrics.RecordPaint(time.Since(begin))
}
