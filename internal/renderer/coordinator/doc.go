// Package coordinator decides when and over which rows the grid is repainted.
//
// The Coordinator sits between a model that reports changed rows and a
// Renderer that can paint a row range. Refresh requests are coalesced by a
// debounce.Debouncer so that every request made before a tick boundary is
// painted once, as the union of the requested ranges.
//
// While the surface is not visible the coordinator is paused: requests only
// set a pending flag, and the first visibility report after the pause issues
// one full-range catch-up refresh. Ranges requested during the pause are not
// tracked individually.
//
// Resize and ChangeOptions compare the renderer's pixel dimensions with the
// last reported ones and raise a canvas-resize notification only when either
// axis actually changed.
//
// A Coordinator is not safe for concurrent use. Construct it, call it and
// let its monitors and scheduler call back on a single event loop.
package coordinator
