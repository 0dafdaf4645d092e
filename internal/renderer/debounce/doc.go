// Package debounce coalesces row refresh requests into paint callbacks.
//
// A Debouncer accepts any number of Refresh calls and folds them into one
// pending row range. The first request of a tick asks the Scheduler for a
// flush; when the flush runs, the merged range is clamped to the current
// row count and handed to the paint callback exactly once.
//
// Schedulers decide what a "tick" is. FrameScheduler posts flushes to an
// event loop at the configured frame rate; ManualScheduler holds them until
// Tick is called, which suits headless runs and tests.
package debounce
