//go:build !unix

package app

// suspendProcess is a no-op where job control is unavailable.
func suspendProcess() {}
