//go:build unix

package app

import "syscall"

// suspendProcess stops the process until it receives SIGCONT.
func suspendProcess() {
	_ = syscall.Kill(syscall.Getpid(), syscall.SIGTSTP)
}
