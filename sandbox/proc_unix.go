//go:build unix

package sandbox

import "syscall"

// sessionAttr puts the worker in its own session, detaching it from the
// parent's terminal and signal group.
func sessionAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}
