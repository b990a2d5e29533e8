//go:build !unix

package sandbox

import "syscall"

func sessionAttr() *syscall.SysProcAttr {
	return nil
}
