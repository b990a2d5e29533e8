//go:build unix

package sandbox

import "golang.org/x/sys/unix"

// Worker resource ceilings, applied before evaluation begins.
const (
	workerCPUSeconds = 2
	workerMemBytes   = 200 << 20
)

// ApplyLimits caps the worker's CPU time and address space. Failures are
// ignored; the parent's wall-clock timeout still bounds the run.
func ApplyLimits() {
	_ = unix.Setrlimit(unix.RLIMIT_CPU, &unix.Rlimit{Cur: workerCPUSeconds, Max: workerCPUSeconds})
	_ = unix.Setrlimit(unix.RLIMIT_AS, &unix.Rlimit{Cur: workerMemBytes, Max: workerMemBytes})
}
