//go:build !unix

package sandbox

// ApplyLimits is a no-op on platforms without POSIX resource limits.
func ApplyLimits() {}
