//go:build !linux && !windows && !darwin

package registry

// CurrentThreadID returns 0: without a thread id every caller shares one
// registry.
func CurrentThreadID() uint64 {
	return 0
}
