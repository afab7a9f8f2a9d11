package registry

import "golang.org/x/sys/unix"

// CurrentThreadID returns the kernel id of the calling thread.
func CurrentThreadID() uint64 {
	return uint64(unix.Gettid())
}
