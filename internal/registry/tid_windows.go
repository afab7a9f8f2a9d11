package registry

import "golang.org/x/sys/windows"

// CurrentThreadID returns the Win32 id of the calling thread.
func CurrentThreadID() uint64 {
	return uint64(windows.GetCurrentThreadId())
}
