package registry

import (
	"sync"

	"github.com/ebitengine/purego"
)

var (
	tidOnce         sync.Once
	pthreadThreadID func(thread uintptr, id *uint64) int32
)

// CurrentThreadID returns the Mach thread id of the calling thread.
func CurrentThreadID() uint64 {
	tidOnce.Do(func() {
		lib, err := purego.Dlopen("/usr/lib/libSystem.B.dylib", purego.RTLD_GLOBAL)
		if err != nil {
			return
		}
		purego.RegisterLibFunc(&pthreadThreadID, lib, "pthread_threadid_np")
	})
	if pthreadThreadID == nil {
		return 0
	}
	var id uint64
	pthreadThreadID(0, &id)
	return id
}
