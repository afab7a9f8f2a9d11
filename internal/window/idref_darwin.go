//go:build darwin

package window

import (
	"sync"

	"github.com/ebitengine/purego/objc"
)

// idRef owns one reference to an Objective-C object and releases it
// exactly once.
type idRef struct {
	id   objc.ID
	once sync.Once
}

// retainID takes a new reference to id.
func retainID(id objc.ID) *idRef {
	if id != 0 {
		id.Send(selRetain)
	}
	return &idRef{id: id}
}

// adoptID takes over a reference the caller already owns (alloc/init,
// copy, or a prior retain).
func adoptID(id objc.ID) *idRef {
	return &idRef{id: id}
}

func (r *idRef) ID() objc.ID {
	if r == nil {
		return 0
	}
	return r.id
}

// Release drops the reference. Later calls do nothing.
func (r *idRef) Release() {
	if r == nil {
		return
	}
	r.once.Do(func() {
		if r.id != 0 {
			r.id.Send(selRelease)
		}
	})
}
