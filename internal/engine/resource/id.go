// Package resource assigns stable identities to renderer resources.
//
// The handle cache keys GPU objects by these identities rather than by
// Go pointer values, so a descriptor can re-key itself (and be treated
// as a brand new resource) without the cache ever seeing aliasing.
package resource

import "sync/atomic"

// ID uniquely identifies a logical resource for handle caching.
// IDs are never reused within a process.
type ID uint64

var counter atomic.Uint64

// NewID returns a fresh, process-unique resource identity.
func NewID() ID {
	return ID(counter.Add(1))
}
