package media

import (
	"github.com/google/uuid"
)

// Locator is a process-local handle to a loaded file, shaped like a blob URL.
// It resolves only while the lease that issued it is live.
type Locator string

// Reference is the currently loaded media.
type Reference struct {
	File    File
	Kind    Kind
	Locator Locator
}

// IsZero reports whether no media is loaded.
func (r Reference) IsZero() bool {
	return r.Locator == ""
}

// IsVideo reports whether the loaded media is a video.
func (r Reference) IsVideo() bool {
	return !r.IsZero() && r.Kind == KindVideo
}

// AllocatorStats counts locator traffic.
type AllocatorStats struct {
	Created     int
	Released    int
	Outstanding int
}

// Allocator issues and releases locators. It is not safe for concurrent use;
// all calls happen on the UI event loop.
type Allocator struct {
	live     map[Locator]File
	created  int
	released int

	// OnRelease, when set, is called after a locator is released.
	OnRelease func(Locator)
}

// NewAllocator returns an empty allocator.
func NewAllocator() *Allocator {
	return &Allocator{live: make(map[Locator]File)}
}

// Allocate issues a new locator for f. The caller owns the returned lease and
// must release it exactly once.
func (a *Allocator) Allocate(f File) *Lease {
	if a.live == nil {
		a.live = make(map[Locator]File)
	}
	loc := Locator("blob:" + uuid.NewString())
	a.live[loc] = f
	a.created++
	return &Lease{alloc: a, locator: loc}
}

// Resolve returns the file behind loc while its lease is live.
func (a *Allocator) Resolve(loc Locator) (File, bool) {
	f, ok := a.live[loc]
	return f, ok
}

// Stats returns creation and release counts.
func (a *Allocator) Stats() AllocatorStats {
	return AllocatorStats{
		Created:     a.created,
		Released:    a.released,
		Outstanding: len(a.live),
	}
}

func (a *Allocator) release(loc Locator) {
	if _, ok := a.live[loc]; !ok {
		return
	}
	delete(a.live, loc)
	a.released++
	if a.OnRelease != nil {
		a.OnRelease(loc)
	}
}

// Lease owns one locator.
type Lease struct {
	alloc    *Allocator
	locator  Locator
	released bool
}

// Locator returns the leased locator.
func (l *Lease) Locator() Locator {
	return l.locator
}

// Release frees the locator. Only the first call has an effect; it reports
// whether this call performed the release.
func (l *Lease) Release() bool {
	if l == nil || l.released {
		return false
	}
	l.released = true
	l.alloc.release(l.locator)
	return true
}

// Released reports whether the lease has been released.
func (l *Lease) Released() bool {
	return l == nil || l.released
}
