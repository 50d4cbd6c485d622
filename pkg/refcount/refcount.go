// Copyright 2020 The gVisor Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package refcount implements the atomic reference-count pattern shared by
// every object in this core whose lifetime is not tied to a single owner:
// opened files, duplicated descriptors, and borrowed handles.
package refcount

import (
	"github.com/lovejavaee/flinux/pkg/atomicbitops"
	"github.com/lovejavaee/flinux/pkg/log"
)

// AtomicRefCount keeps a reference count using atomic operations and calls
// a destructor exactly once when the count reaches zero.
//
// The zero value holds one reference, matching vfs_ref semantics: the
// object returned by FS.open already holds the reference the fd table (or
// borrower) is expected to release.
type AtomicRefCount struct {
	// refCount is count - 1: a fresh AtomicRefCount has refCount == 0 but
	// ReadRefs reports 1. Stored via atomicbitops.Int64 rather than
	// sync/atomic directly so this type follows the struct-alignment
	// conventions atomicbitops enforces for 32-bit hosts.
	refCount atomicbitops.Int64
}

// ReadRefs returns the current reference count. Racy without external
// synchronization; intended for diagnostics and tests.
func (r *AtomicRefCount) ReadRefs() int64 {
	return r.refCount.Load() + 1
}

// IncRef adds a reference. Callers must already hold at least one
// reference (e.g. vfs_ref on a borrowed handle, or dup on an fd-table
// slot); IncRef on an object that may have already reached zero is
// TryIncRef's job, not this one.
func (r *AtomicRefCount) IncRef() {
	if v := r.refCount.Add(1); v <= 0 {
		panic("refcount: IncRef on non-positive reference count")
	}
}

// TryIncRef attempts to acquire a reference on an object that may
// concurrently be racing to zero, without a compare-and-swap loop: it adds
// a speculative reference first, then either converts it to a real one or
// backs it out.
func (r *AtomicRefCount) TryIncRef() bool {
	const speculative = 1 << 32
	v := r.refCount.Add(speculative)
	if int32(v) < 0 {
		r.refCount.Add(-speculative)
		return false
	}
	r.refCount.Add(-speculative + 1)
	return true
}

// DecRef releases a reference, invoking destroy (if non-nil) exactly once
// when the count reaches zero. destroy runs synchronously on the caller
// that drops the last reference.
func (r *AtomicRefCount) DecRef(destroy func()) {
	switch v := r.refCount.Add(-1); {
	case v < -1:
		panic("refcount: DecRef on non-positive reference count")
	case v == -1:
		if destroy != nil {
			destroy()
		}
	}
}

// LeakCheck logs a warning if r is being discarded (e.g. a test helper
// tearing down a fixture) while still holding outstanding references. It
// is a lightweight stand-in for finalizer-based leak checking: this core
// runs as a single long-lived process rather than a GC-heavy server, so a
// runtime.SetFinalizer-based checker buys little over an explicit call at
// known teardown points (Core.Shutdown, FDTable.Shutdown).
func (r *AtomicRefCount) LeakCheck(owner string) {
	if n := r.ReadRefs(); n != 0 {
		log.Warningf("refcount: %s destroyed with %d references outstanding (want 0)", owner, n)
	}
}
