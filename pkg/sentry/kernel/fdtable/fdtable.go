// Copyright 2018 The gVisor Authors.
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

// Package fdtable implements the file-descriptor table (Component D): a
// fixed-capacity dense array of descriptor slots, adapted from gvisor's
// per-fd-bucket fd_table.go to the spec's simpler scan-from-zero fixed
// array rather than a growable sparse map.
package fdtable

import (
	"context"
	"sync"

	"github.com/lovejavaee/flinux/pkg/abi/linux"
	"github.com/lovejavaee/flinux/pkg/bitmap"
	"github.com/lovejavaee/flinux/pkg/errors/linuxerr"
	"github.com/lovejavaee/flinux/pkg/sentry/vfs"
)

// MaxFDCount is the fixed number of slots in an FDTable (spec.md §3's
// MAX_FD_COUNT). It is a compile-time constant rather than an
// ulimit-style runtime resource because this core does not model
// RLIMIT_NOFILE.
const MaxFDCount = 1024

// descriptor is one slot of the table: Option<(File, cloexec)> modelled
// as a nil file meaning an empty slot.
type descriptor struct {
	file    *vfs.FileDescription
	cloexec bool
}

// FDTable is the file-descriptor table (Component D). The zero value is
// not usable; construct with New.
type FDTable struct {
	mu   sync.Mutex
	slot [MaxFDCount]descriptor
	// used tracks which slots are occupied, letting Store and the dup(2)
	// path find the lowest free fd with bitmap.FirstZero instead of a
	// linear scan over slot.
	used bitmap.Bitmap
}

// New returns an empty FDTable.
func New() *FDTable {
	return &FDTable{used: bitmap.New(MaxFDCount)}
}

// allocate returns the lowest unoccupied fd, or -1 if the table is full.
// Caller must hold t.mu.
func (t *FDTable) allocate() int32 {
	fd, err := t.used.FirstZero(0)
	if err != nil || fd >= MaxFDCount {
		return -1
	}
	return int32(fd)
}

// Store installs file into the first empty slot and returns its fd. The
// caller's reference on file is transferred to the table: Store does not
// call IncRef. It returns linuxerr.TooManyOpenFiles if every slot is
// occupied.
func (t *FDTable) Store(file *vfs.FileDescription, cloexec bool) (int32, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fd := t.allocate()
	if fd < 0 {
		return -1, linuxerr.TooManyOpenFiles
	}
	t.slot[fd] = descriptor{file: file, cloexec: cloexec}
	t.used.Add(uint32(fd))
	return fd, nil
}

// Get returns the file installed at fd without taking a new reference, or
// nil if fd is out of range or the slot is empty.
func (t *FDTable) Get(fd int32) *vfs.FileDescription {
	t.mu.Lock()
	defer t.mu.Unlock()
	if fd < 0 || int(fd) >= MaxFDCount {
		return nil
	}
	return t.slot[fd].file
}

// GetCloexec returns the file and cloexec bit installed at fd, or (nil,
// false) if fd is out of range or the slot is empty.
func (t *FDTable) GetCloexec(fd int32) (*vfs.FileDescription, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if fd < 0 || int(fd) >= MaxFDCount {
		return nil, false
	}
	d := t.slot[fd]
	return d.file, d.cloexec
}

// SetCloexec sets the cloexec bit for fd. It reports false if fd is out
// of range or empty.
func (t *FDTable) SetCloexec(fd int32, cloexec bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if fd < 0 || int(fd) >= MaxFDCount || t.slot[fd].file == nil {
		return false
	}
	t.slot[fd].cloexec = cloexec
	return true
}

// Close releases the reference held at fd and clears the slot. It
// reports linuxerr.BadFd if fd is out of range or already empty.
func (t *FDTable) Close(ctx context.Context, fd int32) error {
	t.mu.Lock()
	if fd < 0 || int(fd) >= MaxFDCount || t.slot[fd].file == nil {
		t.mu.Unlock()
		return linuxerr.BadFd
	}
	file := t.slot[fd].file
	t.slot[fd] = descriptor{}
	t.used.Remove(uint32(fd))
	t.mu.Unlock()

	file.DecRef(ctx)
	return nil
}

// Dup installs a new reference to the file at fd under newFD. If newFD is
// -1, the first empty slot is used (equivalent to dup(2)); otherwise
// newFD must be in range and different from fd, and any prior occupant of
// newFD is closed first (dup2(2)/dup3(2) semantics). The O_CLOEXEC bit of
// flags becomes the new slot's cloexec bit.
func (t *FDTable) Dup(ctx context.Context, fd, newFD int32, flags uint32) (int32, error) {
	t.mu.Lock()
	if fd < 0 || int(fd) >= MaxFDCount || t.slot[fd].file == nil {
		t.mu.Unlock()
		return -1, linuxerr.BadFd
	}
	file := t.slot[fd].file
	cloexec := flags&linux.O_CLOEXEC != 0

	if newFD == -1 {
		candidate := t.allocate()
		if candidate < 0 {
			t.mu.Unlock()
			return -1, linuxerr.TooManyOpenFiles
		}
		file.IncRef()
		t.slot[candidate] = descriptor{file: file, cloexec: cloexec}
		t.used.Add(uint32(candidate))
		t.mu.Unlock()
		return candidate, nil
	}

	if newFD < 0 || int(newFD) >= MaxFDCount {
		t.mu.Unlock()
		return -1, linuxerr.BadFd
	}
	if newFD == fd {
		t.mu.Unlock()
		return -1, linuxerr.InvalidArgument
	}
	prior := t.slot[newFD].file
	file.IncRef()
	t.slot[newFD] = descriptor{file: file, cloexec: cloexec}
	t.used.Add(uint32(newFD))
	t.mu.Unlock()

	if prior != nil {
		prior.DecRef(ctx)
	}
	return newFD, nil
}

// ResetOnExec closes every slot whose cloexec bit is set, as performed
// across an exec-style transition (spec.md §4.4's reset_on_exec).
func (t *FDTable) ResetOnExec(ctx context.Context) {
	t.mu.Lock()
	var toClose []*vfs.FileDescription
	for fd := range t.slot {
		if t.slot[fd].file != nil && t.slot[fd].cloexec {
			toClose = append(toClose, t.slot[fd].file)
			t.slot[fd] = descriptor{}
			t.used.Remove(uint32(fd))
		}
	}
	t.mu.Unlock()

	for _, file := range toClose {
		file.DecRef(ctx)
	}
}

// Shutdown closes every open slot, releasing every reference the table
// holds. It is the terminal operation on an FDTable.
func (t *FDTable) Shutdown(ctx context.Context) {
	t.mu.Lock()
	var toClose []*vfs.FileDescription
	for fd := range t.slot {
		if t.slot[fd].file != nil {
			toClose = append(toClose, t.slot[fd].file)
			t.slot[fd] = descriptor{}
			t.used.Remove(uint32(fd))
		}
	}
	t.mu.Unlock()

	for _, file := range toClose {
		file.DecRef(ctx)
	}
}
