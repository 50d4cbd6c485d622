// Copyright 2019 The gVisor Authors.
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

package vfs

import (
	"context"

	"github.com/lovejavaee/flinux/pkg/abi/linux"
	"github.com/lovejavaee/flinux/pkg/errors/linuxerr"
	"github.com/lovejavaee/flinux/pkg/refcount"
)

// PollStatus is a bitmask of ready poll events, using the Linux POLL*
// constant values directly so it can be returned to the syscall boundary
// without translation.
type PollStatus uint32

// FileOps is the per-open-file vtable (spec "File object" data model,
// §3): a capability record like FilesystemOps, with nil fields meaning
// "not supported" at that file rather than an error-returning method.
type FileOps struct {
	Read     func(ctx context.Context, dst []byte) (int64, error)
	Write    func(ctx context.Context, src []byte) (int64, error)
	PRead    func(ctx context.Context, dst []byte, offset int64) (int64, error)
	PWrite   func(ctx context.Context, src []byte, offset int64) (int64, error)
	Seek     func(ctx context.Context, offset int64, whence int32) (int64, error)
	Stat     func(ctx context.Context) (linux.Stat, error)
	StatFS   func(ctx context.Context) (linux.Statfs, error)
	GetDents func(ctx context.Context, maxBytes int) ([]byte, error)
	Ioctl    func(ctx context.Context, cmd uint32, arg uintptr) (uintptr, error)
	UtimeNS  func(ctx context.Context, atime, mtime linux.Timespec) error
	Close    func(ctx context.Context) error

	// PollHandle returns a host object suitable for use in a
	// WaitForMultipleObjects-style wait (the Windows analogue of
	// epoll_ctl's struct epoll_event registration), or nil if this file
	// never becomes ready asynchronously and must be polled by
	// PollStatus alone.
	PollHandle func() uintptr

	// PollStatus returns the currently-ready poll events for this file
	// without blocking.
	PollStatus func() PollStatus
}

// FileDescription is an opened file object (spec "File object" data
// model, §3): reference-counted, holding guest-visible open flags and a
// FileOps vtable. It is shared by every fdtable slot that refers to the
// same open (e.g. after dup), but never by two independent opens of the
// same path.
type FileDescription struct {
	refcount.AtomicRefCount

	// ops is immutable after construction.
	ops FileOps

	// flags holds the guest-visible open(2) flags (O_APPEND, O_NONBLOCK,
	// ...); it excludes O_CLOEXEC, which lives on the fdtable slot
	// instead since it is per-descriptor, not per-file (spec §3).
	flags uint32
}

// NewFileDescription wraps ops into a FileDescription holding one
// reference, as returned by FilesystemOps.Open or a pipe/socket
// allocator.
func NewFileDescription(ops FileOps, flags uint32) *FileDescription {
	return &FileDescription{ops: ops, flags: flags &^ linux.O_CLOEXEC}
}

// StatusFlags returns the guest-visible open flags.
func (fd *FileDescription) StatusFlags() uint32 { return fd.flags }

// SetStatusFlags updates the guest-visible open flags (fcntl F_SETFL).
func (fd *FileDescription) SetStatusFlags(flags uint32) {
	fd.flags = flags &^ linux.O_CLOEXEC
}

// DecRef drops one reference, invoking the file's Close op exactly once
// when the last reference is released.
func (fd *FileDescription) DecRef(ctx context.Context) {
	fd.AtomicRefCount.DecRef(func() {
		if fd.ops.Close != nil {
			if err := fd.ops.Close(ctx); err != nil {
				// Close errors on the last reference have no guest
				// syscall to propagate to; this mirrors close(2)'s own
				// "errors after the fd is gone are unrecoverable" shape.
				_ = err
			}
		}
	})
}

func notSupported() error { return linuxerr.NotSupported }

// Read calls the file's Read op, or returns NotSupported.
func (fd *FileDescription) Read(ctx context.Context, dst []byte) (int64, error) {
	if fd.ops.Read == nil {
		return 0, notSupported()
	}
	return fd.ops.Read(ctx, dst)
}

// Write calls the file's Write op, or returns NotSupported.
func (fd *FileDescription) Write(ctx context.Context, src []byte) (int64, error) {
	if fd.ops.Write == nil {
		return 0, notSupported()
	}
	return fd.ops.Write(ctx, src)
}

// PRead calls the file's PRead op, or returns ESPIPE-shaped NotSupported
// (files without PRead, like pipes, are exactly those for which llseek is
// also absent).
func (fd *FileDescription) PRead(ctx context.Context, dst []byte, offset int64) (int64, error) {
	if fd.ops.PRead == nil {
		return 0, notSupported()
	}
	return fd.ops.PRead(ctx, dst, offset)
}

// PWrite calls the file's PWrite op, or returns NotSupported.
func (fd *FileDescription) PWrite(ctx context.Context, src []byte, offset int64) (int64, error) {
	if fd.ops.PWrite == nil {
		return 0, notSupported()
	}
	return fd.ops.PWrite(ctx, src, offset)
}

// Seek calls the file's Seek op, or returns NotSupported (mapped to
// ESPIPE at the syscall boundary per spec §9's "EBADF-on-absent-vtable"
// replacement note).
func (fd *FileDescription) Seek(ctx context.Context, offset int64, whence int32) (int64, error) {
	if fd.ops.Seek == nil {
		return 0, notSupported()
	}
	return fd.ops.Seek(ctx, offset, whence)
}

// Stat calls the file's Stat op, or returns NotSupported.
func (fd *FileDescription) Stat(ctx context.Context) (linux.Stat, error) {
	if fd.ops.Stat == nil {
		return linux.Stat{}, notSupported()
	}
	return fd.ops.Stat(ctx)
}

// StatFS calls the file's StatFS op, or returns NotSupported.
func (fd *FileDescription) StatFS(ctx context.Context) (linux.Statfs, error) {
	if fd.ops.StatFS == nil {
		return linux.Statfs{}, notSupported()
	}
	return fd.ops.StatFS(ctx)
}

// GetDents calls the file's GetDents op, or returns NotSupported (mapped
// to ENOTDIR at the syscall boundary for non-directories).
func (fd *FileDescription) GetDents(ctx context.Context, maxBytes int) ([]byte, error) {
	if fd.ops.GetDents == nil {
		return nil, notSupported()
	}
	return fd.ops.GetDents(ctx, maxBytes)
}

// Ioctl calls the file's Ioctl op, or returns NotSupported (mapped to
// ENOTTY at the syscall boundary per spec §9).
func (fd *FileDescription) Ioctl(ctx context.Context, cmd uint32, arg uintptr) (uintptr, error) {
	if fd.ops.Ioctl == nil {
		return 0, notSupported()
	}
	return fd.ops.Ioctl(ctx, cmd, arg)
}

// UtimeNS calls the file's UtimeNS op, or returns NotSupported.
func (fd *FileDescription) UtimeNS(ctx context.Context, atime, mtime linux.Timespec) error {
	if fd.ops.UtimeNS == nil {
		return notSupported()
	}
	return fd.ops.UtimeNS(ctx, atime, mtime)
}

// PollHandle returns a waitable host handle for this file, or 0 if the
// file has none.
func (fd *FileDescription) PollHandle() uintptr {
	if fd.ops.PollHandle == nil {
		return 0
	}
	return fd.ops.PollHandle()
}

// PollStatus returns the file's currently-ready poll events.
func (fd *FileDescription) PollStatus() PollStatus {
	if fd.ops.PollStatus == nil {
		return 0
	}
	return fd.ops.PollStatus()
}
