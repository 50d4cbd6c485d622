// Copyright 2026 The gVisor Authors.
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
)

// FilesystemOps is a capability record for a mounted filesystem: a struct
// of nullable operation fields rather than an interface, so that a
// filesystem that doesn't support an operation (e.g. a read-only synthetic
// filesystem's Symlink) simply leaves that field nil instead of providing a
// method that unconditionally returns an error. Dispatch through a nil
// field is "not supported" at that component, per the capability-record
// design in this project's replace-vtable-via-function-pointer note.
type FilesystemOps struct {
	// Name identifies the filesystem kind, for diagnostics and statfs.
	Name string

	// Open opens subpath, which is path relative to this filesystem's
	// mountpoint with any leading '/' already stripped by the registry.
	//
	// On success, file is a freshly opened FileDescription holding one
	// reference and symlinkTarget is empty.
	//
	// If the leaf component of subpath is a symlink and flags does not
	// request O_NOFOLLOW-style no-follow behavior for the caller's
	// purposes, Open may instead return a non-empty symlinkTarget (file
	// nil, err nil): the resolver re-normalises and re-enters its loop
	// with that target, exactly like any other symlink encountered along
	// the path.
	Open func(ctx context.Context, subpath string, flags uint32, mode linux.FileMode) (file *FileDescription, symlinkTarget string, err error)

	// Link creates a new hard link at newpath pointing to the file at
	// oldpath (Both paths are relative to this filesystem's mountpoint;
	// cross-filesystem links are rejected by the resolver before Link is
	// ever called, with EXDEV).
	Link func(ctx context.Context, oldpath, newpath string) error

	// Unlink removes the directory entry at subpath. It must not follow a
	// symlink at the leaf: unlinking a symlink removes the link itself.
	Unlink func(ctx context.Context, subpath string) error

	// Symlink creates a new symbolic link at subpath with the literal
	// target text target (not resolved or validated).
	Symlink func(ctx context.Context, subpath, target string) error

	// Readlink returns the literal target text of the symlink at subpath.
	// It is called both as the directly-invoked readlink(2)/readlinkat(2)
	// syscall entry and, internally, by the resolver's component-symlink
	// probe — two distinct callers sharing one filesystem operation.
	Readlink func(ctx context.Context, subpath string) (target string, err error)

	// Mkdir creates a new, empty directory at subpath with the given
	// mode.
	Mkdir func(ctx context.Context, subpath string, mode linux.FileMode) error

	// Rmdir removes the empty directory at subpath.
	Rmdir func(ctx context.Context, subpath string) error

	// Rename moves the file or directory at oldpath to newpath, both
	// relative to this filesystem's mountpoint.
	Rename func(ctx context.Context, oldpath, newpath string) error

	// StatFS returns filesystem-wide statistics (f_type, f_bsize, ...)
	// for statfs(2)/fstatfs(2).
	StatFS func(ctx context.Context) (linux.Statfs, error)
}
