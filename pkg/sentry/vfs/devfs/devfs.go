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

// Package devfs provides the small set of device special files a guest
// process expects under /dev (null, zero, full, random, urandom).
// Grounded on gvisor's pkg/sentry/fsimpl/dev, reduced from its
// devtmpfs-backed directory tree (full mount namespace, symlinks to
// /proc/self/fd, VFS2 dentries) to a flat table of named devices, since
// this core has no /proc and a single mountpoint per filesystem.
package devfs

import (
	"context"
	"crypto/rand"
	"io"

	"github.com/lovejavaee/flinux/pkg/abi/linux"
	"github.com/lovejavaee/flinux/pkg/errors/linuxerr"
	"github.com/lovejavaee/flinux/pkg/sentry/vfs"
)

// device is one /dev entry's behavior.
type device struct {
	mode linux.FileMode
	read func(ctx context.Context, dst []byte) (int64, error)
	// write returns the number of bytes consumed; devices like /dev/null
	// and /dev/full consume (and discard, or reject) the whole buffer.
	write func(ctx context.Context, src []byte) (int64, error)
}

// Filesystem backs /dev's fixed set of device special files. Unlike
// pipefs, nothing here is created lazily: the device table is fixed at
// construction.
type Filesystem struct {
	devices map[string]device
}

// NewFilesystem returns a Filesystem pre-populated with null, zero, full,
// random and urandom.
func NewFilesystem() *Filesystem {
	return &Filesystem{devices: map[string]device{
		"null": {
			mode:  linux.ModeCharacterDevice | 0666,
			read:  func(ctx context.Context, dst []byte) (int64, error) { return 0, nil },
			write: func(ctx context.Context, src []byte) (int64, error) { return int64(len(src)), nil },
		},
		"zero": {
			mode: linux.ModeCharacterDevice | 0666,
			read: func(ctx context.Context, dst []byte) (int64, error) {
				for i := range dst {
					dst[i] = 0
				}
				return int64(len(dst)), nil
			},
			write: func(ctx context.Context, src []byte) (int64, error) { return int64(len(src)), nil },
		},
		"full": {
			mode: linux.ModeCharacterDevice | 0666,
			read: func(ctx context.Context, dst []byte) (int64, error) {
				for i := range dst {
					dst[i] = 0
				}
				return int64(len(dst)), nil
			},
			write: func(ctx context.Context, src []byte) (int64, error) { return 0, linuxerr.ENOSPC },
		},
		"random": {
			mode:  linux.ModeCharacterDevice | 0666,
			read:  readRandom,
			write: func(ctx context.Context, src []byte) (int64, error) { return int64(len(src)), nil },
		},
		"urandom": {
			mode:  linux.ModeCharacterDevice | 0666,
			read:  readRandom,
			write: func(ctx context.Context, src []byte) (int64, error) { return int64(len(src)), nil },
		},
	}}
}

func readRandom(ctx context.Context, dst []byte) (int64, error) {
	n, err := io.ReadFull(rand.Reader, dst)
	return int64(n), err
}

// Ops returns the FilesystemOps capability record for registering this
// filesystem with a vfs.Registry.
func (fs *Filesystem) Ops() *vfs.FilesystemOps {
	return &vfs.FilesystemOps{
		Name: "devtmpfs",
		Open: func(ctx context.Context, subpath string, flags uint32, mode linux.FileMode) (*vfs.FileDescription, string, error) {
			dev, ok := fs.devices[subpath]
			if !ok {
				return nil, "", linuxerr.NoEntry
			}
			d := dev
			return vfs.NewFileDescription(vfs.FileOps{
				Read:  d.read,
				Write: d.write,
				Stat: func(ctx context.Context) (linux.Stat, error) {
					return linux.Stat{Mode: uint32(d.mode), Nlink: 1}, nil
				},
			}, flags), "", nil
		},
		StatFS: func(ctx context.Context) (linux.Statfs, error) {
			return linux.Statfs{Type: linux.RAMFS_MAGIC, BlockSize: 4096}, nil
		},
	}
}
