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

// Package socketfile backs socketpair(2): a pair of connected,
// bidirectional in-memory byte streams with no path of their own.
// Grounded on gvisor's pkg/sentry/fsimpl/sockfs, whose one notable
// behavior this core keeps is that opening a socket inode by path is
// always ENXIO (net/socket.c:sock_alloc's own behavior) — adapted from
// sockfs's kernfs.Inode.Open returning syserror.ENXIO to this core's
// FilesystemOps.Open field.
package socketfile

import (
	"context"
	"sync"

	"github.com/lovejavaee/flinux/pkg/abi/linux"
	"github.com/lovejavaee/flinux/pkg/errors/linuxerr"
	"github.com/lovejavaee/flinux/pkg/sentry/vfs"
)

const bufSize = 65536

// endpoint is one direction of a connected pair: bytes written here are
// read by the peer endpoint sharing the same buffer.
type endpoint struct {
	mu     sync.Mutex
	buf    []byte
	closed bool
	peer   *endpoint // set after construction, read-only thereafter
}

func (e *endpoint) write(src []byte) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.peer == nil || e.peer.closed {
		return 0, linuxerr.EPIPE
	}
	e.peer.mu.Lock()
	defer e.peer.mu.Unlock()
	free := bufSize - len(e.peer.buf)
	if free <= 0 {
		return 0, linuxerr.EWOULDBLOCK
	}
	n := len(src)
	if n > free {
		n = free
	}
	e.peer.buf = append(e.peer.buf, src[:n]...)
	return int64(n), nil
}

func (e *endpoint) read(dst []byte) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.buf) == 0 {
		if e.peer == nil || e.peer.closed {
			return 0, nil // peer gone: EOF, matching a shutdown connection
		}
		return 0, linuxerr.EWOULDBLOCK
	}
	n := copy(dst, e.buf)
	e.buf = e.buf[n:]
	return int64(n), nil
}

func (e *endpoint) pollStatus() vfs.PollStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	var status vfs.PollStatus
	if len(e.buf) > 0 {
		status |= vfs.PollStatus(linux.POLLIN)
	}
	if e.peer == nil || !e.peer.closed {
		status |= vfs.PollStatus(linux.POLLOUT)
	}
	if e.peer == nil || e.peer.closed {
		status |= vfs.PollStatus(linux.POLLHUP)
	}
	return status
}

func (e *endpoint) close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
}

func newFile(e *endpoint) *vfs.FileDescription {
	return vfs.NewFileDescription(vfs.FileOps{
		Read:  func(ctx context.Context, dst []byte) (int64, error) { return e.read(dst) },
		Write: func(ctx context.Context, src []byte) (int64, error) { return e.write(src) },
		Stat: func(ctx context.Context) (linux.Stat, error) {
			return linux.Stat{Mode: uint32(linux.ModeSocket | 0600), Nlink: 1}, nil
		},
		StatFS: func(ctx context.Context) (linux.Statfs, error) {
			return linux.Statfs{Type: linux.SOCKFS_MAGIC, BlockSize: bufSize}, nil
		},
		PollStatus: e.pollStatus,
		Close: func(ctx context.Context) error {
			e.close()
			return nil
		},
	}, linux.O_RDWR)
}

// NewSocketPair returns two connected FileDescriptions, as
// socketpair(2)/AF_UNIX SOCK_STREAM or SOCK_DGRAM would.
func NewSocketPair() (*vfs.FileDescription, *vfs.FileDescription) {
	a := &endpoint{}
	b := &endpoint{}
	a.peer, b.peer = b, a
	return newFile(a), newFile(b)
}

// Ops returns a FilesystemOps backing the synthetic sockfs mountpoint:
// Open always fails with ENXIO, since sockets are reached only via
// socketpair(2)/accept(2), never by path lookup (matching real Linux and
// gvisor's sockfs).
func Ops() *vfs.FilesystemOps {
	return &vfs.FilesystemOps{
		Name: "sockfs",
		Open: func(ctx context.Context, subpath string, flags uint32, mode linux.FileMode) (*vfs.FileDescription, string, error) {
			return nil, "", linuxerr.ENXIO
		},
		StatFS: func(ctx context.Context) (linux.Statfs, error) {
			return linux.Statfs{Type: linux.SOCKFS_MAGIC, BlockSize: bufSize}, nil
		},
	}
}
