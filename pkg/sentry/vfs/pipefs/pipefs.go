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

// Package pipefs provides an in-memory unidirectional pipe, backing both
// pipe(2)/pipe2(2)'s anonymous pipes and mkfifo(2)'s named pipes.
// Grounded on gvisor's pkg/sentry/kernel/pipe.Pipe, adapted from its
// waiter.Queue/fs.File machinery to this core's FileOps capability
// records. Reads and writes never block: an empty or full pipe returns
// EWOULDBLOCK.
package pipefs

import (
	"context"
	"sync"

	"github.com/lovejavaee/flinux/pkg/abi/linux"
	"github.com/lovejavaee/flinux/pkg/errors/linuxerr"
	"github.com/lovejavaee/flinux/pkg/sentry/vfs"
)

// DefaultPipeSize is the system-wide default size of a pipe in bytes,
// matching Linux's default F_SETPIPE_SZ.
const DefaultPipeSize = 65536

// Pipe is a buffered byte queue shared between a reader end and a writer
// end (or both, for the read-write FIFO case).
type Pipe struct {
	mu   sync.Mutex
	cond *sync.Cond

	buf       []byte
	max       int
	readers   int
	writers   int
	hadWriter bool
}

// NewPipe returns a Pipe with the given maximum size in bytes.
func NewPipe(sizeBytes int) *Pipe {
	if sizeBytes <= 0 {
		sizeBytes = DefaultPipeSize
	}
	p := &Pipe{max: sizeBytes}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// NewConnectedPipe returns a freshly opened (read, write) FileDescription
// pair sharing one Pipe, as pipe(2)/pipe2(2) return to the guest.
func NewConnectedPipe(sizeBytes int) (*vfs.FileDescription, *vfs.FileDescription) {
	p := NewPipe(sizeBytes)
	return p.ROpen(), p.WOpen()
}

// ROpen opens the read end of the pipe.
func (p *Pipe) ROpen() *vfs.FileDescription {
	p.mu.Lock()
	p.readers++
	p.mu.Unlock()
	return vfs.NewFileDescription(vfs.FileOps{
		Read: func(ctx context.Context, dst []byte) (int64, error) {
			return p.read(dst)
		},
		PollStatus: p.rPollStatus,
		Close: func(ctx context.Context) error {
			p.rClose()
			return nil
		},
	}, linux.O_RDONLY)
}

// WOpen opens the write end of the pipe.
func (p *Pipe) WOpen() *vfs.FileDescription {
	p.mu.Lock()
	p.writers++
	p.hadWriter = true
	p.cond.Broadcast()
	p.mu.Unlock()
	return vfs.NewFileDescription(vfs.FileOps{
		Write: func(ctx context.Context, src []byte) (int64, error) {
			return p.write(src)
		},
		PollStatus: p.wPollStatus,
		Close: func(ctx context.Context) error {
			p.wClose()
			return nil
		},
	}, linux.O_WRONLY)
}

// RWOpen opens both ends at once, for a FIFO opened O_RDWR (the
// traditional way to open a named pipe without blocking for a peer).
func (p *Pipe) RWOpen() *vfs.FileDescription {
	p.mu.Lock()
	p.readers++
	p.writers++
	p.hadWriter = true
	p.cond.Broadcast()
	p.mu.Unlock()
	return vfs.NewFileDescription(vfs.FileOps{
		Read: func(ctx context.Context, dst []byte) (int64, error) {
			return p.read(dst)
		},
		Write: func(ctx context.Context, src []byte) (int64, error) {
			return p.write(src)
		},
		PollStatus: func() vfs.PollStatus {
			return p.rPollStatus() | p.wPollStatus()
		},
		Close: func(ctx context.Context) error {
			p.rClose()
			p.wClose()
			return nil
		},
	}, linux.O_RDWR)
}

func (p *Pipe) read(dst []byte) (int64, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.buf) == 0 {
		if p.writers == 0 {
			return 0, nil // EOF: no writer left and nothing buffered.
		}
		return 0, linuxerr.EWOULDBLOCK
	}
	n := copy(dst, p.buf)
	p.buf = p.buf[n:]
	p.cond.Broadcast()
	return int64(n), nil
}

func (p *Pipe) write(src []byte) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.readers == 0 {
		return 0, linuxerr.EPIPE
	}
	free := p.max - len(p.buf)
	if free <= 0 {
		return 0, linuxerr.EWOULDBLOCK
	}
	n := len(src)
	if n > free {
		n = free
	}
	p.buf = append(p.buf, src[:n]...)
	p.cond.Broadcast()
	if n < len(src) {
		return int64(n), nil // partial write, caller retries the remainder
	}
	return int64(n), nil
}

func (p *Pipe) rClose() {
	p.mu.Lock()
	p.readers--
	p.cond.Broadcast()
	p.mu.Unlock()
}

func (p *Pipe) wClose() {
	p.mu.Lock()
	p.writers--
	p.cond.Broadcast()
	p.mu.Unlock()
}

func (p *Pipe) rPollStatus() vfs.PollStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	var status vfs.PollStatus
	if len(p.buf) > 0 {
		status |= vfs.PollStatus(linux.POLLIN)
	}
	if p.writers == 0 && p.hadWriter {
		status |= vfs.PollStatus(linux.POLLHUP)
	}
	return status
}

func (p *Pipe) wPollStatus() vfs.PollStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	var status vfs.PollStatus
	if len(p.buf) < p.max {
		status |= vfs.PollStatus(linux.POLLOUT)
	}
	if p.readers == 0 {
		status |= vfs.PollStatus(linux.POLLERR)
	}
	return status
}

// Filesystem backs mkfifo(2)'s named pipes: each subpath names one Pipe,
// created lazily on first Open. Unlike an anonymous pipe, a named pipe
// outlives every individual open (SUPPLEMENTED FEATURES: the blocking
// rendezvous between a FIFO's first reader and first writer is left
// unimplemented — opens never block waiting for a peer end, which this
// core does not need for its single-process scope).
type Filesystem struct {
	mu    sync.Mutex
	pipes map[string]*Pipe
}

// NewFilesystem returns an empty named-pipe filesystem.
func NewFilesystem() *Filesystem {
	return &Filesystem{pipes: make(map[string]*Pipe)}
}

// Ops returns the FilesystemOps capability record for registering this
// filesystem with a vfs.Registry.
func (fs *Filesystem) Ops() *vfs.FilesystemOps {
	return &vfs.FilesystemOps{
		Name: "pipefs",
		Open: func(ctx context.Context, subpath string, flags uint32, mode linux.FileMode) (*vfs.FileDescription, string, error) {
			p := fs.lookupOrCreate(subpath)
			switch flags & (linux.O_RDONLY | linux.O_WRONLY | linux.O_RDWR) {
			case linux.O_WRONLY:
				return p.WOpen(), "", nil
			case linux.O_RDWR:
				return p.RWOpen(), "", nil
			default:
				return p.ROpen(), "", nil
			}
		},
		Mkdir: func(ctx context.Context, subpath string, mode linux.FileMode) error {
			// mkfifo(2) is modelled as Mkdir at the vfs.FilesystemOps
			// layer: it creates the named-pipe slot without opening it.
			fs.lookupOrCreate(subpath)
			return nil
		},
		Unlink: func(ctx context.Context, subpath string) error {
			fs.mu.Lock()
			defer fs.mu.Unlock()
			if _, ok := fs.pipes[subpath]; !ok {
				return linuxerr.NoEntry
			}
			delete(fs.pipes, subpath)
			return nil
		},
		StatFS: func(ctx context.Context) (linux.Statfs, error) {
			return linux.Statfs{Type: linux.PIPEFS_MAGIC, BlockSize: 4096}, nil
		},
	}
}

func (fs *Filesystem) lookupOrCreate(subpath string) *Pipe {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if p, ok := fs.pipes[subpath]; ok {
		return p
	}
	p := NewPipe(DefaultPipeSize)
	fs.pipes[subpath] = p
	return p
}
