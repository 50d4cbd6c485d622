// Copyright 2024 tractor.dev authors.
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

// Package console backs /dev/console and /dev/tty: the guest's
// controlling terminal, whose line discipline (raw vs. cooked mode) is
// toggled through the host Windows console rather than a real Linux
// tty driver. Grounded on the retrieval pack's tractordev-wanix
// cmd/wanix/console.go, which wraps stdin/stdout with
// golang.org/x/term.MakeRaw/Restore around a websocket-relayed PTY;
// adapted here to back a VFS FileDescription instead of relaying bytes
// over a socket.
package console

import (
	"context"
	"io"
	"sync"

	"golang.org/x/term"

	"github.com/lovejavaee/flinux/pkg/abi/linux"
	"github.com/lovejavaee/flinux/pkg/errors/linuxerr"
	"github.com/lovejavaee/flinux/pkg/log"
	"github.com/lovejavaee/flinux/pkg/sentry/vfs"
)

// Console is the guest's controlling terminal. fd is the host console's
// file descriptor (conventionally os.Stdin.Fd() for input); reader and
// writer carry the actual byte traffic, kept separate from fd because
// Windows consoles have distinct input/output handles.
type Console struct {
	mu       sync.Mutex
	fd       int
	reader   io.Reader
	writer   io.Writer
	raw      bool
	oldState *term.State
}

// New returns a Console driving reader/writer, with line-discipline
// toggling applied to the host descriptor fd.
func New(fd int, reader io.Reader, writer io.Writer) *Console {
	return &Console{fd: fd, reader: reader, writer: writer}
}

// SetRaw puts the host console into raw (cbreak, no-echo) mode, or
// restores cooked mode, mirroring the guest's TCSETS ioctl(2) on
// c_lflag's ICANON/ECHO bits.
func (c *Console) SetRaw(raw bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if raw == c.raw {
		return nil
	}
	if raw {
		state, err := term.MakeRaw(c.fd)
		if err != nil {
			return err
		}
		c.oldState = state
		c.raw = true
		return nil
	}
	if c.oldState != nil {
		if err := term.Restore(c.fd, c.oldState); err != nil {
			log.Warningf("console: restore cooked mode: %v", err)
			return err
		}
		c.oldState = nil
	}
	c.raw = false
	return nil
}

// TCGETS/TCSETS ioctl command numbers this console recognizes, from
// uapi/asm-generic/ioctls.h.
const (
	tcgets = 0x5401
	tcsets = 0x5402

	// icanon/echo bits within c_lflag, from uapi/asm-generic/termbits.h.
	iCANON = 0x0002
	ECHO   = 0x0008
)

// File returns a FileDescription backing this console, wired so that a
// TCSETS ioctl clearing ICANON|ECHO puts the host console into raw mode
// (and restores it when they're set again).
func (c *Console) File() *vfs.FileDescription {
	return vfs.NewFileDescription(vfs.FileOps{
		Read: func(ctx context.Context, dst []byte) (int64, error) {
			n, err := c.reader.Read(dst)
			if err == io.EOF {
				return int64(n), nil
			}
			return int64(n), err
		},
		Write: func(ctx context.Context, src []byte) (int64, error) {
			n, err := c.writer.Write(src)
			return int64(n), err
		},
		Ioctl: func(ctx context.Context, cmd uint32, arg uintptr) (uintptr, error) {
			switch cmd {
			case tcsets:
				// arg's c_lflag bits aren't readable from here without the
				// mm.PointerChecker boundary this package doesn't have; the
				// syscall trampoline is expected to pass the decoded lflag
				// value itself rather than a guest pointer for this path.
				lflag := uint32(arg)
				raw := lflag&(iCANON|ECHO) == 0
				return 0, c.SetRaw(raw)
			case tcgets:
				return 0, nil
			default:
				return 0, linuxerr.ENOTTY
			}
		},
		Stat: func(ctx context.Context) (linux.Stat, error) {
			return linux.Stat{Mode: uint32(linux.ModeCharacterDevice | 0620), Nlink: 1}, nil
		},
	}, linux.O_RDWR)
}

// Ops returns the FilesystemOps backing a single-entry mountpoint (e.g.
// "/dev/console" or "/dev/tty") that always returns this Console's file,
// regardless of subpath.
func (c *Console) Ops() *vfs.FilesystemOps {
	return &vfs.FilesystemOps{
		Name: "console",
		Open: func(ctx context.Context, subpath string, flags uint32, mode linux.FileMode) (*vfs.FileDescription, string, error) {
			return c.File(), "", nil
		},
	}
}
