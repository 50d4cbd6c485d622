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

// Package hostfs is the host-backed filesystem spec.md §1 and §3 name as
// one of the pluggable filesystems a mount entry can select: guest paths
// under its mountpoint are served directly from a host directory tree
// using the Go os package, rather than a synthetic table like devfs or
// pipefs. Grounded on gvisor's pkg/sentry/fsimpl/gofer (the filesystem
// that actually backs a guest's root and bind mounts by talking to a
// host-side file server), simplified from gofer's 9P client/dentry cache
// down to this core's FilesystemOps capability record operating directly
// on the host path, since this core has no gofer transport of its own.
package hostfs

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/lovejavaee/flinux/pkg/abi/linux"
	"github.com/lovejavaee/flinux/pkg/errors/linuxerr"
	"github.com/lovejavaee/flinux/pkg/log"
	"github.com/lovejavaee/flinux/pkg/sentry/vfs"
)

// Filesystem serves guest paths under its mountpoint from root, a host
// directory. Unlike devfs and pipefs, it holds no in-memory table of its
// own: every operation is a direct host filesystem call, translated
// through errnoFor.
type Filesystem struct {
	root string
}

// NewFilesystem returns a Filesystem rooted at the host directory root.
// root is used as-is; callers are expected to have already resolved it
// to an absolute host path.
func NewFilesystem(root string) *Filesystem {
	return &Filesystem{root: root}
}

// hostPath joins subpath (already relative to the mountpoint, with any
// leading '/' stripped by the registry) onto root, using the host's own
// separator conventions via filepath.
func (fs *Filesystem) hostPath(subpath string) string {
	if subpath == "" {
		return fs.root
	}
	return filepath.Join(fs.root, filepath.FromSlash(subpath))
}

// Ops returns the FilesystemOps capability record for registering this
// filesystem with a vfs.Registry.
func (hfs *Filesystem) Ops() *vfs.FilesystemOps {
	return &vfs.FilesystemOps{
		Name:     "hostfs",
		Open:     hfs.open,
		Link:     hfs.link,
		Unlink:   hfs.unlink,
		Symlink:  hfs.symlink,
		Readlink: hfs.readlink,
		Mkdir:    hfs.mkdir,
		Rmdir:    hfs.rmdir,
		Rename:   hfs.rename,
		StatFS: func(ctx context.Context) (linux.Statfs, error) {
			return linux.Statfs{Type: linux.HOSTFS_SUPER_MAGIC, BlockSize: 4096}, nil
		},
	}
}

// open implements FilesystemOps.Open. A leaf symlink is reported back to
// the resolver as symlinkTarget unless the caller asked for O_NOFOLLOW,
// matching the "leaf is a symlink, target in out_target" return code
// spec.md §6 documents for the real filesystem vtable's open op.
func (hfs *Filesystem) open(ctx context.Context, subpath string, flags uint32, mode linux.FileMode) (*vfs.FileDescription, string, error) {
	full := hfs.hostPath(subpath)

	if flags&linux.O_NOFOLLOW == 0 {
		if target, err := os.Readlink(full); err == nil {
			return nil, target, nil
		}
	}

	hostFlags := hostOpenFlags(flags)
	f, err := os.OpenFile(full, hostFlags, os.FileMode(mode.Permissions()))
	if err != nil {
		return nil, "", errnoFor(err)
	}

	return vfs.NewFileDescription(fileOps(f), flags), "", nil
}

func hostOpenFlags(flags uint32) int {
	var out int
	switch flags & linux.O_ACCMODE {
	case linux.O_WRONLY:
		out = os.O_WRONLY
	case linux.O_RDWR:
		out = os.O_RDWR
	default:
		out = os.O_RDONLY
	}
	if flags&linux.O_CREAT != 0 {
		out |= os.O_CREATE
	}
	if flags&linux.O_EXCL != 0 {
		out |= os.O_EXCL
	}
	if flags&linux.O_TRUNC != 0 {
		out |= os.O_TRUNC
	}
	if flags&linux.O_APPEND != 0 {
		out |= os.O_APPEND
	}
	return out
}

// fileOps wraps an open *os.File in the FileOps vtable. f is never shared
// across two FileDescriptions: dup()/dup2() share the *vfs.FileDescription
// itself (via refcounting), not the *os.File.
func fileOps(f *os.File) vfs.FileOps {
	var dentsMu sync.Mutex
	dentsSeen := map[string]bool{}
	return vfs.FileOps{
		Read: func(ctx context.Context, dst []byte) (int64, error) {
			n, err := f.Read(dst)
			return int64(n), readErr(err)
		},
		Write: func(ctx context.Context, src []byte) (int64, error) {
			n, err := f.Write(src)
			return int64(n), errnoForNonEOF(err)
		},
		PRead: func(ctx context.Context, dst []byte, offset int64) (int64, error) {
			n, err := f.ReadAt(dst, offset)
			return int64(n), readErr(err)
		},
		PWrite: func(ctx context.Context, src []byte, offset int64) (int64, error) {
			n, err := f.WriteAt(src, offset)
			return int64(n), errnoForNonEOF(err)
		},
		Seek: func(ctx context.Context, offset int64, whence int32) (int64, error) {
			n, err := f.Seek(offset, int(whence))
			return n, errnoForNonEOF(err)
		},
		Stat: func(ctx context.Context) (linux.Stat, error) {
			info, err := f.Stat()
			if err != nil {
				return linux.Stat{}, errnoFor(err)
			}
			return statFromFileInfo(info), nil
		},
		StatFS: func(ctx context.Context) (linux.Statfs, error) {
			return linux.Statfs{Type: linux.HOSTFS_SUPER_MAGIC, BlockSize: 4096}, nil
		},
		GetDents: func(ctx context.Context, maxBytes int) ([]byte, error) {
			dentsMu.Lock()
			defer dentsMu.Unlock()
			return getDents(f, maxBytes, dentsSeen)
		},
		UtimeNS: func(ctx context.Context, atime, mtime linux.Timespec) error {
			now := time.Now()
			info, err := f.Stat()
			if err != nil {
				return errnoFor(err)
			}
			a, m := resolveUtime(atime, now, now), resolveUtime(mtime, now, info.ModTime())
			return errnoFor(os.Chtimes(f.Name(), a, m))
		},
		Close: func(ctx context.Context) error {
			return errnoForNonEOF(f.Close())
		},
	}
}

// getDents lists f's directory entries and marshals them as
// getdents64(2) records, stopping (without consuming the entry) once the
// next record would exceed maxBytes. Repeated calls re-list the
// directory from the start and skip entries already returned by name,
// since *os.File keeps no stable getdents64 cursor of its own across
// calls the way the host kernel's directory stream does.
func getDents(f *os.File, maxBytes int, seen map[string]bool) ([]byte, error) {
	entries, err := os.ReadDir(f.Name())
	if err != nil {
		return nil, errnoFor(err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var buf []byte
	for i, e := range entries {
		if seen[e.Name()] {
			continue
		}
		fileType := dentFileType(e)
		reclen := linux.Dirent64Reclen(e.Name())
		if len(buf)+reclen > maxBytes {
			break
		}
		buf = linux.MarshalDirent64(buf, uint64(i)+1, int64(i)+1, fileType, e.Name())
		seen[e.Name()] = true
	}
	return buf, nil
}

func dentFileType(e os.DirEntry) linux.FileMode {
	switch {
	case e.IsDir():
		return linux.ModeDirectory
	case e.Type()&fs.ModeSymlink != 0:
		return linux.ModeSymlink
	default:
		return linux.ModeRegular
	}
}

func (hfs *Filesystem) link(ctx context.Context, oldpath, newpath string) error {
	return errnoFor(os.Link(hfs.hostPath(oldpath), hfs.hostPath(newpath)))
}

func (hfs *Filesystem) unlink(ctx context.Context, subpath string) error {
	return errnoFor(os.Remove(hfs.hostPath(subpath)))
}

func (hfs *Filesystem) symlink(ctx context.Context, subpath, target string) error {
	return errnoFor(os.Symlink(filepath.FromSlash(target), hfs.hostPath(subpath)))
}

func (hfs *Filesystem) readlink(ctx context.Context, subpath string) (string, error) {
	target, err := os.Readlink(hfs.hostPath(subpath))
	if err != nil {
		return "", errnoFor(err)
	}
	return filepath.ToSlash(target), nil
}

func (hfs *Filesystem) mkdir(ctx context.Context, subpath string, mode linux.FileMode) error {
	return errnoFor(os.Mkdir(hfs.hostPath(subpath), os.FileMode(mode.Permissions())))
}

func (hfs *Filesystem) rmdir(ctx context.Context, subpath string) error {
	return errnoFor(os.Remove(hfs.hostPath(subpath)))
}

func (hfs *Filesystem) rename(ctx context.Context, oldpath, newpath string) error {
	return errnoFor(os.Rename(hfs.hostPath(oldpath), hfs.hostPath(newpath)))
}

func readErr(err error) error {
	if err == io.EOF {
		return nil
	}
	return errnoFor(err)
}

func errnoForNonEOF(err error) error {
	if err == nil {
		return nil
	}
	return errnoFor(err)
}

// errnoFor maps a Go os-package error to this core's guest errno
// taxonomy. Windows' own error strings don't carry a Linux errno, so
// this core classifies by the os package's portable predicates rather
// than inspecting a syscall.Errno, matching how the rest of the syscall
// trampoline is specified to map host failures by hand (spec.md §7).
func errnoFor(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case os.IsNotExist(err):
		return linuxerr.NoEntry
	case os.IsExist(err):
		return linuxerr.EEXIST
	case os.IsPermission(err):
		return linuxerr.EACCES
	case os.IsTimeout(err):
		return linuxerr.EAGAIN
	default:
		log.Warningf("hostfs: unmapped host error, returning EIO: %v", err)
		return linuxerr.EIO
	}
}

func statFromFileInfo(info os.FileInfo) linux.Stat {
	mode := uint32(info.Mode().Perm())
	switch {
	case info.IsDir():
		mode |= linux.ModeDirectory
	case info.Mode()&fs.ModeSymlink != 0:
		mode |= linux.ModeSymlink
	default:
		mode |= linux.ModeRegular
	}
	mtime := linux.Timespec{Sec: info.ModTime().Unix(), NSec: int64(info.ModTime().Nanosecond())}
	return linux.Stat{
		Nlink:   1,
		Mode:    mode,
		Size:    info.Size(),
		Blksize: 4096,
		Blocks:  (info.Size() + 511) / 512,
		ATime:   mtime,
		MTime:   mtime,
		CTime:   mtime,
	}
}

// resolveUtime turns a utimensat(2)-style timespec into a concrete
// time.Time: UTIME_NOW becomes now, UTIME_OMIT keeps the filesystem's
// current value for that field (approximated as keep since io/fs.FileInfo
// exposes no portable atime to preserve exactly), anything else is taken
// literally.
func resolveUtime(ts linux.Timespec, now, keep time.Time) time.Time {
	switch ts.NSec {
	case linux.UTIME_NOW:
		return now
	case linux.UTIME_OMIT:
		return keep
	default:
		return time.Unix(ts.Sec, ts.NSec)
	}
}
