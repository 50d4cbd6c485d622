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
	"strings"

	"github.com/lovejavaee/flinux/pkg/abi/linux"
	"github.com/lovejavaee/flinux/pkg/errors/linuxerr"
	"github.com/lovejavaee/flinux/pkg/sentry/vfs/vfspath"
)

// Resolver is the symlink-aware resolver (Component C): it drives the
// open/unlink/link/rename/mkdir/rmdir/readlink/symlink loops, expanding
// symlinks encountered at any path component up to MaxSymlinkTraversals,
// grounded on gvisor's ResolvingPath.HandleSymlink but simplified to the
// spec's single capability-record FilesystemOps rather than VFS2's
// dentry/mount graph.
type Resolver struct {
	Registry *Registry
}

// NewResolver returns a Resolver backed by reg.
func NewResolver(reg *Registry) *Resolver {
	return &Resolver{Registry: reg}
}

// resolve drives spec.md §4.3's core loop, generic over the per-operation
// result type T. step is invoked with the filesystem selected by the
// registry and the path relative to its mountpoint; it returns:
//   - (result, "", nil) on success,
//   - (zero, target, nil) to redirect through a leaf symlink target (only
//     FilesystemOps.Open ever does this, per §6's "leaf is a symlink"
//     return code),
//   - (zero, "", err) on failure, where err == linuxerr.NoEntry triggers
//     the component-symlink probe before giving up.
func resolve[T any](ctx context.Context, reg *Registry, cwd, userPath string, step func(fs *FilesystemOps, subpath string) (T, string, error)) (T, error) {
	var zero T
	path := vfspath.Normalize(cwd, userPath)
	for depth := 0; depth < linux.MaxSymlinkTraversals; depth++ {
		fs, subpath, err := reg.Find(path)
		if err != nil {
			return zero, linuxerr.NoEntry
		}

		result, target, err := step(fs, subpath)
		if err == nil {
			if target != "" {
				path = vfspath.Normalize(vfspath.Dir(path), target)
				continue
			}
			return result, nil
		}

		if linuxerr.Equals(linuxerr.NoEntry, err) {
			next, ok := resolveComponentSymlink(ctx, fs, path, subpath)
			if !ok {
				return zero, linuxerr.NoEntry
			}
			path = next
			continue
		}
		return zero, err
	}
	return zero, linuxerr.Loop
}

// resolveComponentSymlink implements spec.md §4.3's
// resolve_component_symlink: for each '/' in subpath scanned right to
// left, truncate subpath there and probe fs.Readlink. On the first
// success at position p, splice the symlink's target in place of the
// probed prefix (stripping the symlink's own basename from the absolute
// path) and renormalise. It reports false ("no progress") if fs has no
// Readlink op or no prefix was a symlink, so the caller converts to
// ENOENT.
func resolveComponentSymlink(ctx context.Context, fs *FilesystemOps, path, subpath string) (string, bool) {
	if fs.Readlink == nil {
		return "", false
	}
	absPrefixLen := len(path) - len(subpath)
	for p := strings.LastIndexByte(subpath, '/'); p >= 0; p = strings.LastIndexByte(subpath[:p], '/') {
		target, err := fs.Readlink(ctx, subpath[:p])
		if err != nil {
			continue
		}
		remainder := target + "/" + subpath[p+1:]
		symlinkAbs := path[:absPrefixLen+p]
		return vfspath.Normalize(vfspath.Dir(symlinkAbs), remainder), true
	}
	return "", false
}

// Open resolves path and invokes the owning filesystem's Open, following
// symlinks at any component (including a leaf symlink target reported by
// Open itself) up to MaxSymlinkTraversals.
func (r *Resolver) Open(ctx context.Context, cwd, path string, flags uint32, mode linux.FileMode) (*FileDescription, error) {
	return resolve(ctx, r.Registry, cwd, path, func(fs *FilesystemOps, subpath string) (*FileDescription, string, error) {
		if fs.Open == nil {
			return nil, "", linuxerr.NotSupported
		}
		return fs.Open(ctx, subpath, flags, mode)
	})
}

// Unlink resolves path and invokes the owning filesystem's Unlink. The
// leaf component is never followed as a symlink: unlinking a symlink
// removes the link itself, matching spec.md §4.2's Unlink contract.
func (r *Resolver) Unlink(ctx context.Context, cwd, path string) error {
	_, err := resolve(ctx, r.Registry, cwd, path, func(fs *FilesystemOps, subpath string) (struct{}, string, error) {
		if fs.Unlink == nil {
			return struct{}{}, "", linuxerr.NotSupported
		}
		return struct{}{}, "", fs.Unlink(ctx, subpath)
	})
	return err
}

// Symlink resolves the containing directory of path and creates a new
// symlink there with the literal text target.
func (r *Resolver) Symlink(ctx context.Context, cwd, path, target string) error {
	_, err := resolve(ctx, r.Registry, cwd, path, func(fs *FilesystemOps, subpath string) (struct{}, string, error) {
		if fs.Symlink == nil {
			return struct{}{}, "", linuxerr.NotSupported
		}
		return struct{}{}, "", fs.Symlink(ctx, subpath, target)
	})
	return err
}

// ReadLink is the directly-callable readlink(2)/readlinkat(2) entry
// point: unlike Open, a leaf symlink is never followed (readlink reports
// its own text), so this is a plain Registry.Find plus a single FS call,
// not the full core loop. This is a distinct entry point from the
// internal resolveComponentSymlink probe even though both end up calling
// the same FilesystemOps.Readlink field.
func (r *Resolver) ReadLink(ctx context.Context, cwd, path string) (string, error) {
	abs := vfspath.Normalize(cwd, path)
	fs, subpath, err := r.Registry.Find(abs)
	if err != nil {
		return "", linuxerr.NoEntry
	}
	if fs.Readlink == nil {
		return "", linuxerr.InvalidArgument
	}
	return fs.Readlink(ctx, subpath)
}

// Mkdir resolves the containing directory of path and creates a new,
// empty directory there with the given mode.
func (r *Resolver) Mkdir(ctx context.Context, cwd, path string, mode linux.FileMode) error {
	_, err := resolve(ctx, r.Registry, cwd, path, func(fs *FilesystemOps, subpath string) (struct{}, string, error) {
		if fs.Mkdir == nil {
			return struct{}{}, "", linuxerr.NotSupported
		}
		return struct{}{}, "", fs.Mkdir(ctx, subpath, mode)
	})
	return err
}

// Rmdir resolves path and removes the empty directory there.
func (r *Resolver) Rmdir(ctx context.Context, cwd, path string) error {
	_, err := resolve(ctx, r.Registry, cwd, path, func(fs *FilesystemOps, subpath string) (struct{}, string, error) {
		if fs.Rmdir == nil {
			return struct{}{}, "", linuxerr.NotSupported
		}
		return struct{}{}, "", fs.Rmdir(ctx, subpath)
	})
	return err
}

// Stat resolves path (following symlinks, including a leaf symlink)
// fully, then stats the opened file and immediately releases it. stat(2)
// and its variants are specified as routing "via open" (spec.md §4.3).
func (r *Resolver) Stat(ctx context.Context, cwd, path string) (linux.Stat, error) {
	file, err := r.Open(ctx, cwd, path, linux.O_RDONLY, 0)
	if err != nil {
		return linux.Stat{}, err
	}
	defer file.DecRef(ctx)
	return file.Stat(ctx)
}

// twoPath resolves oldPath and newPath independently (without following
// a leaf symlink on either side — link(2) and rename(2) act on the link
// or directory entry itself) and invokes op on the pair once both
// resolve to the same filesystem. It returns linuxerr.EXDEV if they
// resolve to different filesystems: cross-filesystem Link/Rename are
// rejected before any filesystem operation runs, per FilesystemOps.Link's
// documented contract.
func (r *Resolver) twoPath(cwd, oldPath, newPath string, op func(fs *FilesystemOps, oldSub, newSub string) error) error {
	oldAbs := vfspath.Normalize(cwd, oldPath)
	newAbs := vfspath.Normalize(cwd, newPath)
	oldFS, oldSub, err := r.Registry.Find(oldAbs)
	if err != nil {
		return linuxerr.NoEntry
	}
	newFS, newSub, err := r.Registry.Find(newAbs)
	if err != nil {
		return linuxerr.NoEntry
	}
	if oldFS != newFS {
		return linuxerr.EXDEV
	}
	return op(oldFS, oldSub, newSub)
}

// Link resolves oldPath and newPath and creates a new hard link at
// newPath pointing to the file at oldPath.
func (r *Resolver) Link(ctx context.Context, cwd, oldPath, newPath string) error {
	return r.twoPath(cwd, oldPath, newPath, func(fs *FilesystemOps, oldSub, newSub string) error {
		if fs.Link == nil {
			return linuxerr.NotSupported
		}
		return fs.Link(ctx, oldSub, newSub)
	})
}

// Rename resolves oldPath and newPath and moves the file or directory at
// oldPath to newPath.
func (r *Resolver) Rename(ctx context.Context, cwd, oldPath, newPath string) error {
	return r.twoPath(cwd, oldPath, newPath, func(fs *FilesystemOps, oldSub, newSub string) error {
		if fs.Rename == nil {
			return linuxerr.NotSupported
		}
		return fs.Rename(ctx, oldSub, newSub)
	})
}
