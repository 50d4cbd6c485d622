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
	"strings"
	"sync"

	"github.com/lovejavaee/flinux/pkg/errors/linuxerr"
)

// mountEntry is one node of the registry's singly-linked mount list.
type mountEntry struct {
	mountpoint string
	fs         *FilesystemOps
	next       *mountEntry
}

// Registry is the filesystem registry (Component B): a mount-table lookup
// that selects the filesystem owning a normalised path. Unlike gvisor's
// VFS2 mount table, this is deliberately NOT a longest-prefix/overlay
// structure: entries are a singly-linked list in insertion order and the
// first literal string-prefix match wins, exactly as spec.md §4.2 and the
// Open Question resolution in DESIGN.md specify.
type Registry struct {
	mu   sync.RWMutex
	head *mountEntry
	tail *mountEntry
}

// NewRegistry returns an empty filesystem registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Mount appends a new mount entry at the given mountpoint, which must be a
// normalised absolute path. Later Mount calls for an overlapping prefix do
// not shadow earlier ones: Find always returns the first entry inserted
// whose mountpoint prefixes the lookup path.
func (r *Registry) Mount(mountpoint string, fs *FilesystemOps) {
	e := &mountEntry{mountpoint: mountpoint, fs: fs}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tail == nil {
		r.head = e
	} else {
		r.tail.next = e
	}
	r.tail = e
}

// Unmount removes the first mount entry whose mountpoint exactly matches
// mountpoint. It reports whether an entry was found.
func (r *Registry) Unmount(mountpoint string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	var prev *mountEntry
	for e := r.head; e != nil; e = e.next {
		if e.mountpoint == mountpoint {
			if prev == nil {
				r.head = e.next
			} else {
				prev.next = e.next
			}
			if e == r.tail {
				r.tail = prev
			}
			return true
		}
		prev = e
	}
	return false
}

// Find selects the filesystem owning path: the first mount entry (in
// insertion order) whose mountpoint is a literal string prefix of path.
// subpath is path with the mountpoint prefix stripped and any leading '/'
// removed. Find fails with linuxerr.NoEntry if no entry matches.
func (r *Registry) Find(path string) (fs *FilesystemOps, subpath string, err error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for e := r.head; e != nil; e = e.next {
		if strings.HasPrefix(path, e.mountpoint) {
			rest := path[len(e.mountpoint):]
			rest = strings.TrimPrefix(rest, "/")
			return e.fs, rest, nil
		}
	}
	return nil, "", linuxerr.NoEntry
}
