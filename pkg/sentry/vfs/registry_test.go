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
	"testing"

	"github.com/lovejavaee/flinux/pkg/errors/linuxerr"
)

func TestRegistryFirstMatchWins(t *testing.T) {
	reg := NewRegistry()
	root := &FilesystemOps{Name: "root"}
	overlapping := &FilesystemOps{Name: "overlapping"}
	reg.Mount("/", root)
	reg.Mount("/mnt", overlapping)

	// "/" was registered first, so it wins even though "/mnt" is a more
	// specific prefix: this registry does not do longest-prefix
	// matching (spec.md §4.2, §9 Open Question resolved as first-match).
	fs, subpath, err := reg.Find("/mnt/data")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if fs != root {
		t.Errorf("Find(%q) matched %q, want %q", "/mnt/data", fs.Name, root.Name)
	}
	if subpath != "mnt/data" {
		t.Errorf("Find(%q) subpath = %q, want %q", "/mnt/data", subpath, "mnt/data")
	}
}

func TestRegistryNotFound(t *testing.T) {
	reg := NewRegistry()
	reg.Mount("/mnt", &FilesystemOps{Name: "mnt"})
	if _, _, err := reg.Find("/other"); !linuxerr.Equals(linuxerr.NoEntry, err) {
		t.Errorf("Find(%q) error = %v, want NoEntry", "/other", err)
	}
}

func TestRegistryUnmount(t *testing.T) {
	reg := NewRegistry()
	fs := &FilesystemOps{Name: "mnt"}
	reg.Mount("/mnt", fs)
	if !reg.Unmount("/mnt") {
		t.Fatalf("Unmount(%q) = false, want true", "/mnt")
	}
	if _, _, err := reg.Find("/mnt/data"); !linuxerr.Equals(linuxerr.NoEntry, err) {
		t.Errorf("Find after Unmount error = %v, want NoEntry", err)
	}
	if reg.Unmount("/mnt") {
		t.Errorf("second Unmount(%q) = true, want false", "/mnt")
	}
}

func TestRegistrySubpathStripsOnlyOneSlash(t *testing.T) {
	reg := NewRegistry()
	fs := &FilesystemOps{Name: "root"}
	reg.Mount("/", fs)
	_, subpath, err := reg.Find("/a/b")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if subpath != "a/b" {
		t.Errorf("subpath = %q, want %q", subpath, "a/b")
	}
}
