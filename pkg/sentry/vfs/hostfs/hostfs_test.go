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

package hostfs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/lovejavaee/flinux/pkg/abi/linux"
	"github.com/lovejavaee/flinux/pkg/errors/linuxerr"
)

func TestOpenCreateWriteReadRoundTrips(t *testing.T) {
	ctx := context.Background()
	ops := NewFilesystem(t.TempDir()).Ops()

	f, target, err := ops.Open(ctx, "greeting", linux.O_WRONLY|linux.O_CREAT, 0644)
	if err != nil || target != "" {
		t.Fatalf("Open(greeting, O_CREAT) = (_, %q, %v)", target, err)
	}
	if _, err := f.Write(ctx, []byte("hello")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	f.DecRef(ctx)

	f, _, err = ops.Open(ctx, "greeting", linux.O_RDONLY, 0)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer f.DecRef(ctx)
	buf := make([]byte, 5)
	n, err := f.Read(ctx, buf)
	if err != nil || string(buf[:n]) != "hello" {
		t.Errorf("Read = (%q, %v), want (\"hello\", nil)", buf[:n], err)
	}
}

func TestOpenMissingIsNoEntry(t *testing.T) {
	ctx := context.Background()
	ops := NewFilesystem(t.TempDir()).Ops()
	if _, _, err := ops.Open(ctx, "nope", linux.O_RDONLY, 0); !linuxerr.Equals(linuxerr.NoEntry, err) {
		t.Errorf("Open(nope) error = %v, want ENOENT", err)
	}
}

func TestOpenLeafSymlinkReturnsTarget(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "real"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "link")); err != nil {
		t.Skipf("host does not permit symlink creation: %v", err)
	}

	ctx := context.Background()
	ops := NewFilesystem(root).Ops()
	f, target, err := ops.Open(ctx, "link", linux.O_RDONLY, 0)
	if err != nil {
		t.Fatalf("Open(link): %v", err)
	}
	if f != nil {
		t.Fatalf("Open(link) returned a file, want nil with symlinkTarget set")
	}
	if target == "" {
		t.Fatalf("Open(link) symlinkTarget empty, want the real path")
	}
}

func TestMkdirRmdir(t *testing.T) {
	ctx := context.Background()
	ops := NewFilesystem(t.TempDir()).Ops()
	if err := ops.Mkdir(ctx, "sub", 0755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	if err := ops.Mkdir(ctx, "sub", 0755); !linuxerr.Equals(linuxerr.EEXIST, err) {
		t.Errorf("Mkdir(existing) error = %v, want EEXIST", err)
	}
	if err := ops.Rmdir(ctx, "sub"); err != nil {
		t.Fatalf("Rmdir: %v", err)
	}
}

func TestRenameMovesFile(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	ops := NewFilesystem(root).Ops()
	f, _, err := ops.Open(ctx, "old", linux.O_WRONLY|linux.O_CREAT, 0644)
	if err != nil {
		t.Fatalf("Open(O_CREAT): %v", err)
	}
	f.DecRef(ctx)

	if err := ops.Rename(ctx, "old", "new"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "new")); err != nil {
		t.Errorf("renamed file missing: %v", err)
	}
}

func TestStatFSReportsHostfsMagic(t *testing.T) {
	ctx := context.Background()
	ops := NewFilesystem(t.TempDir()).Ops()
	sfs, err := ops.StatFS(ctx)
	if err != nil || sfs.Type != linux.HOSTFS_SUPER_MAGIC {
		t.Errorf("StatFS = (%+v, %v), want Type=HOSTFS_SUPER_MAGIC", sfs, err)
	}
}
