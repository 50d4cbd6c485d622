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

package fdtable

import (
	"context"
	"testing"

	"github.com/lovejavaee/flinux/pkg/abi/linux"
	"github.com/lovejavaee/flinux/pkg/errors/linuxerr"
	"github.com/lovejavaee/flinux/pkg/sentry/vfs"
)

func newTestFile() *vfs.FileDescription {
	return vfs.NewFileDescription(vfs.FileOps{}, 0)
}

func TestStoreAllocatesFirstEmptySlot(t *testing.T) {
	tbl := New()
	fd0, err := tbl.Store(newTestFile(), false)
	if err != nil || fd0 != 0 {
		t.Fatalf("Store #1 = (%d, %v), want (0, nil)", fd0, err)
	}
	fd1, err := tbl.Store(newTestFile(), false)
	if err != nil || fd1 != 1 {
		t.Fatalf("Store #2 = (%d, %v), want (1, nil)", fd1, err)
	}
	ctx := context.Background()
	tbl.Close(ctx, 0)
	fd2, err := tbl.Store(newTestFile(), false)
	if err != nil || fd2 != 0 {
		t.Fatalf("Store after closing fd 0 = (%d, %v), want (0, nil)", fd2, err)
	}
}

func TestStoreEMFILEWhenFull(t *testing.T) {
	tbl := New()
	for i := 0; i < MaxFDCount; i++ {
		if _, err := tbl.Store(newTestFile(), false); err != nil {
			t.Fatalf("Store #%d: %v", i, err)
		}
	}
	if _, err := tbl.Store(newTestFile(), false); !linuxerr.Equals(linuxerr.TooManyOpenFiles, err) {
		t.Errorf("Store on full table error = %v, want EMFILE", err)
	}
}

// TestCloexecReset is spec.md §8's S5: a CLOEXEC descriptor is reported
// by GetCloexec and removed by ResetOnExec, while a non-CLOEXEC
// descriptor at a lower fd survives.
func TestCloexecReset(t *testing.T) {
	ctx := context.Background()
	tbl := New()
	keep, _ := tbl.Store(newTestFile(), false)
	fd, err := tbl.Store(newTestFile(), true)
	if err != nil {
		t.Fatalf("Store: %v", err)
	}

	if _, cloexec := tbl.GetCloexec(fd); !cloexec {
		t.Errorf("GetCloexec(%d) cloexec = false, want true", fd)
	}

	tbl.ResetOnExec(ctx)

	if tbl.Get(fd) != nil {
		t.Errorf("Get(%d) after ResetOnExec = non-nil, want nil", fd)
	}
	if tbl.Get(keep) == nil {
		t.Errorf("Get(%d) after ResetOnExec = nil, want the non-cloexec file to survive", keep)
	}
}

// TestDup2Replaces is spec.md §8's S6: dup2 onto an occupied slot closes
// the prior occupant and aliases the new file.
func TestDup2Replaces(t *testing.T) {
	ctx := context.Background()
	tbl := New()
	a := newTestFile()
	b := newTestFile()
	fdA, _ := tbl.Store(a, false)
	fdB, _ := tbl.Store(b, false)

	newFD, err := tbl.Dup(ctx, fdA, fdB, 0)
	if err != nil {
		t.Fatalf("Dup: %v", err)
	}
	if newFD != fdB {
		t.Errorf("Dup returned %d, want %d", newFD, fdB)
	}
	if tbl.Get(fdB) != a {
		t.Errorf("Get(%d) after dup2 = %v, want the dup'd file %v", fdB, tbl.Get(fdB), a)
	}
	if got := b.ReadRefs(); got != 0 {
		t.Errorf("displaced file refcount = %d, want 0 (closed)", got)
	}
	if got := a.ReadRefs(); got != 2 {
		t.Errorf("dup'd file refcount = %d, want 2 (original slot + new slot)", got)
	}
}

func TestDupRejectsSameFD(t *testing.T) {
	ctx := context.Background()
	tbl := New()
	fd, _ := tbl.Store(newTestFile(), false)
	if _, err := tbl.Dup(ctx, fd, fd, 0); !linuxerr.Equals(linuxerr.InvalidArgument, err) {
		t.Errorf("Dup(fd, fd) error = %v, want EINVAL", err)
	}
}

func TestDupSetsCloexecFromFlags(t *testing.T) {
	ctx := context.Background()
	tbl := New()
	fd, _ := tbl.Store(newTestFile(), false)
	newFD, err := tbl.Dup(ctx, fd, -1, linux.O_CLOEXEC)
	if err != nil {
		t.Fatalf("Dup: %v", err)
	}
	if _, cloexec := tbl.GetCloexec(newFD); !cloexec {
		t.Errorf("GetCloexec(%d) = false, want true (O_CLOEXEC requested)", newFD)
	}
}

func TestCloseIsIdempotentFailure(t *testing.T) {
	ctx := context.Background()
	tbl := New()
	fd, _ := tbl.Store(newTestFile(), false)
	if err := tbl.Close(ctx, fd); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := tbl.Close(ctx, fd); !linuxerr.Equals(linuxerr.BadFd, err) {
		t.Errorf("second Close error = %v, want EBADF", err)
	}
}

func TestShutdownReleasesAllReferences(t *testing.T) {
	ctx := context.Background()
	tbl := New()
	files := make([]*vfs.FileDescription, 4)
	for i := range files {
		files[i] = newTestFile()
		tbl.Store(files[i], false)
	}
	tbl.Shutdown(ctx)
	for i, f := range files {
		if got := f.ReadRefs(); got != 0 {
			t.Errorf("file %d refcount after Shutdown = %d, want 0", i, got)
		}
	}
}
