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

package vfs

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lovejavaee/flinux/pkg/abi/linux"
	"github.com/lovejavaee/flinux/pkg/errors/linuxerr"
)

func TestNarrowStatFitsInRange(t *testing.T) {
	full := linux.Stat{
		Dev:   1,
		Ino:   42,
		Mode:  uint32(linux.ModeRegular | 0644),
		Nlink: 1,
		Size:  1024,
		ATime: linux.Timespec{Sec: 1000},
		MTime: linux.Timespec{Sec: 2000},
		CTime: linux.Timespec{Sec: 3000},
	}
	got, err := NarrowStat(full)
	if err != nil {
		t.Fatalf("NarrowStat: %v", err)
	}
	want := OldStat{Dev: 1, Ino: 42, Mode: uint16(full.Mode), Nlink: 1, Size: 1024, ATime: 1000, MTime: 2000, CTime: 3000}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NarrowStat mismatch (-want +got):\n%s", diff)
	}
}

func TestNarrowStatInoOverflow(t *testing.T) {
	full := linux.Stat{Ino: 1 << 33}
	if _, err := NarrowStat(full); !linuxerr.Equals(linuxerr.Overflow, err) {
		t.Errorf("NarrowStat(huge ino) error = %v, want EOVERFLOW", err)
	}
}

func TestNarrowStatSizeOverflow(t *testing.T) {
	full := linux.Stat{Size: 1 << 40}
	if _, err := NarrowStat(full); !linuxerr.Equals(linuxerr.Overflow, err) {
		t.Errorf("NarrowStat(huge size) error = %v, want EOVERFLOW", err)
	}
}

func TestNarrowStatFSFitsInRange(t *testing.T) {
	full := linux.Statfs{Type: linux.HOSTFS_SUPER_MAGIC, BlockSize: 4096, Blocks: 1000, BlocksFree: 500, BlocksAvailable: 500}
	got, err := NarrowStatFS(full)
	if err != nil {
		t.Fatalf("NarrowStatFS: %v", err)
	}
	if got.Type != int32(linux.HOSTFS_SUPER_MAGIC) || got.Blocks != 1000 {
		t.Errorf("NarrowStatFS = %+v, want Type=%d Blocks=1000", got, linux.HOSTFS_SUPER_MAGIC)
	}
}

func TestNarrowStatFSBlocksOverflow(t *testing.T) {
	full := linux.Statfs{Blocks: 1 << 40}
	if _, err := NarrowStatFS(full); !linuxerr.Equals(linuxerr.Overflow, err) {
		t.Errorf("NarrowStatFS(huge blocks) error = %v, want EOVERFLOW", err)
	}
}
