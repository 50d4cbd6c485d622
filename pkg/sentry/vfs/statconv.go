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
	"math"

	"github.com/lovejavaee/flinux/pkg/abi/linux"
	"github.com/lovejavaee/flinux/pkg/errors/linuxerr"
)

// OldStat is struct stat as returned by the pre-stat64 stat(2)/fstat(2)/
// lstat(2) family (SUPPLEMENTED FEATURES: "statfs/fstatfs constants"):
// dev_t is 16 bits and ino_t and off_t are 32 bits wide here, unlike
// FileDescription.Stat's wire-native linux.Stat.
type OldStat struct {
	Dev     uint16
	Ino     uint32
	Mode    uint16
	Nlink   uint16
	UID     uint16
	GID     uint16
	Rdev    uint16
	Size    int32
	Blksize int32
	Blocks  int32
	ATime   int32
	MTime   int32
	CTime   int32
}

// NarrowStat converts full to the legacy 32-bit stat layout, returning
// linuxerr.Overflow if any field does not fit (EOVERFLOW is exactly what
// Linux's compat stat(2) returns in this situation).
func NarrowStat(full linux.Stat) (OldStat, error) {
	if full.Ino > math.MaxUint32 {
		return OldStat{}, linuxerr.Overflow
	}
	if full.Size > math.MaxInt32 || full.Size < math.MinInt32 {
		return OldStat{}, linuxerr.Overflow
	}
	if full.Blocks > math.MaxInt32 || full.Blocks < math.MinInt32 {
		return OldStat{}, linuxerr.Overflow
	}
	if full.Dev > math.MaxUint16 || full.Rdev > math.MaxUint16 {
		return OldStat{}, linuxerr.Overflow
	}
	if full.Nlink > math.MaxUint16 || full.Mode > math.MaxUint16 || full.UID > math.MaxUint16 || full.GID > math.MaxUint16 {
		return OldStat{}, linuxerr.Overflow
	}
	if full.Blksize > math.MaxInt32 || full.Blksize < math.MinInt32 {
		return OldStat{}, linuxerr.Overflow
	}
	for _, ts := range [...]linux.Timespec{full.ATime, full.MTime, full.CTime} {
		if ts.Sec > math.MaxInt32 || ts.Sec < math.MinInt32 {
			return OldStat{}, linuxerr.Overflow
		}
	}
	return OldStat{
		Dev:     uint16(full.Dev),
		Ino:     uint32(full.Ino),
		Mode:    uint16(full.Mode),
		Nlink:   uint16(full.Nlink),
		UID:     uint16(full.UID),
		GID:     uint16(full.GID),
		Rdev:    uint16(full.Rdev),
		Size:    int32(full.Size),
		Blksize: int32(full.Blksize),
		Blocks:  int32(full.Blocks),
		ATime:   int32(full.ATime.Sec),
		MTime:   int32(full.MTime.Sec),
		CTime:   int32(full.CTime.Sec),
	}, nil
}

// OldStatFS is struct statfs as returned by the 32-bit statfs(2)/
// fstatfs(2) family, with f_type/f_bsize/counts narrowed to int32.
type OldStatFS struct {
	Type       int32
	BlockSize  int32
	Blocks     uint32
	FreeBlocks uint32
	AvailBlocks uint32
	Files      uint32
	FreeFiles  uint32
	FSID       [2]int32
	NameLength int32
}

// NarrowStatFS converts full to the legacy 32-bit statfs layout, per the
// same EOVERFLOW contract as NarrowStat.
func NarrowStatFS(full linux.Statfs) (OldStatFS, error) {
	if full.Type > math.MaxInt32 {
		return OldStatFS{}, linuxerr.Overflow
	}
	if full.Blocks > math.MaxUint32 || full.BlocksFree > math.MaxUint32 || full.BlocksAvailable > math.MaxUint32 {
		return OldStatFS{}, linuxerr.Overflow
	}
	if full.Files > math.MaxUint32 || full.FilesFree > math.MaxUint32 {
		return OldStatFS{}, linuxerr.Overflow
	}
	if full.BlockSize > math.MaxInt32 || full.BlockSize < math.MinInt32 || full.NameLength > math.MaxInt32 {
		return OldStatFS{}, linuxerr.Overflow
	}
	return OldStatFS{
		Type:        int32(full.Type),
		BlockSize:   int32(full.BlockSize),
		Blocks:      uint32(full.Blocks),
		FreeBlocks:  uint32(full.BlocksFree),
		AvailBlocks: uint32(full.BlocksAvailable),
		Files:       uint32(full.Files),
		FreeFiles:   uint32(full.FilesFree),
		FSID:        full.FSID,
		NameLength:  int32(full.NameLength),
	}, nil
}
