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

package linux

// Filesystem types used in statfs(2), from linux/magic.h: the magics this
// core's own pluggable filesystems (host-backed, device, pipe, socket)
// report, plus the devpts and proc magics.
const (
	HOSTFS_SUPER_MAGIC = 0x0000ef53 // reported as if EXT_SUPER_MAGIC; host fs has no native magic.
	DEVPTS_SUPER_MAGIC = 0x00001cd1
	PIPEFS_MAGIC       = 0x50495045
	SOCKFS_MAGIC       = 0x534f434b
	RAMFS_MAGIC        = 0x09041934
	PROC_SUPER_MAGIC   = 0x9fa0
)

// Filesystem path limits, from uapi/linux/limits.h.
const (
	NAME_MAX = 255
	PATH_MAX = 4096
)

// Statfs is struct statfs, from uapi/asm-generic/statfs.h.
type Statfs struct {
	Type            uint64
	BlockSize       int64
	Blocks          uint64
	BlocksFree      uint64
	BlocksAvailable uint64
	Files           uint64
	FilesFree       uint64
	FSID            [2]int32
	NameLength      uint64
	FragmentSize    int64
	Flags           uint64
	Spare           [4]uint64
}

// Whence argument to lseek(2), from include/uapi/linux/fs.h.
const (
	SEEK_SET = 0
	SEEK_CUR = 1
	SEEK_END = 2
)
