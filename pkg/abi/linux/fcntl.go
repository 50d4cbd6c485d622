// Copyright 2018 Google LLC
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

// Package linux holds the guest-visible Linux ABI constants and wire
// structures this core translates to and from: open/fcntl flags, stat and
// statfs layouts, dirent records, poll events, and signal numbers/masks.
// Nothing here depends on the host; it is the vocabulary the syscall
// trampoline, the VFS, and the signal core all share.
package linux

// Commands for fcntl(2), from linux/fcntl.h.
const (
	F_DUPFD         = 0
	F_GETFD         = 1
	F_SETFD         = 2
	F_GETFL         = 3
	F_SETFL         = 4
	F_SETLK         = 6
	F_SETLKW        = 7
	F_SETOWN        = 8
	F_GETOWN        = 9
	F_DUPFD_CLOEXEC = 1030
)

// Flags for fcntl(F_SETFD).
const (
	FD_CLOEXEC = 00000001
)

// Constants for open(2).
const (
	O_RDONLY    = 00000000
	O_WRONLY    = 00000001
	O_RDWR      = 00000002
	O_ACCMODE   = 00000003
	O_CREAT     = 00000100
	O_EXCL      = 00000200
	O_NOCTTY    = 00000400
	O_TRUNC     = 00001000
	O_APPEND    = 00002000
	O_NONBLOCK  = 00004000
	O_DIRECT    = 00040000
	O_LARGEFILE = 00100000
	O_DIRECTORY = 00200000
	O_NOFOLLOW  = 00400000
	O_CLOEXEC   = 02000000
	O_PATH      = 010000000
)

// Constants for fstatat(2), unlinkat(2), linkat(2) and friends.
const (
	AT_FDCWD            = -100
	AT_SYMLINK_NOFOLLOW = 0x100
	AT_REMOVEDIR        = 0x200
	AT_SYMLINK_FOLLOW   = 0x400
	AT_EMPTY_PATH       = 0x1000
)

// Special values for the ns field in utimensat(2).
const (
	UTIME_NOW  = (1 << 30) - 1
	UTIME_OMIT = (1 << 30) - 2
)
