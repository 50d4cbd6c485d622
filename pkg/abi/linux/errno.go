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

package linux

// Errno numbers as seen by guest code, from uapi/asm-generic/errno-base.h
// and errno.h. These are guest-side constants: the host (Windows) has an
// entirely different errno space, so unlike a Linux-hosted sentry this
// core cannot borrow the host's errno definitions and must carry its own.
const (
	EPERM   = 1
	ENOENT  = 2
	ESRCH   = 3
	EINTR   = 4
	EIO     = 5
	ENXIO   = 6
	EBADF   = 9
	EAGAIN  = 11
	ENOMEM  = 12
	EACCES  = 13
	EFAULT  = 14
	EBUSY   = 16
	EEXIST  = 17
	EXDEV   = 18
	ENODEV  = 19
	ENOTDIR = 20
	EISDIR  = 21
	EINVAL  = 22
	ENFILE  = 23
	EMFILE  = 24
	ENOTTY  = 25
	EFBIG   = 27
	ENOSPC  = 28
	ESPIPE  = 29
	EROFS   = 30
	EMLINK  = 31
	EPIPE   = 32
	ENAMETOOLONG = 36
	ENOSYS       = 38
	ENOTEMPTY    = 39
	ELOOP        = 40
	EOVERFLOW    = 75
	ENOTSUP      = EOPNOTSUPP
	EOPNOTSUPP   = 95
)
