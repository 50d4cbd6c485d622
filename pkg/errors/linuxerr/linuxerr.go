// Copyright 2021 The gVisor Authors.
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

// Package linuxerr contains syscall error codes exported as *errors.Error
// pointers. This allows for fast comparison and return operations, the
// same way unix.Errno constants would on a Linux-hosted sentry.
package linuxerr

import (
	"github.com/lovejavaee/flinux/pkg/abi/linux"
	"github.com/lovejavaee/flinux/pkg/errors"
)

// The following errors are the errno set this core's syscall layer
// actually returns. There is no host unix.Errno to translate from or to
// here: the host is Windows, so every syscall trampoline maps a Windows
// API failure (or an internal condition) straight to one of these
// guest-side values by hand at the point of the call, rather than through
// a generic host-errno lookup.
var (
	noError *errors.Error = nil

	EPERM        = errors.New(linux.EPERM, "operation not permitted")
	ENOENT       = errors.New(linux.ENOENT, "no such file or directory")
	ESRCH        = errors.New(linux.ESRCH, "no such process")
	EINTR        = errors.New(linux.EINTR, "interrupted system call")
	EIO          = errors.New(linux.EIO, "I/O error")
	ENXIO        = errors.New(linux.ENXIO, "no such device or address")
	EBADF        = errors.New(linux.EBADF, "bad file number")
	EAGAIN       = errors.New(linux.EAGAIN, "try again")
	ENOMEM       = errors.New(linux.ENOMEM, "out of memory")
	EACCES       = errors.New(linux.EACCES, "permission denied")
	EFAULT       = errors.New(linux.EFAULT, "bad address")
	EBUSY        = errors.New(linux.EBUSY, "device or resource busy")
	EEXIST       = errors.New(linux.EEXIST, "file exists")
	EXDEV        = errors.New(linux.EXDEV, "cross-device link")
	ENODEV       = errors.New(linux.ENODEV, "no such device")
	ENOTDIR      = errors.New(linux.ENOTDIR, "not a directory")
	EISDIR       = errors.New(linux.EISDIR, "is a directory")
	EINVAL       = errors.New(linux.EINVAL, "invalid argument")
	ENFILE       = errors.New(linux.ENFILE, "file table overflow")
	EMFILE       = errors.New(linux.EMFILE, "too many open files")
	ENOTTY       = errors.New(linux.ENOTTY, "not a typewriter")
	EFBIG        = errors.New(linux.EFBIG, "file too large")
	ENOSPC       = errors.New(linux.ENOSPC, "no space left on device")
	ESPIPE       = errors.New(linux.ESPIPE, "illegal seek")
	EROFS        = errors.New(linux.EROFS, "read-only file system")
	EMLINK       = errors.New(linux.EMLINK, "too many links")
	EPIPE        = errors.New(linux.EPIPE, "broken pipe")
	ENAMETOOLONG = errors.New(linux.ENAMETOOLONG, "file name too long")
	ENOSYS       = errors.New(linux.ENOSYS, "invalid system call number")
	ENOTEMPTY    = errors.New(linux.ENOTEMPTY, "directory not empty")
	ELOOP        = errors.New(linux.ELOOP, "too many symbolic links encountered")
	EOVERFLOW    = errors.New(linux.EOVERFLOW, "value too large for defined data type")
	EOPNOTSUPP   = errors.New(linux.EOPNOTSUPP, "operation not supported")

	// Errors equivalent to other errors.
	EWOULDBLOCK = EAGAIN
	ENOTSUP     = EOPNOTSUPP
)

// Taxonomy aliases matching the error kinds this project's design names
// directly, so callers can reason about why a syscall failed in the same
// vocabulary the design uses instead of raw errno mnemonics.
var (
	BadFd            = EBADF
	BadAddress       = EFAULT
	NoEntry          = ENOENT
	Loop             = ELOOP
	Overflow         = EOVERFLOW
	NotSupported     = EOPNOTSUPP
	InvalidArgument  = EINVAL
	TooManyOpenFiles = EMFILE
	NoPermission     = EACCES
	Interrupted      = EINTR
	NoSearchProcess  = ESRCH
)

// errorSlice holds errors by errno for fast translation between a raw
// errno number (as read off the wire, e.g. from a restored rt_sigframe) and
// the canonical *errors.Error for that number.
var errorSlice = func() []*errors.Error {
	all := []*errors.Error{
		EPERM, ENOENT, ESRCH, EINTR, EIO, ENXIO, EBADF, EAGAIN, ENOMEM, EACCES,
		EFAULT, EBUSY, EEXIST, EXDEV, ENODEV, ENOTDIR, EISDIR, EINVAL, ENFILE,
		EMFILE, ENOTTY, EFBIG, ENOSPC, ESPIPE, EROFS, EMLINK, EPIPE,
		ENAMETOOLONG, ENOSYS, ENOTEMPTY, ELOOP, EOVERFLOW, EOPNOTSUPP,
	}
	max := int32(0)
	for _, e := range all {
		if n := e.Errno(); n > max {
			max = n
		}
	}
	slice := make([]*errors.Error, max+1)
	for _, e := range all {
		slice[e.Errno()] = e
	}
	return slice
}()

// FromErrno returns the canonical *errors.Error for a raw guest errno
// number, or nil if errno is 0 or not one this core defines.
func FromErrno(errno int32) *errors.Error {
	if errno < 0 || int(errno) >= len(errorSlice) {
		return nil
	}
	return errorSlice[errno]
}

// ToError converts a linuxerr to an error type.
func ToError(err *errors.Error) error {
	if err == noError {
		return nil
	}
	return err
}

// Equals compares a linuxerr to a given error.
func Equals(e *errors.Error, err error) bool {
	if err == nil {
		err = noError
	}
	return e == err
}
