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

package linuxerr

import "github.com/lovejavaee/flinux/pkg/errors"

var (
	// ErrWouldBlock is an internal error used to indicate that an operation
	// cannot be satisfied immediately and should be retried later, possibly
	// once the caller has been notified that the operation may complete.
	ErrWouldBlock = errors.New(EAGAIN.Errno(), "request would block")

	// ErrInterrupted is returned if a request is interrupted before it can
	// complete.
	ErrInterrupted = errors.New(EINTR.Errno(), "request was interrupted")
)

var errorMap = map[error]*errors.Error{
	ErrWouldBlock:  EWOULDBLOCK,
	ErrInterrupted: EINTR,
}

// TranslateError translates an internal sentinel error to the *errors.Error
// that should cross the syscall boundary. It returns false if from was not
// registered.
func TranslateError(from error) (*errors.Error, bool) {
	err, ok := errorMap[from]
	return err, ok
}

// Pseudo-errno values a syscall implementation can return internally to
// request that its caller restart it once the interrupting condition (a
// signal delivery) has been handled. These never reach guest code directly:
// the task-resumption path below translates them to either EINTR or a
// genuine restart before the syscall return value is written back to the
// guest's registers, exactly as the numbers 512-516 are reserved for this
// purpose in the real kernel and never appear in errno.h.
const (
	restartSys           = 512
	restartNoIntr        = 513
	restartNoHand        = 514
	restartRestartBlock  = 516
)

var (
	// ERESTARTSYS indicates a syscall should be converted to EINTR if
	// interrupted by a signal delivered to a user handler installed without
	// SA_RESTART, and restarted otherwise.
	ERESTARTSYS = errors.New(restartSys, "to be restarted if SA_RESTART is set")

	// ERESTARTNOINTR indicates a syscall should always be restarted
	// regardless of the interrupting handler's flags.
	ERESTARTNOINTR = errors.New(restartNoIntr, "to be restarted")

	// ERESTARTNOHAND indicates a syscall should be converted to EINTR if
	// interrupted by a signal delivered to any user handler, and restarted
	// if the signal is otherwise disposed of (ignored, default, blocked).
	ERESTARTNOHAND = errors.New(restartNoHand, "to be restarted if no handler")

	// ERESTART_RESTARTBLOCK indicates a syscall should be restarted using a
	// caller-registered restart continuation rather than by simply
	// re-entering the syscall from the top.
	ERESTART_RESTARTBLOCK = errors.New(restartRestartBlock, "interrupted by signal")
)

var restartMap = map[int32]*errors.Error{
	restartSys:          ERESTARTSYS,
	restartNoIntr:       ERESTARTNOINTR,
	restartNoHand:       ERESTARTNOHAND,
	restartRestartBlock: ERESTART_RESTARTBLOCK,
}

// IsRestartError reports whether err is one of the pseudo-errno restart
// values above.
func IsRestartError(err error) bool {
	switch err {
	case ERESTARTSYS, ERESTARTNOINTR, ERESTARTNOHAND, ERESTART_RESTARTBLOCK:
		return true
	default:
		return false
	}
}

// SyscallRestartErrorFromReturn returns the restart pseudo-error represented
// by rv, a raw value read from a syscall's return register.
func SyscallRestartErrorFromReturn(rv uintptr) (*errors.Error, bool) {
	err, ok := restartMap[int32(rv)]
	return err, ok
}
