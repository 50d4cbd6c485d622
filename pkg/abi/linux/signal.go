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

// SignalMaximum is the highest valid signal number (_NSIG - 1).
const SignalMaximum = 64

// NumSignals is _NSIG: signal numbers run 1..NumSignals-1.
const NumSignals = SignalMaximum + 1

// Signal is a signal number.
type Signal int32

// IsValid returns true if s is a valid signal number. 0 is never valid;
// callers special-casing signal 0 (e.g. kill(pid, 0) as a liveness probe)
// must check for it before calling IsValid.
func (s Signal) IsValid() bool {
	return s > 0 && s <= SignalMaximum
}

// Index returns the bit index of s within a SignalSet.
func (s Signal) Index() uint {
	return uint(s - 1)
}

// Standard signal numbers, from uapi/asm-generic/signal.h.
const (
	SIGHUP    = Signal(1)
	SIGINT    = Signal(2)
	SIGQUIT   = Signal(3)
	SIGILL    = Signal(4)
	SIGTRAP   = Signal(5)
	SIGABRT   = Signal(6)
	SIGIOT    = Signal(6)
	SIGBUS    = Signal(7)
	SIGFPE    = Signal(8)
	SIGKILL   = Signal(9)
	SIGUSR1   = Signal(10)
	SIGSEGV   = Signal(11)
	SIGUSR2   = Signal(12)
	SIGPIPE   = Signal(13)
	SIGALRM   = Signal(14)
	SIGTERM   = Signal(15)
	SIGSTKFLT = Signal(16)
	SIGCHLD   = Signal(17)
	SIGCONT   = Signal(18)
	SIGSTOP   = Signal(19)
	SIGTSTP   = Signal(20)
	SIGTTIN   = Signal(21)
	SIGTTOU   = Signal(22)
	SIGURG    = Signal(23)
	SIGXCPU   = Signal(24)
	SIGXFSZ   = Signal(25)
	SIGVTALRM = Signal(26)
	SIGPROF   = Signal(27)
	SIGWINCH  = Signal(28)
	SIGIO     = Signal(29)
	SIGPOLL   = Signal(29)
	SIGPWR    = Signal(30)
	SIGSYS    = Signal(31)
	SIGUNUSED = Signal(31)
)

// SignalSet is a bitmask of pending or blocked signals, one bit per signo.
type SignalSet uint64

// SignalSetSize is the size in bytes of a SignalSet on the wire (sigset_t).
const SignalSetSize = 8

// SignalSetOf returns a SignalSet with only sig's bit set.
func SignalSetOf(sig Signal) SignalSet {
	return SignalSet(1) << sig.Index()
}

// Contains returns true if sig's bit is set in s.
func (s SignalSet) Contains(sig Signal) bool {
	return s&SignalSetOf(sig) != 0
}

// ForEach invokes f for every signal set in s, in increasing signal order.
func (s SignalSet) ForEach(f func(sig Signal)) {
	for i := Signal(1); i <= SignalMaximum; i++ {
		if s.Contains(i) {
			f(i)
		}
	}
}

// 'how' values for rt_sigprocmask(2).
const (
	SIG_BLOCK   = 0
	SIG_UNBLOCK = 1
	SIG_SETMASK = 2
)

// Special values for sigaction::sa_handler.
const (
	SIG_DFL = 0
	SIG_IGN = 1
)

// sa_flags bits for rt_sigaction(2), from uapi/asm-generic/signal.h.
const (
	SA_NOCLDSTOP = 0x00000001
	SA_NOCLDWAIT = 0x00000002
	SA_SIGINFO   = 0x00000004
	SA_RESTORER  = 0x04000000
	SA_ONSTACK   = 0x08000000
	SA_RESTART   = 0x10000000
	SA_NODEFER   = 0x40000000
	SA_RESETHAND = 0x80000000
)

// SignalInfo is struct siginfo_t (the fixed-size, 128-byte kernel ABI
// layout). Only the fields this core actually populates (kill/chld) are
// broken out as accessors; the rest of the union is left as raw bytes.
//
// +marshal
type SignalInfo struct {
	Signo int32
	Errno int32
	Code  int32
	_     int32
	Fields [128 - 16]byte
}

// SignalInfo.Code values.
const (
	SI_USER  = 0
	SI_KERNEL = 0x80
	SI_QUEUE = -1
)

// PID returns the si_pid field.
func (s *SignalInfo) PID() int32 { return int32(byteOrder.Uint32(s.Fields[0:4])) }

// SetPID sets the si_pid field.
func (s *SignalInfo) SetPID(pid int32) { byteOrder.PutUint32(s.Fields[0:4], uint32(pid)) }

// UID returns the si_uid field.
func (s *SignalInfo) UID() int32 { return int32(byteOrder.Uint32(s.Fields[4:8])) }

// SetUID sets the si_uid field.
func (s *SignalInfo) SetUID(uid int32) { byteOrder.PutUint32(s.Fields[4:8], uint32(uid)) }

// Status returns the si_status field (SIGCHLD exit code/signal).
func (s *SignalInfo) Status() int32 { return int32(byteOrder.Uint32(s.Fields[8:12])) }

// SetStatus sets the si_status field.
func (s *SignalInfo) SetStatus(status int32) { byteOrder.PutUint32(s.Fields[8:12], uint32(status)) }
