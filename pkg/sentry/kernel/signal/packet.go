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

package signal

import "github.com/lovejavaee/flinux/pkg/abi/linux"

// packetKind discriminates the fixed-size packets spec.md §4.5 step 1
// says converge on the worker over the signal pipe/IOCP. In this Go
// implementation the "pipe bound to an IOCP" is realised as a buffered
// channel; the packet shape is the part of the design spec.md actually
// specifies, so it is kept even though the transport underneath it is
// not a literal named pipe.
type packetKind int

const (
	// packetIngress carries a freshly-arrived signal from kill or a
	// child-death completion: its sig/info are always populated.
	packetIngress packetKind = iota

	// packetDeliver is the internal "re-evaluate pending" prompt
	// rt_sigreturn and rt_sigprocmask enqueue after unmasking a signal;
	// it carries no sig of its own, the worker picks one from pending.
	packetDeliver

	// packetShutdown causes the worker to return; no further packets
	// are drained afterward (spec.md §4.5 "Cancellation").
	packetShutdown
)

type packet struct {
	kind packetKind
	sig  linux.Signal
	info linux.SignalInfo
}
