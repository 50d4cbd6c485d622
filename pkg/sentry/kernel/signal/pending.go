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

// PendingTable is spec.md §3's "Pending signal table": a bitset plus one
// retained siginfo per signo. At most one pending siginfo is kept per
// signal; a second arrival while one is already pending is dropped
// (first-wins, per spec.md §4.5 step 2 and the §9 Open Question resolved
// in DESIGN.md). Callers are expected to hold Core.mu around every method
// here — PendingTable itself does no locking.
type PendingTable struct {
	set  linux.SignalSet
	info [linux.NumSignals]linux.SignalInfo
}

// Add records info as pending for sig. It reports false (no-op) if sig
// was already pending.
func (p *PendingTable) Add(sig linux.Signal, info linux.SignalInfo) bool {
	if p.set.Contains(sig) {
		return false
	}
	p.info[sig.Index()] = info
	p.set |= linux.SignalSetOf(sig)
	return true
}

// Take returns the lowest-numbered pending signal not blocked by mask,
// clearing it from the pending set. It reports false if none qualifies.
func (p *PendingTable) Take(mask linux.SignalSet) (linux.Signal, linux.SignalInfo, bool) {
	deliverable := p.set &^ mask
	for sig := linux.Signal(1); sig <= linux.SignalMaximum; sig++ {
		if deliverable.Contains(sig) {
			info := p.info[sig.Index()]
			p.set &^= linux.SignalSetOf(sig)
			return sig, info, true
		}
	}
	return 0, linux.SignalInfo{}, false
}

// Clear removes sig from the pending set without returning its siginfo.
func (p *PendingTable) Clear(sig linux.Signal) {
	p.set &^= linux.SignalSetOf(sig)
}

// Set returns the current pending bitset, for rt_sigpending(2).
func (p *PendingTable) Set() linux.SignalSet { return p.set }
