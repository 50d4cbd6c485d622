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

// Package signal implements the signal core (Component E): pending/mask
// state, the signal worker, context-rewriting delivery, and child-process
// death fan-in, per spec.md §3 and §4.5.
package signal

import (
	"sync"

	"github.com/lovejavaee/flinux/pkg/abi/linux"
	"github.com/lovejavaee/flinux/pkg/errors/linuxerr"
)

// Disposition is a signal's handler disposition.
type Disposition int

// Handler dispositions.
const (
	DispositionDefault Disposition = iota
	DispositionIgnore
	DispositionCustom
)

// Action is one signal action table entry (spec.md §3's "Signal action
// table"): disposition, the mask ORed into the process mask during
// delivery, and the restorer address rt_sigreturn traps through.
type Action struct {
	Disposition Disposition
	Handler     uint64 // guest address; meaningful only when Disposition == DispositionCustom.
	Mask        linux.SignalSet
	Restorer    uint64
}

// ActionTable holds one Action per signal number 1..SignalMaximum.
// SIGKILL and SIGSTOP's entries can never be modified (spec.md §3, §8
// invariant 4).
type ActionTable struct {
	mu      sync.Mutex
	actions [linux.NumSignals]Action
}

// NewActionTable returns an ActionTable with every signal defaulted to
// DispositionDefault.
func NewActionTable() *ActionTable {
	return &ActionTable{}
}

// Get returns a copy of sig's current action.
func (t *ActionTable) Get(sig linux.Signal) Action {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.actions[sig.Index()]
}

// Set installs act for sig. It returns linuxerr.InvalidArgument without
// modifying the table if sig is SIGKILL or SIGSTOP (spec.md §8 invariant
// 4: rt_sigaction on either is EINVAL with the table unchanged).
func (t *ActionTable) Set(sig linux.Signal, act Action) error {
	if sig == linux.SIGKILL || sig == linux.SIGSTOP {
		return linuxerr.InvalidArgument
	}
	t.mu.Lock()
	t.actions[sig.Index()] = act
	t.mu.Unlock()
	return nil
}
