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

// Package fakethread provides a software double for
// platform.ThreadSuspender, so pkg/sentry/kernel/signal is fully
// unit-testable without a real Windows host — the same role gvisor's
// ptrace and kvm platforms play behind one platform.Platform interface,
// just for this core's much narrower suspend/rewrite boundary.
package fakethread

import (
	"sync"

	"github.com/lovejavaee/flinux/pkg/sentry/arch"
	"github.com/lovejavaee/flinux/pkg/sentry/platform"
)

// Thread is an in-memory stand-in for the main guest OS thread: its
// Context lives in a Go struct instead of behind SuspendThread/
// GetThreadContext, guarded by a mutex instead of true suspension.
type Thread struct {
	mu      sync.Mutex
	ctx     arch.Context
	suspend int // reentrancy counter, to catch a WithSuspended bug under test
}

// New returns a Thread with the given initial context.
func New(initial arch.Context) *Thread {
	return &Thread{ctx: initial}
}

// WithSuspended implements platform.ThreadSuspender.
func (t *Thread) WithSuspended(f func(ctx *arch.Context)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.suspend++
	defer func() { t.suspend-- }()
	f(&t.ctx)
	return nil
}

// Thread implements platform.ThreadSuspender.
func (t *Thread) Thread() platform.ThreadHandle { return 1 }

// Context returns a copy of the thread's current context, for test
// assertions.
func (t *Thread) Context() arch.Context {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ctx
}

// SetContext overwrites the thread's context directly, modelling the
// rt_sigreturn restore path where the new context comes from guest
// memory rather than from a WithSuspended callback.
func (t *Thread) SetContext(ctx arch.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ctx = ctx
}
