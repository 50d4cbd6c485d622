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

// Package platform declares the bounded unsafe boundary spec.md §9
// specifies as a replacement for direct thread-suspend/set-context
// intrusion: a single abstract operation, ThreadSuspender.WithSuspended,
// behind which winthread's real Windows implementation and fakethread's
// software double both live. Nothing outside this package and its
// implementations touches SuspendThread/GetThreadContext/SetThreadContext
// directly.
package platform

import "github.com/lovejavaee/flinux/pkg/sentry/arch"

// ThreadHandle identifies the main guest thread to a ThreadSuspender
// implementation (a Windows HANDLE on winthread, an opaque token on
// fakethread).
type ThreadHandle uintptr

// ThreadSuspender is the single abstract operation this core uses to
// rewrite the main guest thread's register context. Implementations MUST
// guarantee that f observes (and can mutate) the thread's true context
// only while it is genuinely suspended, and that the mutated context (if
// any) is committed before the thread resumes.
type ThreadSuspender interface {
	// WithSuspended suspends the thread identified by Thread, invokes f
	// with a pointer to its current context, and resumes the thread
	// with whatever f left in that context (f may choose not to modify
	// it at all, e.g. during rt_sigreturn's restore path where the
	// caller writes the context directly instead).
	WithSuspended(f func(ctx *arch.Context)) error

	// Thread returns the handle identifying the suspender's target
	// thread, for passing to a dbt.Translator call made from inside f.
	Thread() ThreadHandle
}

// SignalInterrupt is the signal number this core reserves to unwind a
// blocking host call (e.g. a misfired platform-level interrupt) rather
// than deliver a guest signal; it is never exposed to guest signal
// handlers.
const SignalInterrupt = 32 // SIGRTMIN on most Linux ABIs; unused by this core's NSIG=64 table below it.
