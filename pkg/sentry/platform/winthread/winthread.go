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

//go:build windows

// Package winthread is the real Windows-backed platform.ThreadSuspender:
// it suspends the main guest thread with SuspendThread, fetches and
// rewrites its context with Get/SetThreadContext, and resumes it with
// ResumeThread, bracketing calls into the DBT exactly as spec.md §4.5 and
// §9's "bounded unsafe boundary" note require.
package winthread

import (
	"fmt"
	"sync"

	"golang.org/x/sys/windows"

	"github.com/lovejavaee/flinux/pkg/sentry/arch"
	"github.com/lovejavaee/flinux/pkg/sentry/platform"
)

// contextAll requests the full amd64 register set from Get/SetThreadContext.
const contextAll = 0x10000b

// winContext mirrors Windows' amd64 CONTEXT struct (1232 bytes), naming
// only the fields this core reads and rewrites. The home slots, MxCsr,
// segment selectors, debug registers, floating-point save area and the
// trailing vector/debug-control fields are opaque padding since none of
// them is touched here (FPU state is saved/restored by the host FPU save
// call spec.md §4.5 names separately).
type winContext struct {
	_            [6]uint64 // P1Home..P6Home
	contextFlags uint32
	_            uint32    // MxCsr
	_            [6]uint16 // SegCs, SegDs, SegEs, SegFs, SegGs, SegSs
	rflags       uint32    // EFlags
	_            [6]uint64 // Dr0..Dr3, Dr6, Dr7
	rax, rcx, rdx, rbx uint64
	rsp, rbp           uint64
	rsi, rdi           uint64
	r8, r9, r10, r11   uint64
	r12, r13, r14, r15 uint64
	rip                uint64
	_                  [512]byte         // FltSave (XMM/legacy save area)
	_                  [26*16 + 6*8]byte // VectorRegister, VectorControl, DebugControl, LastBranch/LastException Rips
}

func (w *winContext) setFlags(flags uint32) { w.contextFlags = flags }

// Thread suspends and rewrites the context of a single real Windows
// thread, identified by a duplicated HANDLE captured at process start.
type Thread struct {
	mu     sync.Mutex
	handle windows.Handle
}

// New wraps an already-open (and ideally already-duplicated, per spec.md
// §5's "duplicated handle to the main guest thread") thread handle.
func New(handle windows.Handle) *Thread {
	return &Thread{handle: handle}
}

// Thread implements platform.ThreadSuspender.
func (t *Thread) Thread() platform.ThreadHandle { return platform.ThreadHandle(t.handle) }

// WithSuspended implements platform.ThreadSuspender: SuspendThread,
// GetThreadContext, invoke f, SetThreadContext, ResumeThread. f must not
// itself call back into WithSuspended; the mutex here only serialises
// concurrent callers of WithSuspended on the same Thread, it does not
// protect against the thread being suspended twice by the OS (Windows
// suspend counts nest, but this core never relies on that).
func (t *Thread) WithSuspended(f func(ctx *arch.Context)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := windows.SuspendThread(t.handle); err != nil {
		return fmt.Errorf("winthread: SuspendThread: %w", err)
	}
	defer windows.ResumeThread(t.handle)

	var wctx winContext
	if err := getThreadContext(t.handle, &wctx); err != nil {
		return fmt.Errorf("winthread: GetThreadContext: %w", err)
	}

	ctx := fromWinContext(&wctx)
	f(ctx)
	toWinContext(ctx, &wctx)

	if err := setThreadContext(t.handle, &wctx); err != nil {
		return fmt.Errorf("winthread: SetThreadContext: %w", err)
	}
	return nil
}

func fromWinContext(w *winContext) *arch.Context {
	return &arch.Context{
		Rax: w.rax, Rcx: w.rcx, Rdx: w.rdx, Rbx: w.rbx,
		Rsp: w.rsp, Rbp: w.rbp, Rsi: w.rsi, Rdi: w.rdi,
		R8: w.r8, R9: w.r9, R10: w.r10, R11: w.r11,
		R12: w.r12, R13: w.r13, R14: w.r14, R15: w.r15,
		Rip: w.rip, Rflags: uint64(w.rflags),
	}
}

func toWinContext(c *arch.Context, w *winContext) {
	w.rax, w.rcx, w.rdx, w.rbx = c.Rax, c.Rcx, c.Rdx, c.Rbx
	w.rsp, w.rbp, w.rsi, w.rdi = c.Rsp, c.Rbp, c.Rsi, c.Rdi
	w.r8, w.r9, w.r10, w.r11 = c.R8, c.R9, c.R10, c.R11
	w.r12, w.r13, w.r14, w.r15 = c.R12, c.R13, c.R14, c.R15
	w.rip = c.Rip
	w.rflags = uint32(c.Rflags)
}
