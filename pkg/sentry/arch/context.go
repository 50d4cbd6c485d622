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

// Package arch holds the guest register/frame layout this core rewrites
// to deliver signals: the amd64 integer context fetched from (and written
// back to) the suspended main thread, and the rt_sigframe/mcontext_t
// layout placed on the guest stack. It has no host dependency of its own;
// platform.ThreadSuspender implementations populate and consume Context.
package arch

// Context is the subset of amd64 general-purpose and control register
// state this core reads and rewrites around a signal delivery: enough to
// redirect execution into a handler (Rip/Rsp plus the first three
// argument registers) and to save/restore the rest faithfully across
// rt_sigreturn.
type Context struct {
	R8, R9, R10, R11, R12, R13, R14, R15 uint64
	Rdi, Rsi, Rbp, Rbx, Rdx, Rax, Rcx    uint64
	Rsp, Rip, Rflags                     uint64
	Cs, Gs, Fs, Ss                       uint64
}

// SetArg sets the i'th (0-based) integer argument register per the
// System V AMD64 calling convention (rdi, rsi, rdx), used to pass sig,
// &info, &uc to a handler on entry.
func (c *Context) SetArg(i int, v uint64) {
	switch i {
	case 0:
		c.Rdi = v
	case 1:
		c.Rsi = v
	case 2:
		c.Rdx = v
	}
}

// Clone returns a copy of c, used so that deliver() can hand the worker's
// snapshot to the DBT contract while the original stays untouched until
// SetThreadContext actually commits it.
func (c *Context) Clone() *Context {
	cp := *c
	return &cp
}
