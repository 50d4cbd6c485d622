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

// Package kernel holds the single-guest-process state that sits above
// the VFS and signal core: the working directory and umask spec.md §3
// names as "Process state".
package kernel

import (
	"context"
	"sync"

	"github.com/lovejavaee/flinux/pkg/abi/linux"
	"github.com/lovejavaee/flinux/pkg/errors/linuxerr"
	"github.com/lovejavaee/flinux/pkg/sentry/kernel/fdtable"
)

// DefaultUmask is the umask a process starts with absent an explicit
// override, and the value ResetOnExec restores it to (spec.md §4.4's
// "resets umask to default").
const DefaultUmask = 0022

// ProcessState is spec.md §3's "Process state": a single CWD string
// bounded by PATH_MAX and a single umask value. Grounded on gvisor's
// FSContext (pkg/sentry/kernel/fs_context.go), simplified from its
// per-thread-group, reference-counted, Fork()-able root+cwd pair to one
// mutex-guarded struct, since this core's Non-goals exclude
// multithreaded guest processes and there is exactly one process.
type ProcessState struct {
	mu    sync.Mutex
	cwd   string
	umask uint32
}

// NewProcessState returns a ProcessState rooted at cwd (which must
// already be an absolute, normalised guest path) with the given initial
// umask.
func NewProcessState(cwd string, umask uint32) *ProcessState {
	return &ProcessState{cwd: cwd, umask: umask}
}

// CWD returns the current working directory.
func (p *ProcessState) CWD() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cwd
}

// SetCWD updates the working directory to cwd, which must already be an
// absolute, normalised guest path (the caller resolves and validates it
// first, e.g. via vfs.Resolver.Stat confirming it is a directory).
// SetCWD itself only enforces spec.md §3's PATH_MAX bound.
func (p *ProcessState) SetCWD(cwd string) error {
	if len(cwd) >= linux.PATH_MAX {
		return linuxerr.ENAMETOOLONG
	}
	p.mu.Lock()
	p.cwd = cwd
	p.mu.Unlock()
	return nil
}

// Umask returns the current file mode creation mask.
func (p *ProcessState) Umask() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.umask
}

// SetUmask installs a new umask (umask(2)), returning the previous value.
func (p *ProcessState) SetUmask(mask uint32) uint32 {
	p.mu.Lock()
	old := p.umask
	p.umask = mask & 0777
	p.mu.Unlock()
	return old
}

// ResetOnExec implements spec.md §4.4's reset_on_exec in full: it closes
// every cloexec descriptor in fdt and restores the umask to
// DefaultUmask. The CWD is untouched — exec(2) never changes it.
func (p *ProcessState) ResetOnExec(ctx context.Context, fdt *fdtable.FDTable) {
	fdt.ResetOnExec(ctx)
	p.mu.Lock()
	p.umask = DefaultUmask
	p.mu.Unlock()
}
