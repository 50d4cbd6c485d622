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

package kernel

import (
	"context"
	"testing"

	"github.com/lovejavaee/flinux/pkg/errors/linuxerr"
	"github.com/lovejavaee/flinux/pkg/sentry/kernel/fdtable"
	"github.com/lovejavaee/flinux/pkg/sentry/vfs"
)

func TestProcessStateCWDAndUmask(t *testing.T) {
	p := NewProcessState("/", 0022)
	if got := p.CWD(); got != "/" {
		t.Errorf("CWD() = %q, want %q", got, "/")
	}
	if err := p.SetCWD("/home/user"); err != nil {
		t.Fatalf("SetCWD: %v", err)
	}
	if got := p.CWD(); got != "/home/user" {
		t.Errorf("CWD() after SetCWD = %q, want %q", got, "/home/user")
	}

	if old := p.SetUmask(0077); old != 0022 {
		t.Errorf("SetUmask returned %#o, want previous value %#o", old, 022)
	}
	if got := p.Umask(); got != 0077 {
		t.Errorf("Umask() = %#o, want %#o", got, 0077)
	}
}

// TestResetOnExecClosesCloexecAndResetsUmask is spec.md §4.4's
// reset_on_exec, exercised end to end: both halves of the contract
// (cloexec sweep on the fd table, umask restored to DefaultUmask) fire
// from the same call.
func TestResetOnExecClosesCloexecAndResetsUmask(t *testing.T) {
	ctx := context.Background()
	fdt := fdtable.New()
	fd, err := fdt.Store(vfs.NewFileDescription(vfs.FileOps{}, 0), true)
	if err != nil {
		t.Fatalf("Store: %v", err)
	}

	p := NewProcessState("/", 0077)
	p.ResetOnExec(ctx, fdt)

	if got := p.Umask(); got != DefaultUmask {
		t.Errorf("Umask() after ResetOnExec = %#o, want DefaultUmask %#o", got, DefaultUmask)
	}
	if f := fdt.Get(fd); f != nil {
		t.Errorf("fd %d still open after ResetOnExec, want closed (was CLOEXEC)", fd)
	}
	if got := p.CWD(); got != "/" {
		t.Errorf("CWD() after ResetOnExec = %q, want unchanged %q", got, "/")
	}
}

func TestProcessStateSetCWDTooLong(t *testing.T) {
	p := NewProcessState("/", 0022)
	long := make([]byte, 4096)
	for i := range long {
		long[i] = 'a'
	}
	if err := p.SetCWD("/" + string(long)); !linuxerr.Equals(linuxerr.ENAMETOOLONG, err) {
		t.Errorf("SetCWD with an over-long path error = %v, want ENAMETOOLONG", err)
	}
}
