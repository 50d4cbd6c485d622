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

package vfs

import (
	"context"
	"testing"
	"time"

	"github.com/lovejavaee/flinux/pkg/abi/linux"
	"github.com/lovejavaee/flinux/pkg/sentry/kernel/fdtable"
)

func newPollableFile(status PollStatus) *FileDescription {
	return NewFileDescription(FileOps{
		PollStatus: func() PollStatus { return status },
	}, 0)
}

func TestPollReadyImmediately(t *testing.T) {
	fdt := fdtable.New()
	fd, _ := fdt.Store(newPollableFile(PollStatus(linux.POLLIN)), false)

	fds := []linux.PollFD{{FD: fd, Events: linux.POLLIN}}
	n, err := Poll(context.Background(), fdt, fds, 0)
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if n != 1 || fds[0].REvents != linux.POLLIN {
		t.Errorf("Poll = (%d, REvents=%d), want (1, POLLIN)", n, fds[0].REvents)
	}
}

func TestPollUnopenedFDIsNVAL(t *testing.T) {
	fdt := fdtable.New()
	fds := []linux.PollFD{{FD: 7, Events: linux.POLLIN}}
	n, err := Poll(context.Background(), fdt, fds, 0)
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if n != 1 || fds[0].REvents != linux.POLLNVAL {
		t.Errorf("Poll(unopened) = (%d, REvents=%d), want (1, POLLNVAL)", n, fds[0].REvents)
	}
}

func TestPollTimesOutWhenNeverReady(t *testing.T) {
	fdt := fdtable.New()
	fd, _ := fdt.Store(newPollableFile(0), false)

	fds := []linux.PollFD{{FD: fd, Events: linux.POLLIN}}
	n, err := Poll(context.Background(), fdt, fds, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if n != 0 {
		t.Errorf("Poll(never ready) n = %d, want 0", n)
	}
}

func TestSelectTranslatesBitmasks(t *testing.T) {
	fdt := fdtable.New()
	fd, _ := fdt.Store(newPollableFile(PollStatus(linux.POLLOUT)), false)

	readFDs := linux.SignalSet(0)
	writeFDs := linux.SignalSet(1) << uint(fd)
	gotRead, gotWrite, _, n, err := Select(context.Background(), fdt, fd+1, readFDs, writeFDs, 0, 0)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if n != 1 || gotWrite&(1<<uint(fd)) == 0 || gotRead != 0 {
		t.Errorf("Select = (read=%x, write=%x, n=%d), want fd %d set in write only", gotRead, gotWrite, n, fd)
	}
}

func TestSelectRejectsNegativeNFDs(t *testing.T) {
	fdt := fdtable.New()
	if _, _, _, _, err := Select(context.Background(), fdt, -1, 0, 0, 0, 0); err == nil {
		t.Errorf("Select(nfds=-1) succeeded, want EINVAL")
	}
}

func TestPSelect6WithoutMaskFallsBackToSelect(t *testing.T) {
	// A nil *signal.Core (hasMask=false) must fall back to plain Select
	// without panicking.
	fdt := fdtable.New()
	fd, _ := fdt.Store(newPollableFile(PollStatus(linux.POLLIN)), false)
	readFDs := linux.SignalSet(1) << uint(fd)

	_, _, _, n, err := PSelect6(context.Background(), nil, fdt, fd+1, readFDs, 0, 0, 0, 0, false)
	if err != nil {
		t.Fatalf("PSelect6: %v", err)
	}
	if n != 1 {
		t.Errorf("PSelect6 n = %d, want 1", n)
	}
}
