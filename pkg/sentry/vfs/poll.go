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
	"time"

	"github.com/lovejavaee/flinux/pkg/abi/linux"
	"github.com/lovejavaee/flinux/pkg/errors/linuxerr"
	"github.com/lovejavaee/flinux/pkg/sentry/kernel/fdtable"
	"github.com/lovejavaee/flinux/pkg/sentry/kernel/signal"
)

// pollInterval is how often Poll/Select re-checks PollStatus on files
// that reported no PollHandle (SUPPLEMENTED FEATURES "poll/ppoll/
// select/pselect6": this core has no real multiplexed wait object for
// every file type, so handle-less files fall back to cheap polling
// rather than blocking forever).
const pollInterval = 5 * time.Millisecond

// Poll implements poll(2)/ppoll(2) (SUPPLEMENTED FEATURES): it repeatedly
// samples PollStatus on every named fd until at least one is ready or
// timeout elapses (a negative timeout blocks indefinitely). fds is
// updated in place with REvents; entries naming an unopened fd get
// POLLNVAL.
func Poll(ctx context.Context, fdt *fdtable.FDTable, fds []linux.PollFD, timeout time.Duration) (int, error) {
	deadline, hasDeadline := deadlineFor(timeout)

	for {
		n := 0
		for i := range fds {
			file := fdt.Get(fds[i].FD)
			if file == nil {
				fds[i].REvents = linux.POLLNVAL
				n++
				continue
			}
			ready := int16(file.PollStatus()) & (fds[i].Events | linux.POLLERR | linux.POLLHUP)
			fds[i].REvents = ready
			if ready != 0 {
				n++
			}
		}
		if n > 0 {
			return n, nil
		}
		if hasDeadline && !time.Now().Before(deadline) {
			return 0, nil
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

func deadlineFor(timeout time.Duration) (time.Time, bool) {
	if timeout < 0 {
		return time.Time{}, false
	}
	return time.Now().Add(timeout), true
}

// Select implements select(2) over the three classic fd_set bitmasks,
// translated into PollFD entries and delegated to Poll.
func Select(ctx context.Context, fdt *fdtable.FDTable, nfds int32, readFDs, writeFDs, exceptFDs linux.SignalSet, timeout time.Duration) (linux.SignalSet, linux.SignalSet, linux.SignalSet, int, error) {
	if nfds < 0 || int(nfds) > linux.FDSetSize {
		return 0, 0, 0, 0, linuxerr.InvalidArgument
	}

	var fds []linux.PollFD
	index := make([]int, 0, nfds)
	for i := int32(0); i < nfds; i++ {
		var events int16
		if bitSet(readFDs, i) {
			events |= linux.POLLIN
		}
		if bitSet(writeFDs, i) {
			events |= linux.POLLOUT
		}
		if bitSet(exceptFDs, i) {
			events |= linux.POLLPRI
		}
		if events == 0 {
			continue
		}
		fds = append(fds, linux.PollFD{FD: i, Events: events})
		index = append(index, int(i))
	}

	n, err := Poll(ctx, fdt, fds, timeout)
	if err != nil {
		return 0, 0, 0, 0, err
	}

	var outRead, outWrite, outExcept linux.SignalSet
	count := 0
	for _, pfd := range fds {
		if pfd.REvents&linux.POLLIN != 0 {
			outRead |= 1 << uint(pfd.FD)
			count++
		}
		if pfd.REvents&linux.POLLOUT != 0 {
			outWrite |= 1 << uint(pfd.FD)
			count++
		}
		if pfd.REvents&(linux.POLLPRI|linux.POLLERR) != 0 {
			outExcept |= 1 << uint(pfd.FD)
			count++
		}
	}
	_ = n
	return outRead, outWrite, outExcept, count, nil
}

func bitSet(set linux.SignalSet, bit int32) bool {
	return set&(1<<uint(bit)) != 0
}

// PSelect6 implements pselect6(2)'s temporary signal-mask swap
// (SUPPLEMENTED FEATURES: "original installs a temporary mask for the
// duration of the call, same shape as rt_sigsuspend"): tmpMask is
// installed on core for the duration of the wait and the prior mask is
// always restored before returning, mirroring signal.Core.Suspend.
func PSelect6(ctx context.Context, core *signal.Core, fdt *fdtable.FDTable, nfds int32, readFDs, writeFDs, exceptFDs linux.SignalSet, timeout time.Duration, tmpMask linux.SignalSet, hasMask bool) (linux.SignalSet, linux.SignalSet, linux.SignalSet, int, error) {
	if !hasMask || core == nil {
		return Select(ctx, fdt, nfds, readFDs, writeFDs, exceptFDs, timeout)
	}

	saved := core.Mask()
	core.SetMask(ctx, tmpMask)
	defer core.SetMask(ctx, saved)

	return Select(ctx, fdt, nfds, readFDs, writeFDs, exceptFDs, timeout)
}
