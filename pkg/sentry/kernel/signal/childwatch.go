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

import (
	"context"
	"fmt"
	"io"

	"github.com/lovejavaee/flinux/pkg/abi/linux"
)

// WatchChild registers a goroutine, supervised by the same errgroup
// Start launched the worker under, that treats EOF or a read error on
// deathPipe as child termination (spec.md §4.5 step 6: "Each tracked
// child owns a named, message-mode pipe whose write end is leaked into
// the child"). On termination it raises SIGCHLD through the normal
// ingress path and increments the child-wait semaphore that WaitChild
// drains.
//
// Must be called after Start. deathPipe is read to completion (any byte
// read is ignored; only EOF/error carries meaning) and then closed.
func (c *Core) WatchChild(ctx context.Context, pid int32, deathPipe io.ReadCloser) {
	if c.group == nil {
		panic("signal: WatchChild called before Start")
	}
	c.group.Go(func() error {
		defer deathPipe.Close()
		buf := make([]byte, 1)
		for {
			if _, err := deathPipe.Read(buf); err != nil {
				if err == io.EOF {
					c.onChildDeath(ctx, pid)
					return nil
				}
				return fmt.Errorf("signal: child %d death pipe: %w", pid, err)
			}
		}
	})
}

func (c *Core) onChildDeath(ctx context.Context, pid int32) {
	info := linux.SignalInfo{Signo: int32(linux.SIGCHLD), Code: linux.SI_KERNEL}
	info.SetPID(pid)
	if err := c.enqueue(ctx, packet{kind: packetIngress, sig: linux.SIGCHLD, info: info}); err != nil {
		return
	}

	c.childMu.Lock()
	c.childCount++
	c.childCond.Broadcast()
	c.childMu.Unlock()
}

// WaitChild blocks until at least one tracked child has died since the
// last successful WaitChild call, then consumes one unit of the
// child-wait semaphore (spec.md §4.5 step 6). It does not itself
// distinguish which child died; callers combine it with their own
// process-table bookkeeping for that, which is outside this core's
// scope.
func (c *Core) WaitChild(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.childMu.Lock()
		for c.childCount == 0 {
			select {
			case <-ctx.Done():
				c.childMu.Unlock()
				return
			default:
			}
			c.childCond.Wait()
		}
		c.childCount--
		c.childMu.Unlock()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		c.childCond.Broadcast() // unstick the waiter above so it can observe ctx.Done
		return ctx.Err()
	}
}
