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

	"github.com/lovejavaee/flinux/pkg/sentry/arch"
)

// RtSigReturn implements spec.md §4.5 step 5: restore the process mask
// from the frame's saved uc_sigmask, then, under the mutex, re-evaluate
// pending & ~mask and enqueue a DELIVER packet if it is non-empty. It
// does not itself hand mctx to the DBT for register restore — that is
// dbt.Translator.SigReturn's job, called by the syscall trampoline after
// this returns, exactly once, with the main thread still suspended.
func (c *Core) RtSigReturn(ctx context.Context, uc *arch.UContext) error {
	c.mu.Lock()
	c.mask = uc.SigMask
	needsDeliver := c.pending.Set()&^c.mask != 0
	c.mu.Unlock()

	if needsDeliver {
		return c.enqueue(ctx, packet{kind: packetDeliver})
	}
	return nil
}
