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

	"github.com/lovejavaee/flinux/pkg/abi/linux"
	"github.com/lovejavaee/flinux/pkg/errors/linuxerr"
)

// Suspend implements rt_sigsuspend(2) (SUPPLEMENTED FEATURES: the
// original temporarily installs a mask, blocks until a signal is
// delivered, then restores the prior mask). It returns
// linuxerr.Interrupted once a delivery unblocks it, matching the
// original's sys_rt_sigsuspend, or ctx.Err() if the caller is canceled
// first (with the prior mask restored either way).
func (c *Core) Suspend(ctx context.Context, tmpMask linux.SignalSet) error {
	c.mu.Lock()
	saved := c.mask
	c.mask = tmpMask
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.mask = saved
		c.mu.Unlock()
	}()

	select {
	case <-c.ready:
		return linuxerr.Interrupted
	case <-ctx.Done():
		return ctx.Err()
	}
}
