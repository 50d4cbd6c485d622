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

// Kill implements kill(2)/tkill(2) ingress (spec.md §4.5 step 1 and the
// SUPPLEMENTED FEATURES "self-only validation" note): this core only
// emulates a single guest process, so any pid other than the caller's own
// is rejected with ESRCH rather than attempting — and silently failing —
// real inter-process delivery (the "inter-process kill to arbitrary
// pids" Non-goal).
func (c *Core) Kill(ctx context.Context, pid, self int32, sig linux.Signal) error {
	if pid != self {
		return linuxerr.NoSearchProcess
	}
	if !sig.IsValid() {
		return linuxerr.InvalidArgument
	}
	info := linux.SignalInfo{Signo: int32(sig), Code: linux.SI_USER}
	info.SetPID(self)
	return c.enqueue(ctx, packet{kind: packetIngress, sig: sig, info: info})
}
