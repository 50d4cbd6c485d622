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
	"fmt"

	"github.com/lovejavaee/flinux/pkg/abi/linux"
	"github.com/lovejavaee/flinux/pkg/errors/linuxerr"
	"github.com/lovejavaee/flinux/pkg/sentry/arch"
)

// DefaultRestorer is used as a signal frame's pretcode when the
// registering handler supplied none (no SA_RESTORER), standing in for
// the emulator's own tiny rt_sigreturn trampoline.
var DefaultRestorer uint64

// HostFPUSave is called by SetupHandler to ask the host to save the
// current FPU state into the guest memory range [addr, addr+size); it is
// a thin seam over the MM/host collaborator this core does not implement
// itself (spec.md §6 names mm_mmap/mm_static_alloc as the sibling
// contract for the memory behind it).
type HostFPUSave func(addr uint64, size int) error

// SetupHandler implements spec.md §4.5 step 4: it runs on the main
// thread, after it has resumed into the signal-setup trampoline the DBT
// redirected it to. It builds the rt_sigframe for the currently-delivered
// signal, updates the mask/canAcceptSignal state under the mutex, and
// returns the frame plus the redirected entry point so the caller (the
// trampoline, in the real system; a test, here) can place the frame in
// guest memory and jump to the handler.
//
// guestSP is the guest stack pointer observed at the point of delivery
// (read from the suspended Context before this call). regs is that same
// pre-delivery Context, copied into the frame's mcontext.
func (c *Core) SetupHandler(guestSP uint64, regs arch.Context, fpuSave HostFPUSave) (frame arch.SignalFrame, fpuAddr uint64, entryIP uint64, entrySP uint64, err error) {
	c.mu.Lock()
	if c.currentSiginfo == nil {
		c.mu.Unlock()
		return arch.SignalFrame{}, 0, 0, 0, fmt.Errorf("signal: SetupHandler called with no signal in flight")
	}
	sig := linux.Signal(c.currentSiginfo.Signo)
	info := *c.currentSiginfo
	action := c.actions.Get(sig)
	preDeliveryMask := c.mask
	c.mu.Unlock()

	handler := action.Handler
	if action.Disposition != DispositionCustom {
		handler = 0
	}
	restorer := action.Restorer
	if restorer == 0 {
		restorer = DefaultRestorer
	}

	// uc_sigmask must be the pre-delivery mask (spec.md §4.5 step 4): the
	// mask rt_sigreturn restores the process to once the handler returns.
	// The during-handler mask (preDeliveryMask|action.Mask|{sig}) is
	// applied separately to c.mask below and must never reach the frame.
	frame, fpuAddr, entrySP = arch.NewSignalFrame(guestSP, sig, info, regs, preDeliveryMask, preDeliveryMask, restorer, handler)

	if fpuSave != nil {
		if serr := fpuSave(fpuAddr, arch.FPUSaveAreaSize); serr != nil {
			return arch.SignalFrame{}, 0, 0, 0, fmt.Errorf("signal: host FPU save failed: %w", serr)
		}
	}

	c.mu.Lock()
	c.mask = preDeliveryMask | action.Mask | linux.SignalSetOf(sig)
	c.canAcceptSignal = true
	c.mu.Unlock()
	select {
	case <-c.ready:
	default:
	}

	return frame, fpuAddr, handler, entrySP, nil
}

// notSupported is returned by stubs this core intentionally leaves
// unimplemented (sigaltstack) rather than silently omitting.
func notSupported() error { return linuxerr.NotSupported }
