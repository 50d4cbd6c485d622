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
	"testing"

	"github.com/lovejavaee/flinux/pkg/abi/linux"
	"github.com/lovejavaee/flinux/pkg/errors/linuxerr"
	"github.com/lovejavaee/flinux/pkg/sentry/arch"
	"github.com/lovejavaee/flinux/pkg/sentry/platform"
	"github.com/lovejavaee/flinux/pkg/sentry/platform/fakethread"
)

type fakeTranslator struct {
	calls int
}

func (f *fakeTranslator) DeliverSignal(thread platform.ThreadHandle, ctx *arch.Context) error {
	f.calls++
	return nil
}

func (f *fakeTranslator) SigReturn(mctx *arch.MContext) error { return nil }

// TestActionTableRejectsSigKillSigStop is spec.md §8 invariant 4.
func TestActionTableRejectsSigKillSigStop(t *testing.T) {
	tbl := NewActionTable()
	before := tbl.Get(linux.SIGKILL)

	err := tbl.Set(linux.SIGKILL, Action{Disposition: DispositionIgnore})
	if !linuxerr.Equals(linuxerr.InvalidArgument, err) {
		t.Errorf("Set(SIGKILL) error = %v, want EINVAL", err)
	}
	if got := tbl.Get(linux.SIGKILL); got != before {
		t.Errorf("Set(SIGKILL) modified the action table: got %+v, want unchanged %+v", got, before)
	}

	err = tbl.Set(linux.SIGSTOP, Action{Disposition: DispositionIgnore})
	if !linuxerr.Equals(linuxerr.InvalidArgument, err) {
		t.Errorf("Set(SIGSTOP) error = %v, want EINVAL", err)
	}
}

func TestActionTableSetGet(t *testing.T) {
	tbl := NewActionTable()
	act := Action{Disposition: DispositionCustom, Handler: 0x400500, Mask: linux.SignalSetOf(linux.SIGUSR2)}
	if err := tbl.Set(linux.SIGUSR1, act); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := tbl.Get(linux.SIGUSR1); got != act {
		t.Errorf("Get(SIGUSR1) = %+v, want %+v", got, act)
	}
}

func TestPendingFirstWins(t *testing.T) {
	var p PendingTable
	first := linux.SignalInfo{Signo: int32(linux.SIGUSR1), Code: 1}
	second := linux.SignalInfo{Signo: int32(linux.SIGUSR1), Code: 2}

	if !p.Add(linux.SIGUSR1, first) {
		t.Fatalf("first Add returned false")
	}
	if p.Add(linux.SIGUSR1, second) {
		t.Fatalf("second Add returned true, want dropped (first-wins)")
	}

	sig, info, ok := p.Take(0)
	if !ok || sig != linux.SIGUSR1 || info.Code != 1 {
		t.Errorf("Take = (%v, %+v, %v), want (SIGUSR1, code=1, true)", sig, info, ok)
	}
}

func TestPendingTakeRespectsMask(t *testing.T) {
	var p PendingTable
	p.Add(linux.SIGUSR1, linux.SignalInfo{Signo: int32(linux.SIGUSR1)})

	if _, _, ok := p.Take(linux.SignalSetOf(linux.SIGUSR1)); ok {
		t.Errorf("Take with SIGUSR1 masked returned ok=true, want false")
	}
	if _, _, ok := p.Take(0); !ok {
		t.Errorf("Take with nothing masked returned ok=false, want true")
	}
}

// TestMaskThenDeliver is spec.md §8's S4: a masked signal stays pending
// and does not invoke the handler; unmasking it enqueues exactly one
// DELIVER packet which, once handled, invokes the handler exactly once.
func TestMaskThenDeliver(t *testing.T) {
	ctx := context.Background()
	thread := fakethread.New(arch.Context{Rsp: 0x7fff0000, Rip: 0x400000})
	tr := &fakeTranslator{}
	core := NewCore(nil, thread, tr)

	core.SetMask(ctx, linux.SignalSetOf(linux.SIGUSR1))

	info := linux.SignalInfo{Signo: int32(linux.SIGUSR1)}
	core.handlePacket(ctx, packet{kind: packetIngress, sig: linux.SIGUSR1, info: info})

	if core.Pending()&linux.SignalSetOf(linux.SIGUSR1) == 0 {
		t.Fatalf("SIGUSR1 not pending while masked")
	}
	if tr.calls != 0 {
		t.Fatalf("handler invoked %d times while masked, want 0", tr.calls)
	}

	core.SetMask(ctx, 0)

	select {
	case pkt := <-core.packets:
		if pkt.kind != packetDeliver {
			t.Fatalf("enqueued packet kind = %v, want packetDeliver", pkt.kind)
		}
		core.handlePacket(ctx, pkt)
	default:
		t.Fatalf("no DELIVER packet enqueued after unmasking SIGUSR1")
	}

	if tr.calls != 1 {
		t.Errorf("handler invoked %d times after unmasking, want exactly 1", tr.calls)
	}
	if core.Pending()&linux.SignalSetOf(linux.SIGUSR1) != 0 {
		t.Errorf("SIGUSR1 still pending after delivery")
	}
}

// TestSetupHandlerRtSigReturnMaskRoundTrip guards against uc_sigmask
// capturing the during-handler mask instead of the pre-delivery one: a
// handler that returns via rt_sigreturn must leave the process mask back
// at what it was before delivery, not at pre ∪ sa_mask ∪ {signo} forever.
func TestSetupHandlerRtSigReturnMaskRoundTrip(t *testing.T) {
	ctx := context.Background()
	core := NewCore(nil, nil, nil)

	preMask := linux.SignalSetOf(linux.SIGUSR2)
	core.SetMask(ctx, preMask)

	action := Action{Disposition: DispositionCustom, Handler: 0x400500, Mask: linux.SignalSetOf(linux.SIGALRM)}
	if err := core.actions.Set(linux.SIGUSR1, action); err != nil {
		t.Fatalf("Set action: %v", err)
	}

	core.handlePacket(ctx, packet{kind: packetIngress, sig: linux.SIGUSR1, info: linux.SignalInfo{Signo: int32(linux.SIGUSR1)}})

	frame, _, _, _, err := core.SetupHandler(0x7fff1000, arch.Context{}, nil)
	if err != nil {
		t.Fatalf("SetupHandler: %v", err)
	}

	wantDuring := preMask | action.Mask | linux.SignalSetOf(linux.SIGUSR1)
	if got := core.Mask(); got != wantDuring {
		t.Errorf("mask during handler = %#x, want %#x", got, wantDuring)
	}
	if got := frame.UContext.SigMask; got != preMask {
		t.Errorf("uc_sigmask = %#x, want pre-delivery mask %#x", got, preMask)
	}

	if err := core.RtSigReturn(ctx, &frame.UContext); err != nil {
		t.Fatalf("RtSigReturn: %v", err)
	}
	if got := core.Mask(); got != preMask {
		t.Errorf("mask after rt_sigreturn = %#x, want restored pre-delivery mask %#x", got, preMask)
	}
}

func TestKillRejectsOtherPids(t *testing.T) {
	core := NewCore(nil, nil, nil)
	ctx := context.Background()
	if err := core.Kill(ctx, 42, 1, linux.SIGUSR1); !linuxerr.Equals(linuxerr.NoSearchProcess, err) {
		t.Errorf("Kill(other pid) error = %v, want ESRCH", err)
	}
}

func TestKillSelfEnqueues(t *testing.T) {
	core := NewCore(nil, nil, nil)
	ctx := context.Background()
	if err := core.Kill(ctx, 1, 1, linux.SIGUSR1); err != nil {
		t.Fatalf("Kill(self): %v", err)
	}
	select {
	case pkt := <-core.packets:
		if pkt.kind != packetIngress || pkt.sig != linux.SIGUSR1 {
			t.Errorf("enqueued packet = %+v, want ingress SIGUSR1", pkt)
		}
	default:
		t.Fatalf("Kill(self) did not enqueue a packet")
	}
}

func TestSigAltStackStub(t *testing.T) {
	core := NewCore(nil, nil, nil)
	if err := core.SigAltStack(); !linuxerr.Equals(linuxerr.NotSupported, err) {
		t.Errorf("SigAltStack() = %v, want NotSupported", err)
	}
}
