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
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/lovejavaee/flinux/pkg/abi/linux"
	"github.com/lovejavaee/flinux/pkg/log"
	"github.com/lovejavaee/flinux/pkg/sentry/arch"
	"github.com/lovejavaee/flinux/pkg/sentry/kernel/dbt"
	"github.com/lovejavaee/flinux/pkg/sentry/platform"
	"github.com/lovejavaee/flinux/pkg/tmutex"
)

// packetQueueSize bounds the channel standing in for the packet pipe; a
// full queue applies natural backpressure to kill()/child-death sources
// the same way a real named pipe would once its buffer fills.
const packetQueueSize = 64

// Core is the signal core (spec.md §3's "Signal core state" and §9's
// "Core handle" replacing the source's process-wide statics): actions,
// mask, pending, the siginfo currently being delivered, the
// canAcceptSignal gate, and the worker's handles, all reachable from one
// value threaded through syscall entry rather than global pointers.
type Core struct {
	// mu guards mask, pending, currentSiginfo and canAcceptSignal below;
	// childCond and childCount are guarded by childMu instead. Grounded on gvisor's own kernel.Task
	// mutex, a tmutex.Mutex rather than sync.Mutex: this is the hottest
	// lock in the core (every packet, mask change, and pending query takes
	// it), and tmutex additionally offers TryLock should a future caller
	// need a non-blocking pending-state peek.
	mu tmutex.Mutex

	actions         *ActionTable
	mask            linux.SignalSet
	pending         PendingTable
	currentSiginfo  *linux.SignalInfo
	canAcceptSignal bool

	suspender  platform.ThreadSuspender
	translator dbt.Translator

	packets  chan packet
	ready    chan struct{}
	shutdown chan struct{}

	childMu    sync.Mutex
	childCond  *sync.Cond
	childCount int

	group *errgroup.Group
}

// NewCore constructs a Core ready to have Start called on it. actions may
// be nil, in which case a fresh, all-default ActionTable is created.
func NewCore(actions *ActionTable, suspender platform.ThreadSuspender, translator dbt.Translator) *Core {
	if actions == nil {
		actions = NewActionTable()
	}
	c := &Core{
		actions:         actions,
		canAcceptSignal: true,
		suspender:       suspender,
		translator:      translator,
		packets:         make(chan packet, packetQueueSize),
		ready:           make(chan struct{}, 1),
		shutdown:        make(chan struct{}),
	}
	c.mu.Init()
	c.childCond = sync.NewCond(&c.childMu)
	return c
}

// Actions returns the signal core's action table.
func (c *Core) Actions() *ActionTable { return c.actions }

// Mask returns the current process signal mask.
func (c *Core) Mask() linux.SignalSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mask
}

// Pending returns the current pending-signal bitset, for
// rt_sigpending(2).
func (c *Core) Pending() linux.SignalSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending.Set()
}

// SetMask implements rt_sigprocmask(2)'s SETMASK: it installs m and, if
// any pending signal became unblocked, enqueues a DELIVER packet (spec.md
// §8 invariant 5).
func (c *Core) SetMask(ctx context.Context, m linux.SignalSet) {
	c.mu.Lock()
	c.mask = m
	needsDeliver := c.pending.Set()&^m != 0
	c.mu.Unlock()

	if needsDeliver {
		c.enqueue(ctx, packet{kind: packetDeliver})
	}
}

// Start launches the signal worker (and any goroutines registered via
// WatchChild) under an errgroup, per spec.md §5's concurrency model.
// Canceling ctx, or a later call to Shutdown, stops the worker; Start's
// caller should eventually call WaitGroup to observe the first fatal error (if
// any) from the supervised goroutines.
func (c *Core) Start(ctx context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.worker(gctx) })
	c.group = g
}

// WaitGroup blocks until every goroutine Start launched (and any added
// via the child-watcher) has returned, propagating the first error.
func (c *Core) WaitGroup() error {
	if c.group == nil {
		return nil
	}
	return c.group.Wait()
}

// Shutdown stops the worker: no further packets are drained once it
// observes the shutdown channel close (spec.md §4.5 "Cancellation").
func (c *Core) Shutdown() {
	select {
	case <-c.shutdown:
	default:
		close(c.shutdown)
	}
}

func (c *Core) enqueue(ctx context.Context, pkt packet) error {
	select {
	case c.packets <- pkt:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-c.shutdown:
		return fmt.Errorf("signal core shut down")
	}
}

func (c *Core) worker(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.shutdown:
			return nil
		case pkt := <-c.packets:
			if pkt.kind == packetShutdown {
				return nil
			}
			c.handlePacket(ctx, pkt)
		}
	}
}

// handlePacket implements spec.md §4.5 step 2 ("packet handling").
func (c *Core) handlePacket(ctx context.Context, pkt packet) {
	if pkt.kind == packetDeliver {
		c.mu.Lock()
		sig, info, ok := c.pending.Take(c.mask)
		acceptable := ok && c.canAcceptSignal
		c.mu.Unlock()
		if !acceptable {
			return
		}
		c.deliver(ctx, sig, info)
		return
	}

	c.mu.Lock()
	if c.pending.Set().Contains(pkt.sig) {
		c.mu.Unlock()
		log.Debugf("signal: dropping duplicate pending signal %d (first-wins)", pkt.sig)
		return
	}
	if c.mask.Contains(pkt.sig) || !c.canAcceptSignal {
		c.pending.Add(pkt.sig, pkt.info)
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	c.deliver(ctx, pkt.sig, pkt.info)
}

// deliver implements spec.md §4.5 step 3.
func (c *Core) deliver(ctx context.Context, sig linux.Signal, info linux.SignalInfo) {
	c.mu.Lock()
	c.canAcceptSignal = false
	c.currentSiginfo = &info
	c.mu.Unlock()

	if c.suspender == nil || c.translator == nil {
		// No real main thread bound yet (e.g. a unit test exercising
		// only pending/mask bookkeeping); leave currentSiginfo set so
		// SetupHandler can still be driven directly.
		return
	}

	err := c.suspender.WithSuspended(func(actx *arch.Context) {
		if derr := c.translator.DeliverSignal(c.suspender.Thread(), actx); derr != nil {
			log.Warningf("signal: DeliverSignal for %d failed: %v", sig, derr)
		}
	})
	if err != nil {
		log.Warningf("signal: suspend main thread for delivery of %d failed: %v", sig, err)
		return
	}

	select {
	case c.ready <- struct{}{}:
	default:
	}
}
