// Copyright 2020 The gVisor Authors.
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

package socketfile

import (
	"context"
	"testing"

	"github.com/lovejavaee/flinux/pkg/errors/linuxerr"
)

func TestSocketPairIsBidirectional(t *testing.T) {
	ctx := context.Background()
	a, b := NewSocketPair()
	defer a.DecRef(ctx)
	defer b.DecRef(ctx)

	if _, err := a.Write(ctx, []byte("ping")); err != nil {
		t.Fatalf("a.Write: %v", err)
	}
	buf := make([]byte, 8)
	n, err := b.Read(ctx, buf)
	if err != nil || string(buf[:n]) != "ping" {
		t.Fatalf("b.Read = (%q, %v), want (\"ping\", nil)", buf[:n], err)
	}

	if _, err := b.Write(ctx, []byte("pong")); err != nil {
		t.Fatalf("b.Write: %v", err)
	}
	n, err = a.Read(ctx, buf)
	if err != nil || string(buf[:n]) != "pong" {
		t.Fatalf("a.Read = (%q, %v), want (\"pong\", nil)", buf[:n], err)
	}
}

func TestSocketPairCloseProducesEOFOnPeer(t *testing.T) {
	ctx := context.Background()
	a, b := NewSocketPair()
	a.DecRef(ctx)

	n, err := b.Read(ctx, make([]byte, 4))
	if err != nil || n != 0 {
		t.Errorf("b.Read after a closed = (%d, %v), want (0, nil) [EOF]", n, err)
	}
	b.DecRef(ctx)
}

func TestOpenByPathIsENXIO(t *testing.T) {
	ctx := context.Background()
	ops := Ops()
	if _, _, err := ops.Open(ctx, "whatever", 0, 0); !linuxerr.Equals(linuxerr.ENXIO, err) {
		t.Errorf("Open by path error = %v, want ENXIO", err)
	}
}
