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

package devfs

import (
	"bytes"
	"context"
	"testing"

	"github.com/lovejavaee/flinux/pkg/errors/linuxerr"
)

func TestNullReadsEOFWritesDiscard(t *testing.T) {
	ctx := context.Background()
	ops := NewFilesystem().Ops()
	f, _, err := ops.Open(ctx, "null", 0, 0)
	if err != nil {
		t.Fatalf("Open(null): %v", err)
	}
	defer f.DecRef(ctx)

	buf := make([]byte, 8)
	n, err := f.Read(ctx, buf)
	if err != nil || n != 0 {
		t.Errorf("Read(null) = (%d, %v), want (0, nil)", n, err)
	}
	n, err = f.Write(ctx, []byte("discarded"))
	if err != nil || n != 9 {
		t.Errorf("Write(null) = (%d, %v), want (9, nil)", n, err)
	}
}

func TestZeroFillsBuffer(t *testing.T) {
	ctx := context.Background()
	ops := NewFilesystem().Ops()
	f, _, err := ops.Open(ctx, "zero", 0, 0)
	if err != nil {
		t.Fatalf("Open(zero): %v", err)
	}
	defer f.DecRef(ctx)

	buf := bytes.Repeat([]byte{0xff}, 8)
	n, err := f.Read(ctx, buf)
	if err != nil || n != 8 || !bytes.Equal(buf, make([]byte, 8)) {
		t.Errorf("Read(zero) = (%d, %v, %v), want (8, nil, all-zero)", n, err, buf)
	}
}

func TestFullWriteReturnsENOSPC(t *testing.T) {
	ctx := context.Background()
	ops := NewFilesystem().Ops()
	f, _, err := ops.Open(ctx, "full", 0, 0)
	if err != nil {
		t.Fatalf("Open(full): %v", err)
	}
	defer f.DecRef(ctx)

	if _, err := f.Write(ctx, []byte("x")); !linuxerr.Equals(linuxerr.ENOSPC, err) {
		t.Errorf("Write(full) error = %v, want ENOSPC", err)
	}
}

func TestUrandomProducesNonZeroBytes(t *testing.T) {
	ctx := context.Background()
	ops := NewFilesystem().Ops()
	f, _, err := ops.Open(ctx, "urandom", 0, 0)
	if err != nil {
		t.Fatalf("Open(urandom): %v", err)
	}
	defer f.DecRef(ctx)

	buf := make([]byte, 32)
	n, err := f.Read(ctx, buf)
	if err != nil || n != 32 {
		t.Fatalf("Read(urandom) = (%d, %v), want (32, nil)", n, err)
	}
	if bytes.Equal(buf, make([]byte, 32)) {
		t.Errorf("Read(urandom) returned all-zero bytes, vanishingly unlikely")
	}
}

func TestUnknownDeviceIsNoEntry(t *testing.T) {
	ctx := context.Background()
	ops := NewFilesystem().Ops()
	if _, _, err := ops.Open(ctx, "nonexistent", 0, 0); !linuxerr.Equals(linuxerr.NoEntry, err) {
		t.Errorf("Open(nonexistent) error = %v, want ENOENT", err)
	}
}
