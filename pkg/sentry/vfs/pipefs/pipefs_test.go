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

package pipefs

import (
	"context"
	"testing"

	"github.com/lovejavaee/flinux/pkg/errors/linuxerr"
)

func TestConnectedPipeReadWrite(t *testing.T) {
	ctx := context.Background()
	r, w := NewConnectedPipe(DefaultPipeSize)

	n, err := w.Write(ctx, []byte("hello"))
	if err != nil || n != 5 {
		t.Fatalf("Write = (%d, %v), want (5, nil)", n, err)
	}

	buf := make([]byte, 16)
	n, err = r.Read(ctx, buf)
	if err != nil || string(buf[:n]) != "hello" {
		t.Fatalf("Read = (%q, %v), want (\"hello\", nil)", buf[:n], err)
	}
}

func TestReadOnEmptyPipeNoWriterIsEOF(t *testing.T) {
	ctx := context.Background()
	r, w := NewConnectedPipe(DefaultPipeSize)
	w.DecRef(ctx)

	n, err := r.Read(ctx, make([]byte, 4))
	if err != nil || n != 0 {
		t.Errorf("Read after writer closed = (%d, %v), want (0, nil) [EOF]", n, err)
	}
}

func TestWriteWithNoReaderIsEPIPE(t *testing.T) {
	ctx := context.Background()
	r, w := NewConnectedPipe(DefaultPipeSize)
	r.DecRef(ctx)

	_, err := w.Write(ctx, []byte("x"))
	if !linuxerr.Equals(linuxerr.EPIPE, err) {
		t.Errorf("Write with no reader error = %v, want EPIPE", err)
	}
}

func TestReadOnEmptyPipeWithWriterWouldBlock(t *testing.T) {
	ctx := context.Background()
	r, _ := NewConnectedPipe(DefaultPipeSize)
	_, err := r.Read(ctx, make([]byte, 4))
	if !linuxerr.Equals(linuxerr.EWOULDBLOCK, err) {
		t.Errorf("Read on empty pipe with a writer error = %v, want EWOULDBLOCK", err)
	}
}

func TestNamedPipeFilesystemLazyCreate(t *testing.T) {
	fs := NewFilesystem()
	ctx := context.Background()
	ops := fs.Ops()

	w, _, err := ops.Open(ctx, "myfifo", 1 /* O_WRONLY */, 0)
	if err != nil {
		t.Fatalf("Open(O_WRONLY): %v", err)
	}
	defer w.DecRef(ctx)

	r, _, err := ops.Open(ctx, "myfifo", 0 /* O_RDONLY */, 0)
	if err != nil {
		t.Fatalf("Open(O_RDONLY): %v", err)
	}
	defer r.DecRef(ctx)

	if _, err := w.Write(ctx, []byte("hi")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	buf := make([]byte, 4)
	n, err := r.Read(ctx, buf)
	if err != nil || string(buf[:n]) != "hi" {
		t.Errorf("Read = (%q, %v), want (\"hi\", nil)", buf[:n], err)
	}
}
