// Copyright 2024 tractor.dev authors.
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

package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/lovejavaee/flinux/pkg/errors/linuxerr"
)

func TestFileReadWrite(t *testing.T) {
	ctx := context.Background()
	in := strings.NewReader("guest input")
	var out bytes.Buffer
	c := New(-1, in, &out)

	f := c.File()
	buf := make([]byte, 32)
	n, err := f.Read(ctx, buf)
	if err != nil || string(buf[:n]) != "guest input" {
		t.Fatalf("Read = (%q, %v), want (\"guest input\", nil)", buf[:n], err)
	}

	if _, err := f.Write(ctx, []byte("guest output")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if out.String() != "guest output" {
		t.Errorf("writer got %q, want %q", out.String(), "guest output")
	}
}

func TestIoctlUnknownCommandIsENOTTY(t *testing.T) {
	ctx := context.Background()
	c := New(-1, strings.NewReader(""), &bytes.Buffer{})
	f := c.File()
	if _, err := f.Ioctl(ctx, 0xdead, 0); !linuxerr.Equals(linuxerr.ENOTTY, err) {
		t.Errorf("Ioctl(unknown) error = %v, want ENOTTY", err)
	}
}

func TestOpsAlwaysReturnsTheConsoleFile(t *testing.T) {
	ctx := context.Background()
	c := New(-1, strings.NewReader("x"), &bytes.Buffer{})
	ops := c.Ops()
	f, _, err := ops.Open(ctx, "anything", 0, 0)
	if err != nil || f == nil {
		t.Fatalf("Open = (%v, %v), want a non-nil file", f, err)
	}
}
