// Copyright 2018 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

//go:build !windows

package main

import (
	"github.com/lovejavaee/flinux/pkg/sentry/arch"
	"github.com/lovejavaee/flinux/pkg/sentry/platform"
	"github.com/lovejavaee/flinux/pkg/sentry/platform/fakethread"
)

// newPlatformSuspender returns fakethread's software double for
// platform.ThreadSuspender on any non-Windows build host: this core's
// real target is Windows NT (spec.md §1), so a build run elsewhere (e.g.
// a contributor's Linux or macOS workstation, or `go vet`/`go test` in
// CI) gets a context that lives in a Go struct rather than a real
// SuspendThread/GetThreadContext pair, exactly as pkg/sentry/platform/
// fakethread documents for this core's own unit tests.
func newPlatformSuspender() platform.ThreadSuspender {
	return fakethread.New(arch.Context{})
}
