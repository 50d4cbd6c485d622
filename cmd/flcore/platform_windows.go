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

//go:build windows

package main

import (
	"golang.org/x/sys/windows"

	"github.com/lovejavaee/flinux/pkg/log"
	"github.com/lovejavaee/flinux/pkg/sentry/platform"
	"github.com/lovejavaee/flinux/pkg/sentry/platform/winthread"
)

// newPlatformSuspender returns the real Windows-backed
// platform.ThreadSuspender: a duplicated handle to the calling (main)
// thread, which on a real guest run is the one pinned with
// runtime.LockOSThread and handed off to the DBT to execute guest code
// (spec.md §5's "duplicated handle to the main guest thread").
func newPlatformSuspender() platform.ThreadSuspender {
	var dup windows.Handle
	self := windows.CurrentThread()
	proc := windows.CurrentProcess()
	if err := windows.DuplicateHandle(proc, self, proc, &dup, 0, true, windows.DUPLICATE_SAME_ACCESS); err != nil {
		log.Warningf("flcore: DuplicateHandle for main thread failed: %v; signal delivery will be a no-op", err)
		return nil
	}
	return winthread.New(dup)
}
