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

//go:build windows

package winthread

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// kernel32 is loaded lazily, matching golang.org/x/sys/windows' own
// internal convention for APIs it does not wrap directly (GetThreadContext
// and SetThreadContext are two such: the public package exposes the
// x86/arm64 CONTEXT struct layouts but not these two calls on every
// architecture it supports).
var (
	modkernel32           = windows.NewLazySystemDLL("kernel32.dll")
	procGetThreadContext  = modkernel32.NewProc("GetThreadContext")
	procSetThreadContext  = modkernel32.NewProc("SetThreadContext")
)

func getThreadContext(h windows.Handle, ctx *winContext) error {
	ctx.setFlags(contextAll)
	r, _, err := procGetThreadContext.Call(uintptr(h), uintptr(unsafe.Pointer(ctx)))
	if r == 0 {
		return err
	}
	return nil
}

func setThreadContext(h windows.Handle, ctx *winContext) error {
	r, _, err := procSetThreadContext.Call(uintptr(h), uintptr(unsafe.Pointer(ctx)))
	if r == 0 {
		return err
	}
	return nil
}
