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

// Package dbt names, but does not implement, the dynamic binary
// translator contract spec.md §6 calls dbt_deliver_signal and
// dbt_sigreturn: the external collaborator that actually executes guest
// machine code on the host CPU. The signal core calls into this
// interface only while the main guest thread is suspended
// (platform.ThreadSuspender.WithSuspended); it never assumes anything
// about how the translator itself is implemented.
package dbt

import (
	"github.com/lovejavaee/flinux/pkg/sentry/arch"
	"github.com/lovejavaee/flinux/pkg/sentry/platform"
)

// Translator is the binary translator contract.
type Translator interface {
	// DeliverSignal prepares thread to resume at the emulator's signal
	// setup trampoline once rewritten. MUST be called with thread
	// suspended; ctx is rewritten in place.
	DeliverSignal(thread platform.ThreadHandle, ctx *arch.Context) error

	// SigReturn resumes guest execution from mctx. It never returns on
	// success.
	SigReturn(mctx *arch.MContext) error
}
