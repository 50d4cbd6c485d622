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

// SigAltStack is an explicit stub for rt_sigaltstack(2) (SUPPLEMENTED
// FEATURES: the Non-goal "alternate signal stacks" excludes a real
// implementation, but the original has the syscall number wired and
// guest libc probes it, so this core keeps the entry point rather than
// leaving it silently absent). It always returns NotSupported, which the
// syscall trampoline maps to ENOSYS.
func (c *Core) SigAltStack() error {
	return notSupported()
}
