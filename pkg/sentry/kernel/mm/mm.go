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

// Package mm names, but does not implement, the memory manager contract
// spec.md §6 calls mm_check_read / mm_check_write / mm_check_read_string:
// an external collaborator that validates a guest pointer range before
// the syscall trampoline lets the VFS or signal core touch it. The real
// memory manager (page tables, guest address space layout, mmap
// accounting) is outside this core's scope; everything here consumes the
// interface, nothing here implements it.
package mm

// PointerChecker validates guest pointer ranges ahead of any access, so
// that a bad pointer short-circuits to EFAULT before any state mutation
// (spec.md §7).
type PointerChecker interface {
	// CheckRead reports whether [ptr, ptr+length) is a readable guest
	// address range.
	CheckRead(ptr uintptr, length uintptr) bool

	// CheckWrite reports whether [ptr, ptr+length) is a writable guest
	// address range.
	CheckWrite(ptr uintptr, length uintptr) bool

	// CheckReadString reports whether a NUL-terminated string starting
	// at ptr lies entirely within readable guest memory.
	CheckReadString(ptr uintptr) bool
}

// StaticAllocator backs process-wide signal and VFS state in a region
// that survives the emulator's own stack (spec.md §6's mm_static_alloc /
// mm_mmap / mm_munmap).
type StaticAllocator interface {
	StaticAlloc(size uintptr) (uintptr, error)
	Mmap(length uintptr, prot, flags int32) (uintptr, error)
	Munmap(addr, length uintptr) error
}
