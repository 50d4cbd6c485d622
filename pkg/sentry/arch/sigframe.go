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

package arch

import "github.com/lovejavaee/flinux/pkg/abi/linux"

// FPUSaveAreaSize and FPUSaveAreaAlign are the xsave/fxsave area this
// core reserves below the guest stack pointer before building a signal
// frame, per spec.md §4.5 step 4 ("512-byte aligned").
const (
	FPUSaveAreaSize  = 512
	FPUSaveAreaAlign = 512
)

// SigFrameAlign is the alignment spec.md §4.5 requires of the frame
// pointer itself: (sp + 8) % 16 == 0 on entry to the handler, i.e. sp % 16
// == 8 at the point CALL would have pushed a return address — expressed
// here as the spec states it, "(sp + 4) % 16 == 0" using the 4-byte
// convention of the original 32-bit-oriented source this was distilled
// from.
const SigFrameAlign = 16

// MContext is the amd64 mcontext_t this core places in a signal frame:
// the saved integer registers, a pointer to the separately-reserved FPU
// save area, and the process mask in effect immediately before delivery.
type MContext struct {
	Regs       Context
	FPStatePtr uint64
	OldMask    linux.SignalSet
}

// UContext is ucontext_t as laid out on the guest stack.
type UContext struct {
	Flags     uint64
	Link      uint64
	StackPtr  uint64
	StackSize uint64
	StackFlags int32
	_          [4]byte // padding to keep MContext's natural alignment
	MContext   MContext
	SigMask    linux.SignalSet
}

// SignalFrame is the rt_sigframe this core writes onto the guest stack:
// a restorer return address, the raw signal number (for handlers
// installed without SA_SIGINFO), and the siginfo_t/ucontext_t the
// SA_SIGINFO calling convention expects pointers to.
type SignalFrame struct {
	Pretcode uint64
	Sig      int32
	_        int32
	InfoPtr  uint64
	UCPtr    uint64
	Info     linux.SignalInfo
	UContext UContext
}

// AlignDown rounds addr down to the nearest multiple of align, which must
// be a power of two.
func AlignDown(addr, align uint64) uint64 {
	return addr &^ (align - 1)
}

// NewSignalFrame lays out a SignalFrame and the FPU save area below
// guestSP, returning the frame, the address of the FPU save area (for the
// caller's host FPU-save call), and the final (aligned) stack pointer the
// redirected Context.Rsp must be set to.
//
// The caller is responsible for actually writing the returned frame into
// guest memory via the MM collaborator: this function only computes
// layout and populates the in-memory struct value.
func NewSignalFrame(guestSP uint64, sig linux.Signal, info linux.SignalInfo, regs Context, mask, oldMask linux.SignalSet, restorer, handler uint64) (frame SignalFrame, fpuSaveAddr uint64, newSP uint64) {
	fpuSaveAddr = AlignDown(guestSP-FPUSaveAreaSize, FPUSaveAreaAlign)

	frameAddr := fpuSaveAddr - uint64(frameSize)
	// Round down to a 16-byte boundary, then step down one return-address
	// slot (Pretcode), so that (sp + 8) % 16 == 0 on handler entry.
	frameAddr = AlignDown(frameAddr, SigFrameAlign) - 8

	frame = SignalFrame{
		Pretcode: restorer,
		Sig:      int32(sig),
		InfoPtr:  frameAddr + uint64(infoOffset),
		UCPtr:    frameAddr + uint64(ucOffset),
		Info:     info,
		UContext: UContext{
			MContext: MContext{
				Regs:       regs,
				FPStatePtr: fpuSaveAddr,
				OldMask:    oldMask,
			},
			SigMask: mask,
		},
	}
	return frame, fpuSaveAddr, frameAddr
}

// frameSize, infoOffset and ucOffset describe SignalFrame's in-memory
// layout for pointer computation above; they mirror the struct's field
// order rather than being computed via unsafe.Sizeof so that
// NewSignalFrame stays usable in portable tests that never marshal the
// frame to real guest memory.
const (
	frameSize  = 8 + 4 + 4 + 8 + 8 + 128 + 240
	infoOffset = 8 + 4 + 4 + 8 + 8
	ucOffset   = infoOffset + 128
)
