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

package linux

// OldDirent is struct linux_dirent, from uapi/linux/dirent.h, used by the
// getdents(2) syscall. Unlike Dirent64, the file-type byte is not a
// dedicated field: it is smuggled in as the byte immediately following the
// NUL terminator of Name, inside the space accounted for by Reclen.
type OldDirent struct {
	Ino    uint64
	Off    int64
	Reclen uint16
	Name   string // NUL-terminated, followed by one d_type byte, then padding
}

// Dirent64 is struct linux_dirent64, from uapi/linux/dirent.h, used by the
// getdents64(2) syscall.
type Dirent64 struct {
	Ino    uint64
	Off    int64
	Reclen uint16
	Type   uint8
	Name   string // NUL-terminated, then padding
}

// direntAlign is the alignment getdents(2)/getdents64(2) round d_reclen up
// to, matching the kernel's own ALIGN(a, sizeof(long)) on amd64.
const direntAlign = 8

func direntRoundUp(n int) int {
	return (n + direntAlign - 1) &^ (direntAlign - 1)
}

// Dirent64Reclen returns the record length getdents64(2) would report for a
// directory entry with the given name, including the NUL terminator.
func Dirent64Reclen(name string) int {
	// ino(8) + off(8) + reclen(2) + type(1) + name + NUL.
	return direntRoundUp(8 + 8 + 2 + 1 + len(name) + 1)
}

// OldDirentReclen returns the record length getdents(2) would report for a
// directory entry with the given name, including the NUL terminator and the
// trailing d_type byte.
func OldDirentReclen(name string) int {
	// ino(8) + off(8) + reclen(2) + name + NUL + d_type(1).
	return direntRoundUp(8 + 8 + 2 + len(name) + 1 + 1)
}

// MarshalDirent64 appends the wire encoding of a getdents64(2) record to buf
// and returns the extended slice. It panics if the caller has not sized buf
// to hold Dirent64Reclen(name) bytes; callers are expected to check that
// before marshaling, the same way the syscall trampoline stops filling the
// user buffer once the next entry no longer fits.
func MarshalDirent64(buf []byte, ino uint64, off int64, fileType FileMode, name string) []byte {
	reclen := Dirent64Reclen(name)
	rec := make([]byte, reclen)
	byteOrder.PutUint64(rec[0:8], ino)
	byteOrder.PutUint64(rec[8:16], uint64(off))
	byteOrder.PutUint16(rec[16:18], uint16(reclen))
	rec[18] = DirentTypeFromFileType(fileType.FileType())
	copy(rec[19:], name)
	// rec[19+len(name)] is already zero (the NUL terminator); the rest of
	// the padding out to reclen is also already zero.
	return append(buf, rec...)
}

// MarshalOldDirent appends the wire encoding of a getdents(2) record to buf,
// placing the file-type byte immediately after Name's NUL terminator as
// struct linux_dirent requires.
func MarshalOldDirent(buf []byte, ino uint64, off int64, fileType FileMode, name string) []byte {
	reclen := OldDirentReclen(name)
	rec := make([]byte, reclen)
	byteOrder.PutUint64(rec[0:8], ino)
	byteOrder.PutUint64(rec[8:16], uint64(off))
	byteOrder.PutUint16(rec[16:18], uint16(reclen))
	copy(rec[18:], name)
	rec[18+len(name)+1] = DirentTypeFromFileType(fileType.FileType())
	return append(buf, rec...)
}
