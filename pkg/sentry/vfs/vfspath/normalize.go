// Copyright 2026 The gVisor Authors.
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

// Package vfspath normalises guest path strings the way the Linux VFS does:
// collapsing "//" and "." components, popping ".." components against the
// accumulated output (clamped at the root), and otherwise preserving
// components verbatim so that a later component-by-component symlink probe
// can still find them.
//
// This is deliberately NOT filepath.Clean: guest paths are '/'-separated
// regardless of host, a bare trailing "." must be preserved (it changes
// O_NOFOLLOW semantics when the final component is a symlink), and the
// result is always rooted at "/".
package vfspath

import "strings"

// Normalize resolves input against base, producing an absolute, normalised
// guest path. base must already be normalised and absolute; input may be
// relative or absolute. Aliasing base and the byte-slices backing input is
// fine: both are read in full into a fresh output buffer before Normalize
// returns.
func Normalize(base, input string) string {
	var out []byte
	if strings.HasPrefix(input, "/") {
		out = append(out, '/')
	} else {
		out = append(out, base...)
		if len(out) == 0 || out[len(out)-1] != '/' {
			out = append(out, '/')
		}
	}

	rest := input
	for len(rest) > 0 {
		// Skip any run of leading separators: collapses "//".
		for len(rest) > 0 && rest[0] == '/' {
			rest = rest[1:]
		}
		if len(rest) == 0 {
			break
		}

		end := strings.IndexByte(rest, '/')
		var comp string
		var hasSep bool
		if end < 0 {
			comp = rest
			rest = ""
		} else {
			comp = rest[:end]
			rest = rest[end+1:]
			hasSep = true
		}

		switch {
		case comp == ".":
			if !hasSep && rest == "" {
				// A trailing bare "." is preserved literally: it changes
				// O_NOFOLLOW semantics when the final component resolves to
				// a symlink.
				out = append(out, '.')
			}
			// A non-trailing "./" component is simply skipped.

		case comp == "..":
			out = popComponent(out)

		default:
			out = append(out, comp...)
			if hasSep {
				out = append(out, '/')
			}
		}
	}

	if len(out) > 1 && out[len(out)-1] == '/' {
		out = out[:len(out)-1]
	}
	return string(out)
}

// popComponent removes the last '/'-delimited component from out, never
// popping the leading '/' itself (an underflowing ".." is clamped at root).
func popComponent(out []byte) []byte {
	if len(out) <= 1 {
		return out
	}
	// out always ends in '/' here (Normalize only reaches popComponent
	// between components, where the accumulator is separator-terminated).
	end := len(out) - 1
	idx := strings.LastIndexByte(string(out[:end]), '/')
	if idx < 0 {
		return out[:1]
	}
	return out[:idx+1]
}

// IsAbs reports whether p is an absolute guest path.
func IsAbs(p string) bool {
	return strings.HasPrefix(p, "/")
}

// Dir returns the directory portion of a normalised path p: everything up
// to but not including the final component's preceding '/'. Dir("/") is
// "/".
func Dir(p string) string {
	if p == "/" {
		return "/"
	}
	idx := strings.LastIndexByte(p, '/')
	if idx <= 0 {
		return "/"
	}
	return p[:idx]
}

// Base returns the final '/'-delimited component of a normalised path p.
// Base("/") is "/".
func Base(p string) string {
	if p == "/" {
		return "/"
	}
	idx := strings.LastIndexByte(p, '/')
	return p[idx+1:]
}
