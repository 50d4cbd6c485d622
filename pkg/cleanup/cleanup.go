// Copyright 2020 The gVisor Authors.
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

// Package cleanup provides utility to clean up during a series of steps.
package cleanup

// Cleanup allows defers to be aborted when the function succeeds
// completely. It is used like the following:
//
//	c := cleanup.Make(func() { f.Close() })
//	defer c.Clean() // Well-formed and used as appropriate.
//	... do some other steps ...
//	c.Release() // Abort the cleanup, all went as expected.
//	return f
type Cleanup struct {
	cu func()
}

// Make creates a new Cleanup object.
func Make(f func()) Cleanup {
	return Cleanup{cu: f}
}

// Add adds a function to be called on Clean. This can be used to unwind
// additional state created between the point Make was called and the point
// the caller can check for success.
func (c *Cleanup) Add(f func()) {
	old := c.cu
	c.cu = func() {
		f()
		if old != nil {
			old()
		}
	}
}

// Clean calls the cleanup function and resets it, so calling Clean multiple
// times (or after Release) is a no-op.
func (c *Cleanup) Clean() {
	if c.cu != nil {
		c.cu()
		c.cu = nil
	}
}

// Release releases the cleanup from its duties, returning the cleanup
// function (which the caller becomes responsible for calling, if
// appropriate) so that Clean becomes a no-op.
func (c *Cleanup) Release() func() {
	cu := c.cu
	c.cu = nil
	return cu
}
