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

import "context"

// Wait blocks the main thread on an arbitrary blocking-file-op completion
// (done) together with the signal-ready event, the Go-channel stand-in
// for the host's WaitForMultipleObjects call named in spec.md §4.5's
// "Cancellation" paragraph. It reports interrupted=true if the
// signal-ready event fired first, the same "distinct WAIT_INTERRUPTED
// return" the spec calls for.
func (c *Core) Wait(ctx context.Context, done <-chan struct{}) (interrupted bool, err error) {
	select {
	case <-c.ready:
		return true, nil
	case <-done:
		return false, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
