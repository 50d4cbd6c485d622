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

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultHasDevMount(t *testing.T) {
	c := Default()
	if len(c.Mounts) != 1 || c.Mounts[0].Mountpoint != "/dev" {
		t.Errorf("Default().Mounts = %+v, want a single /dev entry", c.Mounts)
	}
	if c.Umask != 0022 {
		t.Errorf("Default().Umask = %#o, want 022", c.Umask)
	}
}

func TestLoadParsesMountTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flcore.toml")
	contents := `
umask = 18
max_fd_count = 256

[[mounts]]
mountpoint = "/"
kind = "hostfs"
source = "C:\\guest-root"

[[mounts]]
mountpoint = "/dev"
kind = "devfs"
`
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Umask != 18 || c.MaxFDCount != 256 {
		t.Errorf("Load() = umask=%d maxfd=%d, want umask=18 maxfd=256", c.Umask, c.MaxFDCount)
	}
	if len(c.Mounts) != 2 || c.Mounts[0].Kind != "hostfs" || c.Mounts[1].Kind != "devfs" {
		t.Errorf("Load().Mounts = %+v, want [hostfs, devfs]", c.Mounts)
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	if _, err := Load("/nonexistent/flcore.toml"); err == nil {
		t.Errorf("Load(missing file) succeeded, want an error")
	}
}
