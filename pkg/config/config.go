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

// Package config loads this core's startup descriptor: the initial
// mount table, umask default, and a max_fd_count value. Grounded on
// gvisor's cmd/gvisor-containerd-shim/config.go, which uses the same
// github.com/BurntSushi/toml DecodeFile call for a comparably small,
// flat configuration struct.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Mount is one entry of the initial mount table, applied in file order
// (first-match-wins registry semantics, so earlier entries in the file
// take priority over later ones covering an overlapping prefix).
type Mount struct {
	// Mountpoint is the guest path this filesystem is mounted at.
	Mountpoint string `toml:"mountpoint"`
	// Kind names the filesystem implementation: "hostfs", "pipefs",
	// "devfs", "sockfs", or "console".
	Kind string `toml:"kind"`
	// Source is the kind-specific backing path or identifier (e.g. the
	// host directory a "hostfs" mount serves).
	Source string `toml:"source,omitempty"`
}

// Config is this core's startup descriptor.
type Config struct {
	// Umask is the initial process umask, in the usual octal notation
	// (e.g. 0022).
	Umask uint32 `toml:"umask"`
	// MaxFDCount is decoded from max_fd_count but is not applied anywhere:
	// the fd table always has fdtable.MaxFDCount slots.
	MaxFDCount int `toml:"max_fd_count,omitempty"`
	// Mounts is the initial mount table, applied in order at startup.
	Mounts []Mount `toml:"mounts"`
}

// Default returns the configuration used when no config file is given:
// a single devfs mount at /dev and a conservative default umask.
func Default() Config {
	return Config{
		Umask: 0022,
		Mounts: []Mount{
			{Mountpoint: "/dev", Kind: "devfs"},
		},
	}
}

// Load reads and parses the TOML configuration file at path.
func Load(path string) (Config, error) {
	c := Default()
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return Config{}, fmt.Errorf("config: load %q: %w", path, err)
	}
	return c, nil
}
