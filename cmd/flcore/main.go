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

// Command flcore wires the signal core and VFS together into one
// process: it loads the startup descriptor, mounts the configured
// filesystems, and runs the signal worker until told to stop. It does
// not itself host a dynamic binary translator or memory manager — those
// are the external collaborators spec.md names by contract
// (pkg/sentry/kernel/dbt.Translator, pkg/sentry/kernel/mm.PointerChecker)
// and are expected to be linked in by whatever process actually runs a
// guest binary. Grounded on gvisor's cmd/gvisor-containerd-shim, whose
// config.go this repository's pkg/config also descends from.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	ossignal "os/signal"

	"github.com/lovejavaee/flinux/pkg/cleanup"
	"github.com/lovejavaee/flinux/pkg/config"
	"github.com/lovejavaee/flinux/pkg/log"
	"github.com/lovejavaee/flinux/pkg/sentry/kernel"
	"github.com/lovejavaee/flinux/pkg/sentry/kernel/fdtable"
	sigcore "github.com/lovejavaee/flinux/pkg/sentry/kernel/signal"
	"github.com/lovejavaee/flinux/pkg/sentry/vfs"
	"github.com/lovejavaee/flinux/pkg/sentry/vfs/console"
	"github.com/lovejavaee/flinux/pkg/sentry/vfs/devfs"
	"github.com/lovejavaee/flinux/pkg/sentry/vfs/hostfs"
	"github.com/lovejavaee/flinux/pkg/sentry/vfs/pipefs"
	"github.com/lovejavaee/flinux/pkg/sentry/vfs/socketfile"
)

func main() {
	configPath := flag.String("config", "", "path to a flcore.toml startup descriptor; defaults to a built-in config if empty")
	flag.Parse()

	log.SetTarget(log.NewLogrusEmitter())

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Warningf("flcore: %v; falling back to defaults", err)
		} else {
			cfg = loaded
		}
	}

	registry := vfs.NewRegistry()
	// cu unwinds every mount already registered if a later mount in cfg.Mounts
	// turns out to be fatal (a hostfs source directory that doesn't exist),
	// so a startup failure never leaves a partially-mounted registry behind.
	cu := cleanup.Make(func() {})
	defer cu.Clean()
	for _, m := range cfg.Mounts {
		fs, err := buildFilesystem(m)
		if err != nil {
			if fatalMountError(m) {
				log.Warningf("flcore: mount %q (%s): %v; unwinding startup", m.Mountpoint, m.Kind, err)
				cu.Clean()
				os.Exit(1)
			}
			log.Warningf("flcore: mount %q (%s): %v", m.Mountpoint, m.Kind, err)
			continue
		}
		registry.Mount(m.Mountpoint, fs)
		mountpoint := m.Mountpoint
		cu.Add(func() { registry.Unmount(mountpoint) })
		log.Infof("flcore: mounted %s at %s", m.Kind, m.Mountpoint)
	}
	cu.Release()
	_ = vfs.NewResolver(registry)
	fdt := fdtable.New()
	proc := kernel.NewProcessState("/", cfg.Umask)
	// A real guest run wires proc.ResetOnExec(ctx, fdt) into the exec
	// syscall's handler (the syscall trampoline, an external
	// collaborator per spec.md §1); fdt and proc are constructed here so
	// that handler has a table and process state to call it against.
	_ = fdt
	_ = proc

	core := sigcore.NewCore(nil, newPlatformSuspender(), nil)

	ctx, stop := ossignal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	core.Start(ctx)

	<-ctx.Done()
	core.Shutdown()
	if err := core.WaitGroup(); err != nil && err != context.Canceled {
		log.Warningf("flcore: signal worker exited: %v", err)
	}
}

// fatalMountError reports whether a failure building m's filesystem should
// abort startup entirely rather than just skip that one mountpoint. A
// missing hostfs source directory means the guest's intended root or bind
// mount is absent, which no later syscall can recover from; every other
// mount kind is self-contained and degrades to "that path just isn't
// there" if skipped.
func fatalMountError(m config.Mount) bool {
	return m.Kind == "hostfs"
}

func buildFilesystem(m config.Mount) (*vfs.FilesystemOps, error) {
	switch m.Kind {
	case "hostfs":
		if m.Source == "" {
			return nil, fmt.Errorf("hostfs mount %q requires a source directory", m.Mountpoint)
		}
		info, err := os.Stat(m.Source)
		if err != nil {
			return nil, fmt.Errorf("hostfs mount %q source %q: %w", m.Mountpoint, m.Source, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("hostfs mount %q source %q is not a directory", m.Mountpoint, m.Source)
		}
		return hostfs.NewFilesystem(m.Source).Ops(), nil
	case "devfs":
		return devfs.NewFilesystem().Ops(), nil
	case "pipefs":
		return pipefs.NewFilesystem().Ops(), nil
	case "sockfs":
		return socketfile.Ops(), nil
	case "console":
		return console.New(int(os.Stdin.Fd()), os.Stdin, os.Stdout).Ops(), nil
	default:
		return nil, errUnsupportedMountKind(m.Kind)
	}
}

type errUnsupportedMountKind string

func (e errUnsupportedMountKind) Error() string {
	return "unsupported mount kind " + string(e)
}
