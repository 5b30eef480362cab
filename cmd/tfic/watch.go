package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/inconshreveable/log15"
	"github.com/rjeczalik/notify"
	"gopkg.in/urfave/cli.v1"
)

// rebuildDelay collects the bursts of events editors produce on save.
const rebuildDelay = 100 * time.Millisecond

var watchCommand = cli.Command{
	Action:    watch,
	Name:      "watch",
	Usage:     "Rebuild TFI files whenever they change",
	ArgsUsage: "<file.tfi>...",
	Flags:     compilerFlags,
	Category:  "COMPILER COMMANDS",
	Description: `
Every input is built once at startup and again after each change, writing
<name>.js next to it. Stop with Ctrl+C.`,
}

func watch(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return errors.New("no input files")
	}
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	units, err := buildUnits(ctx.Args(), "")
	if err != nil {
		return err
	}

	d := newDiag()
	targets := make(map[string]*unit, len(units))
	dirs := make(map[string]bool)
	for _, u := range units {
		abs, err := filepath.Abs(u.in)
		if err != nil {
			return err
		}
		targets[abs] = u
		dirs[filepath.Dir(abs)] = true
	}
	rebuild := func(path string) {
		u := targets[path]
		u.res, u.err = compileFile(u.in, cfg.Compiler)
		u.finish(d, false)
	}
	for path := range targets {
		rebuild(path)
	}

	// Watch directories rather than files so that editors replacing the
	// file on save keep being observed.
	events := make(chan notify.EventInfo, 64)
	for dir := range dirs {
		if err := notify.Watch(dir, events, notify.Create, notify.Write, notify.Rename); err != nil {
			notify.Stop(events)
			return fmt.Errorf("watch %s: %v", dir, err)
		}
		log15.Debug("Watching directory", "dir", dir)
	}
	defer notify.Stop(events)

	sigctx, cancel := signalContext()
	defer cancel()
	fmt.Fprintln(os.Stdout, "Watching for changes, press Ctrl+C to stop")
	watchLoop(sigctx, events, func(path string) bool { return targets[path] != nil }, rebuildDelay, rebuild)
	return nil
}

// watchLoop calls rebuild for every watched path that changed, once per
// burst of events. It returns when ctx is done.
func watchLoop(ctx context.Context, events <-chan notify.EventInfo, watched func(string) bool, delay time.Duration, rebuild func(string)) {
	pending := make(map[string]bool)
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			if !watched(ev.Path()) {
				continue
			}
			log15.Debug("Source changed", "path", ev.Path(), "event", ev.Event())
			pending[ev.Path()] = true
			fire = time.After(delay)
		case <-fire:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			for _, p := range paths {
				rebuild(p)
			}
			pending = make(map[string]bool)
			fire = nil
		}
	}
}
