package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
)

// dropTarget is the part of the widget a drop folder drives.
type dropTarget interface {
	DragEnter(ev *DragEvent) error
	DragOver(ev *DragEvent) error
	DragLeave(ev *DragEvent) error
	Drop(ev *DragEvent) (<-chan Result, error)
}

// gesture accumulates the files of one drop: the first file is the drag
// entering the zone, later files keep it hovering, and the drop happens once
// the folder has been quiet for the settle period.
type gesture struct {
	target dropTarget
	zone   *Node
	paths  []string
}

func (g *gesture) add(path string) error {
	ev := &DragEvent{Target: g.zone}
	if slices.Contains(g.paths, path) {
		return g.target.DragOver(ev)
	}
	entering := len(g.paths) == 0
	g.paths = append(g.paths, path)
	if entering {
		return g.target.DragEnter(ev)
	}
	return g.target.DragOver(ev)
}

// remove drops path from the gesture. Losing the last file means the drag
// left the zone altogether.
func (g *gesture) remove(path string) error {
	i := slices.Index(g.paths, path)
	if i < 0 {
		return nil
	}
	g.paths = slices.Delete(g.paths, i, i+1)
	if len(g.paths) == 0 {
		return g.target.DragLeave(&DragEvent{Target: g.zone})
	}
	return nil
}

func (g *gesture) active() bool { return len(g.paths) > 0 }

// drop ends the gesture with the collected files in arrival order.
func (g *gesture) drop(mimes *MimeTable, log Logger) (<-chan Result, error) {
	files := diskFiles(g.paths, mimes, log)
	g.paths = nil
	return g.target.Drop(&DragEvent{Target: g.zone, Files: files})
}

// dropFolder watches dir and turns files landing in it into drag-and-drop
// gestures on the widget.
type dropFolder struct {
	dir    string
	settle time.Duration
	target dropTarget
	zone   *Node
	mimes  *MimeTable
	log    Logger
}

// Run blocks until ctx is done or the watcher fails.
func (d *dropFolder) Run(ctx context.Context) error {
	info, err := os.Stat(d.dir)
	if err != nil {
		return fmt.Errorf("error accessing drop folder %s: %w", d.dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("drop folder %s is not a directory", d.dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not start watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(d.dir); err != nil {
		return fmt.Errorf("could not watch %s: %w", d.dir, err)
	}
	d.log.Info(ctx, "watching drop folder", "dir", d.dir, "settle", d.settle)

	g := &gesture{target: d.target, zone: d.zone}
	timer := time.NewTimer(d.settle)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if err := d.handle(g, ev); err != nil {
				return err
			}
			if g.active() {
				timer.Reset(d.settle)
			} else {
				timer.Stop()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			d.log.Warn(ctx, "watcher error", "err", err)

		case <-timer.C:
			if !g.active() {
				continue
			}
			res, err := g.drop(d.mimes, d.log)
			if err != nil {
				return err
			}
			go d.report(ctx, res)
		}
	}
}

func (d *dropFolder) handle(g *gesture, ev fsnotify.Event) error {
	if isHidden(filepath.Base(ev.Name)) {
		return nil
	}
	switch {
	case ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename):
		return g.remove(ev.Name)
	case ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write):
		info, err := os.Stat(ev.Name)
		if err != nil || !info.Mode().IsRegular() {
			return nil
		}
		return g.add(ev.Name)
	}
	return nil
}

func (d *dropFolder) report(ctx context.Context, res <-chan Result) {
	r := <-res
	switch {
	case errors.Is(r.Err, ErrDisposed):
	case r.Err != nil:
		d.log.Error(ctx, "drop failed", "err", r.Err)
	case !r.Emitted:
		d.log.Debug(ctx, "drop ignored")
	}
}
