package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
)

// fuzzyPicker is the terminal stand-in for the native file dialog: a fuzzy
// finder over the files under root. Multiple and Accept are enforced here,
// not by the widget.
type fuzzyPicker struct {
	root  string
	walk  walkOptions
	mimes *MimeTable
	log   Logger
}

func (p *fuzzyPicker) Pick(ctx context.Context, opts PickOptions) ([]FileHandle, error) {
	walk := p.walk
	walk.Accept = parseAccept(opts.Accept)

	candidates, err := findCandidates(p.root, walk, p.mimes, p.log)
	if err != nil {
		return nil, fmt.Errorf("error scanning for files: %w", err)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no files under %s match %q", p.root, opts.Accept)
	}

	display := func(i int) string { return candidates[i] }
	preview := fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
		if i == -1 {
			if opts.Multiple {
				return "Select files to import. Press Tab to multi-select, Enter to confirm."
			}
			return "Select a file to import. Press Enter to confirm."
		}
		path := candidates[i]
		info, statErr := os.Stat(path)
		if statErr != nil {
			return fmt.Sprintf("Path: %s\nError getting info: %v", path, statErr)
		}
		typ := p.mimes.TypeFor(path)
		if typ == "" {
			typ = "unknown"
		}
		return fmt.Sprintf("Path: %s\nType: %s\nSize: %d bytes", path, typ, info.Size())
	})

	var idx []int
	if opts.Multiple {
		idx, err = fuzzyfinder.FindMulti(candidates, display, preview, fuzzyfinder.WithContext(ctx))
	} else {
		var i int
		i, err = fuzzyfinder.Find(candidates, display, preview, fuzzyfinder.WithContext(ctx))
		idx = []int{i}
	}
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			// A dismissed dialog selects nothing.
			return nil, nil
		}
		return nil, fmt.Errorf("fuzzy finder error: %w", err)
	}

	paths := make([]string, len(idx))
	for i, index := range idx {
		paths[i] = candidates[index]
	}
	return diskFiles(paths, p.mimes, p.log), nil
}

// argsPicker answers the dialog with paths given up front, applying the
// same multiple and accept rules a native dialog would.
type argsPicker struct {
	paths []string
	mimes *MimeTable
	log   Logger
}

func (p *argsPicker) Pick(ctx context.Context, opts PickOptions) ([]FileHandle, error) {
	accept := parseAccept(opts.Accept)
	var paths []string
	for _, path := range p.paths {
		name := filepath.Base(path)
		if !accept.Match(name, p.mimes.TypeFor(name)) {
			p.log.Warn(ctx, "file type not accepted", "path", path, "accept", opts.Accept)
			continue
		}
		paths = append(paths, path)
	}
	if !opts.Multiple && len(paths) > 1 {
		return nil, fmt.Errorf("%d files given but multiple files are not allowed", len(paths))
	}
	return diskFiles(paths, p.mimes, p.log), nil
}
