package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"
)

// acceptFilter is the host-side enforcement of the accept attribute:
// ".ext", "type/*", "type/subtype" or "*", comma separated.
type acceptFilter struct {
	any      bool
	exts     []string
	types    []string
	prefixes []string
}

func parseAccept(accept string) acceptFilter {
	var a acceptFilter
	for _, tok := range strings.Split(accept, ",") {
		tok = strings.ToLower(strings.TrimSpace(tok))
		switch {
		case tok == "":
		case tok == "*" || tok == "*/*":
			a.any = true
		case strings.HasPrefix(tok, "."):
			a.exts = append(a.exts, tok)
		case strings.HasSuffix(tok, "/*"):
			a.prefixes = append(a.prefixes, strings.TrimSuffix(tok, "*"))
		case strings.Contains(tok, "/"):
			a.types = append(a.types, tok)
		}
	}
	if len(a.exts) == 0 && len(a.types) == 0 && len(a.prefixes) == 0 {
		a.any = true
	}
	return a
}

// Match reports whether a file with the given name and MIME type is accepted.
func (a acceptFilter) Match(name, mimeType string) bool {
	if a.any {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range a.exts {
		if ext == e {
			return true
		}
	}
	mimeType = strings.ToLower(mimeType)
	if mimeType == "" {
		return false
	}
	for _, t := range a.types {
		if mimeType == t {
			return true
		}
	}
	for _, p := range a.prefixes {
		if strings.HasPrefix(mimeType, p) {
			return true
		}
	}
	return false
}

// walkOptions controls which files are offered to the picker.
type walkOptions struct {
	ShowHidden bool
	NoIgnore   bool
	MaxDepth   int
	Excludes   []string
	Accept     acceptFilter
}

// findCandidates walks root and returns the files the picker may offer,
// respecting hidden files, .gitignore, exclude patterns, depth and accept.
func findCandidates(root string, opts walkOptions, mimes *MimeTable, log Logger) ([]string, error) {
	ctx := context.Background()
	var files []string
	var ignoreMatcher gitignore.IgnoreMatcher

	if !opts.NoIgnore {
		gitIgnorePath := filepath.Join(root, ".gitignore")
		if _, err := os.Stat(gitIgnorePath); err == nil {
			matcher, err := gitignore.NewGitIgnore(gitIgnorePath)
			if err != nil {
				log.Warn(ctx, "could not parse .gitignore", "path", gitIgnorePath, "err", err)
			} else {
				ignoreMatcher = matcher
			}
		}
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn(ctx, "error accessing path", "path", path, "err", err)
			return nil
		}
		if path == root {
			return nil
		}

		baseName := d.Name()
		isDir := d.IsDir()

		if !opts.ShowHidden && isHidden(baseName) {
			if isDir {
				return fs.SkipDir
			}
			return nil
		}

		relPath, _ := filepath.Rel(root, path)
		if ignoreMatcher != nil && ignoreMatcher.Match(path, isDir) {
			if isDir {
				return fs.SkipDir
			}
			return nil
		}

		excluded, err := matchesAnyPattern(baseName, opts.Excludes)
		if err != nil {
			log.Warn(ctx, "bad exclude pattern", "path", path, "err", err)
		}
		if excluded {
			if isDir {
				return fs.SkipDir
			}
			return nil
		}

		if isDir {
			if opts.MaxDepth > 0 && countPathSeparators(relPath)+1 >= opts.MaxDepth {
				return fs.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if !opts.Accept.Match(baseName, mimes.TypeFor(baseName)) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", root, err)
	}
	return files, nil
}

// parsePatterns splits a comma-separated string of patterns into a slice.
func parsePatterns(patterns string) []string {
	if patterns == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(patterns, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// matchesAnyPattern checks if the given name matches any of the provided glob patterns.
func matchesAnyPattern(name string, patterns []string) (bool, error) {
	for _, pattern := range patterns {
		matched, err := filepath.Match(pattern, name)
		if err != nil {
			return false, fmt.Errorf("invalid glob pattern '%s': %w", pattern, err)
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}

// isHidden checks if a file path is hidden (starts with '.').
func isHidden(path string) bool {
	if path == "." || path == ".." {
		return false
	}
	baseName := filepath.Base(path)
	return len(baseName) > 0 && baseName[0] == '.'
}

// countPathSeparators counts the number of path separators in a relative path.
func countPathSeparators(path string) int {
	path = filepath.ToSlash(path)
	if path == "." || path == "" {
		return 0
	}
	return strings.Count(strings.Trim(path, "/"), "/")
}
