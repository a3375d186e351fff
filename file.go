package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// diskFile is a FileHandle backed by a path. Metadata is captured when the
// file is acquired, the bytes are read later by the encoder.
type diskFile struct {
	path  string
	name  string
	size  int64
	mtype string
}

// newDiskFile stats path and returns a handle for it.
func newDiskFile(path string, mimes *MimeTable) (*diskFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing path %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	name := filepath.Base(path)
	return &diskFile{
		path:  path,
		name:  name,
		size:  info.Size(),
		mtype: mimes.TypeFor(name),
	}, nil
}

func (f *diskFile) Name() string { return f.name }
func (f *diskFile) Size() int64  { return f.size }
func (f *diskFile) Type() string { return f.mtype }
func (f *diskFile) Path() string { return f.path }

func (f *diskFile) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Open(f.path)
}

// diskFiles turns paths into handles, skipping the ones that cannot be
// acquired. The order of paths is kept.
func diskFiles(paths []string, mimes *MimeTable, log Logger) []FileHandle {
	files := make([]FileHandle, 0, len(paths))
	for _, p := range paths {
		f, err := newDiskFile(p, mimes)
		if err != nil {
			log.Warn(context.Background(), "skipping path", "path", p, "err", err)
			continue
		}
		files = append(files, f)
	}
	return files
}

// memFile is an in-memory FileHandle.
type memFile struct {
	name  string
	mtype string
	data  []byte
}

// NewMemFile returns a handle over data. The slice is not copied.
func NewMemFile(name, mtype string, data []byte) FileHandle {
	return &memFile{name: name, mtype: mtype, data: data}
}

func (f *memFile) Name() string { return f.name }
func (f *memFile) Size() int64  { return int64(len(f.data)) }
func (f *memFile) Type() string { return f.mtype }

func (f *memFile) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(f.data)), nil
}
