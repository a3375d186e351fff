package main

import (
	"context"
	"errors"
	"io"
)

// FileHandle is a file the user selected, before its bytes are read.
// It is provided by the host (picker or drop) and is read-only to the widget.
type FileHandle interface {
	Name() string
	Size() int64
	// Type is the MIME type declared by the host, or "" when unknown.
	Type() string
	Open(ctx context.Context) (io.ReadCloser, error)
}

// EncodedFile is one entry of the emitted batch.
type EncodedFile struct {
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ContentBytes string `json:"contentBytes"` // data URI, "" if the read failed
}

// FileBatch holds encoded files in input order, not completion order.
type FileBatch []EncodedFile

// Output is the payload handed to the host once per completed batch.
type Output struct {
	FilesJSON string `json:"filesJSON"`
}

// Result is what a submitted batch settles to. Exactly one of Output and Err
// is meaningful; Emitted is false for no-op batches.
type Result struct {
	Output  Output
	Emitted bool
	Err     error
}

// Emitter receives the outbound event. No acknowledgment is expected.
type Emitter func(Output)

var (
	ErrRead          = errors.New("file read failed")
	ErrBatch         = errors.New("batch processing failed")
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrDisposed      = errors.New("widget disposed")
	ErrNoPicker      = errors.New("no file picker available")
	ErrDisabled      = errors.New("button is disabled")
)
