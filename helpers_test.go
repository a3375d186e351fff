package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var errBroken = errors.New("handle revoked")

// slowFile is a memFile whose Open waits first.
type slowFile struct {
	FileHandle
	delay time.Duration
}

func (f slowFile) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-time.After(f.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return f.FileHandle.Open(ctx)
}

// brokenFile cannot be opened.
type brokenFile struct {
	name string
	size int64
}

func (f brokenFile) Name() string { return f.name }
func (f brokenFile) Size() int64  { return f.size }
func (f brokenFile) Type() string { return "text/plain" }
func (f brokenFile) Open(context.Context) (io.ReadCloser, error) {
	return nil, errBroken
}

// truncatedFile fails halfway through the read.
type truncatedFile struct{ brokenFile }

func (f truncatedFile) Open(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(io.MultiReader(strings.NewReader("partial"), errReader{})), nil
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errBroken }

// gateFile blocks in Open until release is closed.
type gateFile struct {
	FileHandle
	release chan struct{}
}

func (f gateFile) Open(ctx context.Context) (io.ReadCloser, error) {
	<-f.release
	return f.FileHandle.Open(ctx)
}

// fakePicker returns a fixed selection.
type fakePicker struct {
	mu    sync.Mutex
	files []FileHandle
	err   error
	opts  []PickOptions
}

func (p *fakePicker) Pick(_ context.Context, opts PickOptions) ([]FileHandle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.opts = append(p.opts, opts)
	return p.files, p.err
}

// recorder collects emissions and transitions. Both are written on the
// widget's loop before a batch result is delivered.
type recorder struct {
	mu          sync.Mutex
	outputs     []Output
	transitions []string
}

func (r *recorder) emit(out Output) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outputs = append(r.outputs, out)
}

func (r *recorder) observe(from, to LoadingState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, from.String()+"->"+to.String())
}

func (r *recorder) snapshot() ([]Output, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Output(nil), r.outputs...), append([]string(nil), r.transitions...)
}

func decodeBatch(t *testing.T, filesJSON string) FileBatch {
	t.Helper()
	var batch FileBatch
	require.NoError(t, json.Unmarshal([]byte(filesJSON), &batch))
	return batch
}

// decodeDataURI splits a data URI into its MIME type and bytes.
func decodeDataURI(t *testing.T, uri string) (string, []byte) {
	t.Helper()
	rest, ok := strings.CutPrefix(uri, "data:")
	require.True(t, ok, "missing data: prefix in %q", uri)
	mimeType, payload, ok := strings.Cut(rest, ";base64,")
	require.True(t, ok, "missing ;base64, in %q", uri)
	data, err := base64.StdEncoding.DecodeString(payload)
	require.NoError(t, err)
	return mimeType, data
}

func waitResult(t *testing.T, res <-chan Result) Result {
	t.Helper()
	select {
	case r, ok := <-res:
		require.True(t, ok, "result channel closed without a value")
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for batch result")
		return Result{}
	}
}
