package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type fileEncoder interface {
	Encode(ctx context.Context, f FileHandle) (EncodedFile, error)
}

// Aggregator encodes a batch of files concurrently and serializes the result
// in input order.
type Aggregator struct {
	enc     fileEncoder
	threads int
	log     Logger

	marshal func(FileBatch) (string, error)
}

// NewAggregator returns an Aggregator running at most threads encoders at
// once; threads <= 0 means one per CPU.
func NewAggregator(threads int, log Logger) *Aggregator {
	return &Aggregator{
		enc:     Encoder{},
		threads: threads,
		log:     log,
		marshal: marshalBatch,
	}
}

func (a *Aggregator) workers() int {
	if a.threads > 0 {
		return a.threads
	}
	return runtime.NumCPU()
}

// Aggregate encodes files and returns the outbound payload. Empty input is a
// no-op and reports emitted == false. A single unreadable file does not fail
// the batch: its contentBytes is left empty. Only an unexpected failure while
// encoding or serializing returns an error, wrapping ErrBatch.
func (a *Aggregator) Aggregate(ctx context.Context, files []FileHandle) (out Output, emitted bool, err error) {
	if len(files) == 0 {
		return Output{}, false, nil
	}

	log := a.log.With("batch", uuid.NewString())
	log.Debug(ctx, "encoding batch", "files", len(files), "workers", a.workers())

	batch := make(FileBatch, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers())

	for i, f := range files {
		i, f := i, f
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: encoding file #%d panicked: %v", ErrBatch, i, r)
				}
			}()

			ef, encErr := a.enc.Encode(gctx, f)
			if encErr != nil {
				log.Warn(gctx, "file read failed", "index", i, "name", f.Name(), "err", encErr)
				ef = EncodedFile{Name: f.Name(), Size: f.Size()}
			}
			batch[i] = ef
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Error(ctx, "batch aborted", "err", err)
		return Output{}, false, err
	}

	filesJSON, err := a.marshal(batch)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrBatch, err)
		log.Error(ctx, "batch aborted", "err", err)
		return Output{}, false, err
	}

	log.Info(ctx, "batch encoded", "files", len(batch), "bytes", len(filesJSON))
	return Output{FilesJSON: filesJSON}, true, nil
}

// marshalBatch serializes like JSON.stringify.
func marshalBatch(batch FileBatch) (string, error) {
	return jsonNoEscape(batch)
}

// jsonNoEscape encodes v without HTML escaping and without the trailing
// newline json.Encoder adds.
func jsonNoEscape(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
