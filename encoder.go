package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
)

const defaultMimeType = "application/octet-stream"

// Encoder turns a FileHandle into an EncodedFile whose content is a data URI,
// byte-for-byte what FileReader.readAsDataURL produces for the same file.
type Encoder struct{}

// Encode reads the whole file. A failed open or read returns an error wrapping
// ErrRead; the caller decides what a failure means for the batch.
func (Encoder) Encode(ctx context.Context, f FileHandle) (EncodedFile, error) {
	out := EncodedFile{Name: f.Name(), Size: f.Size()}

	rc, err := f.Open(ctx)
	if err != nil {
		return out, fmt.Errorf("%w: %s: %v", ErrRead, f.Name(), err)
	}
	defer rc.Close()

	content, err := dataURI(ctx, f.Type(), rc, f.Size())
	if err != nil {
		return out, fmt.Errorf("%w: %s: %v", ErrRead, f.Name(), err)
	}
	out.ContentBytes = content
	return out, nil
}

// dataURI streams r through a base64 encoder behind the
// "data:<mime>;base64," prefix. sizeHint only presizes the buffer.
func dataURI(ctx context.Context, mimeType string, r io.Reader, sizeHint int64) (string, error) {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if mimeType == "" {
		mimeType = defaultMimeType
	}

	var b strings.Builder
	prefix := "data:" + mimeType + ";base64,"
	if sizeHint > 0 {
		b.Grow(len(prefix) + base64.StdEncoding.EncodedLen(int(sizeHint)))
	}
	b.WriteString(prefix)

	enc := base64.NewEncoder(base64.StdEncoding, &b)
	if _, err := io.Copy(enc, ctxReader{ctx: ctx, r: r}); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return b.String(), nil
}

// ctxReader stops a copy once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
