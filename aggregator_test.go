package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregator_EmptyInputIsNoop(t *testing.T) {
	agg := NewAggregator(0, discardLogger())

	for _, files := range [][]FileHandle{nil, {}} {
		out, emitted, err := agg.Aggregate(context.Background(), files)
		require.NoError(t, err)
		assert.False(t, emitted)
		assert.Empty(t, out.FilesJSON)
	}
}

func TestAggregator_PreservesInputOrder(t *testing.T) {
	const n = 6
	files := make([]FileHandle, n)
	for i := range files {
		// The first file finishes last.
		files[i] = slowFile{
			FileHandle: NewMemFile(fmt.Sprintf("f%d.txt", i), "text/plain", []byte(fmt.Sprintf("content %d", i))),
			delay:      time.Duration(n-i) * 15 * time.Millisecond,
		}
	}

	out, emitted, err := NewAggregator(n, discardLogger()).Aggregate(context.Background(), files)
	require.NoError(t, err)
	require.True(t, emitted)

	batch := decodeBatch(t, out.FilesJSON)
	require.Len(t, batch, n)
	for i, ef := range batch {
		assert.Equal(t, fmt.Sprintf("f%d.txt", i), ef.Name)
		assert.Equal(t, files[i].Size(), ef.Size)
		_, data := decodeDataURI(t, ef.ContentBytes)
		assert.Equal(t, fmt.Sprintf("content %d", i), string(data))
	}
}

func TestAggregator_SingleWorkerKeepsOrder(t *testing.T) {
	files := []FileHandle{
		NewMemFile("a", "", []byte("a")),
		NewMemFile("b", "", []byte("b")),
	}
	out, _, err := NewAggregator(1, discardLogger()).Aggregate(context.Background(), files)
	require.NoError(t, err)
	assert.Equal(t,
		`[{"name":"a","size":1,"contentBytes":"data:application/octet-stream;base64,YQ=="},`+
			`{"name":"b","size":1,"contentBytes":"data:application/octet-stream;base64,Yg=="}]`,
		out.FilesJSON)
}

func TestAggregator_IsolatesReadFailure(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	files := []FileHandle{
		NewMemFile("one.txt", "text/plain", []byte("1")),
		brokenFile{name: "two.txt", size: 42},
		NewMemFile("three.txt", "text/plain", []byte("3")),
	}

	out, emitted, err := NewAggregator(0, log).Aggregate(context.Background(), files)
	require.NoError(t, err)
	require.True(t, emitted)

	batch := decodeBatch(t, out.FilesJSON)
	require.Len(t, batch, 3)

	assert.Equal(t, "data:text/plain;base64,MQ==", batch[0].ContentBytes)
	assert.Equal(t, EncodedFile{Name: "two.txt", Size: 42, ContentBytes: ""}, batch[1])
	assert.Equal(t, "data:text/plain;base64,Mw==", batch[2].ContentBytes)

	logs := buf.String()
	assert.Contains(t, logs, "level=WARN")
	assert.Contains(t, logs, "two.txt")
	assert.Contains(t, logs, "batch=")
}

func TestAggregator_EmptyContentKeyIsAlwaysPresent(t *testing.T) {
	out, _, err := NewAggregator(0, discardLogger()).Aggregate(context.Background(), []FileHandle{brokenFile{name: "x", size: 1}})
	require.NoError(t, err)
	assert.Equal(t, `[{"name":"x","size":1,"contentBytes":""}]`, out.FilesJSON)
}

func TestAggregator_DoesNotEscapeHTML(t *testing.T) {
	out, _, err := NewAggregator(0, discardLogger()).Aggregate(context.Background(),
		[]FileHandle{NewMemFile("<a&b>.txt", "text/plain", nil)})
	require.NoError(t, err)
	assert.Contains(t, out.FilesJSON, `"name":"<a&b>.txt"`)
}

func TestAggregator_EscapesLineSeparators(t *testing.T) {
	out, _, err := NewAggregator(0, discardLogger()).Aggregate(context.Background(),
		[]FileHandle{NewMemFile("a\u2028b\u2029c.txt", "text/plain", nil)})
	require.NoError(t, err)
	// encoding/json always escapes U+2028 and U+2029; the decoded name is unchanged.
	assert.Contains(t, out.FilesJSON, `"name":"a\u2028b\u2029c.txt"`)
	assert.Equal(t, "a\u2028b\u2029c.txt", decodeBatch(t, out.FilesJSON)[0].Name)
}

type panickingEncoder struct{}

func (panickingEncoder) Encode(context.Context, FileHandle) (EncodedFile, error) {
	panic("boom")
}

func TestAggregator_EncoderPanicFailsBatch(t *testing.T) {
	agg := NewAggregator(0, discardLogger())
	agg.enc = panickingEncoder{}

	out, emitted, err := agg.Aggregate(context.Background(), []FileHandle{NewMemFile("a", "", nil)})
	require.ErrorIs(t, err, ErrBatch)
	assert.Contains(t, err.Error(), "boom")
	assert.False(t, emitted)
	assert.Empty(t, out.FilesJSON)
}

func TestAggregator_SerializationFailureFailsBatch(t *testing.T) {
	agg := NewAggregator(0, discardLogger())
	agg.marshal = func(FileBatch) (string, error) { return "", errors.New("unsupported value") }

	_, emitted, err := agg.Aggregate(context.Background(), []FileHandle{NewMemFile("a", "", nil)})
	require.ErrorIs(t, err, ErrBatch)
	assert.False(t, emitted)
}
