package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLogger_Levels(t *testing.T) {
	ctx := context.Background()

	var buf bytes.Buffer
	log := newLogger(&buf, false)
	log.Debug(ctx, "hidden")
	log.Info(ctx, "shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown k=v")

	buf.Reset()
	log = newLogger(&buf, true)
	log.Debug(ctx, "visible")
	assert.Contains(t, buf.String(), "level=DEBUG")
}

func TestSlogLogger_With(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, false).With("batch", "b1")
	log.Warn(context.Background(), "w")
	log.Error(context.Background(), "e")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	for _, l := range lines {
		assert.Contains(t, l, "batch=b1")
	}
}
