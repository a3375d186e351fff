package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
)

// sinkOptions selects where emitted payloads go. The file is overwritten on
// every emission: it always holds the latest filesJSON, never a history.
type sinkOptions struct {
	File      string
	Clipboard bool
	Envelope  bool // write {"filesJSON": "..."} instead of the bare array
}

// writeClipboard is swapped in tests.
var writeClipboard = clipboard.WriteAll

// newEmitter returns the host callback for the widget.
func newEmitter(opts sinkOptions, stdout io.Writer, log Logger) Emitter {
	ctx := context.Background()
	return func(out Output) {
		payload := out.FilesJSON
		if opts.Envelope {
			env, err := jsonNoEscape(out)
			if err != nil {
				log.Error(ctx, "could not encode output", "err", err)
				return
			}
			payload = env
		}

		switch {
		case opts.File != "":
			if err := os.WriteFile(opts.File, []byte(payload), 0o644); err != nil {
				log.Error(ctx, "error writing output file", "file", opts.File, "err", err)
				return
			}
			log.Info(ctx, "output saved", "file", opts.File, "bytes", len(payload))
		case opts.Clipboard:
			if err := writeClipboard(payload); err != nil {
				log.Error(ctx, "error writing to clipboard", "err", err)
				fmt.Fprintln(stdout, payload)
				return
			}
			log.Info(ctx, "output copied to clipboard", "bytes", len(payload))
		default:
			fmt.Fprintln(stdout, payload)
		}
	}
}
