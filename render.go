package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// formatView renders the button and drop zone as one status line.
func formatView(v WidgetView) string {
	if !v.Button.Visible {
		return ""
	}
	var b strings.Builder
	label := v.Button.Text
	if v.Button.SecondaryContent != "" {
		label += " - " + v.Button.SecondaryContent
	}
	icon := "[" + v.Button.Icon + "]"
	if v.Button.IconPosition == IconAfter.String() {
		b.WriteString(label + " " + icon)
	} else {
		b.WriteString(icon + " " + label)
	}
	if v.Button.Disabled {
		b.WriteString(" (disabled)")
	}
	if v.Surface.ShowHint {
		fmt.Fprintf(&b, "  %s", v.Surface.HintText)
	}
	return b.String()
}

// statusRenderer redraws the status line whenever it is poked. Pokes come
// from the event loop, so they never block; rendering happens on its own
// goroutine because View dispatches onto the loop.
type statusRenderer struct {
	out   io.Writer
	pokes chan struct{}
	done  chan struct{}
}

// newStatusRenderer returns nil when out is not a terminal.
func newStatusRenderer(out *os.File) *statusRenderer {
	if !term.IsTerminal(int(out.Fd())) {
		return nil
	}
	return &statusRenderer{out: out, pokes: make(chan struct{}, 1), done: make(chan struct{})}
}

func (r *statusRenderer) poke() {
	if r == nil {
		return
	}
	select {
	case r.pokes <- struct{}{}:
	default:
	}
}

func (r *statusRenderer) run(w *Widget) {
	defer close(r.done)
	for range r.pokes {
		v, err := w.View()
		if err != nil {
			return
		}
		fmt.Fprintf(r.out, "\r\033[K%s", formatView(v))
	}
}

func (r *statusRenderer) stop() {
	if r == nil {
		return
	}
	close(r.pokes)
	<-r.done
	fmt.Fprintln(r.out)
}
