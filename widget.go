package main

import (
	"context"
	"fmt"
	"sync"
)

// PickOptions are enforced by the picker itself, like a native dialog's
// multiple and accept attributes.
type PickOptions struct {
	Multiple bool
	Accept   string
}

// Picker is the host's file-selection dialog. A cancelled dialog returns an
// empty selection and no error.
type Picker interface {
	Pick(ctx context.Context, opts PickOptions) ([]FileHandle, error)
}

// ButtonView is the presentational state of the trigger button.
type ButtonView struct {
	Visible           bool
	Text              string
	SecondaryContent  string
	Icon              string
	IconPosition      string
	Appearance        string
	Shape             string
	Size              string
	Disabled          bool
	DisabledFocusable bool
	Width             string
	Height            string
	JustifyContent    string
	FontWeight        string
}

// WidgetView is a snapshot of everything the host needs to render.
type WidgetView struct {
	State   LoadingState
	Button  ButtonView
	Surface SurfaceView
}

type WidgetOption func(*Widget)

func WithLogger(l Logger) WidgetOption {
	return func(w *Widget) { w.log = l }
}

// WithZone sets the root element of the drop region.
func WithZone(n *Node) WidgetOption {
	return func(w *Widget) { w.zone = n }
}

// WithStateObserver is called on the event loop for every state transition.
func WithStateObserver(fn func(from, to LoadingState)) WidgetOption {
	return func(w *Widget) { w.observer = fn }
}

type pendingBatch struct {
	files      []FileHandle
	fromPicker bool
	result     chan Result
}

// Widget is the file-import control, independent of any rendering model.
//
// All state is owned by a single event-loop goroutine; user events are
// dispatched onto it and return once handled. Encoding runs off the loop and
// posts its completion back. Batches are queued: exactly one is in flight and
// emissions happen in acquisition order.
type Widget struct {
	events  chan func()
	quit    chan struct{}
	stopped chan struct{}
	once    sync.Once

	picker   Picker
	emit     Emitter
	log      Logger
	zone     *Node
	observer func(from, to LoadingState)

	// owned by the loop
	cfg     Config
	state   *StateMachine
	surface *Surface
	agg     *Aggregator
	queue   []*pendingBatch
	busy    bool
}

// NewWidget validates cfg and starts the widget. emit receives each
// completed batch on the event loop and must not call back into the widget.
func NewWidget(cfg Config, picker Picker, emit Emitter, opts ...WidgetOption) (*Widget, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w := &Widget{
		events:  make(chan func()),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
		picker:  picker,
		emit:    emit,
		cfg:     cfg,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.log == nil {
		w.log = discardLogger()
	}
	if w.emit == nil {
		w.emit = func(Output) {}
	}
	w.state = NewStateMachine(cfg.ShowActionSpinner)
	if w.observer != nil {
		w.state.Observe(w.observer)
	}
	w.surface = NewSurface(w.zone, cfg)
	w.agg = NewAggregator(cfg.Threads, w.log)

	go w.run()
	return w, nil
}

func (w *Widget) run() {
	defer close(w.stopped)
	for {
		select {
		case fn := <-w.events:
			fn()
		case <-w.quit:
			for _, b := range w.queue {
				settle(b, Result{Err: ErrDisposed})
			}
			w.queue = nil
			return
		}
	}
}

// post hands fn to the loop without waiting. It reports false once the
// widget is disposed.
func (w *Widget) post(fn func()) bool {
	select {
	case w.events <- fn:
		return true
	case <-w.stopped:
		return false
	}
}

// dispatch runs fn on the loop and waits for it, like a DOM event handler.
func (w *Widget) dispatch(fn func()) error {
	done := make(chan struct{})
	if !w.post(func() {
		defer close(done)
		fn()
	}) {
		return ErrDisposed
	}
	<-done
	return nil
}

// Update applies a new configuration. It takes effect for the next event;
// a batch in flight keeps the settings it started with.
func (w *Widget) Update(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return w.dispatch(func() {
		w.cfg = cfg
		w.state.SetSpinner(cfg.ShowActionSpinner)
		w.surface.configure(cfg)
		w.agg = NewAggregator(cfg.Threads, w.log)
	})
}

// Dispose stops the widget. Queued batches settle with ErrDisposed; the
// batch in flight finishes but is not emitted.
func (w *Widget) Dispose() {
	w.once.Do(func() {
		close(w.quit)
		<-w.stopped
	})
}

// Click resets the cycle and opens the picker. The returned channel settles
// once with the outcome of the selection.
func (w *Widget) Click(ctx context.Context) (<-chan Result, error) {
	var (
		disabled bool
		opts     PickOptions
	)
	if err := w.dispatch(func() {
		disabled = !w.cfg.Visible || w.state.Disabled(w.cfg.DisplayMode)
		if disabled {
			return
		}
		w.state.Reset()
		opts = PickOptions{Multiple: w.cfg.AllowMultipleFiles, Accept: w.cfg.AllowedFileTypes}
	}); err != nil {
		return nil, err
	}
	if disabled {
		return nil, ErrDisabled
	}
	if w.picker == nil {
		return nil, ErrNoPicker
	}

	files, err := w.picker.Pick(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("file picker: %w", err)
	}
	return w.Select(files)
}

// Select is the picker's change event. The same selection twice in a row
// is ignored until the previous batch has been processed.
func (w *Widget) Select(files []FileHandle) (<-chan Result, error) {
	var res <-chan Result
	err := w.dispatch(func() {
		if !w.surface.Select(files) {
			res = settled(Result{})
			return
		}
		res = w.enqueue(files, true)
	})
	return res, err
}

func (w *Widget) DragEnter(ev *DragEvent) error {
	return w.dispatch(func() { w.surface.DragEnter(ev) })
}

func (w *Widget) DragOver(ev *DragEvent) error {
	return w.dispatch(func() { w.surface.DragOver(ev) })
}

func (w *Widget) DragLeave(ev *DragEvent) error {
	return w.dispatch(func() { w.surface.DragLeave(ev) })
}

// Drop forwards the dropped files as one batch.
func (w *Widget) Drop(ev *DragEvent) (<-chan Result, error) {
	var res <-chan Result
	err := w.dispatch(func() {
		res = w.enqueue(w.surface.Drop(ev), false)
	})
	return res, err
}

// View returns the current presentational snapshot.
func (w *Widget) View() (WidgetView, error) {
	var v WidgetView
	err := w.dispatch(func() {
		c := w.cfg
		v = WidgetView{
			State: w.state.State(),
			Button: ButtonView{
				Visible:           c.Visible,
				Text:              c.Text,
				Icon:              w.state.Icon(c.IconStyle, c.Icon),
				IconPosition:      c.IconPosition.String(),
				Appearance:        c.Appearance.String(),
				Shape:             c.Shape.String(),
				Size:              c.Size.String(),
				Disabled:          w.state.Disabled(c.DisplayMode),
				DisabledFocusable: c.DisabledFocusable,
				Width:             fmt.Sprintf("%dpx", c.Width),
				Height:            fmt.Sprintf("%dpx", c.Height),
				JustifyContent:    c.Align.CSS(),
				FontWeight:        c.FontWeight.CSS(),
			},
			Surface: w.surface.View(),
		}
		if c.ShowSecondaryContent {
			v.Button.SecondaryContent = c.SecondaryContent
		}
	})
	return v, err
}

// enqueue runs on the loop. Empty input settles immediately with no state
// transition and no emission.
func (w *Widget) enqueue(files []FileHandle, fromPicker bool) <-chan Result {
	if len(files) == 0 {
		if fromPicker {
			w.surface.ResetInput()
		}
		return settled(Result{})
	}
	b := &pendingBatch{files: files, fromPicker: fromPicker, result: make(chan Result, 1)}
	w.queue = append(w.queue, b)
	w.startNext()
	return b.result
}

func (w *Widget) startNext() {
	if w.busy || len(w.queue) == 0 {
		return
	}
	b := w.queue[0]
	w.queue = w.queue[1:]
	w.busy = true
	w.state.Begin()

	agg := w.agg
	go func() {
		out, emitted, err := agg.Aggregate(context.Background(), b.files)
		if !w.post(func() { w.finish(b, Result{Output: out, Emitted: emitted, Err: err}) }) {
			settle(b, Result{Err: ErrDisposed})
		}
	}()
}

func (w *Widget) finish(b *pendingBatch, r Result) {
	select {
	case <-w.quit:
		// Disposed while reading: the result is dropped.
		settle(b, Result{Err: ErrDisposed})
		return
	default:
	}
	w.busy = false
	switch {
	case r.Err != nil:
		w.state.Fail()
	case r.Emitted:
		w.emit(r.Output)
		w.state.Succeed()
	}
	if b.fromPicker {
		w.surface.ResetInput()
	}
	settle(b, r)
	w.startNext()
}

func settle(b *pendingBatch, r Result) {
	b.result <- r
	close(b.result)
}

func settled(r Result) <-chan Result {
	ch := make(chan Result, 1)
	ch <- r
	close(ch)
	return ch
}
