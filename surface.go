package main

import "slices"

// Node is an element of the host's element tree. The surface only needs
// parent links to answer containment.
type Node struct {
	Name   string
	parent *Node
}

// NewNode returns a node attached under parent, or a root when parent is nil.
func NewNode(name string, parent *Node) *Node {
	return &Node{Name: name, parent: parent}
}

// Contains reports whether other is n or one of its descendants, like
// Node.contains in the DOM. A nil other is never contained.
func (n *Node) Contains(other *Node) bool {
	for cur := other; cur != nil; cur = cur.parent {
		if cur == n {
			return true
		}
	}
	return false
}

const DropEffectCopy = "copy"

// DragEvent is one drag-and-drop event dispatched to the drop zone.
// RelatedTarget is the element the pointer moved to on drag-leave.
type DragEvent struct {
	Target        *Node
	RelatedTarget *Node
	Files         []FileHandle
	DropEffect    string

	defaultPrevented bool
}

// PreventDefault stops the host's default handling (e.g. opening the file).
func (e *DragEvent) PreventDefault() { e.defaultPrevented = true }

func (e *DragEvent) DefaultPrevented() bool { return e.defaultPrevented }

// dropMargin is how much the drop zone grows while a drag hovers it.
const dropMargin = 10

// SurfaceView is the presentational state of the drop zone.
type SurfaceView struct {
	Width    int
	Height   int
	Border   bool
	ShowHint bool
	HintText string
}

// Surface normalizes the picker and drag-and-drop channels into batches.
// Like the state machine it is owned by the widget's event loop.
type Surface struct {
	zone     *Node
	dragging bool
	input    fileInput

	allowDrop bool
	hintText  string
	width     int
	height    int
}

func NewSurface(zone *Node, cfg Config) *Surface {
	if zone == nil {
		zone = NewNode("drop-zone", nil)
	}
	s := &Surface{zone: zone}
	s.configure(cfg)
	return s
}

func (s *Surface) configure(cfg Config) {
	s.allowDrop = cfg.AllowDropFiles
	s.hintText = cfg.AllowDropFilesText
	s.width = cfg.Width
	s.height = cfg.Height
	if !s.allowDrop {
		s.dragging = false
	}
}

// Zone is the root of the drop region.
func (s *Surface) Zone() *Node { return s.zone }

// Dragging is the current DragState.
func (s *Surface) Dragging() bool { return s.dragging }

func (s *Surface) DragEnter(ev *DragEvent) {
	if !s.allowDrop {
		return
	}
	ev.PreventDefault()
	s.dragging = true
}

func (s *Surface) DragOver(ev *DragEvent) {
	if !s.allowDrop {
		return
	}
	ev.PreventDefault()
	ev.DropEffect = DropEffectCopy
}

// DragLeave clears DragState only once the pointer left the zone's subtree,
// so crossing child elements does not flicker.
func (s *Surface) DragLeave(ev *DragEvent) {
	if !s.allowDrop {
		return
	}
	if !s.zone.Contains(ev.RelatedTarget) {
		s.dragging = false
	}
}

// Drop returns the dropped files, or nil when drop is disabled.
func (s *Surface) Drop(ev *DragEvent) []FileHandle {
	if !s.allowDrop {
		return nil
	}
	ev.PreventDefault()
	s.dragging = false
	return ev.Files
}

// Select stores a picker selection and reports whether it fires a change,
// which it does only when it differs from the stored value.
func (s *Surface) Select(files []FileHandle) bool {
	return s.input.set(files)
}

// ResetInput empties the picker value so the same files can be picked again.
func (s *Surface) ResetInput() { s.input.set(nil) }

func (s *Surface) View() SurfaceView {
	v := SurfaceView{Width: s.width, Height: s.height}
	if s.dragging && s.allowDrop {
		v.Width += dropMargin
		v.Height += dropMargin
		v.Border = true
		v.ShowHint = true
		v.HintText = s.hintText
	}
	return v
}

// fileInput mimics the hidden file input: its value is the list of selected
// files, and assigning the same value again does not fire a change.
type fileInput struct {
	value []string
}

func (in *fileInput) set(files []FileHandle) bool {
	keys := make([]string, len(files))
	for i, f := range files {
		keys[i] = inputKey(f)
	}
	if slices.Equal(in.value, keys) {
		return false
	}
	in.value = keys
	return true
}

// inputKey identifies a selected file: its path when the handle has one,
// otherwise its name.
func inputKey(f FileHandle) string {
	if p, ok := f.(interface{ Path() string }); ok {
		return p.Path()
	}
	return f.Name()
}
