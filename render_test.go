package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatView(t *testing.T) {
	v := WidgetView{
		Button: ButtonView{Visible: true, Text: "File upload", Icon: "AttachRegular", IconPosition: "before"},
	}
	assert.Equal(t, "[AttachRegular] File upload", formatView(v))

	v.Button.IconPosition = "after"
	v.Button.Icon = "Spinner"
	v.Button.Disabled = true
	assert.Equal(t, "File upload [Spinner] (disabled)", formatView(v))

	v.Button.SecondaryContent = "PDF only"
	v.Surface = SurfaceView{ShowHint: true, HintText: "Drop files here..."}
	assert.Equal(t, "File upload - PDF only [Spinner] (disabled)  Drop files here...", formatView(v))

	v.Button.Visible = false
	assert.Empty(t, formatView(v))
}

func TestStatusRenderer_NilIsSafe(t *testing.T) {
	var r *statusRenderer
	r.poke()
	r.stop()
}
