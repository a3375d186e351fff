package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Enumerated options arrive as stringified small integers ("0", "1", ...).
// They are parsed once when the configuration is loaded; an unknown value is
// a host defect and fails the load instead of falling back to a default.

type DisplayMode int

const (
	DisplayEdit DisplayMode = iota
	DisplayView
	DisplayDisabled
)

var displayModeNames = []string{"edit", "view", "disabled"}

func (m DisplayMode) String() string { return enumName(displayModeNames, int(m)) }

type IconStyle int

const (
	IconRegular IconStyle = iota
	IconFilled
)

var iconStyleNames = []string{"regular", "filled"}

func (s IconStyle) String() string { return enumName(iconStyleNames, int(s)) }

type Appearance int

const (
	AppearancePrimary Appearance = iota
	AppearanceSecondary
	AppearanceOutline
	AppearanceSubtle
	AppearanceTransparent
)

var appearanceNames = []string{"primary", "secondary", "outline", "subtle", "transparent"}

func (a Appearance) String() string { return enumName(appearanceNames, int(a)) }

type Shape int

const (
	ShapeRounded Shape = iota
	ShapeCircular
	ShapeSquare
)

var shapeNames = []string{"rounded", "circular", "square"}

func (s Shape) String() string { return enumName(shapeNames, int(s)) }

type IconPosition int

const (
	IconBefore IconPosition = iota
	IconAfter
)

var iconPositionNames = []string{"before", "after"}

func (p IconPosition) String() string { return enumName(iconPositionNames, int(p)) }

type ButtonSize int

const (
	SizeSmall ButtonSize = iota
	SizeMedium
	SizeLarge
)

var buttonSizeNames = []string{"small", "medium", "large"}

func (s ButtonSize) String() string { return enumName(buttonSizeNames, int(s)) }

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
	AlignJustify
)

var alignNames = []string{"left", "center", "right", "justify"}

func (a Align) String() string { return enumName(alignNames, int(a)) }

// CSS returns the justify-content value for the button label.
func (a Align) CSS() string {
	switch a {
	case AlignLeft:
		return "flex-start"
	case AlignRight:
		return "flex-end"
	case AlignJustify:
		return "stretch"
	default:
		return "center"
	}
}

type FontWeight int

const (
	FontBold FontWeight = iota
	FontLighter
	FontNormal
	FontSemibold
)

var fontWeightNames = []string{"bold", "lighter", "normal", "semibold"}

func (w FontWeight) String() string { return enumName(fontWeightNames, int(w)) }

// CSS returns the font-weight value.
func (w FontWeight) CSS() string { return w.String() }

func enumName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return "unknown(" + strconv.Itoa(i) + ")"
	}
	return names[i]
}

// parseEnum parses raw as an index into names.
func parseEnum[T ~int](key, raw string, names []string) (T, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 || n >= len(names) {
		return 0, fmt.Errorf("%w: %s must be one of 0..%d, got %q", ErrInvalidConfig, key, len(names)-1, raw)
	}
	return T(n), nil
}

// Config is the widget configuration, consumed but not owned by the widget.
type Config struct {
	Text                 string
	Icon                 string
	IconStyle            IconStyle
	Visible              bool
	DisplayMode          DisplayMode
	Width                int
	Height               int
	Appearance           Appearance
	Align                Align
	FontWeight           FontWeight
	IconPosition         IconPosition
	Shape                Shape
	Size                 ButtonSize
	DisabledFocusable    bool
	ShowSecondaryContent bool
	SecondaryContent     string
	ShowActionSpinner    bool

	AllowMultipleFiles bool
	AllowedFileTypes   string
	AllowDropFiles     bool
	AllowDropFilesText string

	// Threads caps concurrent encoders per batch, 0 for one per CPU.
	Threads int
}

// DefaultConfig mirrors the defaults the control applies to empty fields.
func DefaultConfig() Config {
	return Config{
		Text:               "File upload",
		Icon:               "Attach",
		IconStyle:          IconRegular,
		Visible:            true,
		DisplayMode:        DisplayEdit,
		Width:              192,
		Height:             32,
		Appearance:         AppearancePrimary,
		Align:              AlignCenter,
		FontWeight:         FontNormal,
		IconPosition:       IconBefore,
		Shape:              ShapeRounded,
		Size:               SizeMedium,
		ShowActionSpinner:  true,
		AllowedFileTypes:   "*",
		AllowDropFilesText: "Drop files here...",
	}
}

// Validate checks the fields that cannot be expressed by their types.
func (c Config) Validate() error {
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("%w: width and height must be non-negative, got %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.Threads < 0 {
		return fmt.Errorf("%w: threads must be non-negative, got %d", ErrInvalidConfig, c.Threads)
	}
	enums := []struct {
		key   string
		value int
		names []string
	}{
		{"icon_style", int(c.IconStyle), iconStyleNames},
		{"display_mode", int(c.DisplayMode), displayModeNames},
		{"appearance", int(c.Appearance), appearanceNames},
		{"align", int(c.Align), alignNames},
		{"font_weight", int(c.FontWeight), fontWeightNames},
		{"icon_position", int(c.IconPosition), iconPositionNames},
		{"shape", int(c.Shape), shapeNames},
		{"button_size", int(c.Size), buttonSizeNames},
	}
	for _, e := range enums {
		if e.value < 0 || e.value >= len(e.names) {
			return fmt.Errorf("%w: %s must be one of 0..%d, got %d", ErrInvalidConfig, e.key, len(e.names)-1, e.value)
		}
	}
	return nil
}

// setConfigDefaults registers DefaultConfig with v, enum values in their
// stringified form.
func setConfigDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("text", d.Text)
	v.SetDefault("button_icon", d.Icon)
	v.SetDefault("icon_style", strconv.Itoa(int(d.IconStyle)))
	v.SetDefault("visible", d.Visible)
	v.SetDefault("display_mode", strconv.Itoa(int(d.DisplayMode)))
	v.SetDefault("width", d.Width)
	v.SetDefault("height", d.Height)
	v.SetDefault("appearance", strconv.Itoa(int(d.Appearance)))
	v.SetDefault("align", strconv.Itoa(int(d.Align)))
	v.SetDefault("font_weight", strconv.Itoa(int(d.FontWeight)))
	v.SetDefault("icon_position", strconv.Itoa(int(d.IconPosition)))
	v.SetDefault("shape", strconv.Itoa(int(d.Shape)))
	v.SetDefault("button_size", strconv.Itoa(int(d.Size)))
	v.SetDefault("disabled_focusable", d.DisabledFocusable)
	v.SetDefault("show_secondary_content", d.ShowSecondaryContent)
	v.SetDefault("secondary_content", d.SecondaryContent)
	v.SetDefault("show_action_spinner", d.ShowActionSpinner)
	v.SetDefault("allow_multiple_files", d.AllowMultipleFiles)
	v.SetDefault("allowed_file_types", d.AllowedFileTypes)
	v.SetDefault("allow_drop_files", d.AllowDropFiles)
	v.SetDefault("allow_drop_files_text", d.AllowDropFilesText)
	v.SetDefault("threads", d.Threads)
}

// configFromViper reads and validates the configuration. Empty strings fall
// back to the defaults the way the control treats unset properties.
func configFromViper(v *viper.Viper) (Config, error) {
	d := DefaultConfig()
	cfg := Config{
		Text:                 orDefault(v.GetString("text"), d.Text),
		Icon:                 orDefault(v.GetString("button_icon"), d.Icon),
		Visible:              v.GetBool("visible"),
		Width:                v.GetInt("width"),
		Height:               v.GetInt("height"),
		DisabledFocusable:    v.GetBool("disabled_focusable"),
		ShowSecondaryContent: v.GetBool("show_secondary_content"),
		SecondaryContent:     v.GetString("secondary_content"),
		ShowActionSpinner:    v.GetBool("show_action_spinner"),
		AllowMultipleFiles:   v.GetBool("allow_multiple_files"),
		AllowedFileTypes:     orDefault(v.GetString("allowed_file_types"), d.AllowedFileTypes),
		AllowDropFiles:       v.GetBool("allow_drop_files"),
		AllowDropFilesText:   orDefault(v.GetString("allow_drop_files_text"), d.AllowDropFilesText),
		Threads:              v.GetInt("threads"),
	}

	var err error
	if cfg.IconStyle, err = parseEnum[IconStyle]("icon_style", v.GetString("icon_style"), iconStyleNames); err != nil {
		return Config{}, err
	}
	if cfg.DisplayMode, err = parseEnum[DisplayMode]("display_mode", v.GetString("display_mode"), displayModeNames); err != nil {
		return Config{}, err
	}
	if cfg.Appearance, err = parseEnum[Appearance]("appearance", v.GetString("appearance"), appearanceNames); err != nil {
		return Config{}, err
	}
	if cfg.Align, err = parseEnum[Align]("align", v.GetString("align"), alignNames); err != nil {
		return Config{}, err
	}
	if cfg.FontWeight, err = parseEnum[FontWeight]("font_weight", v.GetString("font_weight"), fontWeightNames); err != nil {
		return Config{}, err
	}
	if cfg.IconPosition, err = parseEnum[IconPosition]("icon_position", v.GetString("icon_position"), iconPositionNames); err != nil {
		return Config{}, err
	}
	if cfg.Shape, err = parseEnum[Shape]("shape", v.GetString("shape"), shapeNames); err != nil {
		return Config{}, err
	}
	if cfg.Size, err = parseEnum[ButtonSize]("button_size", v.GetString("button_size"), buttonSizeNames); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
