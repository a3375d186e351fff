package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Acquisition
	interactiveMode bool
	watchDir        string
	settleDelay     time.Duration

	// Picker candidates
	showHidden      bool
	noIgnore        bool
	maxDepth        int
	excludePatterns string

	// Output
	outputFile      string
	copyToClipboard bool
	envelope        bool

	mimeTableFile string
	verbose       bool
	cfgFile       string
)

// version is the application version, set via ldflags.
var version string = "dev"

var rootCmd = &cobra.Command{
	Use:   "filesimport [PATHS...]",
	Short: "filesimport reads files picked or dropped by the user and emits them as one JSON payload.",
	Long: `filesimport is a file-import control for the terminal. Files are acquired
from the command line, an interactive picker (--interactive) or a drop folder
(--watch), encoded as data URIs and emitted as a JSON array of
{name, size, contentBytes} to stdout, a file or the clipboard.`,
	Version:       version,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	log := newLogger(os.Stderr, verbose)

	cfg, err := configFromViper(viper.GetViper())
	if err != nil {
		return err
	}
	mimes, err := loadMimeTable(mimeTableFile, log)
	if err != nil {
		return err
	}

	if err := checkWatch(cfg, watchDir); err != nil {
		return err
	}

	var picker Picker
	switch {
	case len(args) > 0:
		picker = &argsPicker{paths: args, mimes: mimes, log: log}
	case interactiveMode:
		picker = &fuzzyPicker{
			root:  ".",
			walk:  walkOptions{ShowHidden: showHidden, NoIgnore: noIgnore, MaxDepth: maxDepth, Excludes: parsePatterns(excludePatterns)},
			mimes: mimes,
			log:   log,
		}
	case watchDir == "":
		return errors.New("nothing to import: pass paths, --interactive or --watch")
	}

	renderer := newStatusRenderer(os.Stderr)
	emit := newEmitter(sinkOptions{File: outputFile, Clipboard: copyToClipboard, Envelope: envelope}, cmd.OutOrStdout(), log)
	w, err := NewWidget(cfg, picker, emit,
		WithLogger(log),
		WithStateObserver(func(_, _ LoadingState) { renderer.poke() }),
	)
	if err != nil {
		return err
	}
	if renderer != nil {
		go renderer.run(w)
		renderer.poke()
	}
	defer func() {
		w.Dispose()
		renderer.stop()
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if picker != nil {
		res, err := w.Click(ctx)
		if err != nil {
			return err
		}
		r := <-res
		if r.Err != nil {
			return r.Err
		}
		if !r.Emitted {
			log.Info(ctx, "no files selected")
		}
	}

	if watchDir != "" {
		folder := &dropFolder{
			dir:    watchDir,
			settle: settleDelay,
			target: w,
			zone:   NewNode(filepath.Clean(watchDir), nil),
			mimes:  mimes,
			log:    log,
		}
		return folder.Run(ctx)
	}
	return nil
}

// checkWatch rejects a drop folder the configuration would ignore, before
// any file is read.
func checkWatch(cfg Config, dir string) error {
	if dir != "" && !cfg.AllowDropFiles {
		return fmt.Errorf("%w: --watch needs allow_drop_files", ErrInvalidConfig)
	}
	return nil
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/filesimport/config.toml)")

	// Acquisition
	flags.BoolVar(&interactiveMode, "interactive", false, "Open the interactive file picker")
	flags.StringVarP(&watchDir, "watch", "w", "", "Treat files landing in this folder as drops")
	flags.DurationVar(&settleDelay, "settle", 500*time.Millisecond, "Quiet period that ends a drop into the watched folder")

	// Picker candidates
	flags.BoolVarP(&showHidden, "hidden", "H", false, "Offer hidden files in the picker")
	flags.BoolVar(&noIgnore, "no-ignore", false, "Don't respect .gitignore in the picker")
	flags.IntVar(&maxDepth, "max-depth", 20, "Maximum directory depth offered by the picker (0 for no limit)")
	flags.StringVarP(&excludePatterns, "exclude", "e", "", "Patterns hidden from the picker (comma-separated)")

	// Output
	flags.StringVarP(&outputFile, "file", "f", "", "Save filesJSON to the specified file")
	flags.BoolVarP(&copyToClipboard, "clipboard", "c", false, "Copy filesJSON to the clipboard")
	flags.BoolVar(&envelope, "envelope", false, `Emit {"filesJSON": ...} instead of the bare array`)

	flags.StringVar(&mimeTableFile, "mimetypes", "", "Path to a mimetypes.yml overriding extension types")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	// Control properties
	flags.String("text", "", "Button text")
	flags.String("button-icon", "", "Button icon name")
	flags.String("icon-style", "", "Icon style: 0 regular, 1 filled")
	flags.Bool("visible", true, "Show the button")
	flags.String("display-mode", "", "Display mode: 0 edit, 1 view, 2 disabled")
	flags.Int("width", 0, "Button width in px")
	flags.Int("height", 0, "Button height in px")
	flags.String("appearance", "", "Appearance: 0 primary, 1 secondary, 2 outline, 3 subtle, 4 transparent")
	flags.String("align", "", "Label alignment: 0 left, 1 center, 2 right, 3 justify")
	flags.String("font-weight", "", "Font weight: 0 bold, 1 lighter, 2 normal, 3 semibold")
	flags.String("icon-position", "", "Icon position: 0 before, 1 after")
	flags.String("shape", "", "Shape: 0 rounded, 1 circular, 2 square")
	flags.String("button-size", "", "Size: 0 small, 1 medium, 2 large")
	flags.Bool("disabled-focusable", false, "Keep the disabled button focusable")
	flags.Bool("show-secondary-content", false, "Show the secondary content line")
	flags.String("secondary-content", "", "Secondary content text")
	flags.Bool("show-action-spinner", true, "Show a spinner while files load")
	flags.BoolP("multiple", "m", false, "Allow selecting multiple files")
	flags.StringP("accept", "a", "", `Allowed file types, e.g. ".pdf,image/*" (default "*")`)
	flags.Bool("allow-drop", false, "Accept dropped files")
	flags.String("drop-text", "", `Hint shown while dragging (default "Drop files here...")`)
	flags.IntP("threads", "t", 0, "Concurrent file reads per batch (0 for auto)")

	for key, flag := range map[string]string{
		"text":                   "text",
		"button_icon":            "button-icon",
		"icon_style":             "icon-style",
		"visible":                "visible",
		"display_mode":           "display-mode",
		"width":                  "width",
		"height":                 "height",
		"appearance":             "appearance",
		"align":                  "align",
		"font_weight":            "font-weight",
		"icon_position":          "icon-position",
		"shape":                  "shape",
		"button_size":            "button-size",
		"disabled_focusable":     "disabled-focusable",
		"show_secondary_content": "show-secondary-content",
		"secondary_content":      "secondary-content",
		"show_action_spinner":    "show-action-spinner",
		"allow_multiple_files":   "multiple",
		"allowed_file_types":     "accept",
		"allow_drop_files":       "allow-drop",
		"allow_drop_files_text":  "drop-text",
		"threads":                "threads",
	} {
		viper.BindPFlag(key, flags.Lookup(flag))
	}

	setConfigDefaults(viper.GetViper())
}

// initConfig reads in config file, .env and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(filepath.Join(home, ".config", "filesimport"))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
	}

	// .env only fills variables that are not already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: could not read .env: %v\n", err)
	}

	viper.SetEnvPrefix("FILESIMPORT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv() // FILESIMPORT_ALLOW_DROP_FILES etc.

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Error reading config file: %s\n", err)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
