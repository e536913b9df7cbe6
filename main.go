package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"
	"github.com/mcncl/jsontidy/internal/config"
	"github.com/mcncl/jsontidy/internal/errors"
	"github.com/mcncl/jsontidy/internal/formatter"
	"github.com/mcncl/jsontidy/internal/models"
	"github.com/mcncl/jsontidy/internal/parser"
)

// CLI defines the command-line interface
var CLI struct {
	Input       string `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
	Output      string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	Strict      bool   `help:"Require commas between entries and reject trailing commas." short:"s"`
	Indent      int    `help:"Number of spaces per indent level." default:"2"`
	SortKeys    bool   `help:"Sort object keys in the output." default:"true" negatable:""`
	Config      string `help:"Path to config file. If not specified, searches for .jsontidy.yml." short:"c" type:"path"`
	Watch       bool   `help:"Watch the input file and re-render on change." short:"w"`
	Debug       bool   `help:"Enable debug logging." short:"d"`
	Version     bool   `help:"Show version information." short:"v"`
	Interactive bool   `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config *config.Config
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	// Parse CLI arguments with Kong
	parser := kong.Must(&CLI,
		kong.Name("jsontidy"),
		kong.Description("A tool to parse JSON and pretty-print it"),
		kong.UsageOnError(),
	)

	// Check if no arguments provided and set interactive mode by default
	if len(os.Args) == 1 {
		CLI.Interactive = true
	}

	// Parse the command line arguments
	_, err := parser.Parse(os.Args[1:])
	if err != nil {
		// If there's an error parsing arguments, the usage will already be shown by kong.UsageOnError()
		os.Exit(1)
	}

	// Show version and exit if requested
	if CLI.Version {
		fmt.Printf("jsontidy version %s\n", Version)
		return
	}

	// Load configuration, with CLI flags taking precedence
	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}
	cfg, err := config.LoadConfigWithCLI(configPath, CLI.Strict, CLI.Indent, CLI.SortKeys)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(errors.NewConfigError("failed to load configuration", err)))
		os.Exit(1)
	}

	ctx := &Context{Debug: CLI.Debug || cfg.Dev.Debug, Config: cfg}

	if CLI.Watch {
		err = watch(ctx)
	} else {
		err = run(ctx)
	}
	if err != nil {
		// Use our custom error handling to provide user-friendly error messages
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))

		// Show help on error
		fmt.Fprintf(os.Stderr, "\nFor help, run: jsontidy --help\n")

		os.Exit(1)
	}
}

// run executes the main program logic
func run(ctx *Context) error {
	// 1. Parse JSON input
	doc, err := parseInput(parseMode(ctx.Config))
	if err != nil {
		// Error is already wrapped by parseInput
		return err
	}

	// 2. Pretty-print the document tree
	formatterInst := formatter.NewFormatterWithOptions(ctx.Config.Rendering.Indent, ctx.Config.Rendering.SortKeys)
	text := formatterInst.Format(doc)

	// 3. Output the result
	return writeOutput(text)
}

// watch re-runs the parse/render pipeline whenever the input file changes.
// Parse failures are reported and watching continues.
func watch(ctx *Context) error {
	if CLI.Input == "" {
		return errors.NewInputError("watch mode requires an input file", errors.ErrNoInput)
	}

	// Initial render before waiting for changes
	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.NewWatchError("failed to create fsnotify watcher", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the containing directory rather than the file itself so atomic
	// saves (write to temp file, rename over the original) keep delivering
	// events after the original inode is gone.
	dir := filepath.Dir(CLI.Input)
	if err := watcher.Add(dir); err != nil {
		return errors.NewWatchError(fmt.Sprintf("failed to watch directory '%s'", dir), err)
	}

	target, err := filepath.Abs(CLI.Input)
	if err != nil {
		return errors.NewWatchError("failed to resolve input path", err)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || name != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if ctx.Debug {
				fmt.Fprintf(os.Stderr, "change detected: %s\n", event.Op)
			}
			if err := run(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
			}
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(errors.NewWatchError("watcher reported an error", watchErr)))
		}
	}
}

// parseMode maps the configuration onto the parser's separator handling
func parseMode(cfg *config.Config) parser.Mode {
	if cfg.Parsing.Strict {
		return parser.ModeStrict
	}
	return parser.ModeLenient
}

// parseInput reads JSON from file or stdin
func parseInput(mode parser.Mode) (models.Document, error) {
	if CLI.Input != "" {
		// Parse from file
		return parser.ParseFile(CLI.Input, mode)
	}

	// Check if stdin has data
	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return models.Document{}, errors.NewInputError("failed to access stdin", err)
	}

	// Interactive mode or piped input
	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		// Terminal is interactive (not piped)
		if CLI.Interactive {
			// Interactive mode
			return readInteractiveInput(mode)
		}
		// No data provided on stdin and not in interactive mode
		return models.Document{}, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	// Read from stdin (piped input)
	jsonData, err := io.ReadAll(os.Stdin)
	if err != nil {
		return models.Document{}, errors.NewInputError("failed to read from stdin", err)
	}

	if len(jsonData) == 0 {
		return models.Document{}, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}

	return parser.ParseStringMode(string(jsonData), mode)
}

// writeOutput writes rendered text to file or stdout
func writeOutput(text string) error {
	if CLI.Output != "" {
		// Write to file
		err := os.WriteFile(CLI.Output, []byte(text), 0644)
		if err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		fmt.Fprintf(os.Stderr, "Tidied JSON written to %s\n", CLI.Output)
		return nil
	}

	// Write to stdout
	_, err := fmt.Print(text)
	if err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// readInteractiveInput provides an interactive mode for users to paste JSON
// and signal completion with Ctrl+D (EOF)
func readInteractiveInput(mode parser.Mode) (models.Document, error) {
	fmt.Fprintln(os.Stderr, "jsontidy Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	// Read all input until EOF (Ctrl+D)
	reader := bufio.NewReader(os.Stdin)
	var jsonBuilder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			// End of input; keep any final unterminated line
			jsonBuilder.WriteString(line)
			break
		}
		if err != nil {
			return models.Document{}, errors.NewInputError("error reading input", err)
		}
		jsonBuilder.WriteString(line)
	}

	jsonData := jsonBuilder.String()
	if len(jsonData) == 0 {
		return models.Document{}, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(os.Stderr, "\nProcessing JSON...")
	return parser.ParseStringMode(jsonData, mode)
}
