// Package cli implements the jsontree command-line interface.
//
// Every command reads one JSON or YAML document (from -i, a stdin pipe or
// an interactive paste), builds its editable tree and then:
//   - convert: applies edits and writes the document as JSON or YAML
//   - tree: prints the tree listing
//   - stats: prints a summary of the tree
//   - get: prints the value at a JSON Pointer
//
// Configuration comes from .jsontree.yml (see internal/config) with flags
// taking precedence. Logs go to stderr; --debug lowers the level.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/mcncl/jsontree/internal/config"
	"github.com/mcncl/jsontree/internal/errors"
	"github.com/mcncl/jsontree/internal/formatter"
	"github.com/mcncl/jsontree/internal/models"
)

// Version information
const (
	Version = "0.1.0"
)

// Globals are the flags shared by every command
type Globals struct {
	Input       string `help:"Path to input JSON or YAML file. If not specified, reads from stdin." short:"i" type:"path"`
	Output      string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	From        string `help:"Format of stdin input (json or yaml). Files are detected by extension." enum:"json,yaml" default:"json"`
	Format      string `help:"Output format (json or yaml). Defaults to the config value." short:"f"`
	Indent      int    `help:"Spaces per indent level, 0 for compact output. Defaults to the config value." default:"-1"`
	Color       string `help:"Color mode for tree listings (auto, always or never). Defaults to the config value."`
	Config      string `help:"Path to config file. Defaults to .jsontree.yml in the working directory or a parent." short:"c" type:"path"`
	Debug       bool   `help:"Enable debug logging." short:"d"`
	Version     bool   `help:"Show version information." short:"v"`
	Interactive bool   `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
}

// CLI defines the command-line interface
type CLI struct {
	Globals

	Convert ConvertCmd `cmd:"" default:"withargs" help:"Convert a document, applying edits on the way."`
	Tree    TreeCmd    `cmd:"" help:"Print the document tree."`
	Stats   StatsCmd   `cmd:"" help:"Summarize the document tree."`
	Get     GetCmd     `cmd:"" help:"Print the value at a JSON Pointer."`
}

// Context holds the runtime context passed to every command
type Context struct {
	*Globals

	Config *config.Config
	Logger *log.Logger

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run parses args and executes the selected command. With no arguments it
// converts input pasted interactively.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("jsontree"),
		kong.Description("Convert JSON documents to and from an editable tree"),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
	)
	if err != nil {
		return err
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		return errors.NewInputError(err.Error(), err)
	}

	if cli.Version {
		_, err := fmt.Fprintf(stdout, "jsontree version %s\n", Version)
		return err
	}

	// No arguments at all means the user wants to paste a document
	if len(args) == 0 {
		cli.Interactive = true
	}

	ctx, err := NewContext(&cli.Globals, stdin, stdout, stderr)
	if err != nil {
		return err
	}
	ctx.Logger.Debug("running command", "command", kctx.Command())
	return kctx.Run(ctx)
}

// NewContext loads configuration and builds the logger for one invocation.
func NewContext(g *Globals, stdin io.Reader, stdout, stderr io.Writer) (*Context, error) {
	configPath := g.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	overrides := config.Overrides{
		Format: g.Format,
		Color:  g.Color,
		Debug:  g.Debug,
	}
	if g.Indent >= 0 {
		indent := strings.Repeat(" ", g.Indent)
		overrides.Indent = &indent
	}

	cfg, err := config.LoadConfigWithCLI(configPath, overrides)
	if err != nil {
		return nil, errors.NewConfigError(err.Error(), err)
	}

	level := log.InfoLevel
	if cfg.Dev.Debug {
		level = log.DebugLevel
	}
	logger := newLogger(stderr, level)
	if configPath != "" {
		logger.Debug("loaded config", "path", configPath)
	}

	return &Context{
		Globals: g,
		Config:  cfg,
		Logger:  logger,
		Stdin:   stdin,
		Stdout:  stdout,
		Stderr:  stderr,
	}, nil
}

// formatValue renders v in the configured output format
func (ctx *Context) formatValue(v models.JSONValue) (string, error) {
	f := formatter.NewFormatter(ctx.Config.Output.Indent)

	var (
		text string
		err  error
	)
	if ctx.Config.Output.Format == config.FormatYAML {
		text, err = f.FormatYAML(v)
	} else {
		text, err = f.Format(v)
	}
	if err != nil {
		return "", errors.NewOutputError("failed to format document", err)
	}
	return text, nil
}

// writeOutput writes text to the output file or stdout
func (ctx *Context) writeOutput(text string) error {
	if ctx.Output != "" {
		if err := os.WriteFile(ctx.Output, []byte(text), 0o644); err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", ctx.Output), err)
		}
		ctx.Logger.Info("wrote output", "path", ctx.Output, "bytes", len(text))
		return nil
	}

	if _, err := io.WriteString(ctx.Stdout, text); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// colorTarget is the writer whose terminal status decides "auto" color
func (ctx *Context) colorTarget() io.Writer {
	if ctx.Output != "" {
		return io.Discard
	}
	return ctx.Stdout
}
