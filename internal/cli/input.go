package cli

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/mcncl/jsontree/internal/doctree"
	"github.com/mcncl/jsontree/internal/errors"
	"github.com/mcncl/jsontree/internal/models"
	"github.com/mcncl/jsontree/internal/parser"
)

// readDocument reads the input document from file or stdin
func (ctx *Context) readDocument() (models.Document, error) {
	if ctx.Input != "" {
		ctx.Logger.Debug("reading file", "path", ctx.Input, "format", parser.DetectFormat(ctx.Input))
		return parser.ParseFile(ctx.Input)
	}

	format := parser.Format(ctx.From)

	if f, ok := ctx.Stdin.(*os.File); ok {
		stdinInfo, err := f.Stat()
		if err != nil {
			return models.Document{}, errors.NewInputError("failed to access stdin", err)
		}

		if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
			// Terminal is interactive (not piped)
			if ctx.Interactive {
				return ctx.readInteractiveInput(format)
			}
			return models.Document{}, errors.NewInputError("no input provided", errors.ErrNoInput)
		}
	}

	data, err := io.ReadAll(ctx.Stdin)
	if err != nil {
		return models.Document{}, errors.NewInputError("failed to read from stdin", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return models.Document{}, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}

	ctx.Logger.Debug("read stdin", "bytes", len(data), "format", format)
	return parser.ParseAs(bytes.NewReader(data), format)
}

// readInteractiveInput lets users paste a document and signal completion
// with Ctrl+D (EOF)
func (ctx *Context) readInteractiveInput(format parser.Format) (models.Document, error) {
	fmt.Fprintln(ctx.Stderr, "jsontree interactive mode")
	fmt.Fprintln(ctx.Stderr, "Paste your document below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(ctx.Stdin)
	var buf bytes.Buffer
	for {
		line, err := reader.ReadString('\n')
		buf.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.Document{}, errors.NewInputError("error reading input", err)
		}
	}

	if len(bytes.TrimSpace(buf.Bytes())) == 0 {
		return models.Document{}, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(ctx.Stderr, "\nProcessing...")
	return parser.ParseAs(&buf, format)
}

// loadTree reads the input and converts it into an editable document
func (ctx *Context) loadTree() (*doctree.Document, error) {
	input, err := ctx.readDocument()
	if err != nil {
		return nil, err
	}
	doc := doctree.Load(input.Root)
	ctx.Logger.Debug("built document tree", "nodes", doc.Len(), "root", doctree.Label(doc.Root()))
	return doc, nil
}
