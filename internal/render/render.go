// Package render writes a document tree as an indented, optionally
// colored listing, one node per line.
package render

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/mcncl/jsontree/internal/config"
	"github.com/mcncl/jsontree/internal/doctree"
)

// Options controls the listing layout
type Options struct {
	// Indent is written once per depth level. Defaults to two spaces.
	Indent string
	// MaxDepth hides nodes deeper than this. Zero means unlimited.
	MaxDepth int
	// ShowPointers appends each node's JSON Pointer.
	ShowPointers bool
	// Color enables ANSI colors.
	Color bool
}

// Renderer is responsible for turning document trees into text
type Renderer struct {
	opts    Options
	palette map[doctree.Kind]*color.Color
	faint   *color.Color
}

// NewRenderer creates a new Renderer instance
func NewRenderer(opts Options) *Renderer {
	if opts.Indent == "" {
		opts.Indent = "  "
	}
	r := &Renderer{
		opts: opts,
		palette: map[doctree.Kind]*color.Color{
			doctree.Object:       color.New(color.FgCyan, color.Bold),
			doctree.Array:        color.New(color.FgMagenta, color.Bold),
			doctree.KeyValuePair: color.New(color.FgGreen),
			doctree.Value:        color.New(color.FgGreen),
			doctree.Null:         color.New(color.FgYellow),
		},
		faint: color.New(color.Faint),
	}
	for _, c := range r.palette {
		r.setColor(c)
	}
	r.setColor(r.faint)
	return r
}

func (r *Renderer) setColor(c *color.Color) {
	if r.opts.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
}

// UseColor resolves a color mode from the config against the writer.
// "auto" enables color only when w is a terminal.
func UseColor(mode string, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type renderItem struct {
	node  *doctree.Node
	depth int
}

// Render returns the listing of the subtree rooted at root
func (r *Renderer) Render(root *doctree.Node) string {
	var buf bytes.Buffer
	r.write(&buf, root)
	return buf.String()
}

// Write writes the listing of the subtree rooted at root to w
func (r *Renderer) Write(w io.Writer, root *doctree.Node) error {
	var buf bytes.Buffer
	r.write(&buf, root)
	_, err := buf.WriteTo(w)
	return err
}

func (r *Renderer) write(buf *bytes.Buffer, root *doctree.Node) {
	if root == nil {
		return
	}

	stack := []renderItem{{node: root}}
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := item.node

		buf.WriteString(strings.Repeat(r.opts.Indent, item.depth))
		buf.WriteString(r.label(n))
		if r.opts.ShowPointers {
			ptr := doctree.PointerOf(n)
			if ptr == "" {
				ptr = "/"
			}
			buf.WriteString(r.faint.Sprint("  " + ptr))
		}
		buf.WriteByte('\n')

		if n.Len() == 0 {
			continue
		}
		if r.opts.MaxDepth > 0 && item.depth >= r.opts.MaxDepth {
			buf.WriteString(strings.Repeat(r.opts.Indent, item.depth+1))
			buf.WriteString(r.faint.Sprintf("… %d more", n.Len()))
			buf.WriteByte('\n')
			continue
		}

		children := n.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, renderItem{node: children[i], depth: item.depth + 1})
		}
	}
}

func (r *Renderer) label(n *doctree.Node) string {
	p := n.Value()
	if p == nil {
		return r.faint.Sprint("<missing payload>")
	}
	text := doctree.Label(n)
	if c, ok := r.palette[p.Kind]; ok {
		return c.Sprint(text)
	}
	return text
}
