package cli

import (
	"fmt"
	"strings"

	"github.com/mcncl/jsontree/internal/analyzer"
	"github.com/mcncl/jsontree/internal/config"
	"github.com/mcncl/jsontree/internal/doctree"
	"github.com/mcncl/jsontree/internal/errors"
	"github.com/mcncl/jsontree/internal/models"
	"github.com/mcncl/jsontree/internal/parser"
	"github.com/mcncl/jsontree/internal/render"
)

// ConvertCmd reads a document, applies edits and writes it back out.
// Edits run in flag order: --set, --enum, --delete, then key renaming.
type ConvertCmd struct {
	Set        []string `help:"Replace the value at a JSON Pointer, as PTR=JSON. Text that is not valid JSON is stored as a string." placeholder:"PTR=JSON" sep:"none"`
	Enum       []string `help:"Set the member at a JSON Pointer to one of the values allowed by the config's enum rules, as PTR=CHOICE." placeholder:"PTR=CHOICE" sep:"none"`
	Delete     []string `help:"Remove the node at a JSON Pointer." placeholder:"PTR" sep:"none"`
	RenameKeys string   `help:"Rewrite every object key (snake, camel, lower_camel or kebab). Defaults to the config's keys.case."`
}

// Run executes the convert command
func (c *ConvertCmd) Run(ctx *Context) error {
	doc, err := ctx.loadTree()
	if err != nil {
		return err
	}

	edits := 0
	doc.Subscribe(func(ch doctree.Change) {
		edits++
		ctx.Logger.Debug("edit", "op", ch.Op, "node", doctree.Label(ch.Node))
	})

	for _, arg := range c.Set {
		if err := applySet(doc, arg); err != nil {
			return err
		}
	}
	for _, arg := range c.Enum {
		if err := applyEnum(ctx.Config, doc, arg); err != nil {
			return err
		}
	}
	for _, ptr := range c.Delete {
		n, err := doc.Find(ptr)
		if err != nil {
			return err
		}
		if err := doc.Remove(n); err != nil {
			return err
		}
	}

	keyCase := c.RenameKeys
	if keyCase == "" {
		keyCase = ctx.Config.Keys.Case
	}
	rename, err := config.KeyCaseFunc(keyCase)
	if err != nil {
		return errors.NewConfigError(err.Error(), err)
	}
	if rename != nil {
		if err := doc.RenameKeys(rename); err != nil {
			return err
		}
	}

	if err := doc.Validate(); err != nil {
		return err
	}
	v, err := doc.JSON()
	if err != nil {
		return err
	}
	ctx.Logger.Debug("converted document", "nodes", doc.Len(), "edits", edits)

	text, err := ctx.formatValue(v)
	if err != nil {
		return err
	}
	return ctx.writeOutput(text)
}

// splitAssignment splits PTR=VALUE at the first '='
func splitAssignment(flag, arg string) (string, string, error) {
	ptr, value, ok := strings.Cut(arg, "=")
	if !ok {
		return "", "", errors.NewInputError(
			fmt.Sprintf("--%s expects PTR=VALUE, got %q", flag, arg),
			errors.ErrInvalidPointer,
		)
	}
	return ptr, value, nil
}

func applySet(doc *doctree.Document, arg string) error {
	ptr, raw, err := splitAssignment("set", arg)
	if err != nil {
		return err
	}
	n, err := doc.Find(ptr)
	if err != nil {
		return err
	}

	var value models.JSONValue = raw
	if parsed, err := parser.ParseString(raw); err == nil {
		value = parsed.Root
	}

	switch value.(type) {
	case models.JSONObject, models.JSONArray:
		_, err = doc.Replace(n, value)
		return err
	}
	if n.Value().Kind.IsContainer() {
		_, err = doc.Replace(n, value)
		return err
	}
	return doc.SetScalar(n, value)
}

func applyEnum(cfg *config.Config, doc *doctree.Document, arg string) error {
	ptr, choice, err := splitAssignment("enum", arg)
	if err != nil {
		return err
	}
	n, err := doc.Find(ptr)
	if err != nil {
		return err
	}

	key := n.Value().KeyName()
	rule, ok := cfg.FindEnum(key)
	if !ok {
		return errors.NewEditError(
			fmt.Sprintf("no enum rule matches key %q at %q", key, ptr),
			errors.ErrInvalidEnumValue,
		)
	}
	return doc.SetEnum(n, rule.Values, choice)
}

// TreeCmd prints the tree listing
type TreeCmd struct {
	At       string `help:"Start the listing at this JSON Pointer." placeholder:"PTR"`
	Depth    int    `help:"Hide nodes deeper than this level, 0 shows everything."`
	Pointers bool   `help:"Show the JSON Pointer of every node." short:"p"`
}

// Run executes the tree command
func (c *TreeCmd) Run(ctx *Context) error {
	doc, err := ctx.loadTree()
	if err != nil {
		return err
	}
	start, err := doc.Find(c.At)
	if err != nil {
		return err
	}

	r := render.NewRenderer(render.Options{
		Indent:       ctx.Config.Output.Indent,
		MaxDepth:     c.Depth,
		ShowPointers: c.Pointers,
		Color:        render.UseColor(ctx.Config.Output.Color, ctx.colorTarget()),
	})
	return ctx.writeOutput(r.Render(start))
}

// StatsCmd prints a summary of the tree
type StatsCmd struct {
	Strict bool `help:"Fail when a member violates an enum rule."`
}

// Run executes the stats command
func (c *StatsCmd) Run(ctx *Context) error {
	doc, err := ctx.loadTree()
	if err != nil {
		return err
	}

	stats := analyzer.NewAnalyzerWithConfig(ctx.Config).Analyze(doc.Root())
	if err := ctx.writeOutput(stats.Report()); err != nil {
		return err
	}

	if c.Strict && len(stats.EnumViolations) > 0 {
		v := stats.EnumViolations[0]
		return errors.NewEditError(
			fmt.Sprintf("%d enum violation(s), first at %q", len(stats.EnumViolations), v.Pointer),
			errors.ErrInvalidEnumValue,
		)
	}
	return nil
}

// GetCmd prints the value at a JSON Pointer
type GetCmd struct {
	Pointer string `arg:"" help:"JSON Pointer of the value to print, e.g. /items/0/name."`
}

// Run executes the get command
func (c *GetCmd) Run(ctx *Context) error {
	doc, err := ctx.loadTree()
	if err != nil {
		return err
	}
	n, err := doc.Find(c.Pointer)
	if err != nil {
		return err
	}
	ctx.Logger.Debug("found node", "pointer", c.Pointer, "label", doctree.Label(n))

	v, err := doctree.Deserialize(n)
	if err != nil {
		return err
	}
	text, err := ctx.formatValue(v)
	if err != nil {
		return err
	}
	return ctx.writeOutput(text)
}
