package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"

	stderrors "errors"

	"github.com/mcncl/jsontree/internal/errors"
	"github.com/mcncl/jsontree/internal/models"
	"gopkg.in/yaml.v3"
)

// jsonNumberRegex matches the JSON number grammar.
var jsonNumberRegex = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// ParseYAML reads a single YAML document into a Document. Mapping order is
// kept, so a YAML file converts to the same tree as its JSON equivalent.
// Mapping keys must be scalars.
func ParseYAML(reader io.Reader) (models.Document, error) {
	decoder := yaml.NewDecoder(reader)

	var node yaml.Node
	if err := decoder.Decode(&node); err != nil {
		if stderrors.Is(err, io.EOF) {
			return models.Document{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		return models.Document{}, errors.NewParsingError(fmt.Sprintf("YAML syntax error: %v", err), errors.ErrInvalidYAML)
	}

	var extra yaml.Node
	if err := decoder.Decode(&extra); !stderrors.Is(err, io.EOF) {
		if err != nil {
			return models.Document{}, errors.NewParsingError("invalid trailing data after first YAML document", err)
		}
		return models.Document{}, errors.NewParsingError("multiple YAML documents found", errors.ErrMultipleJSON)
	}

	root, err := fromYAML(&node)
	if err != nil {
		return models.Document{}, err
	}
	return newDocument(root), nil
}

// Alias expansion may produce at most expansionRatio values per node in the
// source document, and never fewer than minExpansionBudget in total.
const (
	expansionRatio     = 100
	minExpansionBudget = 10000
)

// yamlFrame is a mapping or sequence whose content is still being read.
type yamlFrame struct {
	openContainer
	node *yaml.Node
	next int
}

// yamlWalker converts a node graph into JSON values on an explicit stack.
// Nodes on the stack are marked active so an alias back into one of them is
// reported instead of followed.
type yamlWalker struct {
	stack  []*yamlFrame
	active map[*yaml.Node]bool
	budget int
	count  int
}

func fromYAML(root *yaml.Node) (models.JSONValue, error) {
	w := &yamlWalker{
		active: make(map[*yaml.Node]bool),
		budget: max(minExpansionBudget, expansionRatio*countYAMLNodes(root)),
	}

	value, pushed, err := w.enter(root)
	if err != nil || !pushed {
		return value, err
	}

	for {
		top := w.stack[len(w.stack)-1]
		content := top.node.Content

		if top.isObject && top.next+1 < len(content) {
			k := content[top.next]
			if k.Kind == yaml.AliasNode && k.Alias != nil {
				k = k.Alias
			}
			if k.Kind != yaml.ScalarNode {
				return nil, errors.NewParsingError(
					fmt.Sprintf("line %d: mapping keys must be scalars", k.Line),
					errors.ErrInvalidYAML,
				)
			}
			top.key = k.Value
			top.haveKey = true
			child := content[top.next+1]
			top.next += 2
			if err := w.step(top, child); err != nil {
				return nil, err
			}
			continue
		}
		if !top.isObject && top.next < len(content) {
			child := content[top.next]
			top.next++
			if err := w.step(top, child); err != nil {
				return nil, err
			}
			continue
		}

		w.stack = w.stack[:len(w.stack)-1]
		delete(w.active, top.node)
		v := top.value()
		if len(w.stack) == 0 {
			return v, nil
		}
		w.stack[len(w.stack)-1].add(v)
	}
}

// step enters child and adds it to parent unless it opened a new frame.
func (w *yamlWalker) step(parent *yamlFrame, child *yaml.Node) error {
	v, pushed, err := w.enter(child)
	if err != nil {
		return err
	}
	if !pushed {
		parent.add(v)
	}
	return nil
}

// enter resolves document and alias indirections, then either returns a
// scalar value or pushes a frame for a collection.
func (w *yamlWalker) enter(n *yaml.Node) (models.JSONValue, bool, error) {
	for n.Kind == yaml.DocumentNode || n.Kind == yaml.AliasNode {
		if n.Kind == yaml.DocumentNode {
			if len(n.Content) == 0 {
				return nil, false, nil
			}
			n = n.Content[0]
			continue
		}
		if n.Alias == nil || w.active[n.Alias] {
			return nil, false, errors.NewParsingError(
				fmt.Sprintf("line %d: recursive alias *%s", n.Line, n.Value),
				errors.ErrInvalidYAML,
			)
		}
		n = n.Alias
	}

	w.count++
	if w.count > w.budget {
		return nil, false, errors.NewParsingError(
			fmt.Sprintf("line %d: alias expansion exceeds %d values", n.Line, w.budget),
			errors.ErrInvalidYAML,
		)
	}

	switch n.Kind {
	case yaml.MappingNode:
		w.push(n, &yamlFrame{
			openContainer: openContainer{
				isObject: true,
				obj:      make(models.JSONObject, 0, len(n.Content)/2),
				seen:     make(map[string]int),
			},
		})
		return nil, true, nil
	case yaml.SequenceNode:
		w.push(n, &yamlFrame{
			openContainer: openContainer{arr: make(models.JSONArray, 0, len(n.Content))},
		})
		return nil, true, nil
	case yaml.ScalarNode:
		v, err := yamlScalar(n)
		return v, false, err
	default:
		return nil, false, errors.NewParsingError(fmt.Sprintf("line %d: unsupported YAML node", n.Line), errors.ErrInvalidYAML)
	}
}

func (w *yamlWalker) push(n *yaml.Node, f *yamlFrame) {
	f.node = n
	w.active[n] = true
	w.stack = append(w.stack, f)
}

// countYAMLNodes counts the nodes written in the source, without following
// aliases.
func countYAMLNodes(root *yaml.Node) int {
	count := 0
	pending := []*yaml.Node{root}
	for len(pending) > 0 {
		n := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		count++
		pending = append(pending, n.Content...)
	}
	return count
}

func yamlScalar(n *yaml.Node) (models.JSONValue, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("line %d: bad boolean", n.Line), err)
		}
		return b, nil
	case "!!int", "!!float":
		if jsonNumberRegex.MatchString(n.Value) {
			return json.Number(n.Value), nil
		}
		if n.ShortTag() == "!!int" {
			var i int64
			if err := n.Decode(&i); err == nil {
				return json.Number(strconv.FormatInt(i, 10)), nil
			}
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("line %d: bad number %q", n.Line, n.Value), err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, errors.NewParsingError(
				fmt.Sprintf("line %d: %q has no JSON representation", n.Line, n.Value),
				errors.ErrInvalidYAML,
			)
		}
		return json.Number(strconv.FormatFloat(f, 'g', -1, 64)), nil
	default:
		// strings, timestamps, binary and custom tags keep their text
		return n.Value, nil
	}
}
