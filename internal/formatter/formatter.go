package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mcncl/jsontree/internal/models"
	"gopkg.in/yaml.v3"
)

// Formatter is responsible for writing documents back out as text
type Formatter struct {
	// Indent is the per-level indentation for JSON output. Empty means compact.
	Indent string
}

// NewFormatter creates a new Formatter instance
func NewFormatter(indent string) *Formatter {
	return &Formatter{Indent: indent}
}

// Format encodes v as JSON. Object members keep their order and HTML
// characters are not escaped. The result ends with a newline.
func (f *Formatter) Format(v models.JSONValue) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if f.Indent != "" {
		enc.SetIndent("", f.Indent)
	}
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}
	return buf.String(), nil
}

// FormatYAML encodes v as a YAML document with mapping keys in order.
func (f *Formatter) FormatYAML(v models.JSONValue) (string, error) {
	node, err := toYAML(v)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(yamlIndent(f.Indent))
	if err := enc.Encode(node); err != nil {
		return "", fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.String(), nil
}

// yamlIndent derives a YAML indentation width from the JSON indent string.
func yamlIndent(indent string) int {
	width := len(strings.ReplaceAll(indent, "\t", "    "))
	if width < 2 {
		return 2
	}
	return width
}

func toYAML(v models.JSONValue) (*yaml.Node, error) {
	switch val := v.(type) {
	case models.JSONObject:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, m := range val {
			child, err := toYAML(m.Value)
			if err != nil {
				return nil, err
			}
			key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.Key}
			node.Content = append(node.Content, key, child)
		}
		if len(val) == 0 {
			node.Style = yaml.FlowStyle
		}
		return node, nil
	case models.JSONArray:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range val {
			child, err := toYAML(e)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		if len(val) == 0 {
			node.Style = yaml.FlowStyle
		}
		return node, nil
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprint(val)}, nil
	case json.Number:
		tag := "!!int"
		if strings.ContainsAny(string(val), ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: val.String()}, nil
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: val}, nil
	default:
		return nil, fmt.Errorf("unsupported value of type %T", v)
	}
}
