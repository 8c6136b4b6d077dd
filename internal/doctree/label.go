package doctree

import (
	"fmt"
	"strings"
)

// Label returns the text an editor shows for n. Objects that have "type"
// or "id" members are summarized by them, e.g. `face { "type": "quad"; "id": "top" }`;
// everything else uses the payload's own text. Hint values are always
// quoted. A node without a payload is labeled "<missing payload>".
func Label(n *Node) string {
	p := n.Value()
	if p == nil {
		return missingPayload
	}
	if p.Kind != Object {
		return p.String()
	}

	var hints []string
	for _, c := range n.Children() {
		cp := c.Value()
		if cp == nil || cp.Kind != KeyValuePair || cp.Key == nil {
			continue
		}
		switch *cp.Key {
		case "type", "id":
			hints = append(hints, fmt.Sprintf("%q: %q", *cp.Key, hintText(cp.Scalar)))
		}
	}
	if len(hints) == 0 {
		return p.String()
	}

	summary := "{ " + strings.Join(hints, "; ") + " }"
	if p.Key != nil {
		return *p.Key + " " + summary
	}
	return summary
}

const missingPayload = "<missing payload>"

func hintText(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return formatScalar(v)
}

// TypeHint returns the "type" member of an object node, if it has a string one.
// Children of an "elements" object are typed by their own key instead.
func TypeHint(n *Node) (string, bool) {
	p := n.Value()
	if p == nil || p.Kind != Object || n.IsRoot() {
		return "", false
	}
	if parent := n.Parent().Value(); parent != nil && parent.Key != nil && *parent.Key == "elements" && p.Key != nil {
		return *p.Key, true
	}
	for _, c := range n.Children() {
		cp := c.Value()
		if cp != nil && cp.Kind == KeyValuePair && cp.Key != nil && *cp.Key == "type" {
			if s, ok := cp.Scalar.(string); ok {
				return s, true
			}
		}
	}
	return "", false
}
