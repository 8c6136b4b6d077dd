package doctree

import (
	"encoding/json"
	"fmt"

	"github.com/mcncl/jsontree/internal/errors"
)

// Validate checks the tree invariants of the document:
// every node has its own payload, object members have unique keys, array
// elements have none, and scalars sit only on KeyValuePair and Value nodes.
// The first violation found in pre-order is returned.
func (d *Document) Validate() error {
	return Validate(d.root)
}

// Validate checks the document tree invariants of the subtree rooted at root.
func Validate(root *Node) error {
	seen := make(map[*Payload]bool)
	var err error
	root.Walk(func(n *Node) bool {
		if err != nil {
			return false
		}
		err = checkNode(n, seen)
		return err == nil
	})
	return err
}

func checkNode(n *Node, seen map[*Payload]bool) error {
	p := n.Value()
	if p == nil {
		return malformed(n, fmt.Errorf("node has no payload"))
	}
	if seen[p] {
		return malformed(n, errors.ErrSharedPayload)
	}
	seen[p] = true

	if p.Scalar != nil {
		if !p.Kind.HoldsScalar() {
			return malformed(n, errors.ErrMisplacedValue)
		}
		switch p.Scalar.(type) {
		case bool, string, json.Number:
		default:
			return malformed(n, fmt.Errorf("%w: %T", errors.ErrUnsupportedScalar, p.Scalar))
		}
	}
	if n.Len() > 0 && !p.Kind.IsContainer() {
		return malformed(n, fmt.Errorf("%s node has children", p.Kind))
	}

	switch p.Kind {
	case Object:
		keys := make(map[string]bool, n.Len())
		for _, c := range n.Children() {
			cp := c.Value()
			if cp == nil {
				continue // reported when c is visited
			}
			if cp.Key == nil {
				return malformed(c, errors.ErrMissingKey)
			}
			if keys[*cp.Key] {
				return malformed(c, fmt.Errorf("%w: %q", errors.ErrDuplicateKey, *cp.Key))
			}
			keys[*cp.Key] = true
		}
	case Array:
		for _, c := range n.Children() {
			if cp := c.Value(); cp != nil && cp.Key != nil {
				return malformed(c, errors.ErrUnexpectedKey)
			}
		}
	}
	return nil
}
