package doctree

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/mcncl/jsontree/internal/errors"
)

var (
	pointerEscaper   = strings.NewReplacer("~", "~0", "/", "~1")
	pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")
)

// PointerOf returns the RFC 6901 JSON Pointer of n relative to its root.
// Object members are addressed by key and everything else by index.
func PointerOf(n *Node) string {
	var segs []string
	for c := n; c != nil && c.Parent() != nil; c = c.Parent() {
		p, parent := c.Value(), c.Parent().Value()
		if parent != nil && parent.Kind == Object && p != nil && p.Key != nil {
			segs = append(segs, pointerEscaper.Replace(*p.Key))
		} else {
			segs = append(segs, strconv.Itoa(c.Index()))
		}
	}
	if len(segs) == 0 {
		return ""
	}
	slices.Reverse(segs)
	return "/" + strings.Join(segs, "/")
}

// Find resolves an RFC 6901 JSON Pointer against root. The empty pointer
// addresses root itself. A node without a payload on the path is a
// malformed tree.
func Find(root *Node, pointer string) (*Node, error) {
	if root == nil {
		return nil, malformed(nil, fmt.Errorf("node has no payload"))
	}
	if pointer == "" {
		return root, nil
	}
	if !strings.HasPrefix(pointer, "/") {
		return nil, errors.NewInputError(
			fmt.Sprintf("pointer %q must start with '/'", pointer),
			errors.ErrInvalidPointer,
		)
	}

	n := root
	for _, raw := range strings.Split(pointer[1:], "/") {
		seg := pointerUnescaper.Replace(raw)
		p := n.Value()
		if p == nil {
			return nil, malformed(n, fmt.Errorf("node has no payload"))
		}
		var next *Node
		switch p.Kind {
		case Object:
			for _, c := range n.Children() {
				cp := c.Value()
				if cp == nil {
					return nil, malformed(c, fmt.Errorf("node has no payload"))
				}
				if cp.Key != nil && *cp.Key == seg {
					next = c
				}
			}
		case Array:
			i, err := arrayIndex(seg)
			if err != nil {
				return nil, errors.NewInputError(
					fmt.Sprintf("pointer %q: %q is not an array index", pointer, seg),
					errors.ErrInvalidPointer,
				)
			}
			next = n.Child(i)
		}
		if next == nil {
			return nil, errors.NewInputError(
				fmt.Sprintf("pointer %q: no member %q under %q", pointer, seg, PointerOf(n)),
				errors.ErrNodeNotFound,
			)
		}
		n = next
	}
	return n, nil
}

func arrayIndex(seg string) (int, error) {
	if seg == "" || (len(seg) > 1 && seg[0] == '0') {
		return 0, fmt.Errorf("bad index %q", seg)
	}
	for _, r := range seg {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("bad index %q", seg)
		}
	}
	return strconv.Atoi(seg)
}
