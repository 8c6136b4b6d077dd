// Package doctree converts JSON documents to editable trees and back.
//
// Every node of a document tree carries a *Payload describing one JSON
// construct: its Kind, the object key it was found under (if any) and, for
// scalars, the scalar itself. Object member order and array element order
// are the order of the node's children.
//
// Serialize and Deserialize are pure functions. Document adds the editor
// surface on top of a tree: reverse lookup from payload to node, change
// notification, and edits that keep the tree well formed.
package doctree

import (
	"encoding/json"
	"fmt"

	"github.com/mcncl/jsontree/internal/errors"
	"github.com/mcncl/jsontree/internal/models"
	"github.com/mcncl/jsontree/internal/tree"
)

// Serialize converts a JSON value into a new document tree.
// The root carries no key.
func Serialize(v models.JSONValue) *Node {
	return serialize(nil, v)
}

// SerializeNamed converts a JSON value into a new document tree whose root
// carries name as its key, as if v had been found under that object key.
func SerializeNamed(name string, v models.JSONValue) *Node {
	return serialize(keyRef(name), v)
}

type pendingNode struct {
	node  *Node
	value models.JSONValue
}

func serialize(name *string, v models.JSONValue) *Node {
	root := newNode(name, v)
	stack := []pendingNode{{node: root, value: v}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch val := top.value.(type) {
		case models.JSONObject:
			for _, m := range val {
				child := newNode(keyRef(m.Key), m.Value)
				top.node.AddChild(child)
				if child.Value().Kind.IsContainer() {
					stack = append(stack, pendingNode{node: child, value: m.Value})
				}
			}
		case models.JSONArray:
			for _, elem := range val {
				child := newNode(nil, elem)
				top.node.AddChild(child)
				if child.Value().Kind.IsContainer() {
					stack = append(stack, pendingNode{node: child, value: elem})
				}
			}
		}
	}
	return root
}

// newNode builds the childless node for v.
func newNode(name *string, v models.JSONValue) *Node {
	switch v := v.(type) {
	case models.JSONObject:
		return tree.New(&Payload{Kind: Object, Key: name})
	case models.JSONArray:
		return tree.New(&Payload{Kind: Array, Key: name})
	case nil:
		return tree.New(&Payload{Kind: Null, Key: name})
	default:
		kind := Value
		if name != nil {
			kind = KeyValuePair
		}
		// unrecognized primitives keep their kind but carry no scalar
		scalar, _ := normalizeScalar(v)
		return tree.New(&Payload{Kind: kind, Key: name, Scalar: scalar})
	}
}

// Deserialize converts the subtree rooted at n back into a JSON value.
// n need not be the root of its tree.
//
// An Object child without a key, or a node without a payload, is a
// malformed tree and yields a conversion error. A scalar of an unsupported
// type converts to JSON null.
func Deserialize(n *Node) (models.JSONValue, error) {
	if n == nil || n.Value() == nil {
		return nil, malformed(n, fmt.Errorf("node has no payload"))
	}
	if !n.Value().Kind.IsContainer() {
		return leafValue(n.Value()), nil
	}

	stack := []*buildFrame{openFrame(n)}
	for {
		f := stack[len(stack)-1]
		if f.next < f.node.Len() {
			child := f.node.Child(f.next)
			f.next++
			p := child.Value()
			if p == nil {
				return nil, malformed(child, fmt.Errorf("node has no payload"))
			}
			if f.kind == Object && p.Key == nil {
				return nil, malformed(child, errors.ErrMissingKey)
			}
			if p.Kind.IsContainer() {
				stack = append(stack, openFrame(child))
				continue
			}
			f.add(p, leafValue(p))
			continue
		}

		v := f.result()
		stack = stack[:len(stack)-1]
		if len(stack) == 0 {
			return v, nil
		}
		stack[len(stack)-1].add(f.node.Value(), v)
	}
}

// buildFrame accumulates the members of one container during Deserialize.
type buildFrame struct {
	node *Node
	kind Kind
	next int
	obj  models.JSONObject
	arr  models.JSONArray
	seen map[string]int
}

func openFrame(n *Node) *buildFrame {
	f := &buildFrame{node: n, kind: n.Value().Kind}
	if f.kind == Object {
		f.obj = make(models.JSONObject, 0, n.Len())
		f.seen = make(map[string]int, n.Len())
	} else {
		f.arr = make(models.JSONArray, 0, n.Len())
	}
	return f
}

// add stores v under the child's key. A repeated key replaces the earlier
// value in its original position.
func (f *buildFrame) add(child *Payload, v models.JSONValue) {
	if f.kind != Object {
		f.arr = append(f.arr, v)
		return
	}
	key := *child.Key
	if i, ok := f.seen[key]; ok {
		f.obj[i].Value = v
		return
	}
	f.seen[key] = len(f.obj)
	f.obj = append(f.obj, models.Member{Key: key, Value: v})
}

func (f *buildFrame) result() models.JSONValue {
	if f.kind == Object {
		return f.obj
	}
	return f.arr
}

func leafValue(p *Payload) models.JSONValue {
	switch p.Kind {
	case KeyValuePair, Value:
		return scalarValue(p.Scalar)
	case Object:
		return models.JSONObject{}
	case Array:
		return models.JSONArray{}
	case Null:
		return nil
	default:
		return nil
	}
}

func scalarValue(s any) models.JSONValue {
	switch v := s.(type) {
	case bool:
		return v
	case json.Number:
		return v
	case string:
		return v
	default:
		if n, ok := normalizeScalar(v); ok {
			return n
		}
		return nil
	}
}

func malformed(n *Node, err error) error {
	where := "<nil>"
	if n != nil {
		where = PointerOf(n)
	}
	return errors.NewConversionError(
		fmt.Sprintf("node %q", where),
		fmt.Errorf("%w: %w", errors.ErrMalformedTree, err),
	)
}
