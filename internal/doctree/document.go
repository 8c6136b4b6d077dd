package doctree

import (
	"fmt"
	"slices"

	"github.com/mcncl/jsontree/internal/errors"
	"github.com/mcncl/jsontree/internal/models"
)

// ChangeOp identifies the kind of edit reported to listeners.
type ChangeOp int

const (
	// ChangeScalar: the node's scalar (and possibly its kind) changed.
	ChangeScalar ChangeOp = iota
	// ChangeKey: the node was renamed.
	ChangeKey
	// ChangeInsert: the node was added under Parent.
	ChangeInsert
	// ChangeRemove: the node was removed from Parent.
	ChangeRemove
	// ChangeReplace: Previous was replaced by Node.
	ChangeReplace
	// ChangeTouch: the payload was mutated directly by the caller.
	ChangeTouch
)

func (op ChangeOp) String() string {
	switch op {
	case ChangeScalar:
		return "scalar"
	case ChangeKey:
		return "key"
	case ChangeInsert:
		return "insert"
	case ChangeRemove:
		return "remove"
	case ChangeReplace:
		return "replace"
	case ChangeTouch:
		return "touch"
	default:
		return fmt.Sprintf("ChangeOp(%d)", int(op))
	}
}

// Change describes one edit.
type Change struct {
	Op       ChangeOp
	Node     *Node
	Parent   *Node // set for insert, remove and replace of non-root nodes
	Previous *Node // set for replace
}

// Listener is called after every edit.
type Listener func(Change)

type subscription struct {
	id int
	fn Listener
}

// Document is an editing session over one document tree.
//
// It keeps an index from payload to node, so every payload must belong to
// exactly one node. Edits made through Document keep the index and the
// tree invariants intact and notify listeners. Callers that mutate a
// payload directly must call Touch afterwards.
//
// A Document is meant to have a single owner and is not safe for
// concurrent use.
type Document struct {
	root      *Node
	index     map[*Payload]*Node
	listeners []subscription
	nextID    int
}

// Load converts v into a new document.
func Load(v models.JSONValue) *Document {
	d := &Document{root: Serialize(v)}
	d.reindex()
	return d
}

// NewDocument starts a session over an existing tree. It fails when a
// payload is missing or shared by two nodes.
func NewDocument(root *Node) (*Document, error) {
	if root == nil {
		return nil, malformed(nil, fmt.Errorf("nil root"))
	}
	d := &Document{index: make(map[*Payload]*Node)}
	for n := range root.All() {
		p := n.Value()
		if p == nil {
			return nil, malformed(n, fmt.Errorf("node has no payload"))
		}
		if _, dup := d.index[p]; dup {
			return nil, malformed(n, errors.ErrSharedPayload)
		}
		d.index[p] = n
	}
	d.root = root
	return d, nil
}

func (d *Document) reindex() {
	d.index = make(map[*Payload]*Node)
	d.indexSubtree(d.root)
}

func (d *Document) indexSubtree(n *Node) {
	for c := range n.All() {
		d.index[c.Value()] = c
	}
}

func (d *Document) unindexSubtree(n *Node) {
	for c := range n.All() {
		delete(d.index, c.Value())
	}
}

// Root returns the root node.
func (d *Document) Root() *Node {
	return d.root
}

// Len returns the number of nodes in the document.
func (d *Document) Len() int {
	return len(d.index)
}

// NodeOf returns the node that owns payload p.
func (d *Document) NodeOf(p *Payload) (*Node, bool) {
	n, ok := d.index[p]
	return n, ok
}

// Find resolves a JSON Pointer against the document root.
func (d *Document) Find(pointer string) (*Node, error) {
	return Find(d.root, pointer)
}

// JSON converts the whole document back into a JSON value.
func (d *Document) JSON() (models.JSONValue, error) {
	return Deserialize(d.root)
}

// Subscribe registers fn to be called after every edit. The returned
// function removes the registration.
func (d *Document) Subscribe(fn Listener) (cancel func()) {
	id := d.nextID
	d.nextID++
	d.listeners = append(d.listeners, subscription{id: id, fn: fn})
	return func() {
		d.listeners = slices.DeleteFunc(d.listeners, func(s subscription) bool {
			return s.id == id
		})
	}
}

func (d *Document) notify(c Change) {
	for _, s := range slices.Clone(d.listeners) {
		s.fn(c)
	}
}

func (d *Document) owns(n *Node) error {
	if n == nil || n.Value() == nil || d.index[n.Value()] != n {
		return errors.NewEditError("node is not part of this document", errors.ErrForeignNode)
	}
	return nil
}

// Touch reports a direct mutation of n's payload to listeners.
func (d *Document) Touch(n *Node) error {
	if err := d.owns(n); err != nil {
		return err
	}
	d.notify(Change{Op: ChangeTouch, Node: n})
	return nil
}

// SetScalar stores v on a scalar or null node. v may be nil (the node
// becomes Null), a bool, a string, a json.Number or a Go number.
func (d *Document) SetScalar(n *Node, v any) error {
	if err := d.owns(n); err != nil {
		return err
	}
	p := n.Value()
	if p.Kind.IsContainer() {
		return errors.NewEditError(
			fmt.Sprintf("cannot store a scalar on %s %q", p.Kind, PointerOf(n)),
			errors.ErrNotScalar,
		)
	}

	if v == nil {
		p.Kind = Null
		p.Scalar = nil
	} else {
		scalar, ok := normalizeScalar(v)
		if !ok {
			return errors.NewEditError(
				fmt.Sprintf("cannot store %T at %q", v, PointerOf(n)),
				errors.ErrUnsupportedScalar,
			)
		}
		p.Kind = Value
		if p.Key != nil {
			p.Kind = KeyValuePair
		}
		p.Scalar = scalar
	}
	d.notify(Change{Op: ChangeScalar, Node: n})
	return nil
}

// SetEnum stores choice on n after checking it is one of options.
func (d *Document) SetEnum(n *Node, options []string, choice string) error {
	if !slices.Contains(options, choice) {
		return errors.NewEditError(
			fmt.Sprintf("%q is not one of %q", choice, options),
			errors.ErrInvalidEnumValue,
		)
	}
	return d.SetScalar(n, choice)
}

// Rename changes the key of an object member. The new key must not be used
// by a sibling.
func (d *Document) Rename(n *Node, key string) error {
	if err := d.owns(n); err != nil {
		return err
	}
	parent := n.Parent()
	if parent == nil || parent.Value() == nil || parent.Value().Kind != Object {
		return errors.NewEditError(
			fmt.Sprintf("%q is not an object member", PointerOf(n)),
			errors.ErrUnexpectedKey,
		)
	}
	for _, sib := range parent.Children() {
		if sib != n && sib.Value() != nil && sib.Value().Key != nil && *sib.Value().Key == key {
			return errors.NewEditError(
				fmt.Sprintf("key %q already exists in %q", key, PointerOf(parent)),
				errors.ErrDuplicateKey,
			)
		}
	}
	n.Value().Key = keyRef(key)
	d.notify(Change{Op: ChangeKey, Node: n})
	return nil
}

// RenameKeys applies fn to every object key in the document. Nothing is
// changed when the new keys would collide within an object.
func (d *Document) RenameKeys(fn func(string) string) error {
	type rename struct {
		node *Node
		key  string
	}
	var renames []rename

	for n := range d.root.All() {
		if n.Value() == nil {
			return malformed(n, fmt.Errorf("node has no payload"))
		}
		if n.Value().Kind != Object {
			continue
		}
		used := make(map[string]bool, n.Len())
		for _, c := range n.Children() {
			if c.Value() == nil {
				return malformed(c, fmt.Errorf("node has no payload"))
			}
			if c.Value().Key == nil {
				return malformed(c, errors.ErrMissingKey)
			}
			old := *c.Value().Key
			key := fn(old)
			if used[key] {
				return errors.NewEditError(
					fmt.Sprintf("renaming %q to %q collides in %q", old, key, PointerOf(n)),
					errors.ErrDuplicateKey,
				)
			}
			used[key] = true
			if key != old {
				renames = append(renames, rename{node: c, key: key})
			}
		}
	}

	for _, r := range renames {
		r.node.Value().Key = keyRef(r.key)
		d.notify(Change{Op: ChangeKey, Node: r.node})
	}
	return nil
}

// Append converts v and adds it as the last child of parent.
func (d *Document) Append(parent *Node, key *string, v models.JSONValue) (*Node, error) {
	if parent == nil {
		return nil, d.owns(parent)
	}
	return d.Insert(parent, parent.Len(), key, v)
}

// Insert converts v and adds it as the i-th child of parent. Object members
// need a key that no sibling uses; array elements must not have one.
func (d *Document) Insert(parent *Node, i int, key *string, v models.JSONValue) (*Node, error) {
	if err := d.owns(parent); err != nil {
		return nil, err
	}
	switch parent.Value().Kind {
	case Object:
		if key == nil {
			return nil, errors.NewEditError(
				fmt.Sprintf("members of %q need a key", PointerOf(parent)),
				errors.ErrMissingKey,
			)
		}
		for _, sib := range parent.Children() {
			if sib.Value() != nil && sib.Value().Key != nil && *sib.Value().Key == *key {
				return nil, errors.NewEditError(
					fmt.Sprintf("key %q already exists in %q", *key, PointerOf(parent)),
					errors.ErrDuplicateKey,
				)
			}
		}
		key = keyRef(*key)
	case Array:
		if key != nil {
			return nil, errors.NewEditError(
				fmt.Sprintf("elements of %q cannot have a key", PointerOf(parent)),
				errors.ErrUnexpectedKey,
			)
		}
	default:
		return nil, errors.NewEditError(
			fmt.Sprintf("cannot add children to %s %q", parent.Value().Kind, PointerOf(parent)),
			errors.ErrNotContainer,
		)
	}

	child := serialize(key, v)
	parent.InsertChild(i, child)
	d.indexSubtree(child)
	d.notify(Change{Op: ChangeInsert, Node: child, Parent: parent})
	return child, nil
}

// Remove detaches n and its subtree from the document.
func (d *Document) Remove(n *Node) error {
	if err := d.owns(n); err != nil {
		return err
	}
	parent := n.Parent()
	if parent == nil {
		return errors.NewEditError("cannot remove the document root", errors.ErrRootRemoval)
	}
	d.unindexSubtree(n)
	n.Detach()
	d.notify(Change{Op: ChangeRemove, Node: n, Parent: parent})
	return nil
}

// Replace converts v and puts it in place of n, keeping n's key and
// position. It returns the new node.
func (d *Document) Replace(n *Node, v models.JSONValue) (*Node, error) {
	if err := d.owns(n); err != nil {
		return nil, err
	}
	var key *string
	if n.Value().Key != nil {
		key = keyRef(*n.Value().Key)
	}
	next := serialize(key, v)

	parent := n.Parent()
	d.unindexSubtree(n)
	if parent == nil {
		d.root = next
	} else {
		i := n.Index()
		n.Detach()
		parent.InsertChild(i, next)
	}
	d.indexSubtree(next)
	d.notify(Change{Op: ChangeReplace, Node: next, Parent: parent, Previous: n})
	return next, nil
}
