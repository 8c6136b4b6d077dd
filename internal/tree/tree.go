// Package tree provides a generic ordered n-ary tree with parent links.
//
// Each node owns its value and its ordered children. The parent link is a
// plain back pointer used for upward navigation only; detaching a subtree
// clears it.
//
// A node may be attached to at most one parent. AddChild and InsertChild
// move a node that already has a parent: it is removed from the old parent
// before being attached to the new one. Attaching a node beneath itself or
// beneath one of its descendants panics.
//
// Trees are not safe for concurrent mutation.
package tree

import (
	"iter"
	"slices"
)

// Tree is a node in an ordered tree carrying a value of type T.
type Tree[T any] struct {
	value    T
	parent   *Tree[T]
	children []*Tree[T]
}

// New returns a root node holding value.
func New[T any](value T) *Tree[T] {
	return &Tree[T]{value: value}
}

// Value returns the value held by the node.
func (t *Tree[T]) Value() T {
	return t.value
}

// SetValue replaces the value held by the node.
func (t *Tree[T]) SetValue(value T) {
	t.value = value
}

// Parent returns the parent node, or nil for a root.
func (t *Tree[T]) Parent() *Tree[T] {
	return t.parent
}

// IsRoot reports whether the node has no parent.
func (t *Tree[T]) IsRoot() bool {
	return t.parent == nil
}

// Children returns the children in order. The returned slice is a copy;
// use AddChild, InsertChild and RemoveChild to change the tree.
func (t *Tree[T]) Children() []*Tree[T] {
	return slices.Clone(t.children)
}

// Len returns the number of children.
func (t *Tree[T]) Len() int {
	return len(t.children)
}

// Child returns the i-th child, or nil when i is out of range.
func (t *Tree[T]) Child(i int) *Tree[T] {
	if i < 0 || i >= len(t.children) {
		return nil
	}
	return t.children[i]
}

// AddChild appends child to the children of t.
func (t *Tree[T]) AddChild(child *Tree[T]) {
	t.InsertChild(len(t.children), child)
}

// InsertChild inserts child at position i. i is clamped to [0, Len()].
func (t *Tree[T]) InsertChild(i int, child *Tree[T]) {
	if child == nil {
		panic("tree: nil child")
	}
	if child == t {
		panic("tree: adding a node beneath itself")
	}
	// only a node with children can be an ancestor of t
	if len(child.children) > 0 {
		for n := t.parent; n != nil; n = n.parent {
			if n == child {
				panic("tree: adding a node beneath itself")
			}
		}
	}
	if child.parent != nil {
		old := child.parent
		j := old.indexOf(child)
		old.children = slices.Delete(old.children, j, j+1)
		if old == t && j < i {
			i--
		}
	}
	i = max(0, min(i, len(t.children)))
	t.children = slices.Insert(t.children, i, child)
	child.parent = t
}

// RemoveChild detaches child from t. It reports whether child was a child of t.
func (t *Tree[T]) RemoveChild(child *Tree[T]) bool {
	if child == nil || child.parent != t {
		return false
	}
	child.Detach()
	return true
}

// Detach removes t from its parent, making it a root.
func (t *Tree[T]) Detach() {
	if t.parent == nil {
		return
	}
	p := t.parent
	i := p.indexOf(t)
	p.children = slices.Delete(p.children, i, i+1)
	t.parent = nil
}

// Index returns the position of t among its siblings, or -1 for a root.
func (t *Tree[T]) Index() int {
	if t.parent == nil {
		return -1
	}
	return t.parent.indexOf(t)
}

func (t *Tree[T]) indexOf(child *Tree[T]) int {
	return slices.Index(t.children, child)
}

// NextSibling returns the sibling after t, or nil.
func (t *Tree[T]) NextSibling() *Tree[T] {
	if t.parent == nil {
		return nil
	}
	return t.parent.Child(t.Index() + 1)
}

// PrevSibling returns the sibling before t, or nil.
func (t *Tree[T]) PrevSibling() *Tree[T] {
	if t.parent == nil {
		return nil
	}
	return t.parent.Child(t.Index() - 1)
}

// Root returns the root of the tree containing t.
func (t *Tree[T]) Root() *Tree[T] {
	n := t
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// Depth returns the number of edges between t and its root.
func (t *Tree[T]) Depth() int {
	d := 0
	for n := t.parent; n != nil; n = n.parent {
		d++
	}
	return d
}

// Walk visits t and its descendants in pre-order. Returning false from fn
// skips the children of the visited node. Walk uses an explicit stack, so
// deep trees do not grow the goroutine stack.
func (t *Tree[T]) Walk(fn func(*Tree[T]) bool) {
	stack := []*Tree[T]{t}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(n) {
			continue
		}
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
}

// All iterates over t and its descendants in pre-order.
func (t *Tree[T]) All() iter.Seq[*Tree[T]] {
	return func(yield func(*Tree[T]) bool) {
		stack := []*Tree[T]{t}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(n) {
				return
			}
			for i := len(n.children) - 1; i >= 0; i-- {
				stack = append(stack, n.children[i])
			}
		}
	}
}
