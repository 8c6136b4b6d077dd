package doctree

import (
	stderrors "errors"
	"testing"

	"github.com/mcncl/jsontree/internal/errors"
	"github.com/mcncl/jsontree/internal/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pointerDoc = `{
	"foo": ["bar", "baz"],
	"": 0,
	"a/b": 1,
	"m~n": 2,
	"nested": {"list": [{"id": "x"}]}
}`

func TestFind_RFC6901Document(t *testing.T) {
	root := Serialize(parse(t, pointerDoc))

	tests := []struct {
		pointer string
		want    string
	}{
		{"/foo/0", `"bar"`},
		{"/foo/1", `"baz"`},
		{"/", ": 0"},
		{"/a~1b", "a/b: 1"},
		{"/m~0n", "m~n: 2"},
		{"/nested/list/0/id", `id: "x"`},
	}

	for _, tt := range tests {
		t.Run(tt.pointer, func(t *testing.T) {
			n, err := Find(root, tt.pointer)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.Value().String())
		})
	}

	n, err := Find(root, "")
	require.NoError(t, err)
	assert.Same(t, root, n)
}

func TestFind_Errors(t *testing.T) {
	root := Serialize(parse(t, pointerDoc))

	tests := []struct {
		pointer string
		want    error
	}{
		{"foo", errors.ErrInvalidPointer},
		{"/foo/01", errors.ErrInvalidPointer},
		{"/foo/-", errors.ErrInvalidPointer},
		{"/foo/x", errors.ErrInvalidPointer},
		{"/foo/2", errors.ErrNodeNotFound},
		{"/missing", errors.ErrNodeNotFound},
		{"/a~1b/deeper", errors.ErrNodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.pointer, func(t *testing.T) {
			_, err := Find(root, tt.pointer)
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, tt.want), "got %v", err)
			assert.True(t, stderrors.Is(err, &errors.AppError{Type: errors.ErrorTypeInput}))
		})
	}
}

func TestPointerOf_RoundTrips(t *testing.T) {
	root := Serialize(parse(t, pointerDoc))

	for n := range root.All() {
		ptr := PointerOf(n)
		found, err := Find(root, ptr)
		require.NoError(t, err, ptr)
		assert.Same(t, n, found, ptr)
	}
}

func TestPointerOf(t *testing.T) {
	root := Serialize(parse(t, pointerDoc))

	assert.Equal(t, "", PointerOf(root))
	assert.Equal(t, "/foo/1", PointerOf(root.Child(0).Child(1)))
	assert.Equal(t, "/a~1b", PointerOf(root.Child(2)))
	assert.Equal(t, "/m~0n", PointerOf(root.Child(3)))
}

func TestPointerOf_UnkeyedObjectChildUsesIndex(t *testing.T) {
	root := Serialize(parse(t, `{"a":1,"b":2}`))
	root.Child(1).Value().Key = nil
	assert.Equal(t, "/1", PointerOf(root.Child(1)))
}

func TestFind_MissingPayloadIsMalformed(t *testing.T) {
	obj := tree.New(&Payload{Kind: Object})
	obj.AddChild(tree.New[*Payload](nil))
	inner := tree.New(&Payload{Kind: Object, Key: keyRef("inner")})
	inner.AddChild(tree.New[*Payload](nil))
	obj.AddChild(inner)

	tests := []struct {
		name    string
		root    *Node
		pointer string
	}{
		{"nil root", nil, "/a"},
		{"nil root payload", tree.New[*Payload](nil), "/a"},
		{"nil child payload", obj, "/a"},
		{"nil payload below path", inner, "/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			assert.NotPanics(t, func() { _, err = Find(tt.root, tt.pointer) })
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, errors.ErrMalformedTree), "got %v", err)
		})
	}
}
