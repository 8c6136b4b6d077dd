package doctree

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/mcncl/jsontree/internal/tree"
)

// Kind classifies a document node.
type Kind int

const (
	// Object is a JSON object; its children are keyed members.
	Object Kind = iota
	// Array is a JSON array; its children are unkeyed elements.
	Array
	// KeyValuePair is a scalar stored under an object key.
	KeyValuePair
	// Value is a scalar without a key: an array element or a scalar root.
	Value
	// Null is JSON null, keyed or not.
	Null
)

func (k Kind) String() string {
	switch k {
	case Object:
		return "object"
	case Array:
		return "array"
	case KeyValuePair:
		return "key-value pair"
	case Value:
		return "value"
	case Null:
		return "null"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// IsContainer reports whether nodes of this kind hold children.
func (k Kind) IsContainer() bool {
	return k == Object || k == Array
}

// HoldsScalar reports whether nodes of this kind may carry a scalar.
func (k Kind) HoldsScalar() bool {
	return k == KeyValuePair || k == Value
}

// Payload is the value carried by every node of a document tree.
//
// Scalar is one of bool, json.Number or string, and is only set for
// KeyValuePair and Value nodes. A nil Scalar on those kinds stands for a
// primitive that could not be represented and converts back to JSON null.
type Payload struct {
	Kind   Kind
	Key    *string
	Scalar any
}

// Node is a document tree node.
type Node = tree.Tree[*Payload]

// KeyName returns the key, or "" when the payload has none.
func (p *Payload) KeyName() string {
	if p.Key == nil {
		return ""
	}
	return *p.Key
}

// HasKey reports whether the payload carries a key.
func (p *Payload) HasKey() bool {
	return p.Key != nil
}

// Clone returns a copy with its own identity.
func (p *Payload) Clone() *Payload {
	c := *p
	if p.Key != nil {
		k := *p.Key
		c.Key = &k
	}
	return &c
}

func (p *Payload) String() string {
	prefix := ""
	if p.Key != nil {
		prefix = *p.Key
	}
	switch p.Kind {
	case Object:
		return joinLabel(prefix, "{}")
	case Array:
		return joinLabel(prefix, "[]")
	case KeyValuePair, Value:
		if p.Key == nil {
			return formatScalar(p.Scalar)
		}
		return prefix + ": " + formatScalar(p.Scalar)
	default:
		if p.Key == nil {
			return "null"
		}
		return prefix + ": null"
	}
}

func joinLabel(key, marker string) string {
	if key == "" {
		return marker
	}
	return key + " " + marker
}

func formatScalar(v any) string {
	switch s := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(s)
	case json.Number:
		return s.String()
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprint(s)
	}
}

func keyRef(name string) *string {
	return &name
}

// normalizeScalar maps v onto the scalar shapes a payload may hold.
// Native Go numbers become json.Number. ok is false for anything else,
// including non-finite floats.
func normalizeScalar(v any) (scalar any, ok bool) {
	switch n := v.(type) {
	case bool, string, json.Number:
		return n, true
	case int:
		return json.Number(strconv.FormatInt(int64(n), 10)), true
	case int8:
		return json.Number(strconv.FormatInt(int64(n), 10)), true
	case int16:
		return json.Number(strconv.FormatInt(int64(n), 10)), true
	case int32:
		return json.Number(strconv.FormatInt(int64(n), 10)), true
	case int64:
		return json.Number(strconv.FormatInt(n, 10)), true
	case uint:
		return json.Number(strconv.FormatUint(uint64(n), 10)), true
	case uint8:
		return json.Number(strconv.FormatUint(uint64(n), 10)), true
	case uint16:
		return json.Number(strconv.FormatUint(uint64(n), 10)), true
	case uint32:
		return json.Number(strconv.FormatUint(uint64(n), 10)), true
	case uint64:
		return json.Number(strconv.FormatUint(n, 10)), true
	case float32:
		return formatFloat(float64(n), 32)
	case float64:
		return formatFloat(n, 64)
	default:
		return nil, false
	}
}

func formatFloat(f float64, bits int) (any, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return json.Number(strconv.FormatFloat(f, 'g', -1, bits)), true
}
