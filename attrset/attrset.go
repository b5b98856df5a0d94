// Package attrset implements the set-valued attribute algebra used by every
// graph, homomorphism and rule in this module.
//
// An attribute value is never a bare scalar: it is a finite set of scalars
// (bools, ints, strings). A missing key and a key mapped to the empty set
// are distinguishable states — AttrMap captures that by simply omitting
// the key in the first case.
//
// Every graph primitive that writes attributes routes through Normalize
// before applying set algebra, so callers may pass a scalar, a slice of
// scalars, or an existing AttrVal interchangeably.
package attrset

import "sort"

// Kind tags which concrete scalar a Scalar holds.
type Kind uint8

const (
	KindBool Kind = iota
	KindInt
	KindString
)

// String implements fmt.Stringer for Kind, mostly for error messages.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Scalar is a single attribute value: a bool, an int64 or a string.
// Scalar is comparable, so AttrVal can use it directly as a map key.
type Scalar struct {
	kind Kind
	b    bool
	i    int64
	s    string
}

// Bool builds a boolean Scalar.
func Bool(v bool) Scalar { return Scalar{kind: KindBool, b: v} }

// Int builds an integer Scalar.
func Int(v int64) Scalar { return Scalar{kind: KindInt, i: v} }

// String builds a string Scalar.
func String(v string) Scalar { return Scalar{kind: KindString, s: v} }

// Kind reports which variant s holds.
func (s Scalar) Kind() Kind { return s.kind }

// Bool returns the boolean value and whether s holds a bool.
func (s Scalar) Bool() (bool, bool) { return s.b, s.kind == KindBool }

// Int returns the integer value and whether s holds an int.
func (s Scalar) Int() (int64, bool) { return s.i, s.kind == KindInt }

// Str returns the string value and whether s holds a string.
func (s Scalar) Str() (string, bool) { return s.s, s.kind == KindString }

// Raw returns s as a plain Go value (bool, int64 or string) for callers
// that don't need the Kind tag, e.g. JSON encoding.
func (s Scalar) Raw() interface{} {
	switch s.kind {
	case KindBool:
		return s.b
	case KindInt:
		return s.i
	case KindString:
		return s.s
	default:
		return nil
	}
}

// AttrVal is a finite set of Scalars: the value of a single attribute key.
type AttrVal map[Scalar]struct{}

// NewAttrVal builds an AttrVal from the given scalars, deduplicating.
func NewAttrVal(scalars ...Scalar) AttrVal {
	v := make(AttrVal, len(scalars))
	for _, s := range scalars {
		v[s] = struct{}{}
	}
	return v
}

// Normalize lifts a caller-supplied value into an AttrVal:
//   - an AttrVal is returned as-is (copied defensively);
//   - a Scalar becomes a singleton set;
//   - a []Scalar becomes the set of its elements;
//   - a bool/int/int64/string is wrapped into the matching Scalar first;
//   - nil becomes the empty set.
//
// Any other input type is rejected with ErrUnsupportedScalar.
func Normalize(v interface{}) (AttrVal, error) {
	switch t := v.(type) {
	case AttrVal:
		return t.Clone(), nil
	case Scalar:
		return NewAttrVal(t), nil
	case []Scalar:
		return NewAttrVal(t...), nil
	case bool:
		return NewAttrVal(Bool(t)), nil
	case int:
		return NewAttrVal(Int(int64(t))), nil
	case int64:
		return NewAttrVal(Int(t)), nil
	case string:
		return NewAttrVal(String(t)), nil
	case nil:
		return AttrVal{}, nil
	default:
		return nil, ErrUnsupportedScalar
	}
}

// Clone returns a shallow copy of v (Scalars are values, so this is a deep
// copy in effect).
func (v AttrVal) Clone() AttrVal {
	out := make(AttrVal, len(v))
	for s := range v {
		out[s] = struct{}{}
	}
	return out
}

// Union returns a ∪ b.
func Union(a, b AttrVal) AttrVal {
	out := make(AttrVal, len(a)+len(b))
	for s := range a {
		out[s] = struct{}{}
	}
	for s := range b {
		out[s] = struct{}{}
	}
	return out
}

// Intersect returns a ∩ b.
func Intersect(a, b AttrVal) AttrVal {
	out := make(AttrVal)
	small, big := a, b
	if len(b) < len(a) {
		small, big = b, a
	}
	for s := range small {
		if _, ok := big[s]; ok {
			out[s] = struct{}{}
		}
	}
	return out
}

// Difference returns a \ b.
func Difference(a, b AttrVal) AttrVal {
	out := make(AttrVal, len(a))
	for s := range a {
		if _, ok := b[s]; !ok {
			out[s] = struct{}{}
		}
	}
	return out
}

// Subset reports whether a ⊆ b.
func Subset(a, b AttrVal) bool {
	for s := range a {
		if _, ok := b[s]; !ok {
			return false
		}
	}
	return true
}

// Equal reports whether a and b contain exactly the same scalars.
func Equal(a, b AttrVal) bool {
	if len(a) != len(b) {
		return false
	}
	return Subset(a, b)
}

// AttrMap is a key → AttrVal dictionary, the attribute map carried by every
// node and edge. A missing key means "no attribute"; a key mapped to the
// empty AttrVal means "attribute present, empty set".
type AttrMap map[string]AttrVal

// Clone deep-copies m.
func (m AttrMap) Clone() AttrMap {
	out := make(AttrMap, len(m))
	for k, v := range m {
		out[k] = v.Clone()
	}
	return out
}

// Subset reports whether every key of m has a value that is a subset of
// the corresponding key's value in other (per §3: Attrs_A(u) ⊆ Attrs_B(h(u))
// pointwise per key). Keys absent from m impose no constraint; a key present
// in m with a non-empty value but absent from other fails the check, while
// one mapped to the empty set passes.
func (m AttrMap) Subset(other AttrMap) bool {
	for k, v := range m {
		ov, ok := other[k]
		if !ok {
			if len(v) == 0 {
				continue
			}
			return false
		}
		if !Subset(v, ov) {
			return false
		}
	}
	return true
}

// MergeUnion returns the key-wise union of m and other, used by clone/merge
// primitives (§4.B) where a node's attributes must carry forward the union
// of its sources.
func MergeUnion(m, other AttrMap) AttrMap {
	out := m.Clone()
	for k, v := range other {
		if existing, ok := out[k]; ok {
			out[k] = Union(existing, v)
		} else {
			out[k] = v.Clone()
		}
	}
	return out
}

// Keys returns the sorted list of attribute keys in m, useful for
// deterministic iteration in tests and JSON output.
func (m AttrMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
