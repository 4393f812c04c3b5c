// Package frontmatter implements the metadata block embedded at the head of a
// vault document. It is deliberately not a general YAML implementation: only
// the documented subset is supported (flat key/value pairs, one level of string
// lists), with quoting rules that keep leading zeros and phone numbers intact
// across a decode/encode round trip.
package frontmatter

import "slices"

// Value is a sealed interface over the two shapes a metadata value may take.
// Only Scalar and List implement it; no nesting beyond one level of list.
type Value interface {
	value() // Sealed - only these types implement it
}

// Scalar is a single string value.
type Scalar string

func (Scalar) value() {}

// List is an ordered sequence of string values.
type List []string

func (List) value() {}

// IsEmpty reports whether a value is absent, an empty string, or an empty list.
func IsEmpty(v Value) bool {
	switch t := v.(type) {
	case nil:
		return true
	case Scalar:
		return string(t) == ""
	case List:
		return len(t) == 0
	}
	return false
}

// Equal compares two values for equality.
func Equal(a, b Value) bool {
	switch ta := a.(type) {
	case Scalar:
		tb, ok := b.(Scalar)
		return ok && ta == tb
	case List:
		tb, ok := b.(List)
		return ok && slices.Equal(ta, tb)
	case nil:
		return b == nil
	}
	return false
}

// Fields is an ordered mapping of metadata keys to values. Insertion order is
// preserved and significant for serialization.
type Fields struct {
	keys []string
	m    map[string]Value
}

// NewFields creates an empty Fields mapping.
func NewFields() *Fields {
	return &Fields{m: make(map[string]Value)}
}

// Set stores a value under key, appending the key to the ordering if new.
func (f *Fields) Set(key string, v Value) {
	if _, ok := f.m[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.m[key] = v
}

// Get returns the value stored under key.
func (f *Fields) Get(key string) (Value, bool) {
	v, ok := f.m[key]
	return v, ok
}

// Has reports whether key is present.
func (f *Fields) Has(key string) bool {
	_, ok := f.m[key]
	return ok
}

// Keys returns the keys in insertion order.
func (f *Fields) Keys() []string {
	return slices.Clone(f.keys)
}

// Len returns the number of keys.
func (f *Fields) Len() int {
	return len(f.keys)
}

// Clone returns a deep copy preserving key order.
func (f *Fields) Clone() *Fields {
	out := NewFields()
	for _, k := range f.keys {
		v := f.m[k]
		if l, ok := v.(List); ok {
			v = List(slices.Clone(l))
		}
		out.Set(k, v)
	}
	return out
}

// Equal compares two field mappings, including key order.
func (f *Fields) Equal(other *Fields) bool {
	if f.Len() != other.Len() {
		return false
	}
	for i, k := range f.keys {
		if other.keys[i] != k {
			return false
		}
		if !Equal(f.m[k], other.m[k]) {
			return false
		}
	}
	return true
}
