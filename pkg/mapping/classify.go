package mapping

import "strings"

// FieldKind classifies how a field's raw value is interpreted.
type FieldKind int

const (
	// KindScalar is a plain string field.
	KindScalar FieldKind = iota
	// KindList is a multi-valued field, split on the list separators.
	KindList
	// KindBool is a field coerced to true/false from common token vocabularies.
	KindBool
)

// String returns the kind name.
func (k FieldKind) String() string {
	switch k {
	case KindList:
		return "list"
	case KindBool:
		return "bool"
	default:
		return "scalar"
	}
}

// boolNameHints are substrings of normalized names that mark a field as
// boolean even without an explicit declaration.
var boolNameHints = []string{"actif", "active", "enabled", "inscrit"}

// IsListField reports whether name is declared list-valued in the config,
// compared on normalized names.
func (c *Config) IsListField(name string) bool {
	normed := NormKey(name)
	for k := range c.ListFields {
		if NormKey(k) == normed {
			return true
		}
	}
	return false
}

// IsBoolField reports whether name is boolean: declared in boolean_fields, or
// matching the naming heuristic (is*/has* prefix or an activity hint).
func (c *Config) IsBoolField(name string) bool {
	normed := NormKey(name)
	for _, b := range c.BooleanFields {
		if NormKey(b) == normed {
			return true
		}
	}
	if strings.HasPrefix(normed, "is") || strings.HasPrefix(normed, "has") {
		return true
	}
	for _, hint := range boolNameHints {
		if strings.Contains(normed, hint) {
			return true
		}
	}
	return false
}

// Classify returns the kind of a field. List declarations win over the
// boolean heuristic, so a field named "groupes_actifs" declared as a list
// stays a list.
func (c *Config) Classify(name string) FieldKind {
	if c.IsListField(name) {
		return KindList
	}
	if c.IsBoolField(name) {
		return KindBool
	}
	return KindScalar
}
