// Package merge combines existing document metadata with freshly built
// metadata under a field-ownership policy: user-owned keys are preserved,
// machine-owned keys are overwritten, and everything else is filled only when
// missing or empty.
package merge

import (
	"github.com/Bricesodini/orch-csv/pkg/frontmatter"
	"github.com/Bricesodini/orch-csv/pkg/mapping"
)

// DefaultPreserveKeys are user-owned by default: sync never replaces them
// once present.
var DefaultPreserveKeys = []string{"notes", "custom_tags"}

// DefaultOverwriteKeys are machine-owned: the source always wins for these.
var DefaultOverwriteKeys = []string{
	mapping.FieldLastName,
	mapping.FieldFirstName,
	mapping.FieldMobile,
	mapping.FieldLandline,
	mapping.FieldWorkEmail,
	mapping.FieldPersonalEmail,
	mapping.FieldOrganization,
	mapping.FieldGroups,
	mapping.FieldType,
	mapping.FieldID,
	mapping.FieldUpdated,
}

// Policy is the key-ownership classification for a merge.
type Policy struct {
	preserve  map[string]bool
	overwrite map[string]bool
}

// NewPolicy builds a policy from preserve and overwrite key sets. Preserve
// takes precedence: a key listed in both is treated as preserved.
func NewPolicy(preserveKeys, overwriteKeys []string) *Policy {
	p := &Policy{
		preserve:  make(map[string]bool, len(preserveKeys)),
		overwrite: make(map[string]bool, len(overwriteKeys)),
	}
	for _, k := range preserveKeys {
		p.preserve[k] = true
	}
	for _, k := range overwriteKeys {
		p.overwrite[k] = true
	}
	return p
}

// FromConfig builds the policy for a mapping configuration: the defaults
// extended by the config's preserve_keys and overwrite_keys sections.
func FromConfig(cfg *mapping.Config) *Policy {
	preserve := cfg.PreserveKeys
	if len(preserve) == 0 {
		preserve = DefaultPreserveKeys
	}
	overwrite := make([]string, 0, len(DefaultOverwriteKeys)+len(cfg.OverwriteKeys))
	overwrite = append(overwrite, DefaultOverwriteKeys...)
	overwrite = append(overwrite, cfg.OverwriteKeys...)
	return NewPolicy(preserve, overwrite)
}

// Result reports which keys each merge rule touched, for debug logging.
type Result struct {
	Overwritten []string
	Preserved   []string
	Filled      []string
}

// Merge combines existing metadata with incoming metadata. For each incoming
// key: preserved keys already present keep their existing value; overwrite
// keys, missing keys and empty existing values take the incoming value;
// everything else keeps the existing value. Keys present only in the existing
// document are always kept. Key order: existing keys first in their original
// order, then new incoming keys in incoming order.
func (p *Policy) Merge(existing, incoming *frontmatter.Fields) (*frontmatter.Fields, *Result) {
	out := existing.Clone()
	res := &Result{}

	for _, k := range incoming.Keys() {
		v, _ := incoming.Get(k)
		if p.preserve[k] && existing.Has(k) {
			res.Preserved = append(res.Preserved, k)
			continue
		}
		prev, had := existing.Get(k)
		if p.overwrite[k] || !had || frontmatter.IsEmpty(prev) {
			out.Set(k, v)
			if p.overwrite[k] && had && !frontmatter.Equal(prev, v) {
				res.Overwritten = append(res.Overwritten, k)
			} else if !had {
				res.Filled = append(res.Filled, k)
			}
		}
	}
	return out, res
}
