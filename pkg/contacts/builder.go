package contacts

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/Bricesodini/orch-csv/pkg/frontmatter"
	"github.com/Bricesodini/orch-csv/pkg/mapping"
	"github.com/Bricesodini/orch-csv/pkg/normalize"
)

// listSeparators are the value separators recognised when splitting a scalar
// into a list field.
var listSeparators = []string{";", ",", "|", "•", "·"}

var (
	trueTokens  = map[string]bool{"true": true, "vrai": true, "yes": true, "oui": true, "1": true}
	falseTokens = map[string]bool{"false": true, "faux": true, "no": true, "non": true, "0": true}
)

// Build assembles a canonical contact from one source record. Canonical
// fields are resolved through the alias configuration (project overrides
// first), list fields are parsed or split, the type field defaults to
// "contact", and unmapped record fields are copied through per the extras
// policy.
func Build(r *mapping.Record, cfg *mapping.Config, project string) *Contact {
	c := New()

	for _, field := range mapping.CanonicalFields {
		val := mapping.FirstPresent(r, cfg.Candidates(field, project))
		if cfg.IsListField(field) {
			c.Set(field, toList(val))
			continue
		}
		if field == mapping.FieldType && val == "" {
			val = "contact"
		}
		c.Set(field, frontmatter.Scalar(val))
	}

	switch {
	case cfg.Extras.All:
		buildExtrasAll(c, r, cfg, project)
	case len(cfg.Extras.Fields) > 0:
		buildExtrasList(c, r, cfg)
	}

	return c
}

// buildExtrasAll copies every unmapped record field under its original name.
// Fields consumed by canonical aliases and fields whose normalized name
// collides with an existing contact field are skipped.
func buildExtrasAll(c *Contact, r *mapping.Record, cfg *mapping.Config, project string) {
	used := make(map[string]bool)
	for _, field := range mapping.CanonicalFields {
		for _, candidate := range cfg.Candidates(field, project) {
			used[candidate] = true
		}
	}

	existingNorm := make(map[string]bool, c.Fields.Len())
	for _, k := range c.Fields.Keys() {
		existingNorm[mapping.NormKey(k)] = true
	}

	for _, name := range r.Names() {
		if used[name] {
			continue
		}
		if existingNorm[mapping.NormKey(name)] {
			continue
		}
		v, _ := r.Get(name)
		c.Set(name, extraValue(name, v, cfg))
	}
}

// buildExtrasList copies only the explicitly named record fields, subject to
// the same collision rule.
func buildExtrasList(c *Contact, r *mapping.Record, cfg *mapping.Config) {
	existingNorm := make(map[string]bool, c.Fields.Len())
	for _, k := range c.Fields.Keys() {
		existingNorm[mapping.NormKey(k)] = true
	}

	for _, name := range cfg.Extras.Fields {
		v, ok := r.Get(name)
		if !ok {
			continue
		}
		if existingNorm[mapping.NormKey(name)] {
			continue
		}
		c.Set(name, extraValue(name, v, cfg))
	}
}

// extraValue interprets one passthrough value: embedded list literal, then
// declared list field, then boolean coercion, else the raw scalar.
func extraValue(name, v string, cfg *mapping.Config) frontmatter.Value {
	if items, ok := parseListLiteral(v); ok {
		return frontmatter.List(items)
	}
	switch cfg.Classify(name) {
	case mapping.KindList:
		return frontmatter.List(splitList(v))
	case mapping.KindBool:
		return frontmatter.Scalar(coerceBool(v))
	default:
		return frontmatter.Scalar(v)
	}
}

// toList interprets a resolved value for a declared list field.
func toList(val string) frontmatter.List {
	if items, ok := parseListLiteral(val); ok {
		return frontmatter.List(items)
	}
	return frontmatter.List(splitList(val))
}

// parseListLiteral parses an embedded flow-list literal like `["A", "B"]`.
// Returns ok=false when the value is not a bracketed literal or fails to
// parse; the caller falls back to separator splitting.
func parseListLiteral(val string) ([]string, bool) {
	s := strings.TrimSpace(val)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, false
	}
	var raw []any
	if err := yaml.Unmarshal([]byte(s), &raw); err != nil {
		return nil, false
	}
	items := make([]string, 0, len(raw))
	for _, item := range raw {
		if t := strings.TrimSpace(fmt.Sprint(item)); t != "" {
			items = append(items, t)
		}
	}
	return items, true
}

// splitList splits a scalar on the fixed separator set, trimming items and
// dropping empties.
func splitList(val string) []string {
	if strings.TrimSpace(val) == "" {
		return []string{}
	}
	s := val
	for _, sep := range listSeparators {
		s = strings.ReplaceAll(s, sep, ",")
	}
	parts := strings.Split(s, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			items = append(items, t)
		}
	}
	return items
}

// coerceBool maps common true/false token vocabularies to literal booleans.
// Unrecognized tokens pass through unchanged.
func coerceBool(v string) string {
	s := strings.ToLower(strings.TrimSpace(v))
	if trueTokens[s] {
		return "true"
	}
	if falseTokens[s] {
		return "false"
	}
	return v
}

// frontmatterOrder fixes the leading key order of generated metadata.
var frontmatterOrder = []string{
	mapping.FieldLastName,
	mapping.FieldFirstName,
	mapping.FieldMobile,
	mapping.FieldLandline,
	mapping.FieldWorkEmail,
	mapping.FieldPersonalEmail,
	mapping.FieldOrganization,
	mapping.FieldID,
	mapping.FieldGroups,
	mapping.FieldType,
}

// Frontmatter assembles the metadata block for a contact: canonical fields in
// fixed order, the update timestamp, optional phone normalization, then the
// remaining contact fields. Empty leftover email/telephone placeholders are
// dropped.
func Frontmatter(c *Contact, cfg *mapping.Config, now time.Time) *frontmatter.Fields {
	fm := frontmatter.NewFields()
	for _, key := range frontmatterOrder {
		v, ok := c.Get(key)
		if !ok {
			v = frontmatter.Scalar("")
		}
		fm.Set(key, v)
	}
	fm.Set(mapping.FieldUpdated, frontmatter.Scalar(now.UTC().Format(time.RFC3339)))

	if cfg.Transforms.NormalizePhoneFR {
		for _, key := range []string{mapping.FieldMobile, mapping.FieldLandline} {
			if v, ok := fm.Get(key); ok && !frontmatter.IsEmpty(v) {
				if s, isScalar := v.(frontmatter.Scalar); isScalar {
					fm.Set(key, frontmatter.Scalar(normalize.PhoneFR(string(s))))
				}
			}
		}
	}

	for _, key := range c.Fields.Keys() {
		if fm.Has(key) {
			continue
		}
		v, _ := c.Get(key)
		if (key == "email" || key == "telephone") && frontmatter.IsEmpty(v) {
			continue
		}
		fm.Set(key, v)
	}
	return fm
}
