// Package contacts assembles canonical contacts from source records. One
// contact is rebuilt per record per run; nothing here persists between runs.
package contacts

import (
	"strings"

	"github.com/Bricesodini/orch-csv/pkg/frontmatter"
	"github.com/Bricesodini/orch-csv/pkg/mapping"
	"github.com/Bricesodini/orch-csv/pkg/normalize"
)

// Contact is an ephemeral mapping of canonical field names (plus passthrough
// extras under their original record names) to values.
type Contact struct {
	Fields *frontmatter.Fields
}

// New creates an empty contact.
func New() *Contact {
	return &Contact{Fields: frontmatter.NewFields()}
}

// Scalar returns the scalar value of a field, or "" when the field is absent
// or list-valued.
func (c *Contact) Scalar(key string) string {
	v, ok := c.Fields.Get(key)
	if !ok {
		return ""
	}
	s, ok := v.(frontmatter.Scalar)
	if !ok {
		return ""
	}
	return string(s)
}

// Set stores a value under key.
func (c *Contact) Set(key string, v frontmatter.Value) {
	c.Fields.Set(key, v)
}

// Get returns the value stored under key.
func (c *Contact) Get(key string) (frontmatter.Value, bool) {
	return c.Fields.Get(key)
}

// HasAny reports whether at least one of the given fields holds a non-empty
// value. The orchestrator uses it as the required-field gate.
func (c *Contact) HasAny(fields []string) bool {
	for _, f := range fields {
		v, ok := c.Fields.Get(f)
		if ok && !frontmatter.IsEmpty(v) {
			if s, isScalar := v.(frontmatter.Scalar); isScalar && strings.TrimSpace(string(s)) == "" {
				continue
			}
			return true
		}
	}
	return false
}

// emailPreference is the fixed order in which candidate fields are examined
// for the primary email.
var emailPreference = []string{"email", mapping.FieldWorkEmail, mapping.FieldPersonalEmail, "mail_pro", "mail_perso"}

// PrimaryEmail returns the first non-empty, validly-formatted email among the
// preference-ordered canonical email fields, lowercased. Returns "" when the
// contact has no usable email.
func (c *Contact) PrimaryEmail() string {
	for _, key := range emailPreference {
		v := strings.TrimSpace(c.Scalar(key))
		if v == "" {
			continue
		}
		candidate := strings.ToLower(v)
		if normalize.IsValidEmail(candidate) {
			return candidate
		}
	}
	return ""
}

// affiliationAliases are the field names probed, normalized, for the title's
// trailing affiliation suffix.
var affiliationAliases = []string{"Etablissement", "Établissement", "etablissement", "organisation", "Organisation"}

// Title derives the human-readable document title: uppercased surname plus
// given name, with organization or email as fallbacks, and an optional
// " - <affiliation>" suffix.
func (c *Contact) Title() string {
	lastName := strings.TrimSpace(c.Scalar(mapping.FieldLastName))
	firstName := strings.TrimSpace(c.Scalar(mapping.FieldFirstName))

	var title string
	if lastName != "" {
		title = strings.ToUpper(lastName)
		if firstName != "" {
			title += " " + firstName
		}
	} else if firstName != "" {
		title = firstName
	} else if org := c.Scalar(mapping.FieldOrganization); org != "" {
		title = org
	} else if email := c.Scalar("email"); email != "" {
		title = email
	} else {
		title = "contact"
	}

	if affiliation := c.Value(affiliationAliases); affiliation != "" {
		title += " - " + affiliation
	}
	return title
}

// Value returns the first non-empty scalar among the aliased fields, matched
// accent/case insensitively against the contact's own field names.
func (c *Contact) Value(aliases []string) string {
	if len(aliases) == 0 {
		return ""
	}
	normMap := make(map[string]string, c.Fields.Len())
	for _, k := range c.Fields.Keys() {
		normMap[mapping.NormKey(k)] = k
	}
	for _, a := range aliases {
		if orig, ok := normMap[mapping.NormKey(a)]; ok {
			if v := strings.TrimSpace(c.Scalar(orig)); v != "" {
				return v
			}
		}
	}
	return ""
}
