// Package mapping holds the field-mapping configuration and the alias
// resolution used to map arbitrary source column names onto canonical contact
// fields. Matching is accent, case, punctuation and trailing-plural
// insensitive, so "Étab. Scolaires" finds a column named "etab scolaire".
package mapping

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/Bricesodini/orch-csv/pkg/errors"
)

// Canonical contact fields, resolved from source columns via aliases.
const (
	FieldID            = "id_mslist"
	FieldLastName      = "Nom"
	FieldFirstName     = "Prénom"
	FieldMobile        = "Tel_Mobile"
	FieldLandline      = "Tel_Fixe"
	FieldWorkEmail     = "Mail_Pro"
	FieldPersonalEmail = "Mail_Perso"
	FieldOrganization  = "organisation"
	FieldGroups        = "groupes"
	FieldType          = "type"

	// FieldUpdated is stamped on every sync, never sourced from a record.
	FieldUpdated = "source_updated"
)

// CanonicalFields lists the engine-recognized fields in output order.
var CanonicalFields = []string{
	FieldID,
	FieldLastName,
	FieldFirstName,
	FieldMobile,
	FieldLandline,
	FieldWorkEmail,
	FieldPersonalEmail,
	FieldOrganization,
	FieldGroups,
	FieldType,
}

// Config is the field-mapping configuration, loaded once and treated as
// immutable by the sync engine.
type Config struct {
	Aliases        map[string][]string `yaml:"aliases"`
	Projects       map[string]Project  `yaml:"projects"`
	ListFields     map[string]bool     `yaml:"list_fields"`
	BooleanFields  []string            `yaml:"boolean_fields"`
	Transforms     Transforms          `yaml:"transforms"`
	PreserveKeys   []string            `yaml:"preserve_keys"`
	OverwriteKeys  []string            `yaml:"overwrite_keys"`
	RequiredFields []string            `yaml:"required_fields"`
	Extras         Extras              `yaml:"extras"`
	CSVDelimiter   string              `yaml:"csv_delimiter"`
	CSVEncoding    string              `yaml:"csv_encoding"`
}

// Project holds per-project overrides of the global alias table.
type Project struct {
	Aliases map[string][]string `yaml:"aliases"`
}

// Transforms enables optional value transforms applied by the contact builder.
type Transforms struct {
	NormalizePhoneFR bool `yaml:"normalize_phone_fr"`
}

// Extras is the policy for unmapped record fields: copy all of them, or only
// an explicit list. In the file it is either the string "all" or a list of
// field names.
type Extras struct {
	All    bool
	Fields []string
}

// UnmarshalYAML accepts "all" or an explicit field list.
func (e *Extras) UnmarshalYAML(b []byte) error {
	var s string
	if err := yaml.Unmarshal(b, &s); err == nil {
		if s != "all" {
			return errors.NewConfigError("extras", "must be \"all\" or a list of field names", nil)
		}
		e.All = true
		return nil
	}
	var fields []string
	if err := yaml.Unmarshal(b, &fields); err != nil {
		return errors.NewConfigError("extras", "must be \"all\" or a list of field names", err)
	}
	e.Fields = fields
	return nil
}

// MarshalYAML emits the compact form.
func (e Extras) MarshalYAML() (any, error) {
	if e.All {
		return "all", nil
	}
	return e.Fields, nil
}

// Default returns the configuration used when no mapping file is given:
// bare field names as aliases, groupes as the only list field, and the
// original preserve/required defaults.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and decodes a mapping file. YAML is a JSON superset, so legacy
// JSON mapping files load unchanged. Malformed files and wrong section shapes
// are fatal.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError("", "cannot decode mapping file "+path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Aliases == nil {
		c.Aliases = map[string][]string{}
	}
	if c.ListFields == nil {
		c.ListFields = map[string]bool{FieldGroups: true}
	}
	if c.PreserveKeys == nil {
		c.PreserveKeys = []string{"notes", "custom_tags"}
	}
	if c.RequiredFields == nil {
		c.RequiredFields = []string{
			FieldLastName, FieldFirstName, FieldMobile, FieldLandline,
			FieldWorkEmail, FieldPersonalEmail, FieldOrganization,
		}
	}
	if !c.Extras.All && c.Extras.Fields == nil {
		c.Extras.All = true
	}
	if c.CSVDelimiter == "" {
		c.CSVDelimiter = "auto"
	}
	if c.CSVEncoding == "" {
		c.CSVEncoding = "utf-8-sig"
	}
}

// Candidates returns the alias candidates for a canonical field: project
// overrides first, then global aliases, then the bare field name so exact
// header matches work without any configuration.
func (c *Config) Candidates(field, project string) []string {
	if project != "" {
		if p, ok := c.Projects[project]; ok {
			if aliases, ok := p.Aliases[field]; ok {
				return aliases
			}
		}
	}
	if aliases, ok := c.Aliases[field]; ok {
		return aliases
	}
	return []string{field}
}
