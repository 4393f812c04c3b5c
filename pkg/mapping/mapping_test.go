package mapping

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bricesodini/orch-csv/pkg/errors"
)

func TestNormKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Prénom", "prenom"},
		{"PRÉNOM", "prenom"},
		{"Tel. Mobile", "telmobile"},
		{"Étab_Scolaire", "etabscolaire"},
		{"e-mail", "email"},
		{"Organisation ", "organisation"},
		{"id_mslist", "idmslist"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormKey(tt.in), "input %q", tt.in)
	}
}

func TestSingular(t *testing.T) {
	assert.Equal(t, "email", Singular("emails"))
	assert.Equal(t, "email", Singular("email"))
	assert.Equal(t, "groupe", Singular("groupes"))
}

func TestFirstPresentExactBeforeNormalized(t *testing.T) {
	r := NewRecord()
	r.Set("prenom", "fallback")
	r.Set("Prénom", "Jean")
	got := FirstPresent(r, []string{"Prénom", "prenom"})
	assert.Equal(t, "Jean", got, "exact match wins over normalized")
}

func TestFirstPresentNormalizedAndPlural(t *testing.T) {
	r := NewRecord()
	r.Set("E-Mails", "jean@example.org")

	assert.Equal(t, "jean@example.org", FirstPresent(r, []string{"email"}))
	assert.Equal(t, "jean@example.org", FirstPresent(r, []string{"Émail"}))
}

func TestFirstPresentSkipsEmptyValues(t *testing.T) {
	r := NewRecord()
	r.Set("Mail_Pro", "   ")
	r.Set("Mail_Perso", "jean@example.org")
	got := FirstPresent(r, []string{"Mail_Pro", "Mail_Perso"})
	assert.Equal(t, "jean@example.org", got)
}

func TestFirstPresentNoMatch(t *testing.T) {
	r := NewRecord()
	r.Set("Nom", "DUPONT")
	assert.Equal(t, "", FirstPresent(r, []string{"organisation"}))
	assert.Equal(t, "", FirstPresent(r, nil))
}

func TestCandidatesPrecedence(t *testing.T) {
	cfg := Default()
	cfg.Aliases = map[string][]string{
		"Nom": {"Last Name", "Surname"},
	}
	cfg.Projects = map[string]Project{
		"mjc": {Aliases: map[string][]string{
			"Nom": {"Nom de famille"},
		}},
	}

	assert.Equal(t, []string{"Nom de famille"}, cfg.Candidates("Nom", "mjc"))
	assert.Equal(t, []string{"Last Name", "Surname"}, cfg.Candidates("Nom", ""))
	assert.Equal(t, []string{"Prénom"}, cfg.Candidates("Prénom", "mjc"),
		"bare field name when nothing is configured")
}

func TestLoadYAMLAndJSON(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "mapping.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
aliases:
  Nom: ["Last Name"]
extras: all
list_fields:
  groupes: true
preserve_keys: [notes]
`), 0o644))

	cfg, err := Load(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"Last Name"}, cfg.Aliases["Nom"])
	assert.True(t, cfg.Extras.All)
	assert.Equal(t, []string{"notes"}, cfg.PreserveKeys)

	// Legacy JSON mapping files load through the same decoder.
	jsonPath := filepath.Join(dir, "mapping.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{
  "aliases": {"organisation": ["Etablissement"]},
  "extras": ["Commentaire"],
  "csv_delimiter": ";"
}`), 0o644))

	cfg, err = Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"Etablissement"}, cfg.Aliases["organisation"])
	assert.False(t, cfg.Extras.All)
	assert.Equal(t, []string{"Commentaire"}, cfg.Extras.Fields)
	assert.Equal(t, ";", cfg.CSVDelimiter)
}

func TestLoadMalformedIsFatal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("aliases: [not, a, mapping]"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	var cfgErr *errors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	var ioErr *errors.IOError
	assert.ErrorAs(t, err, &ioErr)
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.Extras.All)
	assert.True(t, cfg.IsListField("groupes"))
	assert.Contains(t, cfg.PreserveKeys, "notes")
	assert.Contains(t, cfg.RequiredFields, FieldLastName)
	assert.Equal(t, "auto", cfg.CSVDelimiter)
	assert.Equal(t, "utf-8-sig", cfg.CSVEncoding)
}

func TestClassify(t *testing.T) {
	cfg := Default()
	cfg.BooleanFields = []string{"Adhérent"}

	tests := []struct {
		name string
		want FieldKind
	}{
		{"groupes", KindList},
		{"GROUPES", KindList},
		{"adherent", KindBool},
		{"is_member", KindBool},
		{"has_badge", KindBool},
		{"Actif", KindBool},
		{"inscrit_2024", KindBool},
		{"Nom", KindScalar},
		{"organisation", KindScalar},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cfg.Classify(tt.name), "field %s", tt.name)
	}
}

func TestRecordOrder(t *testing.T) {
	r := NewRecord()
	r.Set("b", "1")
	r.Set("a", "2")
	r.Set("b", "3")
	assert.Equal(t, []string{"b", "a"}, r.Names())
	v, ok := r.Get("b")
	require.True(t, ok)
	assert.Equal(t, "3", v)
}
