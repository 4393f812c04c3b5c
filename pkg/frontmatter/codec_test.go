package frontmatter

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeNoBlock(t *testing.T) {
	fields, body := Decode("Just a note body.\n")
	assert.Equal(t, 0, fields.Len())
	assert.Equal(t, "Just a note body.\n", body)
}

func TestDecodeUnterminatedBlock(t *testing.T) {
	text := "---\nkey: value\nno closing delimiter"
	fields, body := Decode(text)
	assert.Equal(t, 0, fields.Len())
	assert.Equal(t, text, body)
}

func TestDecodeScalars(t *testing.T) {
	text := "---\n" +
		"Nom: DUPONT\n" +
		"Tel_Mobile: \"+33600000000\"\n" +
		"id_mslist: \"007\"\n" +
		"organisation: \"Ville d'Annonay\"\n" +
		"empty: \"\"\n" +
		"single: 'quoted'\n" +
		"---\nbody\n"
	fields, body := Decode(text)
	assert.Equal(t, "\nbody\n", body)

	want := map[string]Value{
		"Nom":          Scalar("DUPONT"),
		"Tel_Mobile":   Scalar("+33600000000"),
		"id_mslist":    Scalar("007"),
		"organisation": Scalar("Ville d'Annonay"),
		"empty":        Scalar(""),
		"single":       Scalar("quoted"),
	}
	for k, wantV := range want {
		v, ok := fields.Get(k)
		require.True(t, ok, "missing key %s", k)
		assert.Equal(t, wantV, v, "key %s", k)
	}
}

func TestDecodeBlockList(t *testing.T) {
	text := "---\n" +
		"groupes:\n" +
		"  - \"CA\"\n" +
		"  - Bureau\n" +
		"---\n"
	fields, _ := Decode(text)
	v, ok := fields.Get("groupes")
	require.True(t, ok)
	assert.Equal(t, List{"CA", "Bureau"}, v)
}

func TestDecodeBlockListToleratesMissingIndent(t *testing.T) {
	text := "---\n" +
		"groupes:\n" +
		"- CA\n" +
		"  - Bureau\n" +
		"---\n"
	fields, _ := Decode(text)
	v, ok := fields.Get("groupes")
	require.True(t, ok)
	assert.Equal(t, List{"CA", "Bureau"}, v)
}

func TestDecodeBareKeyWithoutItemsIsEmptyScalar(t *testing.T) {
	text := "---\nnotes:\nNom: DUPONT\n---\n"
	fields, _ := Decode(text)
	v, ok := fields.Get("notes")
	require.True(t, ok)
	assert.Equal(t, Scalar(""), v)
}

func TestDecodeInlineList(t *testing.T) {
	text := "---\ngroupes: [\"CA\", Bureau, 'AG']\nvide: []\n---\n"
	fields, _ := Decode(text)

	v, _ := fields.Get("groupes")
	assert.Equal(t, List{"CA", "Bureau", "AG"}, v)

	v, _ = fields.Get("vide")
	assert.Equal(t, List{}, v)
}

func TestDecodeClosingDelimiterMustBeItsOwnLine(t *testing.T) {
	text := "---\n" +
		"notes: bilan a---b validé\n" +
		"---\n" +
		"\nSection\n---\nBody text.\n"
	fields, body := Decode(text)

	v, ok := fields.Get("notes")
	require.True(t, ok)
	assert.Equal(t, Scalar("bilan a---b validé"), v)
	assert.Equal(t, "\n\nSection\n---\nBody text.\n", body)
}

func TestDecodeIgnoresBlankLinesAndStrayItems(t *testing.T) {
	text := "---\n\nNom: DUPONT\n\n- orphan\n---\n"
	fields, _ := Decode(text)
	assert.Equal(t, 1, fields.Len())
}

func TestQuoteScalar(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", `""`},
		{"Paris", "Paris"},
		{"contact", "contact"},
		{"true", "true"},
		{"SCO-007", "SCO-007"},
		{"0123", `"0123"`},
		{"42", `"42"`},
		{"+33600000000", `"+33600000000"`},
		{"0", "0"}, // single zero has no significant leading zero
		{"Jean Dupont", `"Jean Dupont"`},
		{"Ville d'Annonay", `"Ville d'Annonay"`},
		{`say "hi"`, `"say \"hi\""`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, QuoteScalar(tt.in), "input %q", tt.in)
	}
}

func TestEncodeGolden(t *testing.T) {
	fields := NewFields()
	fields.Set("Nom", Scalar("DUPONT"))
	fields.Set("Prénom", Scalar("Jean"))
	fields.Set("Tel_Mobile", Scalar("+33600000000"))
	fields.Set("Tel_Fixe", Scalar(""))
	fields.Set("Mail_Pro", Scalar("jean.dupont@example.org"))
	fields.Set("id_mslist", Scalar("SCO-007"))
	fields.Set("groupes", List{"CA", "Bureau élargi"})
	fields.Set("anciens_groupes", List{})
	fields.Set("type", Scalar("contact"))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "encode_contact", []byte(Encode(fields)))
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		set  func(*Fields)
	}{
		{"plain scalar", func(f *Fields) { f.Set("k", Scalar("Paris")) }},
		{"empty scalar", func(f *Fields) { f.Set("k", Scalar("")) }},
		{"digits", func(f *Fields) { f.Set("k", Scalar("0123")) }},
		{"phone", func(f *Fields) { f.Set("k", Scalar("+33600000000")) }},
		{"spaces and accents", func(f *Fields) { f.Set("k", Scalar("Prénom composé")) }},
		{"interior quotes", func(f *Fields) { f.Set("k", Scalar(`dit "Jeannot"`)) }},
		{"comma", func(f *Fields) { f.Set("k", Scalar("a, b")) }},
		{"embedded delimiter", func(f *Fields) { f.Set("notes", Scalar("a---b")) }},
		{"delimiter scalar", func(f *Fields) { f.Set("k", Scalar("---")) }},
		{"delimiter list item", func(f *Fields) { f.Set("k", List{"---", "a"}) }},
		{"bracketed scalar", func(f *Fields) { f.Set("k", Scalar("[not a list]")) }},
		{"empty list", func(f *Fields) { f.Set("k", List{}) }},
		{"list", func(f *Fields) { f.Set("k", List{"a", "b c", "0456"}) }},
		{"list with commas", func(f *Fields) { f.Set("k", List{"a, b", "c"}) }},
		{"mixed document", func(f *Fields) {
			f.Set("Nom", Scalar("DUPONT"))
			f.Set("groupes", List{"CA"})
			f.Set("notes", Scalar(""))
			f.Set("actif", Scalar("true"))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := NewFields()
			tt.set(in)
			out, body := Decode(Encode(in) + "Body text.\n")
			assert.Equal(t, "\nBody text.\n", body)
			require.True(t, in.Equal(out), "round trip mismatch:\nin:  %#v\nout: %#v", in, out)
		})
	}
}

func TestFieldsOrderPreserved(t *testing.T) {
	f := NewFields()
	f.Set("b", Scalar("1"))
	f.Set("a", Scalar("2"))
	f.Set("b", Scalar("3")) // re-set keeps original position
	assert.Equal(t, []string{"b", "a"}, f.Keys())

	v, _ := f.Get("b")
	assert.Equal(t, Scalar("3"), v)
}

func TestClone(t *testing.T) {
	f := NewFields()
	f.Set("groupes", List{"CA"})
	c := f.Clone()
	v, _ := c.Get("groupes")
	l := v.(List)
	l[0] = "changed"
	orig, _ := f.Get("groupes")
	assert.Equal(t, List{"CA"}, orig, "clone must not share list backing arrays")
}
