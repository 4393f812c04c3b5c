package vault

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/Bricesodini/orch-csv/pkg/errors"
	"github.com/Bricesodini/orch-csv/pkg/frontmatter"
	"github.com/Bricesodini/orch-csv/pkg/logging"
	"github.com/Bricesodini/orch-csv/pkg/mapping"
	"github.com/Bricesodini/orch-csv/pkg/normalize"
)

// Index holds the one-time lookup tables over the store: identity value to
// document path, and lowercased email to document path.
type Index struct {
	ByID    map[string]string
	ByEmail map[string]string
}

// BuildIndex scans every document once, in lexicographic path order so that
// collisions resolve deterministically (last scanned path wins). Documents
// that cannot be read are excluded with a warning; the scan continues.
func (s *Store) BuildIndex(idKey string) (*Index, error) {
	paths, err := filepath.Glob(filepath.Join(s.Dir, "*"+Extension))
	if err != nil {
		return nil, errors.WrapIO("scan", s.Dir, err)
	}
	sort.Strings(paths)

	ix := &Index{
		ByID:    make(map[string]string),
		ByEmail: make(map[string]string),
	}
	for _, path := range paths {
		doc, err := s.Read(path)
		if err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("Cannot read note, excluded from index")
			continue
		}
		if doc.Fields.Len() == 0 {
			continue
		}
		ix.add(doc, idKey)
	}
	return ix, nil
}

// add indexes one document: by identity when the key holds a non-empty
// scalar, and by every valid email-shaped value under a key whose normalized
// name contains "email" or "mail".
func (ix *Index) add(doc *Document, idKey string) {
	if v, ok := doc.Fields.Get(idKey); ok {
		if s, isScalar := v.(frontmatter.Scalar); isScalar && string(s) != "" {
			ix.ByID[string(s)] = doc.Path
		}
	}

	for _, key := range doc.Fields.Keys() {
		normed := mapping.NormKey(key)
		if !strings.Contains(normed, "email") && !strings.Contains(normed, "mail") {
			continue
		}
		v, _ := doc.Fields.Get(key)
		switch t := v.(type) {
		case frontmatter.Scalar:
			ix.addEmail(string(t), doc.Path)
		case frontmatter.List:
			for _, item := range t {
				ix.addEmail(item, doc.Path)
			}
		}
	}
}

func (ix *Index) addEmail(raw, path string) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email != "" && normalize.IsValidEmail(email) {
		ix.ByEmail[email] = path
	}
}

// Match resolves a contact to an existing document path. Identity-key match
// takes precedence over the email match; ok is false when the contact is new.
func (ix *Index) Match(id, email string) (string, bool) {
	if id != "" {
		if path, ok := ix.ByID[id]; ok {
			return path, true
		}
	}
	if email != "" {
		if path, ok := ix.ByEmail[email]; ok {
			return path, true
		}
	}
	return "", false
}
