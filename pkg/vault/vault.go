// Package vault is the document store: a flat directory of Markdown
// documents, one per contact. Filenames are derived human-readable titles;
// identity lives in the metadata block, never in the filename.
package vault

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/Bricesodini/orch-csv/pkg/errors"
	"github.com/Bricesodini/orch-csv/pkg/frontmatter"
)

// Extension is the document file extension.
const Extension = ".md"

// Document is a stored contact note: its location, decoded metadata, and the
// opaque body following the metadata block. Merges replace only the metadata
// block; the body is carried forward unchanged.
type Document struct {
	Path   string
	Fields *frontmatter.Fields
	Body   string
}

// Store is a vault directory.
type Store struct {
	Dir string
}

// New creates a store rooted at dir.
func New(dir string) *Store {
	return &Store{Dir: dir}
}

// EnsureDir creates the vault directory if missing.
func (s *Store) EnsureDir() error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return errors.WrapIO("create", s.Dir, err)
	}
	return nil
}

// Read loads and decodes a document. A missing file reports ErrNotFound so
// callers can tell a vanished note from an unreadable one.
func (s *Store) Read(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapIO("read", path, errors.ErrNotFound)
		}
		return nil, errors.WrapIO("read", path, err)
	}
	fields, body := frontmatter.Decode(string(data))
	return &Document{Path: path, Fields: fields, Body: body}, nil
}

// Write serializes a document and replaces its file in full. An empty body
// is written as a single blank line so the note has room below the metadata.
func (s *Store) Write(doc *Document) error {
	body := doc.Body
	if body == "" {
		body = "\n"
	}
	content := frontmatter.Encode(doc.Fields) + body
	if err := os.WriteFile(doc.Path, []byte(content), 0o644); err != nil {
		return errors.WrapIO("write", doc.Path, err)
	}
	return nil
}

var (
	forbiddenRE  = regexp.MustCompile(`[\\/:*?"<>|]+`)
	whitespaceRE = regexp.MustCompile(`\s+`)
)

// SanitizeFilename turns a human title into a usable filename: path-forbidden
// characters become spaces, whitespace collapses, accents and case are kept.
// An empty result falls back to "contact".
func SanitizeFilename(title string) string {
	s := strings.TrimSpace(title)
	s = forbiddenRE.ReplaceAllString(s, " ")
	s = strings.TrimSpace(whitespaceRE.ReplaceAllString(s, " "))
	if s == "" {
		return "contact"
	}
	return s
}

// UniquePath returns a path for a new document titled base, appending a
// numeric " - N" suffix until the name is free.
func (s *Store) UniquePath(base string) string {
	target := filepath.Join(s.Dir, base+Extension)
	for i := 2; exists(target); i++ {
		target = filepath.Join(s.Dir, base+" - "+strconv.Itoa(i)+Extension)
	}
	return target
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
