// Package identity derives stable document-matching identifiers for contacts.
// A composed identity is a pure function of prefix, raw source id, pad width
// and fallback strategy, plus the run-scoped sequence counter threaded in by
// the orchestrator.
package identity

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/Bricesodini/orch-csv/pkg/errors"
	"github.com/Bricesodini/orch-csv/pkg/mapping"
)

// Fallback selects what happens when the source id is absent or non-numeric.
type Fallback string

const (
	// FallbackSeq allocates the next value from the run-scoped counter.
	FallbackSeq Fallback = "seq"
	// FallbackHash derives an 8-character stable digest of the source record.
	FallbackHash Fallback = "hash"
	// FallbackRaw uses the raw id verbatim; empty raw ids have no identity.
	FallbackRaw Fallback = "raw"
	// FallbackSkip drops the record entirely.
	FallbackSkip Fallback = "skip"
)

// ParseFallback validates a fallback strategy name.
func ParseFallback(s string) (Fallback, error) {
	switch Fallback(s) {
	case FallbackSeq, FallbackHash, FallbackRaw, FallbackSkip:
		return Fallback(s), nil
	}
	return "", errors.NewValidationError("id-fallback", s, "must be one of seq, hash, raw, skip")
}

// Counter is the run-scoped monotonically increasing sequence used by the seq
// strategy. It is explicit orchestrator state, not hidden process state, which
// makes the strategy deterministic and testable in isolation.
type Counter struct {
	next int
}

// NewCounter creates a counter starting at 1.
func NewCounter() *Counter {
	return &Counter{next: 1}
}

// Next returns the current value and advances the counter.
func (c *Counter) Next() int {
	n := c.next
	c.next++
	return n
}

// Composer derives identities under a fixed prefix, pad width and fallback
// strategy.
type Composer struct {
	Prefix   string
	Pad      int
	Fallback Fallback
}

// Compose derives the identity for a record. The second return names the
// strategy that produced it ("numeric", "seq", "hash", "raw"). Sentinel
// errors signal the two non-identity outcomes: errors.ErrNoIdentity for
// raw-with-empty-id, errors.ErrSkipRecord for the skip strategy.
func (c *Composer) Compose(rawID string, record *mapping.Record, counter *Counter) (string, string, error) {
	id := strings.TrimSpace(rawID)
	if isDigits(id) && id != "" {
		return Format(c.Prefix, id, c.Pad), "numeric", nil
	}
	switch c.Fallback {
	case FallbackSeq:
		return Format(c.Prefix, strconv.Itoa(counter.Next()), c.Pad), "seq", nil
	case FallbackHash:
		return Format(c.Prefix, recordDigest(record), c.Pad), "hash", nil
	case FallbackRaw:
		if id == "" {
			return "", "", errors.ErrNoIdentity
		}
		return Format(c.Prefix, id, c.Pad), "raw", nil
	case FallbackSkip:
		return "", "", errors.ErrSkipRecord
	}
	return "", "", errors.NewValidationError("id-fallback", string(c.Fallback), "unknown strategy")
}

// Format composes "<PREFIX>-<NNN>" from a prefix and a raw id. Numeric ids
// are zero-padded to the pad width; non-numeric ids are kept verbatim after
// the prefix. An empty raw id yields the bare prefix.
func Format(prefix, rawID string, pad int) string {
	pfx := MakePrefix(prefix)
	id := strings.TrimSpace(rawID)
	if id == "" {
		return pfx
	}
	if n, err := strconv.Atoi(id); err == nil && n >= 0 {
		if pfx == "" {
			return fmt.Sprintf("%0*d", pad, n)
		}
		return fmt.Sprintf("%s-%0*d", pfx, pad, n)
	}
	if pfx == "" {
		return id
	}
	return pfx + "-" + id
}

// foldAccents strips combining marks after decomposition.
var foldAccents = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// MakePrefix builds a safe, readable prefix from user input, e.g.
// "Ville d'Annonay" becomes "VILLE_D_ANNONAY". Keeps A-Z, 0-9 and
// underscores; spaces and dashes become underscores.
func MakePrefix(s string) string {
	if s == "" {
		return ""
	}
	folded, _, err := transform.String(foldAccents, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	b.Grow(len(folded))
	prevSep := false
	for _, r := range strings.ToUpper(folded) {
		switch {
		case (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			prevSep = false
		case r == ' ' || r == '-' || r == '_' || r == '\'':
			if !prevSep && b.Len() > 0 {
				b.WriteByte('_')
				prevSep = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// recordDigest hashes the full source record order-independently: fields are
// serialized with sorted keys before digesting, and the first 8 hex
// characters form the token.
func recordDigest(record *mapping.Record) string {
	names := record.Names()
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)

	h := sha1.New()
	for _, name := range sorted {
		v, _ := record.Get(name)
		fmt.Fprintf(h, "%q:%q,", name, v)
	}
	return hex.EncodeToString(h.Sum(nil))[:8]
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
