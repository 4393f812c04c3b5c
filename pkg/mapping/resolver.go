package mapping

import "strings"

// FirstPresent returns the first non-empty record value among the candidate
// field names, in candidate order. Each candidate is tried as an exact match
// first, then against a normalized index of the record's field names (accents
// and case folded, trailing plural optional). Returns "" when no candidate
// yields a non-empty value; it never errors.
func FirstPresent(r *Record, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	normToOrig := make(map[string]string, 2*r.Len())
	for _, name := range r.Names() {
		normed := NormKey(name)
		normToOrig[normed] = name
		normToOrig[Singular(normed)] = name
	}
	for _, c := range candidates {
		if v, ok := r.Get(c); ok && strings.TrimSpace(v) != "" {
			return v
		}
		normed := NormKey(c)
		for _, key := range []string{normed, Singular(normed)} {
			if orig, ok := normToOrig[key]; ok {
				if v, _ := r.Get(orig); strings.TrimSpace(v) != "" {
					return v
				}
			}
		}
	}
	return ""
}
