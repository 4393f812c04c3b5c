package frontmatter

import (
	"regexp"
	"strings"
)

// Delimiter marks the start and end of a metadata block.
const Delimiter = "---"

var safeBareRE = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Decode splits text into its metadata block and body. Text that does not
// open with a delimiter line has no metadata: the full text is returned as
// body, likewise when no closing delimiter line follows. Both delimiters must
// sit alone on their own line, so values containing the delimiter substring
// pass through intact. Values must not contain newlines; the grammar is
// line-based.
func Decode(text string) (*Fields, string) {
	fields := NewFields()
	first, rest, found := strings.Cut(text, "\n")
	if !found || first != Delimiter {
		return fields, text
	}
	block, body, ok := cutClosingDelimiter(rest)
	if !ok {
		return fields, text
	}

	lines := strings.Split(block, "\n")
	i := 0
	for i < len(lines) {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			i++
			continue
		}
		colon := strings.Index(line, ":")
		if colon < 0 || strings.HasPrefix(strings.TrimLeft(line, " \t"), "- ") {
			// Stray list items without a current key are ignored.
			i++
			continue
		}
		key := strings.TrimSpace(line[:colon])
		val := strings.TrimSpace(line[colon+1:])
		if val == "" {
			// Block list: "key:" followed by indented "- item" lines.
			items, next := decodeBlockList(lines, i+1)
			if items != nil {
				fields.Set(key, List(items))
				i = next
				continue
			}
			fields.Set(key, Scalar(""))
		} else if strings.HasPrefix(val, "[") && strings.HasSuffix(val, "]") {
			fields.Set(key, List(decodeInlineList(val)))
		} else {
			fields.Set(key, Scalar(unquoteScalar(val)))
		}
		i++
	}
	return fields, body
}

// cutClosingDelimiter scans line by line for the first line consisting of
// exactly the delimiter. The returned body starts at the newline following
// the closing delimiter, or is empty when the delimiter ends the text.
func cutClosingDelimiter(rest string) (block, body string, ok bool) {
	offset := 0
	for offset <= len(rest) {
		end := strings.IndexByte(rest[offset:], '\n')
		if end < 0 {
			if rest[offset:] == Delimiter {
				return rest[:offset], "", true
			}
			return "", "", false
		}
		if rest[offset:offset+end] == Delimiter {
			return rest[:offset], rest[offset+end:], true
		}
		offset += end + 1
	}
	return "", "", false
}

// decodeBlockList consumes "- item" lines starting at index start. Missing
// indentation is tolerated. Returns nil when no items follow.
func decodeBlockList(lines []string, start int) ([]string, int) {
	var items []string
	j := start
	for j < len(lines) {
		next := lines[j]
		if strings.HasPrefix(next, "  - ") {
			items = append(items, unquoteScalar(strings.TrimSpace(next[4:])))
			j++
		} else if strings.HasPrefix(strings.TrimSpace(next), "- ") {
			items = append(items, unquoteScalar(strings.TrimSpace(strings.TrimSpace(next)[2:])))
			j++
		} else {
			break
		}
	}
	if len(items) == 0 {
		return nil, start
	}
	return items, j
}

// decodeInlineList parses an inline "[a, b, c]" list by comma-splitting with
// per-item quote stripping.
func decodeInlineList(val string) []string {
	inner := strings.TrimSpace(val[1 : len(val)-1])
	if inner == "" {
		return []string{}
	}
	parts := strings.Split(inner, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		items = append(items, unquoteScalar(strings.TrimSpace(p)))
	}
	return items
}

// unquoteScalar strips a single level of surrounding quotes and unescapes
// interior double quotes.
func unquoteScalar(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return strings.ReplaceAll(s[1:len(s)-1], `\"`, `"`)
	}
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return s[1 : len(s)-1]
	}
	return s
}

// Encode serializes fields as a metadata block, one line per key in insertion
// order, followed by the closing delimiter and a trailing newline.
func Encode(fields *Fields) string {
	var b strings.Builder
	b.WriteString(Delimiter)
	b.WriteByte('\n')
	for _, k := range fields.Keys() {
		v, _ := fields.Get(k)
		switch t := v.(type) {
		case List:
			if len(t) == 0 {
				b.WriteString(k)
				b.WriteString(": []\n")
				continue
			}
			b.WriteString(k)
			b.WriteString(":\n")
			for _, item := range t {
				b.WriteString("  - ")
				b.WriteString(QuoteScalar(item))
				b.WriteByte('\n')
			}
		case Scalar:
			b.WriteString(k)
			b.WriteString(": ")
			b.WriteString(QuoteScalar(string(t)))
			b.WriteByte('\n')
		case nil:
			b.WriteString(k)
			b.WriteString(`: ""`)
			b.WriteByte('\n')
		}
	}
	b.WriteString(Delimiter)
	b.WriteByte('\n')
	return b.String()
}

// QuoteScalar returns the serialized form of a scalar. Digit-only values,
// values starting with '+', and values with a significant leading zero are
// quoted so phone numbers and zero-padded ids survive YAML-ish readers.
// Restricted bare words are emitted unquoted; everything else is quoted with
// interior double quotes escaped.
func QuoteScalar(s string) string {
	if s == "" {
		return `""`
	}
	if isASCIIDigits(s) || strings.HasPrefix(s, "+") || (len(s) > 1 && s[0] == '0') {
		return `"` + s + `"`
	}
	if safeBareRE.MatchString(s) {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func isASCIIDigits(s string) bool {
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
