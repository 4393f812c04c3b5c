// Package rows loads source CSV exports into ordered records, handling the
// encodings and delimiter conventions seen in real-world list exports.
package rows

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/Bricesodini/orch-csv/pkg/errors"
	"github.com/Bricesodini/orch-csv/pkg/logging"
	"github.com/Bricesodini/orch-csv/pkg/mapping"
)

// sniffSample is how much of the file the delimiter sniffer inspects.
const sniffSample = 8192

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// delimiterCandidates are tried in order; ties go to the earlier candidate.
var delimiterCandidates = []rune{',', ';', '\t', '|'}

// Read loads all rows of the CSV at path as ordered records keyed by the
// header row. The delimiter and encoding come from the configuration;
// "auto" sniffs the delimiter from the first chunk of the file.
func Read(path string, cfg *mapping.Config) ([]*mapping.Record, error) {
	if cfg == nil {
		cfg = mapping.Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	text, err := decode(raw, cfg.CSVEncoding)
	if err != nil {
		return nil, err
	}

	delim := cfg.CSVDelimiter
	comma := ','
	if delim == "" || delim == "auto" {
		comma = sniffDelimiter(text)
		logging.Debug().Str("delimiter", string(comma)).Msg("Sniffed CSV delimiter")
	} else {
		comma = []rune(delim)[0]
	}

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapParse("csv", path, err)
	}

	var records []*mapping.Record
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.WrapParse("csv", path, err)
		}
		rec := mapping.NewRecord()
		for i, name := range header {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			rec.Set(name, value)
		}
		records = append(records, rec)
	}
	return records, nil
}

// decode converts the raw file bytes to UTF-8 text according to the named
// encoding. The default "utf-8-sig" strips a leading byte order mark.
func decode(raw []byte, encoding string) (string, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(encoding)), "_", "-")
	switch name {
	case "", "utf-8-sig":
		raw = bytes.TrimPrefix(raw, utf8BOM)
		fallthrough
	case "utf-8", "utf8":
		if !utf8.Valid(raw) {
			return "", errors.NewParseError("csv", "", "input is not valid UTF-8; set csv_encoding (e.g. latin-1)", nil)
		}
		return string(raw), nil
	case "latin-1", "latin1", "iso-8859-1", "iso8859-1":
		out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if err != nil {
			return "", errors.WrapParse("csv", "", err)
		}
		return string(out), nil
	case "windows-1252", "cp1252":
		out, err := charmap.Windows1252.NewDecoder().Bytes(raw)
		if err != nil {
			return "", errors.WrapParse("csv", "", err)
		}
		return string(out), nil
	default:
		return "", errors.NewConfigError("csv_encoding", "unsupported encoding "+encoding, nil)
	}
}

// sniffDelimiter picks the candidate that occurs most often outside quoted
// sections in the first chunk of the file. Comma wins all ties.
func sniffDelimiter(text string) rune {
	sample := text
	if len(sample) > sniffSample {
		sample = sample[:sniffSample]
	}
	if i := strings.IndexByte(sample, '\n'); i >= 0 {
		sample = sample[:i]
	}

	counts := make(map[rune]int, len(delimiterCandidates))
	inQuotes := false
	for _, r := range sample {
		if r == '"' {
			inQuotes = !inQuotes
			continue
		}
		if inQuotes {
			continue
		}
		for _, cand := range delimiterCandidates {
			if r == cand {
				counts[r]++
				break
			}
		}
	}

	best := ','
	bestCount := 0
	for _, cand := range delimiterCandidates {
		if counts[cand] > bestCount {
			best = cand
			bestCount = counts[cand]
		}
	}
	return best
}
