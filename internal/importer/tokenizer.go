package importer

import "strings"

// RawTable is the result of tokenizing one CSV export: a header row plus data
// rows. It is produced once per import and never mutated afterwards. Rows are
// not guaranteed to share the header's width; consumers must index
// defensively.
type RawTable struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Empty reports whether tokenization produced no usable table.
func (t RawTable) Empty() bool {
	return len(t.Headers) == 0
}

// Tokenize splits raw CSV text into a header row and data rows. The first
// non-blank line becomes the header, every following non-blank line a data
// row. Fields are comma-delimited with RFC-4180-style quoting: inside a
// quoted field a comma is literal and a doubled quote is an escaped literal
// quote. Every field is trimmed of surrounding whitespace.
//
// Tokenize never fails: empty or unusable input yields an empty table so an
// import failure stays non-fatal to the caller.
func Tokenize(text string) RawTable {
	table := RawTable{Headers: []string{}, Rows: [][]string{}}
	if strings.TrimSpace(text) == "" {
		return table
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := splitLine(line)
		if len(table.Headers) == 0 {
			table.Headers = fields
			continue
		}
		// Ragged rows pass through as-is; width mismatches are the
		// consumer's problem, not a parse error.
		table.Rows = append(table.Rows, fields)
	}

	return table
}

// splitLine tokenizes one CSV line. Quoting state toggles on every unescaped
// double quote; a doubled quote inside a quoted field emits one literal quote.
func splitLine(line string) []string {
	fields := make([]string, 0, 8)
	var b strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				b.WriteByte('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(b.String()))
			b.Reset()
		default:
			b.WriteByte(c)
		}
	}
	fields = append(fields, strings.TrimSpace(b.String()))

	return fields
}
