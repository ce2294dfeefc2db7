// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package delimited encodes rows as CSV text, decodes CSV text into records
// keyed by the header line, and bridges records back into rows.
//
// Decoding has two policies. QuoteNaive splits every line on each comma, so
// a quoted cell with an embedded comma does not survive a round trip
// through Encode. QuoteRFC4180 honours quoting.
package delimited

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/draphael123/conversions/pkg/types"
)

// QuotePolicy selects how Decode treats double quotes.
type QuotePolicy int

const (
	// QuoteNaive splits on every comma and strips one pair of surrounding
	// quotes per field.
	QuoteNaive QuotePolicy = iota
	// QuoteRFC4180 parses quoted fields, including embedded commas,
	// doubled quotes and line breaks.
	QuoteRFC4180
)

// String returns the policy's config name.
func (p QuotePolicy) String() string {
	switch p {
	case QuoteNaive:
		return "naive"
	case QuoteRFC4180:
		return "rfc4180"
	}
	return fmt.Sprintf("QuotePolicy(%d)", int(p))
}

// ParseQuotePolicy maps a config name to a policy. The empty string is naive.
func ParseQuotePolicy(s string) (QuotePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "naive":
		return QuoteNaive, nil
	case "rfc4180", "rfc-4180", "strict":
		return QuoteRFC4180, nil
	}
	return QuoteNaive, fmt.Errorf("unknown CSV quote policy %q (want naive or rfc4180)", s)
}

// Encode joins each row's cells with "," and the rows with "\n". A cell
// containing a comma, a double quote or a newline is quoted with inner
// quotes doubled. There is no trailing newline.
func Encode(rows []types.Row) string {
	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, cell := range row {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(quoteCell(cell))
		}
	}
	return b.String()
}

func quoteCell(cell string) string {
	if strings.ContainsAny(cell, ",\"\n") {
		return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
	}
	return cell
}

// Decode parses CSV text into records. The first non-blank line holds the
// headers; each later line becomes a record zipped positionally with them.
// Missing trailing fields are "", extra fields are dropped, and a repeated
// header overwrites the earlier value in each record. A text with no data
// lines yields no records.
func Decode(text string, policy QuotePolicy) ([]types.Record, error) {
	var lines [][]string
	switch policy {
	case QuoteNaive:
		lines = naiveLines(text)
	case QuoteRFC4180:
		var err error
		lines, err = rfcLines(text)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported quote policy %v", policy)
	}

	if len(lines) < 2 {
		return nil, nil
	}

	headers := lines[0]
	records := make([]types.Record, 0, len(lines)-1)
	for _, fields := range lines[1:] {
		rec := types.NewRecord()
		for i, h := range headers {
			v := ""
			if i < len(fields) {
				v = fields[i]
			}
			rec.Set(h, v)
		}
		records = append(records, rec)
	}
	return records, nil
}

func naiveLines(text string) [][]string {
	var out [][]string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Split(line, ",")
		for i, p := range parts {
			parts[i] = unquote(strings.TrimSpace(p))
		}
		out = append(out, parts)
	}
	return out
}

// unquote removes one pair of surrounding double quotes. A field with only
// an opening or only a closing quote is returned unchanged.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

func rfcLines(text string) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var out [][]string
	for {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing CSV: %w", err)
		}
		blank := true
		for i, f := range fields {
			fields[i] = strings.TrimSpace(f)
			if fields[i] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		out = append(out, fields)
	}
	return out, nil
}

// RecordsToRows turns records into a header row followed by one value row
// per record. The header is the first record's keys in order; a record
// lacking a header key contributes "" for it, and keys that only appear in
// later records are ignored.
func RecordsToRows(records []types.Record) []types.Row {
	if len(records) == 0 {
		return nil
	}
	headers := records[0].Keys()
	rows := make([]types.Row, 0, len(records)+1)
	rows = append(rows, types.Row(headers))
	for _, rec := range records {
		row := make(types.Row, len(headers))
		for i, h := range headers {
			row[i] = rec.Value(h)
		}
		rows = append(rows, row)
	}
	return rows
}

// EncodeRecords is Encode(RecordsToRows(records)).
func EncodeRecords(records []types.Record) string {
	return Encode(RecordsToRows(records))
}
