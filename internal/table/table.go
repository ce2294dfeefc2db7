// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package table extracts the first pipe-delimited table from Markdown text.
package table

import (
	"strings"

	"github.com/draphael123/conversions/internal/markup"
	"github.com/draphael123/conversions/pkg/types"
)

// Options tunes extraction.
type Options struct {
	// HeaderRow also emits the "|" line directly above the first separator,
	// which is where a Markdown table keeps its column names.
	HeaderRow bool
}

// Extract scans markdown line by line and returns the rows that follow the
// first separator line (a "|" line containing "---"). The separator and any
// row before it are not emitted. Heading lines are ignored, and lines that
// do not start with "|" are skipped without leaving the table, so in
// practice only the first table is usable. It returns nil when no rows are
// found.
func Extract(markdown string) []types.Row {
	return ExtractWith(markdown, Options{})
}

// ExtractWith is Extract with options.
func ExtractWith(markdown string, opts Options) []types.Row {
	var rows []types.Row
	var header types.Row
	inTable := false

	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "#") {
			continue
		}
		if !strings.HasPrefix(trimmed, "|") {
			header = nil
			continue
		}
		if strings.Contains(trimmed, "---") {
			if !inTable && opts.HeaderRow && len(header) > 0 {
				rows = append(rows, header)
			}
			inTable = true
			continue
		}
		if !inTable {
			header = splitRow(trimmed)
			continue
		}

		if row := splitRow(trimmed); len(row) > 0 {
			rows = append(rows, row)
		}
	}

	return rows
}

// splitRow splits a table line on "|", drops the empty cells produced by the
// opening and closing pipes, and cleans each remaining cell.
func splitRow(line string) types.Row {
	cells := strings.Split(line, "|")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	if len(cells) > 0 && cells[0] == "" {
		cells = cells[1:]
	}
	if len(cells) > 0 && cells[len(cells)-1] == "" {
		cells = cells[:len(cells)-1]
	}

	row := make(types.Row, len(cells))
	for i, c := range cells {
		row[i] = markup.CleanCell(c)
	}
	return row
}
