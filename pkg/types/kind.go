// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the conversions pipeline:
// conversion kinds, rows and records, jobs, artifacts, batch state and the
// pipeline configuration.
package types

import (
	"fmt"
	"strings"
)

// ConversionKind identifies one supported source→target transform.
type ConversionKind string

const (
	KindMarkdownToCSV ConversionKind = "markdown-to-csv"
	KindMarkdownToPDF ConversionKind = "markdown-to-pdf"
	KindWordToPDF     ConversionKind = "word-to-pdf"
	KindCSVToJSON     ConversionKind = "csv-to-json"
	KindJSONToCSV     ConversionKind = "json-to-csv"
	KindTextToPDF     ConversionKind = "text-to-pdf"
)

// Content types of the produced artifacts.
const (
	ContentTypeCSV  = "text/csv"
	ContentTypeJSON = "application/json"
	ContentTypePDF  = "application/pdf"
)

// AllKinds returns every conversion kind in display order.
func AllKinds() []ConversionKind {
	return []ConversionKind{
		KindMarkdownToCSV,
		KindMarkdownToPDF,
		KindWordToPDF,
		KindCSVToJSON,
		KindJSONToCSV,
		KindTextToPDF,
	}
}

// ParseKind maps a kind name to a ConversionKind. Matching ignores case and
// surrounding whitespace.
func ParseKind(s string) (ConversionKind, error) {
	k := ConversionKind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllKinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown conversion kind %q (want one of %s)", s, kindList())
}

// Valid reports whether k is one of the supported kinds.
func (k ConversionKind) Valid() bool {
	_, err := ParseKind(string(k))
	return err == nil
}

// TargetExtension returns the extension (with leading dot) of the kind's output.
func (k ConversionKind) TargetExtension() string {
	switch k {
	case KindMarkdownToCSV, KindJSONToCSV:
		return ".csv"
	case KindCSVToJSON:
		return ".json"
	case KindMarkdownToPDF, KindWordToPDF, KindTextToPDF:
		return ".pdf"
	}
	return ""
}

// ContentType returns the MIME type of the kind's output.
func (k ConversionKind) ContentType() string {
	switch k {
	case KindMarkdownToCSV, KindJSONToCSV:
		return ContentTypeCSV
	case KindCSVToJSON:
		return ContentTypeJSON
	case KindMarkdownToPDF, KindWordToPDF, KindTextToPDF:
		return ContentTypePDF
	}
	return "application/octet-stream"
}

func kindList() string {
	names := make([]string, 0, len(AllKinds()))
	for _, k := range AllKinds() {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}

// KindSpec is the externally owned description of a kind: which input
// extensions it accepts and the hint shown to the user.
type KindSpec struct {
	// Extensions lists accepted input extensions including the leading dot.
	Extensions []string `json:"extensions" yaml:"extensions" mapstructure:"extensions"`

	// Hint is a short human-readable description of the expected input.
	Hint string `json:"hint" yaml:"hint" mapstructure:"hint"`
}

// Accepts reports whether name carries one of the spec's extensions.
// The comparison is case-insensitive.
func (s KindSpec) Accepts(name string) bool {
	return s.MatchExtension(name) != ""
}

// MatchExtension returns the accepted extension name ends with, or "" when
// none matches. Longer extensions win so ".markdown" beats ".md".
func (s KindSpec) MatchExtension(name string) string {
	lower := strings.ToLower(name)
	best := ""
	for _, ext := range s.Extensions {
		e := strings.ToLower(ext)
		if e == "" {
			continue
		}
		if strings.HasSuffix(lower, e) && len(e) > len(best) {
			best = ext
		}
	}
	return best
}

// DefaultKindSpecs returns the built-in extension sets and hints.
func DefaultKindSpecs() map[ConversionKind]KindSpec {
	return map[ConversionKind]KindSpec{
		KindMarkdownToCSV: {
			Extensions: []string{".md", ".markdown"},
			Hint:       "Markdown files containing a pipe table (.md, .markdown)",
		},
		KindMarkdownToPDF: {
			Extensions: []string{".md", ".markdown"},
			Hint:       "Markdown documents (.md, .markdown)",
		},
		KindWordToPDF: {
			Extensions: []string{".docx"},
			Hint:       "Word documents (.docx)",
		},
		KindCSVToJSON: {
			Extensions: []string{".csv"},
			Hint:       "CSV files with a header row (.csv)",
		},
		KindJSONToCSV: {
			Extensions: []string{".json"},
			Hint:       "JSON arrays of objects, or a single object (.json)",
		},
		KindTextToPDF: {
			Extensions: []string{".txt", ".text"},
			Hint:       "Plain text files (.txt)",
		},
	}
}
