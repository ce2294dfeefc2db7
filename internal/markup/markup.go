// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package markup removes inline Markdown and HTML syntax from text so it can
// be laid out as plain lines.
package markup

import (
	"html"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var (
	headingRe = regexp.MustCompile(`(?m)^#+[ \t]*`)
	boldRe    = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRe  = regexp.MustCompile(`\*(.*?)\*`)
	codeRe    = regexp.MustCompile("`(.*?)`")
	linkRe    = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	tagRe     = regexp.MustCompile(`<.*?>`)
)

// strictPolicy strips every element and keeps text content.
var strictPolicy = bluemonday.StrictPolicy()

// Strip converts Markdown to plain text. Rules run in order, each on the
// previous result: heading markers, bold, italic, inline code, links, then
// HTML tags. Multi-line constructs such as code fences pass through as-is.
func Strip(text string) string {
	text = headingRe.ReplaceAllString(text, "")
	text = StripBold(text)
	text = italicRe.ReplaceAllString(text, "$1")
	text = codeRe.ReplaceAllString(text, "$1")
	text = linkRe.ReplaceAllString(text, "$1")
	return StripHTML(text)
}

// StripBold collapses **bold** spans to their inner text.
func StripBold(s string) string {
	return boldRe.ReplaceAllString(s, "$1")
}

// StripHTML removes HTML elements and keeps their text. Entities are
// always decoded, so "&lt;br&gt;" reads as "<br>" with or without
// surrounding tags.
func StripHTML(s string) string {
	return html.UnescapeString(strictPolicy.Sanitize(s))
}

// CleanCell applies the table-cell cleanup: bold markers collapsed and any
// <...> span removed.
func CleanCell(cell string) string {
	cell = StripBold(cell)
	return tagRe.ReplaceAllString(cell, "")
}
