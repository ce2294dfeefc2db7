// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package layout flows plain text into fixed-size pages of lines for a
// print-style document. It is a greedy single pass: no widow or orphan
// control, no hyphenation, no rebalancing.
package layout

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Measure returns the rendered width of s in layout units.
type Measure func(s string) float64

// DisplayWidth measures s in terminal display columns: one unit per
// narrow rune, two per wide (East Asian) rune.
func DisplayWidth(s string) float64 {
	return float64(runewidth.StringWidth(s))
}

// Options describes the page geometry.
type Options struct {
	// PageHeight is the full page height.
	PageHeight float64
	// Margin is both the top offset of the first line and the bottom limit.
	Margin float64
	// LineHeight is the fixed vertical advance per placed line.
	LineHeight float64
	// MaxWidth enables word wrapping when positive.
	MaxWidth float64
	// Measure sizes text for wrapping; DisplayWidth when nil.
	Measure Measure
}

// Validate rejects geometry that cannot hold a single line.
func (o Options) Validate() error {
	if o.LineHeight <= 0 {
		return fmt.Errorf("line height must be positive, got %v", o.LineHeight)
	}
	if o.Margin < 0 {
		return fmt.Errorf("margin must not be negative, got %v", o.Margin)
	}
	if o.PageHeight-o.Margin < o.Margin {
		return fmt.Errorf("page height %v leaves no room inside margin %v", o.PageHeight, o.Margin)
	}
	return nil
}

// Placement is one line positioned on a page. Page is zero-based; X and Y
// are the line's left edge and baseline measured from the top-left corner.
type Placement struct {
	Page int
	X    float64
	Y    float64
	Text string
}

// Flow splits text into literal lines, wraps each to MaxWidth when set, and
// places the results top to bottom. Before each line, if the cursor is
// below PageHeight-Margin a new page starts and the cursor returns to
// Margin. Blank lines are placed with empty text so they take up space.
func Flow(text string, opts Options) []Placement {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	measure := opts.Measure
	if measure == nil {
		measure = DisplayWidth
	}

	limit := opts.PageHeight - opts.Margin
	var out []Placement
	page := 0
	y := opts.Margin
	onPage := 0

	for _, line := range strings.Split(text, "\n") {
		subs := []string{line}
		if opts.MaxWidth > 0 {
			subs = Wrap(line, opts.MaxWidth, measure)
		}
		for _, s := range subs {
			if y > limit && onPage > 0 {
				page++
				y = opts.Margin
				onPage = 0
			}
			out = append(out, Placement{Page: page, X: opts.Margin, Y: y, Text: s})
			y += opts.LineHeight
			onPage++
		}
	}
	return out
}

// PageCount returns the number of pages the placements span.
func PageCount(placements []Placement) int {
	if len(placements) == 0 {
		return 0
	}
	return placements[len(placements)-1].Page + 1
}

// Wrap breaks line into pieces no wider than width, splitting at whitespace.
// A word wider than width on its own is broken between runes. Whitespace
// runs inside the line collapse to a single space in wrapped output. A line
// that already fits is returned unchanged.
func Wrap(line string, width float64, measure Measure) []string {
	if measure == nil {
		measure = DisplayWidth
	}
	if width <= 0 || measure(line) <= width {
		return []string{line}
	}

	words := strings.Fields(line)
	if len(words) == 0 {
		return []string{""}
	}

	var out []string
	cur := ""
	for _, w := range words {
		if measure(w) > width {
			if cur != "" {
				out = append(out, cur)
			}
			pieces := breakWord(w, width, measure)
			out = append(out, pieces[:len(pieces)-1]...)
			cur = pieces[len(pieces)-1]
			continue
		}
		if cur == "" {
			cur = w
			continue
		}
		if candidate := cur + " " + w; measure(candidate) <= width {
			cur = candidate
		} else {
			out = append(out, cur)
			cur = w
		}
	}
	if cur != "" {
		out = append(out, cur)
	}
	return out
}

// breakWord splits w into rune runs that each fit width. Every piece holds
// at least one rune so the loop always advances.
func breakWord(w string, width float64, measure Measure) []string {
	var pieces []string
	var cur []rune
	for _, r := range w {
		next := append(cur, r)
		if len(cur) > 0 && measure(string(next)) > width {
			pieces = append(pieces, string(cur))
			cur = []rune{r}
			continue
		}
		cur = next
	}
	if len(cur) > 0 {
		pieces = append(pieces, string(cur))
	}
	return pieces
}
