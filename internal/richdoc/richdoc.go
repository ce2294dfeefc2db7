// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package richdoc pulls a linear plain-text rendering out of word-processor
// documents. A Decoder turns the binary document into HTML; ExtractText
// then flattens that HTML into lines.
package richdoc

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/draphael123/conversions/internal/container"
)

// Decoder converts a binary document into HTML.
type Decoder interface {
	ToHTML(data []byte) (string, error)
}

// Extract decodes data with dec and returns its plain text.
func Extract(dec Decoder, data []byte) (string, error) {
	doc, err := dec.ToHTML(data)
	if err != nil {
		return "", err
	}
	return ExtractText(doc)
}

// ImagePandoc is the container image used by PandocDecoder.
const ImagePandoc = "pandoc/core:latest"

// PandocDecoder converts documents by piping them through pandoc in a
// container. It depends on a container.Runtime injected at construction.
type PandocDecoder struct {
	runtime container.Runtime
	image   string
}

// NewPandocDecoder creates a decoder that runs the pandoc image with rt. It
// verifies that the image exists locally before returning.
func NewPandocDecoder(rt container.Runtime) (*PandocDecoder, error) {
	if err := rt.ImageExists(ImagePandoc); err != nil {
		return nil, fmt.Errorf("pandoc image not available in %s: %w", rt.Name(), err)
	}
	return &PandocDecoder{runtime: rt, image: ImagePandoc}, nil
}

// ToHTML runs pandoc -f docx -t html over data.
func (p *PandocDecoder) ToHTML(data []byte) (string, error) {
	var out bytes.Buffer
	args := []string{"-f", "docx", "-t", "html"}
	if err := p.runtime.Run(p.image, args, bytes.NewReader(data), &out); err != nil {
		return "", fmt.Errorf("converting with pandoc: %w", err)
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("pandoc produced empty output")
	}
	return out.String(), nil
}

// ExtractText parses doc and concatenates its text nodes. Whitespace inside
// text collapses as a browser would render it; block elements end the
// current line; <br> breaks it. Script, style and head content is skipped.
func ExtractText(doc string) (string, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var w lineWriter
	var walk func(*html.Node, bool)
	walk = func(n *html.Node, pre bool) {
		switch n.Type {
		case html.TextNode:
			if pre {
				w.writeRaw(n.Data)
			} else {
				w.writeCollapsed(n.Data)
			}
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Head, atom.Noscript:
				return
			case atom.Br:
				w.newline()
				return
			case atom.Pre:
				pre = true
			}
		}

		block := n.Type == html.ElementNode && isBlock(n.DataAtom)
		if block {
			w.endLine()
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, pre)
		}
		if block {
			w.endLine()
		}
	}
	walk(root, false)

	return w.String(), nil
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Li, atom.Ul, atom.Ol, atom.Tr, atom.Table, atom.Blockquote, atom.Pre,
		atom.Section, atom.Article, atom.Header, atom.Footer, atom.Hr, atom.Dt, atom.Dd:
		return true
	}
	return false
}

// lineWriter accumulates text, tracking whether the cursor sits at the
// start of a line so leading spaces are dropped and block boundaries never
// produce more than one line break.
type lineWriter struct {
	b       strings.Builder
	line    strings.Builder
	started bool
	blank   bool // last flushed line was empty
}

func (w *lineWriter) writeCollapsed(s string) {
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space {
			w.space()
		}
		space = false
		w.line.WriteRune(r)
	}
	if space {
		w.space()
	}
}

// space appends one separating blank unless the line is empty or already
// ends in one.
func (w *lineWriter) space() {
	cur := w.line.String()
	if cur == "" || strings.HasSuffix(cur, " ") {
		return
	}
	w.line.WriteByte(' ')
}

func (w *lineWriter) writeRaw(s string) {
	parts := strings.Split(s, "\n")
	for i, p := range parts {
		if i > 0 {
			w.newline()
		}
		w.line.WriteString(p)
	}
}

// endLine flushes a non-empty current line.
func (w *lineWriter) endLine() {
	if strings.TrimSpace(w.line.String()) == "" {
		w.line.Reset()
		return
	}
	w.newline()
}

// newline flushes the current line, even when empty. A run of empty lines
// collapses to one.
func (w *lineWriter) newline() {
	text := strings.TrimRightFunc(w.line.String(), unicode.IsSpace)
	w.line.Reset()
	if text == "" && w.blank {
		return
	}
	if w.started {
		w.b.WriteByte('\n')
	}
	w.b.WriteString(text)
	w.started = true
	w.blank = text == ""
}

func (w *lineWriter) String() string {
	w.endLine()
	return strings.TrimSpace(w.b.String())
}
