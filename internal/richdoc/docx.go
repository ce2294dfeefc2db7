// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package richdoc

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"strings"
)

// maxXMLDepth bounds element nesting in document.xml.
const maxXMLDepth = 256

// DocxDecoder renders the body of an OOXML (.docx) document as simple HTML:
// headings, paragraphs, tables and line breaks.
type DocxDecoder struct{}

// ToHTML reads word/document.xml from the archive in data.
func (DocxDecoder) ToHTML(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("not a .docx archive: %w", err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errors.New("word/document.xml not found in archive")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", fmt.Errorf("open document.xml: %w", err)
	}
	defer rc.Close()

	return renderDocumentXML(rc)
}

// renderDocumentXML walks the WordprocessingML token stream. Text is only
// collected inside <w:t> runs; paragraph styles named like headings become
// <h1>..<h6>.
func renderDocumentXML(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var out strings.Builder
	var para strings.Builder
	var style string
	inPara, inText := false, false
	depth := 0

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth > maxXMLDepth {
				return "", fmt.Errorf("xml nesting depth exceeds %d", maxXMLDepth)
			}
			switch t.Name.Local {
			case "p":
				inPara = true
				para.Reset()
				style = ""
			case "pStyle":
				if inPara {
					style = attrValue(t, "val")
				}
			case "t":
				inText = true
			case "tab":
				if inPara {
					para.WriteByte('\t')
				}
			case "br", "cr":
				if inPara {
					para.WriteString("<br>")
				}
			case "tbl":
				out.WriteString("<table>")
			case "tr":
				out.WriteString("<tr>")
			case "tc":
				out.WriteString("<td>")
			}

		case xml.CharData:
			if inPara && inText {
				para.WriteString(html.EscapeString(string(t)))
			}

		case xml.EndElement:
			depth--
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if !inPara {
					continue
				}
				inPara = false
				text := strings.TrimSpace(para.String())
				if text == "" {
					continue
				}
				if level := headingLevel(style); level > 0 {
					fmt.Fprintf(&out, "<h%d>%s</h%d>", level, text, level)
				} else {
					fmt.Fprintf(&out, "<p>%s</p>", text)
				}
			case "tc":
				out.WriteString("</td>")
			case "tr":
				out.WriteString("</tr>")
			case "tbl":
				out.WriteString("</table>")
			}
		}
	}

	return out.String(), nil
}

func attrValue(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// headingLevel maps a paragraph style id to a heading level, 0 for body
// text: "Heading2" → 2, "Title" → 1, "Subtitle" → 2.
func headingLevel(style string) int {
	lower := strings.ToLower(style)

	switch lower {
	case "title":
		return 1
	case "subtitle":
		return 2
	}

	for _, prefix := range []string{"heading", "titre", "überschrift"} {
		if strings.HasPrefix(lower, prefix) {
			rest := strings.TrimSpace(lower[len(prefix):])
			if len(rest) == 1 && rest[0] >= '1' && rest[0] <= '6' {
				return int(rest[0] - '0')
			}
		}
	}
	return 0
}
