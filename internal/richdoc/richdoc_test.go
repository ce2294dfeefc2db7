// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package richdoc

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildDocx returns a minimal .docx archive holding body as document.xml.
func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = fw.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body + `</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestDocxDecoder_ToHTML(t *testing.T) {
	data := buildDocx(t,
		`<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>Quarterly Report</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t xml:space="preserve">Revenue </w:t></w:r><w:r><w:t>&amp; costs</w:t></w:r></w:p>`+
			`<w:p></w:p>`+
			`<w:p><w:r><w:t>line one</w:t><w:br/><w:t>line two</w:t></w:r></w:p>`+
			`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>A1</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>B1</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`)

	got, err := DocxDecoder{}.ToHTML(data)
	require.NoError(t, err)

	assert.Contains(t, got, "<h1>Quarterly Report</h1>")
	assert.Contains(t, got, "<p>Revenue &amp; costs</p>")
	assert.Contains(t, got, "<p>line one<br>line two</p>")
	assert.Contains(t, got, "<table><tr><td><p>A1</p></td><td><p>B1</p></td></tr></table>")
	assert.NotContains(t, got, "<p></p>")
}

func TestDocxDecoder_NotAnArchive(t *testing.T) {
	_, err := DocxDecoder{}.ToHTML([]byte("\xd0\xcf\x11\xe0 legacy binary doc"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a .docx archive")
}

func TestDocxDecoder_MissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	_, err := w.Create("word/styles.xml")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = DocxDecoder{}.ToHTML(buf.Bytes())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "word/document.xml not found")
}

func TestDocxDecoder_XMLBomb(t *testing.T) {
	body := strings.Repeat("<w:p>", 300) + "<w:r><w:t>deep</w:t></w:r>" + strings.Repeat("</w:p>", 300)
	_, err := DocxDecoder{}.ToHTML(buildDocx(t, body))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nesting depth")
}

func TestDocxDecoder_MalformedXML(t *testing.T) {
	_, err := DocxDecoder{}.ToHTML(buildDocx(t, "<w:p><w:r><w:t>open"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse document.xml")
}

func TestHeadingLevel(t *testing.T) {
	tests := map[string]int{
		"Heading1":   1,
		"heading 3":  3,
		"Title":      1,
		"Subtitle":   2,
		"Titre2":     2,
		"Normal":     0,
		"Heading9":   0,
		"ListBullet": 0,
	}
	for style, want := range tests {
		assert.Equal(t, want, headingLevel(style), "headingLevel(%q)", style)
	}
}

func TestExtractText(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "blocks become lines",
			html: "<h1>Title</h1><p>First para.</p><p>Second para.</p>",
			want: "Title\nFirst para.\nSecond para.",
		},
		{
			name: "inline whitespace collapses",
			html: "<p>Hello\n   <strong>big</strong>\n world</p>",
			want: "Hello big world",
		},
		{
			name: "br breaks lines",
			html: "<p>a<br>b<br><br>c</p>",
			want: "a\nb\n\nc",
		},
		{
			name: "runs of br collapse to one blank line",
			html: "<p>a<br><br><br>b</p>",
			want: "a\n\nb",
		},
		{
			name: "blank lines in pre collapse",
			html: "<pre>x\n\n\n\ny</pre>",
			want: "x\n\ny",
		},
		{
			name: "entities decoded",
			html: "<p>R&amp;D &lt;team&gt;</p>",
			want: "R&D <team>",
		},
		{
			name: "script and style skipped",
			html: "<html><head><title>t</title><style>p{}</style></head><body><script>x()</script><p>kept</p></body></html>",
			want: "kept",
		},
		{
			name: "lists and tables",
			html: "<ul><li>one</li><li>two</li></ul><table><tr><td><p>A1</p></td><td><p>B1</p></td></tr></table>",
			want: "one\ntwo\nA1\nB1",
		},
		{
			name: "pre keeps line structure",
			html: "<pre>x  = 1\ny  = 2</pre>",
			want: "x  = 1\ny  = 2",
		},
		{
			name: "empty document",
			html: "",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractText(tt.html)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_Docx(t *testing.T) {
	data := buildDocx(t,
		`<w:p><w:pPr><w:pStyle w:val="Title"/></w:pPr><w:r><w:t>Memo</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t>Please review.</w:t></w:r></w:p>`)

	text, err := Extract(DocxDecoder{}, data)
	require.NoError(t, err)
	assert.Equal(t, "Memo\nPlease review.", text)
}

// fakeRuntime implements container.Runtime for PandocDecoder tests.
type fakeRuntime struct {
	imageErr error
	runErr   error
	output   string
	gotArgs  []string
	gotInput string
}

func (f *fakeRuntime) Name() string    { return "fake" }
func (f *fakeRuntime) Available() bool { return true }
func (f *fakeRuntime) ImageExists(string) error {
	return f.imageErr
}

func (f *fakeRuntime) Run(image string, args []string, stdin io.Reader, stdout io.Writer) error {
	f.gotArgs = args
	data, _ := io.ReadAll(stdin)
	f.gotInput = string(data)
	if f.runErr != nil {
		return f.runErr
	}
	_, err := io.WriteString(stdout, f.output)
	return err
}

func TestPandocDecoder(t *testing.T) {
	rt := &fakeRuntime{output: "<p>from pandoc</p>\n"}
	dec, err := NewPandocDecoder(rt)
	require.NoError(t, err)

	text, err := Extract(dec, []byte("docx-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "from pandoc", text)
	assert.Equal(t, []string{"-f", "docx", "-t", "html"}, rt.gotArgs)
	assert.Equal(t, "docx-bytes", rt.gotInput)
}

func TestPandocDecoder_MissingImage(t *testing.T) {
	_, err := NewPandocDecoder(&fakeRuntime{imageErr: errors.New("no such image")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pandoc image not available")
}

func TestPandocDecoder_Failures(t *testing.T) {
	dec, err := NewPandocDecoder(&fakeRuntime{runErr: errors.New("exit status 64")})
	require.NoError(t, err)
	_, err = dec.ToHTML([]byte("x"))
	assert.ErrorContains(t, err, "exit status 64")

	dec, err = NewPandocDecoder(&fakeRuntime{})
	require.NoError(t, err)
	_, err = dec.ToHTML([]byte("x"))
	assert.ErrorContains(t, err, "empty output")
}
