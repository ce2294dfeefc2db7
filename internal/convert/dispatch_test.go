// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draphael123/conversions/internal/pdfdoc"
	"github.com/draphael123/conversions/pkg/types"
)

func newTestDispatcher(t *testing.T, cfg types.PipelineConfig) *Dispatcher {
	t.Helper()
	d, err := NewDispatcher(cfg, nil, zerolog.Nop())
	require.NoError(t, err)
	return d
}

func TestDispatcher_MarkdownToCSV(t *testing.T) {
	d := newTestDispatcher(t, types.PipelineConfig{})

	art, err := d.Convert("t.md", []byte("# T\n| A | B |\n|---|---|\n| 1 | 2 |\n"), types.KindMarkdownToCSV)
	require.NoError(t, err)
	assert.Equal(t, "A,B\n1,2", string(art.Content))
	assert.Equal(t, "t.csv", art.Name)
	assert.Equal(t, types.ContentTypeCSV, art.ContentType)
}

func TestDispatcher_MarkdownToCSV_SkipHeaderRow(t *testing.T) {
	cfg := types.PipelineConfig{Markdown: types.MarkdownConfig{SkipHeaderRow: true}}
	d := newTestDispatcher(t, cfg)

	art, err := d.Convert("t.md", []byte("# T\n| A | B |\n|---|---|\n| 1 | 2 |\n"), types.KindMarkdownToCSV)
	require.NoError(t, err)
	assert.Equal(t, "1,2", string(art.Content))
}

func TestDispatcher_MarkdownToCSV_CleansCells(t *testing.T) {
	d := newTestDispatcher(t, types.PipelineConfig{})
	md := "| Name | Note |\n|------|------|\n| **Ada** | <em>first</em>, programmer |\n"

	art, err := d.Convert("people.markdown", []byte(md), types.KindMarkdownToCSV)
	require.NoError(t, err)
	assert.Equal(t, "Name,Note\nAda,\"first, programmer\"", string(art.Content))
	assert.Equal(t, "people.csv", art.Name)
}

func TestDispatcher_NoTableFound(t *testing.T) {
	d := newTestDispatcher(t, types.PipelineConfig{})

	art, err := d.Convert("plain.md", []byte("# Title\n\nJust prose, no pipes.\n"), types.KindMarkdownToCSV)
	assert.Nil(t, art)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoTableFound))
	assert.Equal(t, NoTableFound, KindOf(err))
}

func TestDispatcher_CSVToJSON(t *testing.T) {
	d := newTestDispatcher(t, types.PipelineConfig{})

	art, err := d.Convert("people.csv", []byte("name,age\nAda,30\nLin,\"x,y\""), types.KindCSVToJSON)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"Ada","age":"30"},{"name":"Lin","age":"\"x"}]`, string(art.Content))
	assert.Equal(t, "people.json", art.Name)
	assert.Equal(t, types.ContentTypeJSON, art.ContentType)
	// Keys keep header order and the output is indented.
	assert.True(t, strings.HasPrefix(string(art.Content), "[\n  {\n    \"name\": \"Ada\",\n    \"age\": \"30\"\n  }"))
}

func TestDispatcher_CSVToJSON_RFC4180(t *testing.T) {
	d := newTestDispatcher(t, types.PipelineConfig{CSV: types.CSVConfig{QuotePolicy: "rfc4180"}})

	art, err := d.Convert("people.csv", []byte("name,age\nAda,30\nLin,\"x,y\""), types.KindCSVToJSON)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"Ada","age":"30"},{"name":"Lin","age":"x,y"}]`, string(art.Content))
}

func TestDispatcher_CSVToJSON_HeaderOnly(t *testing.T) {
	d := newTestDispatcher(t, types.PipelineConfig{})

	for _, input := range []string{"name,age", "name,age\n\n\n", ""} {
		_, err := d.Convert("h.csv", []byte(input), types.KindCSVToJSON)
		assert.ErrorIs(t, err, ErrEmptyInput, "input %q", input)
	}
}

func TestDispatcher_JSONToCSV(t *testing.T) {
	d := newTestDispatcher(t, types.PipelineConfig{})

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "array keeps first object key order",
			input: `[{"z":"1","a":"2"},{"a":"4","z":"3"}]`,
			want:  "z,a\n1,2\n3,4",
		},
		{
			name:  "single object is one record",
			input: `{"name":"Ada","age":36}`,
			want:  "name,age\nAda,36",
		},
		{
			name:  "later records missing keys and extra keys",
			input: `[{"a":"1","b":"2"},{"a":"3","c":"9"}]`,
			want:  "a,b\n1,2\n3,",
		},
		{
			name:  "literals and nested values",
			input: `[{"n":null,"t":true,"f":1.50,"o":{"k":[1,2]}}]`,
			want:  "n,t,f,o\n,true,1.50,\"{\"\"k\"\":[1,2]}\"",
		},
		{
			name:  "cells needing quotes",
			input: `[{"note":"a, b","q":"say \"hi\""}]`,
			want:  "note,q\n\"a, b\",\"say \"\"hi\"\"\"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			art, err := d.Convert("data.json", []byte(tt.input), types.KindJSONToCSV)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(art.Content))
			assert.Equal(t, "data.csv", art.Name)
		})
	}
}

func TestDispatcher_JSONToCSV_Failures(t *testing.T) {
	d := newTestDispatcher(t, types.PipelineConfig{})

	tests := []struct {
		name  string
		input string
		want  error
	}{
		{name: "empty array", input: `[]`, want: ErrEmptyInput},
		{name: "malformed", input: `[{"a":1},`, want: ErrDecodeFailure},
		{name: "empty document", input: ``, want: ErrDecodeFailure},
		{name: "scalar", input: `42`, want: ErrDecodeFailure},
		{name: "first element not an object", input: `[1,{"a":"1"}]`, want: ErrEmptyInput},
		{name: "empty object", input: `{}`, want: ErrEmptyInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			art, err := d.Convert("bad.json", []byte(tt.input), types.KindJSONToCSV)
			assert.Nil(t, art)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDispatcher_TextToPDF(t *testing.T) {
	d := newTestDispatcher(t, types.PipelineConfig{})

	art, err := d.Convert("notes.TXT", []byte(strings.Repeat("a line of text\n", 100)), types.KindTextToPDF)
	require.NoError(t, err)
	assert.Equal(t, "notes.pdf", art.Name)
	assert.Equal(t, types.ContentTypePDF, art.ContentType)

	pages, err := pdfdoc.PageCount(art.Content)
	require.NoError(t, err)
	assert.Equal(t, 3, pages)
}

func TestDispatcher_MarkdownToPDF(t *testing.T) {
	d := newTestDispatcher(t, types.PipelineConfig{})

	art, err := d.Convert("readme.md", []byte("# Title\n\nSome **bold** and [a link](http://x).\n"), types.KindMarkdownToPDF)
	require.NoError(t, err)
	assert.Equal(t, "readme.pdf", art.Name)

	pages, err := pdfdoc.PageCount(art.Content)
	require.NoError(t, err)
	assert.Equal(t, 1, pages)
}

func TestDispatcher_WordToPDF(t *testing.T) {
	d := newTestDispatcher(t, types.PipelineConfig{})

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	fw, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = fw.Write([]byte(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		`<w:p><w:r><w:t>Hello from Word</w:t></w:r></w:p></w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	art, err := d.Convert("memo.docx", buf.Bytes(), types.KindWordToPDF)
	require.NoError(t, err)
	assert.Equal(t, "memo.pdf", art.Name)
}

func TestDispatcher_WordToPDF_DecodeFailure(t *testing.T) {
	d := newTestDispatcher(t, types.PipelineConfig{})

	_, err := d.Convert("broken.docx", []byte("not a zip archive"), types.KindWordToPDF)
	assert.ErrorIs(t, err, ErrDecodeFailure)
}

// stubDecoder returns canned HTML.
type stubDecoder struct {
	html string
	err  error
}

func (s stubDecoder) ToHTML([]byte) (string, error) { return s.html, s.err }

func TestDispatcher_InjectedWordDecoder(t *testing.T) {
	d, err := NewDispatcher(types.PipelineConfig{}, stubDecoder{html: "<p>stub</p>"}, zerolog.Nop())
	require.NoError(t, err)
	_, err = d.Convert("x.docx", nil, types.KindWordToPDF)
	require.NoError(t, err)

	d, err = NewDispatcher(types.PipelineConfig{}, stubDecoder{err: errors.New("pandoc exited 1")}, zerolog.Nop())
	require.NoError(t, err)
	_, err = d.Convert("x.docx", nil, types.KindWordToPDF)
	assert.ErrorIs(t, err, ErrDecodeFailure)
	assert.ErrorContains(t, err, "pandoc exited 1")
}

func TestDispatcher_UnknownKind(t *testing.T) {
	d := newTestDispatcher(t, types.PipelineConfig{})

	_, err := d.Convert("x.md", []byte("x"), types.ConversionKind("md-to-docx"))
	require.Error(t, err)
	assert.Equal(t, ErrorKind(""), KindOf(err))
}

func TestDispatcher_StripsBOM(t *testing.T) {
	d := newTestDispatcher(t, types.PipelineConfig{})

	art, err := d.Convert("bom.csv", []byte("\ufeffname\nAda"), types.KindCSVToJSON)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"Ada"}]`, string(art.Content))
}

func TestDispatcher_StripsBOM_JSON(t *testing.T) {
	d := newTestDispatcher(t, types.PipelineConfig{})

	art, err := d.Convert("bom.json", []byte("\ufeff[{\"a\":\"1\"}]"), types.KindJSONToCSV)
	require.NoError(t, err)
	assert.Equal(t, "a\n1", string(art.Content))
}

func TestNewDispatcher_InvalidConfig(t *testing.T) {
	_, err := NewDispatcher(types.PipelineConfig{CSV: types.CSVConfig{QuotePolicy: "loose"}}, nil, zerolog.Nop())
	assert.Error(t, err)

	cfg := types.PipelineConfig{Layout: types.DefaultLayout()}
	cfg.Layout.Margin = 200
	_, err = NewDispatcher(cfg, nil, zerolog.Nop())
	assert.Error(t, err)
}
