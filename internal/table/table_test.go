// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/draphael123/conversions/pkg/types"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		md   string
		want []types.Row
	}{
		{
			name: "rows after separator only",
			md:   "# T\n| A | B |\n|---|---|\n| 1 | 2 |\n",
			want: []types.Row{{"1", "2"}},
		},
		{
			name: "bold and tags stripped",
			md:   "|---|---|\n| **x** | a<br>b |\n| <em>y</em> | z |",
			want: []types.Row{{"x", "ab"}, {"y", "z"}},
		},
		{
			name: "no table",
			md:   "just some text\nand more",
			want: nil,
		},
		{
			name: "header without separator never emitted",
			md:   "| A | B |\n| 1 | 2 |",
			want: nil,
		},
		{
			name: "heading lines inside table skipped",
			md:   "|---|\n| a |\n# not a row\n| b |",
			want: []types.Row{{"a"}, {"b"}},
		},
		{
			name: "plain text between tables ignored, second table keeps collecting",
			md:   "|---|\n| a |\n\nprose\n| H |\n|---|\n| b |",
			want: []types.Row{{"a"}, {"H"}, {"b"}},
		},
		{
			name: "rows without closing pipe",
			md:   "|---|---|\n| 1 | 2",
			want: []types.Row{{"1", "2"}},
		},
		{
			name: "ragged rows accepted",
			md:   "|---|---|\n| 1 | 2 | 3 |\n| 4 |",
			want: []types.Row{{"1", "2", "3"}, {"4"}},
		},
		{
			name: "interior empty cells kept",
			md:   "|---|---|---|\n| 1 |  | 3 |",
			want: []types.Row{{"1", "", "3"}},
		},
		{
			name: "windows line endings",
			md:   "|---|\r\n| a |\r\n",
			want: []types.Row{{"a"}},
		},
		{
			name: "bare pipe row dropped",
			md:   "|---|\n|\n| a |",
			want: []types.Row{{"a"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.md))
		})
	}
}

func TestExtractWith_HeaderRow(t *testing.T) {
	tests := []struct {
		name string
		md   string
		want []types.Row
	}{
		{
			name: "header above separator kept",
			md:   "# T\n| A | B |\n|---|---|\n| 1 | 2 |\n",
			want: []types.Row{{"A", "B"}, {"1", "2"}},
		},
		{
			name: "header must be adjacent to the table",
			md:   "| A |\ntext\n|---|\n| 1 |",
			want: []types.Row{{"1"}},
		},
		{
			name: "later separators do not re-emit headers",
			md:   "| A |\n|---|\n| 1 |\n| B |\n|---|\n| 2 |",
			want: []types.Row{{"A"}, {"1"}, {"B"}, {"2"}},
		},
		{
			name: "header only table",
			md:   "| **A** |\n|---|",
			want: []types.Row{{"A"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractWith(tt.md, Options{HeaderRow: true}))
		})
	}
}
