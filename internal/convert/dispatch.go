// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/draphael123/conversions/internal/delimited"
	"github.com/draphael123/conversions/internal/layout"
	"github.com/draphael123/conversions/internal/markup"
	"github.com/draphael123/conversions/internal/pdfdoc"
	"github.com/draphael123/conversions/internal/richdoc"
	"github.com/draphael123/conversions/internal/table"
	"github.com/draphael123/conversions/pkg/types"
)

// Dispatcher selects the pipeline for a conversion kind and runs it over
// one input. Each conversion is a pure function of the input bytes and the
// kind; the dispatcher holds only configuration.
type Dispatcher struct {
	cfg    types.PipelineConfig
	quotes delimited.QuotePolicy
	tables table.Options
	word   richdoc.Decoder
	pdf    *pdfdoc.Encoder
	log    zerolog.Logger
}

// NewDispatcher builds a dispatcher from cfg. Zero config values take their
// defaults. A nil word decoder selects the built-in .docx decoder.
func NewDispatcher(cfg types.PipelineConfig, word richdoc.Decoder, log zerolog.Logger) (*Dispatcher, error) {
	cfg.Defaults()

	quotes, err := delimited.ParseQuotePolicy(cfg.CSV.QuotePolicy)
	if err != nil {
		return nil, err
	}
	if err := (layout.Options{
		PageHeight: cfg.Layout.PageHeight,
		Margin:     cfg.Layout.Margin,
		LineHeight: cfg.Layout.LineHeight,
	}).Validate(); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	enc, err := pdfdoc.NewEncoder(cfg.Layout)
	if err != nil {
		return nil, fmt.Errorf("pdf encoder: %w", err)
	}
	if word == nil {
		word = richdoc.DocxDecoder{}
	}

	return &Dispatcher{
		cfg:    cfg,
		quotes: quotes,
		tables: table.Options{HeaderRow: !cfg.Markdown.SkipHeaderRow},
		word:   word,
		pdf:    enc,
		log:    log,
	}, nil
}

// Convert runs the pipeline for kind over data and returns the named
// artifact. Failures of the conversion itself are *Error values.
func (d *Dispatcher) Convert(name string, data []byte, kind types.ConversionKind) (*types.Artifact, error) {
	d.log.Debug().Str("file", name).Str("kind", string(kind)).Int("bytes", len(data)).Msg("dispatching")

	var (
		content []byte
		err     error
	)
	switch kind {
	case types.KindMarkdownToCSV:
		content, err = d.markdownToCSV(data)
	case types.KindMarkdownToPDF:
		content, err = d.textToPDF(markup.Strip(decodeText(data)))
	case types.KindWordToPDF:
		content, err = d.wordToPDF(data)
	case types.KindCSVToJSON:
		content, err = d.csvToJSON(data)
	case types.KindJSONToCSV:
		content, err = d.jsonToCSV(data)
	case types.KindTextToPDF:
		content, err = d.textToPDF(decodeText(data))
	default:
		return nil, fmt.Errorf("unknown conversion kind %q", kind)
	}
	if err != nil {
		return nil, err
	}

	return &types.Artifact{
		Name:        OutputName(name, d.cfg.Spec(kind), kind),
		Content:     content,
		ContentType: kind.ContentType(),
	}, nil
}

func (d *Dispatcher) markdownToCSV(data []byte) ([]byte, error) {
	rows := table.ExtractWith(decodeText(data), d.tables)
	if len(rows) == 0 {
		return nil, newError(NoTableFound, nil, "no table found")
	}
	return []byte(delimited.Encode(rows)), nil
}

func (d *Dispatcher) wordToPDF(data []byte) ([]byte, error) {
	text, err := richdoc.Extract(d.word, data)
	if err != nil {
		return nil, newError(DecodeFailure, err, "decoding document")
	}
	return d.textToPDF(text)
}

func (d *Dispatcher) textToPDF(text string) ([]byte, error) {
	placements := layout.Flow(text, d.pdf.LayoutOptions())
	out, err := d.pdf.Encode(placements)
	if err != nil {
		return nil, fmt.Errorf("encoding pdf: %w", err)
	}
	d.log.Debug().Int("lines", len(placements)).Int("pages", layout.PageCount(placements)).Msg("laid out pdf")
	return out, nil
}

func (d *Dispatcher) csvToJSON(data []byte) ([]byte, error) {
	records, err := delimited.Decode(decodeText(data), d.quotes)
	if err != nil {
		return nil, newError(DecodeFailure, err, "parsing csv")
	}
	if len(records) == 0 {
		return nil, newError(EmptyInput, nil, "csv has no data rows")
	}
	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding json: %w", err)
	}
	return out, nil
}

func (d *Dispatcher) jsonToCSV(data []byte) ([]byte, error) {
	records, err := parseRecords([]byte(decodeText(data)))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, newError(EmptyInput, nil, "json array is empty")
	}
	if records[0].Len() == 0 {
		return nil, newError(EmptyInput, nil, "first json record has no fields")
	}
	return []byte(delimited.EncodeRecords(records)), nil
}

// parseRecords reads a JSON array of objects, or a single object, into
// records that keep each object's key order.
func parseRecords(data []byte) ([]types.Record, error) {
	if !gjson.ValidBytes(data) {
		return nil, newError(DecodeFailure, nil, "invalid json")
	}
	root := gjson.ParseBytes(data)

	var elems []gjson.Result
	switch {
	case root.IsArray():
		elems = root.Array()
	case root.IsObject():
		elems = []gjson.Result{root}
	default:
		return nil, newError(DecodeFailure, nil, "json must be an object or an array of objects, got %s", root.Type)
	}

	records := make([]types.Record, 0, len(elems))
	for _, el := range elems {
		rec := types.NewRecord()
		if el.IsObject() {
			el.ForEach(func(key, value gjson.Result) bool {
				rec.Set(key.String(), cellValue(value))
				return true
			})
		}
		records = append(records, rec)
	}
	return records, nil
}

// cellValue renders a JSON value as CSV cell text: strings verbatim, null
// empty, everything else as its JSON literal.
func cellValue(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return ""
	case gjson.String:
		return v.String()
	}
	return v.Raw
}

// decodeText returns data as a string without a leading UTF-8 byte order mark.
func decodeText(data []byte) string {
	return strings.TrimPrefix(string(data), "\ufeff")
}
