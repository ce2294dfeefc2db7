// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdfdoc renders laid-out lines as a PDF document using the PDF
// core fonts and reads page counts back from PDF bytes.
package pdfdoc

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/draphael123/conversions/internal/layout"
	"github.com/draphael123/conversions/pkg/types"
)

// creationDate is stamped into every document so identical input yields
// identical bytes.
var creationDate = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

func init() {
	// pdfcpu otherwise creates a config directory under the user's home on
	// first use.
	api.DisableConfigDir()
}

// Encoder writes placements to PDF pages. It is not safe for concurrent use.
type Encoder struct {
	cfg types.LayoutConfig

	// measurer is a scratch document used only for string widths.
	measurer  *fpdf.Fpdf
	translate func(string) string
}

// NewEncoder returns an encoder for the given page geometry and font.
func NewEncoder(cfg types.LayoutConfig) (*Encoder, error) {
	if cfg.PageWidth <= 0 || cfg.PageHeight <= 0 {
		return nil, fmt.Errorf("page size must be positive, got %vx%v", cfg.PageWidth, cfg.PageHeight)
	}
	if cfg.Margin < 0 {
		return nil, fmt.Errorf("margin must not be negative, got %v", cfg.Margin)
	}
	if cfg.PageWidth-2*cfg.Margin <= 0 {
		return nil, fmt.Errorf("page width %v leaves no room inside margin %v", cfg.PageWidth, cfg.Margin)
	}
	if cfg.FontSize <= 0 {
		return nil, fmt.Errorf("font size must be positive, got %v", cfg.FontSize)
	}

	e := &Encoder{cfg: cfg}
	e.measurer = e.newDocument()
	if err := e.measurer.Error(); err != nil {
		return nil, fmt.Errorf("font %q: %w", cfg.FontFamily, err)
	}
	e.translate = e.measurer.UnicodeTranslatorFromDescriptor("")
	return e, nil
}

// LayoutOptions returns flow options matching the encoder's page, with
// wrapping measured in the configured font when cfg.Wrap is set.
func (e *Encoder) LayoutOptions() layout.Options {
	return layout.Options{
		PageHeight: e.cfg.PageHeight,
		Margin:     e.cfg.Margin,
		LineHeight: e.cfg.LineHeight,
		MaxWidth:   e.cfg.MaxWidth(),
		Measure:    e.Measure,
	}
}

// Measure returns the rendered width of s in millimetres. Characters
// outside cp1252 are measured as the substitute the encoder will print.
func (e *Encoder) Measure(s string) float64 {
	return e.measurer.GetStringWidth(e.translate(s))
}

// Encode renders placements and validates the result. Placement pages must
// be non-decreasing; an empty slice produces a single blank page.
func (e *Encoder) Encode(placements []layout.Placement) ([]byte, error) {
	pdf := e.newDocument()
	pdf.AddPage()

	page := 0
	for _, p := range placements {
		if p.Page < page {
			return nil, fmt.Errorf("placement on page %d after page %d", p.Page, page)
		}
		for page < p.Page {
			pdf.AddPage()
			page++
		}
		if p.Text == "" {
			continue
		}
		pdf.Text(p.X, p.Y, e.translate(p.Text))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}

	got, err := PageCount(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("validating pdf: %w", err)
	}
	if want := page + 1; got != want {
		return nil, fmt.Errorf("validating pdf: %d pages written, %d expected", got, want)
	}
	return buf.Bytes(), nil
}

func (e *Encoder) newDocument() *fpdf.Fpdf {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: e.cfg.PageWidth, Ht: e.cfg.PageHeight},
	})
	pdf.SetMargins(e.cfg.Margin, e.cfg.Margin, e.cfg.Margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCatalogSort(true)
	pdf.SetCreator("conversions", false)
	pdf.SetCreationDate(creationDate)
	pdf.SetModificationDate(creationDate)
	pdf.SetFont(e.cfg.FontFamily, "", e.cfg.FontSize)
	return pdf
}

// PageCount parses and validates data as a PDF and returns its page count.
func PageCount(data []byte) (int, error) {
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return 0, fmt.Errorf("pdfcpu read: %w", err)
	}
	return ctx.PageCount, nil
}
