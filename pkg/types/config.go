package types

// LayoutConfig holds page geometry and font settings for PDF output.
// Lengths are in millimetres.
type LayoutConfig struct {
	// PageWidth is the page width (default 210, A4).
	PageWidth float64 `json:"page_width" yaml:"page_width" mapstructure:"page_width"`

	// PageHeight is the page height (default 297, A4).
	PageHeight float64 `json:"page_height" yaml:"page_height" mapstructure:"page_height"`

	// Margin applies to all four sides (default 20).
	Margin float64 `json:"margin" yaml:"margin" mapstructure:"margin"`

	// LineHeight is the fixed vertical advance per line (default 7).
	LineHeight float64 `json:"line_height" yaml:"line_height" mapstructure:"line_height"`

	// FontFamily is a PDF core font name (default "Helvetica").
	FontFamily string `json:"font_family" yaml:"font_family" mapstructure:"font_family"`

	// FontSize is in points (default 11).
	FontSize float64 `json:"font_size" yaml:"font_size" mapstructure:"font_size"`

	// Wrap enables word wrapping to the printable width.
	Wrap bool `json:"wrap" yaml:"wrap" mapstructure:"wrap"`
}

// MaxWidth returns the printable width, or 0 when wrapping is disabled.
func (c LayoutConfig) MaxWidth() float64 {
	if !c.Wrap {
		return 0
	}
	return c.PageWidth - 2*c.Margin
}

// MarkdownConfig holds settings for Markdown table extraction.
type MarkdownConfig struct {
	// SkipHeaderRow drops the table's header line and keeps only the rows
	// after the separator.
	SkipHeaderRow bool `json:"skip_header_row" yaml:"skip_header_row" mapstructure:"skip_header_row"`
}

// CSVConfig holds settings for CSV decoding.
type CSVConfig struct {
	// QuotePolicy is "naive" (split on every comma) or "rfc4180".
	QuotePolicy string `json:"quote_policy" yaml:"quote_policy" mapstructure:"quote_policy"`
}

// WordDecoder selects the Word-to-HTML backend.
type WordDecoder string

const (
	WordDecoderBuiltin WordDecoder = "builtin"
	WordDecoderPandoc  WordDecoder = "pandoc"
)

// WordConfig holds settings for Word document decoding.
type WordConfig struct {
	// Decoder selects the backend: builtin or pandoc (container based).
	Decoder WordDecoder `json:"decoder" yaml:"decoder" mapstructure:"decoder"`
}

// OutputConfig holds settings for writing artifacts.
type OutputConfig struct {
	// Dir is the directory artifacts are written to (default "converted").
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`
}

// JournalConfig holds settings for the run journal.
type JournalConfig struct {
	// Path is the SQLite database path. Empty disables the journal.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is trace, debug, info, warn or error (default info).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is console or json (default console).
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// PipelineConfig groups all configuration for the conversions tool.
type PipelineConfig struct {
	Layout   LayoutConfig                `json:"layout" yaml:"layout" mapstructure:"layout"`
	Markdown MarkdownConfig              `json:"markdown" yaml:"markdown" mapstructure:"markdown"`
	CSV      CSVConfig                   `json:"csv" yaml:"csv" mapstructure:"csv"`
	Word     WordConfig                  `json:"word" yaml:"word" mapstructure:"word"`
	Output   OutputConfig                `json:"output" yaml:"output" mapstructure:"output"`
	Journal  JournalConfig               `json:"journal" yaml:"journal" mapstructure:"journal"`
	Log      LogConfig                   `json:"log" yaml:"log" mapstructure:"log"`
	Kinds    map[ConversionKind]KindSpec `json:"kinds,omitempty" yaml:"kinds,omitempty" mapstructure:"kinds"`
}

// DefaultLayout returns A4 portrait with a 20 mm margin and 7 mm lines.
func DefaultLayout() LayoutConfig {
	return LayoutConfig{
		PageWidth:  210,
		PageHeight: 297,
		Margin:     20,
		LineHeight: 7,
		FontFamily: "Helvetica",
		FontSize:   11,
		Wrap:       true,
	}
}

// Defaults fills zero values. A zero margin is kept since it is a valid
// setting; only a negative one is replaced. Kind specs missing from the config are taken
// from DefaultKindSpecs; configured specs with no extensions keep the
// default extensions.
func (c *PipelineConfig) Defaults() {
	d := DefaultLayout()
	if c.Layout == (LayoutConfig{}) {
		c.Layout = d
	}
	if c.Layout.PageWidth <= 0 {
		c.Layout.PageWidth = d.PageWidth
	}
	if c.Layout.PageHeight <= 0 {
		c.Layout.PageHeight = d.PageHeight
	}
	if c.Layout.Margin < 0 {
		c.Layout.Margin = d.Margin
	}
	if c.Layout.LineHeight <= 0 {
		c.Layout.LineHeight = d.LineHeight
	}
	if c.Layout.FontFamily == "" {
		c.Layout.FontFamily = d.FontFamily
	}
	if c.Layout.FontSize <= 0 {
		c.Layout.FontSize = d.FontSize
	}
	if c.CSV.QuotePolicy == "" {
		c.CSV.QuotePolicy = "naive"
	}
	if c.Word.Decoder == "" {
		c.Word.Decoder = WordDecoderBuiltin
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "converted"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}

	specs := DefaultKindSpecs()
	if c.Kinds == nil {
		c.Kinds = make(map[ConversionKind]KindSpec, len(specs))
	}
	for k, def := range specs {
		got, ok := c.Kinds[k]
		if !ok {
			c.Kinds[k] = def
			continue
		}
		if len(got.Extensions) == 0 {
			got.Extensions = def.Extensions
		}
		if got.Hint == "" {
			got.Hint = def.Hint
		}
		c.Kinds[k] = got
	}
}

// Spec returns the kind spec for k, falling back to the default.
func (c PipelineConfig) Spec(k ConversionKind) KindSpec {
	if s, ok := c.Kinds[k]; ok {
		return s
	}
	return DefaultKindSpecs()[k]
}
