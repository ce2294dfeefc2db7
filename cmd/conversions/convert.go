package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/draphael123/conversions/internal/container"
	"github.com/draphael123/conversions/internal/convert"
	"github.com/draphael123/conversions/internal/journal"
	"github.com/draphael123/conversions/internal/manifest"
	"github.com/draphael123/conversions/internal/richdoc"
	"github.com/draphael123/conversions/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert files with one conversion kind",
	Long: `Convert reads each file, applies the conversion named by --kind and
writes the result to the output directory with the target extension.

Files are processed one at a time in the order given. Files whose extension
is not accepted by the kind are skipped unless --force is set. A YAML
manifest (--manifest) can list files with a kind per file.

Kinds: markdown-to-csv, markdown-to-pdf, word-to-pdf, csv-to-json,
json-to-csv, text-to-pdf. Run "conversions kinds" for details.`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("kind", "", "conversion kind applied to the file arguments")
	convertCmd.Flags().String("out-dir", "", "output directory (default from config: converted)")
	convertCmd.Flags().String("manifest", "", "YAML manifest listing files and kinds")
	convertCmd.Flags().String("report", "", "write a YAML run report to this path")
	convertCmd.Flags().String("csv-quotes", "", "CSV decoding policy: naive or rfc4180")
	convertCmd.Flags().String("word-decoder", "", "Word decoder: builtin or pandoc (container)")
	convertCmd.Flags().Bool("skip-header-row", false, "drop the Markdown table header line from CSV output")
	convertCmd.Flags().Bool("force", false, "convert files even when their extension is not accepted by the kind")
	convertCmd.Flags().Bool("no-progress", false, "disable the progress bar")

	_ = viper.BindPFlag("output.dir", convertCmd.Flags().Lookup("out-dir"))
	_ = viper.BindPFlag("csv.quote_policy", convertCmd.Flags().Lookup("csv-quotes"))
	_ = viper.BindPFlag("word.decoder", convertCmd.Flags().Lookup("word-decoder"))
	_ = viper.BindPFlag("markdown.skip_header_row", convertCmd.Flags().Lookup("skip-header-row"))

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	kindName, _ := cmd.Flags().GetString("kind")
	manifestPath, _ := cmd.Flags().GetString("manifest")
	reportPath, _ := cmd.Flags().GetString("report")
	force, _ := cmd.Flags().GetBool("force")
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	var kind types.ConversionKind
	if kindName != "" {
		if kind, err = types.ParseKind(kindName); err != nil {
			return err
		}
	}

	jobs, outDir, err := collectJobs(args, kind, manifestPath, cfg.Output.Dir, cmd.Flags().Changed("out-dir"))
	if err != nil {
		return err
	}
	jobs = filterAccepted(jobs, cfg, force, os.Stdout)
	if len(jobs) == 0 {
		return fmt.Errorf("no input files to convert")
	}

	word, err := wordDecoder(cfg, jobs)
	if err != nil {
		return err
	}
	dispatcher, err := convert.NewDispatcher(cfg, word, logger)
	if err != nil {
		return err
	}

	b := &types.Batch{}
	b.Add(jobs...)

	ctx := context.Background()
	var observers []convert.Observer
	var runID string

	if cfg.Journal.Path != "" {
		j, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			return err
		}
		defer j.Close()

		if runID, err = j.BeginRun(ctx); err != nil {
			return err
		}
		observers = append(observers, j.Observer(ctx, runID, func(err error) {
			logger.Warn().Err(err).Msg("journal write failed")
		}))
		defer func() {
			if err := j.FinishRun(ctx, runID, b.Result()); err != nil {
				logger.Warn().Err(err).Msg("journal write failed")
			}
		}()
	}

	if !noProgress && len(jobs) > 1 {
		bar := progressbar.NewOptions(len(jobs),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("converting"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetRenderBlankState(true),
		)
		observers = append(observers, func(*types.Job, int, int) { _ = bar.Add(1) })
		defer func() { _ = bar.Finish() }()
	}

	o := convert.NewOrchestrator(dispatcher, &statusWriter{w: os.Stdout}, logger)
	o.Observe = chainObservers(observers)
	result := o.Run(b)

	var writeErrs []error
	for _, art := range b.Artifacts() {
		path, err := convert.WriteArtifact(art, outDir)
		if err != nil {
			writeErrs = append(writeErrs, err)
			continue
		}
		logger.Debug().Str("path", path).Int("bytes", art.Size()).Msg("artifact written")
	}

	if reportPath != "" {
		r := manifest.NewReport(b, outDir, runID, time.Now().UTC())
		if err := manifest.WriteReport(reportPath, r); err != nil {
			writeErrs = append(writeErrs, err)
		} else {
			fmt.Fprintf(os.Stdout, "Report written to %s\n", reportPath)
		}
	}

	if err := errors.Join(writeErrs...); err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed to convert", result.Failed)
	}
	return nil
}

// collectJobs builds jobs from the manifest (if any) followed by the file
// arguments, and returns the output directory to use. A manifest's
// output_dir overrides the configured directory but not an explicit flag.
func collectJobs(args []string, kind types.ConversionKind, manifestPath, outDir string, outDirFlag bool) ([]*types.Job, string, error) {
	var jobs []*types.Job

	if manifestPath != "" {
		m, err := manifest.Read(manifestPath)
		if err != nil {
			return nil, "", err
		}
		mjobs, err := m.Jobs(kind)
		if err != nil {
			return nil, "", err
		}
		jobs = append(jobs, mjobs...)
		if m.OutputDir != "" && !outDirFlag {
			outDir = m.OutputDir
		}
	}

	if len(args) > 0 && kind == "" {
		return nil, "", fmt.Errorf("--kind is required for file arguments (one of: %s)", kindNames())
	}
	for _, p := range args {
		jobs = append(jobs, types.FileJob(p, kind))
	}
	return jobs, outDir, nil
}

// filterAccepted drops jobs whose file extension the kind does not accept,
// reporting each skipped file to w. With force every job is kept.
func filterAccepted(jobs []*types.Job, cfg types.PipelineConfig, force bool, w io.Writer) []*types.Job {
	if force {
		return jobs
	}
	kept := jobs[:0]
	for _, j := range jobs {
		spec := cfg.Spec(j.Kind)
		if spec.Accepts(j.Name) {
			kept = append(kept, j)
			continue
		}
		fmt.Fprintf(w, "%s %s (%s expects %s)\n",
			color.YellowString("skipped:"), j.Name, j.Kind, strings.Join(spec.Extensions, ", "))
	}
	return kept
}

// wordDecoder returns the configured Word decoder. The pandoc decoder needs
// a container runtime and is only set up when a word-to-pdf job exists.
func wordDecoder(cfg types.PipelineConfig, jobs []*types.Job) (richdoc.Decoder, error) {
	switch cfg.Word.Decoder {
	case types.WordDecoderBuiltin, "":
		return richdoc.DocxDecoder{}, nil
	case types.WordDecoderPandoc:
	default:
		return nil, fmt.Errorf("unknown word decoder %q (want builtin or pandoc)", cfg.Word.Decoder)
	}

	needed := false
	for _, j := range jobs {
		if j.Kind == types.KindWordToPDF {
			needed = true
			break
		}
	}
	if !needed {
		return richdoc.DocxDecoder{}, nil
	}

	rt, err := container.DetectRuntime()
	if err != nil {
		return nil, err
	}
	return richdoc.NewPandocDecoder(rt)
}

func chainObservers(obs []convert.Observer) convert.Observer {
	if len(obs) == 0 {
		return nil
	}
	return func(j *types.Job, index, total int) {
		for _, o := range obs {
			o(j, index, total)
		}
	}
}

// statusWriter colours the status word at the start of each orchestrator
// line. Colour is disabled automatically when stdout is not a terminal.
type statusWriter struct {
	w io.Writer
}

var statusColors = []struct {
	prefix string
	paint  func(a ...interface{}) string
}{
	{"converted:", color.New(color.FgGreen).SprintFunc()},
	{"failed:", color.New(color.FgRed).SprintFunc()},
	{"\nBatch summary:", color.New(color.Bold).SprintFunc()},
}

func (s *statusWriter) Write(p []byte) (int, error) {
	line := string(p)
	for _, c := range statusColors {
		if strings.HasPrefix(line, c.prefix) {
			line = c.paint(c.prefix) + line[len(c.prefix):]
			break
		}
	}
	if _, err := io.WriteString(s.w, line); err != nil {
		return 0, err
	}
	return len(p), nil
}

func kindNames() string {
	names := make([]string, 0, len(types.AllKinds()))
	for _, k := range types.AllKinds() {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}
