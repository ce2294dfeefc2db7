// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns one input document into one output artifact and
// runs batches of such conversions. The Dispatcher picks the pipeline for a
// conversion kind; the Orchestrator walks a batch in order, recording a
// per-job outcome without ever aborting on a failed job.
package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/draphael123/conversions/pkg/types"
)

// Converter transforms one named input into an artifact. The Dispatcher is
// the production implementation.
type Converter interface {
	Convert(name string, data []byte, kind types.ConversionKind) (*types.Artifact, error)
}

// Observer is notified after each processed job. index is the job's
// position in the batch and total the batch length.
type Observer func(job *types.Job, index, total int)

// Orchestrator processes batches sequentially.
type Orchestrator struct {
	conv Converter
	w    io.Writer
	log  zerolog.Logger

	// Observe, when set, is called after every job the run processes.
	Observe Observer
}

// NewOrchestrator returns an orchestrator that converts with c and prints
// per-file status lines to w. A nil w discards them.
func NewOrchestrator(c Converter, w io.Writer, log zerolog.Logger) *Orchestrator {
	if w == nil {
		w = io.Discard
	}
	return &Orchestrator{conv: c, w: w, log: log}
}

// Run processes every pending job in b in order and returns the batch
// counts. Jobs that already reached a terminal status are skipped.
func (o *Orchestrator) Run(b *types.Batch) types.BatchResult {
	total := len(b.Jobs)
	for i, job := range b.Jobs {
		if job.Status.Terminal() {
			continue
		}
		o.runJob(b, job)
		if o.Observe != nil {
			o.Observe(job, i, total)
		}
	}

	result := b.Result()
	fmt.Fprintf(o.w, "\nBatch summary: %d converted, %d failed (total: %d)\n",
		result.Converted, result.Failed, result.Total())
	o.log.Info().Int("converted", result.Converted).Int("failed", result.Failed).Msg("batch finished")
	return result
}

func (o *Orchestrator) runJob(b *types.Batch, job *types.Job) {
	job.Status = types.JobInProgress

	data, err := job.Load()
	if err != nil {
		o.fail(b, job, newError(ReadFailure, err, "reading input"))
		return
	}

	art, err := o.conv.Convert(job.Name, data, job.Kind)
	if err != nil {
		o.fail(b, job, err)
		return
	}

	job.Artifact = art
	job.Status = types.JobConverted
	b.Converted++
	fmt.Fprintf(o.w, "converted: %s -> %s\n", job.Name, art.Name)
	o.log.Debug().Str("job", job.ID).Str("file", job.Name).Str("kind", string(job.Kind)).
		Int("bytes", art.Size()).Msg("converted")
}

func (o *Orchestrator) fail(b *types.Batch, job *types.Job, err error) {
	job.Artifact = nil
	job.Err = err
	job.Status = types.JobFailed
	b.Failed++
	fmt.Fprintf(o.w, "failed:  %s (%v)\n", job.Name, err)
	o.log.Warn().Str("job", job.ID).Str("file", job.Name).Str("kind", string(job.Kind)).
		Str("error_kind", string(KindOf(err))).Err(err).Msg("conversion failed")
}

// ConvertBatch runs b through c, printing per-file status to w and
// returning the counts.
func ConvertBatch(c Converter, b *types.Batch, w io.Writer) types.BatchResult {
	return NewOrchestrator(c, w, zerolog.Nop()).Run(b)
}

// ConvertPaths builds a batch of file jobs of one kind from paths and
// delegates to ConvertBatch.
func ConvertPaths(c Converter, paths []string, kind types.ConversionKind, w io.Writer) (*types.Batch, types.BatchResult) {
	b := &types.Batch{}
	for _, p := range paths {
		b.Add(types.FileJob(p, kind))
	}
	return b, ConvertBatch(c, b, w)
}

// WriteArtifact writes a to dir, creating the directory when needed, and
// returns the written path.
func WriteArtifact(a *types.Artifact, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, filepath.Base(a.Name))
	if err := os.WriteFile(path, a.Content, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
