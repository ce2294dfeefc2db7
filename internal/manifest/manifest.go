// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package manifest reads YAML batch manifests, which list the files of one
// run with an optional kind per file, and writes YAML run reports.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/draphael123/conversions/internal/convert"
	"github.com/draphael123/conversions/pkg/types"
)

// Manifest is the on-disk description of a batch.
//
//	kind: markdown-to-csv
//	output_dir: out
//	files:
//	  - path: notes/table.md
//	  - path: data/people.json
//	    kind: json-to-csv
type Manifest struct {
	// Kind is the default conversion kind for entries without one.
	Kind string `yaml:"kind,omitempty"`

	// OutputDir overrides the configured output directory. Relative paths
	// resolve against the manifest's directory.
	OutputDir string `yaml:"output_dir,omitempty"`

	Files []Entry `yaml:"files"`
}

// Entry is one input file.
type Entry struct {
	Path string `yaml:"path"`
	Kind string `yaml:"kind,omitempty"`
}

// Read loads the manifest at path. Relative file paths and OutputDir are
// resolved against the manifest's directory.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	base := filepath.Dir(path)
	for i := range m.Files {
		if m.Files[i].Path == "" {
			return nil, fmt.Errorf("manifest entry %d has no path", i+1)
		}
		m.Files[i].Path = resolve(base, m.Files[i].Path)
	}
	if m.OutputDir != "" {
		m.OutputDir = resolve(base, m.OutputDir)
	}
	return &m, nil
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// Jobs builds one file job per entry. fallback is used when neither the
// entry nor the manifest names a kind; an empty fallback makes that an
// error.
func (m *Manifest) Jobs(fallback types.ConversionKind) ([]*types.Job, error) {
	def := fallback
	if m.Kind != "" {
		k, err := types.ParseKind(m.Kind)
		if err != nil {
			return nil, fmt.Errorf("manifest kind: %w", err)
		}
		def = k
	}

	jobs := make([]*types.Job, 0, len(m.Files))
	for _, e := range m.Files {
		kind := def
		if e.Kind != "" {
			k, err := types.ParseKind(e.Kind)
			if err != nil {
				return nil, fmt.Errorf("entry %s: %w", e.Path, err)
			}
			kind = k
		}
		if kind == "" {
			return nil, fmt.Errorf("entry %s: no conversion kind", e.Path)
		}
		jobs = append(jobs, types.FileJob(e.Path, kind))
	}
	return jobs, nil
}

// Report is the YAML record of a finished run.
type Report struct {
	Summary ReportSummary `yaml:"summary"`
	Jobs    []ReportJob   `yaml:"jobs"`
}

// ReportSummary holds the run counts and where artifacts were written.
type ReportSummary struct {
	Converted int       `yaml:"converted"`
	Failed    int       `yaml:"failed"`
	Total     int       `yaml:"total"`
	OutputDir string    `yaml:"output_dir,omitempty"`
	RunID     string    `yaml:"run_id,omitempty"`
	Timestamp time.Time `yaml:"timestamp"`
}

// ReportJob is one job outcome.
type ReportJob struct {
	Name      string `yaml:"name"`
	Source    string `yaml:"source,omitempty"`
	Kind      string `yaml:"kind"`
	Status    string `yaml:"status"`
	Output    string `yaml:"output,omitempty"`
	Bytes     int    `yaml:"bytes,omitempty"`
	ErrorKind string `yaml:"error_kind,omitempty"`
	Error     string `yaml:"error,omitempty"`
}

// NewReport summarises b. outputDir and runID are informational.
func NewReport(b *types.Batch, outputDir, runID string, ts time.Time) Report {
	res := b.Result()
	r := Report{
		Summary: ReportSummary{
			Converted: res.Converted,
			Failed:    res.Failed,
			Total:     res.Total(),
			OutputDir: outputDir,
			RunID:     runID,
			Timestamp: ts,
		},
		Jobs: make([]ReportJob, 0, len(b.Jobs)),
	}
	for _, j := range b.Jobs {
		rj := ReportJob{
			Name:   j.Name,
			Source: j.Source,
			Kind:   string(j.Kind),
			Status: string(j.Status),
		}
		if j.Artifact != nil {
			rj.Output = j.Artifact.Name
			rj.Bytes = j.Artifact.Size()
		}
		if j.Err != nil {
			rj.ErrorKind = string(convert.KindOf(j.Err))
			rj.Error = j.Err.Error()
		}
		r.Jobs = append(r.Jobs, rj)
	}
	return r
}

// WriteReport saves r as YAML at path.
func WriteReport(path string, r Report) error {
	data, err := yaml.Marshal(&r)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadReport loads a report written by WriteReport.
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing report: %w", err)
	}
	return &r, nil
}
