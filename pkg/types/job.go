// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// JobStatus indicates where a conversion job is in its lifecycle.
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobInProgress JobStatus = "in_progress"
	JobConverted  JobStatus = "converted"
	JobFailed     JobStatus = "failed"
)

// Terminal reports whether the status is final.
func (s JobStatus) Terminal() bool {
	return s == JobConverted || s == JobFailed
}

// Loader returns the raw bytes of a job's input.
type Loader func() ([]byte, error)

// Artifact is the named result of a successful conversion. It is never
// modified after creation.
type Artifact struct {
	// Name is the output file name derived from the input name.
	Name string `json:"name" yaml:"name"`

	// Content holds the converted bytes.
	Content []byte `json:"-" yaml:"-"`

	// ContentType is the MIME type of Content.
	ContentType string `json:"content_type" yaml:"content_type"`
}

// Size returns the artifact length in bytes.
func (a *Artifact) Size() int {
	if a == nil {
		return 0
	}
	return len(a.Content)
}

// Job pairs one input file with a conversion kind.
type Job struct {
	// ID uniquely identifies the job within and across runs.
	ID string `json:"id" yaml:"id"`

	// Name is the input file name, used for extension inference and output naming.
	Name string `json:"name" yaml:"name"`

	// Source is where the bytes come from (a path for file jobs), for display only.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// Kind selects the conversion pipeline.
	Kind ConversionKind `json:"kind" yaml:"kind"`

	// Status tracks the job lifecycle.
	Status JobStatus `json:"status" yaml:"status"`

	// Artifact is set when Status is JobConverted.
	Artifact *Artifact `json:"artifact,omitempty" yaml:"artifact,omitempty"`

	// Err is set when Status is JobFailed.
	Err error `json:"-" yaml:"-"`

	load Loader
}

// NewJob creates a pending job whose bytes come from load.
func NewJob(name string, kind ConversionKind, load Loader) *Job {
	return &Job{
		ID:     uuid.NewString(),
		Name:   name,
		Kind:   kind,
		Status: JobPending,
		load:   load,
	}
}

// BytesJob creates a pending job over in-memory content.
func BytesJob(name string, data []byte, kind ConversionKind) *Job {
	return NewJob(name, kind, func() ([]byte, error) { return data, nil })
}

// FileJob creates a pending job that reads path when it is processed.
func FileJob(path string, kind ConversionKind) *Job {
	j := NewJob(filepath.Base(path), kind, func() ([]byte, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		return data, nil
	})
	j.Source = path
	return j
}

// Load reads the job input. A job without a loader fails to load.
func (j *Job) Load() ([]byte, error) {
	if j.load == nil {
		return nil, fmt.Errorf("job %s has no input", j.Name)
	}
	return j.load()
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int `json:"converted" yaml:"converted"`
	Failed    int `json:"failed" yaml:"failed"`
}

// Total returns the number of jobs processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Failed
}

// HasFailures reports whether any job failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Batch is the ordered list of jobs plus running counts. Only the
// orchestrator mutates it.
type Batch struct {
	Jobs      []*Job
	Converted int
	Failed    int
}

// Add appends jobs to the batch.
func (b *Batch) Add(jobs ...*Job) {
	b.Jobs = append(b.Jobs, jobs...)
}

// Reset clears all jobs and counters.
func (b *Batch) Reset() {
	b.Jobs = nil
	b.Converted = 0
	b.Failed = 0
}

// Result returns the current counts.
func (b *Batch) Result() BatchResult {
	return BatchResult{Converted: b.Converted, Failed: b.Failed}
}

// Artifacts returns the artifacts of converted jobs in batch order.
func (b *Batch) Artifacts() []*Artifact {
	var out []*Artifact
	for _, j := range b.Jobs {
		if j.Status == JobConverted && j.Artifact != nil {
			out = append(out, j.Artifact)
		}
	}
	return out
}
