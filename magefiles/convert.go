//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	samplesDir   = "samples"
	convertedDir = "samples/converted"
)

// samples holds one text input for each kind except word-to-pdf, which
// needs a binary .docx.
var samples = []struct {
	name, kind, content string
}{
	{"table.md", "markdown-to-csv", "# Inventory\n\n| Item | Qty |\n|------|-----|\n| Apples | 3 |\n| Pears | 5 |\n"},
	{"readme.md", "markdown-to-pdf", "# Samples\n\nThese files exercise **every** conversion kind.\n\n- one\n- two\n"},
	{"people.csv", "csv-to-json", "name,age\nAda,36\nLin,41\n"},
	{"people.json", "json-to-csv", "[{\"name\":\"Ada\",\"age\":36},{\"name\":\"Lin\",\"age\":41}]\n"},
	{"notes.txt", "text-to-pdf", "Plain text notes.\nEach line becomes a line in the PDF.\n"},
}

// Samples writes one sample input per conversion kind into samples/.
func Samples() error {
	if err := os.MkdirAll(samplesDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", samplesDir, err)
	}
	for _, s := range samples {
		path := filepath.Join(samplesDir, s.name)
		if err := os.WriteFile(path, []byte(s.content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	fmt.Printf("Wrote %d samples to %s\n", len(samples), samplesDir)
	return nil
}

// Convert builds the CLI and runs every sample through its conversion kind,
// writing results to samples/converted.
func Convert() error {
	mg.Deps(Build, Samples)

	bin := filepath.Join(binDir, binName)
	for _, s := range samples {
		err := sh.RunV(bin, "convert",
			"--kind", s.kind,
			"--out-dir", convertedDir,
			"--no-progress",
			filepath.Join(samplesDir, s.name))
		if err != nil {
			return fmt.Errorf("converting %s: %w", s.name, err)
		}
	}
	return nil
}

// Clean removes build output and generated samples.
func Clean() error {
	for _, dir := range []string{binDir, samplesDir} {
		if err := sh.Rm(dir); err != nil {
			return err
		}
	}
	return nil
}
