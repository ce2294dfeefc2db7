package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/draphael123/conversions/pkg/types"
)

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List the supported conversion kinds",
	Long: `Kinds prints every conversion kind with the input extensions it accepts,
the extension of its output and a short hint. Extensions and hints can be
overridden in the config file under "kinds".`,
	RunE: runKinds,
}

func init() {
	kindsCmd.Flags().Bool("json", false, "output as JSON")
	rootCmd.AddCommand(kindsCmd)
}

// kindInfo is the JSON form of one kind.
type kindInfo struct {
	Kind       types.ConversionKind `json:"kind"`
	Extensions []string             `json:"extensions"`
	Output     string               `json:"output"`
	Hint       string               `json:"hint"`
}

func runKinds(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatKinds(os.Stdout, cfg, jsonOutput)
}

func formatKinds(w io.Writer, cfg types.PipelineConfig, jsonOutput bool) error {
	infos := make([]kindInfo, 0, len(types.AllKinds()))
	for _, k := range types.AllKinds() {
		spec := cfg.Spec(k)
		infos = append(infos, kindInfo{
			Kind:       k,
			Extensions: spec.Extensions,
			Output:     k.TargetExtension(),
			Hint:       spec.Hint,
		})
	}

	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	fmt.Fprintf(w, "%-16s  %-18s  %-6s  %s\n", "Kind", "Accepts", "Output", "Hint")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, info := range infos {
		fmt.Fprintf(w, "%-16s  %-18s  %-6s  %s\n",
			info.Kind, strings.Join(info.Extensions, " "), info.Output, info.Hint)
	}
	return nil
}
