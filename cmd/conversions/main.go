// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the conversions CLI. It reads files
// from disk, converts each with the declared conversion kind and writes
// the artifacts to an output directory.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/draphael123/conversions/internal/logging"
	"github.com/draphael123/conversions/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built from the log config before any subcommand runs.
var logger = zerolog.Nop()

// rootCmd is the base command for the conversions CLI.
var rootCmd = &cobra.Command{
	Use:   "conversions",
	Short: "Convert small documents between common formats",
	Long: `conversions converts documents between common formats entirely on the
local machine: Markdown tables to CSV, Markdown, Word and plain text to PDF,
CSV to JSON and JSON to CSV.

Each input file becomes one output file. A failed file never stops the
batch; the command exits non-zero when any file failed.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		l, err := logging.New(cfg.Log, os.Stderr)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./conversions.yaml or ~/.config/conversions/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: console or json")
	rootCmd.PersistentFlags().String("journal", "", "SQLite run journal path (empty disables the journal)")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("journal.path", rootCmd.PersistentFlags().Lookup("journal"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("conversions")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "conversions"))
		}
	}

	setDefaults(viper.GetViper())

	viper.SetEnvPrefix("CONVERSIONS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so partial config files and
// environment variables merge over complete defaults.
func setDefaults(v *viper.Viper) {
	l := types.DefaultLayout()
	v.SetDefault("layout.page_width", l.PageWidth)
	v.SetDefault("layout.page_height", l.PageHeight)
	v.SetDefault("layout.margin", l.Margin)
	v.SetDefault("layout.line_height", l.LineHeight)
	v.SetDefault("layout.font_family", l.FontFamily)
	v.SetDefault("layout.font_size", l.FontSize)
	v.SetDefault("layout.wrap", l.Wrap)
	v.SetDefault("markdown.skip_header_row", false)
	v.SetDefault("csv.quote_policy", "naive")
	v.SetDefault("word.decoder", string(types.WordDecoderBuiltin))
	v.SetDefault("output.dir", "converted")
	v.SetDefault("journal.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// loadConfig decodes the merged viper settings into a PipelineConfig.
func loadConfig() (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Defaults()
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
