// Package main provides the hgvskit command-line tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hgvskit/hgvskit/internal/obslog"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// global flags shared by every subcommand
var (
	flagVerbose    bool
	flagConfigPath string
	flagAssembly   string
	flagCachePath  string
)

var logger *zap.Logger

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hgvskit",
		Short: "hgvskit - HGVS variant coordinate algebra and equivalence engine",
		Long: `hgvskit parses, projects, and compares sequence variants across the
six HGVS coordinate flavours (g./c./n./r./m./p.), and annotates VCF/MAF
files with consequence predictions against a GENCODE reference.`,
		Version:           fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:      true,
		PersistentPreRunE: setupLogger,
	}

	cmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Config file (default ~/.hgvskit.yaml)")
	cmd.PersistentFlags().StringVar(&flagAssembly, "assembly", "", "Genome assembly override: GRCh37 or GRCh38")
	cmd.PersistentFlags().StringVar(&flagCachePath, "cache", "", "GENCODE cache directory or DuckDB file override")

	cmd.AddCommand(newProjectCmd())
	cmd.AddCommand(newSPDICmd())
	cmd.AddCommand(newCompareCmd())
	cmd.AddCommand(newAnnotateCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newDownloadCmd())
	cmd.AddCommand(newConvertCmd())

	return cmd
}

func setupLogger(cmd *cobra.Command, args []string) error {
	logger = obslog.New(flagVerbose)
	return nil
}
