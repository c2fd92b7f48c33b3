package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var verbose bool

// logger reports progress and warnings on stderr so piped output stays clean
var logger zerolog.Logger

var rootCmd = &cobra.Command{
	Use:   "blobtool",
	Short: "BlobTool - BlobDir dataset filtering and summary tools",
	Long: `BlobTool works with BlobDir datasets, the directory format used to
hold per-record assembly statistics alongside taxonomic assignments.

This tool provides commands for filtering datasets and their companion
sequence files, exporting tabular views, and summarising assemblies.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		output := zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}
		logger = zerolog.New(output).Level(level).With().Timestamp().Logger()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false,
		"Enable debug logging")
	rootCmd.AddCommand(filterCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("blobtool version 0.1.0")
		fmt.Println("BlobDir dataset filtering and summary tools")
	},
}
