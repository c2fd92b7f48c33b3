package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tkchafin/blobtoolkit-pkg/pkg/blobdir"
	"github.com/tkchafin/blobtoolkit-pkg/pkg/filter"
	"github.com/tkchafin/blobtoolkit-pkg/pkg/seqio"
	"github.com/tkchafin/blobtoolkit-pkg/pkg/summary"
)

var (
	filterParams  []string
	queryString   string
	jsonFile      string
	listFile      string
	invertFilter  bool
	outputPath    string
	tablePath     string
	tableFields   string
	summaryPath   string
	summaryRank   string
	summaryRule   string
	fastaPath     string
	fastqPaths    []string
	covPath       string
	textPath      string
	textDelimiter string
	textHeader    bool
	textIDColumn  int
	filterSuffix  string
)

var filterCmd = &cobra.Command{
	Use:   "filter <dataset>",
	Short: "Filter a BlobDir dataset and its companion files",
	Long: `Filter records in a BlobDir dataset using field based parameters or
identifier lists.

Filter parameters take the form field--key=value, where key is one of
Min, Max, Keys, MinLength, MaxLength or Inv. Several parameters may be
combined and matching records must satisfy all of them. Category Keys
select records to exclude unless the field filter is inverted.

The same set of matching records can be written as a new dataset, as a
table, or applied to companion sequence and text files.

Examples:
  blobtool filter dataset --param length--Min=1000 --output filtered_dataset
  blobtool filter dataset --param bestsum_phylum--Keys=no-hit --fasta assembly.fasta
  blobtool filter dataset --json selection.json --table table.tsv
  blobtool filter dataset --param gc--Max=0.3 --summary summary.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := blobdir.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open dataset: %w", err)
		}

		params, diag := filter.ParseParams(filterParams, queryString, r.Meta())
		for _, w := range diag.Warnings {
			logger.Warn().Msg(w)
		}

		ident, err := r.Identifiers()
		if err != nil {
			return fmt.Errorf("failed to load identifiers: %w", err)
		}
		indices := filter.AllIndices(ident.Len())

		if len(params) > 0 {
			indices, err = filter.ApplyParams(r, indices, params, invertFilter)
			if err != nil {
				return fmt.Errorf("filter failed: %w", err)
			}
		}
		if jsonFile != "" {
			ids, err := filter.LoadSelection(jsonFile)
			if err != nil {
				return err
			}
			indices = filter.ApplyList(ident.Values, indices, ids, invertFilter)
		}
		if listFile != "" {
			ids, err := filter.LoadIdentifierList(listFile)
			if err != nil {
				return err
			}
			indices = filter.ApplyList(ident.Values, indices, ids, invertFilter)
		}

		logger.Info().
			Int("kept", len(indices)).
			Int("total", ident.Len()).
			Msg("Filtered dataset records")

		if outputPath != "" {
			if err := blobdir.WriteFiltered(r, outputPath, indices); err != nil {
				return fmt.Errorf("failed to write filtered dataset: %w", err)
			}
			logger.Info().Str("path", outputPath).Msg("Wrote filtered dataset")
		}

		// Companion files are filtered by identifier membership
		if fastaPath != "" || len(fastqPaths) > 0 || textPath != "" {
			ids := make(map[string]struct{}, len(indices))
			for _, i := range indices {
				ids[ident.Values[i]] = struct{}{}
			}

			if fastaPath != "" {
				out, err := seqio.FilterFasta(fastaPath, ids, filterSuffix)
				if err != nil {
					return err
				}
				logger.Info().Str("path", out).Msg("Wrote filtered fasta")
			}

			if len(fastqPaths) > 0 {
				if covPath == "" {
					logger.Warn().Msg("'--cov' must be set to use option '--fastq'")
				} else {
					names, err := seqio.ReadNamesForIdentifiers(covPath, ids)
					if err != nil {
						return err
					}
					logger.Debug().
						Int("reads", len(names)).
						Str("alignment", covPath).
						Msg("Collected read names")
					for _, fq := range fastqPaths {
						out, err := seqio.FilterFastq(fq, names, filterSuffix)
						if err != nil {
							return err
						}
						logger.Info().Str("path", out).Msg("Wrote filtered fastq")
					}
				}
			}

			if textPath != "" {
				opts := seqio.TextOptions{
					Delimiter: textDelimiter,
					Header:    textHeader,
					IDColumn:  textIDColumn,
				}
				out, err := seqio.FilterText(textPath, ids, filterSuffix, opts)
				if err != nil {
					return err
				}
				logger.Info().Str("path", out).Msg("Wrote filtered text")
			}
		}

		if tablePath != "" {
			rows, err := filter.BuildTable(r, indices, tableFields)
			if err != nil {
				return fmt.Errorf("failed to build table: %w", err)
			}
			if err := filter.WriteTable(tablePath, rows); err != nil {
				return err
			}
			logger.Info().Str("path", tablePath).Msg("Wrote table")
		}

		if summaryPath != "" {
			opts := summary.Options{Rank: summaryRank, TaxRule: summaryRule}
			report, sdiag, err := summary.Run(r, indices, opts)
			if sdiag != nil {
				for _, w := range sdiag.Warnings {
					logger.Warn().Msg(w)
				}
			}
			if err != nil {
				return fmt.Errorf("summary failed: %w", err)
			}
			if err := summary.Write(summaryPath, report); err != nil {
				return err
			}
			logger.Info().Str("path", summaryPath).Msg("Wrote summary")
		}

		return nil
	},
}

func init() {
	filterCmd.Flags().StringArrayVarP(&filterParams, "param", "p", nil,
		"Field filter in the form field--key=value (repeatable)")
	filterCmd.Flags().StringVarP(&queryString, "query-string", "q", "",
		"URL style query string of filter parameters")
	filterCmd.Flags().StringVar(&jsonFile, "json", "",
		"JSON or YAML selection file listing identifiers to keep")
	filterCmd.Flags().StringVar(&listFile, "list", "",
		"Text file of whitespace separated identifiers to keep")
	filterCmd.Flags().BoolVarP(&invertFilter, "invert", "i", false,
		"Invert the matched set relative to the input records")
	filterCmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"Directory to write the filtered dataset to")
	filterCmd.Flags().StringVar(&tablePath, "table", "",
		"File to write tabular output to (.csv, .tsv, optionally .gz)")
	filterCmd.Flags().StringVar(&tableFields, "table-fields", "plot",
		"Comma separated field list for tabular output, may use id=alias")
	filterCmd.Flags().StringVar(&summaryPath, "summary", "",
		"File to write a summary of the filtered dataset to")
	filterCmd.Flags().StringVar(&summaryRank, "summary-rank", "phylum",
		"Taxonomic rank to summarise hits at")
	filterCmd.Flags().StringVar(&summaryRule, "taxrule", "",
		"Taxrule to summarise hits for, inferred from plot metadata if unset")
	filterCmd.Flags().StringVar(&fastaPath, "fasta", "",
		"FASTA file to filter by record identifier")
	filterCmd.Flags().StringArrayVar(&fastqPaths, "fastq", nil,
		"FASTQ file to filter by read membership, requires --cov (repeatable)")
	filterCmd.Flags().StringVar(&covPath, "cov", "",
		"BAM alignment used to map read names to record identifiers")
	filterCmd.Flags().StringVar(&textPath, "text", "",
		"Delimited text file to filter by record identifier")
	filterCmd.Flags().StringVar(&textDelimiter, "text-delimiter", "whitespace",
		"Text file column delimiter")
	filterCmd.Flags().IntVar(&textIDColumn, "text-id-column", 1,
		"1-based column containing record identifiers")
	filterCmd.Flags().BoolVar(&textHeader, "text-header", false,
		"Pass the first line of the text file through unfiltered")
	filterCmd.Flags().StringVar(&filterSuffix, "suffix", "filtered",
		"Suffix inserted into filtered companion file names")
}
