package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tkchafin/blobtoolkit-pkg/pkg/blobdir"
)

var statsCmd = &cobra.Command{
	Use:   "stats <dataset>",
	Short: "Show statistics for a BlobDir dataset",
	Long: `Display an overview of a BlobDir dataset.

The overview is read from the metadata document without loading any
field values, so it is fast even for large datasets.

Example:
  blobtool stats dataset`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := blobdir.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open dataset: %w", err)
		}
		meta := r.Meta()

		fmt.Println("===========================================")
		fmt.Println("BlobDir Dataset Statistics")
		fmt.Println("===========================================")
		fmt.Println()
		if meta.ID != "" {
			fmt.Printf("Dataset: %s\n", meta.ID)
		}
		if meta.Name != "" && meta.Name != meta.ID {
			fmt.Printf("Name: %s\n", meta.Name)
		}
		if meta.RecordType != "" {
			fmt.Printf("Record type: %s\n", meta.RecordType)
		}
		fmt.Printf("Records: %d\n", meta.Records)
		if meta.Revision > 0 {
			fmt.Printf("Revision: %d\n", meta.Revision)
		}
		if meta.Origin != "" {
			fmt.Printf("Origin: %s\n", meta.Origin)
		}
		fmt.Println()

		if len(meta.Taxon) > 0 {
			fmt.Println("Taxon:")
			printAnyMap(meta.Taxon)
			fmt.Println()
		}

		if len(meta.Assembly) > 0 {
			fmt.Println("Assembly:")
			printAnyMap(meta.Assembly)
			fmt.Println()
		}

		if len(meta.Plot) > 0 {
			fmt.Println("Plot axes:")
			for _, axis := range []string{"x", "y", "z", "cat"} {
				if id, ok := meta.PlotAxis(axis); ok {
					fmt.Printf("  %s: %s\n", axis, id)
				}
			}
			fmt.Println()
		}

		fmt.Println("Fields:")
		printFieldTree(meta.Fields, "  ")

		return nil
	},
}

func printAnyMap(m map[string]any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %s: %v\n", k, m[k])
	}
}

func printFieldTree(fields []*blobdir.FieldMeta, indent string) {
	for _, fm := range fields {
		if fm.IsGroup() {
			fmt.Printf("%s%s/\n", indent, fm.ID)
			printFieldTree(fm.Children, indent+"  ")
			printFieldTree(fm.Data, indent+"  ")
			continue
		}
		desc := string(fm.Type)
		if len(fm.Range) == 2 {
			desc = fmt.Sprintf("%s, range %v-%v", desc, fm.Range[0], fm.Range[1])
		}
		if len(fm.Keys) > 0 {
			desc = fmt.Sprintf("%s, %d keys", desc, len(fm.Keys))
		}
		fmt.Printf("%s%s (%s)\n", indent, fm.ID, desc)
		printFieldTree(fm.Data, indent+"  ")
	}
}
