package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tkchafin/blobtoolkit-pkg/pkg/blobdir"
)

var validateCmd = &cobra.Command{
	Use:   "validate <dataset>",
	Short: "Check a BlobDir dataset for structural problems",
	Long: `Load every field of a BlobDir dataset and check it against the
metadata document.

Each field must carry exactly one value per record, category and
multiarray key indices must resolve within their key tables, and record
identifiers must be unique.

Example:
  blobtool validate dataset`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := blobdir.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open dataset: %w", err)
		}
		meta := r.Meta()

		checked := 0
		failed := 0
		for _, id := range meta.ListFields() {
			fm := meta.FieldMeta(id)
			if fm == nil || fm.IsGroup() {
				continue
			}
			checked++
			if problem := checkField(r, id); problem != "" {
				failed++
				fmt.Printf("FAIL %s: %s\n", id, problem)
				continue
			}
			fmt.Printf("OK   %s\n", id)
		}

		fmt.Println()
		if failed > 0 {
			return fmt.Errorf("%d of %d fields failed validation", failed, checked)
		}
		fmt.Printf("All %d fields valid for %d records\n", checked, r.Records())
		return nil
	},
}

// checkField loads one field and reports the first problem found.
// Length mismatches surface as construction errors from FetchField.
func checkField(r *blobdir.Reader, id string) string {
	f, err := r.FetchField(id)
	if err != nil {
		return err.Error()
	}
	switch v := f.(type) {
	case *blobdir.Identifier:
		seen := make(map[string]struct{}, len(v.Values))
		for _, s := range v.Values {
			if _, dup := seen[s]; dup {
				return fmt.Sprintf("duplicate identifier %q", s)
			}
			seen[s] = struct{}{}
		}
	case *blobdir.Category:
		for i, ki := range v.Values {
			if ki < 0 || ki >= len(v.Keys) {
				return fmt.Sprintf("key index %d out of range at record %d", ki, i)
			}
		}
	case *blobdir.MultiArray:
		if _, err := v.ExpandAll(); err != nil {
			return err.Error()
		}
	}
	return ""
}
