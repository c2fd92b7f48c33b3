package blobdir

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// WriteFiltered materializes the records at indices as a new, fully
// independent dataset at outPath. Field documents are written one at a
// time in registry order with the metadata document last; a failed write
// aborts the run and may leave the output partially populated.
func WriteFiltered(src *Reader, outPath string, indices []int) error {
	store, err := NewStorage(outPath)
	if err != nil {
		return err
	}
	return WriteFilteredStorage(src, store, indices)
}

// WriteFilteredStorage writes the filtered dataset through an existing
// storage backend
func WriteFilteredStorage(src *Reader, store Storage, indices []int) error {
	if err := store.MkdirAll(""); err != nil {
		return fmt.Errorf("failed to create output dataset directory: %w", err)
	}
	meta := src.Meta().Clone()
	meta.Origin = src.Meta().ID
	meta.ID = datasetID(store.GetBasePath())
	meta.Records = len(indices)
	for _, id := range src.Meta().ListFields() {
		fm := meta.FieldMeta(id)
		if fm == nil || fm.IsGroup() {
			continue
		}
		field, err := src.FetchField(id)
		if err != nil {
			return err
		}
		out, err := subsetField(field, fm, indices, meta, store)
		if err != nil {
			return err
		}
		doc, err := fieldDoc(out)
		if err != nil {
			return err
		}
		if err := WriteDoc(store, id+".json", doc, false); err != nil {
			return err
		}
	}
	return WriteDoc(store, "meta.json", meta, true)
}

// subsetField extracts the retained values of one field in retained order
// and rebuilds it as an independent field for the output dataset. fm is
// the output descriptor and is updated in place (recomputed range); the
// length field additionally updates assembly span and scaffold-count on
// the output metadata.
func subsetField(f Field, fm *FieldMeta, indices []int, meta *Metadata, out Storage) (Field, error) {
	m := len(indices)
	switch f := f.(type) {
	case *Identifier:
		values := make([]string, m)
		for j, i := range indices {
			values[j] = f.Values[i]
		}
		return NewIdentifier(f.ID(), fm, values, m)
	case *Variable:
		values := make([]float64, m)
		for j, i := range indices {
			values[j] = f.Values[i]
		}
		sub, err := NewVariable(f.ID(), fm, values, m)
		if err != nil {
			return nil, err
		}
		fm.Range = sub.Range()
		if f.ID() == "length" {
			if meta.Assembly == nil {
				meta.Assembly = make(map[string]any)
			}
			meta.Assembly["span"] = sub.Sum()
			meta.Assembly["scaffold-count"] = m
		}
		return sub, nil
	case *Category:
		display, err := f.ExpandAll()
		if err != nil {
			return nil, err
		}
		sub := make([]string, m)
		for j, i := range indices {
			sub[j] = display[i]
		}
		return NewCategoryFromStrings(f.ID(), fm, sub, nil, m)
	case *MultiArray:
		display, err := f.ExpandAll()
		if err != nil {
			return nil, err
		}
		sub := make([][]Tuple, m)
		for j, i := range indices {
			sub[j] = display[i]
		}
		// The key table of a child field comes from the already-written
		// output parent so pruned keys stay consistent across the pair
		var fixed []string
		if fm.Parent != "" {
			var parent valuesDoc
			err := ReadDoc(out, fm.Parent+".json", &parent)
			if err == nil {
				fixed = parent.Keys
			} else if !errors.Is(err, ErrNotFound) {
				return nil, err
			}
		}
		return NewMultiArrayFromExpanded(f.ID(), fm, sub, fixed, f.CategorySlot, f.Headers, m)
	}
	return nil, fmt.Errorf("field %q has unsupported type %s", f.ID(), f.Type())
}

// datasetID derives the new dataset id from the output location's base name
func datasetID(basePath string) string {
	trimmed := strings.TrimPrefix(basePath, "s3://")
	trimmed = strings.TrimRight(trimmed, "/")
	return path.Base(trimmed)
}
