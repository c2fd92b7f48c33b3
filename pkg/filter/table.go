package filter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"

	"github.com/tkchafin/blobtoolkit-pkg/pkg/blobdir"
)

// BuildTable renders the retained records as rows: a header of index,
// identifiers and the requested columns, then one row per record in
// retained order. fieldSpec is a comma-separated list of field ids,
// optionally aliased as field=alias; the entry "plot" expands to the
// dataset's configured plot axes. Category values are rendered as their
// key string, multiarray values as JSON.
func BuildTable(r *blobdir.Reader, indices []int, fieldSpec string) ([][]string, error) {
	aliases := map[string]string{"index": "index", "identifiers": "identifiers"}
	var fieldIDs []string
	for _, entry := range strings.Split(fieldSpec, ",") {
		parts := strings.Split(entry, "=")
		if len(parts) == 2 {
			fieldIDs = append(fieldIDs, parts[0])
			aliases[parts[0]] = parts[1]
		} else {
			fieldIDs = append(fieldIDs, entry)
		}
	}

	ident, err := r.Identifiers()
	if err != nil {
		return nil, err
	}
	expanded := []string{"index", "identifiers"}
	fields := map[string]blobdir.Field{"identifiers": ident}
	addColumn := func(id string) error {
		f, err := r.FetchField(id)
		if err != nil {
			return err
		}
		expanded = append(expanded, id)
		if _, ok := aliases[id]; !ok {
			aliases[id] = id
		}
		fields[id] = f
		return nil
	}
	for _, fieldID := range fieldIDs {
		if fieldID == "plot" {
			for _, axis := range []string{"x", "z", "y", "cat"} {
				id, ok := r.Meta().PlotAxis(axis)
				if !ok {
					continue
				}
				if err := addColumn(id); err != nil {
					return nil, err
				}
			}
			continue
		}
		if err := addColumn(fieldID); err != nil {
			return nil, err
		}
	}

	header := make([]string, len(expanded))
	for j, id := range expanded {
		header[j] = aliases[id]
	}
	rows := [][]string{header}
	for _, i := range indices {
		row := make([]string, len(expanded))
		for j, id := range expanded {
			if id == "index" {
				row[j] = strconv.Itoa(i)
				continue
			}
			cell, err := renderCell(fields[id], i)
			if err != nil {
				return nil, err
			}
			row[j] = cell
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func renderCell(f blobdir.Field, i int) (string, error) {
	switch f := f.(type) {
	case *blobdir.Identifier:
		return f.Values[i], nil
	case *blobdir.Variable:
		return strconv.FormatFloat(f.Values[i], 'f', -1, 64), nil
	case *blobdir.Category:
		return f.Expand(i)
	case *blobdir.MultiArray:
		tuples, err := f.Expand(i)
		if err != nil {
			return "", err
		}
		data, err := json.Marshal(tuples)
		if err != nil {
			return "", fmt.Errorf("failed to render field %q: %w", f.ID(), err)
		}
		return string(data), nil
	}
	return "", fmt.Errorf("field %q has unsupported type %s", f.ID(), f.Type())
}

// WriteTable writes rows to path: comma separated for .csv, tab separated
// otherwise; a .gz suffix compresses the output
func WriteTable(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create table file: %w", err)
	}
	var w io.Writer = f
	var gz *gzip.Writer
	name := path
	if strings.HasSuffix(name, ".gz") {
		gz = gzip.NewWriter(f)
		w = gz
		name = strings.TrimSuffix(name, ".gz")
	}
	cw := csv.NewWriter(w)
	if !strings.HasSuffix(name, ".csv") {
		cw.Comma = '\t'
	}
	if err := cw.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("failed to write table: %w", err)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			f.Close()
			return fmt.Errorf("failed to write table: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}
	return nil
}
