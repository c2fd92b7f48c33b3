package seqio

import (
	"bufio"
	"fmt"
	"strings"
)

// TextOptions configures generic text filtering
type TextOptions struct {
	// Delimiter separates columns; empty or "whitespace" splits on any
	// whitespace run
	Delimiter string
	// Header passes the first row through unfiltered
	Header bool
	// IDColumn is the 1-based column holding record identifiers
	IDColumn int
}

// FilterText writes a copy of the delimited file at path keeping rows
// whose identifier column is in ids. Returns the output path.
func FilterText(path string, ids map[string]struct{}, suffix string, opts TextOptions) (string, error) {
	col := opts.IDColumn
	if col < 1 {
		col = 1
	}
	in, err := openMaybeGzip(path)
	if err != nil {
		return "", err
	}
	defer in.Close()

	outPath := FilteredName(path, suffix)
	out, err := createMaybeGzip(outPath)
	if err != nil {
		return "", err
	}

	w := bufio.NewWriter(out)
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		keep := false
		if first && opts.Header {
			keep = true
		} else {
			var cols []string
			if opts.Delimiter == "" || opts.Delimiter == "whitespace" {
				cols = strings.Fields(line)
			} else {
				cols = strings.Split(line, opts.Delimiter)
			}
			if len(cols) >= col {
				_, keep = ids[cols[col-1]]
			}
		}
		first = false
		if !keep {
			continue
		}
		if _, err := w.WriteString(line); err != nil {
			out.Close()
			return "", fmt.Errorf("failed to write %s: %w", outPath, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			out.Close()
			return "", fmt.Errorf("failed to write %s: %w", outPath, err)
		}
	}
	if err := scanner.Err(); err != nil {
		out.Close()
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		out.Close()
		return "", fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	return outPath, nil
}
