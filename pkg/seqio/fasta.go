package seqio

import (
	"bufio"
	"fmt"
	"strings"
)

// FilterFasta writes a copy of the assembly at path containing only the
// sequences whose first header token is in ids. Returns the output path.
func FilterFasta(path string, ids map[string]struct{}, suffix string) (string, error) {
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
	keep := false
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, ">") {
			_, keep = ids[headerToken(line[1:])]
		}
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

// headerToken extracts the sequence name from a header line body,
// dropping any description after the first whitespace
func headerToken(s string) string {
	if fields := strings.Fields(s); len(fields) > 0 {
		return fields[0]
	}
	return ""
}
