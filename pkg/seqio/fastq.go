package seqio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
)

// ReadNamesForIdentifiers scans a BAM file and collects the names of
// reads aligned to any of the given records
func ReadNamesForIdentifiers(bamPath string, ids map[string]struct{}) (map[string]struct{}, error) {
	f, err := os.Open(bamPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open alignment file: %w", err)
	}
	defer f.Close()

	br, err := bam.NewReader(f, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to create BAM reader: %w", err)
	}
	defer br.Close()

	names := make(map[string]struct{})
	for {
		record, err := br.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read alignment record: %w", err)
		}
		if record.Flags&sam.Unmapped != 0 || record.Ref == nil {
			continue
		}
		if _, ok := ids[record.Ref.Name()]; ok {
			names[record.Name] = struct{}{}
		}
	}
	return names, nil
}

// FilterFastq writes a copy of the read file at path containing only the
// reads named in names. Returns the output path.
func FilterFastq(path string, names map[string]struct{}, suffix string) (string, error) {
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
	record := make([]string, 0, 4)
	for scanner.Scan() {
		record = append(record, scanner.Text())
		if len(record) < 4 {
			continue
		}
		if _, ok := names[readName(record[0])]; ok {
			for _, line := range record {
				if _, err := w.WriteString(line); err != nil {
					out.Close()
					return "", fmt.Errorf("failed to write %s: %w", outPath, err)
				}
				if err := w.WriteByte('\n'); err != nil {
					out.Close()
					return "", fmt.Errorf("failed to write %s: %w", outPath, err)
				}
			}
		}
		record = record[:0]
	}
	if err := scanner.Err(); err != nil {
		out.Close()
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(record) > 0 {
		out.Close()
		return "", fmt.Errorf("%s: truncated fastq record near end of file", path)
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

// readName extracts the read name from a fastq header line, dropping
// the @ prefix, any description and any /1 or /2 pair tag
func readName(header string) string {
	name := headerToken(strings.TrimPrefix(header, "@"))
	if strings.HasSuffix(name, "/1") || strings.HasSuffix(name, "/2") {
		name = name[:len(name)-2]
	}
	return name
}
