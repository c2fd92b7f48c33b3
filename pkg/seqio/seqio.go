// Package seqio filters companion sequence and text files down to a
// retained identifier set: FASTA assemblies, FASTQ read files paired
// with an alignment file, and generic delimited text.
package seqio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// FilteredName inserts suffix before the format extension, preserving a
// trailing .gz: assembly.fasta.gz becomes assembly.filtered.fasta.gz
func FilteredName(path, suffix string) string {
	gz := ""
	if strings.HasSuffix(path, ".gz") {
		gz = ".gz"
		path = strings.TrimSuffix(path, ".gz")
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	return stem + "." + suffix + ext + gz
}

// openMaybeGzip opens path for reading, transparently decompressing .gz
// sources
func openMaybeGzip(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decompress %s: %w", path, err)
	}
	return &gzipReadCloser{Reader: gz, f: f}, nil
}

// createMaybeGzip creates path for writing, compressing when the name
// ends in .gz
func createMaybeGzip(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	return &gzipWriteCloser{Writer: gzip.NewWriter(f), f: f}, nil
}

type gzipReadCloser struct {
	*gzip.Reader
	f *os.File
}

func (r *gzipReadCloser) Close() error {
	if err := r.Reader.Close(); err != nil {
		r.f.Close()
		return err
	}
	return r.f.Close()
}

type gzipWriteCloser struct {
	*gzip.Writer
	f *os.File
}

func (w *gzipWriteCloser) Close() error {
	if err := w.Writer.Close(); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}
