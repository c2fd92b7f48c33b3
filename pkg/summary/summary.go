package summary

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"
	"gonum.org/v1/gonum/stat"

	"github.com/tkchafin/blobtoolkit-pkg/pkg/blobdir"
	"github.com/tkchafin/blobtoolkit-pkg/pkg/filter"
)

// Options configures a summary run
type Options struct {
	// Rank selects the taxonomic rank summarized by the hits section
	Rank string
	// TaxRule names the classification rule explicitly; when empty it is
	// inferred from the category plot axis
	TaxRule string
}

// Report maps section titles to their computed blocks, plus the derived
// top level stats block
type Report map[string]any

// SectionArgs carries the resolved inputs for one section invocation
type SectionArgs struct {
	Reader  *blobdir.Reader
	Indices []int
	// Fields holds the declared dependencies, resolved by the aggregator
	Fields  map[string]blobdir.Field
	Options Options
	// Stats holds the blocks of sections that already ran
	Stats Report
}

// Section computes one named block of the summary. Depends lists field
// ids that must be present for the section to run; sections may resolve
// further fields through the reader during Summarize.
type Section interface {
	Title() string
	Depends() []string
	Summarize(args SectionArgs) (any, error)
}

// Sections returns the built-in sections in run order
func Sections() []Section {
	return []Section{
		&Taxonomy{},
		&BaseComposition{},
		&Hits{},
		&Busco{},
		&ReadMapping{},
	}
}

// Run executes every section whose dependencies resolve against the
// dataset, recording a warning for each skipped section, then derives
// the overall stats block from the hits section
func Run(r *blobdir.Reader, indices []int, opts Options) (Report, *filter.Diagnostics, error) {
	diag := &filter.Diagnostics{}
	report := Report{}
	for _, section := range Sections() {
		fields := make(map[string]blobdir.Field, len(section.Depends()))
		var missing string
		for _, id := range section.Depends() {
			f, err := r.FetchField(id)
			if err != nil {
				if errors.Is(err, blobdir.ErrNotFound) {
					missing = id
					break
				}
				return nil, diag, err
			}
			fields[id] = f
		}
		if missing != "" {
			diag.Warnf("field '%s' must be present to generate '%s' summary", missing, section.Title())
			continue
		}
		block, err := section.Summarize(SectionArgs{
			Reader:  r,
			Indices: indices,
			Fields:  fields,
			Options: opts,
			Stats:   report,
		})
		if err != nil {
			if errors.Is(err, ErrSectionSkipped) {
				diag.Warnf("%s", err)
				continue
			}
			return nil, diag, err
		}
		report[section.Title()] = block
	}
	report["stats"] = deriveStats(report)
	return report, diag, nil
}

// deriveStats computes the dataset level scalars from the hits section:
// the no-hit span fraction, the target taxon span fraction and the span
// over N50 ratio
func deriveStats(report Report) map[string]any {
	stats := map[string]any{}
	hits, ok := report["hits"].(map[string]*Bucket)
	if !ok {
		return stats
	}
	total := hits["total"]
	if total == nil || total.Span == 0 {
		stats["noHit"] = 0
		return stats
	}
	span := total.Span
	var nohitSpan float64
	if b, ok := hits["no-hit"]; ok {
		nohitSpan = b.Span
		stats["noHit"] = round3(nohitSpan / span)
	} else {
		stats["noHit"] = 0
	}
	if tax, ok := report["taxonomy"].(*TaxonomySummary); ok && tax.Target != "" && span > nohitSpan {
		if b, ok := hits[tax.Target]; ok {
			stats["target"] = round3(b.Span / (span - nohitSpan))
		} else if b, ok := hits["target"]; ok {
			stats["target"] = round3(b.Span / (span - nohitSpan))
			delete(hits, "target")
		} else {
			stats["target"] = 0
		}
	}
	if total.N50 > 0 {
		ratio := span / total.N50
		if ratio >= 100 {
			stats["spanOverN50"] = int(sigfig3(ratio))
		} else {
			stats["spanOverN50"] = sigfig3(ratio)
		}
	}
	return stats
}

// Write persists the report to path as a summaryStats document; a .gz
// suffix compresses the output
func Write(path string, report Report) error {
	data, err := json.MarshalIndent(map[string]any{"summaryStats": report}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	var w io.Writer = f
	var gz *gzip.Writer
	if strings.HasSuffix(path, ".gz") {
		gz = gzip.NewWriter(f)
		w = gz
	}
	if _, err := w.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write summary: %w", err)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			f.Close()
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

// round3 mirrors the three decimal formatting of the fraction stats
func round3(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 3, 64), 64)
	return r
}

// round4 trims mean values for report output
func round4(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 4, 64), 64)
	return r
}

// sigfig3 rounds to three significant figures
func sigfig3(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'g', 3, 64), 64)
	return r
}

// weightedMean is a zero weight safe wrapper around stat.Mean
func weightedMean(values, weights []float64) float64 {
	var wsum float64
	for _, w := range weights {
		wsum += w
	}
	if wsum == 0 {
		return 0
	}
	return stat.Mean(values, weights)
}

// variableField asserts a resolved dependency is numeric
func variableField(fields map[string]blobdir.Field, id string) (*blobdir.Variable, error) {
	f, ok := fields[id].(*blobdir.Variable)
	if !ok {
		return nil, fmt.Errorf("field %q is not a variable field", id)
	}
	return f, nil
}

// fetchVariable loads a field and asserts it is numeric
func fetchVariable(r *blobdir.Reader, id string) (*blobdir.Variable, error) {
	f, err := r.FetchField(id)
	if err != nil {
		return nil, err
	}
	v, ok := f.(*blobdir.Variable)
	if !ok {
		return nil, fmt.Errorf("field %q is not a variable field", id)
	}
	return v, nil
}
