package summary

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tkchafin/blobtoolkit-pkg/pkg/blobdir"
)

// Bucket aggregates the retained records assigned to one taxon in the
// hits section
type Bucket struct {
	Count int      `json:"count"`
	Span  float64  `json:"span"`
	N50   float64  `json:"n50"`
	GC    float64  `json:"gc"`
	Cov   *float64 `json:"cov,omitempty"`
}

// Hits summarizes span, N50 and composition per assigned taxon at the
// configured rank. The classification field is <taxrule>_<rank>; when no
// taxrule is given it is inferred from the category plot axis by
// dropping the trailing rank segment. Coverage is included when the
// dataset assigns a y plot axis.
type Hits struct{}

func (s *Hits) Title() string     { return "hits" }
func (s *Hits) Depends() []string { return []string{"length", "gc"} }

func (s *Hits) Summarize(args SectionArgs) (any, error) {
	meta := args.Reader.Meta()
	taxrule := args.Options.TaxRule
	if taxrule == "" {
		cat, ok := meta.PlotAxis("cat")
		if !ok {
			return nil, fmt.Errorf("%w: no taxrule to generate 'hits' summary", ErrSectionSkipped)
		}
		taxrule = stripRankSuffix(cat)
	}
	fieldID := taxrule + "_" + args.Options.Rank
	f, err := args.Reader.FetchField(fieldID)
	if err != nil {
		if errors.Is(err, blobdir.ErrNotFound) {
			return nil, fmt.Errorf("%w: field '%s' must be present to generate 'hits' summary", ErrSectionSkipped, fieldID)
		}
		return nil, err
	}
	cat, ok := f.(*blobdir.Category)
	if !ok {
		return nil, fmt.Errorf("field %q is not a category field", fieldID)
	}
	length, err := variableField(args.Fields, "length")
	if err != nil {
		return nil, err
	}
	gc, err := variableField(args.Fields, "gc")
	if err != nil {
		return nil, err
	}
	var cov *blobdir.Variable
	if covID, ok := meta.PlotAxis("y"); ok {
		cov, err = fetchVariable(args.Reader, covID)
		if err != nil {
			return nil, err
		}
	}

	groups := make(map[string][]int)
	for _, i := range args.Indices {
		key, err := cat.Expand(i)
		if err != nil {
			return nil, err
		}
		groups[key] = append(groups[key], i)
	}
	buckets := make(map[string]*Bucket, len(groups)+1)
	for key, members := range groups {
		buckets[key] = newBucket(members, length, gc, cov)
	}
	buckets["total"] = newBucket(args.Indices, length, gc, cov)
	return buckets, nil
}

func newBucket(indices []int, length, gc, cov *blobdir.Variable) *Bucket {
	lengths := make([]float64, 0, len(indices))
	gcVals := make([]float64, 0, len(indices))
	var span float64
	for _, i := range indices {
		lengths = append(lengths, length.Values[i])
		gcVals = append(gcVals, gc.Values[i])
		span += length.Values[i]
	}
	b := &Bucket{Count: len(indices), Span: span, N50: nFifty(lengths)}
	if span > 0 {
		b.GC = round4(weightedMean(gcVals, lengths))
		if cov != nil {
			covVals := make([]float64, 0, len(indices))
			for _, i := range indices {
				covVals = append(covVals, cov.Values[i])
			}
			mean := round4(weightedMean(covVals, lengths))
			b.Cov = &mean
		}
	}
	return b
}

// stripRankSuffix infers the taxrule from a category field id by
// dropping the trailing rank segment
func stripRankSuffix(id string) string {
	if i := strings.LastIndex(id, "_"); i >= 0 {
		return id[:i]
	}
	return id
}

// nFifty returns the length at which the running total, over lengths in
// descending order, first reaches half the combined span
func nFifty(lengths []float64) float64 {
	if len(lengths) == 0 {
		return 0
	}
	sorted := append([]float64(nil), lengths...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	var span float64
	for _, l := range sorted {
		span += l
	}
	half := span / 2
	var running float64
	for _, l := range sorted {
		running += l
		if running >= half {
			return l
		}
	}
	return sorted[len(sorted)-1]
}
