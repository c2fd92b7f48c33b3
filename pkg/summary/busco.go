package summary

import (
	"fmt"
	"strings"

	"github.com/tkchafin/blobtoolkit-pkg/pkg/blobdir"
)

// BuscoCounts tallies completeness statuses for one lineage
type BuscoCounts struct {
	Complete   int `json:"complete"`
	Duplicated int `json:"duplicated"`
	Fragmented int `json:"fragmented"`
	Total      int `json:"total"`
}

// Busco summarizes assembly completeness for every lineage field in the
// dataset, discovered by the _busco id suffix
type Busco struct{}

func (s *Busco) Title() string     { return "busco" }
func (s *Busco) Depends() []string { return nil }

func (s *Busco) Summarize(args SectionArgs) (any, error) {
	meta := args.Reader.Meta()
	var lineages []string
	for _, id := range meta.ListFields() {
		if fm := meta.FieldMeta(id); fm != nil && fm.IsGroup() {
			continue
		}
		if strings.HasSuffix(id, "_busco") {
			lineages = append(lineages, id)
		}
	}
	if len(lineages) == 0 {
		return nil, fmt.Errorf("%w: no busco fields to generate 'busco' summary", ErrSectionSkipped)
	}
	block := map[string]any{"lineages": lineages}
	for _, lineage := range lineages {
		f, err := args.Reader.FetchField(lineage)
		if err != nil {
			return nil, err
		}
		ma, ok := f.(*blobdir.MultiArray)
		if !ok {
			return nil, fmt.Errorf("field %q is not a multiarray field", lineage)
		}
		counts := BuscoCounts{}
		for _, i := range args.Indices {
			tuples, err := ma.Expand(i)
			if err != nil {
				return nil, err
			}
			for _, t := range tuples {
				counts.Total++
				switch buscoStatus(t) {
				case "complete":
					counts.Complete++
				case "duplicated":
					counts.Duplicated++
				case "fragmented":
					counts.Fragmented++
				}
			}
		}
		block[lineage] = counts
	}
	return block, nil
}

// buscoStatus scans a hit tuple for its completeness status string
func buscoStatus(t blobdir.Tuple) string {
	for _, v := range t {
		s, ok := v.(string)
		if !ok {
			continue
		}
		s = strings.ToLower(s)
		for _, status := range []string{"complete", "duplicated", "fragmented"} {
			if strings.HasPrefix(s, status) {
				return status
			}
		}
	}
	return ""
}
