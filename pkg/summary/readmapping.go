package summary

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tkchafin/blobtoolkit-pkg/pkg/blobdir"
)

// Coverage aggregates one read library over the retained records
type Coverage struct {
	MappedReads float64 `json:"mappedReads"`
	MeanCov     float64 `json:"meanCov"`
	Span        float64 `json:"span"`
}

// ReadMapping summarizes per library coverage. Libraries are discovered
// by the _cov id suffix; each is paired with its _read_cov field when
// one is present. The total block sums read counts and mean depths
// across libraries.
type ReadMapping struct{}

func (s *ReadMapping) Title() string     { return "readMapping" }
func (s *ReadMapping) Depends() []string { return []string{"length"} }

func (s *ReadMapping) Summarize(args SectionArgs) (any, error) {
	meta := args.Reader.Meta()
	var libraries []string
	for _, id := range meta.ListFields() {
		if fm := meta.FieldMeta(id); fm != nil && fm.IsGroup() {
			continue
		}
		if strings.HasSuffix(id, "_cov") && !strings.HasSuffix(id, "_read_cov") {
			libraries = append(libraries, strings.TrimSuffix(id, "_cov"))
		}
	}
	if len(libraries) == 0 {
		return nil, fmt.Errorf("%w: no coverage fields to generate 'readMapping' summary", ErrSectionSkipped)
	}
	length, err := variableField(args.Fields, "length")
	if err != nil {
		return nil, err
	}
	lengths := make([]float64, 0, len(args.Indices))
	var span float64
	for _, i := range args.Indices {
		lengths = append(lengths, length.Values[i])
		span += length.Values[i]
	}

	block := make(map[string]*Coverage, len(libraries)+1)
	total := &Coverage{Span: span}
	for _, library := range libraries {
		cov, err := fetchVariable(args.Reader, library+"_cov")
		if err != nil {
			return nil, err
		}
		covVals := make([]float64, 0, len(args.Indices))
		for _, i := range args.Indices {
			covVals = append(covVals, cov.Values[i])
		}
		lib := &Coverage{Span: span, MeanCov: round4(weightedMean(covVals, lengths))}
		reads, err := fetchVariable(args.Reader, library+"_read_cov")
		if err == nil {
			for _, i := range args.Indices {
				lib.MappedReads += reads.Values[i]
			}
		} else if !errors.Is(err, blobdir.ErrNotFound) {
			return nil, err
		}
		block[library] = lib
		total.MappedReads += lib.MappedReads
		total.MeanCov += lib.MeanCov
	}
	block["total"] = total
	return block, nil
}
