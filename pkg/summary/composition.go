package summary

// CompositionSummary aggregates base composition over the retained
// records: span weighted GC and AT fractions and the overall N fraction
type CompositionSummary struct {
	GC   float64 `json:"gc"`
	AT   float64 `json:"at"`
	N    float64 `json:"n"`
	Span float64 `json:"span"`
}

// BaseComposition summarizes nucleotide composition
type BaseComposition struct{}

func (s *BaseComposition) Title() string     { return "baseComposition" }
func (s *BaseComposition) Depends() []string { return []string{"gc", "ncount", "length"} }

func (s *BaseComposition) Summarize(args SectionArgs) (any, error) {
	gc, err := variableField(args.Fields, "gc")
	if err != nil {
		return nil, err
	}
	ncount, err := variableField(args.Fields, "ncount")
	if err != nil {
		return nil, err
	}
	length, err := variableField(args.Fields, "length")
	if err != nil {
		return nil, err
	}

	gcVals := make([]float64, 0, len(args.Indices))
	weights := make([]float64, 0, len(args.Indices))
	var span, nTotal float64
	for _, i := range args.Indices {
		gcVals = append(gcVals, gc.Values[i])
		weights = append(weights, length.Values[i])
		span += length.Values[i]
		nTotal += ncount.Values[i]
	}
	out := &CompositionSummary{Span: span}
	if span > 0 {
		out.GC = round4(weightedMean(gcVals, weights))
		out.AT = round4(1 - out.GC)
		out.N = round4(nTotal / span)
	}
	return out, nil
}
