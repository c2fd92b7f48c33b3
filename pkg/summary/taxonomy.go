package summary

import "fmt"

// TaxonomySummary names the assembly's expected taxon; Target drives the
// target span fraction in the derived stats
type TaxonomySummary struct {
	Target string `json:"target,omitempty"`
	TaxID  any    `json:"taxid,omitempty"`
	Rank   string `json:"rank,omitempty"`
}

// Taxonomy summarizes the taxon metadata recorded for the dataset. The
// target name is taken from the lineage entry at the requested rank when
// the metadata carries one, falling back to the taxon name.
type Taxonomy struct{}

func (s *Taxonomy) Title() string     { return "taxonomy" }
func (s *Taxonomy) Depends() []string { return nil }

func (s *Taxonomy) Summarize(args SectionArgs) (any, error) {
	taxon := args.Reader.Meta().Taxon
	if len(taxon) == 0 {
		return nil, fmt.Errorf("%w: no taxon metadata to generate 'taxonomy' summary", ErrSectionSkipped)
	}
	out := &TaxonomySummary{Rank: args.Options.Rank, TaxID: taxon["taxid"]}
	if name, ok := taxon[args.Options.Rank].(string); ok {
		out.Target = name
	} else if name, ok := taxon["name"].(string); ok {
		out.Target = name
	}
	return out, nil
}
