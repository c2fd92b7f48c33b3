package filter

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tkchafin/blobtoolkit-pkg/pkg/blobdir"
)

// AllIndices returns the identity index set for n records
func AllIndices(n int) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return indices
}

// ApplyParams narrows the index set by each parameterized field's
// predicate, visiting fields in registry order, then optionally inverts
// the result against the input set. Each step returns a fresh slice in
// ascending input order; the input is never mutated.
func ApplyParams(r *blobdir.Reader, indices []int, params Params, invertAll bool) ([]int, error) {
	all := append([]int(nil), indices...)
	current := append([]int(nil), indices...)
	for _, fieldID := range r.Meta().ListFields() {
		filters, ok := params[fieldID]
		if !ok {
			continue
		}
		field, err := r.FetchField(fieldID)
		if err != nil {
			return nil, err
		}
		current, err = applyFieldFilter(field, current, filters)
		if err != nil {
			return nil, err
		}
	}
	if invertAll {
		return complement(all, current), nil
	}
	return current, nil
}

// ApplyList narrows the index set to records whose identifier is in ids,
// or not in ids when inverted
func ApplyList(identifiers []string, indices []int, ids map[string]struct{}, invert bool) []int {
	out := make([]int, 0, len(indices))
	for _, i := range indices {
		_, in := ids[identifiers[i]]
		if in != invert {
			out = append(out, i)
		}
	}
	return out
}

func applyFieldFilter(field blobdir.Field, indices []int, filters map[string]string) ([]int, error) {
	invert := filters["Inv"] != ""
	switch f := field.(type) {
	case *blobdir.Variable:
		return filterVariable(f, indices, filters, invert)
	case *blobdir.Category:
		return filterCategory(f, indices, filters, invert)
	case *blobdir.MultiArray:
		return filterMultiArray(f, indices, filters, invert)
	}
	return indices, nil
}

// filterVariable retains values inside [Min, Max], or outside it when
// inverted. Unset bounds default to the open interval, so Inv alone
// empties the set.
func filterVariable(f *blobdir.Variable, indices []int, filters map[string]string, invert bool) ([]int, error) {
	low, err := boundValue(f.ID(), "Min", filters, math.Inf(-1))
	if err != nil {
		return nil, err
	}
	high, err := boundValue(f.ID(), "Max", filters, math.Inf(1))
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, len(indices))
	for _, i := range indices {
		v := f.Values[i]
		keep := low <= v && v <= high
		if invert {
			keep = v < low || v > high
		}
		if keep {
			out = append(out, i)
		}
	}
	return out, nil
}

// filterCategory retains records by key membership. Without Inv the
// listed keys are excluded (the effective retained set is the complement
// within the key table); with Inv only the listed keys are kept.
func filterCategory(f *blobdir.Category, indices []int, filters map[string]string, invert bool) ([]int, error) {
	raw := filters["Keys"]
	if raw == "" {
		return indices, nil
	}
	effective, err := effectiveKeySet(f.KeyIndex, len(f.Keys), raw, invert)
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, len(indices))
	for _, i := range indices {
		if _, ok := effective[f.Values[i]]; ok {
			out = append(out, i)
		}
	}
	return out, nil
}

// filterMultiArray applies the optional length bound, then the key bound
// with the Category complement convention; a record passes the key bound
// when any of its tuples does
func filterMultiArray(f *blobdir.MultiArray, indices []int, filters map[string]string, invert bool) ([]int, error) {
	low, high := math.Inf(-1), math.Inf(1)
	bounded := false
	if raw := filters["MinLength"]; raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s--MinLength=%q", ErrInvalidParam, f.ID(), raw)
		}
		low = float64(n)
		bounded = true
	}
	if raw := filters["MaxLength"]; raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s--MaxLength=%q", ErrInvalidParam, f.ID(), raw)
		}
		high = float64(n)
		bounded = true
	}
	if bounded {
		out := make([]int, 0, len(indices))
		for _, i := range indices {
			n := float64(len(f.Values[i]))
			keep := low <= n && n <= high
			if invert {
				keep = n < low || n > high
			}
			if keep {
				out = append(out, i)
			}
		}
		indices = out
	}
	if raw := filters["Keys"]; raw != "" {
		effective, err := effectiveKeySet(f.KeyIndex, len(f.Keys), raw, invert)
		if err != nil {
			return nil, err
		}
		out := make([]int, 0, len(indices))
		for _, i := range indices {
			for _, t := range f.Values[i] {
				ki, err := f.SlotIndex(t)
				if err != nil {
					return nil, err
				}
				if _, ok := effective[ki]; ok {
					out = append(out, i)
					break
				}
			}
		}
		indices = out
	}
	return indices, nil
}

// effectiveKeySet parses a comma-separated key list into the set of key
// indices to retain: the selection itself when inverted, otherwise its
// complement within the key table
func effectiveKeySet(keyIndex func(string) (int, error), numKeys int, raw string, invert bool) (map[int]struct{}, error) {
	selected := make(map[int]struct{})
	for _, token := range strings.Split(raw, ",") {
		ki, err := keyIndex(token)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidParam, err)
		}
		selected[ki] = struct{}{}
	}
	if invert {
		return selected, nil
	}
	effective := make(map[int]struct{})
	for i := 0; i < numKeys; i++ {
		if _, ok := selected[i]; !ok {
			effective[i] = struct{}{}
		}
	}
	return effective, nil
}

// boundValue parses an optional numeric bound; empty values fall back to
// the default
func boundValue(fieldID, name string, filters map[string]string, fallback float64) (float64, error) {
	raw := filters[name]
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s--%s=%q", ErrInvalidParam, fieldID, name, raw)
	}
	return v, nil
}

// complement returns the members of all that are not in retained,
// preserving the order of all
func complement(all, retained []int) []int {
	drop := make(map[int]struct{}, len(retained))
	for _, i := range retained {
		drop[i] = struct{}{}
	}
	out := make([]int, 0, len(all)-len(retained))
	for _, i := range all {
		if _, ok := drop[i]; !ok {
			out = append(out, i)
		}
	}
	return out
}
