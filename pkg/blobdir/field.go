package blobdir

import (
	"fmt"
	"strconv"
)

// Field is one named, typed, per-record attribute column. The variant set
// is closed: Identifier, Variable, Category and MultiArray. Filtering and
// writing switch exhaustively over Type().
type Field interface {
	ID() string
	Meta() *FieldMeta
	Len() int
	Type() FieldType
}

// Tuple is one entry of a MultiArray record value: a fixed-width row where
// one slot holds a key index and the rest hold auxiliary payloads
type Tuple = []any

// Identifier holds the dataset's unique record names; its length fixes N
type Identifier struct {
	id     string
	meta   *FieldMeta
	Values []string
}

// NewIdentifier constructs an identifier field; records < 0 skips the
// length check (used when the identifier itself defines the count)
func NewIdentifier(id string, meta *FieldMeta, values []string, records int) (*Identifier, error) {
	if records >= 0 && len(values) != records {
		return nil, fmt.Errorf("%w: field %q has %d values, expected %d", ErrLengthMismatch, id, len(values), records)
	}
	return &Identifier{id: id, meta: meta, Values: values}, nil
}

func (f *Identifier) ID() string       { return f.id }
func (f *Identifier) Meta() *FieldMeta { return f.meta }
func (f *Identifier) Len() int         { return len(f.Values) }
func (f *Identifier) Type() FieldType  { return TypeIdentifier }

// Variable holds numeric per-record values (integer or float datatype)
type Variable struct {
	id     string
	meta   *FieldMeta
	Values []float64
}

// NewVariable constructs a numeric field of exactly records values
func NewVariable(id string, meta *FieldMeta, values []float64, records int) (*Variable, error) {
	if len(values) != records {
		return nil, fmt.Errorf("%w: field %q has %d values, expected %d", ErrLengthMismatch, id, len(values), records)
	}
	return &Variable{id: id, meta: meta, Values: values}, nil
}

func (f *Variable) ID() string       { return f.id }
func (f *Variable) Meta() *FieldMeta { return f.meta }
func (f *Variable) Len() int         { return len(f.Values) }
func (f *Variable) Type() FieldType  { return TypeVariable }

// Range returns [min, max] computed from the current values, never the
// declared metadata range. Empty values yield [0, 0].
func (f *Variable) Range() []float64 {
	if len(f.Values) == 0 {
		return []float64{0, 0}
	}
	lo, hi := f.Values[0], f.Values[0]
	for _, v := range f.Values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return []float64{lo, hi}
}

// Sum returns the total of all values
func (f *Variable) Sum() float64 {
	var total float64
	for _, v := range f.Values {
		total += v
	}
	return total
}

// Category holds key-table indices; Keys is the ordered vocabulary
type Category struct {
	id     string
	meta   *FieldMeta
	Values []int
	Keys   []string
}

// NewCategory constructs a categorical field from raw key indices
func NewCategory(id string, meta *FieldMeta, values []int, keys []string, records int) (*Category, error) {
	if len(values) != records {
		return nil, fmt.Errorf("%w: field %q has %d values, expected %d", ErrLengthMismatch, id, len(values), records)
	}
	return &Category{id: id, meta: meta, Values: values, Keys: keys}, nil
}

// NewCategoryFromStrings constructs a categorical field from display
// values. fixedKeys seeds the key table (preserving its index layout);
// values absent from it are appended in first-appearance order.
func NewCategoryFromStrings(id string, meta *FieldMeta, display []string, fixedKeys []string, records int) (*Category, error) {
	if len(display) != records {
		return nil, fmt.Errorf("%w: field %q has %d values, expected %d", ErrLengthMismatch, id, len(display), records)
	}
	keys, values := collectKeys(display, fixedKeys)
	return &Category{id: id, meta: meta, Values: values, Keys: keys}, nil
}

func (f *Category) ID() string       { return f.id }
func (f *Category) Meta() *FieldMeta { return f.meta }
func (f *Category) Len() int         { return len(f.Values) }
func (f *Category) Type() FieldType  { return TypeCategory }

// Expand resolves the record at index i to its key string
func (f *Category) Expand(i int) (string, error) {
	v := f.Values[i]
	if v < 0 || v >= len(f.Keys) {
		return "", fmt.Errorf("field %q: key index %d out of range at record %d", f.id, v, i)
	}
	return f.Keys[v], nil
}

// ExpandAll resolves every record to its key string
func (f *Category) ExpandAll() ([]string, error) {
	out := make([]string, len(f.Values))
	for i := range f.Values {
		s, err := f.Expand(i)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// KeyIndex resolves a key name to its index. Digit strings are used
// directly as indices without a table lookup.
func (f *Category) KeyIndex(name string) (int, error) {
	return keyIndex(f.id, f.Keys, name)
}

// MultiArray holds per-record tuple sequences; CategorySlot marks the
// tuple position that indexes into Keys
type MultiArray struct {
	id           string
	meta         *FieldMeta
	Values       [][]Tuple
	Keys         []string
	CategorySlot int
	Headers      []string
}

// NewMultiArray constructs a multi-value field from raw tuples
func NewMultiArray(id string, meta *FieldMeta, values [][]Tuple, keys []string, slot int, headers []string, records int) (*MultiArray, error) {
	if len(values) != records {
		return nil, fmt.Errorf("%w: field %q has %d values, expected %d", ErrLengthMismatch, id, len(values), records)
	}
	return &MultiArray{id: id, meta: meta, Values: values, Keys: keys, CategorySlot: slot, Headers: headers}, nil
}

// NewMultiArrayFromExpanded constructs a multi-value field from expanded
// tuples (key strings at the category slot), re-collecting key indices
// against a fixedKeys seed table when given
func NewMultiArrayFromExpanded(id string, meta *FieldMeta, display [][]Tuple, fixedKeys []string, slot int, headers []string, records int) (*MultiArray, error) {
	if len(display) != records {
		return nil, fmt.Errorf("%w: field %q has %d values, expected %d", ErrLengthMismatch, id, len(display), records)
	}
	names := make([]string, 0, len(display))
	for _, tuples := range display {
		for _, t := range tuples {
			name, ok := t[slot].(string)
			if !ok {
				return nil, fmt.Errorf("field %q: category slot %d holds %T, expected string", id, slot, t[slot])
			}
			names = append(names, name)
		}
	}
	keys, flat := collectKeys(names, fixedKeys)
	values := make([][]Tuple, len(display))
	pos := 0
	for i, tuples := range display {
		values[i] = make([]Tuple, len(tuples))
		for j, t := range tuples {
			row := append(Tuple(nil), t...)
			row[slot] = flat[pos]
			pos++
			values[i][j] = row
		}
	}
	return &MultiArray{id: id, meta: meta, Values: values, Keys: keys, CategorySlot: slot, Headers: headers}, nil
}

func (f *MultiArray) ID() string       { return f.id }
func (f *MultiArray) Meta() *FieldMeta { return f.meta }
func (f *MultiArray) Len() int         { return len(f.Values) }
func (f *MultiArray) Type() FieldType  { return TypeMultiArray }

// SlotIndex returns the key index stored at the category slot of a tuple
func (f *MultiArray) SlotIndex(t Tuple) (int, error) {
	if f.CategorySlot >= len(t) {
		return 0, fmt.Errorf("field %q: tuple has %d slots, category slot is %d", f.id, len(t), f.CategorySlot)
	}
	switch v := t[f.CategorySlot].(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, fmt.Errorf("field %q: category slot holds %T, expected number", f.id, v)
	}
}

// Expand resolves the record at index i to tuples with the category slot
// replaced by its key string
func (f *MultiArray) Expand(i int) ([]Tuple, error) {
	tuples := f.Values[i]
	out := make([]Tuple, len(tuples))
	for j, t := range tuples {
		ki, err := f.SlotIndex(t)
		if err != nil {
			return nil, err
		}
		if ki < 0 || ki >= len(f.Keys) {
			return nil, fmt.Errorf("field %q: key index %d out of range at record %d", f.id, ki, i)
		}
		row := append(Tuple(nil), t...)
		row[f.CategorySlot] = f.Keys[ki]
		out[j] = row
	}
	return out, nil
}

// ExpandAll resolves every record's tuples to key strings
func (f *MultiArray) ExpandAll() ([][]Tuple, error) {
	out := make([][]Tuple, len(f.Values))
	for i := range f.Values {
		tuples, err := f.Expand(i)
		if err != nil {
			return nil, err
		}
		out[i] = tuples
	}
	return out, nil
}

// KeyIndex resolves a key name to its index. Digit strings are used
// directly as indices without a table lookup.
func (f *MultiArray) KeyIndex(name string) (int, error) {
	return keyIndex(f.id, f.Keys, name)
}

// keyIndex implements the shared key resolution rule: digit-string names
// bypass the table entirely and are taken as literal indices
func keyIndex(fieldID string, keys []string, name string) (int, error) {
	if isDigits(name) {
		n, err := strconv.Atoi(name)
		if err != nil {
			return 0, fmt.Errorf("field %q: %w: %q", fieldID, ErrUnknownKey, name)
		}
		return n, nil
	}
	for i, k := range keys {
		if k == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("field %q: %w: %q", fieldID, ErrUnknownKey, name)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// collectKeys maps display strings to key indices. The table is seeded
// from fixedKeys when given and grows in first-appearance order for names
// not already present.
func collectKeys(display []string, fixedKeys []string) ([]string, []int) {
	keys := append([]string(nil), fixedKeys...)
	lookup := make(map[string]int, len(keys))
	for i, k := range keys {
		lookup[k] = i
	}
	values := make([]int, len(display))
	for i, name := range display {
		ki, ok := lookup[name]
		if !ok {
			ki = len(keys)
			keys = append(keys, name)
			lookup[name] = ki
		}
		values[i] = ki
	}
	return keys, values
}
