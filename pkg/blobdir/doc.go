package blobdir

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"
)

// ReadDoc loads a JSON document from storage into v, accepting either a
// plain or gzip-compressed file: name is tried first, then name.gz.
// Returns ErrNotFound when neither exists.
func ReadDoc(store Storage, name string, v any) error {
	data, err := readRaw(store, name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

func readRaw(store Storage, name string) ([]byte, error) {
	for _, candidate := range []string{name, name + ".gz"} {
		ok, err := store.Exists(candidate)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		data, err := store.ReadFile(candidate)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", candidate, err)
		}
		if strings.HasSuffix(candidate, ".gz") {
			data, err = gunzip(data)
			if err != nil {
				return nil, fmt.Errorf("failed to decompress %s: %w", candidate, err)
			}
		}
		return data, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// WriteDoc persists v as a JSON document; names ending in .gz are
// compressed. Metadata is written indented, field value docs compact.
func WriteDoc(store Storage, name string, v any, indent bool) error {
	var data []byte
	var err error
	if indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	if strings.HasSuffix(name, ".gz") {
		data, err = gzipBytes(data)
		if err != nil {
			return fmt.Errorf("failed to compress %s: %w", name, err)
		}
	}
	if err := store.WriteFile(name, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func gunzip(data []byte) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer gz.Close()
	return io.ReadAll(gz)
}

func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(data); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// valuesDoc is the persisted per-field document: the ordered value array
// plus the key table, category slot and headers where the type uses them
type valuesDoc struct {
	Values       json.RawMessage `json:"values"`
	Keys         []string        `json:"keys,omitempty"`
	CategorySlot *int            `json:"category_slot,omitempty"`
	Headers      []string        `json:"headers,omitempty"`
}

// toField decodes the value array according to the descriptor's type and
// validates the length invariant against records
func (d *valuesDoc) toField(id string, fm *FieldMeta, records int) (Field, error) {
	switch fm.Type {
	case TypeIdentifier:
		var values []string
		if err := json.Unmarshal(d.Values, &values); err != nil {
			return nil, fmt.Errorf("failed to decode field %q values: %w", id, err)
		}
		return NewIdentifier(id, fm, values, records)
	case TypeVariable:
		var values []float64
		if err := json.Unmarshal(d.Values, &values); err != nil {
			return nil, fmt.Errorf("failed to decode field %q values: %w", id, err)
		}
		return NewVariable(id, fm, values, records)
	case TypeCategory:
		var values []int
		if err := json.Unmarshal(d.Values, &values); err != nil {
			return nil, fmt.Errorf("failed to decode field %q values: %w", id, err)
		}
		keys := d.Keys
		if keys == nil {
			keys = fm.Keys
		}
		return NewCategory(id, fm, values, keys, records)
	case TypeMultiArray:
		var values [][]Tuple
		if err := json.Unmarshal(d.Values, &values); err != nil {
			return nil, fmt.Errorf("failed to decode field %q values: %w", id, err)
		}
		keys := d.Keys
		if keys == nil {
			keys = fm.Keys
		}
		slot := 0
		if d.CategorySlot != nil {
			slot = *d.CategorySlot
		} else if fm.CategorySlot != nil {
			slot = *fm.CategorySlot
		}
		headers := d.Headers
		if headers == nil {
			headers = fm.Headers
		}
		return NewMultiArray(id, fm, values, keys, slot, headers, records)
	default:
		return nil, fmt.Errorf("field %q has unsupported type %q", id, fm.Type)
	}
}

// fieldDoc builds the persisted document for a field
func fieldDoc(f Field) (*valuesDoc, error) {
	doc := &valuesDoc{}
	var payload any
	switch f := f.(type) {
	case *Identifier:
		payload = f.Values
	case *Variable:
		payload = f.Values
	case *Category:
		payload = f.Values
		doc.Keys = f.Keys
	case *MultiArray:
		payload = f.Values
		doc.Keys = f.Keys
		slot := f.CategorySlot
		doc.CategorySlot = &slot
		doc.Headers = f.Headers
	default:
		return nil, fmt.Errorf("field %q has unsupported type %s", f.ID(), f.Type())
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode field %q values: %w", f.ID(), err)
	}
	doc.Values = raw
	return doc, nil
}
