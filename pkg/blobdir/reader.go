package blobdir

import (
	"fmt"
)

// Reader provides access to one dataset: metadata is loaded eagerly,
// field values lazily with caching. A Reader never mutates the dataset.
type Reader struct {
	store Storage
	meta  *Metadata
	cache map[string]Field
}

// Open loads the dataset at path, which may be a local directory or an
// s3://bucket/prefix location
func Open(path string) (*Reader, error) {
	store, err := NewStorage(path)
	if err != nil {
		return nil, err
	}
	return OpenStorage(store)
}

// OpenStorage loads a dataset through an existing storage backend
func OpenStorage(store Storage) (*Reader, error) {
	meta := &Metadata{}
	if err := ReadDoc(store, "meta.json", meta); err != nil {
		return nil, fmt.Errorf("failed to load dataset at %s: %w", store.GetBasePath(), err)
	}
	meta.Index()
	return &Reader{
		store: store,
		meta:  meta,
		cache: make(map[string]Field),
	}, nil
}

// Meta returns the dataset metadata registry
func (r *Reader) Meta() *Metadata {
	return r.meta
}

// Records returns the dataset record count
func (r *Reader) Records() int {
	return r.meta.Records
}

// FetchField loads one field's values document, caching the result.
// Container fields have no values and cannot be fetched.
func (r *Reader) FetchField(id string) (Field, error) {
	if f, ok := r.cache[id]; ok {
		return f, nil
	}
	fm := r.meta.FieldMeta(id)
	if fm == nil {
		return nil, fmt.Errorf("%w: field %q", ErrNotFound, id)
	}
	if fm.IsGroup() {
		return nil, fmt.Errorf("field %q is a container and has no values", id)
	}
	var doc valuesDoc
	if err := ReadDoc(r.store, id+".json", &doc); err != nil {
		return nil, fmt.Errorf("failed to load field %q: %w", id, err)
	}
	f, err := doc.toField(id, fm, r.meta.Records)
	if err != nil {
		return nil, err
	}
	r.cache[id] = f
	return f, nil
}

// Identifiers fetches the identifier field; its absence makes the
// dataset unusable for filtering
func (r *Reader) Identifiers() (*Identifier, error) {
	f, err := r.FetchField("identifiers")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIdentifierMissing, err)
	}
	ident, ok := f.(*Identifier)
	if !ok {
		return nil, fmt.Errorf("%w: field has type %s", ErrIdentifierMissing, f.Type())
	}
	return ident, nil
}
