package blobdir

// FieldType identifies the shape of a field's per-record values
type FieldType string

const (
	TypeIdentifier FieldType = "identifier"
	TypeVariable   FieldType = "variable"
	TypeCategory   FieldType = "category"
	TypeMultiArray FieldType = "multiarray"
)

// FieldMeta describes one node in the dataset's field tree.
// Group nodes carry Children and no Type; typed leaves may carry
// associated data-field descriptors in Data (scores, indices etc.)
type FieldMeta struct {
	ID           string       `json:"id"`
	Name         string       `json:"name,omitempty"`
	Type         FieldType    `json:"type,omitempty"`
	Datatype     string       `json:"datatype,omitempty"`
	Scale        string       `json:"scale,omitempty"`
	Range        []float64    `json:"range,omitempty"`
	Clamp        any          `json:"clamp,omitempty"` // numeric threshold or false
	Preload      bool         `json:"preload,omitempty"`
	Active       *bool        `json:"active,omitempty"`
	Parent       string       `json:"parent,omitempty"`
	Keys         []string     `json:"keys,omitempty"`
	CategorySlot *int         `json:"category_slot,omitempty"`
	Headers      []string     `json:"headers,omitempty"`
	Children     []*FieldMeta `json:"children,omitempty"`
	Data         []*FieldMeta `json:"data,omitempty"`
}

// IsGroup reports whether the node is a grouping marker with no values
// document of its own
func (f *FieldMeta) IsGroup() bool {
	return len(f.Children) > 0
}

// Clone returns a deep copy of the descriptor and its subtree
func (f *FieldMeta) Clone() *FieldMeta {
	if f == nil {
		return nil
	}
	c := *f
	c.Range = append([]float64(nil), f.Range...)
	c.Keys = append([]string(nil), f.Keys...)
	c.Headers = append([]string(nil), f.Headers...)
	if f.CategorySlot != nil {
		slot := *f.CategorySlot
		c.CategorySlot = &slot
	}
	if f.Active != nil {
		active := *f.Active
		c.Active = &active
	}
	c.Children = cloneFieldList(f.Children)
	c.Data = cloneFieldList(f.Data)
	return &c
}

func cloneFieldList(fields []*FieldMeta) []*FieldMeta {
	if fields == nil {
		return nil
	}
	out := make([]*FieldMeta, len(fields))
	for i, f := range fields {
		out[i] = f.Clone()
	}
	return out
}

// Metadata is the dataset-level document: record count, origin, plot axes
// and the per-field descriptor tree
type Metadata struct {
	ID         string            `json:"id,omitempty"`
	Name       string            `json:"name,omitempty"`
	RecordType string            `json:"record_type,omitempty"`
	Records    int               `json:"records"`
	Revision   int               `json:"revision,omitempty"`
	Origin     string            `json:"origin,omitempty"`
	Fields     []*FieldMeta      `json:"fields"`
	Plot       map[string]string `json:"plot,omitempty"`
	Assembly   map[string]any    `json:"assembly,omitempty"`
	Taxon      map[string]any    `json:"taxon,omitempty"`
	Settings   map[string]any    `json:"settings,omitempty"`

	index map[string]*FieldMeta
	order []string
}

// Index flattens the field tree into a registry: document-order id list
// plus id lookup. Must be called after the Fields tree changes.
func (m *Metadata) Index() {
	m.index = make(map[string]*FieldMeta)
	m.order = m.order[:0]
	var walk func(fields []*FieldMeta)
	walk = func(fields []*FieldMeta) {
		for _, f := range fields {
			m.order = append(m.order, f.ID)
			m.index[f.ID] = f
			walk(f.Children)
			walk(f.Data)
		}
	}
	walk(m.Fields)
}

// HasField reports whether a field id is present in the registry
func (m *Metadata) HasField(id string) bool {
	_, ok := m.index[id]
	return ok
}

// FieldMeta returns the descriptor for a field id, or nil
func (m *Metadata) FieldMeta(id string) *FieldMeta {
	return m.index[id]
}

// ListFields returns all field ids in registry iteration order
// (depth-first document order, group nodes included)
func (m *Metadata) ListFields() []string {
	return append([]string(nil), m.order...)
}

// PlotAxis returns the field id assigned to a plot axis (x, y, z or cat)
func (m *Metadata) PlotAxis(axis string) (string, bool) {
	id, ok := m.Plot[axis]
	return id, ok
}

// Clone returns a deep copy of the metadata; the copy is re-indexed
func (m *Metadata) Clone() *Metadata {
	c := &Metadata{
		ID:         m.ID,
		Name:       m.Name,
		RecordType: m.RecordType,
		Records:    m.Records,
		Revision:   m.Revision,
		Origin:     m.Origin,
		Fields:     cloneFieldList(m.Fields),
	}
	if m.Plot != nil {
		c.Plot = make(map[string]string, len(m.Plot))
		for k, v := range m.Plot {
			c.Plot[k] = v
		}
	}
	c.Assembly = cloneAnyMap(m.Assembly)
	c.Taxon = cloneAnyMap(m.Taxon)
	c.Settings = cloneAnyMap(m.Settings)
	c.Index()
	return c
}

func cloneAnyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
