package core

import "math"

// InstanceValue is a raw value extracted from an instance for a given
// attribute name. It may be a string/[]byte (nominal label), a numeric
// type (nominal index or numeric value), or nil (missing).
type InstanceValue interface{}

// Instance is a single labeled (or unlabeled) observation from a stream.
// Values are resolved by attribute name so that callers never need to
// reason about the model-attribute-index vs instance-attribute-index
// mapping that free-standing conditional tests must otherwise track.
type Instance interface {
	// GetAttributeValue returns the raw value stored for the named
	// attribute, or nil if the attribute is missing from this instance.
	GetAttributeValue(name string) InstanceValue
	// Weight returns the instance weight. Implementations should return
	// 1.0 when no explicit weight was set.
	Weight() float64
}

// MapInstance is a map-backed Instance, handy for tests and small
// in-memory datasets (see Example_weather).
type MapInstance map[string]interface{}

// GetAttributeValue implements Instance.
func (m MapInstance) GetAttributeValue(name string) InstanceValue {
	if v, ok := m[name]; ok {
		return v
	}
	return nil
}

// Weight implements Instance. A "$weight" key, if present, overrides the
// default of 1.0.
func (m MapInstance) Weight() float64 {
	v, ok := m["$weight"]
	if !ok {
		return 1.0
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	}
	return 1.0
}

// VectorInstance is a positional Instance, as produced by stream readers
// (ARFF files, synthetic generators) that already know the attribute
// layout from an InstanceHeader. Nominal values are stored as their
// already-resolved domain index; numeric values are stored as-is.
// NaN denotes missing for both kinds.
type VectorInstance struct {
	Header *InstanceHeader
	Values []float64
	W      float64
}

// NewVectorInstance allocates a VectorInstance sized to the header.
func NewVectorInstance(h *InstanceHeader, weight float64) *VectorInstance {
	values := make([]float64, len(h.Attributes))
	for i := range values {
		values[i] = math.NaN()
	}
	return &VectorInstance{Header: h, Values: values, W: weight}
}

// GetAttributeValue implements Instance.
func (v *VectorInstance) GetAttributeValue(name string) InstanceValue {
	idx := v.Header.IndexOf(name)
	if idx < 0 || idx >= len(v.Values) {
		return nil
	}
	x := v.Values[idx]
	if math.IsNaN(x) {
		return nil
	}
	return x
}

// Weight implements Instance.
func (v *VectorInstance) Weight() float64 {
	if v.W <= 0 {
		return 1.0
	}
	return v.W
}

// ValueAt returns the raw positional value (NaN for missing).
func (v *VectorInstance) ValueAt(i int) float64 {
	if i < 0 || i >= len(v.Values) {
		return math.NaN()
	}
	return v.Values[i]
}

// IsMissingAt reports whether the value at instance-position i is missing.
func (v *VectorInstance) IsMissingAt(i int) bool {
	return math.IsNaN(v.ValueAt(i))
}

// ClassValue returns the resolved class index, or -1 if missing.
func (v *VectorInstance) ClassValue() int {
	x := v.ValueAt(v.Header.ClassIndex)
	if math.IsNaN(x) {
		return -1
	}
	return int(x)
}

// NumberOfAttributes returns the total attribute count, class included.
func (v *VectorInstance) NumberOfAttributes() int { return len(v.Values) }
