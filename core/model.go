package core

import (
	"github.com/gustavo-munhoz/rivu/internal/msgpack"
)

func init() {
	msgpack.Register(7731, (*Model)(nil))
	msgpack.Register(7732, (*InstanceHeader)(nil))
}

// modelContextKeyType is the context key under which a *Model is stashed
// while decoding a tree, so that conditional tests can re-resolve their
// predictor Attribute by name (see classifiers/internal/helpers).
type modelContextKeyType struct{}

// ModelContextKey is the context.Context key a Decoder carries the active
// *Model under while decoding a persisted tree.
var ModelContextKey = modelContextKeyType{}

// Model describes the attributes a learner trains against: one target
// (the class attribute) and an ordered list of predictors. Model attribute
// indices (as used by the Hoeffding tree engine) are positions into
// Predictors; they never need remapping against instance positions because
// attributes are resolved by name through Instance.GetAttributeValue.
type Model struct {
	Target     *Attribute
	Predictors []*Attribute
}

// NewModel builds a Model from a target attribute and its predictors.
func NewModel(target *Attribute, predictors ...*Attribute) *Model {
	return &Model{Target: target, Predictors: predictors}
}

// IsRegression always returns false: this module implements
// classification only.
func (m *Model) IsRegression() bool { return false }

// NumPredictors returns the number of model (non-class) attributes.
func (m *Model) NumPredictors() int { return len(m.Predictors) }

// PredictorAt returns the model attribute at position i.
func (m *Model) PredictorAt(i int) *Attribute { return m.Predictors[i] }

// Predictor looks up a predictor (or the target) by name.
func (m *Model) Predictor(name string) *Attribute {
	for _, p := range m.Predictors {
		if p.Name == name {
			return p
		}
	}
	if m.Target != nil && m.Target.Name == name {
		return m.Target
	}
	return nil
}

// NumClasses returns the size of the target attribute's nominal domain.
func (m *Model) NumClasses() int {
	if m.Target == nil {
		return 0
	}
	return m.Target.Len()
}

// ClassIndexOf resolves the class index of an instance, or -1 if missing.
func (m *Model) ClassIndexOf(inst Instance) int {
	return m.Target.Value(inst).Index()
}

func (m *Model) EncodeTo(enc *msgpack.Encoder) error {
	if err := enc.Encode(m.Target); err != nil {
		return err
	}
	n := len(m.Predictors)
	if err := enc.Encode(n); err != nil {
		return err
	}
	for _, p := range m.Predictors {
		if err := enc.Encode(p); err != nil {
			return err
		}
	}
	return nil
}

func (m *Model) DecodeFrom(dec *msgpack.Decoder) error {
	if err := dec.Decode(&m.Target); err != nil {
		return err
	}
	var n int
	if err := dec.Decode(&n); err != nil {
		return err
	}
	m.Predictors = make([]*Attribute, n)
	for i := 0; i < n; i++ {
		if err := dec.Decode(&m.Predictors[i]); err != nil {
			return err
		}
	}
	return nil
}

// --------------------------------------------------------------------

// InstanceHeader fixes the schema a stream produces instances against:
// the relation name, the ordered attribute list, and which position holds
// the class.
type InstanceHeader struct {
	RelationName string
	Attributes   []*Attribute
	ClassIndex   int
}

// NewInstanceHeader builds a header.
func NewInstanceHeader(relation string, attrs []*Attribute, classIndex int) *InstanceHeader {
	return &InstanceHeader{RelationName: relation, Attributes: attrs, ClassIndex: classIndex}
}

// NumAttributes returns the total attribute count (predictors + class).
func (h *InstanceHeader) NumAttributes() int { return len(h.Attributes) }

// ClassAttribute returns the class attribute.
func (h *InstanceHeader) ClassAttribute() *Attribute { return h.Attributes[h.ClassIndex] }

// NumClasses returns the class attribute's nominal domain size.
func (h *InstanceHeader) NumClasses() int { return h.ClassAttribute().Len() }

// AttributeAt returns the attribute at instance-position i, or nil if out
// of range.
func (h *InstanceHeader) AttributeAt(i int) *Attribute {
	if i < 0 || i >= len(h.Attributes) {
		return nil
	}
	return h.Attributes[i]
}

// IndexOf returns the instance position of the named attribute, or -1.
func (h *InstanceHeader) IndexOf(name string) int {
	for i, a := range h.Attributes {
		if a.Name == name {
			return i
		}
	}
	return -1
}

// Model derives the (target, predictors) Model implied by this header,
// in instance-column order, skipping ClassIndex.
func (h *InstanceHeader) Model() *Model {
	predictors := make([]*Attribute, 0, len(h.Attributes)-1)
	for i, a := range h.Attributes {
		if i == h.ClassIndex {
			continue
		}
		predictors = append(predictors, a)
	}
	return NewModel(h.ClassAttribute(), predictors...)
}

func (h *InstanceHeader) EncodeTo(enc *msgpack.Encoder) error {
	if err := enc.Encode(h.RelationName, h.ClassIndex, len(h.Attributes)); err != nil {
		return err
	}
	for _, a := range h.Attributes {
		if err := enc.Encode(a); err != nil {
			return err
		}
	}
	return nil
}

func (h *InstanceHeader) DecodeFrom(dec *msgpack.Decoder) error {
	var n int
	if err := dec.Decode(&h.RelationName, &h.ClassIndex, &n); err != nil {
		return err
	}
	h.Attributes = make([]*Attribute, n)
	for i := 0; i < n; i++ {
		if err := dec.Decode(&h.Attributes[i]); err != nil {
			return err
		}
	}
	return nil
}
