package helpers

import (
	"fmt"
	"sort"

	"github.com/gustavo-munhoz/rivu/core"
	"github.com/gustavo-munhoz/rivu/internal/msgpack"
)

// SplitSuggestion is used for computing attribute split
// suggestions given a split condition.
type SplitSuggestion struct {
	cond      SplitCondition
	merit     float64
	mrange    float64
	preStats  ObservationStats
	postStats map[int]ObservationStats
}

// Condition returns the conditional test
func (s *SplitSuggestion) Condition() SplitCondition {
	if s != nil {
		return s.cond
	}
	return nil
}

// Merit returns the merit and range of a possible split
func (s *SplitSuggestion) Merit() float64 {
	if s != nil {
		return s.merit
	}
	return 0.0
}

// Range returns the merit range of the split
func (s *SplitSuggestion) Range() float64 {
	if s != nil {
		return s.mrange
	}
	return 0.0
}

// PreStats returns the pre-split observation stats
func (s *SplitSuggestion) PreStats() ObservationStats {
	if s != nil {
		return s.preStats
	}
	return nil
}

// PostStats returns the post-split observation stats
func (s *SplitSuggestion) PostStats() map[int]ObservationStats {
	if s != nil {
		return s.postStats
	}
	return nil
}

// NewSplitSuggestion builds a SplitSuggestion from a conditional test, its
// merit and merit range, and the pre/post-split observation stats it was
// scored from.
func NewSplitSuggestion(cond SplitCondition, merit, mrange float64, preStats ObservationStats, postStats map[int]ObservationStats) *SplitSuggestion {
	return &SplitSuggestion{cond: cond, merit: merit, mrange: mrange, preStats: preStats, postStats: postStats}
}

// SplitSuggestions is a slice if SplitSuggestion options
type SplitSuggestions []*SplitSuggestion

// Rank ranks suggestions, highest merit first. A NaN merit (a degenerate
// distribution the criterion could not score) ranks below every real
// merit, so it can never win a split decision.
func (p SplitSuggestions) Rank() SplitSuggestions {
	sort.Sort(sort.Reverse(p))
	return p
}

func (p SplitSuggestions) Len() int { return len(p) }
func (p SplitSuggestions) Less(i, j int) bool {
	mi, mj := p[i].Merit(), p[j].Merit()
	if mi != mi {
		return true
	}
	if mj != mj {
		return false
	}
	return mi < mj
}
func (p SplitSuggestions) Swap(i, j int) { p[i], p[j] = p[j], p[i] }

// --------------------------------------------------------------------

var (
	_ SplitCondition = (*nominalMultiwaySplitCondition)(nil)
	_ SplitCondition = (*numericBinarySplitCondition)(nil)
	_ SplitCondition = (*nominalBinarySplitCondition)(nil)
)

func init() {
	msgpack.Register(7743, (*nominalMultiwaySplitCondition)(nil))
	msgpack.Register(7744, (*numericBinarySplitCondition)(nil))
	msgpack.Register(7745, (*nominalBinarySplitCondition)(nil))
}

type SplitCondition interface {
	// Branch returns the branch index for an instance
	Branch(inst core.Instance) int
	// Predictor returns the predictor attribute
	Predictor() string
	// Describe returns a branch description
	Describe(branch int) string
}

// NewNominalMultiwaySplitCondition inits a new split-condition
func NewNominalMultiwaySplitCondition(predictor *core.Attribute) SplitCondition {
	return &nominalMultiwaySplitCondition{Attribute: predictor}
}

type nominalMultiwaySplitCondition struct {
	*core.Attribute
}

func (c *nominalMultiwaySplitCondition) Predictor() string { return c.Attribute.Name }
func (c *nominalMultiwaySplitCondition) Branch(inst core.Instance) int {
	return c.Attribute.Value(inst).Index()
}
func (c *nominalMultiwaySplitCondition) Describe(branch int) string {
	if branch < 0 {
		return ""
	}
	if vals := c.Attribute.Values.Values(); branch < len(vals) {
		return vals[branch]
	}
	return ""
}

func (c *nominalMultiwaySplitCondition) EncodeTo(enc *msgpack.Encoder) error {
	return enc.Encode(c.Predictor())
}

func (c *nominalMultiwaySplitCondition) DecodeFrom(dec *msgpack.Decoder) error {
	model := dec.Context().Value(core.ModelContextKey).(*core.Model)
	var name string
	if err := dec.Decode(&name); err != nil {
		return err
	}
	c.Attribute = model.Predictor(name)
	return nil
}

// NewNumericBinarySplitCondition inits a new split-condition
func NewNumericBinarySplitCondition(predictor *core.Attribute, splitValue float64) SplitCondition {
	return &numericBinarySplitCondition{
		Attribute:  predictor,
		SplitValue: splitValue,
	}
}

type numericBinarySplitCondition struct {
	*core.Attribute
	SplitValue float64
}

func (c *numericBinarySplitCondition) Predictor() string { return c.Attribute.Name }
func (c *numericBinarySplitCondition) Branch(inst core.Instance) int {
	v := c.Attribute.Value(inst)
	if v.IsMissing() {
		return -1
	}

	if n := v.Value(); n > c.SplitValue {
		return 1
	}
	return 0
}
func (c *numericBinarySplitCondition) Describe(branch int) string {
	if branch == 0 {
		return fmt.Sprintf("<= %f", c.SplitValue)
	} else if branch == 1 {
		return fmt.Sprintf("> %f", c.SplitValue)
	}
	return ""
}

func (c *numericBinarySplitCondition) EncodeTo(enc *msgpack.Encoder) error {
	return enc.Encode(c.Predictor(), c.SplitValue)
}

func (c *numericBinarySplitCondition) DecodeFrom(dec *msgpack.Decoder) error {
	model := dec.Context().Value(core.ModelContextKey).(*core.Model)
	var name string
	if err := dec.Decode(&name); err != nil {
		return err
	}

	c.Attribute = model.Predictor(name)
	return dec.Decode(&c.SplitValue)
}

// NewNominalBinarySplitCondition inits a new split-condition testing
// equality against a single nominal value. A positional, instance-indexed
// form of this test must shift model attribute indices at or past the
// class column one slot to the right, since the class occupies an
// instance slot but no predictor slot. Resolving predictors by name (as
// core.Attribute.Value does) makes that shift unobservable for
// MapInstance and VectorInstance alike; ModelIndex is still carried and
// remapped below so that a position-addressed consumer (e.g. a future
// columnar Instance) resolves the same column.
func NewNominalBinarySplitCondition(predictor *core.Attribute, modelIndex, valueIndex int) SplitCondition {
	return &nominalBinarySplitCondition{
		Attribute:  predictor,
		ModelIndex: modelIndex,
		ValueIndex: valueIndex,
	}
}

type nominalBinarySplitCondition struct {
	*core.Attribute
	ModelIndex int
	ValueIndex int
}

func (c *nominalBinarySplitCondition) Predictor() string { return c.Attribute.Name }

// InstanceIndex applies the model->instance attribute index shift: any
// model index at or past the class index is pushed one slot to the right.
func (c *nominalBinarySplitCondition) InstanceIndex(classIndex int) int {
	if c.ModelIndex < classIndex {
		return c.ModelIndex
	}
	return c.ModelIndex + 1
}

func (c *nominalBinarySplitCondition) Branch(inst core.Instance) int {
	v := c.Attribute.Value(inst)
	if v.IsMissing() {
		return -1
	}
	if v.Index() == c.ValueIndex {
		return 0
	}
	return 1
}

func (c *nominalBinarySplitCondition) Describe(branch int) string {
	vals := c.Attribute.Values.Values()
	var label string
	if c.ValueIndex >= 0 && c.ValueIndex < len(vals) {
		label = vals[c.ValueIndex]
	}
	switch branch {
	case 0:
		return fmt.Sprintf("= %s", label)
	case 1:
		return fmt.Sprintf("!= %s", label)
	}
	return ""
}

func (c *nominalBinarySplitCondition) EncodeTo(enc *msgpack.Encoder) error {
	return enc.Encode(c.Predictor(), c.ModelIndex, c.ValueIndex)
}

func (c *nominalBinarySplitCondition) DecodeFrom(dec *msgpack.Decoder) error {
	model := dec.Context().Value(core.ModelContextKey).(*core.Model)
	var name string
	if err := dec.Decode(&name, &c.ModelIndex, &c.ValueIndex); err != nil {
		return err
	}
	c.Attribute = model.Predictor(name)
	return nil
}
