package observers

import (
	"github.com/gustavo-munhoz/rivu/classifiers/internal/criteria"
	"github.com/gustavo-munhoz/rivu/classifiers/internal/helpers"
	"github.com/gustavo-munhoz/rivu/core"
	"github.com/gustavo-munhoz/rivu/internal/msgpack"
)

func init() {
	msgpack.Register(7753, (*Null)(nil))
}

// Null is the observer swapped in for an attribute once attemptSplit has
// judged it unhelpful (the poor-attribute removal path). It discards every
// observation and never proposes a split, so the attribute stops costing
// memory or split-evaluation time without the leaf having to special-case
// "disabled" attributes elsewhere.
type Null struct{}

func (Null) Observe(core.AttributeValue, int, float64) {}

// ProbabilityOfAttributeValueGivenClass always reports a zero likelihood,
// as real information rather than a skip.
func (Null) ProbabilityOfAttributeValueGivenClass(core.AttributeValue, int) (float64, bool) {
	return 0, true
}

func (Null) BestSplitSuggestion(criteria.SplitCriterion, helpers.ObservationStats, *core.Attribute, int, bool) *helpers.SplitSuggestion {
	return nil
}

func (Null) EncodeTo(enc *msgpack.Encoder) error { return nil }

func (Null) DecodeFrom(dec *msgpack.Decoder) error { return nil }
