// Package observers implements the per-attribute, per-leaf sufficient
// statistics a Hoeffding tree consults instead of storing raw instances:
// a Gaussian estimator for numeric attributes, a Laplace-smoothed count
// table for nominal attributes, and a null observer that disables an
// attribute after it is judged unhelpful.
package observers

import (
	"github.com/gustavo-munhoz/rivu/classifiers/internal/criteria"
	"github.com/gustavo-munhoz/rivu/classifiers/internal/helpers"
	"github.com/gustavo-munhoz/rivu/core"
	"github.com/gustavo-munhoz/rivu/internal/msgpack"
)

// AttributeObserver accumulates per-class sufficient statistics for one
// predictor attribute at one leaf, and evaluates candidate splits on it.
type AttributeObserver interface {
	msgpack.Encodable
	msgpack.Decodable

	// Observe folds one (value, class, weight) training observation in.
	Observe(value core.AttributeValue, classIndex int, weight float64)

	// ProbabilityOfAttributeValueGivenClass returns p(value | class), used
	// by the Naive Bayes leaf strategies. ok is false when the observer
	// carries no information for the pair (missing value, or a class it
	// has never seen); the caller must then skip the attribute rather
	// than score it.
	ProbabilityOfAttributeValueGivenClass(value core.AttributeValue, classIndex int) (p float64, ok bool)

	// BestSplitSuggestion scores the best candidate split on this
	// attribute, or nil if none can be formed yet. predictor/modelIndex
	// identify the attribute being tested; binaryOnly forces a two-way
	// split even for nominal attributes with more than two values.
	BestSplitSuggestion(criterion criteria.SplitCriterion, preSplit helpers.ObservationStats, predictor *core.Attribute, modelIndex int, binaryOnly bool) *helpers.SplitSuggestion
}
