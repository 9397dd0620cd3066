// Package bayes implements the Naive Bayes leaf prediction strategy (C6):
// scoring a class by its prior weight times the product of each present
// predictor's likelihood, as estimated by that predictor's attribute
// observer. It has no notion of a tree; a leaf hands it its own class
// distribution and observer set and gets back a ranked core.Prediction.
package bayes

import (
	"github.com/gustavo-munhoz/rivu/classifiers/internal/observers"
	"github.com/gustavo-munhoz/rivu/core"
)

// Predict scores every class with nonzero prior weight in classDist by its
// prior times the product of p(value | class) over every predictor that
// has both an observer in attrObservers and a non-missing value on inst.
// Predictors missing an observer or a value, and observers that carry no
// information for a (value, class) pair, are skipped entirely rather than
// treated as zero evidence; a reported likelihood multiplies in as-is,
// zero included.
func Predict(classDist map[int]float64, attrObservers map[int]observers.AttributeObserver, predictors []*core.Attribute, inst core.Instance) core.Prediction {
	totalWeight := 0.0
	for _, w := range classDist {
		totalWeight += w
	}
	if totalWeight <= 0 {
		return nil
	}

	pred := make(core.Prediction, 0, len(classDist))
	for classIndex, weight := range classDist {
		if weight <= 0 {
			continue
		}
		score := weight / totalWeight
		for i, attr := range predictors {
			obs, ok := attrObservers[i]
			if !ok {
				continue
			}
			v := attr.Value(inst)
			if v.IsMissing() {
				continue
			}
			p, ok := obs.ProbabilityOfAttributeValueGivenClass(v, classIndex)
			if !ok {
				continue
			}
			score *= p
		}
		pred = append(pred, core.PredictedValue{
			AttributeValue: core.AttributeValue(classIndex),
			Votes:          score,
		})
	}
	pred.Rank()
	return pred
}
