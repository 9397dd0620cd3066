package bayes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gustavo-munhoz/rivu/classifiers/bayes"
	"github.com/gustavo-munhoz/rivu/classifiers/internal/observers"
	"github.com/gustavo-munhoz/rivu/core"
)

func nbPredictors() []*core.Attribute {
	return []*core.Attribute{
		{Name: "color", Kind: core.AttributeKindNominal, Values: core.NewAttributeValues("red", "blue")},
		{Name: "size", Kind: core.AttributeKindNumeric},
	}
}

func TestPredictEmptyDistributionReturnsNil(t *testing.T) {
	pred := bayes.Predict(map[int]float64{}, nil, nbPredictors(), core.MapInstance{})
	assert.Nil(t, pred)
}

func TestPredictFallsBackToPriorsWithoutObservers(t *testing.T) {
	classDist := map[int]float64{0: 30, 1: 10}
	pred := bayes.Predict(classDist, nil, nbPredictors(), core.MapInstance{"color": "red"})
	require.NotEmpty(t, pred)
	assert.Equal(t, 0, pred.Index(), "with no likelihood evidence the prior decides")
}

func TestPredictLikelihoodOverridesPrior(t *testing.T) {
	predictors := nbPredictors()

	// Class 1 is the minority, but "blue" has only ever been seen with it.
	colorObs := observers.NewNominal()
	for i := 0; i < 30; i++ {
		colorObs.Observe(core.AttributeValue(0), 0, 1.0)
	}
	for i := 0; i < 10; i++ {
		colorObs.Observe(core.AttributeValue(1), 1, 1.0)
	}

	classDist := map[int]float64{0: 30, 1: 10}
	attrObservers := map[int]observers.AttributeObserver{0: colorObs}

	pred := bayes.Predict(classDist, attrObservers, predictors, core.MapInstance{"color": "blue"})
	require.NotEmpty(t, pred)
	assert.Equal(t, 1, pred.Index())
}

func TestPredictSkipsMissingValues(t *testing.T) {
	predictors := nbPredictors()

	colorObs := observers.NewNominal()
	colorObs.Observe(core.AttributeValue(1), 1, 10.0)

	classDist := map[int]float64{0: 30, 1: 10}
	attrObservers := map[int]observers.AttributeObserver{0: colorObs}

	// No color on the instance: the observer must not contribute, leaving
	// the prior to decide.
	pred := bayes.Predict(classDist, attrObservers, predictors, core.MapInstance{"size": 4.0})
	require.NotEmpty(t, pred)
	assert.Equal(t, 0, pred.Index())
}
