package observers

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gustavo-munhoz/rivu/classifiers/internal/criteria"
	"github.com/gustavo-munhoz/rivu/classifiers/internal/helpers"
	"github.com/gustavo-munhoz/rivu/core"
)

func TestGaussianEstimatorMatchesOfflineMoments(t *testing.T) {
	values := []float64{2.0, 4.0, 4.0, 4.0, 5.0, 5.0, 7.0, 9.0}
	e := &gaussianEstimator{}
	for _, v := range values {
		e.observe(v, 1.0)
	}

	// Offline mean and unbiased variance over the same sample.
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	varSum := 0.0
	for _, v := range values {
		varSum += (v - mean) * (v - mean)
	}

	assert.Equal(t, float64(len(values)), e.weightSum)
	assert.InDelta(t, mean, e.mean, 1e-12)
	assert.InDelta(t, varSum/float64(len(values)-1), e.variance(), 1e-12)
}

func TestGaussianEstimatorWeightDecomposition(t *testing.T) {
	split := &gaussianEstimator{}
	split.observe(3.5, 1.5)
	split.observe(3.5, 2.5)

	joined := &gaussianEstimator{}
	joined.observe(3.5, 4.0)

	assert.InDelta(t, joined.weightSum, split.weightSum, 1e-12)
	assert.InDelta(t, joined.mean, split.mean, 1e-12)
}

func TestGaussianEstimatorIgnoresDegenerateObservations(t *testing.T) {
	e := &gaussianEstimator{}
	e.observe(math.NaN(), 1.0)
	e.observe(math.Inf(1), 1.0)
	e.observe(1.0, 0.0)
	e.observe(1.0, -2.0)
	assert.Zero(t, e.weightSum)
}

func TestGaussianEstimatorEmptyDensityIsZero(t *testing.T) {
	e := &gaussianEstimator{}
	assert.Equal(t, 0.0, e.probabilityDensity(0.0))
	assert.Equal(t, 0.0, e.probabilityDensity(42.0))
}

func TestGaussianEstimatorSingleObservationDensity(t *testing.T) {
	e := &gaussianEstimator{}
	e.observe(3.0, 1.0)
	assert.Equal(t, 1.0, e.probabilityDensity(3.0))
	assert.Equal(t, 0.0, e.probabilityDensity(3.0001))
}

func TestGaussianObserverTracksMinMaxPerClass(t *testing.T) {
	g := NewGaussian()
	g.Observe(core.AttributeValue(1.0), 0, 1.0)
	g.Observe(core.AttributeValue(5.0), 0, 1.0)
	g.Observe(core.AttributeValue(-2.0), 0, 1.0)

	assert.Equal(t, -2.0, g.min[0])
	assert.Equal(t, 5.0, g.max[0])
}

func TestGaussianObserverUnseenClassCarriesNoInformation(t *testing.T) {
	g := NewGaussian()
	g.Observe(core.AttributeValue(1.0), 0, 1.0)

	_, ok := g.ProbabilityOfAttributeValueGivenClass(core.AttributeValue(1.0), 7)
	assert.False(t, ok)
	_, ok = g.ProbabilityOfAttributeValueGivenClass(core.MissingValue(), 0)
	assert.False(t, ok)

	p, ok := g.ProbabilityOfAttributeValueGivenClass(core.AttributeValue(1.0), 0)
	assert.True(t, ok)
	assert.Equal(t, 1.0, p)
}

func TestGaussianObserverNoSuggestionWithoutData(t *testing.T) {
	g := NewGaussian()
	attr := &core.Attribute{Name: "x", Kind: core.AttributeKindNumeric}
	s := g.BestSplitSuggestion(criteria.Gini{}, helpers.NewObservationStats(false), attr, 0, true)
	assert.Nil(t, s)
}

func TestGaussianObserverSeparatesTwoModes(t *testing.T) {
	g := NewGaussian()
	pre := helpers.NewObservationStats(false)
	for i := 0; i < 100; i++ {
		lo := core.AttributeValue(0.0 + float64(i)*0.001)
		hi := core.AttributeValue(5.0 + float64(i)*0.001)
		g.Observe(lo, 0, 1.0)
		g.Observe(hi, 1, 1.0)
		pre.Observe(0, 1.0)
		pre.Observe(1, 1.0)
	}

	attr := &core.Attribute{Name: "x", Kind: core.AttributeKindNumeric}
	s := g.BestSplitSuggestion(criteria.Gini{}, pre, attr, 0, true)
	require.NotNil(t, s)
	require.NotNil(t, s.Condition())

	// A clean two-mode stream should split (nearly) purely: one branch all
	// class 0, the other all class 1.
	post := s.PostStats()
	require.Len(t, post, 2)
	assert.InDelta(t, 100.0, post[0].Get(0), 1.0)
	assert.InDelta(t, 0.0, post[0].Get(1), 1.0)
	assert.InDelta(t, 0.0, post[1].Get(0), 1.0)
	assert.InDelta(t, 100.0, post[1].Get(1), 1.0)
	assert.InDelta(t, 1.0, s.Merit(), 0.05)

	// The chosen threshold routes each mode to its own branch.
	lowBranch := s.Condition().Branch(core.MapInstance{"x": 0.05})
	highBranch := s.Condition().Branch(core.MapInstance{"x": 5.05})
	assert.Equal(t, 0, lowBranch)
	assert.Equal(t, 1, highBranch)
}
