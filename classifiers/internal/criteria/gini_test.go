package criteria

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGiniPureSplitHasMaximumMerit(t *testing.T) {
	pre := map[int]float64{0: 10, 1: 10}
	post := []map[int]float64{
		{0: 10},
		{1: 10},
	}
	assert.InDelta(t, 1.0, Gini{}.MeritOfSplit(pre, post), 1e-12)
}

func TestGiniUninformativeSplitKeepsPreImpurity(t *testing.T) {
	pre := map[int]float64{0: 10, 1: 10}
	post := []map[int]float64{
		{0: 5, 1: 5},
		{0: 5, 1: 5},
	}
	// Both branches mirror the pre-split 50/50 mix, so the weighted
	// impurity stays at 0.5 and the merit at 1 - 0.5.
	assert.InDelta(t, 0.5, Gini{}.MeritOfSplit(pre, post), 1e-12)
}

func TestGiniZeroWeightBranchContributesNothing(t *testing.T) {
	pre := map[int]float64{0: 10, 1: 10}
	post := []map[int]float64{
		{0: 10, 1: 10},
		{},
	}
	merit := Gini{}.MeritOfSplit(pre, post)
	assert.False(t, math.IsNaN(merit), "an empty branch must not poison the merit with NaN")
	assert.InDelta(t, 0.5, merit, 1e-12)
}

func TestGiniEmptySplitHasZeroMerit(t *testing.T) {
	assert.Equal(t, 0.0, Gini{}.MeritOfSplit(map[int]float64{}, nil))
}

func TestGiniRangeOfMerit(t *testing.T) {
	assert.Equal(t, 1.0, Gini{}.RangeOfMerit(2))
	assert.Equal(t, 1.0, Gini{}.RangeOfMerit(100))
}
