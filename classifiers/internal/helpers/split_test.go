package helpers

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gustavo-munhoz/rivu/core"
)

func TestSplitSuggestionsRankHighestFirst(t *testing.T) {
	s := SplitSuggestions{
		NewSplitSuggestion(nil, 0.2, 1, nil, nil),
		NewSplitSuggestion(nil, 0.9, 1, nil, nil),
		NewSplitSuggestion(nil, 0.5, 1, nil, nil),
	}.Rank()

	assert.Equal(t, 0.9, s[0].Merit())
	assert.Equal(t, 0.5, s[1].Merit())
	assert.Equal(t, 0.2, s[2].Merit())
}

func TestSplitSuggestionsRankPlacesNaNLast(t *testing.T) {
	s := SplitSuggestions{
		NewSplitSuggestion(nil, math.NaN(), 1, nil, nil),
		NewSplitSuggestion(nil, 0.1, 1, nil, nil),
		NewSplitSuggestion(nil, math.NaN(), 1, nil, nil),
		NewSplitSuggestion(nil, 0.7, 1, nil, nil),
	}.Rank()

	assert.Equal(t, 0.7, s[0].Merit())
	assert.Equal(t, 0.1, s[1].Merit())
	assert.True(t, math.IsNaN(s[2].Merit()))
	assert.True(t, math.IsNaN(s[3].Merit()))
}

func TestNilSplitSuggestionAccessors(t *testing.T) {
	var s *SplitSuggestion
	assert.Nil(t, s.Condition())
	assert.Equal(t, 0.0, s.Merit())
	assert.Equal(t, 0.0, s.Range())
	assert.Nil(t, s.PreStats())
	assert.Nil(t, s.PostStats())
}

func splitTestNominal() *core.Attribute {
	return &core.Attribute{
		Name:   "outlook",
		Kind:   core.AttributeKindNominal,
		Values: core.NewAttributeValues("sunny", "overcast", "rainy"),
	}
}

func TestNominalMultiwayConditionBranchesByValueIndex(t *testing.T) {
	cond := NewNominalMultiwaySplitCondition(splitTestNominal())

	assert.Equal(t, 0, cond.Branch(core.MapInstance{"outlook": "sunny"}))
	assert.Equal(t, 2, cond.Branch(core.MapInstance{"outlook": "rainy"}))
	assert.Equal(t, -1, cond.Branch(core.MapInstance{}), "missing attribute yields no branch")
	assert.Equal(t, "overcast", cond.Describe(1))
}

func TestNominalBinaryConditionMatchesSingleValue(t *testing.T) {
	cond := NewNominalBinarySplitCondition(splitTestNominal(), 0, 1)

	assert.Equal(t, 0, cond.Branch(core.MapInstance{"outlook": "overcast"}))
	assert.Equal(t, 1, cond.Branch(core.MapInstance{"outlook": "sunny"}))
	assert.Equal(t, -1, cond.Branch(core.MapInstance{}))
	assert.Equal(t, "= overcast", cond.Describe(0))
	assert.Equal(t, "!= overcast", cond.Describe(1))
}

func TestNominalBinaryConditionInstanceIndexShift(t *testing.T) {
	cond, ok := NewNominalBinarySplitCondition(splitTestNominal(), 2, 0).(*nominalBinarySplitCondition)
	require.True(t, ok)

	// Model indices before the class column map straight through; at or
	// past it they shift one slot right to skip the class position.
	assert.Equal(t, 2, cond.InstanceIndex(3))
	assert.Equal(t, 3, cond.InstanceIndex(2))
	assert.Equal(t, 3, cond.InstanceIndex(0))
}

func TestNumericBinaryConditionThreshold(t *testing.T) {
	attr := &core.Attribute{Name: "temp", Kind: core.AttributeKindNumeric}
	cond := NewNumericBinarySplitCondition(attr, 70.0)

	assert.Equal(t, 0, cond.Branch(core.MapInstance{"temp": 69.5}))
	assert.Equal(t, 0, cond.Branch(core.MapInstance{"temp": 70.0}), "equal value passes the <= branch")
	assert.Equal(t, 1, cond.Branch(core.MapInstance{"temp": 70.5}))
	assert.Equal(t, -1, cond.Branch(core.MapInstance{}))
}
