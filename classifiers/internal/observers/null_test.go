package observers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gustavo-munhoz/rivu/classifiers/internal/criteria"
	"github.com/gustavo-munhoz/rivu/classifiers/internal/helpers"
	"github.com/gustavo-munhoz/rivu/core"
)

func TestNullObserverDiscardsEverything(t *testing.T) {
	var n Null
	n.Observe(core.AttributeValue(1.0), 0, 1.0)

	p, ok := n.ProbabilityOfAttributeValueGivenClass(core.AttributeValue(1.0), 0)
	assert.True(t, ok, "a disabled attribute reports a real zero, not a skip")
	assert.Equal(t, 0.0, p)

	attr := &core.Attribute{Name: "x", Kind: core.AttributeKindNumeric}
	s := n.BestSplitSuggestion(criteria.Gini{}, helpers.NewObservationStats(false), attr, 0, false)
	assert.Nil(t, s)
}
