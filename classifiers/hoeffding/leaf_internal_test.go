package hoeffding

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gustavo-munhoz/rivu/classifiers/internal/helpers"
	"github.com/gustavo-munhoz/rivu/classifiers/internal/observers"
)

func TestDisableAttributeSwapsInNullObserver(t *testing.T) {
	l := newLeafNode(helpers.NewObservationStats(false))
	l.disableAttribute(1)

	assert.Equal(t, observers.Null{}, l.Observers[1])

	s := l.Observers[1].BestSplitSuggestion(nil, helpers.NewObservationStats(false), nil, 1, false)
	assert.Nil(t, s, "a disabled attribute never proposes a split again")
}
