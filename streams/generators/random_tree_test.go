package generators_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gustavo-munhoz/rivu/streams/generators"
)

func TestNewRandomTreeRejectsNoAttributes(t *testing.T) {
	_, err := generators.NewRandomTree(0, 5, 0, 2, 4, 1, 0)
	assert.Error(t, err)
}

func TestNewRandomTreeRejectsTooFewClasses(t *testing.T) {
	_, err := generators.NewRandomTree(0, 5, 2, 1, 4, 1, 0)
	assert.Error(t, err)
}

func TestNewRandomTreeRejectsTinyNominalCardinality(t *testing.T) {
	_, err := generators.NewRandomTree(2, 1, 0, 2, 4, 1, 0)
	assert.Error(t, err)
}

func TestRandomTreeHeaderShape(t *testing.T) {
	g, err := generators.NewRandomTree(2, 4, 3, 3, 5, 1, 0)
	require.NoError(t, err)

	header := g.Header()
	require.Equal(t, 6, header.NumAttributes())
	assert.Equal(t, "nominal0", header.AttributeAt(0).Name)
	assert.Equal(t, "numeric0", header.AttributeAt(2).Name)
	assert.Equal(t, "class", header.ClassAttribute().Name)
	assert.Equal(t, 3, header.ClassAttribute().Len())
}

func TestRandomTreeStopsAtMaxInstances(t *testing.T) {
	g, err := generators.NewRandomTree(1, 3, 1, 2, 3, 5, 10)
	require.NoError(t, err)

	count := 0
	for g.HasMore() {
		_, ok := g.Next()
		require.True(t, ok)
		count++
	}
	assert.Equal(t, 10, count)
}

func TestRandomTreeIsDeterministicUnderFixedSeed(t *testing.T) {
	a, err := generators.NewRandomTree(2, 3, 2, 2, 4, 99, 15)
	require.NoError(t, err)
	b, err := generators.NewRandomTree(2, 3, 2, 2, 4, 99, 15)
	require.NoError(t, err)

	for a.HasMore() && b.HasMore() {
		ia, _ := a.Next()
		ib, _ := b.Next()
		na := ia.(interface{ ValueAt(int) float64 })
		nb := ib.(interface{ ValueAt(int) float64 })
		for i := 0; i < a.Header().NumAttributes(); i++ {
			assert.Equal(t, na.ValueAt(i), nb.ValueAt(i))
		}
	}
}

func TestRandomTreeClassIsWithinDomain(t *testing.T) {
	g, err := generators.NewRandomTree(2, 4, 2, 3, 5, 3, 200)
	require.NoError(t, err)

	for g.HasMore() {
		inst, ok := g.Next()
		require.True(t, ok)
		cv := inst.(interface{ ClassValue() int })
		class := cv.ClassValue()
		assert.GreaterOrEqual(t, class, 0)
		assert.Less(t, class, 3)
	}
}
