package generators_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gustavo-munhoz/rivu/streams/generators"
)

func TestNewSEARejectsUnknownFunctionID(t *testing.T) {
	_, err := generators.NewSEA(5, 0, false, 1, 0)
	assert.Error(t, err)
}

func TestNewSEARejectsOutOfRangeNoise(t *testing.T) {
	_, err := generators.NewSEA(1, 1.0, false, 1, 0)
	assert.Error(t, err)

	_, err = generators.NewSEA(1, -0.1, false, 1, 0)
	assert.Error(t, err)
}

func TestSEAHeaderShape(t *testing.T) {
	s, err := generators.NewSEA(1, 0, false, 1, 0)
	require.NoError(t, err)

	header := s.Header()
	require.Equal(t, 4, header.NumAttributes())
	assert.Equal(t, "att1", header.AttributeAt(0).Name)
	assert.Equal(t, "class", header.AttributeAt(3).Name)
	assert.Equal(t, 3, header.ClassIndex)
}

func TestSEAStopsAtMaxInstances(t *testing.T) {
	s, err := generators.NewSEA(1, 0, false, 1, 7)
	require.NoError(t, err)

	count := 0
	for s.HasMore() {
		_, ok := s.Next()
		require.True(t, ok)
		count++
	}
	assert.Equal(t, 7, count)
	assert.False(t, s.HasMore())
}

func TestSEAIsDeterministicUnderFixedSeed(t *testing.T) {
	a, err := generators.NewSEA(2, 0, false, 42, 20)
	require.NoError(t, err)
	b, err := generators.NewSEA(2, 0, false, 42, 20)
	require.NoError(t, err)

	for a.HasMore() && b.HasMore() {
		ia, _ := a.Next()
		ib, _ := b.Next()
		na := ia.(interface{ ValueAt(int) float64 })
		nb := ib.(interface{ ValueAt(int) float64 })
		for i := 0; i < 4; i++ {
			assert.Equal(t, na.ValueAt(i), nb.ValueAt(i))
		}
	}
}

func TestSEAClassMatchesThreshold(t *testing.T) {
	s, err := generators.NewSEA(1, 0, false, 7, 500)
	require.NoError(t, err)

	for s.HasMore() {
		inst, ok := s.Next()
		require.True(t, ok)
		vi := inst.(interface{ ValueAt(int) float64 })
		a1, a2, class := vi.ValueAt(0), vi.ValueAt(1), vi.ValueAt(3)
		if a1+a2 > 8.0 {
			assert.Equal(t, 1.0, class)
		} else {
			assert.Equal(t, 0.0, class)
		}
	}
}
