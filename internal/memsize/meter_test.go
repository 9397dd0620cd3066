package memsize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gustavo-munhoz/rivu/internal/memsize"
)

type listNode struct {
	Payload [64]byte
	Next    *listNode
}

func TestMeasureCountsSharedPointerOnce(t *testing.T) {
	shared := &listNode{}

	two := []*listNode{shared, shared}
	distinct := []*listNode{{}, {}}

	assert.Less(t, memsize.Measure(two), memsize.Measure(distinct),
		"two references to one node must weigh less than two separate nodes")
}

func TestMeasureTerminatesOnCycles(t *testing.T) {
	a := &listNode{}
	b := &listNode{Next: a}
	a.Next = b

	size := memsize.Measure(a)
	assert.Greater(t, size, int64(128), "both nodes' payloads should be counted")
}

func TestMeasureGrowsWithData(t *testing.T) {
	small := map[string][]byte{"k": make([]byte, 8)}
	big := map[string][]byte{"k": make([]byte, 8192)}
	assert.Less(t, memsize.Measure(small), memsize.Measure(big))
}

func TestMeterMarkVisited(t *testing.T) {
	m := memsize.NewMeter()
	assert.False(t, m.MarkVisited(0xdead))
	assert.True(t, m.MarkVisited(0xdead))
}

func TestMeasureNilIsZero(t *testing.T) {
	assert.Equal(t, int64(0), memsize.Measure(nil))
}
