package eval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gustavo-munhoz/rivu/core"
	"github.com/gustavo-munhoz/rivu/eval"
)

// oracleLearner always predicts the instance's own class value, so an
// evaluator driven by it should converge to perfect accuracy; used to
// exercise the prequential loop's cadence and RAM-hours bookkeeping
// without depending on classifiers/hoeffding.
type oracleLearner struct{}

func (oracleLearner) Predict(inst core.Instance) core.Prediction {
	cv, ok := inst.(*core.VectorInstance)
	if !ok {
		return nil
	}
	return core.Prediction{{AttributeValue: core.AttributeValue(float64(cv.ClassValue())), Votes: 1}}
}

func (oracleLearner) Train(inst core.Instance) {}

func (oracleLearner) ByteSize() int64 { return 1024 }

// binaryStream yields n instances alternating class 0/1 on a single
// dummy numeric attribute.
type binaryStream struct {
	header *core.InstanceHeader
	n      int
	i      int
}

func newBinaryStream(n int) *binaryStream {
	attrs := []*core.Attribute{
		{Name: "x", Kind: core.AttributeKindNumeric},
		{Name: "class", Kind: core.AttributeKindNominal, Values: core.NewAttributeValues("0", "1")},
	}
	return &binaryStream{header: core.NewInstanceHeader("bin", attrs, 1), n: n}
}

func (s *binaryStream) Header() *core.InstanceHeader { return s.header }
func (s *binaryStream) HasMore() bool                { return s.i < s.n }
func (s *binaryStream) Next() (core.Instance, bool) {
	if !s.HasMore() {
		return nil, false
	}
	class := float64(s.i % 2)
	inst := &core.VectorInstance{Header: s.header, Values: []float64{float64(s.i), class}, W: 1.0}
	s.i++
	return inst, true
}

func TestNewPrequentialRejectsZeroFrequencies(t *testing.T) {
	_, err := eval.NewPrequential(oracleLearner{}, newBinaryStream(10), eval.NewBasicClassificationEvaluator(2), 0, 5)
	assert.Error(t, err)

	_, err = eval.NewPrequential(oracleLearner{}, newBinaryStream(10), eval.NewBasicClassificationEvaluator(2), 5, 0)
	assert.Error(t, err)
}

func TestPrequentialSnapshotCadence(t *testing.T) {
	// 12 instances, sample_frequency=5 -> snapshots at 5, 10, 12.
	pq, err := eval.NewPrequential(oracleLearner{}, newBinaryStream(12), eval.NewBasicClassificationEvaluator(2), 5, 1)
	require.NoError(t, err)
	require.NoError(t, pq.Run())

	curve := pq.Curve()
	require.Len(t, curve, 3)
	assert.Equal(t, uint64(5), curve[0].InstancesSeen)
	assert.Equal(t, uint64(10), curve[1].InstancesSeen)
	assert.Equal(t, uint64(12), curve[2].InstancesSeen)
}

func TestPrequentialOracleAccuracyIsPerfect(t *testing.T) {
	pq, err := eval.NewPrequential(oracleLearner{}, newBinaryStream(100), eval.NewBasicClassificationEvaluator(2), 10, 10)
	require.NoError(t, err)
	require.NoError(t, pq.Run())

	last := pq.Curve()[len(pq.Curve())-1]
	assert.Equal(t, uint64(100), last.InstancesSeen)
	assert.InDelta(t, 1.0, last.Accuracy, 1e-9)
	assert.GreaterOrEqual(t, last.RAMHours, 0.0)
}

func TestPrequentialStopsAtMaxInstances(t *testing.T) {
	pq, err := eval.NewPrequential(
		oracleLearner{}, newBinaryStream(1000), eval.NewBasicClassificationEvaluator(2), 5, 3,
		eval.WithMaxInstances(25),
	)
	require.NoError(t, err)
	require.NoError(t, pq.Run())

	last := pq.Curve()[len(pq.Curve())-1]
	assert.Equal(t, uint64(25), last.InstancesSeen)
}

func TestPrequentialRunIDStable(t *testing.T) {
	pq, err := eval.NewPrequential(oracleLearner{}, newBinaryStream(5), eval.NewBasicClassificationEvaluator(2), 1, 1)
	require.NoError(t, err)
	require.NoError(t, pq.Run())

	for _, s := range pq.Curve() {
		assert.Equal(t, pq.RunID(), s.RunID)
	}
}
