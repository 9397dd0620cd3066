// Package generators implements synthetic instance streams used to
// exercise a learner end-to-end without an ARFF file on disk.
package generators

import (
	"math/rand"

	"github.com/pkg/errors"

	"github.com/gustavo-munhoz/rivu/core"
)

// seaThresholds are the four classic SEA concept thresholds (function ids
// 1-4), each defining class = 1 iff att1+att2 > threshold (class 0
// otherwise).
var seaThresholds = map[int]float64{
	1: 8.0,
	2: 9.0,
	3: 7.0,
	4: 9.5,
}

// SEA is the SEA concept-drift-free generator: three numeric attributes
// uniform on [0, 10), class decided by whether the sum of the first two
// exceeds a function-specific threshold, with optional symmetric label
// noise.
type SEA struct {
	functionID int
	noisePct   float64
	balance    bool
	rng        *rand.Rand

	header *core.InstanceHeader
	seen   uint64
	max    uint64 // 0 = unbounded
}

// NewSEA builds a SEA generator. functionID selects the threshold (1-4);
// noisePct in [0,1) is the probability a generated label is flipped;
// balance alternates forcing each instance into class 0/1 evenly when
// true; seed makes the sequence reproducible.
func NewSEA(functionID int, noisePct float64, balance bool, seed int64, maxInstances uint64) (*SEA, error) {
	if _, ok := seaThresholds[functionID]; !ok {
		return nil, errors.Errorf("unknown SEA function id %d (want 1-4)", functionID)
	}
	if noisePct < 0 || noisePct >= 1 {
		return nil, errors.Errorf("noise_pct must be in [0,1), got %f", noisePct)
	}

	attrs := []*core.Attribute{
		{Name: "att1", Kind: core.AttributeKindNumeric},
		{Name: "att2", Kind: core.AttributeKindNumeric},
		{Name: "att3", Kind: core.AttributeKindNumeric},
		{Name: "class", Kind: core.AttributeKindNominal, Values: core.NewAttributeValues("0", "1")},
	}
	header := core.NewInstanceHeader("sea", attrs, 3)

	return &SEA{
		functionID: functionID,
		noisePct:   noisePct,
		balance:    balance,
		rng:        rand.New(rand.NewSource(seed)),
		header:     header,
		max:        maxInstances,
	}, nil
}

// Header implements the stream contract.
func (s *SEA) Header() *core.InstanceHeader { return s.header }

// HasMore implements the stream contract.
func (s *SEA) HasMore() bool { return s.max == 0 || s.seen < s.max }

// Next implements the stream contract.
func (s *SEA) Next() (core.Instance, bool) {
	if !s.HasMore() {
		return nil, false
	}

	a1 := s.rng.Float64() * 10
	a2 := s.rng.Float64() * 10
	a3 := s.rng.Float64() * 10

	threshold := seaThresholds[s.functionID]
	class := 0.0
	if a1+a2 > threshold {
		class = 1.0
	}

	if s.balance {
		// Force alternating labels (class 0 on even, class 1 on odd
		// instances) by redrawing a1/a2 on the target side of the
		// threshold when they fall on the other side.
		target := float64(s.seen % 2)
		if target == 1.0 && a1+a2 <= threshold {
			a1 = threshold/2 + s.rng.Float64()*5 + 0.01
			a2 = threshold/2 + s.rng.Float64()*5 + 0.01
			class = 1.0
		} else if target == 0.0 && a1+a2 > threshold {
			a1 = s.rng.Float64() * (threshold / 2)
			a2 = s.rng.Float64() * (threshold / 2)
			class = 0.0
		}
	}

	if s.noisePct > 0 && s.rng.Float64() < s.noisePct {
		class = 1.0 - class
	}

	inst := &core.VectorInstance{
		Header: s.header,
		Values: []float64{a1, a2, a3, class},
		W:      1.0,
	}
	s.seen++
	return inst, true
}
