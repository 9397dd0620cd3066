package helpers

import "github.com/gustavo-munhoz/rivu/internal/msgpack"

func init() {
	msgpack.Register(7746, (*classStats)(nil))
}

// ObservationStats accumulates the class-weight distribution attached to a
// split suggestion's pre- or post-split branch. Classification is the only
// supported task (see core.Model.IsRegression), so the only concrete
// implementation tracks per-class weights; a regression variant would
// implement the same interface over running mean/variance instead.
type ObservationStats interface {
	// TotalWeight is the sum of all observed weights.
	TotalWeight() float64
	// IsSufficient reports whether this distribution carries enough
	// information for a split decision: a leaf whose label history is
	// pure (fewer than two classes with nonzero weight) has nothing to
	// separate.
	IsSufficient() bool
	// Observe adds weight to the given class index.
	Observe(classIndex int, weight float64)
	// AsVotes returns a copy of the per-class weight distribution.
	AsVotes() map[int]float64
	// Get returns the weight observed for a single class index.
	Get(classIndex int) float64
	// NumClasses returns how many distinct classes have nonzero weight.
	NumClasses() int
	// Merge folds another ObservationStats' weights into this one.
	Merge(other ObservationStats)
	// Clone returns an independent deep copy.
	Clone() ObservationStats
}

// NewObservationStats returns the ObservationStats implementation
// appropriate for the task. regression is always false in this module;
// the parameter makes call sites spell out which task they build for.
func NewObservationStats(regression bool) ObservationStats {
	if regression {
		panic("helpers: regression observation stats not supported")
	}
	return &classStats{weights: map[int]float64{}}
}

type classStats struct {
	weights map[int]float64
	total   float64
}

func (s *classStats) TotalWeight() float64 { return s.total }

func (s *classStats) IsSufficient() bool { return len(s.weights) >= 2 }

func (s *classStats) Observe(classIndex int, weight float64) {
	if classIndex < 0 || weight <= 0 {
		return
	}
	s.weights[classIndex] += weight
	s.total += weight
}

func (s *classStats) Get(classIndex int) float64 { return s.weights[classIndex] }

func (s *classStats) NumClasses() int { return len(s.weights) }

func (s *classStats) AsVotes() map[int]float64 {
	out := make(map[int]float64, len(s.weights))
	for k, v := range s.weights {
		out[k] = v
	}
	return out
}

func (s *classStats) Merge(other ObservationStats) {
	if other == nil {
		return
	}
	for k, v := range other.AsVotes() {
		s.Observe(k, v)
	}
}

func (s *classStats) Clone() ObservationStats {
	c := &classStats{weights: make(map[int]float64, len(s.weights)), total: s.total}
	for k, v := range s.weights {
		c.weights[k] = v
	}
	return c
}

func (s *classStats) EncodeTo(enc *msgpack.Encoder) error {
	return enc.Encode(s.total, s.weights)
}

func (s *classStats) DecodeFrom(dec *msgpack.Decoder) error {
	return dec.Decode(&s.total, &s.weights)
}
