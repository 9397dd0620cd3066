package observers

import (
	"github.com/gustavo-munhoz/rivu/classifiers/internal/criteria"
	"github.com/gustavo-munhoz/rivu/classifiers/internal/helpers"
	"github.com/gustavo-munhoz/rivu/core"
	"github.com/gustavo-munhoz/rivu/internal/msgpack"
)

func init() {
	msgpack.Register(7752, (*Nominal)(nil))
}

// Nominal is the nominal attribute observer (C2): a Laplace-smoothed
// per-value, per-class weight table.
type Nominal struct {
	totalWeight   float64
	missingWeight float64
	dist          map[int]map[int]float64 // classIndex -> valueIndex -> weight
	values        map[int]struct{}        // distinct value indices observed
}

// NewNominal constructs an empty nominal observer.
func NewNominal() *Nominal {
	return &Nominal{
		dist:   map[int]map[int]float64{},
		values: map[int]struct{}{},
	}
}

func (n *Nominal) ensure() {
	if n.dist == nil {
		n.dist = map[int]map[int]float64{}
	}
	if n.values == nil {
		n.values = map[int]struct{}{}
	}
}

// Observe implements AttributeObserver.
func (n *Nominal) Observe(value core.AttributeValue, classIndex int, weight float64) {
	if weight <= 0 {
		return
	}
	n.ensure()
	n.totalWeight += weight
	if value.IsMissing() {
		n.missingWeight += weight
		return
	}
	valueIdx := value.Index()
	n.values[valueIdx] = struct{}{}
	classDist, ok := n.dist[classIndex]
	if !ok {
		classDist = map[int]float64{}
		n.dist[classIndex] = classDist
	}
	classDist[valueIdx] += weight
}

// ProbabilityOfAttributeValueGivenClass implements AttributeObserver,
// Laplace-smoothing over the class's own count row. The denominator uses
// the row's dense extent (highest value index this class has seen, plus
// one), so two classes with different supports smooth over different
// domains. A class with no observations carries no information: ok is
// false and the caller skips the attribute.
func (n *Nominal) ProbabilityOfAttributeValueGivenClass(value core.AttributeValue, classIndex int) (float64, bool) {
	if value.IsMissing() {
		return 0, false
	}
	row := n.dist[classIndex]
	if len(row) == 0 {
		return 0, false
	}
	rowSum, rowLen := 0.0, 0
	for v, w := range row {
		rowSum += w
		if v+1 > rowLen {
			rowLen = v + 1
		}
	}
	count := row[value.Index()]
	return (count + 1) / (rowSum + float64(rowLen)), true
}

// BestSplitSuggestion implements AttributeObserver.
func (n *Nominal) BestSplitSuggestion(criterion criteria.SplitCriterion, preSplit helpers.ObservationStats, predictor *core.Attribute, modelIndex int, binaryOnly bool) *helpers.SplitSuggestion {
	preDist := preSplit.AsVotes()

	if !binaryOnly {
		post := n.multiwayDists()
		postMaps := make([]map[int]float64, len(post))
		postStats := make(map[int]helpers.ObservationStats, len(post))
		for i, d := range post {
			postMaps[i] = d
			postStats[i] = toObservationStats(d)
		}
		merit := criterion.MeritOfSplit(preDist, postMaps)
		cond := helpers.NewNominalMultiwaySplitCondition(predictor)
		return helpers.NewSplitSuggestion(cond, merit, criterion.RangeOfMerit(preSplit.NumClasses()), preSplit, postStats)
	}

	var best *helpers.SplitSuggestion
	for valueIdx := range n.values {
		lhs, rhs := n.binaryDistsForValue(valueIdx)
		merit := criterion.MeritOfSplit(preDist, []map[int]float64{lhs, rhs})
		if best != nil && merit <= best.Merit() {
			continue
		}
		postStats := map[int]helpers.ObservationStats{0: toObservationStats(lhs), 1: toObservationStats(rhs)}
		cond := helpers.NewNominalBinarySplitCondition(predictor, modelIndex, valueIdx)
		best = helpers.NewSplitSuggestion(cond, merit, criterion.RangeOfMerit(preSplit.NumClasses()), preSplit, postStats)
	}
	return best
}

// multiwayDists returns one class-weight map per observed value index,
// keyed positionally by value index for the criterion call.
func (n *Nominal) multiwayDists() []map[int]float64 {
	maxV := -1
	for v := range n.values {
		if v > maxV {
			maxV = v
		}
	}
	out := make([]map[int]float64, maxV+1)
	for i := range out {
		out[i] = map[int]float64{}
	}
	for classIndex, classDist := range n.dist {
		for v, w := range classDist {
			out[v][classIndex] = w
		}
	}
	return out
}

func (n *Nominal) binaryDistsForValue(valueIdx int) (lhs, rhs map[int]float64) {
	lhs, rhs = map[int]float64{}, map[int]float64{}
	for classIndex, classDist := range n.dist {
		for v, w := range classDist {
			if v == valueIdx {
				lhs[classIndex] += w
			} else {
				rhs[classIndex] += w
			}
		}
	}
	return lhs, rhs
}

func (n *Nominal) EncodeTo(enc *msgpack.Encoder) error {
	if err := enc.Encode(n.totalWeight, n.missingWeight, len(n.dist)); err != nil {
		return err
	}
	for classIndex, classDist := range n.dist {
		if err := enc.Encode(classIndex, classDist); err != nil {
			return err
		}
	}
	return nil
}

func (n *Nominal) DecodeFrom(dec *msgpack.Decoder) error {
	var count int
	if err := dec.Decode(&n.totalWeight, &n.missingWeight, &count); err != nil {
		return err
	}
	n.dist = make(map[int]map[int]float64, count)
	n.values = map[int]struct{}{}
	for i := 0; i < count; i++ {
		var classIndex int
		var classDist map[int]float64
		if err := dec.Decode(&classIndex, &classDist); err != nil {
			return err
		}
		n.dist[classIndex] = classDist
		for v := range classDist {
			n.values[v] = struct{}{}
		}
	}
	return nil
}
