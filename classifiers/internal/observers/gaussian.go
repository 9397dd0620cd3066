package observers

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/gustavo-munhoz/rivu/classifiers/internal/criteria"
	"github.com/gustavo-munhoz/rivu/classifiers/internal/helpers"
	"github.com/gustavo-munhoz/rivu/core"
	"github.com/gustavo-munhoz/rivu/internal/msgpack"
)

func init() {
	msgpack.Register(7751, (*Gaussian)(nil))
}

const defaultNumBins = 10

// gaussianEstimator is Welford's weighted online mean/variance recurrence,
// plus a Gaussian-tail-mass estimate of how a threshold splits the weight
// it has observed.
type gaussianEstimator struct {
	weightSum   float64
	mean        float64
	varianceSum float64
}

func (e *gaussianEstimator) observe(value, weight float64) {
	if weight <= 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return
	}
	if e.weightSum == 0 {
		e.weightSum = weight
		e.mean = value
		return
	}
	lastMean := e.mean
	e.weightSum += weight
	e.mean += weight * (value - lastMean) / e.weightSum
	e.varianceSum += weight * (value - lastMean) * (value - e.mean)
}

func (e *gaussianEstimator) variance() float64 {
	if e.weightSum <= 1 {
		return 0
	}
	return e.varianceSum / (e.weightSum - 1)
}

func (e *gaussianEstimator) stdDev() float64 { return math.Sqrt(e.variance()) }

// lessEqualGreater splits this estimator's total observed weight into the
// portion below, at, and above value, via the Gaussian CDF. For a
// continuous attribute the "equal" mass at any single point is zero.
func (e *gaussianEstimator) lessEqualGreater(value float64) (less, equal, greater float64) {
	if e.weightSum == 0 {
		return 0, 0, 0
	}
	sd := e.stdDev()
	if sd == 0 {
		switch {
		case value < e.mean:
			return 0, 0, e.weightSum
		case value > e.mean:
			return e.weightSum, 0, 0
		default:
			return 0, e.weightSum, 0
		}
	}
	n := distuv.Normal{Mu: e.mean, Sigma: sd}
	less = n.CDF(value) * e.weightSum
	if less < 0 {
		less = 0
	}
	if less > e.weightSum {
		less = e.weightSum
	}
	greater = e.weightSum - less
	return less, 0, greater
}

func (e *gaussianEstimator) probabilityDensity(value float64) float64 {
	if e.weightSum == 0 {
		return 0.0
	}
	sd := e.stdDev()
	if sd == 0 {
		if value == e.mean {
			return 1.0
		}
		return 0.0
	}
	n := distuv.Normal{Mu: e.mean, Sigma: sd}
	return n.Prob(value)
}

func (e *gaussianEstimator) merge(o *gaussianEstimator) {
	if o == nil || o.weightSum == 0 {
		return
	}
	if e.weightSum == 0 {
		*e = *o
		return
	}
	totalWeight := e.weightSum + o.weightSum
	deltaMean := o.mean - e.mean
	newMean := e.mean + deltaMean*o.weightSum/totalWeight
	newVarianceSum := e.varianceSum + o.varianceSum +
		deltaMean*deltaMean*e.weightSum*o.weightSum/totalWeight
	e.weightSum = totalWeight
	e.mean = newMean
	e.varianceSum = newVarianceSum
}

// Gaussian is the numeric attribute observer (C1): one gaussianEstimator
// per class, plus the per-class min/max needed to short-circuit a
// candidate split point that falls entirely outside a class's range.
type Gaussian struct {
	NumBins int
	min     map[int]float64
	max     map[int]float64
	dist    map[int]*gaussianEstimator
}

// NewGaussian constructs an empty Gaussian observer.
func NewGaussian() *Gaussian {
	return &Gaussian{
		NumBins: defaultNumBins,
		min:     map[int]float64{},
		max:     map[int]float64{},
		dist:    map[int]*gaussianEstimator{},
	}
}

func (g *Gaussian) ensure(classIndex int) *gaussianEstimator {
	if g.dist == nil {
		g.dist = map[int]*gaussianEstimator{}
		g.min = map[int]float64{}
		g.max = map[int]float64{}
	}
	e, ok := g.dist[classIndex]
	if !ok {
		e = &gaussianEstimator{}
		g.dist[classIndex] = e
	}
	return e
}

// Observe implements AttributeObserver.
func (g *Gaussian) Observe(value core.AttributeValue, classIndex int, weight float64) {
	if value.IsMissing() || weight <= 0 {
		return
	}
	v := value.Value()
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	e := g.ensure(classIndex)
	if e.weightSum == 0 {
		g.min[classIndex] = v
		g.max[classIndex] = v
	} else {
		if v < g.min[classIndex] {
			g.min[classIndex] = v
		}
		if v > g.max[classIndex] {
			g.max[classIndex] = v
		}
	}
	e.observe(v, weight)
}

// ProbabilityOfAttributeValueGivenClass implements AttributeObserver. A
// class without an estimator (or one that never absorbed any weight) has
// no density to report, so ok is false and the caller skips the
// attribute.
func (g *Gaussian) ProbabilityOfAttributeValueGivenClass(value core.AttributeValue, classIndex int) (float64, bool) {
	if value.IsMissing() {
		return 0, false
	}
	e, ok := g.dist[classIndex]
	if !ok || e.weightSum == 0 {
		return 0, false
	}
	return e.probabilityDensity(value.Value()), true
}

func (g *Gaussian) splitPoints() []float64 {
	if len(g.dist) == 0 {
		return nil
	}
	minValue, maxValue := math.Inf(1), math.Inf(-1)
	for c := range g.dist {
		if g.min[c] < minValue {
			minValue = g.min[c]
		}
		if g.max[c] > maxValue {
			maxValue = g.max[c]
		}
	}
	if minValue >= maxValue {
		return nil
	}
	bins := g.NumBins
	if bins <= 0 {
		bins = defaultNumBins
	}
	span := maxValue - minValue
	points := make([]float64, 0, bins)
	for i := 1; i <= bins; i++ {
		points = append(points, minValue+span*float64(i)/float64(bins+1))
	}
	return points
}

// classDistsForSplit returns the (<=, >) class-weight distributions that
// result from splitting at splitValue.
func (g *Gaussian) classDistsForSplit(splitValue float64) (lhs, rhs map[int]float64) {
	lhs, rhs = map[int]float64{}, map[int]float64{}
	for c, e := range g.dist {
		total := e.weightSum
		switch {
		case splitValue < g.min[c]:
			rhs[c] += total
		case splitValue >= g.max[c]:
			lhs[c] += total
		default:
			less, equal, greater := e.lessEqualGreater(splitValue)
			lhs[c] += less + equal
			rhs[c] += greater
		}
	}
	return lhs, rhs
}

// BestSplitSuggestion implements AttributeObserver.
func (g *Gaussian) BestSplitSuggestion(criterion criteria.SplitCriterion, preSplit helpers.ObservationStats, predictor *core.Attribute, modelIndex int, binaryOnly bool) *helpers.SplitSuggestion {
	var best *helpers.SplitSuggestion
	preDist := preSplit.AsVotes()

	for _, sv := range g.splitPoints() {
		lhs, rhs := g.classDistsForSplit(sv)
		merit := criterion.MeritOfSplit(preDist, []map[int]float64{lhs, rhs})
		if best != nil && merit <= best.Merit() {
			continue
		}

		postStats := map[int]helpers.ObservationStats{
			0: toObservationStats(lhs),
			1: toObservationStats(rhs),
		}
		cond := helpers.NewNumericBinarySplitCondition(predictor, sv)
		best = helpers.NewSplitSuggestion(cond, merit, criterion.RangeOfMerit(preSplit.NumClasses()), preSplit, postStats)
	}
	return best
}

func toObservationStats(dist map[int]float64) helpers.ObservationStats {
	s := helpers.NewObservationStats(false)
	for classIndex, w := range dist {
		s.Observe(classIndex, w)
	}
	return s
}

func (g *Gaussian) EncodeTo(enc *msgpack.Encoder) error {
	if err := enc.Encode(g.NumBins, len(g.dist)); err != nil {
		return err
	}
	for c, e := range g.dist {
		if err := enc.Encode(c, e.weightSum, e.mean, e.varianceSum, g.min[c], g.max[c]); err != nil {
			return err
		}
	}
	return nil
}

func (g *Gaussian) DecodeFrom(dec *msgpack.Decoder) error {
	var n int
	if err := dec.Decode(&g.NumBins, &n); err != nil {
		return err
	}
	g.dist = make(map[int]*gaussianEstimator, n)
	g.min = make(map[int]float64, n)
	g.max = make(map[int]float64, n)
	for i := 0; i < n; i++ {
		var c int
		e := &gaussianEstimator{}
		var mn, mx float64
		if err := dec.Decode(&c, &e.weightSum, &e.mean, &e.varianceSum, &mn, &mx); err != nil {
			return err
		}
		g.dist[c] = e
		g.min[c] = mn
		g.max[c] = mx
	}
	return nil
}
