package hoeffding

import (
	"fmt"
	"io"

	"github.com/gustavo-munhoz/rivu/classifiers/bayes"
	"github.com/gustavo-munhoz/rivu/classifiers/internal/helpers"
	"github.com/gustavo-munhoz/rivu/classifiers/internal/observers"
	"github.com/gustavo-munhoz/rivu/core"
	"github.com/gustavo-munhoz/rivu/internal/msgpack"
)

func init() {
	msgpack.Register(7760, (*activeLeaf)(nil))
	msgpack.Register(7761, (*inactiveLeaf)(nil))
}

// activeLeaf is a growing learning leaf: it keeps the class distribution
// it has seen plus one attribute observer per predictor, lazily created on
// the first training instance that carries a non-missing value for that
// predictor, so an attribute that never appears in the stream never costs
// anything.
type activeLeaf struct {
	Stats            helpers.ObservationStats
	Observers        map[int]observers.AttributeObserver
	WeightOnLastEval float64

	// MCCorrectWeight and NBCorrectWeight track, for the NBAdaptive
	// strategy, how much correctly-classified weight majority-class and
	// Naive Bayes would each have earned at this leaf so far.
	MCCorrectWeight float64
	NBCorrectWeight float64
}

func newLeafNode(stats helpers.ObservationStats) *activeLeaf {
	return &activeLeaf{Stats: stats}
}

func (l *activeLeaf) ByteSize() int64 { return byteSizeOf(l) }

func (l *activeLeaf) Filter(inst core.Instance, parent *splitNode, branch int) (treeNode, *splitNode, int) {
	return l, parent, branch
}

// Learn folds one training instance's sufficient statistics in: the class
// distribution, the NBAdaptive accuracy trackers, and every predictor's
// attribute observer.
func (l *activeLeaf) Learn(inst core.Instance, t *Tree) {
	classIdx := t.model.ClassIndexOf(inst)
	weight := inst.Weight()

	if t.conf.LeafPrediction == NBAdaptive && l.Stats.TotalWeight() > 0 {
		if l.majorityClass() == classIdx {
			l.MCCorrectWeight += weight
		}
		if bayes.Predict(l.Stats.AsVotes(), l.Observers, t.model.Predictors, inst).Index() == classIdx {
			l.NBCorrectWeight += weight
		}
	}

	l.Stats.Observe(classIdx, weight)

	if l.Observers == nil {
		l.Observers = make(map[int]observers.AttributeObserver, len(t.model.Predictors))
	}
	for i, attr := range t.model.Predictors {
		v := attr.Value(inst)
		if v.IsMissing() {
			continue
		}
		obs, ok := l.Observers[i]
		if !ok {
			if attr.IsNumeric() {
				obs = observers.NewGaussian()
			} else {
				obs = observers.NewNominal()
			}
			l.Observers[i] = obs
		}
		obs.Observe(v, classIdx, weight)
	}
}

func (l *activeLeaf) majorityClass() int {
	top := -1
	best := -1.0
	for class, w := range l.Stats.AsVotes() {
		if w > best {
			best = w
			top = class
		}
	}
	return top
}

// calculatePromise estimates how useful it would be to keep training this
// leaf: total weight seen minus the weight of its best-represented class.
// A leaf that is already nearly pure has little left to learn.
func (l *activeLeaf) calculatePromise() float64 {
	return promiseOf(l.Stats)
}

// promiseOf ranks a leaf's class distribution for enforceTrackerLimit's
// deactivate/reactivate ordering, shared by both active and inactive
// leaves so the two pools sort on the same scale.
func promiseOf(stats helpers.ObservationStats) float64 {
	total := stats.TotalWeight()
	best := 0.0
	for _, w := range stats.AsVotes() {
		if w > best {
			best = w
		}
	}
	return total - best
}

// disableAttribute swaps a predictor's observer out for a Null observer,
// used by attemptSplit's poor-attribute removal: the attribute keeps its
// slot but stops accumulating state or proposing splits.
func (l *activeLeaf) disableAttribute(modelIndex int) {
	if l.Observers == nil {
		l.Observers = map[int]observers.AttributeObserver{}
	}
	l.Observers[modelIndex] = observers.Null{}
}

// BestSplits scores every predictor's best candidate split, plus (unless
// NoPrePrune is set) a "do nothing" baseline so a split is only chosen
// when it beats leaving the leaf alone. The baseline is scored by the
// criterion against an unsplit copy of the current distribution, so its
// merit moves on the same scale as the real candidates'.
func (l *activeLeaf) BestSplits(t *Tree) helpers.SplitSuggestions {
	suggestions := make(helpers.SplitSuggestions, 0, len(l.Observers)+1)

	if !t.conf.NoPrePrune {
		pre := l.Stats.AsVotes()
		merit := t.conf.SplitCriterion.MeritOfSplit(pre, []map[int]float64{pre})
		mrange := t.conf.SplitCriterion.RangeOfMerit(l.Stats.NumClasses())
		suggestions = append(suggestions, helpers.NewSplitSuggestion(nil, merit, mrange, l.Stats, nil))
	}

	for i, obs := range l.Observers {
		attr := t.model.PredictorAt(i)
		s := obs.BestSplitSuggestion(t.conf.SplitCriterion, l.Stats, attr, i, t.conf.BinarySplitsOnly)
		if s != nil {
			suggestions = append(suggestions, s)
		}
	}
	return suggestions.Rank()
}

func (l *activeLeaf) Predict(inst core.Instance) core.Prediction {
	return predictFromStats(l.Stats, inst)
}

// strategy picks the effective leaf-prediction strategy for the current
// config and this leaf's accumulated evidence. Both Naive Bayes modes
// fall back to majority class until the leaf has NBThreshold weight;
// NBAdaptive then uses whichever of MC/NB has scored more correct weight
// so far.
func strategyFor(conf *Config, l *activeLeaf) LeafPrediction {
	switch conf.LeafPrediction {
	case NaiveBayes:
		if l == nil || l.Stats.TotalWeight() < conf.NBThreshold {
			return MajorityClass
		}
		return NaiveBayes
	case NBAdaptive:
		if l == nil || l.Stats.TotalWeight() < conf.NBThreshold {
			return MajorityClass
		}
		if l.NBCorrectWeight >= l.MCCorrectWeight {
			return NaiveBayes
		}
		return MajorityClass
	default:
		return MajorityClass
	}
}

// predictFromStats is the shared majority-class fallback used by every
// node kind's Predict (split nodes, inactive leaves, and active leaves
// whose strategy doesn't call for Naive Bayes).
func predictFromStats(stats helpers.ObservationStats, inst core.Instance) core.Prediction {
	votes := stats.AsVotes()
	pred := make(core.Prediction, 0, len(votes))
	for class, w := range votes {
		pred = append(pred, core.PredictedValue{AttributeValue: core.AttributeValue(class), Votes: w})
	}
	pred.Rank()
	return pred
}

// predict applies this leaf's effective strategy (majority class, Naive
// Bayes, or NBAdaptive's pick between the two) to inst.
func (l *activeLeaf) predict(conf *Config, predictors []*core.Attribute, inst core.Instance) core.Prediction {
	if strategyFor(conf, l) != MajorityClass {
		if pred := bayes.Predict(l.Stats.AsVotes(), l.Observers, predictors, inst); len(pred) > 0 {
			return pred
		}
	}
	return predictFromStats(l.Stats, inst)
}

func (l *activeLeaf) ReadInfo(depth int, info *TreeInfo) {
	info.NumNodes++
	info.NumActiveLeaves++
	if depth > info.MaxDepth {
		info.MaxDepth = depth
	}
}

func (l *activeLeaf) WriteGraph(w io.Writer, id string) error {
	_, err := fmt.Fprintf(w, "  %s [shape=box, label=%q];\n", id, leafLabel(l.Stats))
	return err
}

func (l *activeLeaf) WriteText(w io.Writer, indent string) error {
	_, err := fmt.Fprintf(w, " => %s\n", leafLabel(l.Stats))
	return err
}

func (l *activeLeaf) Prune(isObsolete PruneEval, parent *splitNode) {}

func (l *activeLeaf) FindLeaves(out []*activeLeaf) []*activeLeaf {
	return append(out, l)
}

func (l *activeLeaf) EncodeTo(enc *msgpack.Encoder) error {
	if err := enc.Encode(l.Stats, l.WeightOnLastEval, l.MCCorrectWeight, l.NBCorrectWeight, len(l.Observers)); err != nil {
		return err
	}
	for i, obs := range l.Observers {
		if err := enc.Encode(i, obs); err != nil {
			return err
		}
	}
	return nil
}

func (l *activeLeaf) DecodeFrom(dec *msgpack.Decoder) error {
	var n int
	if err := dec.Decode(&l.Stats, &l.WeightOnLastEval, &l.MCCorrectWeight, &l.NBCorrectWeight, &n); err != nil {
		return err
	}
	l.Observers = make(map[int]observers.AttributeObserver, n)
	for i := 0; i < n; i++ {
		var idx int
		var obs observers.AttributeObserver
		if err := dec.Decode(&idx, &obs); err != nil {
			return err
		}
		l.Observers[idx] = obs
	}
	return nil
}

// --------------------------------------------------------------------

// inactiveLeaf is a leaf that has stopped growing to save memory: it keeps
// updating its class distribution (so its promise and predictions stay
// current) but no longer maintains attribute observers or considers
// splits.
type inactiveLeaf struct {
	Stats helpers.ObservationStats
}

func newInactiveLeaf(stats helpers.ObservationStats) *inactiveLeaf {
	return &inactiveLeaf{Stats: stats}
}

func (l *inactiveLeaf) ByteSize() int64 { return byteSizeOf(l) }

func (l *inactiveLeaf) Filter(inst core.Instance, parent *splitNode, branch int) (treeNode, *splitNode, int) {
	return l, parent, branch
}

func (l *inactiveLeaf) Learn(inst core.Instance, t *Tree) {
	l.Stats.Observe(t.model.ClassIndexOf(inst), inst.Weight())
}

func (l *inactiveLeaf) Predict(inst core.Instance) core.Prediction {
	return predictFromStats(l.Stats, inst)
}

// calculatePromise mirrors activeLeaf's so enforceTrackerLimit can rank
// active and inactive leaves on the same scale when deciding which
// inactive leaves are worth reactivating.
func (l *inactiveLeaf) calculatePromise() float64 {
	return promiseOf(l.Stats)
}

func (l *inactiveLeaf) ReadInfo(depth int, info *TreeInfo) {
	info.NumNodes++
	info.NumInactiveLeaves++
	if depth > info.MaxDepth {
		info.MaxDepth = depth
	}
}

func (l *inactiveLeaf) WriteGraph(w io.Writer, id string) error {
	_, err := fmt.Fprintf(w, "  %s [shape=box, style=dashed, label=%q];\n", id, leafLabel(l.Stats))
	return err
}

func (l *inactiveLeaf) WriteText(w io.Writer, indent string) error {
	_, err := fmt.Fprintf(w, " => (inactive) %s\n", leafLabel(l.Stats))
	return err
}

func (l *inactiveLeaf) Prune(isObsolete PruneEval, parent *splitNode) {}

func (l *inactiveLeaf) FindLeaves(out []*activeLeaf) []*activeLeaf { return out }

func (l *inactiveLeaf) EncodeTo(enc *msgpack.Encoder) error { return enc.Encode(l.Stats) }

func (l *inactiveLeaf) DecodeFrom(dec *msgpack.Decoder) error { return dec.Decode(&l.Stats) }

func leafLabel(stats helpers.ObservationStats) string {
	return fmt.Sprintf("n=%.0f", stats.TotalWeight())
}
