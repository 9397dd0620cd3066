package hoeffding

import (
	"bufio"
	"io"
	"sort"
	"sync"

	"github.com/gustavo-munhoz/rivu/classifiers/internal/helpers"
	"github.com/gustavo-munhoz/rivu/core"
	"github.com/gustavo-munhoz/rivu/internal/msgpack"
)

func init() {
	msgpack.Register(7750, (*Tree)(nil))
}

// PruneEval receives a leaf and parent node pair and decides if the leaf
// node is obsolete and should be deactivated.
type PruneEval func(leaf, parent Node) bool

// TreeInfo contains tree information/stats.
type TreeInfo struct {
	NumNodes          int
	NumActiveLeaves   int
	NumInactiveLeaves int
	MaxDepth          int
}

// Tree is a Hoeffding tree: a streaming decision tree classifier that
// trains in a single pass, never revisiting an instance once its
// sufficient statistics have been folded into a leaf.
type Tree struct {
	conf  *Config
	root  treeNode
	model *core.Model

	activeLeaves []*activeLeaf
	cycles       int64
	lastByteSize int64

	// growthHalted latches true once StopMemManagement fires in
	// enforceTrackerLimit and the tree is still over MaxByteSize. Nothing
	// ever flips it back: a tree that outgrows its budget under that mode
	// stays frozen at its current structure for the rest of its life.
	growthHalted bool

	mu sync.RWMutex
}

// New starts a new Hoeffding tree from a model.
func New(model *core.Model, conf *Config) *Tree {
	t := &Tree{
		model: model,
		root:  newLeafNode(helpers.NewObservationStats(model.IsRegression())),
	}
	t.SetConfig(conf)
	return t
}

// Load loads a tree from a readable source with the given config.
func Load(r io.Reader, conf *Config) (*Tree, error) {
	var t *Tree
	if err := msgpack.NewDecoder(r).Decode(&t); err != nil {
		return nil, err
	}
	t.SetConfig(conf)
	return t, nil
}

// SetConfig updates the tree's config on the fly.
func (t *Tree) SetConfig(conf *Config) {
	if conf == nil {
		conf = new(Config)
	}
	conf.norm(t.model.IsRegression())

	t.mu.Lock()
	t.conf = conf
	t.mu.Unlock()
}

// Model returns the model the tree trains against.
func (t *Tree) Model() *core.Model { return t.model }

// ByteSize returns the tree's current deep memory footprint via the same
// graph-walking meter enforceTrackerLimit uses, letting callers (e.g. the
// prequential loop's RAM-hours accounting) reuse it without reaching into
// internal state.
func (t *Tree) ByteSize() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.root.ByteSize()
}

// Info returns structural information about the tree.
func (t *Tree) Info() *TreeInfo {
	info := new(TreeInfo)

	t.mu.RLock()
	t.root.ReadInfo(1, info)
	t.mu.RUnlock()

	return info
}

// WriteGraph writes a graph in dot notation to w.
func (t *Tree) WriteGraph(w io.Writer) error {
	buf := bufio.NewWriter(w)
	defer buf.Flush()

	if _, err := buf.WriteString("digraph ht {\n  edge [arrowsize=0.6, fontsize=10];\n"); err != nil {
		return err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	if err := t.root.WriteGraph(buf, "N"); err != nil {
		return err
	}
	_, err := buf.WriteString("}\n")
	return err
}

// WriteText writes a text-based tree dump to w.
func (t *Tree) WriteText(w io.Writer) error {
	buf := bufio.NewWriter(w)
	defer buf.Flush()

	if _, err := buf.WriteString("ROOT"); err != nil {
		return err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.root.WriteText(buf, "\t")
}

// Train passes one instance to the tree for training and returns a Trace
// describing the split decision it made, if tracing is enabled.
func (t *Tree) Train(inst core.Instance) *Trace {
	var trace *Trace

	t.mu.Lock()
	defer t.mu.Unlock()

	node, parent, branch := t.root.Filter(inst, nil, -1)
	if node == nil {
		node = newLeafNode(helpers.NewObservationStats(t.model.IsRegression()))
		if parent == nil {
			t.root = node
		} else {
			parent.SetChild(branch, node)
		}
	}

	switch leaf := node.(type) {
	case *inactiveLeaf:
		leaf.Learn(inst, t)
	case *activeLeaf:
		leaf.Learn(inst, t)
		if !t.growthHalted {
			trace = t.considerSplit(leaf, parent, branch)
		}
	}

	if t.conf.MemoryEstimatePeriod > 0 {
		if t.cycles++; t.cycles%int64(t.conf.MemoryEstimatePeriod) == 0 {
			t.enforceTrackerLimit()
		}
	}

	return trace
}

func (t *Tree) considerSplit(leaf *activeLeaf, parent *splitNode, branch int) *Trace {
	weight := leaf.Stats.TotalWeight()
	if int(weight-leaf.WeightOnLastEval) < t.conf.GracePeriod {
		return nil
	}
	leaf.WeightOnLastEval = weight

	split, trace := t.attemptSplit(leaf, weight)
	if split != nil {
		if parent == nil {
			t.root = split
		} else {
			parent.SetChild(branch, split)
		}
	}
	return trace
}

// Predict returns the tree's raw class votes for inst.
func (t *Tree) Predict(inst core.Instance) core.Prediction {
	t.mu.RLock()
	defer t.mu.RUnlock()

	node, parent, _ := t.root.Filter(inst, nil, -1)
	if node == nil {
		if parent == nil {
			return nil
		}
		return parent.Predict(inst)
	}
	if leaf, ok := node.(*activeLeaf); ok {
		return leaf.predict(t.conf, t.model.Predictors, inst)
	}
	return node.Predict(inst)
}

// DumpTo writes the tree to w in its persisted (msgpack) form.
func (t *Tree) DumpTo(w io.Writer) error {
	enc := msgpack.NewEncoder(w)
	defer enc.Close()

	return enc.Encode(t)
}

// Prune walks the tree, deactivating any leaf for which isObsolete
// returns true.
func (t *Tree) Prune(isObsolete PruneEval) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.root.Prune(isObsolete, nil)
}

func (t *Tree) EncodeTo(enc *msgpack.Encoder) error {
	return enc.Encode(t.model, t.root)
}

func (t *Tree) DecodeFrom(dec *msgpack.Decoder) error {
	if err := dec.Decode(&t.model); err != nil {
		return err
	}
	dec.SetContext(contextWithModel(dec.Context(), t.model))
	return dec.Decode(&t.root)
}

func (t *Tree) attemptSplit(leaf *activeLeaf, weight float64) (*splitNode, *Trace) {
	if !leaf.Stats.IsSufficient() {
		return nil, nil
	}

	var trace *Trace
	if t.conf.EnableTracing {
		trace = new(Trace)
	}

	splits := leaf.BestSplits(t)
	if len(splits) == 0 {
		return nil, trace
	}
	bestSplit := splits[0]

	var meritGain float64
	if len(splits) > 1 {
		meritGain = bestSplit.Merit() - splits[1].Merit()
	} else {
		meritGain = bestSplit.Merit()
	}

	if trace != nil {
		trace.MeritGain = meritGain
		trace.PossibleSplits = make([]TracePossibleSplit, 0, len(splits))
		for _, split := range splits {
			if cond := split.Condition(); cond != nil {
				trace.PossibleSplits = append(trace.PossibleSplits, TracePossibleSplit{
					Predictor: cond.Predictor(),
					Merit:     split.Merit(),
				})
			}
		}
	}

	if t.conf.RemovePoorAttributes && t.conf.LeafPrediction == MajorityClass {
		t.removePoorAttributes(leaf, splits, bestSplit)
	}

	hbound := hoeffdingBound(bestSplit.Range(), t.conf.SplitConfidence, weight)
	if trace != nil {
		trace.HoeffdingBound = hbound
	}

	// With fewer than two suggestions there's nothing to compare the
	// leader against, so the Hoeffding bound can't rule it out: the leaf
	// is resolved one way or another (split, or deactivated if the
	// leader is the "do nothing" baseline).
	shouldSplit := len(splits) < 2 || meritGain > hbound || hbound < t.conf.TieThreshold
	if !shouldSplit {
		return nil, trace
	}

	if bestSplit.Condition() == nil {
		// The baseline won: splitting this leaf further isn't worth it,
		// so stop growing it instead of re-evaluating it forever.
		t.deactivate(leaf)
		return nil, trace
	}

	if trace != nil {
		trace.Split = true
	}
	return newSplitNode(bestSplit.Condition(), bestSplit.PreStats(), bestSplit.PostStats()), trace
}

// removePoorAttributes disables any observer whose best split is so far
// behind the leader, beyond the Hoeffding bound's margin, that it has no
// realistic chance of ever winning, freeing its memory early. Only the
// MajorityClass leaf strategy may call this: the Naive Bayes strategies
// still need every observer's likelihoods at prediction time.
func (t *Tree) removePoorAttributes(leaf *activeLeaf, splits helpers.SplitSuggestions, best *helpers.SplitSuggestion) {
	if len(splits) == 0 || best.Condition() == nil {
		return
	}
	hbound := hoeffdingBound(best.Range(), t.conf.SplitConfidence, leaf.Stats.TotalWeight())
	for _, s := range splits {
		cond := s.Condition()
		if cond == nil || cond == best.Condition() {
			continue
		}
		if best.Merit()-s.Merit() > hbound {
			for i := range leaf.Observers {
				if t.model.PredictorAt(i).Name == cond.Predictor() {
					leaf.disableAttribute(i)
				}
			}
		}
	}
}

// enforceTrackerLimit re-estimates the tree's byte size and, once it
// exceeds conf.MaxByteSize, deactivates active leaves in ascending order
// of promise (least useful first) until back under budget. Once growth
// is no longer constrained, it also reactivates the most promising
// inactive leaves while headroom allows, restoring their fresh-observer
// learning so a leaf that was only deactivated because the tree was
// briefly over budget can resume splitting once it shrinks.
//
// With StopMemManagement set, a tree still over budget after it first
// triggers stops growing entirely instead: growthHalted latches true and
// every later cycle is a no-op, leaving the tree's structure frozen.
func (t *Tree) enforceTrackerLimit() {
	byteSize := t.root.ByteSize()
	t.lastByteSize = byteSize

	if t.growthHalted {
		return
	}
	overBudget := byteSize > t.conf.MaxByteSize

	if overBudget && t.conf.StopMemManagement {
		t.growthHalted = true
		return
	}

	inactive := t.findInactiveLeaves()
	if !overBudget && len(inactive) == 0 {
		return
	}

	t.activeLeaves = t.root.FindLeaves(t.activeLeaves[:0])
	sort.Slice(t.activeLeaves, func(i, j int) bool {
		return t.activeLeaves[i].calculatePromise() < t.activeLeaves[j].calculatePromise()
	})

	for _, leaf := range t.activeLeaves {
		if byteSize <= t.conf.MaxByteSize {
			break
		}
		byteSize -= leaf.ByteSize()
		t.deactivate(leaf)
	}

	sort.Slice(inactive, func(i, j int) bool {
		return inactive[i].leaf.calculatePromise() < inactive[j].leaf.calculatePromise()
	})
	for i := len(inactive) - 1; i >= 0; i-- {
		ref := inactive[i]
		grown := byteSize + ref.leaf.ByteSize()
		if grown > t.conf.MaxByteSize {
			continue
		}
		byteSize = grown
		t.reactivate(ref)
	}
}

func (t *Tree) deactivate(leaf *activeLeaf) {
	inactive := newInactiveLeaf(leaf.Stats)
	t.replace(t.root, nil, -1, leaf, inactive)
}

// replace walks the tree looking for leaf and swaps it for replacement.
func (t *Tree) replace(node treeNode, parent *splitNode, branch int, leaf *activeLeaf, replacement treeNode) bool {
	switch n := node.(type) {
	case *activeLeaf:
		if n == leaf {
			if parent == nil {
				t.root = replacement
			} else {
				parent.SetChild(branch, replacement)
			}
			return true
		}
	case *splitNode:
		for b, c := range n.Children {
			if c == nil {
				continue
			}
			if t.replace(c, n, b, leaf, replacement) {
				return true
			}
		}
	}
	return false
}

// inactiveLeafRef pairs an inactive leaf with the tree location it was
// found at, so reactivate can swap it back in without a second search.
type inactiveLeafRef struct {
	leaf   *inactiveLeaf
	parent *splitNode
	branch int
}

// findInactiveLeaves walks the tree collecting every inactive leaf along
// with its parent/branch, the inactive-leaf counterpart to FindLeaves.
func (t *Tree) findInactiveLeaves() []*inactiveLeafRef {
	var out []*inactiveLeafRef
	var walk func(node treeNode, parent *splitNode, branch int)
	walk = func(node treeNode, parent *splitNode, branch int) {
		switch n := node.(type) {
		case *inactiveLeaf:
			out = append(out, &inactiveLeafRef{leaf: n, parent: parent, branch: branch})
		case *splitNode:
			for b, c := range n.Children {
				if c != nil {
					walk(c, n, b)
				}
			}
		}
	}
	walk(t.root, nil, -1)
	return out
}

// reactivate restores an inactive leaf's class counts into a fresh
// learning leaf: a new activeLeaf seeded with the same Stats but no
// attribute observers, exactly as if it had just been created.
func (t *Tree) reactivate(ref *inactiveLeafRef) {
	active := newLeafNode(ref.leaf.Stats)
	if ref.parent == nil {
		t.root = active
	} else {
		ref.parent.SetChild(ref.branch, active)
	}
}
