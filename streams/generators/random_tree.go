package generators

import (
	"fmt"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/gustavo-munhoz/rivu/core"
)

// rtNode is one node of the generator's own hidden concept tree: a
// decision node routes on one attribute, a leaf carries a fixed class
// label. This is a generation-time concept only, unrelated to the
// Hoeffding tree the learner builds from the instances it emits.
type rtNode struct {
	isLeaf   bool
	class    int
	attr     int       // decision node: which attribute it splits on
	nominal  bool      // decision node: nominal (branch = value) or numeric (branch = val < split)
	split    float64   // numeric split point
	children []*rtNode
}

// RandomTree is a synthetic generator that builds a random concept tree
// over a mix of nominal and numeric attributes, then labels every
// instance by filtering it through that hidden tree.
type RandomTree struct {
	header      *core.InstanceHeader
	root        *rtNode
	numNominal  int
	nominalCard int
	numNumeric  int
	numClasses  int
	rng         *rand.Rand
	max         uint64
	seen        uint64
}

// NewRandomTree builds a random-tree generator. numNominal/nominalCard
// control how many nominal attributes exist and their shared domain size;
// numNumeric is the count of numeric (uniform [0,1)) attributes;
// numClasses is the target cardinality; maxTreeDepth bounds the hidden
// concept tree's depth; seed makes both tree shape and instance sequence
// reproducible.
func NewRandomTree(numNominal, nominalCard, numNumeric, numClasses, maxTreeDepth int, seed int64, maxInstances uint64) (*RandomTree, error) {
	if numNominal+numNumeric == 0 {
		return nil, errors.New("random tree generator needs at least one attribute")
	}
	if numClasses < 2 {
		return nil, errors.New("random tree generator needs at least 2 classes")
	}
	if numNominal > 0 && nominalCard < 2 {
		return nil, errors.New("nominal_card must be >= 2 when num_nominal > 0")
	}

	rng := rand.New(rand.NewSource(seed))

	attrs := make([]*core.Attribute, 0, numNominal+numNumeric+1)
	for i := 0; i < numNominal; i++ {
		vals := make([]string, nominalCard)
		for v := range vals {
			vals[v] = fmt.Sprintf("v%d", v)
		}
		attrs = append(attrs, &core.Attribute{
			Name:   fmt.Sprintf("nominal%d", i),
			Kind:   core.AttributeKindNominal,
			Values: core.NewAttributeValues(vals...),
		})
	}
	for i := 0; i < numNumeric; i++ {
		attrs = append(attrs, &core.Attribute{Name: fmt.Sprintf("numeric%d", i), Kind: core.AttributeKindNumeric})
	}
	classVals := make([]string, numClasses)
	for c := range classVals {
		classVals[c] = fmt.Sprintf("class%d", c)
	}
	attrs = append(attrs, &core.Attribute{Name: "class", Kind: core.AttributeKindNominal, Values: core.NewAttributeValues(classVals...)})

	header := core.NewInstanceHeader("random-tree", attrs, len(attrs)-1)

	g := &RandomTree{
		header:      header,
		numNominal:  numNominal,
		nominalCard: nominalCard,
		numNumeric:  numNumeric,
		numClasses:  numClasses,
		rng:         rng,
		max:         maxInstances,
	}
	g.root = g.buildNode(0, maxTreeDepth)
	return g, nil
}

func (g *RandomTree) buildNode(depth, maxDepth int) *rtNode {
	numAttrs := g.numNominal + g.numNumeric
	if depth >= maxDepth || numAttrs == 0 || g.rng.Float64() < 0.3 {
		return &rtNode{isLeaf: true, class: g.rng.Intn(g.numClasses)}
	}

	attr := g.rng.Intn(numAttrs)
	n := &rtNode{attr: attr}

	if attr < g.numNominal {
		n.nominal = true
		n.children = make([]*rtNode, g.nominalCard)
		for i := range n.children {
			n.children[i] = g.buildNode(depth+1, maxDepth)
		}
	} else {
		n.nominal = false
		n.split = g.rng.Float64()
		n.children = []*rtNode{g.buildNode(depth+1, maxDepth), g.buildNode(depth+1, maxDepth)}
	}
	return n
}

func (g *RandomTree) classify(values []float64) int {
	node := g.root
	for !node.isLeaf {
		v := values[node.attr]
		if node.nominal {
			idx := int(v)
			if idx < 0 || idx >= len(node.children) {
				idx = 0
			}
			node = node.children[idx]
		} else if v < node.split {
			node = node.children[0]
		} else {
			node = node.children[1]
		}
	}
	return node.class
}

// Header implements the stream contract.
func (g *RandomTree) Header() *core.InstanceHeader { return g.header }

// HasMore implements the stream contract.
func (g *RandomTree) HasMore() bool { return g.max == 0 || g.seen < g.max }

// Next implements the stream contract.
func (g *RandomTree) Next() (core.Instance, bool) {
	if !g.HasMore() {
		return nil, false
	}

	values := make([]float64, len(g.header.Attributes))
	for i := 0; i < g.numNominal; i++ {
		values[i] = float64(g.rng.Intn(g.nominalCard))
	}
	for i := 0; i < g.numNumeric; i++ {
		values[g.numNominal+i] = g.rng.Float64()
	}
	values[g.header.ClassIndex] = float64(g.classify(values))

	inst := &core.VectorInstance{Header: g.header, Values: values, W: 1.0}
	g.seen++
	return inst, true
}
