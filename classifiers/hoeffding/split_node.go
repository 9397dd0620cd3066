package hoeffding

import (
	"fmt"
	"io"

	"github.com/gustavo-munhoz/rivu/classifiers/internal/helpers"
	"github.com/gustavo-munhoz/rivu/core"
	"github.com/gustavo-munhoz/rivu/internal/msgpack"
)

func init() {
	msgpack.Register(7762, (*splitNode)(nil))
}

// splitNode is an internal decision node: a condition that routes an
// instance to one of its children, plus the class distribution it had
// accumulated at the moment it replaced a leaf (used as a fallback
// prediction for any branch whose child slot is still empty).
type splitNode struct {
	Cond     helpers.SplitCondition
	Stats    helpers.ObservationStats
	Children []treeNode
}

func newSplitNode(cond helpers.SplitCondition, stats helpers.ObservationStats, postStats map[int]helpers.ObservationStats) *splitNode {
	maxBranch := -1
	for b := range postStats {
		if b > maxBranch {
			maxBranch = b
		}
	}
	children := make([]treeNode, maxBranch+1)
	for b, s := range postStats {
		children[b] = newLeafNode(s)
	}
	return &splitNode{Cond: cond, Stats: stats, Children: children}
}

func (n *splitNode) ByteSize() int64 { return byteSizeOf(n) }

// SetChild attaches child at branch, growing Children if needed.
func (n *splitNode) SetChild(branch int, child treeNode) {
	for branch >= len(n.Children) {
		n.Children = append(n.Children, nil)
	}
	n.Children[branch] = child
}

func (n *splitNode) Filter(inst core.Instance, parent *splitNode, branch int) (treeNode, *splitNode, int) {
	childBranch := n.Cond.Branch(inst)
	if childBranch < 0 {
		// Missing split attribute: the instance can't be routed any
		// deeper, so this node stands in as the found leaf.
		return n, parent, branch
	}
	if childBranch >= len(n.Children) || n.Children[childBranch] == nil {
		return nil, n, childBranch
	}
	return n.Children[childBranch].Filter(inst, n, childBranch)
}

func (n *splitNode) Predict(inst core.Instance) core.Prediction {
	return predictFromStats(n.Stats, inst)
}

func (n *splitNode) ReadInfo(depth int, info *TreeInfo) {
	info.NumNodes++
	for _, c := range n.Children {
		if c != nil {
			c.ReadInfo(depth+1, info)
		}
	}
}

func (n *splitNode) WriteGraph(w io.Writer, id string) error {
	if _, err := fmt.Fprintf(w, "  %s [shape=ellipse, label=%q];\n", id, n.Cond.Predictor()); err != nil {
		return err
	}
	for b, c := range n.Children {
		if c == nil {
			continue
		}
		childID := fmt.Sprintf("%s_%d", id, b)
		if _, err := fmt.Fprintf(w, "  %s -> %s [label=%q];\n", id, childID, n.Cond.Describe(b)); err != nil {
			return err
		}
		if err := c.WriteGraph(w, childID); err != nil {
			return err
		}
	}
	return nil
}

func (n *splitNode) WriteText(w io.Writer, indent string) error {
	for b, c := range n.Children {
		if c == nil {
			continue
		}
		if _, err := fmt.Fprintf(w, "\n%s%s %s", indent, n.Cond.Predictor(), n.Cond.Describe(b)); err != nil {
			return err
		}
		if err := c.WriteText(w, indent+"\t"); err != nil {
			return err
		}
	}
	return nil
}

func (n *splitNode) Prune(isObsolete PruneEval, parent *splitNode) {
	for b, c := range n.Children {
		if c == nil {
			continue
		}
		if leaf, ok := c.(*activeLeaf); ok {
			if isObsolete(leaf, n) {
				n.Children[b] = newInactiveLeaf(leaf.Stats)
			}
			continue
		}
		c.Prune(isObsolete, n)
	}
}

func (n *splitNode) FindLeaves(out []*activeLeaf) []*activeLeaf {
	for _, c := range n.Children {
		if c != nil {
			out = c.FindLeaves(out)
		}
	}
	return out
}

func (n *splitNode) EncodeTo(enc *msgpack.Encoder) error {
	if err := enc.Encode(n.Cond, n.Stats, len(n.Children)); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := enc.Encode(c); err != nil {
			return err
		}
	}
	return nil
}

func (n *splitNode) DecodeFrom(dec *msgpack.Decoder) error {
	var cond helpers.SplitCondition
	var nChildren int
	if err := dec.Decode(&cond, &n.Stats, &nChildren); err != nil {
		return err
	}
	n.Cond = cond
	n.Children = make([]treeNode, nChildren)
	for i := 0; i < nChildren; i++ {
		if err := dec.Decode(&n.Children[i]); err != nil {
			return err
		}
	}
	return nil
}
