package hoeffding

import (
	"io"

	"github.com/gustavo-munhoz/rivu/core"
	"github.com/gustavo-munhoz/rivu/internal/memsize"
	"github.com/gustavo-munhoz/rivu/internal/msgpack"
)

// Node is the view of a tree node exposed to a PruneEval: just enough to
// judge whether it is worth keeping around.
type Node interface {
	ByteSize() int64
}

// treeNode is the tagged sum of the three node kinds a Tree is built from:
// activeLeaf (a growing learning leaf), inactiveLeaf (a leaf that has
// stopped learning to save memory, keeping only its class counts), and
// splitNode (an internal decision node). Using a closed interface over
// three concrete structs keeps each kind's data cheap and avoids the
// any/type-assertion plumbing an arena-of-nodes-by-ID design would need;
// the code that cares about the concrete kind (Train, Predict, and the
// prune/activation machinery) type-switches explicitly.
type treeNode interface {
	msgpack.Encodable
	msgpack.Decodable
	Node

	// Filter routes inst toward the leaf responsible for it. When the
	// node itself is a leaf, it returns itself. When it is a splitNode
	// and the branch inst falls into has no child yet, it returns
	// (nil, self, branch) so the caller can attach a fresh leaf there.
	Filter(inst core.Instance, parent *splitNode, branch int) (found treeNode, foundParent *splitNode, foundBranch int)

	Predict(inst core.Instance) core.Prediction
	ReadInfo(depth int, info *TreeInfo)
	WriteGraph(w io.Writer, id string) error
	WriteText(w io.Writer, indent string) error
	Prune(isObsolete PruneEval, parent *splitNode)
	FindLeaves(out []*activeLeaf) []*activeLeaf
}

// byteSizeOf is a small helper used by every node kind's ByteSize: the
// memory meter already de-duplicates shared pointers, so a fresh Meter
// here is only wasteful, not wrong, when called from the root.
func byteSizeOf(v interface{}) int64 {
	return memsize.Measure(v)
}
