package hoeffding

import "github.com/gustavo-munhoz/rivu/core"

// ForPrequential adapts a Tree to the learner contract eval.Prequential
// drives (Predict / Train / ByteSize). It exists only because Tree.Train
// returns a *Trace for callers that want split diagnostics, which the
// loop has no use for.
type ForPrequential struct {
	*Tree
}

// Train implements the adapter's narrower Train signature, discarding the
// Trace that Tree.Train produces.
func (a ForPrequential) Train(inst core.Instance) { a.Tree.Train(inst) }
