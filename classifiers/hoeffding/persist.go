package hoeffding

import (
	"context"

	"github.com/gustavo-munhoz/rivu/core"
)

// contextWithModel stashes model under core.ModelContextKey, so that a
// conditional test's DecodeFrom can re-resolve its predictor Attribute by
// name once the tree's Model has itself finished decoding. This breaks the
// chicken-and-egg ordering problem of a treeNode graph that references
// attributes the Model sub-decode produced a moment earlier in the same
// stream.
func contextWithModel(ctx context.Context, model *core.Model) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, core.ModelContextKey, model)
}
