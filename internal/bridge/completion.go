package bridge

import (
	"context"

	"github.com/dshills/jsonbridge/internal/editor"
)

// CompletionAdapter connects the editor's completion slot to the engine.
// It is stateless: every call captures its own snapshot, so concurrent
// invocations stay self-consistent even if the buffer changes mid-flight.
type CompletionAdapter struct {
	engine LanguageService
}

// NewCompletionAdapter creates a completion adapter.
func NewCompletionAdapter(engine LanguageService) *CompletionAdapter {
	return &CompletionAdapter{engine: engine}
}

// Provide computes completion proposals at an editor position.
func (a *CompletionAdapter) Provide(ctx context.Context, doc editor.Document, pos editor.Position) (*editor.CompletionList, error) {
	snapshot := BuildSnapshot(doc)

	parsed, err := a.engine.ParseDocument(ctx, snapshot)
	if err != nil {
		return nil, engineErr("complete", string(snapshot.URI), err)
	}

	list, err := a.engine.Complete(ctx, snapshot, parsed, ToServicePosition(pos))
	if err != nil {
		return nil, engineErr("complete", string(snapshot.URI), err)
	}

	return ToEditorCompletionList(list), nil
}

// Resolve fills in expensive details for a previously returned item. It
// operates on the opaque item handle and needs no document snapshot.
func (a *CompletionAdapter) Resolve(ctx context.Context, item editor.CompletionItem) (editor.CompletionItem, error) {
	resolved, err := a.engine.ResolveCompletion(ctx, ToServiceCompletionItem(item))
	if err != nil {
		return item, engineErr("resolve", "", err)
	}
	return ToEditorCompletionItem(resolved), nil
}
