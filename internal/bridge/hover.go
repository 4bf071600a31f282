package bridge

import (
	"context"
	"errors"

	"github.com/dshills/jsonbridge/internal/editor"
)

// HoverAdapter connects the editor's hover slot to the engine.
type HoverAdapter struct {
	engine LanguageService
}

// NewHoverAdapter creates a hover adapter.
func NewHoverAdapter(engine LanguageService) *HoverAdapter {
	return &HoverAdapter{engine: engine}
}

// Provide computes hover content at an editor position. It returns
// (nil, nil) when there is nothing under the cursor.
func (a *HoverAdapter) Provide(ctx context.Context, doc editor.Document, pos editor.Position) (*editor.Hover, error) {
	snapshot := BuildSnapshot(doc)

	parsed, err := a.engine.ParseDocument(ctx, snapshot)
	if err != nil {
		return nil, engineErr("hover", string(snapshot.URI), err)
	}

	hover, err := a.engine.Hover(ctx, snapshot, parsed, ToServicePosition(pos))
	if err != nil {
		return nil, engineErr("hover", string(snapshot.URI), err)
	}

	result, err := ToEditorHover(hover)
	if errors.Is(err, ErrNoHoverResult) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}
