package bridge

import (
	"context"

	"github.com/dshills/jsonbridge/internal/editor"
)

// SymbolsAdapter connects the editor's document-symbol slot to the engine.
type SymbolsAdapter struct {
	engine LanguageService
}

// NewSymbolsAdapter creates a symbols adapter.
func NewSymbolsAdapter(engine LanguageService) *SymbolsAdapter {
	return &SymbolsAdapter{engine: engine}
}

// Provide lists the symbols of the document.
func (a *SymbolsAdapter) Provide(ctx context.Context, doc editor.Document) ([]editor.SymbolInformation, error) {
	snapshot := BuildSnapshot(doc)

	parsed, err := a.engine.ParseDocument(ctx, snapshot)
	if err != nil {
		return nil, engineErr("symbols", string(snapshot.URI), err)
	}

	symbols, err := a.engine.DocumentSymbols(ctx, snapshot, parsed)
	if err != nil {
		return nil, engineErr("symbols", string(snapshot.URI), err)
	}

	return ToEditorSymbolInformations(symbols), nil
}
