package bridge

import (
	"context"

	"github.com/dshills/jsonbridge/internal/editor"
	"github.com/dshills/jsonbridge/internal/protocol"
)

// DefaultFormattingOptions are the service-side defaults merged with
// whatever the editor provides.
var DefaultFormattingOptions = protocol.FormattingOptions{
	TabSize:      4,
	InsertSpaces: true,
}

// FormattingAdapter connects the editor's range-formatting slot to the
// engine.
type FormattingAdapter struct {
	engine   LanguageService
	defaults protocol.FormattingOptions
}

// NewFormattingAdapter creates a formatting adapter with the given
// defaults for options the editor does not expose.
func NewFormattingAdapter(engine LanguageService, defaults protocol.FormattingOptions) *FormattingAdapter {
	return &FormattingAdapter{engine: engine, defaults: defaults}
}

// FormatRange computes edits that reformat the given editor range.
func (a *FormattingAdapter) FormatRange(ctx context.Context, doc editor.Document, rng editor.Range, opts editor.FormattingOptions) ([]editor.TextEdit, error) {
	snapshot := BuildSnapshot(doc)

	parsed, err := a.engine.ParseDocument(ctx, snapshot)
	if err != nil {
		return nil, engineErr("format", string(snapshot.URI), err)
	}

	edits, err := a.engine.FormatRange(ctx, snapshot, parsed,
		ToServiceRange(rng), ToServiceFormattingOptions(opts, a.defaults))
	if err != nil {
		return nil, engineErr("format", string(snapshot.URI), err)
	}

	return ToEditorTextEdits(edits), nil
}

// FormatDocument formats the whole document.
func (a *FormattingAdapter) FormatDocument(ctx context.Context, doc editor.Document, opts editor.FormattingOptions) ([]editor.TextEdit, error) {
	text := doc.Text()
	mapper := protocol.NewMapper(text)
	full := ToEditorRange(mapper.Range(0, len(text)))
	return a.FormatRange(ctx, doc, full, opts)
}
