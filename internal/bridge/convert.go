package bridge

import (
	"context"

	"github.com/dshills/jsonbridge/internal/editor"
	"github.com/dshills/jsonbridge/internal/protocol"
)

// Conversion between editor space and service space. Editor space is
// one-based (LineNumber/Column), service space zero-based
// (line/character); the functions here shift the origin and rename
// fields, never reinterpreting values. ToServicePosition and
// ToEditorPosition are exact inverses for all valid positions.

// ToServicePosition converts an editor position to a service position.
func ToServicePosition(pos editor.Position) protocol.Position {
	return protocol.Position{
		Line:      pos.LineNumber - 1,
		Character: pos.Column - 1,
	}
}

// ToEditorPosition converts a service position to an editor position.
func ToEditorPosition(pos protocol.Position) editor.Position {
	return editor.Position{
		LineNumber: pos.Line + 1,
		Column:     pos.Character + 1,
	}
}

// ToServiceRange converts an editor range to a service range.
func ToServiceRange(rng editor.Range) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: rng.StartLineNumber - 1, Character: rng.StartColumn - 1},
		End:   protocol.Position{Line: rng.EndLineNumber - 1, Character: rng.EndColumn - 1},
	}
}

// ToEditorRange converts a service range to an editor range.
func ToEditorRange(rng protocol.Range) editor.Range {
	return editor.Range{
		StartLineNumber: rng.Start.Line + 1,
		StartColumn:     rng.Start.Character + 1,
		EndLineNumber:   rng.End.Line + 1,
		EndColumn:       rng.End.Character + 1,
	}
}

// ToServiceFormattingOptions merges editor-provided formatting options
// with defaults for fields the editor did not set. Explicit values win.
func ToServiceFormattingOptions(opts editor.FormattingOptions, defaults protocol.FormattingOptions) protocol.FormattingOptions {
	result := defaults
	if opts.TabSize > 0 {
		result.TabSize = opts.TabSize
	}
	if opts.InsertSpacesSet {
		result.InsertSpaces = opts.InsertSpaces
	}
	return result
}

// ToEditorCompletionItem converts one service completion item. The
// engine-private Data field is carried through unchanged so a later
// resolve call can hand it back.
func ToEditorCompletionItem(item protocol.CompletionItem) editor.CompletionItem {
	result := editor.CompletionItem{
		Label:         item.Label,
		Kind:          int(item.Kind),
		Detail:        item.Detail,
		Documentation: item.Documentation,
		SortText:      item.SortText,
		FilterText:    item.FilterText,
		InsertText:    item.InsertText,
		Data:          item.Data,
	}
	if result.InsertText == "" {
		result.InsertText = item.Label
	}
	if item.TextEdit != nil {
		result.Edit = &editor.TextEdit{
			Range:   ToEditorRange(item.TextEdit.Range),
			NewText: item.TextEdit.NewText,
		}
	}
	return result
}

// ToServiceCompletionItem converts an editor completion item back to
// service space for a resolve call.
func ToServiceCompletionItem(item editor.CompletionItem) protocol.CompletionItem {
	result := protocol.CompletionItem{
		Label:         item.Label,
		Kind:          protocol.CompletionItemKind(item.Kind),
		Detail:        item.Detail,
		Documentation: item.Documentation,
		SortText:      item.SortText,
		FilterText:    item.FilterText,
		InsertText:    item.InsertText,
		Data:          item.Data,
	}
	if item.Edit != nil {
		result.TextEdit = &protocol.TextEdit{
			Range:   ToServiceRange(item.Edit.Range),
			NewText: item.Edit.NewText,
		}
	}
	return result
}

// ToEditorCompletionList converts a service completion list. A nil list
// converts to an empty, complete editor list.
func ToEditorCompletionList(list *protocol.CompletionList) *editor.CompletionList {
	if list == nil {
		return &editor.CompletionList{Items: []editor.CompletionItem{}}
	}

	items := make([]editor.CompletionItem, 0, len(list.Items))
	for _, item := range list.Items {
		items = append(items, ToEditorCompletionItem(item))
	}
	return &editor.CompletionList{
		Incomplete: list.IsIncomplete,
		Items:      items,
	}
}

// ToEditorHover converts a service hover result. It returns
// ErrNoHoverResult when the service produced nothing for the position;
// callers treat that as "no hover", not a failure.
func ToEditorHover(hover *protocol.Hover) (*editor.Hover, error) {
	if hover == nil || hover.Contents.Value == "" {
		return nil, ErrNoHoverResult
	}

	result := &editor.Hover{Contents: hover.Contents.Value}
	if hover.Range != nil {
		rng := ToEditorRange(*hover.Range)
		result.Range = &rng
	}
	return result, nil
}

// ToEditorSymbolInformations converts service symbols to editor symbols.
func ToEditorSymbolInformations(symbols []protocol.SymbolInformation) []editor.SymbolInformation {
	if len(symbols) == 0 {
		return nil
	}

	result := make([]editor.SymbolInformation, 0, len(symbols))
	for _, sym := range symbols {
		result = append(result, editor.SymbolInformation{
			Name:          sym.Name,
			Kind:          int(sym.Kind),
			ContainerName: sym.ContainerName,
			Range:         ToEditorRange(sym.Location.Range),
		})
	}
	return result
}

// ToEditorTextEdits converts service text edits to editor text edits.
func ToEditorTextEdits(edits []protocol.TextEdit) []editor.TextEdit {
	if len(edits) == 0 {
		return nil
	}

	result := make([]editor.TextEdit, 0, len(edits))
	for _, edit := range edits {
		result = append(result, editor.TextEdit{
			Range:   ToEditorRange(edit.Range),
			NewText: edit.NewText,
		})
	}
	return result
}

// severityToMarker maps service severities to editor marker severities.
func severityToMarker(severity protocol.DiagnosticSeverity) editor.MarkerSeverity {
	switch severity {
	case protocol.SeverityError:
		return editor.MarkerError
	case protocol.SeverityWarning:
		return editor.MarkerWarning
	case protocol.SeverityInformation:
		return editor.MarkerInfo
	case protocol.SeverityHint:
		return editor.MarkerHint
	default:
		return editor.MarkerError
	}
}

// ToEditorMarkers converts service diagnostics to editor markers.
// Related-information locations are resolved as part of the conversion,
// which is why it takes a context: callers must complete it before
// publishing. Conversion stops early if the context is cancelled.
func ToEditorMarkers(ctx context.Context, diagnostics []protocol.Diagnostic) ([]editor.Marker, error) {
	if len(diagnostics) == 0 {
		return nil, nil
	}

	markers := make([]editor.Marker, 0, len(diagnostics))
	for _, diag := range diagnostics {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		marker := editor.Marker{
			Severity: severityToMarker(diag.Severity),
			Range:    ToEditorRange(diag.Range),
			Message:  diag.Message,
			Source:   diag.Source,
			Code:     diag.Code,
		}
		for _, rel := range diag.RelatedInformation {
			marker.Related = append(marker.Related, editor.RelatedInformation{
				URI:     string(rel.Location.URI),
				Range:   ToEditorRange(rel.Location.Range),
				Message: rel.Message,
			})
		}
		markers = append(markers, marker)
	}
	return markers, nil
}
