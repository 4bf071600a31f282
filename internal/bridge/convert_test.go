package bridge

import (
	"context"
	"errors"
	"testing"

	"github.com/dshills/jsonbridge/internal/editor"
	"github.com/dshills/jsonbridge/internal/protocol"
)

func TestPositionConversionRoundTrip(t *testing.T) {
	positions := []editor.Position{
		{LineNumber: 1, Column: 1},
		{LineNumber: 1, Column: 42},
		{LineNumber: 17, Column: 1},
		{LineNumber: 100, Column: 250},
	}

	for _, pos := range positions {
		svc := ToServicePosition(pos)
		back := ToEditorPosition(svc)
		if back != pos {
			t.Errorf("round trip %+v: got %+v via %+v", pos, back, svc)
		}
	}
}

func TestPositionConversionOriginShift(t *testing.T) {
	svc := ToServicePosition(editor.Position{LineNumber: 1, Column: 1})
	if svc.Line != 0 || svc.Character != 0 {
		t.Errorf("editor 1:1 should map to service 0:0, got %d:%d", svc.Line, svc.Character)
	}

	ed := ToEditorPosition(protocol.Position{Line: 2, Character: 5})
	if ed.LineNumber != 3 || ed.Column != 6 {
		t.Errorf("service 2:5 should map to editor 3:6, got %d:%d", ed.LineNumber, ed.Column)
	}
}

func TestRangeConversionRoundTrip(t *testing.T) {
	rng := editor.Range{StartLineNumber: 2, StartColumn: 3, EndLineNumber: 4, EndColumn: 1}
	back := ToEditorRange(ToServiceRange(rng))
	if back != rng {
		t.Errorf("round trip %+v: got %+v", rng, back)
	}
}

func TestToServiceFormattingOptions(t *testing.T) {
	defaults := protocol.FormattingOptions{TabSize: 4, InsertSpaces: true}

	tests := []struct {
		name string
		opts editor.FormattingOptions
		want protocol.FormattingOptions
	}{
		{
			name: "empty options take defaults",
			opts: editor.FormattingOptions{},
			want: protocol.FormattingOptions{TabSize: 4, InsertSpaces: true},
		},
		{
			name: "explicit tab size wins",
			opts: editor.FormattingOptions{TabSize: 2},
			want: protocol.FormattingOptions{TabSize: 2, InsertSpaces: true},
		},
		{
			name: "explicit insert spaces wins",
			opts: editor.FormattingOptions{InsertSpaces: false, InsertSpacesSet: true},
			want: protocol.FormattingOptions{TabSize: 4, InsertSpaces: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToServiceFormattingOptions(tt.opts, defaults)
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestToEditorCompletionItem(t *testing.T) {
	item := ToEditorCompletionItem(protocol.CompletionItem{
		Label: "line_endings",
		Kind:  protocol.CompletionKindProperty,
		TextEdit: &protocol.TextEdit{
			Range:   protocol.Range{Start: protocol.Position{Line: 0, Character: 1}, End: protocol.Position{Line: 0, Character: 5}},
			NewText: `"line_endings"`,
		},
		Data: "resolve-token",
	})

	if item.InsertText != "line_endings" {
		t.Errorf("InsertText should fall back to label, got %q", item.InsertText)
	}
	if item.Edit == nil {
		t.Fatal("expected text edit")
	}
	want := editor.Range{StartLineNumber: 1, StartColumn: 2, EndLineNumber: 1, EndColumn: 6}
	if item.Edit.Range != want {
		t.Errorf("edit range = %+v, want %+v", item.Edit.Range, want)
	}
	if item.Data != "resolve-token" {
		t.Errorf("Data not carried through: %v", item.Data)
	}
}

func TestCompletionItemConversionRoundTrip(t *testing.T) {
	original := protocol.CompletionItem{
		Label:      "name",
		Kind:       protocol.CompletionKindProperty,
		Detail:     "string",
		SortText:   "0",
		InsertText: `"name"`,
		Data:       map[string]string{"schema": "s"},
	}

	back := ToServiceCompletionItem(ToEditorCompletionItem(original))
	if back.Label != original.Label || back.Kind != original.Kind ||
		back.InsertText != original.InsertText || back.SortText != original.SortText {
		t.Errorf("round trip changed item: %+v -> %+v", original, back)
	}
	if back.Data == nil {
		t.Error("Data lost on round trip")
	}
}

func TestToEditorCompletionListNil(t *testing.T) {
	list := ToEditorCompletionList(nil)
	if list == nil {
		t.Fatal("nil service list should yield an empty editor list")
	}
	if list.Incomplete || len(list.Items) != 0 {
		t.Errorf("expected empty complete list, got %+v", list)
	}
}

func TestToEditorHover(t *testing.T) {
	if _, err := ToEditorHover(nil); !errors.Is(err, ErrNoHoverResult) {
		t.Errorf("nil hover: got %v, want ErrNoHoverResult", err)
	}
	if _, err := ToEditorHover(&protocol.Hover{}); !errors.Is(err, ErrNoHoverResult) {
		t.Errorf("empty hover: got %v, want ErrNoHoverResult", err)
	}

	rng := protocol.Range{Start: protocol.Position{Line: 0, Character: 0}, End: protocol.Position{Line: 0, Character: 4}}
	hover, err := ToEditorHover(&protocol.Hover{
		Contents: protocol.MarkupContent{Kind: protocol.MarkupMarkdown, Value: "**name**"},
		Range:    &rng,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hover.Contents != "**name**" {
		t.Errorf("contents = %q", hover.Contents)
	}
	if hover.Range == nil || hover.Range.EndColumn != 5 {
		t.Errorf("range not converted: %+v", hover.Range)
	}
}

func TestToEditorMarkers(t *testing.T) {
	diagnostics := []protocol.Diagnostic{{
		Range:    protocol.Range{Start: protocol.Position{Line: 0, Character: 2}, End: protocol.Position{Line: 0, Character: 9}},
		Severity: protocol.SeverityWarning,
		Source:   "json",
		Message:  `duplicate object key "a"`,
		RelatedInformation: []protocol.DiagnosticRelatedInformation{{
			Location: protocol.Location{
				URI:   "inmemory://model/1",
				Range: protocol.Range{Start: protocol.Position{Line: 0, Character: 1}, End: protocol.Position{Line: 0, Character: 4}},
			},
			Message: "first occurrence",
		}},
	}}

	markers, err := ToEditorMarkers(context.Background(), diagnostics)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(markers) != 1 {
		t.Fatalf("got %d markers, want 1", len(markers))
	}

	m := markers[0]
	if m.Severity != editor.MarkerWarning {
		t.Errorf("severity = %v, want MarkerWarning", m.Severity)
	}
	if m.Range.StartColumn != 3 || m.Range.EndColumn != 10 {
		t.Errorf("range = %+v", m.Range)
	}
	if len(m.Related) != 1 || m.Related[0].Message != "first occurrence" {
		t.Errorf("related = %+v", m.Related)
	}
}

func TestToEditorMarkersCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ToEditorMarkers(ctx, []protocol.Diagnostic{{Message: "x"}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestSeverityToMarker(t *testing.T) {
	tests := []struct {
		in   protocol.DiagnosticSeverity
		want editor.MarkerSeverity
	}{
		{protocol.SeverityError, editor.MarkerError},
		{protocol.SeverityWarning, editor.MarkerWarning},
		{protocol.SeverityInformation, editor.MarkerInfo},
		{protocol.SeverityHint, editor.MarkerHint},
		{0, editor.MarkerError},
	}

	for _, tt := range tests {
		if got := severityToMarker(tt.in); got != tt.want {
			t.Errorf("severityToMarker(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
