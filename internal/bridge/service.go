package bridge

import (
	"context"

	"github.com/dshills/jsonbridge/internal/protocol"
)

// ParsedDocument is an engine-owned parse result. The bridge obtains one
// from LanguageService.ParseDocument and passes it back to subsequent
// engine calls without inspecting it. It is an alias so engines can
// satisfy LanguageService without depending on this package.
type ParsedDocument = any

// LanguageService is the language-intelligence engine boundary. Every
// method is stateless with respect to the bridge: the full document
// snapshot travels with each call, and results refer only to that
// snapshot. Calls may block on schema retrieval or other engine-internal
// work and honor context cancellation.
type LanguageService interface {
	// ParseDocument parses a snapshot into the engine's document model.
	ParseDocument(ctx context.Context, doc protocol.TextDocumentItem) (ParsedDocument, error)

	// Validate reports diagnostics for a parsed snapshot.
	Validate(ctx context.Context, doc protocol.TextDocumentItem, parsed ParsedDocument) ([]protocol.Diagnostic, error)

	// Complete computes completion proposals at a position.
	Complete(ctx context.Context, doc protocol.TextDocumentItem, parsed ParsedDocument, pos protocol.Position) (*protocol.CompletionList, error)

	// ResolveCompletion fills in expensive completion item details. It
	// operates on the opaque item only and needs no document model.
	ResolveCompletion(ctx context.Context, item protocol.CompletionItem) (protocol.CompletionItem, error)

	// Hover computes hover content at a position. A nil result means
	// there is nothing under the cursor; that is not an error.
	Hover(ctx context.Context, doc protocol.TextDocumentItem, parsed ParsedDocument, pos protocol.Position) (*protocol.Hover, error)

	// DocumentSymbols lists the symbols of a parsed snapshot.
	DocumentSymbols(ctx context.Context, doc protocol.TextDocumentItem, parsed ParsedDocument) ([]protocol.SymbolInformation, error)

	// FormatRange computes edits that reformat the given range.
	FormatRange(ctx context.Context, doc protocol.TextDocumentItem, parsed ParsedDocument, rng protocol.Range, opts protocol.FormattingOptions) ([]protocol.TextEdit, error)
}
