package bridge

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dshills/jsonbridge/internal/editor"
	"github.com/dshills/jsonbridge/internal/protocol"
)

// fakeEngine is a scriptable LanguageService for tests. Unset function
// fields return empty results.
type fakeEngine struct {
	mu        sync.Mutex
	parsed    []protocol.TextDocumentItem
	validated []protocol.TextDocumentItem

	parseErr   error
	validateFn func(doc protocol.TextDocumentItem) ([]protocol.Diagnostic, error)
	completeFn func(doc protocol.TextDocumentItem, pos protocol.Position) (*protocol.CompletionList, error)
	resolveFn  func(item protocol.CompletionItem) (protocol.CompletionItem, error)
	hoverFn    func(doc protocol.TextDocumentItem, pos protocol.Position) (*protocol.Hover, error)
	symbolsFn  func(doc protocol.TextDocumentItem) ([]protocol.SymbolInformation, error)
	formatFn   func(doc protocol.TextDocumentItem, rng protocol.Range, opts protocol.FormattingOptions) ([]protocol.TextEdit, error)
}

func (e *fakeEngine) ParseDocument(ctx context.Context, doc protocol.TextDocumentItem) (ParsedDocument, error) {
	e.mu.Lock()
	e.parsed = append(e.parsed, doc)
	e.mu.Unlock()

	if e.parseErr != nil {
		return nil, e.parseErr
	}
	return doc, nil
}

func (e *fakeEngine) Validate(ctx context.Context, doc protocol.TextDocumentItem, parsed ParsedDocument) ([]protocol.Diagnostic, error) {
	e.mu.Lock()
	e.validated = append(e.validated, doc)
	e.mu.Unlock()

	if e.validateFn != nil {
		return e.validateFn(doc)
	}
	return nil, nil
}

func (e *fakeEngine) Complete(ctx context.Context, doc protocol.TextDocumentItem, parsed ParsedDocument, pos protocol.Position) (*protocol.CompletionList, error) {
	if e.completeFn != nil {
		return e.completeFn(doc, pos)
	}
	return nil, nil
}

func (e *fakeEngine) ResolveCompletion(ctx context.Context, item protocol.CompletionItem) (protocol.CompletionItem, error) {
	if e.resolveFn != nil {
		return e.resolveFn(item)
	}
	return item, nil
}

func (e *fakeEngine) Hover(ctx context.Context, doc protocol.TextDocumentItem, parsed ParsedDocument, pos protocol.Position) (*protocol.Hover, error) {
	if e.hoverFn != nil {
		return e.hoverFn(doc, pos)
	}
	return nil, nil
}

func (e *fakeEngine) DocumentSymbols(ctx context.Context, doc protocol.TextDocumentItem, parsed ParsedDocument) ([]protocol.SymbolInformation, error) {
	if e.symbolsFn != nil {
		return e.symbolsFn(doc)
	}
	return nil, nil
}

func (e *fakeEngine) FormatRange(ctx context.Context, doc protocol.TextDocumentItem, parsed ParsedDocument, rng protocol.Range, opts protocol.FormattingOptions) ([]protocol.TextEdit, error) {
	if e.formatFn != nil {
		return e.formatFn(doc, rng, opts)
	}
	return nil, nil
}

func (e *fakeEngine) validateCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.validated)
}

func (e *fakeEngine) validatedDocs() []protocol.TextDocumentItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]protocol.TextDocumentItem{}, e.validated...)
}

// publishCall records one SetMarkers invocation.
type publishCall struct {
	owner   string
	uri     string
	markers []editor.Marker
}

// recordingPublisher is a MarkerPublisher that records every call.
type recordingPublisher struct {
	mu    sync.Mutex
	calls []publishCall
}

func (p *recordingPublisher) SetMarkers(owner, uri string, markers []editor.Marker) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, publishCall{owner: owner, uri: uri, markers: markers})
}

func (p *recordingPublisher) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func (p *recordingPublisher) allCalls() []publishCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishCall{}, p.calls...)
}

func (p *recordingPublisher) last() (publishCall, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.calls) == 0 {
		return publishCall{}, false
	}
	return p.calls[len(p.calls)-1], true
}

// waitFor polls cond until it holds or the test deadline expires.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", msg)
}
