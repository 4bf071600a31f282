package bridge

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dshills/jsonbridge/internal/editor"
	"github.com/dshills/jsonbridge/internal/protocol"
)

func syntaxDiagnostic(message string) []protocol.Diagnostic {
	return []protocol.Diagnostic{{
		Range:    protocol.Range{Start: protocol.Position{Line: 0, Character: 0}, End: protocol.Position{Line: 0, Character: 1}},
		Severity: protocol.SeverityError,
		Message:  message,
	}}
}

func TestValidatorDebounceCoalesces(t *testing.T) {
	engine := &fakeEngine{}
	engine.validateFn = func(doc protocol.TextDocumentItem) ([]protocol.Diagnostic, error) {
		return syntaxDiagnostic("x"), nil
	}
	pub := &recordingPublisher{}
	v := NewValidator(engine, NewDiagnosticChannel("json", pub),
		WithDebounceDelay(40*time.Millisecond))

	buf := editor.NewBuffer("inmemory://model/1", "json", `{"a": 1`)
	v.DocumentChanged(buf)
	buf.SetText(`{"a": 12`)
	v.DocumentChanged(buf)
	buf.SetText(`{"a": 123}`)
	v.DocumentChanged(buf)

	waitFor(t, func() bool { return engine.validateCount() >= 1 }, "validation pass")

	// Give a superseded timer a chance to misfire before counting.
	time.Sleep(100 * time.Millisecond)
	if got := engine.validateCount(); got != 1 {
		t.Fatalf("got %d validation passes, want 1", got)
	}
	if docs := engine.validatedDocs(); docs[0].Text != `{"a": 123}` {
		t.Errorf("validated stale text %q", docs[0].Text)
	}
}

func TestValidatorPerURIIsolation(t *testing.T) {
	engine := &fakeEngine{}
	pub := &recordingPublisher{}
	v := NewValidator(engine, NewDiagnosticChannel("json", pub),
		WithDebounceDelay(20*time.Millisecond))

	one := editor.NewBuffer("inmemory://model/1", "json", `{"a": 1}`)
	two := editor.NewBuffer("inmemory://model/2", "json", `{"b": 2}`)

	v.DocumentChanged(one)
	v.DocumentChanged(two)
	v.CancelPending(one.URI())

	waitFor(t, func() bool { return engine.validateCount() >= 1 }, "validation pass")
	time.Sleep(80 * time.Millisecond)

	docs := engine.validatedDocs()
	if len(docs) != 1 {
		t.Fatalf("got %d passes, want 1", len(docs))
	}
	if string(docs[0].URI) != two.URI() {
		t.Errorf("validated %q; cancelling one URI must not affect the other", docs[0].URI)
	}
}

func TestValidatorEmptyDocumentSkipsEngine(t *testing.T) {
	engine := &fakeEngine{}
	pub := &recordingPublisher{}
	channel := NewDiagnosticChannel("json", pub)
	v := NewValidator(engine, channel, WithDebounceDelay(time.Hour))

	// Previously published diagnostics for the URI.
	channel.Set("inmemory://model/1", []editor.Marker{testMarker("old")})

	buf := editor.NewBuffer("inmemory://model/1", "json", "")
	v.DocumentChanged(buf)
	v.Flush(buf)

	if got := engine.validateCount(); got != 0 {
		t.Errorf("engine ran %d times for an empty document, want 0", got)
	}
	last, ok := pub.last()
	if !ok || len(last.markers) != 0 {
		t.Errorf("expected diagnostics cleared, got %+v", last.markers)
	}
}

func TestValidatorFlush(t *testing.T) {
	engine := &fakeEngine{}
	pub := &recordingPublisher{}
	v := NewValidator(engine, NewDiagnosticChannel("json", pub),
		WithDebounceDelay(time.Hour))

	buf := editor.NewBuffer("inmemory://model/1", "json", `{"a": 1}`)
	v.DocumentChanged(buf)
	if !v.HasPending(buf.URI()) {
		t.Fatal("expected pending validation")
	}

	v.Flush(buf)
	if got := engine.validateCount(); got != 1 {
		t.Fatalf("Flush ran %d passes, want 1", got)
	}
	if v.HasPending(buf.URI()) {
		t.Error("Flush left the validation pending")
	}

	// Flushing with nothing pending is a no-op.
	v.Flush(buf)
	if got := engine.validateCount(); got != 1 {
		t.Errorf("idle Flush ran a pass: %d", got)
	}
}

func TestValidatorCancelAll(t *testing.T) {
	engine := &fakeEngine{}
	pub := &recordingPublisher{}
	v := NewValidator(engine, NewDiagnosticChannel("json", pub),
		WithDebounceDelay(20*time.Millisecond))

	v.DocumentChanged(editor.NewBuffer("inmemory://model/1", "json", "{}"))
	v.DocumentChanged(editor.NewBuffer("inmemory://model/2", "json", "{}"))
	v.CancelAll()

	time.Sleep(80 * time.Millisecond)
	if got := engine.validateCount(); got != 0 {
		t.Errorf("got %d passes after CancelAll, want 0", got)
	}
	if v.HasPending("inmemory://model/1") || v.HasPending("inmemory://model/2") {
		t.Error("pending validations survived CancelAll")
	}
}

func TestValidatorDiscardsSupersededResult(t *testing.T) {
	var calls int32
	entered := make(chan struct{}, 2)
	release := make(chan struct{})

	engine := &fakeEngine{}
	engine.validateFn = func(doc protocol.TextDocumentItem) ([]protocol.Diagnostic, error) {
		n := atomic.AddInt32(&calls, 1)
		entered <- struct{}{}
		<-release
		return syntaxDiagnostic(fmt.Sprintf("pass-%d", n)), nil
	}

	pub := &recordingPublisher{}
	v := NewValidator(engine, NewDiagnosticChannel("json", pub),
		WithDebounceDelay(5*time.Millisecond))

	buf := editor.NewBuffer("inmemory://model/1", "json", `{"a": 1}`)

	v.DocumentChanged(buf)
	<-entered // first pass is inside the engine

	// A newer pass is scheduled while the first is still running.
	buf.SetText(`{"a": 2}`)
	v.DocumentChanged(buf)
	<-entered

	close(release)

	waitFor(t, func() bool { return pub.callCount() >= 1 }, "published diagnostics")
	time.Sleep(50 * time.Millisecond)

	for _, call := range pub.allCalls() {
		for _, m := range call.markers {
			if m.Message == "pass-1" {
				t.Fatal("superseded pass published its result")
			}
		}
	}
	last, _ := pub.last()
	if len(last.markers) != 1 || last.markers[0].Message != "pass-2" {
		t.Errorf("final diagnostics = %+v, want the newest pass", last.markers)
	}
}
