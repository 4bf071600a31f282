package editor

import (
	"strings"
	"sync"
)

// Document is the read surface the bridge needs from an editing widget's
// buffer: identity, language, version, and full text. Implementations
// must return a consistent view for the duration of one call; the bridge
// never holds onto a Document between requests.
type Document interface {
	// URI returns the document's identifier, stable per editing session.
	URI() string

	// LanguageID returns the language identifier, e.g. "json".
	LanguageID() string

	// Version returns the document version. It is monotonically
	// non-decreasing and increases with every content mutation.
	Version() int

	// Text returns the full buffer contents.
	Text() string
}

// Buffer is an in-memory Document implementation backing a single
// editing surface. It notifies registered listeners after every content
// mutation, which is how the bridge's validator learns about changes.
type Buffer struct {
	mu         sync.RWMutex
	uri        string
	languageID string
	version    int
	text       string
	listeners  []func()
}

// NewBuffer creates a buffer for a single document.
func NewBuffer(uri, languageID, text string) *Buffer {
	return &Buffer{
		uri:        uri,
		languageID: languageID,
		version:    1,
		text:       text,
	}
}

// URI implements Document.
func (b *Buffer) URI() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.uri
}

// LanguageID implements Document.
func (b *Buffer) LanguageID() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.languageID
}

// Version implements Document.
func (b *Buffer) Version() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.version
}

// Text implements Document.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text
}

// SetText replaces the full buffer contents and bumps the version.
func (b *Buffer) SetText(text string) {
	b.mu.Lock()
	b.text = text
	b.version++
	listeners := append([]func(){}, b.listeners...)
	b.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// Insert inserts text at a one-based editor position.
func (b *Buffer) Insert(pos Position, text string) {
	b.mu.Lock()
	offset := b.offsetLocked(pos)
	b.text = b.text[:offset] + text + b.text[offset:]
	b.version++
	listeners := append([]func(){}, b.listeners...)
	b.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// ApplyEdits applies editor-space text edits back to front so earlier
// edits do not shift the offsets of later ones. Edits must not overlap.
func (b *Buffer) ApplyEdits(edits []TextEdit) {
	if len(edits) == 0 {
		return
	}

	b.mu.Lock()
	sorted := append([]TextEdit{}, edits...)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			si := Position{sorted[i].Range.StartLineNumber, sorted[i].Range.StartColumn}
			sj := Position{sorted[j].Range.StartLineNumber, sorted[j].Range.StartColumn}
			if ComparePositions(si, sj) < 0 {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}

	for _, edit := range sorted {
		start := b.offsetLocked(Position{edit.Range.StartLineNumber, edit.Range.StartColumn})
		end := b.offsetLocked(Position{edit.Range.EndLineNumber, edit.Range.EndColumn})
		if end < start {
			start, end = end, start
		}
		b.text = b.text[:start] + edit.NewText + b.text[end:]
	}
	b.version++
	listeners := append([]func(){}, b.listeners...)
	b.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// OnDidChangeContent registers a listener invoked after every mutation.
func (b *Buffer) OnDidChangeContent(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, fn)
}

// offsetLocked converts a one-based editor position to a byte offset.
// Caller must hold the lock.
func (b *Buffer) offsetLocked(pos Position) int {
	line := pos.LineNumber - 1
	col := pos.Column - 1
	if line < 0 {
		return 0
	}

	offset := 0
	text := b.text
	for line > 0 {
		idx := strings.IndexByte(text[offset:], '\n')
		if idx < 0 {
			return len(text)
		}
		offset += idx + 1
		line--
	}

	lineEnd := len(text)
	if idx := strings.IndexByte(text[offset:], '\n'); idx >= 0 {
		lineEnd = offset + idx
	}

	if col < 0 {
		col = 0
	}
	if offset+col > lineEnd {
		return lineEnd
	}
	return offset + col
}
