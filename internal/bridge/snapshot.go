package bridge

import (
	"github.com/dshills/jsonbridge/internal/editor"
	"github.com/dshills/jsonbridge/internal/protocol"
)

// BuildSnapshot captures the current state of a document as an immutable
// service-facing snapshot. It re-reads URI, language id, version, and
// full text on every call; snapshots are never cached across mutations,
// so version and text always reflect the buffer at the moment of use.
func BuildSnapshot(doc editor.Document) protocol.TextDocumentItem {
	return protocol.TextDocumentItem{
		URI:        protocol.DocumentURI(doc.URI()),
		LanguageID: doc.LanguageID(),
		Version:    doc.Version(),
		Text:       doc.Text(),
	}
}
