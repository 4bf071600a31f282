package bridge

import (
	"sync"

	"github.com/dshills/jsonbridge/internal/editor"
)

// DiagnosticChannel owns a named diagnostic collection keyed by document
// URI. Publishing replaces the full set for a URI; diagnostics not
// included are implicitly removed. Set and Clear are idempotent, and the
// editor only ever observes whole-set replacements.
type DiagnosticChannel struct {
	mu        sync.Mutex
	owner     string
	publisher editor.MarkerPublisher
	published map[string]bool
}

// NewDiagnosticChannel creates a channel publishing under the given
// owner name.
func NewDiagnosticChannel(owner string, publisher editor.MarkerPublisher) *DiagnosticChannel {
	return &DiagnosticChannel{
		owner:     owner,
		publisher: publisher,
		published: make(map[string]bool),
	}
}

// Owner returns the channel's owner name.
func (c *DiagnosticChannel) Owner() string {
	return c.owner
}

// Set replaces the full marker set for a URI.
func (c *DiagnosticChannel) Set(uri string, markers []editor.Marker) {
	c.mu.Lock()
	if len(markers) == 0 {
		delete(c.published, uri)
	} else {
		c.published[uri] = true
	}
	c.mu.Unlock()

	c.publisher.SetMarkers(c.owner, uri, markers)
}

// Clear removes all markers for all URIs published through this channel.
func (c *DiagnosticChannel) Clear() {
	c.mu.Lock()
	uris := make([]string, 0, len(c.published))
	for uri := range c.published {
		uris = append(uris, uri)
	}
	c.published = make(map[string]bool)
	c.mu.Unlock()

	for _, uri := range uris {
		c.publisher.SetMarkers(c.owner, uri, nil)
	}
}
