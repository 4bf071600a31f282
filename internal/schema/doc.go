// Package schema retrieves the textual content of JSON Schema documents
// referenced by edited files: over HTTP with a plain GET that fails on
// non-success status, or from the local filesystem with fsnotify-backed
// cache invalidation.
package schema
