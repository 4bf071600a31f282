// Package jsonsvc implements the JSON language-intelligence engine the
// bridge talks to: a tolerant scanner and parser producing a positioned
// node tree and syntax errors, validation (syntax, duplicate keys, and a
// JSON Schema subset), completion, hover, document symbols, and range
// formatting.
//
// The engine is stateless per call: every request carries its document
// snapshot, and results refer only to that snapshot. Schemas declared
// via a top-level $schema property are fetched through a pluggable
// Resolver and cached per URL.
package jsonsvc
