// Package bridge connects a text-editing surface to a stateless JSON
// language service without either side knowing about the other's
// representations.
//
// It owns the parts with real lifecycle and ordering concerns: the
// coordinate converter between editor space (one-based) and service
// space (zero-based, UTF-16 columns), the per-request snapshot builder,
// a named diagnostic channel with whole-set replacement semantics, a
// debounced validator that coalesces mutation bursts and discards stale
// results, and the stateless capability adapters for completion, hover,
// document symbols, and range formatting. A Session holds all of it for
// one editing session.
package bridge
