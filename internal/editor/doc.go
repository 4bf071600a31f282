// Package editor defines the boundary between the bridge and the
// text-editing widget: editor-space types (one-based positions, markers,
// editor-shaped capability results), the Document read interface over a
// buffer, an in-memory Buffer implementation, and the MarkerPublisher
// sink for diagnostics.
//
// The widget itself (rendering, undo, persistence) is outside this
// module's scope; this package only specifies what the bridge consumes
// and produces at that boundary.
package editor
