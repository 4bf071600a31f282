package jsonsvc

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/pretty"

	"github.com/dshills/jsonbridge/internal/protocol"
)

// Service is a stateless JSON language service: validation, completion,
// hover, document symbols, and range formatting over a single document
// snapshot per call. The only cross-call state is the schema cache.
type Service struct {
	source  string
	schemas *schemaCache
}

// Option configures the service.
type Option func(*Service)

// WithSchemaResolver enables schema-aware validation, completion, and
// hover using the given content resolver.
func WithSchemaResolver(r Resolver) Option {
	return func(s *Service) {
		s.schemas = newSchemaCache(r)
	}
}

// WithSource sets the diagnostic source label. Default "json".
func WithSource(source string) Option {
	return func(s *Service) {
		s.source = source
	}
}

// New creates a JSON language service.
func New(opts ...Option) *Service {
	s := &Service{source: "json"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// InvalidateSchema drops a cached schema so the next request re-fetches
// it. No-op when schema support is disabled.
func (s *Service) InvalidateSchema(url string) {
	if s.schemas != nil {
		s.schemas.invalidate(url)
	}
}

// ParseDocument parses a snapshot into the service's document model.
func (s *Service) ParseDocument(ctx context.Context, doc protocol.TextDocumentItem) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return parse(doc.Text), nil
}

// document recovers the parsed model, re-parsing when the caller did not
// supply one.
func (s *Service) document(doc protocol.TextDocumentItem, parsed any) *Document {
	if d, ok := parsed.(*Document); ok && d != nil {
		return d
	}
	return parse(doc.Text)
}

// declaredSchema returns the schema referenced by the document's
// top-level $schema property, or nil when there is none or schema
// support is disabled. Resolution failures propagate.
func (s *Service) declaredSchema(ctx context.Context, d *Document) (*Schema, error) {
	if s.schemas == nil || d.Root == nil || d.Root.Type != NodeObject {
		return nil, nil
	}

	for _, prop := range d.Root.Children {
		if prop.Key == nil || prop.Key.StringValue != "$schema" {
			continue
		}
		if prop.Value == nil || prop.Value.Type != NodeString || prop.Value.StringValue == "" {
			return nil, nil
		}
		return s.schemas.get(ctx, prop.Value.StringValue)
	}
	return nil, nil
}

// Validate reports syntax errors, duplicate keys, and schema violations.
func (s *Service) Validate(ctx context.Context, doc protocol.TextDocumentItem, parsed any) ([]protocol.Diagnostic, error) {
	d := s.document(doc, parsed)
	mapper := d.Mapper()

	var diagnostics []protocol.Diagnostic
	for _, synErr := range d.Errors {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    mapper.Range(synErr.Offset, synErr.Offset+synErr.Length),
			Severity: protocol.SeverityError,
			Source:   s.source,
			Message:  synErr.Message,
		})
	}

	diagnostics = append(diagnostics, s.duplicateKeys(doc.URI, d)...)

	schema, err := s.declaredSchema(ctx, d)
	if err != nil {
		return nil, err
	}
	if schema != nil {
		diagnostics = append(diagnostics, s.schemaDiagnostics(d, schema)...)
	}

	return diagnostics, nil
}

// duplicateKeys reports repeated property names in every object, with
// the first occurrence attached as related information.
func (s *Service) duplicateKeys(uri protocol.DocumentURI, d *Document) []protocol.Diagnostic {
	if d.Root == nil {
		return nil
	}
	mapper := d.Mapper()

	var diagnostics []protocol.Diagnostic
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.Type == NodeObject {
			seen := make(map[string]*Node)
			for _, prop := range n.Children {
				if prop.Key == nil {
					continue
				}
				name := prop.Key.StringValue
				if first, ok := seen[name]; ok {
					diagnostics = append(diagnostics, protocol.Diagnostic{
						Range:    mapper.Range(prop.Key.Offset, prop.Key.End()),
						Severity: protocol.SeverityWarning,
						Source:   s.source,
						Message:  fmt.Sprintf("duplicate object key %q", name),
						RelatedInformation: []protocol.DiagnosticRelatedInformation{{
							Location: protocol.Location{
								URI:   uri,
								Range: mapper.Range(first.Offset, first.End()),
							},
							Message: "first occurrence",
						}},
					})
				} else {
					seen[name] = prop.Key
				}
			}
		}

		children := n.Children
		if n.Type == NodeProperty && n.Value != nil {
			children = []*Node{n.Value}
		}
		for _, child := range children {
			walk(child)
		}
	}
	walk(d.Root)
	return diagnostics
}

// schemaDiagnostics checks the document's top level against the
// understood schema subset: root type, required properties, declared
// property types, and enum membership.
func (s *Service) schemaDiagnostics(d *Document, schema *Schema) []protocol.Diagnostic {
	root := d.Root
	if root == nil {
		return nil
	}
	mapper := d.Mapper()

	var diagnostics []protocol.Diagnostic

	if schema.Type != "" && schema.Type != nodeTypeName(root.Type) {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    mapper.Range(root.Offset, root.Offset+1),
			Severity: protocol.SeverityWarning,
			Source:   s.source,
			Message:  fmt.Sprintf("document should be of type %q", schema.Type),
		})
	}

	if root.Type != NodeObject {
		return diagnostics
	}

	present := make(map[string]bool)
	for _, prop := range root.Children {
		if prop.Key == nil {
			continue
		}
		name := prop.Key.StringValue
		present[name] = true

		decl := schema.Property(name)
		if decl == nil || prop.Value == nil {
			continue
		}

		if decl.Type != "" && decl.Type != nodeTypeName(prop.Value.Type) {
			diagnostics = append(diagnostics, protocol.Diagnostic{
				Range:    mapper.Range(prop.Value.Offset, prop.Value.End()),
				Severity: protocol.SeverityWarning,
				Source:   s.source,
				Message:  fmt.Sprintf("property %q should be of type %q", name, decl.Type),
			})
		}

		if len(decl.Enum) > 0 {
			raw := d.Text[prop.Value.Offset:prop.Value.End()]
			allowed := false
			for _, lit := range decl.Enum {
				if raw == lit {
					allowed = true
					break
				}
			}
			if !allowed {
				diagnostics = append(diagnostics, protocol.Diagnostic{
					Range:    mapper.Range(prop.Value.Offset, prop.Value.End()),
					Severity: protocol.SeverityWarning,
					Source:   s.source,
					Message:  fmt.Sprintf("value is not accepted; valid values: %s", strings.Join(decl.Enum, ", ")),
				})
			}
		}
	}

	for _, req := range schema.Required {
		if !present[req] {
			diagnostics = append(diagnostics, protocol.Diagnostic{
				Range:    mapper.Range(root.Offset, root.Offset+1),
				Severity: protocol.SeverityWarning,
				Source:   s.source,
				Message:  fmt.Sprintf("missing required property %q", req),
			})
		}
	}

	return diagnostics
}

// completionData is the engine-private state carried on completion items
// so ResolveCompletion can fill in documentation later.
type completionData struct {
	SchemaURL string
	Property  string
}

// Complete computes proposals at a position: declared property names in
// key position, enum literals in value position, and JSON keywords.
func (s *Service) Complete(ctx context.Context, doc protocol.TextDocumentItem, parsed any, pos protocol.Position) (*protocol.CompletionList, error) {
	d := s.document(doc, parsed)
	mapper := d.Mapper()
	offset := mapper.Offset(pos)

	schema, err := s.declaredSchema(ctx, d)
	if err != nil {
		return nil, err
	}

	list := &protocol.CompletionList{Items: []protocol.CompletionItem{}}
	node := d.NodeAt(offset)
	if node == nil {
		// Empty or unparseable document: nothing but keywords to offer.
		list.Items = append(list.Items, keywordItems()...)
		return list, nil
	}

	switch {
	case isPropertyKey(node), node.Type == NodeObject:
		if schema == nil {
			return list, nil
		}
		object := node
		if isPropertyKey(node) {
			object = node.Parent.Parent
		}
		present := make(map[string]bool)
		for _, prop := range object.Children {
			if prop.Key != nil {
				present[prop.Key.StringValue] = true
			}
		}
		for _, decl := range schema.Properties {
			if present[decl.Name] && !isPropertyKey(node) {
				continue
			}
			item := protocol.CompletionItem{
				Label:      decl.Name,
				Kind:       protocol.CompletionKindProperty,
				Detail:     decl.Type,
				InsertText: fmt.Sprintf("%q", decl.Name),
				Data:       completionData{SchemaURL: schema.URL, Property: decl.Name},
			}
			if isPropertyKey(node) {
				item.TextEdit = &protocol.TextEdit{
					Range:   mapper.Range(node.Offset, node.End()),
					NewText: fmt.Sprintf("%q", decl.Name),
				}
			}
			list.Items = append(list.Items, item)
		}

	case isPropertyValue(node):
		if schema != nil {
			name := node.Parent.Key.StringValue
			if decl := schema.Property(name); decl != nil {
				for _, lit := range decl.Enum {
					list.Items = append(list.Items, protocol.CompletionItem{
						Label:      lit,
						Kind:       protocol.CompletionKindValue,
						InsertText: lit,
						TextEdit: &protocol.TextEdit{
							Range:   mapper.Range(node.Offset, node.End()),
							NewText: lit,
						},
						Data: completionData{SchemaURL: schema.URL, Property: name},
					})
				}
			}
		}
		if len(list.Items) == 0 {
			list.Items = append(list.Items, keywordItems()...)
		}

	default:
		list.Items = append(list.Items, keywordItems()...)
	}

	return list, nil
}

// ResolveCompletion fills in documentation from the schema description.
// Items without engine data pass through unchanged.
func (s *Service) ResolveCompletion(ctx context.Context, item protocol.CompletionItem) (protocol.CompletionItem, error) {
	data, ok := item.Data.(completionData)
	if !ok || s.schemas == nil {
		return item, nil
	}

	schema, err := s.schemas.get(ctx, data.SchemaURL)
	if err != nil {
		return item, err
	}
	if decl := schema.Property(data.Property); decl != nil && decl.Description != "" {
		item.Documentation = decl.Description
	}
	return item, nil
}

// Hover returns content for the node under the cursor: the JSON path,
// the schema description when the node belongs to a declared property,
// and a short value preview. A nil result means nothing is there.
func (s *Service) Hover(ctx context.Context, doc protocol.TextDocumentItem, parsed any, pos protocol.Position) (*protocol.Hover, error) {
	d := s.document(doc, parsed)
	mapper := d.Mapper()

	node := d.NodeAt(mapper.Offset(pos))
	if node == nil {
		return nil, nil
	}

	schema, err := s.declaredSchema(ctx, d)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	if path := d.Path(node); path != "" {
		fmt.Fprintf(&sb, "**%s**", path)
	}

	if schema != nil {
		if name := propertyName(node); name != "" {
			if decl := schema.Property(name); decl != nil && decl.Description != "" {
				if sb.Len() > 0 {
					sb.WriteString("\n\n")
				}
				sb.WriteString(decl.Description)
			}
		}
	}

	if preview := nodePreview(d, node); preview != "" {
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "`%s`", preview)
	}

	if sb.Len() == 0 {
		return nil, nil
	}

	rng := mapper.Range(node.Offset, node.End())
	return &protocol.Hover{
		Contents: protocol.MarkupContent{Kind: protocol.MarkupMarkdown, Value: sb.String()},
		Range:    &rng,
	}, nil
}

// DocumentSymbols lists object properties and array items as symbols,
// with their container's JSON path as the container name.
func (s *Service) DocumentSymbols(ctx context.Context, doc protocol.TextDocumentItem, parsed any) ([]protocol.SymbolInformation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d := s.document(doc, parsed)
	if d.Root == nil {
		return nil, nil
	}
	mapper := d.Mapper()

	var symbols []protocol.SymbolInformation
	var walk func(n *Node)
	walk = func(n *Node) {
		switch n.Type {
		case NodeObject:
			for _, prop := range n.Children {
				if prop.Key == nil {
					continue
				}
				symbols = append(symbols, protocol.SymbolInformation{
					Name:          prop.Key.StringValue,
					Kind:          symbolKind(prop.Value),
					ContainerName: d.Path(n),
					Location: protocol.Location{
						URI:   doc.URI,
						Range: mapper.Range(prop.Offset, prop.End()),
					},
				})
				if prop.Value != nil {
					walk(prop.Value)
				}
			}
		case NodeArray:
			for i, item := range n.Children {
				symbols = append(symbols, protocol.SymbolInformation{
					Name:          fmt.Sprintf("[%d]", i),
					Kind:          symbolKind(item),
					ContainerName: d.Path(n),
					Location: protocol.Location{
						URI:   doc.URI,
						Range: mapper.Range(item.Offset, item.End()),
					},
				})
				walk(item)
			}
		}
	}
	walk(d.Root)
	return symbols, nil
}

// FormatRange reformats the smallest object or array fully covering the
// range. Documents with syntax errors are left untouched.
func (s *Service) FormatRange(ctx context.Context, doc protocol.TextDocumentItem, parsed any, rng protocol.Range, opts protocol.FormattingOptions) ([]protocol.TextEdit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d := s.document(doc, parsed)
	if d.Root == nil || len(d.Errors) > 0 {
		return nil, nil
	}
	mapper := d.Mapper()

	start, end := mapper.OffsetRange(rng)
	node := coveringContainer(d.Root, start, end)
	if node == nil {
		node = d.Root
	}

	indent := "\t"
	if opts.InsertSpaces {
		width := opts.TabSize
		if width <= 0 {
			width = 4
		}
		indent = strings.Repeat(" ", width)
	}

	segment := d.Text[node.Offset:node.End()]
	formatted := string(pretty.PrettyOptions([]byte(segment), &pretty.Options{
		Width:  80,
		Indent: indent,
	}))
	formatted = strings.TrimRight(formatted, "\n")

	// Keep nested segments aligned with their line's existing indent.
	if base := lineIndentBefore(d, node.Offset); base != "" {
		formatted = strings.ReplaceAll(formatted, "\n", "\n"+base)
	}

	if formatted == segment {
		return nil, nil
	}

	return []protocol.TextEdit{{
		Range:   mapper.Range(node.Offset, node.End()),
		NewText: formatted,
	}}, nil
}

// coveringContainer returns the smallest object or array node fully
// containing [start, end], or nil.
func coveringContainer(n *Node, start, end int) *Node {
	if start < n.Offset || end > n.End() {
		return nil
	}

	children := n.Children
	if n.Type == NodeProperty {
		children = nil
		if n.Value != nil {
			children = []*Node{n.Value}
		}
	}
	for _, child := range children {
		if found := coveringContainer(child, start, end); found != nil {
			return found
		}
	}

	if n.Type == NodeObject || n.Type == NodeArray {
		return n
	}
	return nil
}

// lineIndentBefore returns the leading whitespace of the line the offset
// is on.
func lineIndentBefore(d *Document, offset int) string {
	pos := d.Mapper().Position(offset)
	line := d.Mapper().LineContent(pos.Line)
	for i := 0; i < len(line); i++ {
		if line[i] != ' ' && line[i] != '\t' {
			return line[:i]
		}
	}
	return line
}

// isPropertyKey reports whether the node is the key of a property.
func isPropertyKey(n *Node) bool {
	return n.Parent != nil && n.Parent.Type == NodeProperty && n.Parent.Key == n
}

// isPropertyValue reports whether the node is the value of a property.
func isPropertyValue(n *Node) bool {
	return n.Parent != nil && n.Parent.Type == NodeProperty && n.Parent.Value == n
}

// propertyName returns the key of the property the node belongs to, or
// empty when the node is not part of a property.
func propertyName(n *Node) string {
	if n.Type == NodeProperty && n.Key != nil {
		return n.Key.StringValue
	}
	if n.Parent != nil && n.Parent.Type == NodeProperty && n.Parent.Key != nil {
		return n.Parent.Key.StringValue
	}
	return ""
}

// nodePreview renders a short textual preview of a node's value.
func nodePreview(d *Document, n *Node) string {
	const maxPreview = 60

	raw := d.Text[n.Offset:n.End()]
	raw = strings.Join(strings.Fields(raw), " ")
	if len(raw) > maxPreview {
		raw = raw[:maxPreview] + "…"
	}
	return raw
}

// keywordItems returns the JSON keyword completions.
func keywordItems() []protocol.CompletionItem {
	keywords := []string{"true", "false", "null"}
	items := make([]protocol.CompletionItem, 0, len(keywords))
	for _, kw := range keywords {
		items = append(items, protocol.CompletionItem{
			Label:      kw,
			Kind:       protocol.CompletionKindKeyword,
			InsertText: kw,
		})
	}
	return items
}

// nodeTypeName maps node types to JSON Schema type names.
func nodeTypeName(t NodeType) string {
	switch t {
	case NodeObject:
		return "object"
	case NodeArray:
		return "array"
	case NodeString:
		return "string"
	case NodeNumber:
		return "number"
	case NodeBoolean:
		return "boolean"
	case NodeNull:
		return "null"
	default:
		return ""
	}
}

// symbolKind maps a value node to a symbol kind.
func symbolKind(n *Node) protocol.SymbolKind {
	if n == nil {
		return protocol.SymbolKindField
	}
	switch n.Type {
	case NodeObject:
		return protocol.SymbolKindObject
	case NodeArray:
		return protocol.SymbolKindArray
	case NodeString:
		return protocol.SymbolKindString
	case NodeNumber:
		return protocol.SymbolKindNumber
	case NodeBoolean:
		return protocol.SymbolKindBoolean
	case NodeNull:
		return protocol.SymbolKindNull
	default:
		return protocol.SymbolKindField
	}
}
