package jsonsvc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/jsonbridge/internal/protocol"
)

// NodeType identifies a node in the parsed JSON tree.
type NodeType int

// Node types.
const (
	NodeObject NodeType = iota
	NodeArray
	NodeProperty
	NodeString
	NodeNumber
	NodeBoolean
	NodeNull
)

// Node is one element of the parsed document tree. Offsets are byte
// offsets into the snapshot text.
type Node struct {
	Type   NodeType
	Offset int
	Length int
	Parent *Node

	// Children holds object properties or array items.
	Children []*Node

	// Key and Value are set on NodeProperty nodes.
	Key   *Node
	Value *Node

	// StringValue is the decoded value for NodeString nodes and the
	// decoded key for property keys.
	StringValue string
	// NumberValue is set for NodeNumber nodes.
	NumberValue float64
	// BoolValue is set for NodeBoolean nodes.
	BoolValue bool
}

// End returns the byte offset just past the node.
func (n *Node) End() int {
	return n.Offset + n.Length
}

// SyntaxError is a positioned parse problem.
type SyntaxError struct {
	Offset  int
	Length  int
	Message string
}

// Document is the engine's parsed model of one snapshot: the node tree,
// the syntax errors encountered while building it, and a position mapper
// over the snapshot text.
type Document struct {
	Text   string
	Root   *Node
	Errors []SyntaxError

	mapper *protocol.Mapper
}

// Mapper returns the byte-offset/position mapper for the snapshot text.
func (d *Document) Mapper() *protocol.Mapper {
	return d.mapper
}

// parse builds a Document from text. It never fails; malformed input is
// reported through Document.Errors with the offending token's span.
func parse(text string) *Document {
	p := &parser{scanner: newScanner(text)}
	p.advance()

	doc := &Document{
		Text:   text,
		mapper: protocol.NewMapper(text),
	}

	if p.tok.kind == tkEOF {
		return doc
	}

	doc.Root = p.parseValue(nil, doc)

	if p.tok.kind != tkEOF {
		doc.addError(p.tok, "end of file expected")
	}
	return doc
}

func (d *Document) addError(tok token, message string) {
	length := tok.length
	if length == 0 {
		length = 1
	}
	d.Errors = append(d.Errors, SyntaxError{
		Offset:  tok.offset,
		Length:  length,
		Message: message,
	})
}

type parser struct {
	scanner *scanner
	tok     token
}

func (p *parser) advance() {
	p.tok = p.scanner.next()
}

// parseValue parses one JSON value. It returns nil when the current
// token cannot start a value; the caller decides how to recover.
func (p *parser) parseValue(parent *Node, doc *Document) *Node {
	tok := p.tok

	switch tok.kind {
	case tkLBrace:
		return p.parseObject(parent, doc)
	case tkLBracket:
		return p.parseArray(parent, doc)
	case tkString:
		if tok.err != "" {
			doc.addError(tok, tok.err)
		}
		p.advance()
		return &Node{Type: NodeString, Offset: tok.offset, Length: tok.length, Parent: parent, StringValue: tok.value}
	case tkNumber:
		if tok.err != "" {
			doc.addError(tok, tok.err)
		}
		p.advance()
		n := &Node{Type: NodeNumber, Offset: tok.offset, Length: tok.length, Parent: parent}
		n.NumberValue, _ = strconv.ParseFloat(tok.text, 64)
		return n
	case tkTrue, tkFalse:
		p.advance()
		return &Node{Type: NodeBoolean, Offset: tok.offset, Length: tok.length, Parent: parent, BoolValue: tok.kind == tkTrue}
	case tkNull:
		p.advance()
		return &Node{Type: NodeNull, Offset: tok.offset, Length: tok.length, Parent: parent}
	default:
		return nil
	}
}

// parseObject parses { ... }, recovering from malformed members so a
// single mistake does not swallow the rest of the document.
func (p *parser) parseObject(parent *Node, doc *Document) *Node {
	node := &Node{Type: NodeObject, Offset: p.tok.offset, Parent: parent}
	p.advance() // {

	needsComma := false
	for p.tok.kind != tkRBrace && p.tok.kind != tkEOF {
		if p.tok.kind == tkComma {
			if !needsComma {
				doc.addError(p.tok, "value expected")
			}
			p.advance()
			needsComma = false
			continue
		}
		if needsComma {
			doc.addError(p.tok, "expected comma")
			// Keep parsing the member anyway.
		}

		if p.tok.kind != tkString {
			doc.addError(p.tok, "property name must be a string literal")
			p.advance()
			needsComma = false
			continue
		}

		prop := p.parseProperty(node, doc)
		node.Children = append(node.Children, prop)
		needsComma = true
	}

	if p.tok.kind == tkRBrace {
		node.Length = p.tok.offset + 1 - node.Offset
		p.advance()
	} else {
		doc.addError(p.tok, "expected closing brace")
		node.Length = p.tok.offset - node.Offset
	}
	return node
}

// parseProperty parses "key": value. The current token is the key string.
func (p *parser) parseProperty(parent *Node, doc *Document) *Node {
	keyTok := p.tok
	if keyTok.err != "" {
		doc.addError(keyTok, keyTok.err)
	}

	prop := &Node{Type: NodeProperty, Offset: keyTok.offset, Parent: parent}
	prop.Key = &Node{Type: NodeString, Offset: keyTok.offset, Length: keyTok.length, Parent: prop, StringValue: keyTok.value}
	p.advance()

	if p.tok.kind != tkColon {
		doc.addError(p.tok, "expected colon")
		prop.Length = prop.Key.Length
		return prop
	}
	p.advance() // :

	value := p.parseValue(prop, doc)
	if value == nil {
		doc.addError(p.tok, "value expected")
		if p.tok.kind != tkRBrace && p.tok.kind != tkRBracket && p.tok.kind != tkComma && p.tok.kind != tkEOF {
			p.advance()
		}
		prop.Length = prop.Key.Length
		return prop
	}

	prop.Value = value
	prop.Length = value.End() - prop.Offset
	return prop
}

// parseArray parses [ ... ] with the same recovery posture as objects.
func (p *parser) parseArray(parent *Node, doc *Document) *Node {
	node := &Node{Type: NodeArray, Offset: p.tok.offset, Parent: parent}
	p.advance() // [

	needsComma := false
	for p.tok.kind != tkRBracket && p.tok.kind != tkEOF {
		if p.tok.kind == tkComma {
			if !needsComma {
				doc.addError(p.tok, "value expected")
			}
			p.advance()
			needsComma = false
			continue
		}
		if needsComma {
			doc.addError(p.tok, "expected comma")
		}

		item := p.parseValue(node, doc)
		if item == nil {
			doc.addError(p.tok, "value expected")
			p.advance()
			needsComma = false
			continue
		}
		node.Children = append(node.Children, item)
		needsComma = true
	}

	if p.tok.kind == tkRBracket {
		node.Length = p.tok.offset + 1 - node.Offset
		p.advance()
	} else {
		doc.addError(p.tok, "expected closing bracket")
		node.Length = p.tok.offset - node.Offset
	}
	return node
}

// NodeAt returns the innermost node containing the byte offset, or nil.
func (d *Document) NodeAt(offset int) *Node {
	if d.Root == nil {
		return nil
	}
	return nodeAt(d.Root, offset)
}

func nodeAt(n *Node, offset int) *Node {
	if offset < n.Offset || offset > n.End() {
		return nil
	}

	candidates := n.Children
	if n.Type == NodeProperty {
		candidates = []*Node{n.Key, n.Value}
	}
	for _, child := range candidates {
		if child == nil {
			continue
		}
		if found := nodeAt(child, offset); found != nil {
			return found
		}
	}
	return n
}

// Path returns the JSON path of a node, e.g. "settings.rules[0].name".
// The root has an empty path.
func (d *Document) Path(n *Node) string {
	var parts []string
	for cur := n; cur != nil; cur = cur.Parent {
		parent := cur.Parent
		if parent == nil {
			break
		}
		switch parent.Type {
		case NodeProperty:
			if cur == parent.Key || cur == parent.Value {
				continue // the property node itself contributes the key
			}
		case NodeObject:
			if cur.Type == NodeProperty && cur.Key != nil {
				parts = append(parts, cur.Key.StringValue)
			}
		case NodeArray:
			for i, item := range parent.Children {
				if item == cur {
					parts = append(parts, fmt.Sprintf("[%d]", i))
					break
				}
			}
		}
	}

	// Reverse into a dotted path.
	var sb strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		part := parts[i]
		if sb.Len() > 0 && !strings.HasPrefix(part, "[") {
			sb.WriteByte('.')
		}
		sb.WriteString(part)
	}
	return sb.String()
}
