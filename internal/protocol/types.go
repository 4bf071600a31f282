package protocol

// DocumentURI identifies a document. For this bridge it is an opaque
// identifier that stays stable for the lifetime of an editing session;
// it is typically an inmemory:// or file:// URI.
type DocumentURI string

// Position in a text document expressed as zero-based line and character
// offset. Character offset is measured in UTF-16 code units, matching the
// language service convention.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range in a text document expressed as start and end positions.
// Start must not come after End under (line, character) ordering.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Location represents a location inside a document.
type Location struct {
	URI   DocumentURI `json:"uri"`
	Range Range       `json:"range"`
}

// TextDocumentItem is an immutable snapshot of a document: its identity,
// language, version, and full text at one instant.
type TextDocumentItem struct {
	URI        DocumentURI `json:"uri"`
	LanguageID string      `json:"languageId"`
	Version    int         `json:"version"`
	Text       string      `json:"text"`
}

// TextEdit represents a textual edit applicable to a document.
type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

// FormattingOptions describe what formatting should look like.
type FormattingOptions struct {
	TabSize      int  `json:"tabSize"`
	InsertSpaces bool `json:"insertSpaces"`
}

// DiagnosticSeverity indicates how severe a diagnostic is.
type DiagnosticSeverity int

// Diagnostic severities. Lower values are more severe.
const (
	SeverityError       DiagnosticSeverity = 1
	SeverityWarning     DiagnosticSeverity = 2
	SeverityInformation DiagnosticSeverity = 3
	SeverityHint        DiagnosticSeverity = 4
)

// String returns a human-readable severity name.
func (s DiagnosticSeverity) String() string {
	switch s {
	case SeverityError:
		return "Error"
	case SeverityWarning:
		return "Warning"
	case SeverityInformation:
		return "Information"
	case SeverityHint:
		return "Hint"
	default:
		return "Unknown"
	}
}

// DiagnosticRelatedInformation points at additional locations relevant
// to a diagnostic, such as the first declaration of a duplicated key.
type DiagnosticRelatedInformation struct {
	Location Location `json:"location"`
	Message  string   `json:"message"`
}

// Diagnostic is a reported issue about document content.
type Diagnostic struct {
	Range              Range                          `json:"range"`
	Severity           DiagnosticSeverity             `json:"severity"`
	Code               string                         `json:"code,omitempty"`
	Source             string                         `json:"source,omitempty"`
	Message            string                         `json:"message"`
	RelatedInformation []DiagnosticRelatedInformation `json:"relatedInformation,omitempty"`
}

// CompletionItemKind describes what a completion item refers to.
type CompletionItemKind int

// Completion item kinds used by the JSON service.
const (
	CompletionKindValue    CompletionItemKind = 12
	CompletionKindProperty CompletionItemKind = 10
	CompletionKindKeyword  CompletionItemKind = 14
	CompletionKindModule   CompletionItemKind = 9
)

// CompletionItem is a single suggestion.
type CompletionItem struct {
	Label         string             `json:"label"`
	Kind          CompletionItemKind `json:"kind,omitempty"`
	Detail        string             `json:"detail,omitempty"`
	Documentation string             `json:"documentation,omitempty"`
	SortText      string             `json:"sortText,omitempty"`
	FilterText    string             `json:"filterText,omitempty"`
	InsertText    string             `json:"insertText,omitempty"`
	TextEdit      *TextEdit          `json:"textEdit,omitempty"`

	// Data carries engine-private state between a completion request and
	// a later resolve call. Opaque to the bridge.
	Data any `json:"data,omitempty"`
}

// CompletionList is a collection of completion items.
type CompletionList struct {
	IsIncomplete bool             `json:"isIncomplete"`
	Items        []CompletionItem `json:"items"`
}

// MarkupKind describes how hover or documentation content is encoded.
type MarkupKind string

// Markup kinds.
const (
	MarkupPlainText MarkupKind = "plaintext"
	MarkupMarkdown  MarkupKind = "markdown"
)

// MarkupContent is human-readable content with an encoding hint.
type MarkupContent struct {
	Kind  MarkupKind `json:"kind"`
	Value string     `json:"value"`
}

// Hover is the result of a hover request.
type Hover struct {
	Contents MarkupContent `json:"contents"`
	Range    *Range        `json:"range,omitempty"`
}

// SymbolKind describes the kind of a document symbol.
type SymbolKind int

// Symbol kinds used by the JSON service.
const (
	SymbolKindModule  SymbolKind = 2
	SymbolKindField   SymbolKind = 8
	SymbolKindString  SymbolKind = 15
	SymbolKindNumber  SymbolKind = 16
	SymbolKindBoolean SymbolKind = 17
	SymbolKindArray   SymbolKind = 18
	SymbolKindObject  SymbolKind = 19
	SymbolKindNull    SymbolKind = 21
)

// SymbolInformation describes one symbol found in a document.
type SymbolInformation struct {
	Name          string     `json:"name"`
	Kind          SymbolKind `json:"kind"`
	Location      Location   `json:"location"`
	ContainerName string     `json:"containerName,omitempty"`
}

// ComparePositions returns -1 if a < b, 0 if a == b, 1 if a > b.
func ComparePositions(a, b Position) int {
	if a.Line != b.Line {
		if a.Line < b.Line {
			return -1
		}
		return 1
	}
	if a.Character != b.Character {
		if a.Character < b.Character {
			return -1
		}
		return 1
	}
	return 0
}

// PositionInRange reports whether pos is within rng (inclusive ends).
func PositionInRange(pos Position, rng Range) bool {
	return ComparePositions(pos, rng.Start) >= 0 && ComparePositions(pos, rng.End) <= 0
}
