package editor

// Position in editor space. Lines and columns are one-based, matching
// how editing surfaces address text.
type Position struct {
	LineNumber int `json:"lineNumber"`
	Column     int `json:"column"`
}

// Range in editor space, one-based and end-exclusive on characters the
// same way the service range is: the range covers [Start, End).
type Range struct {
	StartLineNumber int `json:"startLineNumber"`
	StartColumn     int `json:"startColumn"`
	EndLineNumber   int `json:"endLineNumber"`
	EndColumn       int `json:"endColumn"`
}

// FormattingOptions are the formatting settings the editor exposes.
// Fields the editor does not set are zero and filled from defaults by
// the bridge.
type FormattingOptions struct {
	TabSize      int  `json:"tabSize"`
	InsertSpaces bool `json:"insertSpaces"`
	// insertSpaces is only meaningful when the editor set it explicitly.
	InsertSpacesSet bool `json:"-"`
}

// MarkerSeverity indicates how severe a marker is.
type MarkerSeverity int

// Marker severities, editor convention: higher is more severe.
const (
	MarkerHint    MarkerSeverity = 1
	MarkerInfo    MarkerSeverity = 2
	MarkerWarning MarkerSeverity = 4
	MarkerError   MarkerSeverity = 8
)

// String returns a human-readable severity name.
func (s MarkerSeverity) String() string {
	switch s {
	case MarkerError:
		return "Error"
	case MarkerWarning:
		return "Warning"
	case MarkerInfo:
		return "Info"
	case MarkerHint:
		return "Hint"
	default:
		return "Unknown"
	}
}

// RelatedInformation points at an additional location relevant to a marker.
type RelatedInformation struct {
	URI     string `json:"resource"`
	Range   Range  `json:"range"`
	Message string `json:"message"`
}

// Marker is a reported issue about document content, in editor space.
type Marker struct {
	Severity MarkerSeverity       `json:"severity"`
	Range    Range                `json:"range"`
	Message  string               `json:"message"`
	Source   string               `json:"source,omitempty"`
	Code     string               `json:"code,omitempty"`
	Related  []RelatedInformation `json:"relatedInformation,omitempty"`
}

// TextEdit is a textual edit in editor space.
type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"text"`
}

// CompletionItem is a suggestion in editor space.
type CompletionItem struct {
	Label         string    `json:"label"`
	Kind          int       `json:"kind"`
	Detail        string    `json:"detail,omitempty"`
	Documentation string    `json:"documentation,omitempty"`
	SortText      string    `json:"sortText,omitempty"`
	FilterText    string    `json:"filterText,omitempty"`
	InsertText    string    `json:"insertText"`
	Edit          *TextEdit `json:"textEdit,omitempty"`

	// Data is engine-private resolve state carried through unchanged.
	Data any `json:"-"`
}

// CompletionList is a collection of editor-space suggestions.
type CompletionList struct {
	Incomplete bool             `json:"incomplete"`
	Items      []CompletionItem `json:"suggestions"`
}

// Hover is hover content in editor space.
type Hover struct {
	Contents string `json:"contents"`
	Range    *Range `json:"range,omitempty"`
}

// SymbolInformation describes a document symbol in editor space.
type SymbolInformation struct {
	Name          string `json:"name"`
	Kind          int    `json:"kind"`
	ContainerName string `json:"containerName,omitempty"`
	Range         Range  `json:"range"`
}

// ComparePositions returns -1 if a < b, 0 if a == b, 1 if a > b.
func ComparePositions(a, b Position) int {
	if a.LineNumber != b.LineNumber {
		if a.LineNumber < b.LineNumber {
			return -1
		}
		return 1
	}
	if a.Column != b.Column {
		if a.Column < b.Column {
			return -1
		}
		return 1
	}
	return 0
}
