package protocol

// Mapper converts between byte offsets in a document's text and
// service-space positions. Positions use zero-based lines and UTF-16
// code-unit character offsets, so the mapper indexes every line once and
// answers lookups without rescanning the whole text.
type Mapper struct {
	content string
	lines   []lineInfo
}

// lineInfo stores per-line offsets for fast position conversion.
type lineInfo struct {
	byteOffset int // byte offset of line start
	byteLen    int // length in bytes, excluding the newline
	utf16Len   int // length in UTF-16 code units
}

// NewMapper creates a mapper for the given text.
func NewMapper(content string) *Mapper {
	m := &Mapper{content: content}
	m.buildLineIndex()
	return m
}

// buildLineIndex creates an index of all lines for fast lookup.
func (m *Mapper) buildLineIndex() {
	m.lines = nil

	lineStart := 0
	for i, r := range m.content {
		if r == '\n' {
			m.lines = append(m.lines, lineInfo{
				byteOffset: lineStart,
				byteLen:    i - lineStart,
				utf16Len:   utf16Len(m.content[lineStart:i]),
			})
			lineStart = i + 1
		}
	}

	// Last line may not end with a newline.
	m.lines = append(m.lines, lineInfo{
		byteOffset: lineStart,
		byteLen:    len(m.content) - lineStart,
		utf16Len:   utf16Len(m.content[lineStart:]),
	})
}

// Position converts a byte offset to a Position. Offsets outside the
// text are clamped to the nearest valid position.
func (m *Mapper) Position(byteOffset int) Position {
	if byteOffset < 0 {
		return Position{}
	}

	lineNum := len(m.lines) - 1
	for i, line := range m.lines {
		if byteOffset < line.byteOffset+line.byteLen+1 { // +1 for newline
			lineNum = i
			break
		}
	}

	line := m.lines[lineNum]
	charOffset := byteOffset - line.byteOffset
	if charOffset < 0 {
		charOffset = 0
	}
	if charOffset > line.byteLen {
		charOffset = line.byteLen
	}

	lineContent := m.content[line.byteOffset : line.byteOffset+line.byteLen]
	return Position{
		Line:      lineNum,
		Character: byteToUTF16(lineContent, charOffset),
	}
}

// Offset converts a Position to a byte offset. Positions outside the
// text are clamped.
func (m *Mapper) Offset(pos Position) int {
	if pos.Line < 0 {
		return 0
	}
	if pos.Line >= len(m.lines) {
		return len(m.content)
	}

	line := m.lines[pos.Line]
	lineContent := m.content[line.byteOffset : line.byteOffset+line.byteLen]
	return line.byteOffset + utf16ToByte(lineContent, pos.Character)
}

// Range converts start and end byte offsets to a Range.
func (m *Mapper) Range(start, end int) Range {
	return Range{Start: m.Position(start), End: m.Position(end)}
}

// OffsetRange converts a Range to start and end byte offsets.
func (m *Mapper) OffsetRange(rng Range) (start, end int) {
	return m.Offset(rng.Start), m.Offset(rng.End)
}

// LineCount returns the number of lines.
func (m *Mapper) LineCount() int {
	return len(m.lines)
}

// LineContent returns the content of a line, excluding the newline.
func (m *Mapper) LineContent(lineNum int) string {
	if lineNum < 0 || lineNum >= len(m.lines) {
		return ""
	}
	line := m.lines[lineNum]
	return m.content[line.byteOffset : line.byteOffset+line.byteLen]
}

// utf16Len returns the length of s in UTF-16 code units.
func utf16Len(s string) int {
	count := 0
	for _, r := range s {
		if r >= 0x10000 {
			count += 2 // surrogate pair
		} else {
			count++
		}
	}
	return count
}

// byteToUTF16 converts a byte offset within s to a UTF-16 offset.
func byteToUTF16(s string, byteOff int) int {
	if byteOff <= 0 {
		return 0
	}
	if byteOff >= len(s) {
		return utf16Len(s)
	}

	off := 0
	for i, r := range s {
		if i >= byteOff {
			break
		}
		if r >= 0x10000 {
			off += 2
		} else {
			off++
		}
	}
	return off
}

// utf16ToByte converts a UTF-16 offset to a byte offset within s.
func utf16ToByte(s string, utf16Off int) int {
	if utf16Off <= 0 {
		return 0
	}

	count := 0
	for i, r := range s {
		if count >= utf16Off {
			return i
		}
		if r >= 0x10000 {
			count += 2
		} else {
			count++
		}
	}
	return len(s)
}
