package protocol

import (
	"testing"
)

func TestNewMapper(t *testing.T) {
	m := NewMapper("hello\nworld")
	if m == nil {
		t.Fatal("NewMapper returned nil")
	}

	if m.LineCount() != 2 {
		t.Errorf("Expected 2 lines, got %d", m.LineCount())
	}
}

func TestMapper_EmptyContent(t *testing.T) {
	m := NewMapper("")
	if m.LineCount() != 1 {
		t.Errorf("Expected 1 line for empty content, got %d", m.LineCount())
	}
	pos := m.Position(0)
	if pos.Line != 0 || pos.Character != 0 {
		t.Errorf("Expected (0,0), got (%d,%d)", pos.Line, pos.Character)
	}
}

func TestMapper_MultiLine(t *testing.T) {
	m := NewMapper("line1\nline2\nline3")

	tests := []struct {
		byteOffset int
		line       int
		char       int
	}{
		{0, 0, 0},  // start of line1
		{5, 0, 5},  // end of line1
		{6, 1, 0},  // start of line2
		{11, 1, 5}, // end of line2
		{12, 2, 0}, // start of line3
		{17, 2, 5}, // end of line3
	}

	for _, tt := range tests {
		pos := m.Position(tt.byteOffset)
		if pos.Line != tt.line || pos.Character != tt.char {
			t.Errorf("Offset %d: expected (%d,%d), got (%d,%d)",
				tt.byteOffset, tt.line, tt.char, pos.Line, pos.Character)
		}
	}
}

func TestMapper_Offset(t *testing.T) {
	m := NewMapper("line1\nline2\nline3")

	tests := []struct {
		line       int
		char       int
		byteOffset int
	}{
		{0, 0, 0},
		{0, 5, 5},
		{1, 0, 6},
		{1, 5, 11},
		{2, 0, 12},
		{2, 5, 17},
	}

	for _, tt := range tests {
		offset := m.Offset(Position{Line: tt.line, Character: tt.char})
		if offset != tt.byteOffset {
			t.Errorf("Position (%d,%d): expected offset %d, got %d",
				tt.line, tt.char, tt.byteOffset, offset)
		}
	}
}

func TestMapper_RoundTrip(t *testing.T) {
	content := "{\n  \"name\": \"value\",\n  \"count\": 42\n}"
	m := NewMapper(content)

	for i := 0; i <= len(content); i++ {
		pos := m.Position(i)
		offset := m.Offset(pos)
		if offset != i && i < len(content) {
			t.Errorf("Round trip failed for offset %d: got %d (via pos %d,%d)",
				i, offset, pos.Line, pos.Character)
		}
	}
}

func TestMapper_Unicode(t *testing.T) {
	// 😀 is U+1F600: 4 bytes in UTF-8, 2 code units in UTF-16.
	m := NewMapper("a😀b")

	pos := m.Position(1) // after 'a'
	if pos.Character != 1 {
		t.Errorf("Expected character 1, got %d", pos.Character)
	}

	pos = m.Position(5) // after the emoji
	if pos.Character != 3 {
		t.Errorf("Expected character 3 (surrogate pair), got %d", pos.Character)
	}

	offset := m.Offset(Position{Line: 0, Character: 3})
	if offset != 5 {
		t.Errorf("Expected offset 5, got %d", offset)
	}
}

func TestMapper_ClampOutOfBounds(t *testing.T) {
	m := NewMapper("abc")

	if pos := m.Position(-1); pos.Line != 0 || pos.Character != 0 {
		t.Errorf("Negative offset: expected (0,0), got (%d,%d)", pos.Line, pos.Character)
	}
	if pos := m.Position(100); pos.Line != 0 || pos.Character != 3 {
		t.Errorf("Past-end offset: expected (0,3), got (%d,%d)", pos.Line, pos.Character)
	}
	if off := m.Offset(Position{Line: 5, Character: 0}); off != 3 {
		t.Errorf("Past-end line: expected offset 3, got %d", off)
	}
}

func TestMapper_LineContent(t *testing.T) {
	m := NewMapper("first\nsecond\n")

	if got := m.LineContent(0); got != "first" {
		t.Errorf("Line 0 = %q, want %q", got, "first")
	}
	if got := m.LineContent(1); got != "second" {
		t.Errorf("Line 1 = %q, want %q", got, "second")
	}
	if got := m.LineContent(2); got != "" {
		t.Errorf("Line 2 = %q, want empty", got)
	}
	if got := m.LineContent(99); got != "" {
		t.Errorf("Out of range line = %q, want empty", got)
	}
}

func TestComparePositions(t *testing.T) {
	tests := []struct {
		a, b Position
		want int
	}{
		{Position{0, 0}, Position{0, 0}, 0},
		{Position{0, 1}, Position{0, 2}, -1},
		{Position{1, 0}, Position{0, 9}, 1},
		{Position{2, 3}, Position{2, 3}, 0},
	}

	for _, tt := range tests {
		if got := ComparePositions(tt.a, tt.b); got != tt.want {
			t.Errorf("ComparePositions(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestPositionInRange(t *testing.T) {
	rng := Range{Start: Position{1, 2}, End: Position{3, 4}}

	tests := []struct {
		pos  Position
		want bool
	}{
		{Position{1, 2}, true},
		{Position{2, 0}, true},
		{Position{3, 4}, true},
		{Position{1, 1}, false},
		{Position{3, 5}, false},
		{Position{0, 9}, false},
	}

	for _, tt := range tests {
		if got := PositionInRange(tt.pos, rng); got != tt.want {
			t.Errorf("PositionInRange(%v) = %v, want %v", tt.pos, got, tt.want)
		}
	}
}
