package jsonsvc

import (
	"strconv"
	"strings"
)

// tokenKind identifies a lexical token.
type tokenKind int

const (
	tkEOF tokenKind = iota
	tkLBrace
	tkRBrace
	tkLBracket
	tkRBracket
	tkComma
	tkColon
	tkString
	tkNumber
	tkTrue
	tkFalse
	tkNull
	tkUnknown
)

// token is one lexical token with its byte span in the source text.
type token struct {
	kind   tokenKind
	offset int
	length int
	text   string

	// value holds the decoded string for tkString tokens.
	value string
	// err describes a lexical problem inside the token, e.g. an
	// unterminated string. Empty when the token is well formed.
	err string
}

// scanner is a tolerant JSON tokenizer. It never fails: malformed input
// produces tkUnknown tokens or tokens carrying an err, so the parser can
// report positioned diagnostics and keep going.
type scanner struct {
	src string
	pos int
}

func newScanner(src string) *scanner {
	return &scanner{src: src}
}

// next returns the next token, skipping whitespace.
func (s *scanner) next() token {
	s.skipWhitespace()

	if s.pos >= len(s.src) {
		return token{kind: tkEOF, offset: s.pos}
	}

	start := s.pos
	switch c := s.src[s.pos]; c {
	case '{':
		s.pos++
		return token{kind: tkLBrace, offset: start, length: 1, text: "{"}
	case '}':
		s.pos++
		return token{kind: tkRBrace, offset: start, length: 1, text: "}"}
	case '[':
		s.pos++
		return token{kind: tkLBracket, offset: start, length: 1, text: "["}
	case ']':
		s.pos++
		return token{kind: tkRBracket, offset: start, length: 1, text: "]"}
	case ',':
		s.pos++
		return token{kind: tkComma, offset: start, length: 1, text: ","}
	case ':':
		s.pos++
		return token{kind: tkColon, offset: start, length: 1, text: ":"}
	case '"':
		return s.scanString()
	default:
		if c == '-' || (c >= '0' && c <= '9') {
			return s.scanNumber()
		}
		if isLiteralStart(c) {
			return s.scanLiteral()
		}
		// Single unrecognized character.
		s.pos++
		return token{kind: tkUnknown, offset: start, length: 1, text: s.src[start:s.pos], err: "invalid symbol"}
	}
}

func (s *scanner) skipWhitespace() {
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case ' ', '\t', '\r', '\n':
			s.pos++
		default:
			return
		}
	}
}

// scanString scans a double-quoted string, decoding escapes. The token
// carries an err for unterminated strings or bad escapes.
func (s *scanner) scanString() token {
	start := s.pos
	s.pos++ // opening quote

	var sb strings.Builder
	var errMsg string

	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if c == '"' {
			s.pos++
			return token{
				kind:   tkString,
				offset: start,
				length: s.pos - start,
				text:   s.src[start:s.pos],
				value:  sb.String(),
				err:    errMsg,
			}
		}
		if c == '\n' {
			break
		}
		if c == '\\' {
			if s.pos+1 >= len(s.src) {
				s.pos++
				break
			}
			esc := s.src[s.pos+1]
			switch esc {
			case '"', '\\', '/':
				sb.WriteByte(esc)
				s.pos += 2
			case 'b':
				sb.WriteByte('\b')
				s.pos += 2
			case 'f':
				sb.WriteByte('\f')
				s.pos += 2
			case 'n':
				sb.WriteByte('\n')
				s.pos += 2
			case 'r':
				sb.WriteByte('\r')
				s.pos += 2
			case 't':
				sb.WriteByte('\t')
				s.pos += 2
			case 'u':
				if s.pos+6 <= len(s.src) {
					if code, err := strconv.ParseUint(s.src[s.pos+2:s.pos+6], 16, 32); err == nil {
						sb.WriteRune(rune(code))
						s.pos += 6
						continue
					}
				}
				if errMsg == "" {
					errMsg = "invalid unicode escape"
				}
				s.pos += 2
			default:
				if errMsg == "" {
					errMsg = "invalid escape character"
				}
				s.pos += 2
			}
			continue
		}
		sb.WriteByte(c)
		s.pos++
	}

	return token{
		kind:   tkString,
		offset: start,
		length: s.pos - start,
		text:   s.src[start:s.pos],
		value:  sb.String(),
		err:    "unterminated string",
	}
}

// scanNumber scans a JSON number. Malformed numbers keep kind tkNumber
// but carry an err.
func (s *scanner) scanNumber() token {
	start := s.pos
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.' || c == 'e' || c == 'E' {
			s.pos++
		} else {
			break
		}
	}

	text := s.src[start:s.pos]
	tok := token{kind: tkNumber, offset: start, length: len(text), text: text}
	if _, err := strconv.ParseFloat(text, 64); err != nil {
		tok.err = "invalid number"
	}
	return tok
}

// scanLiteral scans a bare word: true, false, null, or anything else the
// author typed where a value was expected.
func (s *scanner) scanLiteral() token {
	start := s.pos
	for s.pos < len(s.src) && isLiteralPart(s.src[s.pos]) {
		s.pos++
	}

	text := s.src[start:s.pos]
	tok := token{offset: start, length: len(text), text: text}
	switch text {
	case "true":
		tok.kind = tkTrue
	case "false":
		tok.kind = tkFalse
	case "null":
		tok.kind = tkNull
	default:
		tok.kind = tkUnknown
		tok.err = "invalid symbol"
	}
	return tok
}

func isLiteralStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isLiteralPart(c byte) bool {
	return isLiteralStart(c) || (c >= '0' && c <= '9')
}
