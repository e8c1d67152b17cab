package text

import (
	"strings"
)

// OutputStream accumulates rendered text.
type OutputStream struct {
	sb strings.Builder
}

func (s *OutputStream) Write(text string) {
	s.sb.WriteString(text)
}

func (s *OutputStream) String() string {
	return s.sb.String()
}

const punctuation = "{}[]:,"

// InputStream splits text into tokens. Punctuation characters are tokens on
// their own; anything else runs until whitespace, punctuation or a comment.
// A '#' starts a comment that runs to the end of the line.
type InputStream struct {
	text     string
	pos      int
	unreadTk []string
}

// NewInputStream returns a stream positioned at the start of text.
func NewInputStream(text string) *InputStream {
	return &InputStream{text: text}
}

// Read returns the next token, or "" at the end of input.
func (s *InputStream) Read() string {
	if n := len(s.unreadTk); n > 0 {
		tk := s.unreadTk[n-1]
		s.unreadTk = s.unreadTk[:n-1]
		return tk
	}
	s.skipSpace()
	if s.pos >= len(s.text) {
		return ""
	}
	start := s.pos
	if strings.IndexByte(punctuation, s.text[s.pos]) >= 0 {
		s.pos++
		return s.text[start:s.pos]
	}
	for s.pos < len(s.text) {
		c := s.text[s.pos]
		if isSpace(c) || c == '#' || strings.IndexByte(punctuation, c) >= 0 {
			break
		}
		s.pos++
	}
	return s.text[start:s.pos]
}

// Unread pushes token back so the next Read returns it.
func (s *InputStream) Unread(token string) {
	s.unreadTk = append(s.unreadTk, token)
}

// Rest returns the input that has not been consumed.
func (s *InputStream) Rest() string {
	rest := s.text[s.pos:]
	for i := len(s.unreadTk) - 1; i >= 0; i-- {
		rest = s.unreadTk[i] + " " + rest
	}
	return rest
}

func (s *InputStream) skipSpace() {
	for s.pos < len(s.text) {
		c := s.text[s.pos]
		switch {
		case isSpace(c):
			s.pos++
		case c == '#':
			for s.pos < len(s.text) && s.text[s.pos] != '\n' {
				s.pos++
			}
		default:
			return
		}
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
