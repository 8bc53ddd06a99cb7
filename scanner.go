package apla

import (
	"github.com/cznic/mathutil"
)

type TokenKind int

const (
	EOF TokenKind = iota
	NEWLINE
	TAB
	IDENTIFIER
	DECIMAL
	STRING
	PLUS
	MINUS
	STAR
	SLASH
	EQ
	COLON
	COMMA
	DOT
	LEFTPAREN
	RIGHTPAREN
	ARROW

	// keywords
	FN
	CONST
	VAR
	RETURN
	EXTERN
	INCLUDE
	CLASS
	SELF
	NEW
)

func (t TokenKind) String() string {
	switch t {
	case EOF:
		return "EOF"
	case NEWLINE:
		return "NEWLINE"
	case TAB:
		return "TAB"
	case IDENTIFIER:
		return "IDENTIFIER"
	case DECIMAL:
		return "DECIMAL"
	case STRING:
		return "STRING"
	case PLUS:
		return "+"
	case MINUS:
		return "-"
	case STAR:
		return "*"
	case SLASH:
		return "/"
	case EQ:
		return "="
	case COLON:
		return ":"
	case COMMA:
		return ","
	case DOT:
		return "."
	case LEFTPAREN:
		return "("
	case RIGHTPAREN:
		return ")"
	case ARROW:
		return "=>"
	case FN:
		return "fn"
	case CONST:
		return "const"
	case VAR:
		return "var"
	case RETURN:
		return "return"
	case EXTERN:
		return "extern"
	case INCLUDE:
		return "include"
	case CLASS:
		return "class"
	case SELF:
		return "self"
	case NEW:
		return "new"
	}
	panic("unreachable")
}

var keywords = map[string]TokenKind{
	"fn":      FN,
	"const":   CONST,
	"var":     VAR,
	"return":  RETURN,
	"extern":  EXTERN,
	"include": INCLUDE,
	"class":   CLASS,
	"self":    SELF,
	"new":     NEW,
}

type Token struct {
	Span
	Kind    TokenKind
	Content string
}

const DEFAULT_TAB_WIDTH = 4

func ScanTokens(source []byte, tabWidth int) ([]Token, error) {
	sc := NewScanner(source, tabWidth)
	tokens := []Token{}
	for {
		tok, err := sc.Scan()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == EOF {
			break
		}
	}
	return tokens, nil
}

type Scanner struct {
	source      []byte
	tabWidth    int
	start       Pos
	end         Pos
	lineStart   bool
	indentation []Token
}

func NewScanner(source []byte, tabWidth int) *Scanner {
	if tabWidth <= 0 {
		tabWidth = DEFAULT_TAB_WIDTH
	}
	const DEFAULT_LINE = 1
	first := Pos{Line: DEFAULT_LINE}
	return &Scanner{
		source:    source,
		tabWidth:  tabWidth,
		start:     first,
		end:       first,
		lineStart: true,
	}
}

func (s *Scanner) Scan() (Token, error) {
	if s.lineStart {
		s.lineStart = false
		s.scanIndentation()
	}
	if len(s.indentation) > 0 {
		t := s.indentation[0]
		s.indentation = s.indentation[1:]
		return t, nil
	}
	s.skipWhitespace()
	s.start = s.end
	var t Token
	switch c := s.next(); c {
	case 0:
		t = s.token(EOF)
	case '\n':
		s.advance()
		t = s.token(NEWLINE)
		s.lineStart = true
	case '+':
		s.advance()
		t = s.token(PLUS)
	case '-':
		s.advance()
		t = s.token(MINUS)
	case '*':
		s.advance()
		t = s.token(STAR)
	case '/':
		s.advance()
		t = s.token(SLASH)
	case ':':
		s.advance()
		t = s.token(COLON)
	case ',':
		s.advance()
		t = s.token(COMMA)
	case '.':
		s.advance()
		t = s.token(DOT)
	case '(':
		s.advance()
		t = s.token(LEFTPAREN)
	case ')':
		s.advance()
		t = s.token(RIGHTPAREN)
	case '=':
		s.advance()
		if s.next() == '>' {
			s.advance()
			t = s.token(ARROW)
		} else {
			t = s.token(EQ)
		}
	case '"':
		return s.str()
	default:
		if isId(c) {
			return s.id(), nil
		}
		if isNum(c) {
			return s.num(), nil
		}
		s.advance()
		return s.token(EOF), NewError(SyntaxError, Span{Start: s.start, End: s.end}, "unexpected character: %q", c)
	}
	return t, nil
}

// scanIndentation queues one TAB token per tab character or run of tabWidth
// spaces at the start of a line. Blank and comment-only lines get none.
func (s *Scanner) scanIndentation() {
	var tabs []Token
	spaces := 0
loop:
	for {
		switch s.next() {
		case '\t':
			s.start = s.end
			s.advance()
			tabs = append(tabs, s.token(TAB))
			spaces = 0
			continue
		case ' ':
			if spaces == 0 {
				s.start = s.end
			}
			s.advance()
			spaces++
			if spaces == s.tabWidth {
				tabs = append(tabs, s.token(TAB))
				spaces = 0
			}
			continue
		}
		break loop
	}
	switch s.next() {
	case '\n', '\r', '#', 0:
		return
	}
	s.indentation = tabs
}

func isId(c byte) bool {
	return ('A' <= c && c <= 'Z') || ('a' <= c && c <= 'z') || c == '_'
}

func isNum(c byte) bool {
	return '0' <= c && c <= '9'
}

func (s *Scanner) id() Token {
	for {
		c := s.next()
		if !isId(c) && !isNum(c) {
			break
		}
		s.advance()
	}
	t := s.token(IDENTIFIER)
	if kind, ok := keywords[t.Content]; ok {
		t.Kind = kind
	}
	return t
}

func (s *Scanner) num() Token {
	for isNum(s.next()) {
		s.advance()
	}
	if s.next() == '.' && isNum(s.peek(1)) {
		s.advance()
		for isNum(s.next()) {
			s.advance()
		}
	}
	return s.token(DECIMAL)
}

func (s *Scanner) str() (Token, error) {
	s.advance()
	for {
		switch s.next() {
		case 0, '\n':
			return s.token(EOF), NewError(SyntaxError, Span{Start: s.start, End: s.end}, "unterminated string literal")
		case '"':
			s.advance()
			t := s.token(STRING)
			t.Content = t.Content[1 : len(t.Content)-1]
			return t, nil
		}
		s.advance()
	}
}

func (s *Scanner) skipWhitespace() {
	for {
		switch s.next() {
		case ' ', '\t', '\r':
			s.advance()
		case '#':
			for s.next() != '\n' && s.next() != 0 {
				s.advance()
			}
		default:
			return
		}
	}
}

func (s *Scanner) next() byte {
	return s.peek(0)
}

func (s *Scanner) peek(n int) byte {
	if s.end.Index+n >= len(s.source) {
		return 0
	}
	return s.source[s.end.Index+n]
}

func (s *Scanner) advance() byte {
	c := s.next()
	s.end = s.end.advance(c)
	return c
}

func (s *Scanner) token(t TokenKind) Token {
	start := mathutil.Clamp(s.start.Index, 0, len(s.source))
	end := mathutil.Clamp(s.end.Index, start, len(s.source))
	content := string(s.source[start:end])
	span := Span{Start: s.start, End: s.end}
	s.start = s.end
	return Token{
		Span:    span,
		Kind:    t,
		Content: content,
	}
}
