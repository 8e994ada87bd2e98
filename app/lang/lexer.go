package lang

import (
	"unicode"
	"unicode/utf8"
)

type lexer struct {
	input     string
	pos       int
	line      int
	lineStart int
	tokens    []Token
}

// Lex tokenizes source text into a slice of tokens terminated by TOKEN_EOF.
// Newlines are kept as TOKEN_NEWLINE since they separate statements;
// comments run from '#' to the end of the line and are dropped.
func Lex(input string) ([]Token, error) {
	lx := &lexer{input: input, line: 1}
	for lx.pos < len(input) {
		ch := input[lx.pos]

		switch ch {
		case ' ', '\t', '\r', '\f', '\v':
			lx.pos++
			continue
		case '\n':
			lx.emit(TOKEN_NEWLINE, lx.pos, lx.pos+1)
			lx.pos++
			lx.line++
			lx.lineStart = lx.pos
			continue
		case '#':
			for lx.pos < len(input) && input[lx.pos] != '\n' {
				lx.pos++
			}
			continue
		}

		start := lx.pos
		switch ch {
		case '+':
			lx.emit(TOKEN_PLUS, start, start+1)
		case '-':
			if lx.peekByte(1) == '>' {
				lx.emit(TOKEN_ARROW, start, start+2)
			} else {
				lx.emit(TOKEN_MINUS, start, start+1)
			}
		case '*':
			if lx.peekByte(1) == '*' {
				lx.emit(TOKEN_STARSTAR, start, start+2)
			} else {
				lx.emit(TOKEN_STAR, start, start+1)
			}
		case '/':
			lx.emit(TOKEN_SLASH, start, start+1)
		case '^':
			lx.emit(TOKEN_CARET, start, start+1)
		case '(':
			lx.emit(TOKEN_LPAREN, start, start+1)
		case ')':
			lx.emit(TOKEN_RPAREN, start, start+1)
		case '[':
			lx.emit(TOKEN_LBRACKET, start, start+1)
		case ']':
			lx.emit(TOKEN_RBRACKET, start, start+1)
		case ',':
			lx.emit(TOKEN_COMMA, start, start+1)
		case '=':
			lx.emit(TOKEN_EQUALS, start, start+1)
		case ':':
			if lx.peekByte(1) != ':' {
				return nil, lx.errorAt(start, "expected '::', found single ':'")
			}
			lx.emit(TOKEN_COLONCOLON, start, start+2)
		default:
			if isDigit(ch) || (ch == '.' && isDigit(lx.peekByte(1))) {
				end, err := lx.scanNumber(start)
				if err != nil {
					return nil, err
				}
				lx.emit(TOKEN_NUMBER, start, end)
				continue
			}
			r, size := utf8.DecodeRuneInString(input[start:])
			if r == utf8.RuneError && size <= 1 {
				return nil, lx.errorAt(start, "invalid UTF-8 encoding")
			}
			if !isWordRune(r) {
				return nil, lx.errorAt(start, "unexpected character %q", r)
			}
			end := start + size
			for end < len(input) {
				r, size = utf8.DecodeRuneInString(input[end:])
				if !isWordRune(r) {
					break
				}
				end += size
			}
			lx.emit(TOKEN_WORD, start, end)
			continue
		}
	}
	lx.tokens = append(lx.tokens, Token{Type: TOKEN_EOF, Pos: lx.pos, Line: lx.line, Col: lx.col(lx.pos)})
	return lx.tokens, nil
}

// emit appends a token for input[start:end] and advances past it.
func (lx *lexer) emit(typ TokenType, start, end int) {
	lx.tokens = append(lx.tokens, Token{
		Type:    typ,
		Literal: lx.input[start:end],
		Pos:     start,
		Line:    lx.line,
		Col:     lx.col(start),
	})
	lx.pos = end
}

func (lx *lexer) peekByte(off int) byte {
	if lx.pos+off < len(lx.input) {
		return lx.input[lx.pos+off]
	}
	return 0
}

func (lx *lexer) col(offset int) int {
	return utf8.RuneCountInString(lx.input[lx.lineStart:offset]) + 1
}

func (lx *lexer) errorAt(offset int, format string, args ...any) *EvalError {
	tok := Token{Pos: offset, Line: lx.line, Col: lx.col(offset)}
	return syntaxError(tok, format, args...)
}

// scanNumber scans an unsigned literal: digit groups separated by single
// underscores, an optional fraction, and an optional exponent. Both "25."
// and ".25" are accepted. An 'e' not followed by digits is left for the
// identifier scanner, so "2e" reads as 2 times e.
func (lx *lexer) scanNumber(start int) (int, error) {
	input := lx.input
	i := start

	digits := func() (int, error) {
		n := 0
		for i < len(input) {
			if isDigit(input[i]) {
				i++
				n++
				continue
			}
			if input[i] == '_' {
				if n == 0 || i+1 >= len(input) || !isDigit(input[i+1]) {
					return n, lx.errorAt(i, "malformed number: '_' must separate digits")
				}
				i++
				continue
			}
			break
		}
		return n, nil
	}

	if _, err := digits(); err != nil {
		return 0, err
	}
	if i < len(input) && input[i] == '.' {
		i++
		if _, err := digits(); err != nil {
			return 0, err
		}
	}
	if i < len(input) && (input[i] == 'e' || input[i] == 'E') {
		j := i + 1
		if j < len(input) && (input[j] == '+' || input[j] == '-') {
			j++
		}
		if j < len(input) && isDigit(input[j]) {
			i = j
			if _, err := digits(); err != nil {
				return 0, err
			}
		}
	}
	if i < len(input) && (input[i] == '.' || input[i] == '_') {
		return 0, lx.errorAt(start, "malformed number %q", input[start:i+1])
	}
	return i, nil
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// isWordRune reports whether r may appear in an identifier: any Unicode
// letter or mark, underscore, or the degree sign. Digits never do.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsMark(r) || r == '_' || r == '°'
}
