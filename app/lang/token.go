package lang

import "fmt"

// TokenType represents the type of a lexer token.
type TokenType int

const (
	TOKEN_NUMBER TokenType = iota
	TOKEN_WORD
	TOKEN_PLUS
	TOKEN_MINUS
	TOKEN_STAR
	TOKEN_SLASH
	TOKEN_CARET
	TOKEN_STARSTAR
	TOKEN_ARROW
	TOKEN_LPAREN
	TOKEN_RPAREN
	TOKEN_LBRACKET
	TOKEN_RBRACKET
	TOKEN_COMMA
	TOKEN_EQUALS
	TOKEN_COLONCOLON
	TOKEN_NEWLINE
	TOKEN_EOF
)

var tokenNames = [...]string{
	TOKEN_NUMBER:     "number",
	TOKEN_WORD:       "identifier",
	TOKEN_PLUS:       "'+'",
	TOKEN_MINUS:      "'-'",
	TOKEN_STAR:       "'*'",
	TOKEN_SLASH:      "'/'",
	TOKEN_CARET:      "'^'",
	TOKEN_STARSTAR:   "'**'",
	TOKEN_ARROW:      "'->'",
	TOKEN_LPAREN:     "'('",
	TOKEN_RPAREN:     "')'",
	TOKEN_LBRACKET:   "'['",
	TOKEN_RBRACKET:   "']'",
	TOKEN_COMMA:      "','",
	TOKEN_EQUALS:     "'='",
	TOKEN_COLONCOLON: "'::'",
	TOKEN_NEWLINE:    "newline",
	TOKEN_EOF:        "end of input",
}

func (t TokenType) String() string {
	if int(t) >= 0 && int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Position locates a token in the source text. Line and Col are 1-based;
// Col counts runes.
type Position struct {
	Offset int
	Line   int
	Col    int
}

// IsValid reports whether the position was set by the lexer.
func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Col)
}

// Token represents a single lexer token.
type Token struct {
	Type    TokenType
	Literal string
	Pos     int // byte offset in the input
	Line    int
	Col     int
}

// Position returns the token's location.
func (t Token) Position() Position {
	return Position{Offset: t.Pos, Line: t.Line, Col: t.Col}
}

// describe renders the token for error messages.
func (t Token) describe() string {
	switch t.Type {
	case TOKEN_NUMBER, TOKEN_WORD:
		return fmt.Sprintf("%s %q", t.Type, t.Literal)
	default:
		return t.Type.String()
	}
}

func (t Token) String() string {
	return fmt.Sprintf("Token(%d, %q, %d)", t.Type, t.Literal, t.Pos)
}
