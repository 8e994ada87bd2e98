package main

import (
	"image/color"
	"strings"

	"qcalc/app/lang"
)

// TokenKind represents the category of a syntax token.
type TokenKind int

const (
	TokenPlain TokenKind = iota
	TokenKeyword
	TokenNumber
	TokenComment
	TokenOperator
	TokenUnknown
	TokenUnit
	TokenPrefixed
	TokenEquals
	TokenParen
	TokenError
)

// Token is a span of text with a syntax category.
type Token struct {
	Text string
	Kind TokenKind
}

// tokenColors maps token kinds to colors. Dark-theme oriented.
var tokenColors = map[TokenKind]color.NRGBA{
	TokenPlain:    {R: 0xD4, G: 0xD4, B: 0xD4, A: 0xFF}, // light gray
	TokenKeyword:  {R: 0x56, G: 0x9C, B: 0xD6, A: 0xFF}, // blue
	TokenNumber:   {R: 0xB5, G: 0xCE, B: 0xA8, A: 0xFF}, // green
	TokenComment:  {R: 0x6A, G: 0x99, B: 0x55, A: 0xFF}, // dark green
	TokenOperator: {R: 0xD4, G: 0xD4, B: 0xD4, A: 0xFF}, // light gray
	TokenUnknown:  {R: 0x9C, G: 0xDB, B: 0xFE, A: 0xFF}, // light blue
	TokenUnit:     {R: 0x4E, G: 0xC9, B: 0xB0, A: 0xFF}, // teal
	TokenPrefixed: {R: 0x7F, G: 0xD8, B: 0xC4, A: 0xFF}, // pale teal
	TokenEquals:   {R: 0xD4, G: 0xD4, B: 0xD4, A: 0xFF}, // light gray
	TokenParen:    {R: 0xFF, G: 0xD7, B: 0x00, A: 0xFF}, // yellow
	TokenError:    {R: 0xF4, G: 0x47, B: 0x47, A: 0xFF}, // red
}

// TokenColor returns the color for a token kind.
func TokenColor(kind TokenKind) color.NRGBA {
	if c, ok := tokenColors[kind]; ok {
		return c
	}
	return tokenColors[TokenPlain]
}

// langTokenToHighlight maps a lang.TokenType to a highlight TokenKind.
func langTokenToHighlight(t lang.TokenType) TokenKind {
	switch t {
	case lang.TOKEN_NUMBER:
		return TokenNumber
	case lang.TOKEN_WORD:
		return TokenUnknown
	case lang.TOKEN_PLUS, lang.TOKEN_MINUS, lang.TOKEN_STAR, lang.TOKEN_SLASH,
		lang.TOKEN_CARET, lang.TOKEN_STARSTAR, lang.TOKEN_ARROW:
		return TokenOperator
	case lang.TOKEN_LPAREN, lang.TOKEN_RPAREN, lang.TOKEN_LBRACKET, lang.TOKEN_RBRACKET:
		return TokenParen
	case lang.TOKEN_EQUALS, lang.TOKEN_COLONCOLON:
		return TokenEquals
	default:
		return TokenPlain
	}
}

// Tokenize splits a line into highlighted tokens using the lang lexer.
// Identifiers are classified against reg: plain units, prefixed units and
// unknown names get different colors. On a definition line every word
// before the '=' or '::' is a name being introduced, as is the dimension
// after '::'.
func Tokenize(line string, reg *lang.Registry) []Token {
	if line == "" {
		return nil
	}

	langTokens, err := lang.Lex(line)
	if err != nil {
		return tokenizeBroken(line, err)
	}

	isDef := false
	for _, lt := range langTokens {
		if lt.Type == lang.TOKEN_EQUALS || lt.Type == lang.TOKEN_COLONCOLON {
			isDef = true
			break
		}
	}

	var result []Token
	lastEnd := 0
	inNames := isDef
	afterColons := false

	for _, lt := range langTokens {
		if lt.Type == lang.TOKEN_EOF {
			break
		}

		// Add any whitespace/gap before this token
		if lt.Pos > lastEnd {
			result = append(result, Token{
				Text: line[lastEnd:lt.Pos],
				Kind: TokenPlain,
			})
		}

		kind := langTokenToHighlight(lt.Type)
		switch lt.Type {
		case lang.TOKEN_EQUALS:
			inNames = false
		case lang.TOKEN_COLONCOLON:
			inNames = false
			afterColons = true
		case lang.TOKEN_WORD:
			kind = classifyWord(lt.Literal, reg, inNames || afterColons)
		}

		result = append(result, Token{
			Text: lt.Literal,
			Kind: kind,
		})

		lastEnd = lt.Pos + len(lt.Literal)
	}

	// Any trailing text: a comment, or spaces before one
	if lastEnd < len(line) {
		result = append(result, trailing(line[lastEnd:])...)
	}

	return result
}

func classifyWord(word string, reg *lang.Registry, naming bool) TokenKind {
	if naming {
		return TokenKeyword
	}
	if reg == nil {
		return TokenUnknown
	}
	p, _, ok := reg.Split(word)
	switch {
	case !ok:
		return TokenUnknown
	case p != nil:
		return TokenPrefixed
	default:
		return TokenUnit
	}
}

func trailing(rest string) []Token {
	i := strings.IndexByte(rest, '#')
	if i < 0 {
		return []Token{{Text: rest, Kind: TokenPlain}}
	}
	var out []Token
	if i > 0 {
		out = append(out, Token{Text: rest[:i], Kind: TokenPlain})
	}
	return append(out, Token{Text: rest[i:], Kind: TokenComment})
}

// tokenizeBroken colors a line the lexer rejected: everything before the
// offending character stays plain, the rest is marked as an error.
func tokenizeBroken(line string, err error) []Token {
	ee, ok := err.(*lang.EvalError)
	if !ok || ee.Pos.Offset >= len(line) {
		return []Token{{Text: line, Kind: TokenError}}
	}
	var out []Token
	if ee.Pos.Offset > 0 {
		out = append(out, Token{Text: line[:ee.Pos.Offset], Kind: TokenPlain})
	}
	return append(out, Token{Text: line[ee.Pos.Offset:], Kind: TokenError})
}
