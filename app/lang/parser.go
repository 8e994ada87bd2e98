package lang

import (
	"errors"
	"strconv"
	"strings"
)

// Parser holds the state for parsing the token stream of one statement.
type Parser struct {
	tokens []Token
	pos    int
}

// Parse parses source text into one statement per non-blank line.
// The first syntax error aborts parsing.
func Parse(src string) ([]Stmt, error) {
	tokens, err := Lex(src)
	if err != nil {
		return nil, err
	}
	var stmts []Stmt
	for _, line := range splitStatements(tokens) {
		stmt, err := parseStatement(line)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// ParseLine parses a single statement. Returns nil for blank or
// comment-only input.
func ParseLine(line string) (Stmt, error) {
	tokens, err := Lex(line)
	if err != nil {
		return nil, err
	}
	lines := splitStatements(tokens)
	switch len(lines) {
	case 0:
		return nil, nil
	case 1:
		return parseStatement(lines[0])
	default:
		second := lines[1][0]
		return nil, syntaxError(second, "expected a single statement, found another on line %d", second.Line)
	}
}

// ParseExpr parses source text that must be a single expression.
func ParseExpr(src string) (Node, error) {
	stmt, err := ParseLine(src)
	if err != nil {
		return nil, err
	}
	switch s := stmt.(type) {
	case nil:
		return nil, &EvalError{Kind: SyntaxError, Msg: "empty expression"}
	case *ExprStmt:
		return s.Expr, nil
	default:
		return nil, &EvalError{Kind: SyntaxError, Msg: "expected an expression, found a definition"}
	}
}

// splitStatements cuts a token stream at newlines, dropping empty
// statements. Every returned slice ends with a TOKEN_EOF.
func splitStatements(tokens []Token) [][]Token {
	var out [][]Token
	var cur []Token
	for _, t := range tokens {
		if t.Type != TOKEN_NEWLINE && t.Type != TOKEN_EOF {
			cur = append(cur, t)
			continue
		}
		if len(cur) > 0 {
			eof := Token{Type: TOKEN_EOF, Pos: t.Pos, Line: t.Line, Col: t.Col}
			out = append(out, append(cur, eof))
			cur = nil
		}
	}
	return out
}

func parseStatement(tokens []Token) (Stmt, error) {
	p := &Parser{tokens: tokens}

	if isDefinition(tokens) {
		return p.parseDefinition()
	}

	expr, err := p.parseConversion()
	if err != nil {
		return nil, err
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return &ExprStmt{Expr: expr}, nil
}

// isDefinition reports whether the statement contains '=' or '::', which
// never occur inside expressions.
func isDefinition(tokens []Token) bool {
	for _, t := range tokens {
		if t.Type == TOKEN_EQUALS || t.Type == TOKEN_COLONCOLON {
			return true
		}
	}
	return false
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() Token {
	t := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *Parser) expect(typ TokenType, context string) (Token, error) {
	t := p.peek()
	if t.Type != typ {
		return t, p.unexpected(t, "expected "+typ.String()+" "+context)
	}
	return p.advance(), nil
}

func (p *Parser) expectEOF() error {
	if t := p.peek(); t.Type != TOKEN_EOF {
		return p.unexpected(t, "")
	}
	return nil
}

func (p *Parser) unexpected(t Token, want string) *EvalError {
	msg := "unexpected " + t.describe()
	if t.Type == TOKEN_EOF {
		msg = "unexpected end of input"
	}
	if want != "" {
		msg += ", " + want
	}
	return syntaxError(t, "%s", msg)
}

// parseDefinition handles the three definition forms:
//
//	1 NAME [(SYMBOL)] [[ALIAS, ...]] :: DIMENSION
//	1 NAME [(SYMBOL)] [[ALIAS, ...]] = expr
//	NAME- [(SYMBOL-)] [[ALIAS-, ...]] = expr
func (p *Parser) parseDefinition() (Stmt, error) {
	first := p.peek()
	switch {
	case first.Type == TOKEN_NUMBER:
		return p.parseUnitDefinition()
	case first.Type == TOKEN_WORD && len(p.tokens) > 1 && p.tokens[1].Type == TOKEN_MINUS:
		return p.parsePrefixDefinition()
	default:
		return nil, syntaxError(first, "expected a definition of the form '1 NAME = expr', '1 NAME :: DIMENSION' or 'NAME- = expr'")
	}
}

func (p *Parser) parseUnitDefinition() (Stmt, error) {
	one := p.advance()
	v, err := parseNumberLiteral(one)
	if err != nil {
		return nil, err
	}
	if v != 1 {
		return nil, syntaxError(one, "unit definitions must start with 1, found %s", one.Literal)
	}

	names, err := p.parseNames(false)
	if err != nil {
		return nil, err
	}

	switch t := p.advance(); t.Type {
	case TOKEN_COLONCOLON:
		dim, err := p.expect(TOKEN_WORD, "naming the dimension after '::'")
		if err != nil {
			return nil, err
		}
		if err := p.expectEOF(); err != nil {
			return nil, err
		}
		return &RootUnitDef{Names: names, Dimension: dim.Literal}, nil
	case TOKEN_EQUALS:
		expr, err := p.parseConversion()
		if err != nil {
			return nil, err
		}
		if err := p.expectEOF(); err != nil {
			return nil, err
		}
		return &DerivedUnitDef{Names: names, Expr: expr}, nil
	default:
		return nil, p.unexpected(t, "expected '=' or '::' after the unit name")
	}
}

func (p *Parser) parsePrefixDefinition() (Stmt, error) {
	names, err := p.parseNames(true)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TOKEN_EQUALS, "after the prefix name"); err != nil {
		return nil, err
	}
	expr, err := p.parseConversion()
	if err != nil {
		return nil, err
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return &PrefixDef{Names: names, Expr: expr}, nil
}

// parseNames parses "NAME [(SYMBOL)] [[ALIAS, ...]]". For prefixes every
// name carries a trailing '-'.
func (p *Parser) parseNames(prefix bool) (Names, error) {
	word := func(context string) (string, error) {
		t, err := p.expect(TOKEN_WORD, context)
		if err != nil {
			return "", err
		}
		if prefix {
			if _, err := p.expect(TOKEN_MINUS, "after prefix name "+strconv.Quote(t.Literal)); err != nil {
				return "", err
			}
		}
		return t.Literal, nil
	}

	var names Names
	names.Pos = p.peek().Position()
	name, err := word("as the defined name")
	if err != nil {
		return names, err
	}
	names.Name = name

	if p.peek().Type == TOKEN_LPAREN {
		p.advance()
		if names.Symbol, err = word("as the symbol"); err != nil {
			return names, err
		}
		if _, err := p.expect(TOKEN_RPAREN, "to close the symbol"); err != nil {
			return names, err
		}
	}

	if p.peek().Type == TOKEN_LBRACKET {
		p.advance()
		for {
			alias, err := word("as an alias")
			if err != nil {
				return names, err
			}
			names.Aliases = append(names.Aliases, alias)
			if p.peek().Type != TOKEN_COMMA {
				break
			}
			p.advance()
		}
		if _, err := p.expect(TOKEN_RBRACKET, "to close the alias list"); err != nil {
			return names, err
		}
	}
	return names, nil
}

// parseConversion: additive ( "->" additive )*
func (p *Parser) parseConversion() (Node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == TOKEN_ARROW {
		op := p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ConvertExpr{Expr: left, Target: right, Pos: op.Position()}
	}
	return left, nil
}

// parseAdditive: multiplicative ( ("+" | "-") multiplicative )*
func (p *Parser) parseAdditive() (Node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == TOKEN_PLUS || p.peek().Type == TOKEN_MINUS {
		op := p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op.Type, Left: left, Right: right, Pos: op.Position()}
	}
	return left, nil
}

// parseMultiplicative: juxtaposition ( ("*" | "/") juxtaposition )*
func (p *Parser) parseMultiplicative() (Node, error) {
	left, err := p.parseJuxtaposition()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == TOKEN_STAR || p.peek().Type == TOKEN_SLASH {
		op := p.advance()
		right, err := p.parseJuxtaposition()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op.Type, Left: left, Right: right, Pos: op.Position()}
	}
	return left, nil
}

// parseJuxtaposition: unary power*
//
// Only the first factor may carry a sign; otherwise "3 - 2" would read as
// "3 (-2)".
func (p *Parser) parseJuxtaposition() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for startsAtom(p.peek().Type) {
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		left = &ImplicitMul{Left: left, Right: right}
	}
	return left, nil
}

// parseUnary: ("+" | "-") unary | power
func (p *Parser) parseUnary() (Node, error) {
	if t := p.peek().Type; t == TOKEN_PLUS || t == TOKEN_MINUS {
		op := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: op.Type, Operand: operand}, nil
	}
	return p.parsePower()
}

// parsePower: atom ( ("^" | "**") unary )?
func (p *Parser) parsePower() (Node, error) {
	base, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if t := p.peek().Type; t == TOKEN_CARET || t == TOKEN_STARSTAR {
		op := p.advance()
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &PowerExpr{Base: base, Exponent: exp, Pos: op.Position()}, nil
	}
	return base, nil
}

// parseAtom: number | identifier | "(" conversion ")"
func (p *Parser) parseAtom() (Node, error) {
	tok := p.peek()

	switch tok.Type {
	case TOKEN_NUMBER:
		p.advance()
		v, err := parseNumberLiteral(tok)
		if err != nil {
			return nil, err
		}
		return &NumberLit{Value: v, Raw: tok.Literal, Pos: tok.Position()}, nil

	case TOKEN_WORD:
		p.advance()
		return &Ident{Name: tok.Literal, Pos: tok.Position()}, nil

	case TOKEN_LPAREN:
		p.advance()
		expr, err := p.parseConversion()
		if err != nil {
			return nil, err
		}
		if closing := p.peek(); closing.Type != TOKEN_RPAREN {
			return nil, p.unexpected(closing, "expected ')' to close '(' at "+tok.Position().String())
		}
		p.advance()
		return &ParenExpr{Expr: expr}, nil

	default:
		return nil, p.unexpected(tok, "expected a number, identifier or '('")
	}
}

func startsAtom(t TokenType) bool {
	return t == TOKEN_NUMBER || t == TOKEN_WORD || t == TOKEN_LPAREN
}

// parseNumberLiteral converts a TOKEN_NUMBER literal, dropping digit
// group separators.
func parseNumberLiteral(tok Token) (float64, error) {
	s := strings.ReplaceAll(tok.Literal, "_", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, syntaxError(tok, "number %s is out of range", tok.Literal)
		}
		return 0, syntaxError(tok, "malformed number %q", tok.Literal)
	}
	return v, nil
}
