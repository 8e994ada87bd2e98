package lang

// Node is the interface all expression nodes implement.
type Node interface {
	nodeTag()
}

// Stmt is the interface all statement nodes implement.
type Stmt interface {
	stmtTag()
}

// NumberLit represents an unsigned numeric literal.
type NumberLit struct {
	Value float64
	Raw   string // source spelling, kept for display
	Pos   Position
}

// Ident references a unit, possibly prefixed ("kilometer").
type Ident struct {
	Name string
	Pos  Position
}

// UnaryExpr represents a prefix sign.
type UnaryExpr struct {
	Op      TokenType // TOKEN_PLUS, TOKEN_MINUS
	Operand Node
}

// BinaryExpr represents an explicit binary operation.
type BinaryExpr struct {
	Op    TokenType // TOKEN_PLUS, TOKEN_MINUS, TOKEN_STAR, TOKEN_SLASH
	Left  Node
	Right Node
	Pos   Position // operator position
}

// PowerExpr represents exponentiation with '^' or '**'.
type PowerExpr struct {
	Base     Node
	Exponent Node
	Pos      Position
}

// ImplicitMul represents multiplication by juxtaposition, as in "3 kg".
type ImplicitMul struct {
	Left  Node
	Right Node
}

// ConvertExpr represents "Expr -> Target".
type ConvertExpr struct {
	Expr   Node
	Target Node
	Pos    Position
}

// ParenExpr preserves explicit grouping from the source so that Format can
// echo the expression the way it was written.
type ParenExpr struct {
	Expr Node
}

func (*NumberLit) nodeTag()   {}
func (*Ident) nodeTag()       {}
func (*UnaryExpr) nodeTag()   {}
func (*BinaryExpr) nodeTag()  {}
func (*PowerExpr) nodeTag()   {}
func (*ImplicitMul) nodeTag() {}
func (*ConvertExpr) nodeTag() {}
func (*ParenExpr) nodeTag()   {}

// Names is the naming clause of a definition: "name (symbol) [alias, ...]".
type Names struct {
	Name    string
	Symbol  string // empty when absent
	Aliases []string
	Pos     Position
}

// All returns the canonical name followed by the symbol and aliases.
func (n Names) All() []string {
	all := []string{n.Name}
	if n.Symbol != "" {
		all = append(all, n.Symbol)
	}
	return append(all, n.Aliases...)
}

// RootUnitDef is "1 NAME ... :: DIMENSION".
type RootUnitDef struct {
	Names     Names
	Dimension string
}

// DerivedUnitDef is "1 NAME ... = expr".
type DerivedUnitDef struct {
	Names Names
	Expr  Node
}

// PrefixDef is "NAME- ... = expr".
type PrefixDef struct {
	Names Names
	Expr  Node
}

// ExprStmt is a bare expression evaluated for its value.
type ExprStmt struct {
	Expr Node
}

func (*RootUnitDef) stmtTag()    {}
func (*DerivedUnitDef) stmtTag() {}
func (*PrefixDef) stmtTag()      {}
func (*ExprStmt) stmtTag()       {}
