package lang

import "strconv"

// Binding strength of each expression form, loosest first.
const (
	precConversion = iota + 1
	precAdditive
	precMultiplicative
	precJuxtaposition
	precUnary
	precPower
	precAtom
)

func precedence(n Node) int {
	switch n := n.(type) {
	case *ConvertExpr:
		return precConversion
	case *BinaryExpr:
		if n.Op == TOKEN_PLUS || n.Op == TOKEN_MINUS {
			return precAdditive
		}
		return precMultiplicative
	case *ImplicitMul:
		return precJuxtaposition
	case *UnaryExpr:
		return precUnary
	case *PowerExpr:
		return precPower
	default:
		return precAtom
	}
}

// Format renders an expression as source text that parses back to the same
// tree. Parentheses from the source are kept; any others needed to
// preserve the tree's shape are added.
func Format(n Node) string {
	switch n := n.(type) {
	case *NumberLit:
		if n.Raw != "" {
			return n.Raw
		}
		return FormatNumber(n.Value)
	case *Ident:
		return n.Name
	case *ParenExpr:
		return "(" + Format(n.Expr) + ")"
	case *UnaryExpr:
		return opText(n.Op) + formatChild(n.Operand, precUnary)
	case *BinaryExpr:
		p := precedence(n)
		return formatChild(n.Left, p) + " " + opText(n.Op) + " " + formatChild(n.Right, p+1)
	case *ImplicitMul:
		return formatChild(n.Left, precJuxtaposition) + " " + formatChild(n.Right, precPower)
	case *PowerExpr:
		return formatChild(n.Base, precAtom) + "^" + formatChild(n.Exponent, precUnary)
	case *ConvertExpr:
		return formatChild(n.Expr, precConversion) + " -> " + formatChild(n.Target, precAdditive)
	default:
		return ""
	}
}

func formatChild(n Node, min int) string {
	if precedence(n) < min {
		return "(" + Format(n) + ")"
	}
	return Format(n)
}

func opText(op TokenType) string {
	switch op {
	case TOKEN_PLUS:
		return "+"
	case TOKEN_MINUS:
		return "-"
	case TOKEN_STAR:
		return "*"
	case TOKEN_SLASH:
		return "/"
	default:
		return "?"
	}
}

// formatTarget renders a conversion target so that "<number> <target>"
// reads back as number times target.
func formatTarget(n Node) string {
	if precedence(n) < precMultiplicative || startsWithSign(n) {
		return "(" + Format(n) + ")"
	}
	return Format(n)
}

func startsWithSign(n Node) bool {
	for {
		switch x := n.(type) {
		case *UnaryExpr:
			return true
		case *BinaryExpr:
			n = x.Left
		case *ImplicitMul:
			n = x.Left
		case *ConvertExpr:
			n = x.Expr
		default:
			return false
		}
	}
}

// FormatNumber renders a magnitude with 12 significant digits in a form the
// lexer reads back as a literal.
func FormatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'g', 12, 64)
}

// FormatDimension names a dimension vector by the root units that claim
// each base dimension, e.g. "gram meter / second^2". Returns "" for
// dimensionless vectors.
func FormatDimension(d Dimension, reg *Registry) string {
	if d.IsDimensionless() {
		return ""
	}
	return d.format(func(dim string) string {
		if reg != nil {
			if name, ok := reg.RootUnit(dim); ok {
				return name
			}
		}
		return dim
	})
}

// FormatQuantity renders q in root units.
func FormatQuantity(q Quantity, reg *Registry) string {
	s := FormatNumber(q.Magnitude)
	if u := FormatDimension(q.Dim, reg); u != "" {
		s += " " + u
	}
	return s
}
