package lang

import (
	"errors"
)

// Eval evaluates an expression against the registry. Evaluation never
// modifies the registry.
func Eval(node Node, reg *Registry) (Quantity, error) {
	if node == nil {
		return Quantity{}, &EvalError{Kind: SyntaxError, Msg: "empty expression"}
	}

	switch n := node.(type) {
	case *NumberLit:
		return Number(n.Value), nil

	case *Ident:
		q, err := reg.Resolve(n.Name)
		if err != nil {
			return Quantity{}, at(err, n.Pos)
		}
		return q, nil

	case *ParenExpr:
		return Eval(n.Expr, reg)

	case *UnaryExpr:
		operand, err := Eval(n.Operand, reg)
		if err != nil {
			return Quantity{}, err
		}
		if n.Op == TOKEN_MINUS {
			return operand.Neg(), nil
		}
		return operand, nil

	case *BinaryExpr:
		left, err := Eval(n.Left, reg)
		if err != nil {
			return Quantity{}, err
		}
		right, err := Eval(n.Right, reg)
		if err != nil {
			return Quantity{}, err
		}
		var q Quantity
		switch n.Op {
		case TOKEN_PLUS:
			q, err = left.Add(right)
		case TOKEN_MINUS:
			q, err = left.Sub(right)
		case TOKEN_STAR:
			q = left.Mul(right)
		case TOKEN_SLASH:
			q, err = left.Div(right)
		default:
			err = &EvalError{Kind: SyntaxError, Msg: "unknown operator " + n.Op.String()}
		}
		if err != nil {
			return Quantity{}, at(err, n.Pos)
		}
		return q, nil

	case *ImplicitMul:
		left, err := Eval(n.Left, reg)
		if err != nil {
			return Quantity{}, err
		}
		right, err := Eval(n.Right, reg)
		if err != nil {
			return Quantity{}, err
		}
		return left.Mul(right), nil

	case *PowerExpr:
		base, err := Eval(n.Base, reg)
		if err != nil {
			return Quantity{}, err
		}
		exp, err := Eval(n.Exponent, reg)
		if err != nil {
			return Quantity{}, err
		}
		q, err := base.Pow(exp)
		if err != nil {
			return Quantity{}, at(err, n.Pos)
		}
		return q, nil

	case *ConvertExpr:
		from, err := Eval(n.Expr, reg)
		if err != nil {
			return Quantity{}, err
		}
		to, err := Eval(n.Target, reg)
		if err != nil {
			return Quantity{}, err
		}
		q, err := from.ConvertTo(to)
		if err != nil {
			return Quantity{}, at(err, n.Pos)
		}
		return q, nil

	default:
		return Quantity{}, &EvalError{Kind: SyntaxError, Msg: "unknown node type"}
	}
}

// EvalLine parses and executes a single statement against reg.
func EvalLine(line string, reg *Registry) (Result, error) {
	stmt, err := ParseLine(line)
	if err != nil {
		return Result{}, err
	}
	if stmt == nil {
		return Result{}, &EvalError{Kind: SyntaxError, Msg: "empty statement"}
	}
	return Exec(reg, stmt)
}

// at attaches pos to an engine error that does not carry a location yet.
func at(err error, pos Position) error {
	var ee *EvalError
	if errors.As(err, &ee) && !ee.Pos.IsValid() {
		ee.Pos = pos
	}
	return err
}
