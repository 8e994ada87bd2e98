package lang

import (
	"errors"
	"strings"
)

// Result is the outcome of executing one statement.
type Result struct {
	Quantity Quantity
	// Unit is the display unit paired with Quantity.Magnitude: the
	// conversion target for "a -> b", otherwise the quantity's dimension in
	// root-unit names. Empty for pure numbers.
	Unit string
	// Converted is set when the statement was a conversion.
	Converted bool
	// Defined names what a definition statement registered ("meter",
	// "kilo-"). Empty for expressions.
	Defined string
}

// IsDefinition reports whether the result came from a definition.
func (r Result) IsDefinition() bool {
	return r.Defined != ""
}

func (r Result) String() string {
	if r.Defined != "" {
		return "defined " + r.Defined
	}
	s := FormatNumber(r.Quantity.Magnitude)
	if r.Unit == "" {
		return s
	}
	if rest, ok := strings.CutPrefix(r.Unit, "1 / "); ok && !r.Converted {
		return s + " / " + rest
	}
	return s + " " + r.Unit
}

// Exec executes one statement: definitions extend reg, expressions are
// evaluated against it.
func Exec(reg *Registry, stmt Stmt) (Result, error) {
	switch s := stmt.(type) {
	case *RootUnitDef:
		if err := reg.DefineRoot(s.Names, s.Dimension); err != nil {
			return Result{}, at(err, s.Names.Pos)
		}
		return Result{Quantity: Quantity{Magnitude: 1, Dim: BaseDimension(s.Dimension)}, Defined: s.Names.Name}, nil

	case *DerivedUnitDef:
		q, err := Eval(s.Expr, reg)
		if err != nil {
			return Result{}, err
		}
		if err := reg.DefineDerived(s.Names, q); err != nil {
			return Result{}, at(err, s.Names.Pos)
		}
		return Result{Quantity: q, Defined: s.Names.Name}, nil

	case *PrefixDef:
		q, err := Eval(s.Expr, reg)
		if err != nil {
			return Result{}, err
		}
		if err := reg.DefinePrefix(s.Names, q); err != nil {
			return Result{}, at(err, s.Names.Pos)
		}
		return Result{Quantity: q, Defined: s.Names.Name + "-"}, nil

	case *ExprStmt:
		q, err := Eval(s.Expr, reg)
		if err != nil {
			return Result{}, err
		}
		if conv, ok := unparen(s.Expr).(*ConvertExpr); ok {
			return Result{Quantity: q, Unit: formatTarget(conv.Target), Converted: true}, nil
		}
		return Result{Quantity: q, Unit: FormatDimension(q.Dim, reg)}, nil

	default:
		return Result{}, &EvalError{Kind: SyntaxError, Msg: "unknown statement type"}
	}
}

// Run executes the statements of src line by line, stopping at the first
// failure. Statements before the failing one stay committed to reg. Error
// positions refer to lines of src.
func Run(reg *Registry, src string) ([]Result, error) {
	var results []Result
	for i, line := range strings.Split(src, "\n") {
		stmt, err := ParseLine(line)
		if err == nil && stmt == nil {
			continue
		}
		var res Result
		if err == nil {
			res, err = Exec(reg, stmt)
		}
		if err != nil {
			return results, onLine(err, i+1)
		}
		results = append(results, res)
	}
	return results, nil
}

// LoadPrelude executes a batch of definition statements, as found in the
// bundled prelude, against reg.
func LoadPrelude(reg *Registry, src string) error {
	_, err := Run(reg, src)
	return err
}

// onLine moves a single-line error position onto line n of a batch.
func onLine(err error, n int) error {
	var ee *EvalError
	if !errors.As(err, &ee) {
		return err
	}
	if ee.Pos.IsValid() {
		ee.Pos.Line = n
	} else {
		ee.Pos = Position{Line: n, Col: 1}
	}
	return err
}

func unparen(n Node) Node {
	for {
		p, ok := n.(*ParenExpr)
		if !ok {
			return n
		}
		n = p.Expr
	}
}
