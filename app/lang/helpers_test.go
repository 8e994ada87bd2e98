package lang

import (
	"math"
	"testing"
)

const testPrelude = `
# a reduced prelude for engine tests
1 meter (m) [meters] :: Length
1 gram (g) [grams] :: Mass
1 second (s) [seconds] :: Time
1 ampere (A) :: Current

kilo- (k-) = 1000
centi- (c-) = 1/100
milli- (m-) = 1e-3

1 minute (min) = 60 s
1 hour (h) = 60 min
1 day (d) = 24 h
1 newton (N) = kg m / s^2
1 joule (J) = N m
1 watt (W) = J / s
1 volt (V) = W / A
1 ohm = V / A
1 inch (in) [inches] = 2.54 cm
1 foot (ft) [feet] = 12 in
1 mile (mi) [miles] = 5280 ft
1 liter (L) [litre, litres] = 0.001 m^3
`

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()
	if err := LoadPrelude(reg, testPrelude); err != nil {
		t.Fatalf("LoadPrelude: %v", err)
	}
	return reg
}

// shape renders a tree as an s-expression. Source parentheses are
// transparent so that precedence is visible.
func shape(n Node) string {
	switch n := n.(type) {
	case *NumberLit:
		if n.Raw == "" {
			return FormatNumber(n.Value)
		}
		return n.Raw
	case *Ident:
		return n.Name
	case *ParenExpr:
		return shape(n.Expr)
	case *UnaryExpr:
		if n.Op == TOKEN_MINUS {
			return "(neg " + shape(n.Operand) + ")"
		}
		return "(pos " + shape(n.Operand) + ")"
	case *BinaryExpr:
		return "(" + opText(n.Op) + " " + shape(n.Left) + " " + shape(n.Right) + ")"
	case *ImplicitMul:
		return "(juxt " + shape(n.Left) + " " + shape(n.Right) + ")"
	case *PowerExpr:
		return "(^ " + shape(n.Base) + " " + shape(n.Exponent) + ")"
	case *ConvertExpr:
		return "(-> " + shape(n.Expr) + " " + shape(n.Target) + ")"
	default:
		return "?"
	}
}

func approx(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= 1e-9*math.Max(math.Abs(a), math.Abs(b))
}

func wantKind(t *testing.T, input string, err error, want ErrorKind) {
	t.Helper()
	if err == nil {
		t.Errorf("%q: expected %s, got no error", input, want)
		return
	}
	kind, ok := KindOf(err)
	if !ok {
		t.Errorf("%q: expected %s, got non-engine error %v", input, want, err)
		return
	}
	if kind != want {
		t.Errorf("%q: got %s (%v), want %s", input, kind, err, want)
	}
}
