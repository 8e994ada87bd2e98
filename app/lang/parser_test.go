package lang

import (
	"errors"
	"reflect"
	"testing"
)

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"-2 meter^2", "(juxt (neg 2) (^ meter 2))"},
		{"-x^2", "(neg (^ x 2))"},
		{"2^3^2", "(^ 2 (^ 3 2))"},
		{"2**-1", "(^ 2 (neg 1))"},
		{"2^-x^2", "(^ 2 (neg (^ x 2)))"},
		{"3 kg * 9.8 m / s^2", "(/ (* (juxt 3 kg) (juxt 9.8 m)) (^ s 2))"},
		{"1 - 2 - 3", "(- (- 1 2) 3)"},
		{"3 - 2", "(- 3 2)"},
		{"3 -2", "(- 3 2)"},
		{"a -> b -> c", "(-> (-> a b) c)"},
		{"1 km + 2 m -> ft", "(-> (+ (juxt 1 km) (juxt 2 m)) ft)"},
		{"2 3 4", "(juxt (juxt 2 3) 4)"},
		{"m/s", "(/ m s)"},
		{"2 (3 + 4)", "(juxt 2 (+ 3 4))"},
		{"--x", "(neg (neg x))"},
		{"+x", "(pos x)"},
		{"1 / 2 m", "(/ 1 (juxt 2 m))"},
		{"kg m^2 / s^2", "(/ (juxt kg (^ m 2)) (^ s 2))"},
	}

	for _, tt := range tests {
		node, err := ParseExpr(tt.input)
		if err != nil {
			t.Errorf("ParseExpr(%q) error: %v", tt.input, err)
			continue
		}
		if got := shape(node); got != tt.want {
			t.Errorf("ParseExpr(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestParseDefinitions(t *testing.T) {
	tests := []struct {
		input string
		want  Stmt
	}{
		{"1 meter (m) :: Length", &RootUnitDef{
			Names:     Names{Name: "meter", Symbol: "m", Pos: Position{Offset: 2, Line: 1, Col: 3}},
			Dimension: "Length",
		}},
		{"1 bit :: Information", &RootUnitDef{
			Names:     Names{Name: "bit", Pos: Position{Offset: 2, Line: 1, Col: 3}},
			Dimension: "Information",
		}},
	}

	for _, tt := range tests {
		got, err := ParseLine(tt.input)
		if err != nil {
			t.Errorf("ParseLine(%q) error: %v", tt.input, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseLine(%q) = %#v, want %#v", tt.input, got, tt.want)
		}
	}
}

func TestParseDerivedAndPrefixNames(t *testing.T) {
	stmt, err := ParseLine("1 liter (L) [litre, litres] = 0.001 m^3")
	if err != nil {
		t.Fatalf("ParseLine error: %v", err)
	}
	def, ok := stmt.(*DerivedUnitDef)
	if !ok {
		t.Fatalf("got %T, want *DerivedUnitDef", stmt)
	}
	if def.Names.Name != "liter" || def.Names.Symbol != "L" {
		t.Errorf("names = %+v", def.Names)
	}
	if !reflect.DeepEqual(def.Names.Aliases, []string{"litre", "litres"}) {
		t.Errorf("aliases = %q", def.Names.Aliases)
	}
	if got := shape(def.Expr); got != "(juxt 0.001 (^ m 3))" {
		t.Errorf("expr = %s", got)
	}

	stmt, err = ParseLine("micro- (µ-) [μ-, u-] = 1e-6")
	if err != nil {
		t.Fatalf("ParseLine error: %v", err)
	}
	pre, ok := stmt.(*PrefixDef)
	if !ok {
		t.Fatalf("got %T, want *PrefixDef", stmt)
	}
	if got := pre.Names.All(); !reflect.DeepEqual(got, []string{"micro", "µ", "μ", "u"}) {
		t.Errorf("prefix names = %q", got)
	}
}

func TestParseStatementCount(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"\n\n\n\n", 0},
		{"# comment", 0},
		{"1 liter = 0.001 m^3", 1},
		{"1 foot (ft) [feet] = 12 in  # trailing comment", 1},
		{"# header\n1 meter (m) :: Length\n\n# spacer\nkilo- (k-) = 1000\n", 2},
		{"1 m\n2 m\n3 m -> km", 3},
	}

	for _, tt := range tests {
		stmts, err := Parse(tt.input)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", tt.input, err)
			continue
		}
		if len(stmts) != tt.want {
			t.Errorf("Parse(%q) returned %d statements, want %d", tt.input, len(stmts), tt.want)
		}
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	tests := []string{
		"5 *",
		"5 +",
		"(1 + 2",
		"1 + 2)",
		"()",
		"1 meter (m = 3",
		"1 meter [a, b = 3",
		"1 meter [] = 3",
		"2 meter = 3",
		"meter = 3",
		"1 meter = ",
		"1 meter :: ",
		"1 meter :: Length Mass",
		"1 meter = 3 :: Length",
		"kilo- = ",
		"kilo- (k) = 1000",
		"kilo = 1000",
		"1 m = 2 m = 3 m",
		"1 ^",
		"5 # comment\n6",
	}

	for _, input := range tests {
		_, err := ParseLine(input)
		wantKind(t, input, err, SyntaxError)
	}
}

func TestParseErrorLine(t *testing.T) {
	_, err := Parse("1 meter (m) :: Length\n1 foot = 0.3048 *\n")
	var ee *EvalError
	if !errors.As(err, &ee) {
		t.Fatalf("Parse error = %v, want *EvalError", err)
	}
	if ee.Pos.Line != 2 {
		t.Errorf("error on line %d, want line 2", ee.Pos.Line)
	}
}

func TestParseExprRejectsDefinitions(t *testing.T) {
	for _, input := range []string{"1 foo = 3", "bar- = 2", "", "# nothing"} {
		_, err := ParseExpr(input)
		wantKind(t, input, err, SyntaxError)
	}
}

func TestFormatRoundTrip(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1+2", "1 + 2"},
		{"2*3  kg", "2 * 3 kg"},
		{"-2 meter^2", "-2 meter^2"},
		{"(1 + 2) * 3", "(1 + 2) * 3"},
		{"2**3", "2^3"},
		{"2^-1", "2^-1"},
		{"1_000 m", "1_000 m"},
		{"3 km->mi", "3 km -> mi"},
		{"a -> (b -> c)", "a -> (b -> c)"},
		{"1 - (2 - 3)", "1 - (2 - 3)"},
		{"12 J / 3 m -> N", "12 J / 3 m -> N"},
	}

	for _, tt := range tests {
		node, err := ParseExpr(tt.input)
		if err != nil {
			t.Errorf("ParseExpr(%q) error: %v", tt.input, err)
			continue
		}
		got := Format(node)
		if got != tt.want {
			t.Errorf("Format(ParseExpr(%q)) = %q, want %q", tt.input, got, tt.want)
		}
		again, err := ParseExpr(got)
		if err != nil {
			t.Errorf("ParseExpr(%q) error: %v", got, err)
			continue
		}
		if shape(again) != shape(node) {
			t.Errorf("round trip of %q changed shape: %s -> %s", tt.input, shape(node), shape(again))
		}
	}
}

func TestFormatAddsParentheses(t *testing.T) {
	a := &Ident{Name: "a"}
	b := &Ident{Name: "b"}
	c := &Ident{Name: "c"}

	tests := []struct {
		node Node
		want string
	}{
		{&BinaryExpr{Op: TOKEN_STAR, Left: a, Right: &BinaryExpr{Op: TOKEN_PLUS, Left: b, Right: c}}, "a * (b + c)"},
		{&BinaryExpr{Op: TOKEN_MINUS, Left: a, Right: &BinaryExpr{Op: TOKEN_MINUS, Left: b, Right: c}}, "a - (b - c)"},
		{&PowerExpr{Base: &PowerExpr{Base: a, Exponent: b}, Exponent: c}, "(a^b)^c"},
		{&PowerExpr{Base: &UnaryExpr{Op: TOKEN_MINUS, Operand: a}, Exponent: b}, "(-a)^b"},
		{&ImplicitMul{Left: a, Right: &UnaryExpr{Op: TOKEN_MINUS, Operand: b}}, "a (-b)"},
		{&ImplicitMul{Left: a, Right: &ImplicitMul{Left: b, Right: c}}, "a (b c)"},
		{&ConvertExpr{Expr: a, Target: &ConvertExpr{Expr: b, Target: c}}, "a -> (b -> c)"},
		{&NumberLit{Value: 0.5}, "0.5"},
	}

	for _, tt := range tests {
		got := Format(tt.node)
		if got != tt.want {
			t.Errorf("Format(%s) = %q, want %q", shape(tt.node), got, tt.want)
			continue
		}
		node, err := ParseExpr(got)
		if err != nil {
			t.Errorf("ParseExpr(%q) error: %v", got, err)
			continue
		}
		if shape(node) != shape(tt.node) {
			t.Errorf("ParseExpr(%q) = %s, want %s", got, shape(node), shape(tt.node))
		}
	}
}
