package lang

import (
	"math"
	"math/big"
	"sort"
	"strings"
)

// Dimension maps base-dimension names to their exponents. Zero exponents
// are never stored, so an empty (or nil) Dimension is dimensionless.
// Dimensions are treated as immutable: every operation returns a new map.
type Dimension map[string]*big.Rat

// BaseDimension returns the unit vector along the named base dimension.
func BaseDimension(name string) Dimension {
	return Dimension{name: big.NewRat(1, 1)}
}

// IsDimensionless reports whether every exponent is zero.
func (d Dimension) IsDimensionless() bool {
	return len(d) == 0
}

// Exponent returns the exponent of the named base dimension (zero if absent).
func (d Dimension) Exponent(name string) *big.Rat {
	if e, ok := d[name]; ok {
		return new(big.Rat).Set(e)
	}
	return new(big.Rat)
}

// Equal reports whether both vectors have identical exponents.
func (d Dimension) Equal(o Dimension) bool {
	if len(d) != len(o) {
		return false
	}
	for name, e := range d {
		oe, ok := o[name]
		if !ok || e.Cmp(oe) != 0 {
			return false
		}
	}
	return true
}

// Mul adds exponents component-wise.
func (d Dimension) Mul(o Dimension) Dimension {
	return d.combine(o, 1)
}

// Div subtracts exponents component-wise.
func (d Dimension) Div(o Dimension) Dimension {
	return d.combine(o, -1)
}

func (d Dimension) combine(o Dimension, sign int64) Dimension {
	out := make(Dimension, len(d)+len(o))
	for name, e := range d {
		out[name] = new(big.Rat).Set(e)
	}
	s := big.NewRat(sign, 1)
	for name, e := range o {
		term := new(big.Rat).Mul(e, s)
		if cur, ok := out[name]; ok {
			term.Add(term, cur)
		}
		if term.Sign() == 0 {
			delete(out, name)
		} else {
			out[name] = term
		}
	}
	return out
}

// Scale multiplies every exponent by k.
func (d Dimension) Scale(k *big.Rat) Dimension {
	out := make(Dimension, len(d))
	if k.Sign() == 0 {
		return out
	}
	for name, e := range d {
		out[name] = new(big.Rat).Mul(e, k)
	}
	return out
}

// Names returns the base-dimension names in sorted order.
func (d Dimension) Names() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String renders the vector in terms of base-dimension names, e.g.
// "Length Mass / Time^2".
func (d Dimension) String() string {
	if d.IsDimensionless() {
		return "dimensionless"
	}
	return d.format(func(name string) string { return name })
}

// format renders the vector as a product of factors named by label,
// positive exponents first, then the negative ones after " / ".
func (d Dimension) format(label func(string) string) string {
	var num, den []string
	for _, name := range d.Names() {
		e := d[name]
		if e.Sign() > 0 {
			num = append(num, factor(label(name), e))
		} else {
			den = append(den, factor(label(name), new(big.Rat).Neg(e)))
		}
	}
	out := strings.Join(num, " ")
	if len(den) == 0 {
		return out
	}
	if out == "" {
		out = "1"
	}
	return out + " / " + strings.Join(den, " ")
}

func factor(label string, e *big.Rat) string {
	switch {
	case e.Cmp(big.NewRat(1, 1)) == 0:
		return label
	case e.IsInt():
		return label + "^" + e.Num().String()
	default:
		return label + "^(" + e.Num().String() + "/" + e.Denom().String() + ")"
	}
}

// maxExponentDenominator bounds the rationals accepted as dimension
// exponents.
const maxExponentDenominator = 100

// exponentRat finds the rational with denominator at most
// maxExponentDenominator that matches x to within 1e-9, using the
// continued-fraction expansion of x.
func exponentRat(x float64) (*big.Rat, bool) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil, false
	}
	if x == math.Trunc(x) && math.Abs(x) < 1<<53 {
		return new(big.Rat).SetInt64(int64(x)), true
	}

	// h/k convergents
	h0, h1 := int64(0), int64(1)
	k0, k1 := int64(1), int64(0)
	r := x
	for i := 0; i < 64; i++ {
		a := math.Floor(r)
		if math.Abs(a) > 1<<53 {
			return nil, false
		}
		ai := int64(a)
		h0, h1 = h1, ai*h1+h0
		k0, k1 = k1, ai*k1+k0
		if k1 > maxExponentDenominator {
			return nil, false
		}
		if math.Abs(float64(h1)/float64(k1)-x) < 1e-9 {
			return big.NewRat(h1, k1), true
		}
		frac := r - a
		if frac == 0 {
			break
		}
		r = 1 / frac
	}
	return nil, false
}
