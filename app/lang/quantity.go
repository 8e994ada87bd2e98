package lang

import (
	"math"
	"strconv"
)

// Quantity pairs a magnitude with its dimension vector. The magnitude is
// always expressed in root-unit terms: "3 km" is (3000, Length).
type Quantity struct {
	Magnitude float64
	Dim       Dimension
}

// Number returns a dimensionless quantity.
func Number(v float64) Quantity {
	return Quantity{Magnitude: v}
}

// IsDimensionless reports whether q is a pure number.
func (q Quantity) IsDimensionless() bool {
	return q.Dim.IsDimensionless()
}

// Neg negates the magnitude.
func (q Quantity) Neg() Quantity {
	return Quantity{Magnitude: -q.Magnitude, Dim: q.Dim}
}

// Add requires equal dimensions.
func (q Quantity) Add(o Quantity) (Quantity, error) {
	if !q.Dim.Equal(o.Dim) {
		return Quantity{}, mismatch("add", q.Dim, o.Dim)
	}
	return Quantity{Magnitude: q.Magnitude + o.Magnitude, Dim: q.Dim}, nil
}

// Sub requires equal dimensions.
func (q Quantity) Sub(o Quantity) (Quantity, error) {
	if !q.Dim.Equal(o.Dim) {
		return Quantity{}, mismatch("subtract", q.Dim, o.Dim)
	}
	return Quantity{Magnitude: q.Magnitude - o.Magnitude, Dim: q.Dim}, nil
}

// Mul multiplies magnitudes and adds dimension exponents.
func (q Quantity) Mul(o Quantity) Quantity {
	return Quantity{Magnitude: q.Magnitude * o.Magnitude, Dim: q.Dim.Mul(o.Dim)}
}

// Div divides magnitudes and subtracts dimension exponents.
func (q Quantity) Div(o Quantity) (Quantity, error) {
	if o.Magnitude == 0 {
		return Quantity{}, newError(DivisionByZeroError, "division by zero")
	}
	return Quantity{Magnitude: q.Magnitude / o.Magnitude, Dim: q.Dim.Div(o.Dim)}, nil
}

// Pow raises q to a dimensionless exponent. A dimensional base needs an
// exponent that is a simple rational so the result's dimension exponents
// stay exact.
func (q Quantity) Pow(e Quantity) (Quantity, error) {
	if !e.IsDimensionless() {
		return Quantity{}, newError(NonDimensionlessExponentError,
			"exponent must be dimensionless, got %s", e.Dim)
	}
	mag := math.Pow(q.Magnitude, e.Magnitude)
	if q.IsDimensionless() {
		return Number(mag), nil
	}
	k, ok := exponentRat(e.Magnitude)
	if !ok {
		return Quantity{}, newError(NonIntegerDimensionExponentError,
			"cannot raise %s to the power %s", q.Dim, strconv.FormatFloat(e.Magnitude, 'g', -1, 64))
	}
	return Quantity{Magnitude: mag, Dim: q.Dim.Scale(k)}, nil
}

// ConvertTo returns how many target units fit in q, as a pure number.
func (q Quantity) ConvertTo(target Quantity) (Quantity, error) {
	if !q.Dim.Equal(target.Dim) {
		return Quantity{}, newError(DimensionMismatchError,
			"cannot convert %s to %s", q.Dim, target.Dim)
	}
	if target.Magnitude == 0 {
		return Quantity{}, newError(DivisionByZeroError, "cannot convert to a zero quantity")
	}
	return Number(q.Magnitude / target.Magnitude), nil
}

func mismatch(verb string, a, b Dimension) *EvalError {
	return newError(DimensionMismatchError, "cannot %s %s and %s", verb, a, b)
}
