package operation

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/mkruglikov/decalc/internal/calcerr"
)

var (
	one     = decimal.NewFromInt(1)
	two     = decimal.NewFromInt(2)
	hundred = decimal.NewFromInt(100)
)

// fromFloat converts a float64 intermediate back to decimal. Power and Root
// go through binary floating point for non-integer exponents, so a non-finite
// value must be rejected before the decimal constructor panics on it.
func fromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Decimal{}, &calcerr.OperationError{Msg: "result is not a finite number"}
	}
	return decimal.NewFromFloat(f), nil
}

func zeroDivisor(y decimal.Decimal) error {
	if y.IsZero() {
		return &calcerr.ValidationError{Msg: "Divisor operand cannot be 0"}
	}
	return nil
}

// Addition sums its operands.
type Addition struct{}

func (Addition) Name() string { return "add" }
func (Addition) Validate(_, _ decimal.Decimal) error { return nil }
func (Addition) Execute(x, y decimal.Decimal) (decimal.Decimal, error) {
	return x.Add(y), nil
}

// Subtraction returns the difference of y from x.
type Subtraction struct{}

func (Subtraction) Name() string { return "subtract" }
func (Subtraction) Validate(_, _ decimal.Decimal) error { return nil }
func (Subtraction) Execute(x, y decimal.Decimal) (decimal.Decimal, error) {
	return x.Sub(y), nil
}

// Multiplication returns the product of its operands.
type Multiplication struct{}

func (Multiplication) Name() string { return "multiply" }
func (Multiplication) Validate(_, _ decimal.Decimal) error { return nil }
func (Multiplication) Execute(x, y decimal.Decimal) (decimal.Decimal, error) {
	return x.Mul(y), nil
}

// Division returns the quotient x / y.
type Division struct{}

func (Division) Name() string { return "divide" }

func (Division) Validate(_, y decimal.Decimal) error { return zeroDivisor(y) }

func (d Division) Execute(x, y decimal.Decimal) (decimal.Decimal, error) {
	if err := d.Validate(x, y); err != nil {
		return decimal.Decimal{}, err
	}
	return x.Div(y), nil
}

// Power raises x to the power y. A zero base short-circuits to zero and a
// negative exponent computes the reciprocal of x^|y|. The exponentiation
// itself runs in float64.
type Power struct{}

func (Power) Name() string { return "power" }
func (Power) Validate(_, _ decimal.Decimal) error { return nil }

func (Power) Execute(x, y decimal.Decimal) (decimal.Decimal, error) {
	if x.IsZero() {
		return decimal.Zero, nil
	}
	xf, _ := x.Float64()
	yf, _ := y.Float64()
	if y.IsNegative() {
		return fromFloat(1 / math.Pow(xf, -yf))
	}
	return fromFloat(math.Pow(xf, yf))
}

// Root computes the yth root of x. The sign of a negative radicand is
// factored out first, so the float64 exponentiation always sees a positive
// base; a negative degree yields sign / base^(1/|y|).
type Root struct{}

func (Root) Name() string { return "root" }

func (Root) Validate(x, y decimal.Decimal) error {
	if x.IsNegative() && y.Mod(two).IsZero() {
		return &calcerr.ValidationError{Msg: "Imaginary roots not supported"}
	}
	if y.IsZero() {
		return &calcerr.ValidationError{Msg: "Zero radicand is undefined"}
	}
	return nil
}

func (r Root) Execute(x, y decimal.Decimal) (decimal.Decimal, error) {
	if err := r.Validate(x, y); err != nil {
		return decimal.Decimal{}, err
	}
	if x.IsZero() {
		return decimal.Zero, nil
	}
	base, sign := x, 1.0
	if x.IsNegative() {
		base, sign = x.Neg(), -1.0
	}
	bf, _ := base.Float64()
	yf, _ := y.Float64()
	if y.IsNegative() {
		return fromFloat(sign / math.Pow(bf, 1/-yf))
	}
	return fromFloat(sign * math.Pow(bf, 1/yf))
}

// Modulus returns x mod y. The result takes the dividend's sign.
type Modulus struct{}

func (Modulus) Name() string { return "modulus" }

func (Modulus) Validate(_, y decimal.Decimal) error { return zeroDivisor(y) }

func (m Modulus) Execute(x, y decimal.Decimal) (decimal.Decimal, error) {
	if err := m.Validate(x, y); err != nil {
		return decimal.Decimal{}, err
	}
	return x.Mod(y), nil
}

// IntegerDivision returns floor(x / y). The quotient is computed exactly via
// truncated division plus remainder, not through rounded decimal division,
// so a quotient just below an integer cannot round up across it.
type IntegerDivision struct{}

func (IntegerDivision) Name() string { return "int_divide" }

func (IntegerDivision) Validate(_, y decimal.Decimal) error { return zeroDivisor(y) }

func (i IntegerDivision) Execute(x, y decimal.Decimal) (decimal.Decimal, error) {
	if err := i.Validate(x, y); err != nil {
		return decimal.Decimal{}, err
	}
	q, r := x.QuoRem(y, 0)
	if !r.IsZero() && r.Sign() != y.Sign() {
		q = q.Sub(one)
	}
	return q, nil
}

// Percentage returns x as a percentage of y.
type Percentage struct{}

func (Percentage) Name() string { return "percentage" }

func (Percentage) Validate(_, y decimal.Decimal) error { return zeroDivisor(y) }

func (p Percentage) Execute(x, y decimal.Decimal) (decimal.Decimal, error) {
	if err := p.Validate(x, y); err != nil {
		return decimal.Decimal{}, err
	}
	return x.Div(y).Mul(hundred), nil
}

// Distance returns the absolute difference |x - y|.
type Distance struct{}

func (Distance) Name() string { return "distance" }
func (Distance) Validate(_, _ decimal.Decimal) error { return nil }
func (Distance) Execute(x, y decimal.Decimal) (decimal.Decimal, error) {
	return x.Sub(y).Abs(), nil
}
