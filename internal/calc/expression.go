package calc

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrMalformed       = errors.New("expression must be <number> <operator> <number>")
	ErrOperand         = errors.New("invalid operand")
	ErrUnknownOperator = errors.New("unknown operator")
)

// Evaluate computes a three-token expression such as "3 + 4". Division by
// zero follows float semantics and yields Inf or NaN.
func Evaluate(expr string) (float64, error) {
	tokens := strings.Split(expr, " ")
	if len(tokens) != 3 {
		return 0, errors.Wrapf(ErrMalformed, "got %d tokens", len(tokens))
	}

	a, err := parseOperand(tokens[0])
	if err != nil {
		return 0, err
	}
	b, err := parseOperand(tokens[2])
	if err != nil {
		return 0, err
	}

	switch tokens[1] {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/":
		return a / b, nil
	}
	return 0, errors.Wrapf(ErrUnknownOperator, "%q", tokens[1])
}

func parseOperand(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, errors.Wrapf(ErrOperand, "%q", s)
	}
	return v, nil
}

// Equals returns expr with " = <result>" appended.
func Equals(expr string) (string, error) {
	v, err := Evaluate(expr)
	if err != nil {
		return expr, err
	}
	return expr + " = " + FormatResult(v), nil
}

// FormatResult renders v the way a double prints in the calculator
// display: at least one fractional digit, scientific notation outside
// [1e-3, 1e7), and the words Infinity and NaN.
func FormatResult(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		if math.Signbit(v) {
			return "-0.0"
		}
		return "0.0"
	}

	abs := math.Abs(v)
	if abs >= 1e-3 && abs < 1e7 {
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}

	s := strconv.FormatFloat(v, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	if !strings.Contains(mant, ".") {
		mant += ".0"
	}
	n, _ := strconv.Atoi(exp)
	return mant + "E" + strconv.Itoa(n)
}
