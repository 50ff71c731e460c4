package calculator

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Op identifies the kind of calculation recorded in an Entry.
type Op string

const (
	OpAdd        Op = "add"
	OpSubtract   Op = "subtract"
	OpMultiply   Op = "multiply"
	OpDivide     Op = "divide"
	OpPower      Op = "power"
	OpSqrt       Op = "sqrt"
	OpPercentage Op = "percentage"
	OpFactorial  Op = "factorial"
)

// Entry is a single successful calculation.
type Entry struct {
	Op       Op        `json:"op"`
	Operands []float64 `json:"operands"`
	Result   float64   `json:"result"`
	At       time.Time `json:"at"`
}

// String renders the entry the way it appears in the history listing,
// e.g. "2 + 3 = 5" or "√16 = 4".
func (e Entry) String() string {
	res := FormatNumber(e.Result)
	switch e.Op {
	case OpSqrt:
		return fmt.Sprintf("√%s = %s", e.operand(0), res)
	case OpFactorial:
		return fmt.Sprintf("%s! = %s", e.operand(0), res)
	case OpPercentage:
		// Operands are stored as (number, percent).
		return fmt.Sprintf("%s%% of %s = %s", e.operand(1), e.operand(0), res)
	}
	return fmt.Sprintf("%s %s %s = %s", e.operand(0), e.Op.Symbol(), e.operand(1), res)
}

func (e Entry) operand(i int) string {
	if i >= len(e.Operands) {
		return "?"
	}
	return FormatNumber(e.Operands[i])
}

// Symbol returns the infix symbol for binary operations.
func (o Op) Symbol() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "*"
	case OpDivide:
		return "/"
	case OpPower:
		return "^"
	case OpSqrt:
		return "√"
	case OpPercentage:
		return "%"
	case OpFactorial:
		return "!"
	default:
		return string(o)
	}
}

// FormatNumber renders v in its shortest exact form ("5", "3.5", "1e-10").
// Integral values below 1e21 are never written in exponent form.
func FormatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
