package calculator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const number = `([-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?)`

var (
	binaryExpr  = regexp.MustCompile(`^` + number + `\s*([-+*/^])\s*` + number + `$`)
	sqrtExpr    = regexp.MustCompile(`^(?:sqrt|√)\s*\(?\s*` + number + `\s*\)?$`)
	factExpr    = regexp.MustCompile(`^` + number + `\s*!$`)
	factWord    = regexp.MustCompile(`^fact(?:orial)?\s*\(?\s*` + number + `\s*\)?$`)
	percentExpr = regexp.MustCompile(`^` + number + `\s*%\s*(?:of\s+)?` + number + `$`)
	plainNumber = regexp.MustCompile(`^` + number + `$`)
)

// Evaluate parses and runs a single calculation:
//
//	2 + 3    10 - 4    5 * 6    20 / 4    2 ^ 8
//	sqrt 16  √16       5!       fact 5    15% of 200
//
// A bare number evaluates to itself and is not recorded. Malformed input
// returns an error wrapping ErrSyntax.
func (a *Advanced) Evaluate(line string) (float64, error) {
	expr := strings.ToLower(strings.TrimSpace(line))
	if expr == "" {
		return 0, fmt.Errorf("%w: empty expression", ErrSyntax)
	}

	if m := binaryExpr.FindStringSubmatch(expr); m != nil {
		x, y, err := parsePair(m[1], m[3])
		if err != nil {
			return 0, err
		}
		switch m[2] {
		case "+":
			return a.Add(x, y), nil
		case "-":
			return a.Subtract(x, y), nil
		case "*":
			return a.Multiply(x, y), nil
		case "/":
			return a.Divide(x, y)
		case "^":
			return a.Power(x, y), nil
		}
	}

	if m := sqrtExpr.FindStringSubmatch(expr); m != nil {
		x, err := parseNumber(m[1])
		if err != nil {
			return 0, err
		}
		return a.Sqrt(x)
	}

	if m := percentExpr.FindStringSubmatch(expr); m != nil {
		percent, num, err := parsePair(m[1], m[2])
		if err != nil {
			return 0, err
		}
		return a.Percentage(num, percent), nil
	}

	m := factExpr.FindStringSubmatch(expr)
	if m == nil {
		m = factWord.FindStringSubmatch(expr)
	}
	if m != nil {
		x, err := parseNumber(m[1])
		if err != nil {
			return 0, err
		}
		n, err := AsInteger(x)
		if err != nil {
			return 0, err
		}
		f, err := a.Factorial(n)
		return float64(f), err
	}

	if m := plainNumber.FindStringSubmatch(expr); m != nil {
		return parseNumber(m[1])
	}

	return 0, fmt.Errorf("%w: %q", ErrSyntax, line)
}

func parsePair(a, b string) (float64, float64, error) {
	x, err := parseNumber(a)
	if err != nil {
		return 0, 0, err
	}
	y, err := parseNumber(b)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad number %q", ErrSyntax, s)
	}
	return v, nil
}
