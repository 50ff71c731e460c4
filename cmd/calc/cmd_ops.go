package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"calcforge/internal/calculator"

	"github.com/spf13/cobra"
)

type binaryOp struct {
	use     string
	aliases []string
	short   string
	apply   func(c *calculator.Advanced, a, b float64) (float64, error)
}

type unaryOp struct {
	use     string
	aliases []string
	short   string
	apply   func(c *calculator.Advanced, x float64) (float64, error)
}

var binaryOps = []binaryOp{
	{"add a b", nil, "Add two numbers", func(c *calculator.Advanced, a, b float64) (float64, error) {
		return c.Add(a, b), nil
	}},
	{"sub a b", []string{"subtract"}, "Subtract b from a", func(c *calculator.Advanced, a, b float64) (float64, error) {
		return c.Subtract(a, b), nil
	}},
	{"mul a b", []string{"multiply"}, "Multiply two numbers", func(c *calculator.Advanced, a, b float64) (float64, error) {
		return c.Multiply(a, b), nil
	}},
	{"div a b", []string{"divide"}, "Divide a by b", func(c *calculator.Advanced, a, b float64) (float64, error) {
		return c.Divide(a, b)
	}},
	{"pow base exponent", []string{"power"}, "Raise base to exponent", func(c *calculator.Advanced, a, b float64) (float64, error) {
		return c.Power(a, b), nil
	}},
	{"pct number percent", []string{"percentage"}, "Compute percent% of number", func(c *calculator.Advanced, a, b float64) (float64, error) {
		return c.Percentage(a, b), nil
	}},
}

var unaryOps = []unaryOp{
	{"sqrt x", nil, "Square root of x", func(c *calculator.Advanced, x float64) (float64, error) {
		return c.Sqrt(x)
	}},
	{"fact n", []string{"factorial"}, "Factorial of a non-negative integer", func(c *calculator.Advanced, x float64) (float64, error) {
		n, err := calculator.AsInteger(x)
		if err != nil {
			return 0, err
		}
		f, err := c.Factorial(n)
		return float64(f), err
	}},
}

func opCommands() []*cobra.Command {
	var cmds []*cobra.Command
	for _, op := range binaryOps {
		cmds = append(cmds, &cobra.Command{
			Use:     op.use,
			Aliases: op.aliases,
			Short:   op.short,
			Args:    cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, b, err := parseArgs(args[0], args[1])
				if err != nil {
					return err
				}
				calc := newCalculator()
				result, err := op.apply(calc, a, b)
				return finish(cmd, calc, result, err)
			},
		})
	}
	for _, op := range unaryOps {
		cmds = append(cmds, &cobra.Command{
			Use:     op.use,
			Aliases: op.aliases,
			Short:   op.short,
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				x, err := parseNumber(args[0])
				if err != nil {
					return err
				}
				calc := newCalculator()
				result, err := op.apply(calc, x)
				return finish(cmd, calc, result, err)
			},
		})
	}
	return cmds
}

func newEvalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval expression",
		Short: "Evaluate an expression such as \"2 + 3\", \"sqrt 16\" or \"15% of 200\"",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			calc := newCalculator()
			result, err := calc.Evaluate(strings.Join(args, " "))
			return finish(cmd, calc, result, err)
		},
	}
}

func finish(cmd *cobra.Command, calc *calculator.Advanced, result float64, err error) error {
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), calculator.FormatNumber(result))
	persist(cmd.Context(), calc)
	return nil
}

func parseArgs(a, b string) (float64, float64, error) {
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
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}
