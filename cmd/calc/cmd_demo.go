package main

import (
	"fmt"
	"io"

	"calcforge/internal/calculator"
	"calcforge/internal/ui"

	"github.com/spf13/cobra"
)

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Walk through every calculator operation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.OutOrStdout())
		},
	}
}

func runDemo(w io.Writer) error {
	styles := ui.DefaultStyles()
	fmt.Fprintln(w, styles.Banner("CALCULATOR APPLICATION - DEMO"))
	fmt.Fprintln(w)

	calc := calculator.NewAdvanced("BasicCalc", calculator.WithLogger(logger))
	show := func(label string, v float64) {
		fmt.Fprintf(w, "  %s = %s\n", label, calculator.FormatNumber(v))
	}

	fmt.Fprintln(w, styles.Section.Render("Basic Operations:"))
	show("2 + 3", calc.Add(2, 3))
	show("10 - 4", calc.Subtract(10, 4))
	show("5 * 6", calc.Multiply(5, 6))
	quot, err := calc.Divide(20, 4)
	if err != nil {
		return err
	}
	show("20 / 4", quot)
	show("2 ^ 8", calc.Power(2, 8))
	root, err := calc.Sqrt(16)
	if err != nil {
		return err
	}
	show("√16", root)
	fmt.Fprintln(w)

	adv := calculator.NewAdvanced("AdvancedCalc", calculator.WithLogger(logger))
	fmt.Fprintln(w, styles.Section.Render("Advanced Operations:"))
	show("15% of 200", adv.Percentage(200, 15))
	fact, err := adv.Factorial(5)
	if err != nil {
		return err
	}
	show("5!", float64(fact))
	fmt.Fprintln(w)

	fmt.Fprintln(w, styles.Section.Render("Calculation History:"))
	for _, e := range calc.History() {
		fmt.Fprintf(w, "  %s\n", e)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, styles.Banner("Demo complete!"))
	return nil
}
