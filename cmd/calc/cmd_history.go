package main

import (
	"fmt"

	"calcforge/internal/store"

	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show persisted calculations, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			hs, err := store.Open(cmd.Context(), cfg.Calculator.HistoryDB, logger)
			if err != nil {
				return err
			}
			defer hs.Close()

			records, err := hs.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No calculations recorded.")
				return nil
			}
			for _, r := range records {
				fmt.Fprintf(out, "%5d  %s  %-14s %s\n",
					r.ID, r.Entry.At.Local().Format("2006-01-02 15:04:05"), r.Calculator, r)
			}
			return nil
		},
	}
	historyCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show (0 for all)")

	historyCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete all persisted calculations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			hs, err := store.Open(cmd.Context(), cfg.Calculator.HistoryDB, logger)
			if err != nil {
				return err
			}
			defer hs.Close()

			n, err := hs.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d calculations.\n", n)
			return nil
		},
	})
	return historyCmd
}
