// ledger-summary prints the program -> activity -> account realization summary of one fiscal
// year from the new portal database, and optionally writes it to an xlsx file.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"bitbucket.org/mmdatafocus/portal_backend/config"
	"bitbucket.org/mmdatafocus/portal_backend/summary"
	"github.com/spf13/cobra"
)

func main() {
	var year int
	var xlsx string

	cmd := &cobra.Command{
		Use:          "ledger-summary",
		Short:        "Summarize budget realization per program, activity and account",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := config.NewViper()
			logger := config.NewLogger(v.GetString("LOG_LEVEL"), os.Stderr)
			dbCfg := config.LoadDBConfig(v, config.TargetPrefix)

			db, err := config.OpenDatabase(cmd.Context(), dbCfg, logger)
			if err != nil {
				return fmt.Errorf("connect %s: %w", dbCfg.Address(), err)
			}
			defer config.CloseDatabase(db)

			rows, err := summary.LoadLedgerRows(cmd.Context(), db, year)
			if err != nil {
				return fmt.Errorf("load ledger rows: %w", err)
			}

			programs := summary.Summarize(rows)
			totals := summary.GrandTotals(rows)
			mismatches := summary.CheckRemaining(rows)
			printTree(os.Stdout, year, programs, totals, mismatches)

			if xlsx != "" {
				if err := summary.ExportExcel(programs, totals, xlsx); err != nil {
					return fmt.Errorf("export %s: %w", xlsx, err)
				}
				fmt.Printf("written %s\n", xlsx)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "Fiscal year")
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "Also write the summary to this xlsx file")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printTree(w io.Writer, year int, programs []*summary.ProgramNode, totals summary.Totals, mismatches []summary.Mismatch) {
	fmt.Fprintf(w, "Fiscal year %d\n", year)
	for _, p := range programs {
		pt := p.Totals()
		fmt.Fprintf(w, "%s %s  %s / %s (%s%%)\n", p.Code, p.Name, pt.Realization.StringFixed(2), pt.Budget.StringFixed(2), pt.Percentage().StringFixed(2))
		for _, a := range p.Activities {
			fmt.Fprintf(w, "  %s %s\n", a.Code, a.Name)
			for _, acc := range a.Accounts {
				flag := ""
				if acc.IsOverRealized() {
					flag = "  OVER"
				}
				fmt.Fprintf(w, "    %s %-40s budget %s  real %s  remaining %s  %s%%%s\n",
					acc.Code, acc.Name,
					acc.BudgetAmount.StringFixed(2), acc.TotalRealization.StringFixed(2),
					acc.RemainingBudget.StringFixed(2), acc.Percentage().StringFixed(2), flag)
			}
		}
	}
	fmt.Fprintf(w, "TOTAL budget %s  realization %s  remaining %s  %s%%\n",
		totals.Budget.StringFixed(2), totals.Realization.StringFixed(2),
		totals.Remaining().StringFixed(2), totals.Percentage().StringFixed(2))
	for _, m := range mismatches {
		fmt.Fprintf(w, "warning: %s/%s remaining %s, expected %s\n",
			m.Row.ActivityCode, m.Row.AccountCode, m.Row.RemainingBudget.StringFixed(2), m.Expected.StringFixed(2))
	}
}
