package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/vytor/kukudrill/internal/models"
)

func newReportCmd(env *cmdEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "report <user-id>",
		Short: "Print a player's attempt analytics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.withApp(func(app *AppContext) error {
				report, err := app.Stats.Analyze(context.Background(), args[0])
				if err != nil {
					return err
				}
				if *env.asJSON {
					return printJSON(cmd.OutOrStdout(), report)
				}
				return printReport(cmd.OutOrStdout(), report)
			})
		},
	}
}

func printReport(out io.Writer, r *models.Report) error {
	fmt.Fprintf(out, "Attempts: %d  Accuracy: %s  Avg time: %s\n",
		r.TotalAttempts, percent(r.OverallAccuracy), seconds(r.AvgResponseTime))
	if r.TotalAttempts == 0 {
		return nil
	}

	fmt.Fprintln(out)
	w := newTable(out)
	fmt.Fprintln(w, "DAN\tATTEMPTS\tACCURACY\tAVG TIME")
	for _, m := range r.PerMultiplierStats {
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\n", m.Multiplier, m.Attempts, percent(m.Accuracy), seconds(m.AvgResponseTime))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	printFacts(out, "Weak facts", r.WeakFacts)
	printFacts(out, "Strong facts", r.StrongFacts)
	printFacts(out, "Slowest facts", r.SlowestFacts)
	return nil
}

func printFacts(out io.Writer, title string, facts []models.FactStat) {
	if len(facts) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s:\n", title)
	for _, f := range facts {
		fmt.Fprintf(out, "  %-5s %d attempts, %s errors, %s\n",
			f.Fact.String(), f.Attempts, percent(f.ErrorRate), seconds(f.AvgResponseTime))
	}
}
