package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vytor/kukudrill/internal/models"
)

func newCohortCmd(env *cmdEnv) *cobra.Command {
	var grade string

	cmd := &cobra.Command{
		Use:   "cohort",
		Short: "Compare grades, or the classes within one grade",
		Long: `Print group statistics per grade. With --grade, print one row per class of
that grade. Players without a grade are listed as "unset".

Examples:
  kukuctl cohort
  kukuctl cohort --grade 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.withApp(func(app *AppContext) error {
				ctx := context.Background()
				var (
					cohorts []models.CohortStat
					err     error
				)
				if grade != "" {
					cohorts, err = app.Stats.ClassStats(ctx, grade)
				} else {
					cohorts, err = app.Stats.CohortStats(ctx)
				}
				if err != nil {
					return err
				}
				if *env.asJSON {
					return printJSON(cmd.OutOrStdout(), cohorts)
				}

				w := newTable(cmd.OutOrStdout())
				fmt.Fprintln(w, "GRADE\tCLASS\tPLAYERS\tAVG SCORE\tAVG ACCURACY\tWEAK\tSTRONG")
				for _, c := range cohorts {
					fmt.Fprintf(w, "%s\t%s\t%d\t%.1f\t%s\t%s\t%s\n",
						c.Grade, orDash(c.Class), c.UserCount, c.AvgScore, percent(c.AvgAccuracy),
						joinInts(c.WeakMultipliers), joinInts(c.StrongMultipliers))
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().StringVarP(&grade, "grade", "g", "", "Break one grade down by class")
	return cmd
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func joinInts(xs []int) string {
	if len(xs) == 0 {
		return "-"
	}
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprint(x)
	}
	return strings.Join(parts, ",")
}
