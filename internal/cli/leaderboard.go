package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vytor/kukudrill/internal/models"
)

func newLeaderboardCmd(env *cmdEnv) *cobra.Command {
	return &cobra.Command{
		Use:       "leaderboard <streak|total-score|high-score>",
		Short:     "Print a leaderboard",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(models.LeaderboardStreak), string(models.LeaderboardTotalScore), string(models.LeaderboardHighScore)},
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.withApp(func(app *AppContext) error {
				entries, err := app.Progress.Leaderboard(context.Background(), models.LeaderboardKind(args[0]))
				if err != nil {
					return err
				}
				if *env.asJSON {
					return printJSON(cmd.OutOrStdout(), entries)
				}

				w := newTable(cmd.OutOrStdout())
				fmt.Fprintln(w, "RANK\tPLAYER\tVALUE")
				for _, e := range entries {
					fmt.Fprintf(w, "%d\t%s\t%d\n", e.Rank, e.Nickname, e.Value)
				}
				return w.Flush()
			})
		},
	}
}
