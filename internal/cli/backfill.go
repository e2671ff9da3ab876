package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newBackfillCmd(env *cmdEnv) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Reconstruct timestamps and session ids for legacy records",
		Long: `Rewrite attempt records stored without timestamps. Records are packed into
sessions of ten, five minutes apart, ending on the player's last practice day.

Examples:
  kukuctl backfill                 # Every player
  kukuctl backfill --user <id>     # One player`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.withApp(func(app *AppContext) error {
				ctx := context.Background()
				out := cmd.OutOrStdout()
				if userID != "" {
					n, err := app.Stats.Backfill(ctx, userID)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Rewrote %d records for %s\n", n, userID)
					return nil
				}
				changed, err := app.Stats.BackfillAll(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Backfilled %d players\n", changed)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "", "Only backfill this user ID")
	return cmd
}
