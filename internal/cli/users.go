package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vytor/kukudrill/internal/models"
)

func newUsersCmd(env *cmdEnv) *cobra.Command {
	var grade, class string

	cmd := &cobra.Command{
		Use:   "users",
		Short: "List players",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter models.UserFilter
			if cmd.Flags().Changed("grade") {
				filter.Grade = &grade
			}
			if cmd.Flags().Changed("class") {
				filter.Class = &class
			}

			return env.withApp(func(app *AppContext) error {
				users, err := app.Users.ListUsers(context.Background(), filter)
				if err != nil {
					return err
				}
				if *env.asJSON {
					return printJSON(cmd.OutOrStdout(), users)
				}

				w := newTable(cmd.OutOrStdout())
				fmt.Fprintln(w, "ID\tNICKNAME\tGRADE\tCLASS")
				for _, u := range users {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Nickname, orDash(u.Grade), orDash(u.Class))
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&grade, "grade", "", "Only players in this grade")
	cmd.Flags().StringVar(&class, "class", "", "Only players in this class")
	return cmd
}
