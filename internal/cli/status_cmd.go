package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/onboarding/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *App) *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether onboarding is complete",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			st, err := app.Status.Status(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, formatter.FormatStatus(formatter.StatusView{
				Complete: st.Complete,
				Latest:   st.Latest,
				Draft:    st.Draft,
				Now:      time.Now(),
			}))

			if !remote {
				return nil
			}
			email, err := app.Identity.Email(ctx)
			if err != nil {
				return fmt.Errorf("resolving user email: %w", err)
			}
			raw, err := app.Status.RemoteGoals(ctx, email)
			if err != nil {
				return err
			}
			var pretty bytes.Buffer
			if err := json.Indent(&pretty, raw, "", "  "); err != nil {
				pretty.Reset()
				pretty.Write(raw)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, formatter.Header("Saved goals"))
			fmt.Fprintln(out, pretty.String())
			return nil
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "also fetch the goals stored by the API")
	return cmd
}
