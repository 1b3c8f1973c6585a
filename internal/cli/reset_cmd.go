package cli

import (
	"fmt"

	"github.com/alexanderramin/onboarding/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newResetCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear the completion flag and any saved draft",
		Long: `Clear the local completion flag and discard saved drafts so the wizard
starts over. Completion history and goals stored by the API are kept.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !yes {
				if app.IsInteractive == nil || !app.IsInteractive() {
					return fmt.Errorf("refusing to reset without --yes")
				}
				confirmed := false
				err := huh.NewForm(huh.NewGroup(
					huh.NewConfirm().
						Title("Reset onboarding?").
						Description("The completion flag and saved drafts are removed.").
						Affirmative("Reset").
						Negative("Cancel").
						Value(&confirmed),
				)).WithTheme(onboardHuhTheme()).RunWithContext(cmd.Context())
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(out, formatter.Dim("Cancelled."))
					return nil
				}
			}

			n, err := app.Status.Reset(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s %s\n",
				formatter.StyleGreen.Render("✔ Onboarding reset."),
				formatter.Dim(fmt.Sprintf("%d draft(s) removed.", n)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
