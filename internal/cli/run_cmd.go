package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/onboarding/internal/cli/formatter"
	"github.com/alexanderramin/onboarding/internal/onboarding"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ErrNotInteractive is returned when the wizard is started without a
// terminal.
var ErrNotInteractive = errors.New("the onboarding wizard needs an interactive terminal; use 'onboard extract' for scripted runs")

func newRunCmd(app *App) *cobra.Command {
	var force, fresh bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start or resume the onboarding wizard",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if app.IsInteractive != nil && !app.IsInteractive() {
				return ErrNotInteractive
			}

			done, err := app.Status.IsComplete(ctx)
			if err != nil {
				return fmt.Errorf("checking onboarding status: %w", err)
			}
			if done && !force {
				fmt.Fprintln(out, formatter.StyleGreen.Render("✔ Onboarding is already complete."))
				fmt.Fprintln(out, formatter.Dim("Run 'onboard status' for details or 'onboard run --force' to onboard again."))
				return nil
			}

			initial := onboarding.InitialState()
			if !fresh {
				state, ok, err := app.Drafts.Resume(ctx)
				if err != nil {
					app.Logger.Warn("could not resume draft", zap.Error(err))
				}
				if ok {
					initial = state
				}
			}

			store := onboarding.NewStore(initial, onboarding.WithLogger(app.Logger.Named("store")))
			app.Drafts.Attach(store)
			wiz := onboarding.NewWizard(store, app.Extractor, app.Templates, app.Completer, app.Identity,
				onboarding.WithMaxFileSize(app.Config.PDF.MaxFileBytes()),
				onboarding.WithWizardLogger(app.Logger.Named("wizard")),
			)

			final, err := app.RunTUI(ctx, newWizardModel(ctx, wiz))
			if err != nil {
				return fmt.Errorf("running wizard: %w", err)
			}
			m, ok := final.(wizardModel)
			if !ok || !m.Completed() {
				fmt.Fprintln(out, formatter.Dim("Progress saved. Run 'onboard' to continue where you left off."))
				return nil
			}

			st := wiz.State()
			fmt.Fprintln(out, formatter.StyleGreen.Render("✔ Onboarding complete for "+st.Company.Name))
			fmt.Fprintln(out, formatter.Dim(formatter.GoalSummary(st.ExtractedGoals)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "run the wizard even if onboarding is complete")
	cmd.Flags().BoolVar(&fresh, "fresh", false, "ignore any saved draft")
	return cmd
}
