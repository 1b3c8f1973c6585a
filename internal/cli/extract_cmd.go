package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexanderramin/onboarding/internal/cli/formatter"
	"github.com/alexanderramin/onboarding/internal/domain"
	"github.com/alexanderramin/onboarding/internal/onboarding"
	"github.com/spf13/cobra"
)

func newExtractCmd(app *App) *cobra.Command {
	var standards []string
	var skip bool
	var format string

	cmd := &cobra.Command{
		Use:   "extract [report.pdf...]",
		Short: "Extract goals from reports without the wizard",
		Long: `Analyse sustainability reports and print the extracted goals.

With --skip no report is read and the goals come from the selected
standards alone.`,
		Example: `  onboard extract report.pdf --standard iso-14001
  onboard extract --skip --standard eu-taxonomy --standard iso-9001 --format text`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if format != "json" && format != "text" {
				return fmt.Errorf("unknown format %q: use json or text", format)
			}
			for _, id := range standards {
				if domain.StandardName(id) == "" {
					return fmt.Errorf("unknown compliance standard %q; see 'onboard standards'", id)
				}
			}
			if len(standards) == 0 {
				return errors.New("select at least one compliance standard with --standard")
			}

			var goals *domain.GoalCollection
			if skip {
				goals = app.Templates.FromStandards(standards)
			} else {
				if len(args) == 0 {
					return errors.New("pass at least one report, or --skip to use standards only")
				}
				files, err := onboarding.FilesFromPaths(args)
				if err != nil {
					return err
				}
				for _, f := range files {
					if !f.IsPDF() {
						return fmt.Errorf("%s: only PDF files are supported", f.Name)
					}
					if f.Size > app.Config.PDF.MaxFileBytes() {
						return fmt.Errorf("%s: larger than %s", f.Name, onboarding.FormatFileSize(app.Config.PDF.MaxFileBytes()))
					}
				}

				stop := func() {}
				if app.IsInteractive != nil && app.IsInteractive() {
					stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Analyzing reports…")
				}
				goals, err = app.Extractor.Extract(ctx, files, standards)
				stop()
				if err != nil {
					return fmt.Errorf("extracting goals: %w", err)
				}
			}

			out := cmd.OutOrStdout()
			if format == "text" {
				fmt.Fprintln(out, formatter.Dim(formatter.GoalSummary(goals)))
				fmt.Fprint(out, formatter.RenderGoals(goals))
				return nil
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(goals)
		},
	}

	cmd.Flags().StringSliceVarP(&standards, "standard", "s", nil, "compliance standard id (repeatable)")
	cmd.Flags().BoolVar(&skip, "skip", false, "skip reports and use the standards templates")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or text")
	return cmd
}
