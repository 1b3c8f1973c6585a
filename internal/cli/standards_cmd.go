package cli

import (
	"fmt"

	"github.com/alexanderramin/onboarding/internal/cli/formatter"
	"github.com/alexanderramin/onboarding/internal/domain"
	"github.com/alexanderramin/onboarding/internal/extraction"
	"github.com/spf13/cobra"
)

func newStandardsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "standards",
		Short: "List the selectable compliance standards",
		RunE: func(cmd *cobra.Command, args []string) error {
			templates := make(map[string]string, len(domain.Standards))
			for _, s := range domain.Standards {
				if goals := extraction.StandardsGoals([]string{s.ID}); len(goals) > 0 {
					templates[s.ID] = goals[0].Title
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStandards(templates))
			return nil
		},
	}
}
