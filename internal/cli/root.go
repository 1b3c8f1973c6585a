package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/onboarding/internal/config"
	"github.com/alexanderramin/onboarding/internal/onboarding"
	"github.com/alexanderramin/onboarding/internal/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// App holds the collaborators the commands run against.
type App struct {
	Config *config.Config
	Logger *zap.Logger

	Extractor onboarding.GoalExtractor
	Templates onboarding.TemplateSource
	Completer onboarding.Completer
	Identity  onboarding.EmailSource

	Status *service.StatusService
	Drafts *service.DraftService

	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool
	// RunTUI runs a bubbletea program to completion.
	RunTUI func(ctx context.Context, m tea.Model) (tea.Model, error)
}

// Wiring builds the App for a loaded configuration. The returned func
// releases whatever the App holds open.
type Wiring func(ctx context.Context, cfg *config.Config) (*App, func(), error)

// NewRootCmd creates the top-level "onboard" command. Running it without a
// subcommand starts the interactive wizard.
func NewRootCmd(wire Wiring) *cobra.Command {
	app := &App{}
	var cfgFile string
	cleanup := func() {}

	root := &cobra.Command{
		Use:           "onboard",
		Short:         "Sustainability onboarding wizard",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.Options{File: cfgFile, Flags: cmd.Flags()})
			if err != nil {
				return err
			}
			wired, release, err := wire(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("initializing: %w", err)
			}
			*app = *wired
			if release != nil {
				cleanup = release
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			cleanup()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default ~/.onboard/config.yaml)")
	flags.String("db", "", "SQLite database path")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-file", "", "log file path")
	flags.BoolP("verbose", "v", false, "also log to stderr")
	flags.String("email", "", "email of the onboarding user")
	flags.String("id-token", "", "OIDC ID token carrying the user's email")
	flags.String("pdf-api", "", "base URL of the PDF text service")
	flags.String("ai-api", "", "base URL of the goal extraction service")
	flags.String("api", "", "base URL of the user and goals API")
	flags.Int("concurrency", 0, "reports analysed in parallel")

	run := newRunCmd(app)
	root.RunE = run.RunE
	root.Flags().AddFlagSet(run.Flags())

	root.AddCommand(
		run,
		newExtractCmd(app),
		newStandardsCmd(),
		newStatusCmd(app),
		newResetCmd(app),
	)
	return root
}
