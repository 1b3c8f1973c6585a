package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/onboarding/internal/cli"
	"github.com/alexanderramin/onboarding/internal/config"
	"github.com/alexanderramin/onboarding/internal/db"
	"github.com/alexanderramin/onboarding/internal/extraction"
	"github.com/alexanderramin/onboarding/internal/identity"
	"github.com/alexanderramin/onboarding/internal/llm"
	"github.com/alexanderramin/onboarding/internal/logger"
	"github.com/alexanderramin/onboarding/internal/pdftext"
	"github.com/alexanderramin/onboarding/internal/persist"
	"github.com/alexanderramin/onboarding/internal/repository"
	"github.com/alexanderramin/onboarding/internal/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd(wire).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// wire builds every collaborator from the loaded configuration.
func wire(ctx context.Context, cfg *config.Config) (*cli.App, func(), error) {
	log, err := logger.New(logger.Options{
		File:    cfg.Log.File,
		Level:   cfg.Log.Level,
		Console: cfg.Log.Console,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("creating logger: %w", err)
	}

	database, err := db.OpenDB(cfg.DB.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	cleanup := func() {
		_ = database.Close()
		_ = log.Sync()
	}

	// Repositories and unit of work
	drafts := repository.NewSQLiteDraftRepo(database)
	flags := repository.NewSQLiteFlagRepo(database)
	completions := repository.NewSQLiteCompletionRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	// Remote collaborators
	api := persist.NewClient(persist.Config{
		Endpoint:   cfg.Persist.Endpoint,
		Timeout:    cfg.Persist.Timeout(),
		MaxRetries: cfg.Persist.MaxRetries,
	}, log.Named("persist"))

	var text pdftext.Extractor = pdftext.NewRemote(pdftext.RemoteConfig{
		Endpoint:   cfg.PDF.Endpoint,
		Timeout:    cfg.PDF.Timeout(),
		MaxRetries: cfg.PDF.MaxRetries,
	}, log.Named("pdftext"))
	if cfg.PDF.LocalFallback {
		text = pdftext.Fallback{Primary: text, Secondary: pdftext.Local{}, Logger: log.Named("pdftext")}
	}
	if cfg.PDF.CacheSize > 0 {
		cached, err := pdftext.NewCached(text, cfg.PDF.CacheSize)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("creating text cache: %w", err)
		}
		text = cached
	}

	var observer llm.Observer = llm.NoopObserver{}
	if cfg.LLM.LogCalls {
		observer = llm.NewLogObserver(log.Named("llm"))
	}
	ai := llm.NewClient(llm.Config{
		Endpoint:   cfg.LLM.Endpoint,
		TimeoutMs:  cfg.LLM.TimeoutMs,
		MaxRetries: cfg.LLM.MaxRetries,
		LogCalls:   cfg.LLM.LogCalls,
	}, observer, log.Named("llm"))

	pipeline := extraction.NewPipeline(text, ai,
		extraction.WithConcurrency(cfg.Extract.Concurrency),
		extraction.WithLogger(log.Named("extraction")),
	)

	ident := identity.First{
		identity.Token{Raw: cfg.Identity.IDToken, Secret: []byte(cfg.Identity.JWTSecret)},
		identity.Static{Address: cfg.Identity.Email},
	}

	// Services
	useCases := service.NewLogUseCaseObserver(log.Named("usecase"))
	app := &cli.App{
		Config:    cfg,
		Logger:    log,
		Extractor: pipeline,
		Templates: pipeline,
		Completer: service.NewCompletionService(api, uow, useCases),
		Identity:  ident,
		Status:    service.NewStatusService(flags, completions, drafts, api, uow, useCases),
		Drafts:    service.NewDraftService(drafts, log.Named("drafts")),
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
		RunTUI: func(ctx context.Context, m tea.Model) (tea.Model, error) {
			return tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		},
	}
	log.Debug("wired", zap.String("db", cfg.DB.Path), zap.String("home", cfg.Home))
	return app, cleanup, nil
}
