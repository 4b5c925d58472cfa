// Package cmd is the ggsum CLI surface. Commands resolve flags into fully
// specified task requests and hand them to the pipeline; bare invocation
// drops into the interactive wizard.
package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/saint0x/ggsum/pkg/config"
	"github.com/saint0x/ggsum/pkg/errs"
	"github.com/saint0x/ggsum/pkg/git"
	"github.com/saint0x/ggsum/pkg/githubx"
	"github.com/saint0x/ggsum/pkg/log"
	"github.com/saint0x/ggsum/pkg/pipeline"
	"github.com/saint0x/ggsum/pkg/prompt"
	"github.com/saint0x/ggsum/pkg/provider"
	"github.com/saint0x/ggsum/pkg/wizard"
)

var (
	flagPath     string
	flagProvider string
	flagDebug    bool
)

var rootCmd = &cobra.Command{
	Use:   "ggsum",
	Short: "AI-powered git progress reports and commit messages",
	Long: `ggsum analyzes your git repository and produces human-readable
summaries of your work: status summaries, commit messages, and
progress reports.

Run without arguments for the interactive wizard.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWizard(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagPath, "path", "p", ".", "path to the git repository")
	rootCmd.PersistentFlags().StringVar(&flagProvider, "provider", "", "force a provider (openrouter|gemini)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
}

// Execute runs the CLI. Fatal errors print their kind plus any remediation
// hint and exit non-zero.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger := log.New(flagDebug)
		logger.Error("%v", err)
		if hint := errs.Hint(err); hint != "" {
			logger.Hint("%s", hint)
		}
		os.Exit(1)
	}
}

// deps is everything a command needs, built once per invocation.
type deps struct {
	logger    *log.Logger
	cfg       *config.Config
	extractor *git.Extractor
	pipe      *pipeline.Pipeline
}

// setup builds the shared dependency graph: config, extractor, gateway,
// optional PR enricher, pipeline.
func setup(ctx context.Context) (*deps, error) {
	logger := log.New(flagDebug)
	cfg := config.Load()
	if flagProvider != "" {
		cfg.PreferredProvider = flagProvider
	}

	extractor, err := git.New(logger, flagPath)
	if err != nil {
		return nil, err
	}

	order, err := cfg.ProviderOrder()
	if err != nil {
		return nil, err
	}

	var providers []provider.Provider
	for _, name := range order {
		switch name {
		case config.ProviderOpenRouter:
			providers = append(providers, provider.NewOpenRouter(cfg))
		case config.ProviderGemini:
			providers = append(providers, provider.NewGemini(cfg))
		}
	}

	gateway, err := provider.NewGateway(logger, providers,
		provider.WithMaxRetries(cfg.MaxRetries),
		provider.WithBackoff(cfg.BackoffBase),
	)
	if err != nil {
		return nil, err
	}

	var enricher pipeline.Enricher
	if cfg.GitHubToken != "" {
		if remote := extractor.RemoteURL(ctx); remote != "" {
			if e, err := githubx.New(logger, cfg.GitHubToken, remote); err == nil {
				enricher = e
			} else {
				logger.Debug("PR enrichment disabled: %v", err)
			}
		}
	}

	return &deps{
		logger:    logger,
		cfg:       cfg,
		extractor: extractor,
		pipe:      pipeline.New(logger, cfg, extractor, gateway, enricher),
	}, nil
}

// runWizard gathers a resolved request interactively and dispatches it.
func runWizard(ctx context.Context) error {
	cfg := config.Load()
	req, err := wizard.Run(wizard.Request{Days: cfg.DefaultDays})
	if err != nil {
		return err
	}
	if req.Aborted {
		log.New(flagDebug).Info("Goodbye! 👋")
		return nil
	}

	d, err := setup(ctx)
	if err != nil {
		return err
	}

	switch req.Task {
	case prompt.TaskCommit:
		return runCommit(ctx, d, true)
	case prompt.TaskReport:
		return runReport(ctx, d, req.Days, req.SavePath, req.SendSlack)
	default:
		return runStatus(ctx, d, req.ShowDiff)
	}
}
