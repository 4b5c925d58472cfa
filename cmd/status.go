package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var flagShowDiff bool

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"s"},
	Short:   "Summarize uncommitted changes in the repository",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		return runStatus(cmd.Context(), d, flagShowDiff)
	},
}

func init() {
	statusCmd.Flags().BoolVarP(&flagShowDiff, "show-diff", "d", false, "show diff preview")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(ctx context.Context, d *deps, showDiff bool) error {
	d.logger.Git("Repository: %s", d.extractor.RepoName())

	st, err := d.extractor.Status(ctx)
	if err != nil {
		return err
	}
	d.logger.Branch("Branch: %s", st.Branch)
	if len(st.Staged) > 0 {
		d.logger.Diff("Staged: %d files", len(st.Staged))
	}
	if len(st.Modified) > 0 {
		d.logger.Diff("Modified: %d files", len(st.Modified))
	}
	if len(st.Untracked) > 0 {
		d.logger.Info("Untracked: %d files", len(st.Untracked))
	}

	if last, err := d.extractor.LastActivity(ctx); err == nil && !last.IsZero() {
		d.logger.Info("Last commit: %s", last.Format("2006-01-02 15:04"))
	}

	res, err := d.pipe.Status(ctx)
	if err != nil {
		return err
	}
	if res.Empty {
		d.logger.Success("Working tree is clean. Nothing to summarize.")
		return nil
	}

	d.logger.Diff("%d files changed, +%d, -%d",
		len(res.Payload.Files), additions(res), deletions(res))

	if showDiff {
		d.logger.Step("Diff preview:")
		printPanel(res.Payload.Content)
	}

	d.logger.Step("AI summary:")
	printPanel(res.Status.Text)
	return nil
}
