package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/cockroachdb/errors"

	"github.com/saint0x/ggsum/pkg/export"
	"github.com/saint0x/ggsum/pkg/slack"
)

var (
	flagDays     int
	flagSavePath string
	flagSlack    bool
)

var reportCmd = &cobra.Command{
	Use:     "report",
	Aliases: []string{"r"},
	Short:   "Generate a progress report for recent commits",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		days := flagDays
		if days <= 0 {
			days = d.cfg.DefaultDays
		}
		return runReport(cmd.Context(), d, days, flagSavePath, flagSlack)
	},
}

func init() {
	reportCmd.Flags().IntVarP(&flagDays, "days", "d", 0, "number of days to include")
	reportCmd.Flags().StringVarP(&flagSavePath, "save", "s", "", "save report as a Markdown file")
	reportCmd.Flags().BoolVar(&flagSlack, "slack", false, "send report to Slack (requires SLACK_WEBHOOK_URL)")
	rootCmd.AddCommand(reportCmd)
}

func runReport(ctx context.Context, d *deps, days int, savePath string, sendSlack bool) error {
	d.logger.Git("Repository: %s", d.extractor.RepoName())

	if sendSlack && d.cfg.SlackWebhookURL == "" {
		return errors.WithHint(
			errors.New("slack webhook not configured"),
			"Set SLACK_WEBHOOK_URL in your environment or .env file.",
		)
	}

	res, err := d.pipe.Report(ctx, days)
	if err != nil {
		return err
	}
	if res.Empty {
		d.logger.Warning("No commits found in the last %d days.", days)
		return nil
	}

	d.logger.Report("Found %d commits in the last %d days", len(res.Commits), days)
	for _, entry := range res.Report.Entries {
		if !entry.Day.IsZero() {
			d.logger.Report("%s: %d items", entry.Day.Format("2006-01-02"), len(entry.Bullets))
		}
	}
	printPanel(res.Report.Raw)

	// External writes happen only now, with the full result in hand.
	if savePath != "" {
		saved, err := export.WriteReport(savePath, d.extractor.RepoName(), days, len(res.Commits), res.Report.Raw, res.Commits)
		if err != nil {
			return err
		}
		d.logger.Success("Report saved to: %s", saved)
	}

	if sendSlack {
		sender := slack.New(d.cfg.SlackWebhookURL)
		if err := sender.SendReport(ctx, d.extractor.RepoName(), days, len(res.Commits), res.Report.Raw, res.Commits); err != nil {
			return err
		}
		d.logger.Slack("Report sent to Slack!")
	}
	return nil
}
